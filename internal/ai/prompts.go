package ai

import _ "embed"

// DefaultPrompt is the instruction written by `coverletter init` when no
// prompt file exists yet.
//
//go:embed prompts/prompt.txt
var DefaultPrompt string
