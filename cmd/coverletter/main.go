package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/amishk599/coverletter/internal/pipeline"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var r *reportedError
		if !errors.As(err, &r) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(pipeline.ExitCode(err))
	}
}

// reportedError marks an error that was already logged with full context.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
