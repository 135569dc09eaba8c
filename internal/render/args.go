package render

import (
	"strings"

	"github.com/amishk599/coverletter/internal/model"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes characters that are special to TeX.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// ArgsContent renders the three macro lines read by the template.
// Fields are substituted verbatim unless escape is set.
func ArgsContent(fields model.SummaryFields, escape bool) string {
	company, title, reason := fields.CompanyName, fields.PostTitle, fields.Reason
	if escape {
		company, title, reason = EscapeLaTeX(company), EscapeLaTeX(title), EscapeLaTeX(reason)
	}

	var sb strings.Builder
	sb.WriteString(`\companyname{` + company + "}\n")
	sb.WriteString(`\posttitle{` + title + "}\n")
	sb.WriteString(`\reason{` + reason + "}\n")
	return sb.String()
}
