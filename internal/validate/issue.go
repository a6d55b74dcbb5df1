// Package validate checks presenter notes and slide fields for truncated
// sentences and layout limits. Violations are returned as Issue values,
// never as errors; callers decide what is blocking.
package validate

import (
	"fmt"
	"strings"
)

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue locates one violation.
type Issue struct {
	Slide    int      `json:"slide"`
	Field    string   `json:"field"`
	Line     int      `json:"line,omitempty"` // 1-based, 0 when the whole field is at fault
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "slide %d %s", i.Slide, i.Field)
	if i.Line > 0 {
		fmt.Fprintf(&b, " line %d", i.Line)
	}
	fmt.Fprintf(&b, ": %s", i.Message)
	return b.String()
}

// Field names used in issues.
const (
	FieldHeader = "header"
	FieldBody   = "body"
	FieldTip    = "tip"
	FieldNotes  = "notes"
)
