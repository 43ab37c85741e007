// Package diag defines the diagnostics reported by the preprocessing and
// code generation passes. Diagnostics describe locally recoverable
// problems: the offending instruction or event is skipped and the rest of
// the compile continues.
package diag

import "fmt"

// Code classifies a diagnostic.
type Code string

const (
	UnresolvedInstructionID Code = "UnresolvedInstructionId"
	UnresolvedEventTypeID   Code = "UnresolvedEventTypeId"
	ExpressionParseFailure  Code = "ExpressionParseFailure"
	MalformedRecord         Code = "MalformedSerializedRecord"
	UnresolvedLinkTarget    Code = "UnresolvedLinkTarget"
)

// Diagnostic is one recoverable problem found during a pass.
type Diagnostic struct {
	Code          Code
	Message       string
	EventType     string
	InstructionID string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s", d.Code, d.Message)
	if d.EventType != "" {
		s += fmt.Sprintf(" (event %s)", d.EventType)
	}
	if d.InstructionID != "" {
		s += fmt.Sprintf(" (instruction %s)", d.InstructionID)
	}
	return s
}

// List accumulates diagnostics during a pass.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Addf appends a diagnostic with a formatted message.
func (l *List) Addf(code Code, format string, args ...interface{}) {
	l.items = append(l.items, Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Items returns the accumulated diagnostics in order.
func (l *List) Items() []Diagnostic { return l.items }

// Len returns the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.items) }
