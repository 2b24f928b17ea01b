// Package parsererror defines the typed failures the ingest pipeline
// distinguishes between: an email nobody recognizes, a recognized email a
// parser cannot extract from, and a malformed classification rule.
package parsererror

import "fmt"

// NoParserError signals that no registered parser matched the email. This
// is an expected, non-fatal condition.
type NoParserError struct {
	Sender  string
	Subject string
}

func (e *NoParserError) Error() string {
	return fmt.Sprintf("no parser matched email from %s with subject %q", e.Sender, e.Subject)
}

// ExtractionError signals that a matched parser could not locate a required
// field. It is recoverable at the parser boundary; the caller must not
// synthesize a fabricated transaction.
type ExtractionError struct {
	Parser string
	Field  string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s: failed to extract %s", e.Parser, e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// RuleError signals an invalid classification rule expression or pattern,
// detected at rule construction time.
type RuleError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *RuleError) Error() string {
	msg := fmt.Sprintf("invalid rule %q: %s", e.Expression, e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
