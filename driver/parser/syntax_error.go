package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrStackExhausted means the parse stacks would grow beyond the maximum depth.
	ErrStackExhausted = errors.New("parser stack exhausted")

	// ErrUnrecoverable means the parser found no way to resume after a syntax error.
	ErrUnrecoverable = errors.New("unrecoverable syntax error")

	// ErrSyntax lets a semantic action reject a reduction. Wrap it to give a message, for example
	// fmt.Errorf("%w: integer literal out of range", ErrSyntax).
	ErrSyntax = errors.New("syntax error")
)

// SyntaxError is a diagnostic the parser reports. Row and Col point to the offending token.
type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row, e.Col, e.Message)
}

type Status int

const (
	// StatusAccepted means the parser accepted an input without any syntax error.
	StatusAccepted Status = iota

	// StatusRejected means the parser reached the accepting state after recovering from syntax errors.
	// The resulting value reflects the recovered derivation and must not be trusted.
	StatusRejected

	// StatusAborted means the parser gave up. Result.Cause tells why.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusAborted:
		return "aborted"
	}
	return fmt.Sprintf("<invalid status: %d>", int(s))
}

// Result is an outcome of a parse.
type Result struct {
	Status Status

	// Value is the semantic value of the start symbol. It is nil when the parser aborted.
	Value any

	SyntaxErrors []*SyntaxError

	// Cause is ErrStackExhausted or ErrUnrecoverable when the parser aborted.
	Cause error
}

// ErrorCount returns the number of reported syntax errors.
func (r *Result) ErrorCount() int {
	return len(r.SyntaxErrors)
}
