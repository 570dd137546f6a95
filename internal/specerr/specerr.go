// Package specerr defines the error taxonomy shared across grammar, generation,
// parsing, invocation and evaluation (spec.md §7).
package specerr

import "fmt"

// Pos is a line/column location inside a grammar source file.
type Pos struct {
	Row int
	Col int
}

func (p Pos) String() string {
	if p.Row == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// GrammarSyntaxError is fatal for the grammar being parsed.
type GrammarSyntaxError struct {
	Pos    Pos
	Reason string
}

func (e *GrammarSyntaxError) Error() string {
	if e.Pos.Row == 0 {
		return fmt.Sprintf("syntax error: %s", e.Reason)
	}
	return fmt.Sprintf("%v: syntax error: %s", e.Pos, e.Reason)
}

// GrammarSemanticError is fatal for the grammar being validated.
type GrammarSemanticError struct {
	Pos    Pos
	Reason string
	Detail string
}

func (e *GrammarSemanticError) Error() string {
	msg := fmt.Sprintf("semantic error: %s", e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Pos.Row == 0 {
		return msg
	}
	return fmt.Sprintf("%v: %s", e.Pos, msg)
}

// GrammarErrors collects every syntax/semantic error found while loading one
// grammar, mirroring the teacher's accumulate-then-bail pattern.
type GrammarErrors []error

func (es GrammarErrors) Error() string {
	if len(es) == 0 {
		return "no errors"
	}
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%s (and %d more error(s))", es[0].Error(), len(es)-1)
}

// GenerationError is non-fatal: the sample is skipped and counted against the
// per-FUT generation-failure budget.
type GenerationError struct {
	NonTerminal string
	Reason      string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error in %q: %s", e.NonTerminal, e.Reason)
}

// ParseError is non-fatal: the sample is skipped.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on %q: %s", e.Input, e.Reason)
}

// ArityError is fatal for a single (fut, template) pair: the pair is marked
// inapplicable, not retried.
type ArityError struct {
	FUTName     string
	Want        int
	Got         int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity mismatch for %q: want %d, got %d", e.FUTName, e.Want, e.Got)
}

// InvocationError wraps a panic or error raised by a function under test.
// It never propagates past the fut package boundary.
type InvocationError struct {
	Kind    string
	Message string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// OracleError is logged and treated as an empty-constraints response.
type OracleError struct {
	Reason string
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle error: %s", e.Reason)
}
