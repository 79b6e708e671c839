package decl

import (
	"errors"
	"fmt"

	"modernc.org/token"
)

// ErrMalformed is wrapped by every error reporting a declaration the
// scanner cannot extract safely.
var ErrMalformed = errors.New("malformed declaration")

// ParseError locates a malformed declaration.
type ParseError struct {
	Pos  token.Position // resolved when scanning through a Header
	Line int            // 1-based line, always set
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

func malformedf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
