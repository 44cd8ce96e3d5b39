package parser

import (
	"fmt"

	"github.com/mna/rustcript/lang/token"
)

// Error is a parse- or import-resolution-time failure: spec §7 classes
// SyntaxError, ParseError, and the IOError raised by a missing import
// file are all fatal before the interpreter ever starts, so this package
// does not depend on lang/machine's richer, catchable EvalError — the
// top-level Construct step returns whichever of these reaches it to the
// embedder unchanged.
type Error struct {
	Kind    string // "SyntaxError", "ParseError", or "IOError"
	Message string
	Path    string
	Line    int
}

func (e *Error) Error() string {
	if e.Path != "" && e.Line > 0 {
		return fmt.Sprintf("%s at %s:%d: %s", e.Kind, e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func syntaxErrorf(pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: "SyntaxError", Message: fmt.Sprintf(format, args...), Path: pos.Path, Line: pos.Line}
}

func ioErrorf(format string, args ...any) *Error {
	return &Error{Kind: "IOError", Message: fmt.Sprintf(format, args...)}
}
