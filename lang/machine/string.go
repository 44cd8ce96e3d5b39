package machine

import "fmt"

// String is the value type for UTF-8 text. Indexing a String accesses it
// byte-by-byte (scripts deal in ASCII-ish source text in practice; spec §1
// explicitly excludes full Unicode-aware lexing, and this carries over to
// runtime indexing).
type String string

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }
func (s String) Truth() bool    { return s != "" }
func (s String) Len() int       { return len(s) }

func (s String) Index(i int) (Value, error) {
	if i < 0 || i >= len(s) {
		return nil, &EvalError{Kind: KindIndex, Message: fmt.Sprintf("string index %d out of range (len %d)", i, len(s))}
	}
	return String(s[i : i+1]), nil
}

var (
	_ Indexable = String("")
)
