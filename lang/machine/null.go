package machine

// Null is the sole inhabitant of the Null type. The zero value of the
// type is the only value of it; there is exactly one Null value, reused
// everywhere it is needed.
type nullType struct{}

func (nullType) String() string { return "null" }
func (nullType) Type() string   { return "null" }
func (nullType) Truth() bool    { return false }

// Null is the value every script sees as `null`.
var Null Value = nullType{}

// IsNull reports whether v is the Null value (or a nil Go interface, which
// the interpreter treats the same way defensively).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(nullType)
	return ok
}
