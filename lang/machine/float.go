package machine

import "strconv"

// Float is the 64-bit IEEE floating point value type.
type Float float64

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Type() string   { return "float" }
func (f Float) Truth() bool    { return f != 0 }
