package machine

import "strconv"

// Int is the 32-bit signed integer value type (spec §3).
type Int int32

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }
func (i Int) Truth() bool    { return i != 0 }
