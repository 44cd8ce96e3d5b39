package token

// Value carries the decoded literal payload for a token, when the token
// kind is one of INT, FLOAT, STRING, or BOOL. Only the field matching the
// token's kind is meaningful.
type Value struct {
	Int   int64
	Float float64
	Str   string
	Bool  bool
}
