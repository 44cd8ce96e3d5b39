package machine

import (
	"strconv"
	"time"
)

// Time is the value produced by the `time()` builtin: a monotonic instant
// paired with a wall-clock timestamp, per spec §3. The monotonic component
// backs `elapsed`; the wall-clock component backs `date`/`time`/`timestamp`.
type Time struct {
	wall time.Time
}

// NowTime captures the current instant. It is what the `time()` builtin
// (the "time statement" of spec §3 — an ordinary three-address assignment
// `t = time()` in this implementation, see DESIGN.md) evaluates to.
func NowTime() Time { return Time{wall: time.Now()} }

func (t Time) String() string { return t.wall.Format(time.RFC3339) }
func (t Time) Type() string   { return "time" }
func (t Time) Truth() bool    { return true }

// Cmp orders Time values by their underlying timestamp (spec §4.1,
// "Time comparison uses underlying timestamp").
func (t Time) Cmp(other Time) int {
	switch {
	case t.wall.Before(other.wall):
		return -1
	case t.wall.After(other.wall):
		return 1
	default:
		return 0
	}
}

func (t Time) date() string { return t.wall.Format("2006-01-02") }
func (t Time) clock() string { return t.wall.Format("15:04:05") }
func (t Time) elapsed() Float { return Float(time.Since(t.wall).Seconds()) }
func (t Time) timestamp() Int { return Int(t.wall.Unix()) }

func (t Time) Attr(name string) (Value, error) {
	switch name {
	case "date":
		return String(t.date()), nil
	case "time":
		return String(t.clock()), nil
	case "elapsed":
		return t.elapsed(), nil
	case "timestamp":
		return t.timestamp(), nil
	}
	return nil, &EvalError{Kind: KindName, Message: "time has no field or method " + strconv.Quote(name)}
}

var _ HasAttrs = Time{}
