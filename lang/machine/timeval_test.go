package machine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeCmpOrdersByUnderlyingTimestamp(t *testing.T) {
	now := NowTime()
	later := Time{wall: now.wall.Add(time.Second)}

	require.Equal(t, -1, now.Cmp(later))
	require.Equal(t, 1, later.Cmp(now))
	require.Equal(t, 0, now.Cmp(now))
}

func TestTimeAttrDateAndClockMatchFormat(t *testing.T) {
	fixed := Time{wall: time.Date(2026, 7, 30, 14, 5, 9, 0, time.UTC)}

	date, err := fixed.Attr("date")
	require.NoError(t, err)
	require.Equal(t, String("2026-07-30"), date)

	clock, err := fixed.Attr("time")
	require.NoError(t, err)
	require.Equal(t, String("14:05:09"), clock)
}

func TestTimeAttrTimestampMatchesUnixSeconds(t *testing.T) {
	fixed := Time{wall: time.Date(2026, 7, 30, 14, 5, 9, 0, time.UTC)}

	ts, err := fixed.Attr("timestamp")
	require.NoError(t, err)
	require.Equal(t, Int(fixed.wall.Unix()), ts)
}

func TestTimeAttrElapsedGrowsWithRealTime(t *testing.T) {
	past := Time{wall: time.Now().Add(-time.Second)}

	el, err := past.Attr("elapsed")
	require.NoError(t, err)
	require.GreaterOrEqual(t, float64(el.(Float)), 1.0)
}

func TestTimeAttrUnknownNameIsNameError(t *testing.T) {
	_, err := NowTime().Attr("nope")
	require.Error(t, err)
	require.Equal(t, KindName, AsEvalError(err).Kind)
}

func TestTimeMethodCallStyleMatchesFieldStyle(t *testing.T) {
	fixed := Time{wall: time.Date(2026, 7, 30, 14, 5, 9, 0, time.UTC)}

	field, err := fixed.Attr("date")
	require.NoError(t, err)
	call, err := timeMethod(fixed, "date", nil)
	require.NoError(t, err)
	require.Equal(t, field, call)
}

func TestTimeMethodRejectsArguments(t *testing.T) {
	_, err := timeMethod(NowTime(), "date", []Value{Int(1)})
	require.Error(t, err)
	require.Equal(t, KindArity, AsEvalError(err).Kind)
}
