package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQ16_16RoundTrip(t *testing.T) {
	q := FromInt(5)
	require.Equal(t, int32(5), q.ToInt32())
}

func TestQ16_16MulDiv(t *testing.T) {
	a := FromFloat(2.5)
	b := FromFloat(4.0)
	require.InDelta(t, 10.0, a.Mul(b).Float(), 0.01)
	require.InDelta(t, 0.625, a.Div(b).Float(), 0.01)
}

func TestQ16_16Clamp(t *testing.T) {
	q := FromInt(2000)
	require.Equal(t, FromInt(1022), q.Clamp(FromInt(-1022), FromInt(1022)))
}

func TestQ26_6Sqrt(t *testing.T) {
	q := FromIntQ26(144)
	got := q.Sqrt().ToInt32()
	require.InDelta(t, 12, got, 1)
}

func TestQ26_6SqrtZero(t *testing.T) {
	require.Equal(t, Q26_6(0), Q26_6(0).Sqrt())
}

func TestQ16_16Sqrt(t *testing.T) {
	q := FromInt(144)
	got := q.Sqrt().ToInt32()
	require.InDelta(t, 12, got, 1)
}

func TestQ16_16SqrtOfFractionIsNotZero(t *testing.T) {
	// A value under 1.0 (common for normalized accelerometer readings)
	// must not truncate to zero before the square root is taken.
	q := FromFloat(0.25)
	require.InDelta(t, 0.5, q.Sqrt().Float(), 0.01)
}

func TestQ16_16SqrtZero(t *testing.T) {
	require.Equal(t, Q16_16(0), Q16_16(0).Sqrt())
}

// cordicTestCases are angles with exact float references, run through
// Atan2 to confirm the CORDIC implementation tracks math.Atan2 closely
// enough for attitude control.
func TestAtan2MatchesKnownAngles(t *testing.T) {
	cases := []struct {
		name string
		y, x float64
		want float64
	}{
		{"zero", 0, 1, 0},
		{"45 degrees", 1, 1, math.Pi / 4},
		{"30ish degrees", 1, 2, math.Atan2(1, 2)},
		{"90 degrees", 1, 0, math.Pi / 2},
		{"135 degrees", 1, -1, 3 * math.Pi / 4},
		{"180 degrees", 0, -1, math.Pi},
		{"-90 degrees", -1, 0, -math.Pi / 2},
		{"-135 degrees", -1, -1, -3 * math.Pi / 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Atan2(FromFloat(c.y), FromFloat(c.x))
			require.InDelta(t, c.want, got.Float(), 0.01)
		})
	}
}

func TestAtan2OriginIsZero(t *testing.T) {
	require.Equal(t, Q16_16(0), Atan2(0, 0))
}
