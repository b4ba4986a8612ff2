package control

import (
	"testing"
	"time"

	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestYawRateDMPZeroCommandNoMotionHovers(t *testing.T) {
	gains := RateGains{P: fixedpoint.FromInt(1)}
	got := YawRateDMP(0, gains, 0, 0, 10*time.Millisecond)
	require.Equal(t, uint16(1024), got)
}

func TestYawRateDMPClampsToResponseBounds(t *testing.T) {
	gains := RateGains{P: fixedpoint.FromInt(1000)}
	got := YawRateDMP(2000, gains, 0, 0, 10*time.Millisecond)
	require.LessOrEqual(t, got, uint16(1024+1022))
}

func TestRollDMPZeroInputHovers(t *testing.T) {
	gains := AttitudeGains{P1: fixedpoint.FromInt(1), P2: fixedpoint.FromInt(1)}
	got := RollDMP(0, gains, 0, 0, 10*time.Millisecond)
	require.Equal(t, uint16(1024), got)
}

func TestPitchRawRespondsToRate(t *testing.T) {
	gains := AttitudeGains{P1: fixedpoint.FromInt(1), P2: fixedpoint.FromInt(1)}
	zero := PitchRaw(0, gains, 0, 0, 10*time.Millisecond)
	withRate := PitchRaw(0, gains, fixedpoint.FromInt(50), 0, 10*time.Millisecond)
	require.NotEqual(t, zero, withRate)
}

func TestClipAndScaleClampsHigh(t *testing.T) {
	got := clipAndScale(fixedpoint.FromInt(5000))
	require.Equal(t, uint16(1024+1022), got)
}

func TestClipAndScaleClampsLow(t *testing.T) {
	got := clipAndScale(fixedpoint.FromInt(-5000))
	require.Equal(t, uint16(1024-1022), got)
}

// TestYawRateRawMatchesYawRateDMPForTheSameAngleStep guards the /dt step:
// YawRateRaw's only structural difference from yawRate (used by
// YawRateDMP) is that it is handed a rate directly instead of
// differencing two attitude samples, so feeding it the same
// old-minus-new angle step that yawRate would compute must produce the
// same response at the same deltaT.
func TestYawRateRawMatchesYawRateDMPForTheSameAngleStep(t *testing.T) {
	gains := RateGains{P: fixedpoint.FromInt(1)}
	dt := 10 * time.Millisecond
	angleStep := fixedpoint.FromFloat(0.05)

	fromDMP := YawRateDMP(0, gains, 0, angleStep, dt)
	fromRaw := YawRateRaw(0, gains, angleStep, dt)
	require.Equal(t, fromDMP, fromRaw)
}

// TestYawRateRawDividesByDeltaT is the direct regression test for the bug
// where YawRateRaw skipped the /dt step: at a realistic 10ms tick, that
// bug scaled the rate 10x larger than dividing by dt would, which this
// test would catch by observing the two no longer agree.
func TestYawRateRawDividesByDeltaT(t *testing.T) {
	gains := RateGains{P: fixedpoint.FromInt(1)}
	rate := fixedpoint.FromFloat(0.2)

	got := YawRateRaw(0, gains, rate, 10*time.Millisecond)
	withoutDivision := yawResponse(0, gains, rate.Mul(fixedpoint.FromInt(100)))

	require.NotEqual(t, withoutDivision, got)
}
