package message

import (
	"testing"

	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestRoundTripSimpleVariants(t *testing.T) {
	cases := []Message{
		Control{Lift: 1000, Roll: 2047, Pitch: 0, Yaw: 511},
		ModeRequest{Mode: dronemode.RawMode},
		StartLogging{},
		StopLogging{},
		StartLogReporting{},
		StopLogReporting{},
		SensorData{Sp: 1, Sq: 2, Sr: 3, Sax: 4, Say: 5, Saz: 6},
		HealthData{Bat: 1100, CPU: 42, Pres: 7},
		MotorsState{Ae1: 100, Ae2: 200, Ae3: 300, Ae4: 400},
		Warning{Kind: ControlNotNeutral},
		Warning{Kind: SensorNotCalibratedWarning},
		SensorNotCalibrated{},
		Text{Value: "hello"},
		AckNack{Value: 1},
		KeepAlive{},
		Empty{},
	}
	for _, m := range cases {
		b, err := Encode(m, 64)
		require.NoError(t, err)
		got, err := Decode(b)
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestRoundTripFixedPointVariants(t *testing.T) {
	p := fixedpoint.FromFloat(1.5)
	i := fixedpoint.FromFloat(0.0)
	d := fixedpoint.FromFloat(-0.25)

	cases := []Message{
		Tuning{P: p, I: i, D: d},
		UpdateP{P: p},
		UpdateP1P2{P1: p, P2: d},
		CalibratedAck{
			GyroPitchOffset: p, GyroRollOffset: i, GyroYawOffset: d,
			AccelXOffset: -10, AccelYOffset: 0, AccelZOffset: 32000,
		},
		SensorReading{
			GyroPitch: p, GyroRoll: i, GyroYaw: d,
			AccelX: 1, AccelY: -1, AccelZ: 16384,
		},
		MovementErrors{YawError: p, PitchError: i, RollError: d},
		SensorLog{
			GyroX: 1, GyroY: -2, GyroZ: 3,
			AccelX: -4, AccelY: 5, AccelZ: -6,
			Roll: p, Pitch: i, Yaw: d,
		},
	}
	for _, m := range cases {
		b, err := Encode(m, 64)
		require.NoError(t, err)
		got, err := Decode(b)
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestEncodeRejectsOverCapacity(t *testing.T) {
	_, err := Encode(Control{Lift: 1, Roll: 2, Pitch: 3, Yaw: 4}, 2)
	require.ErrorIs(t, err, ErrNoMem)
}

func TestTextTruncatesAtMaxLen(t *testing.T) {
	long := make([]byte, MaxTextLen+10)
	for i := range long {
		long[i] = 'x'
	}
	b, err := Encode(Text{Value: string(long)}, 64)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, MaxTextLen, len(got.(Text).Value))
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	_, err := Decode([]byte{99})
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeRejectsTruncatedBody(t *testing.T) {
	_, err := Decode([]byte{byte(tagControl), 1, 2})
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrDecode)
}
