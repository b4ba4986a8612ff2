package sensors

import (
	"testing"

	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestAttitudeFromQuaternionLevel(t *testing.T) {
	q := device.Quaternion{W: fixedpoint.FromInt(1)}
	att := AttitudeFromQuaternion(q)
	require.InDelta(t, 0, att.Yaw.Float(), 1e-6)
	require.InDelta(t, 0, att.Pitch.Float(), 1e-6)
	require.InDelta(t, 0, att.Roll.Float(), 1e-6)
}

func TestAttitudeSub(t *testing.T) {
	a := Attitude{Yaw: fixedpoint.FromInt(3), Pitch: fixedpoint.FromInt(2), Roll: fixedpoint.FromInt(1)}
	off := Attitude{Yaw: fixedpoint.FromInt(1), Pitch: fixedpoint.FromInt(1), Roll: fixedpoint.FromInt(1)}
	got := a.Sub(off)
	require.Equal(t, fixedpoint.FromInt(2), got.Yaw)
	require.Equal(t, fixedpoint.FromInt(1), got.Pitch)
	require.Equal(t, fixedpoint.FromInt(0), got.Roll)
}

type stubIMU struct {
	q device.Quaternion
	a device.Accel
	g device.Gyro
}

func (s stubIMU) ReadDMPQuaternion() (device.Quaternion, error) { return s.q, nil }
func (s stubIMU) ReadRaw() (device.Accel, device.Gyro, error)   { return s.a, s.g, nil }

func TestDMPUpdateTracksOldAndNew(t *testing.T) {
	bus := stubIMU{q: device.Quaternion{W: fixedpoint.FromInt(1)}}
	var d DMP
	require.NoError(t, d.Update(bus))
	first := d.New
	require.NoError(t, d.Update(bus))
	require.Equal(t, first, d.Old)
}

func TestRawUpdateRunsWithoutError(t *testing.T) {
	bus := stubIMU{g: device.Gyro{X: 10, Y: -5, Z: 2}, a: device.Accel{X: 0, Y: 0, Z: 16384}}
	var r Raw
	require.NoError(t, r.Update(bus, Offsets{}))
}
