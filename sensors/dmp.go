// Package sensors turns raw IMU samples into attitude estimates, through
// two independent sources: DMP, which trusts the IMU's onboard motion
// processor for a fused quaternion, and Raw, which fuses gyroscope and
// accelerometer samples itself with a complementary filter.
package sensors

import (
	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/fixedpoint"
)

// Attitude is a yaw/pitch/roll estimate, in radians scaled as Q16_16.
type Attitude struct {
	Yaw, Pitch, Roll fixedpoint.Q16_16
}

// Sub subtracts a calibration offset from a, component-wise.
func (a Attitude) Sub(off Attitude) Attitude {
	return Attitude{
		Yaw:   a.Yaw.Sub(off.Yaw),
		Pitch: a.Pitch.Sub(off.Pitch),
		Roll:  a.Roll.Sub(off.Roll),
	}
}

// DMP tracks the current and previous DMP-derived attitude, so that
// controllers can compute a rate from the difference between ticks.
type DMP struct {
	New, Old Attitude
}

// Update reads one quaternion from bus and rotates New into Old.
func (d *DMP) Update(bus device.IMUBus) error {
	q, err := bus.ReadDMPQuaternion()
	if err != nil {
		return err
	}
	d.Old = d.New
	d.New = AttitudeFromQuaternion(q)
	return nil
}

// AttitudeFromQuaternion converts a DMP quaternion into yaw/pitch/roll, the
// same derivation the IMU vendor's example firmware uses, carried out
// entirely in Q16_16 fixed-point arithmetic.
func AttitudeFromQuaternion(q device.Quaternion) Attitude {
	two := fixedpoint.FromInt(2)
	w, x, y, z := q.W, q.X, q.Y, q.Z

	gx := two.Mul(x.Mul(z).Sub(w.Mul(y)))
	gy := two.Mul(w.Mul(x).Add(y.Mul(z)))
	gz := w.Mul(w).Sub(x.Mul(x)).Sub(y.Mul(y)).Add(z.Mul(z))

	yawY := two.Mul(x.Mul(y)).Sub(two.Mul(w.Mul(z)))
	yawX := two.Mul(w.Mul(w)).Add(two.Mul(x.Mul(x))).Sub(fixedpoint.FromInt(1))
	yaw := fixedpoint.Atan2(yawY, yawX)
	pitch := fixedpoint.Atan2(gx, gy.Mul(gy).Add(gz.Mul(gz)).Sqrt())
	roll := fixedpoint.Atan2(gy, gz)

	return Attitude{Yaw: yaw, Pitch: pitch, Roll: roll}
}
