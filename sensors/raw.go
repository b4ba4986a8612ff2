package sensors

import (
	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/fixedpoint"
)

// Complementary-filter constants, fixed across the whole flight envelope:
// P2PHI is the gyro-to-angle integration scale, A2G converts raw
// accelerometer counts to g, and C1/C2 set how quickly the accelerometer
// estimate pulls the integrated angle and its bias back into line.
const (
	p2phi = 94000
	a2g   = 16384
	c1    = 50
	c2    = 15000
)

// Offsets are the per-axis raw sensor biases measured during calibration.
type Offsets struct {
	AccelX, AccelY, AccelZ int16
	GyroX, GyroY, GyroZ    int16
}

// Raw fuses gyroscope and accelerometer samples into roll/pitch/yaw-rate
// estimates using a complementary filter: the gyro integral tracks fast
// motion, the accelerometer-derived angle corrects its long-term drift.
type Raw struct {
	phi, phiBias, phiRate     fixedpoint.Q16_16
	theta, thetaBias, thetaRate fixedpoint.Q16_16
	yawRate                   fixedpoint.Q16_16
}

// Read pulls one sample from bus and applies the calibration offsets.
func (r *Raw) Read(bus device.IMUBus, off Offsets) (device.Accel, device.Gyro, error) {
	a, g, err := bus.ReadRaw()
	if err != nil {
		return device.Accel{}, device.Gyro{}, err
	}
	a.X -= off.AccelX
	a.Y -= off.AccelY
	a.Z -= off.AccelZ
	g.X -= off.GyroX
	g.Y -= off.GyroY
	g.Z -= off.GyroZ
	return a, g, nil
}

// Update reads one calibrated sample and refreshes roll, pitch, and yaw
// rate.
func (r *Raw) Update(bus device.IMUBus, off Offsets) error {
	a, g, err := r.Read(bus, off)
	if err != nil {
		return err
	}
	r.updateRoll(g, a)
	r.updatePitch(g, a)
	r.updateYaw(g)
	return nil
}

func gDiv(v int16, scale int32) fixedpoint.Q16_16 {
	return fixedpoint.FromInt(int32(v)).Div(fixedpoint.FromInt(scale))
}

func (r *Raw) updateRoll(g device.Gyro, a device.Accel) {
	ay := gDiv(a.Y, a2g)
	az := gDiv(a.Z, a2g)

	r.phiRate = -r.phi

	sp := fixedpoint.FromInt(int32(g.X))
	p := sp.Sub(r.phiBias)
	r.phi = r.phi.Add(p.Div(fixedpoint.FromInt(p2phi)))

	sphi := fixedpoint.Atan2(ay, az)
	e := r.phi.Sub(sphi)
	r.phi = r.phi.Sub(e.Div(fixedpoint.FromInt(c1)))
	r.phiBias = r.phiBias.Add(e.Mul(fixedpoint.FromInt(p2phi)).Div(fixedpoint.FromInt(c2)))
	r.phiRate = r.phiRate.Add(r.phi)
}

func (r *Raw) updatePitch(g device.Gyro, a device.Accel) {
	ax := gDiv(a.X, a2g)
	ay := gDiv(a.Y, a2g)
	az := gDiv(a.Z, a2g)

	r.thetaRate = -r.theta

	sq := fixedpoint.FromInt(int32(g.Y))
	q := sq.Sub(r.thetaBias)
	r.theta = r.theta.Add(q.Div(fixedpoint.FromInt(p2phi)))

	magnitude := ay.Mul(ay).Add(az.Mul(az)).Sqrt()
	stheta := fixedpoint.Atan2(ax, magnitude)

	e := r.theta.Sub(stheta)
	r.theta = r.theta.Sub(e.Div(fixedpoint.FromInt(c1)))
	r.thetaBias = r.thetaBias.Add(e.Mul(fixedpoint.FromInt(p2phi)).Div(fixedpoint.FromInt(c2)))
	r.thetaRate = r.thetaRate.Add(r.theta)
}

func (r *Raw) updateYaw(g device.Gyro) {
	r.yawRate = fixedpoint.FromInt(int32(g.Z)).Div(fixedpoint.FromInt(p2phi))
}

// YawRate returns the current yaw rate estimate.
func (r *Raw) YawRate() fixedpoint.Q16_16 { return r.yawRate }

// Pitch returns the current pitch angle estimate.
func (r *Raw) Pitch() fixedpoint.Q16_16 { return r.theta }

// PitchRate returns the current pitch rate estimate.
func (r *Raw) PitchRate() fixedpoint.Q16_16 { return r.thetaRate }

// Roll returns the current roll angle estimate.
func (r *Raw) Roll() fixedpoint.Q16_16 { return r.phi }

// RollRate returns the current roll rate estimate.
func (r *Raw) RollRate() fixedpoint.Q16_16 { return r.phiRate }
