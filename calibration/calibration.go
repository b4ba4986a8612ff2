// Package calibration computes the per-axis offsets that later attitude and
// rate estimates are measured against: the drone must sit level and still
// while these are gathered.
package calibration

import (
	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/flightctl/quadrotor/sensors"
)

// DefaultSampleSize is how many IMU samples a calibration pass averages
// over.
const DefaultSampleSize = 200

// Store holds the measured offsets and whether a pass has completed.
type Store struct {
	Attitude sensors.Attitude
	Raw      sensors.Offsets
	done     bool
}

// IsCalibrated reports whether Calibrate has completed at least once.
func (s *Store) IsCalibrated() bool { return s.done }

// Calibrate resets the store and averages n samples from bus into new
// offsets. A sample count of zero or less leaves the store uncalibrated.
func (s *Store) Calibrate(bus device.IMUBus, n int) error {
	s.done = false
	s.Attitude = sensors.Attitude{}
	s.Raw = sensors.Offsets{}
	if n <= 0 {
		return nil
	}

	var yawSum, pitchSum, rollSum fixedpoint.Q16_16
	var accelSum [3]int64
	var gyroSum [3]int64

	for i := 0; i < n; i++ {
		q, err := bus.ReadDMPQuaternion()
		if err != nil {
			return err
		}
		att := sensors.AttitudeFromQuaternion(q)
		yawSum = yawSum.Add(att.Yaw)
		pitchSum = pitchSum.Add(att.Pitch)
		rollSum = rollSum.Add(att.Roll)

		a, g, err := bus.ReadRaw()
		if err != nil {
			return err
		}
		accelSum[0] += int64(a.X)
		accelSum[1] += int64(a.Y)
		accelSum[2] += int64(a.Z)
		gyroSum[0] += int64(g.X)
		gyroSum[1] += int64(g.Y)
		gyroSum[2] += int64(g.Z)
	}

	count := fixedpoint.FromInt(int32(n))
	s.Attitude = sensors.Attitude{
		Yaw:   yawSum.Div(count),
		Pitch: pitchSum.Div(count),
		Roll:  rollSum.Div(count),
	}
	s.Raw = sensors.Offsets{
		AccelX: int16(accelSum[0] / int64(n)),
		AccelY: int16(accelSum[1] / int64(n)),
		AccelZ: int16(accelSum[2] / int64(n)),
		GyroX:  int16(gyroSum[0] / int64(n)),
		GyroY:  int16(gyroSum[1] / int64(n)),
		GyroZ:  int16(gyroSum[2] / int64(n)),
	}
	s.done = true
	return nil
}
