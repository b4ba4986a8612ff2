// Package device declares the hardware abstractions the flight-controller
// core is built against: the IMU bus, status LEDs, the battery gauge, and
// the on-board flash used for flight logging. Concrete implementations live
// in device/simulate for tests and the host-side demo binary; real hardware
// bindings are supplied by the target board's build.
package device

import "github.com/flightctl/quadrotor/fixedpoint"

// Accel is a raw tri-axis accelerometer sample.
type Accel struct{ X, Y, Z int16 }

// Gyro is a raw tri-axis gyroscope sample.
type Gyro struct{ X, Y, Z int16 }

// Quaternion is an orientation sample produced by the IMU's onboard motion
// processor (DMP).
type Quaternion struct {
	W, X, Y, Z fixedpoint.Q16_16
}

// IMUBus is the inertial-measurement-unit interface: DMP-fused orientation
// plus raw accelerometer/gyroscope samples.
type IMUBus interface {
	ReadDMPQuaternion() (Quaternion, error)
	ReadRaw() (Accel, Gyro, error)
}

// LEDs exposes the status indicators used by the mode state machine and the
// panic handler.
type LEDs interface {
	SetRed(on bool)
	SetBlue(on bool)
	SetGreen(on bool)
}

// Battery reports the current pack voltage in millivolts.
type Battery interface {
	MilliVolts() uint16
}

// Actuators drives the four rotors with raw motor commands in
// [0, maxMotorCommand].
type Actuators interface {
	SetMotors(commands [4]uint16)
}

// Flash is the raw append/read interface over the on-board storage used by
// the flight log. Addresses are byte offsets from zero.
type Flash interface {
	ReadAt(addr uint32, buf []byte) error
	WriteAt(addr uint32, data []byte) error
	Erase() error
	Size() uint32
}
