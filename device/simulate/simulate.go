// Package simulate provides deterministic, in-memory device.* implementations
// used by tests, the host demo binary, and anywhere else a real board is not
// attached.
package simulate

import (
	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/fixedpoint"
)

// IMU is a scriptable device.IMUBus: each read pops the next queued sample,
// repeating the last one once the queue drains.
type IMU struct {
	quaternions []device.Quaternion
	raws        []rawSample
	qi, ri      int
}

type rawSample struct {
	Accel device.Accel
	Gyro  device.Gyro
}

// NewIMU builds an IMU that yields level orientation and zeroed raw samples
// until scripted otherwise.
func NewIMU() *IMU {
	return &IMU{
		quaternions: []device.Quaternion{{W: fixedpoint.FromInt(1)}},
		raws:        []rawSample{{}},
	}
}

// QueueQuaternion appends a DMP sample to be returned by future reads.
func (m *IMU) QueueQuaternion(q device.Quaternion) { m.quaternions = append(m.quaternions, q) }

// QueueRaw appends a raw accel/gyro pair to be returned by future reads.
func (m *IMU) QueueRaw(a device.Accel, g device.Gyro) {
	m.raws = append(m.raws, rawSample{Accel: a, Gyro: g})
}

func (m *IMU) ReadDMPQuaternion() (device.Quaternion, error) {
	q := m.quaternions[m.qi]
	if m.qi < len(m.quaternions)-1 {
		m.qi++
	}
	return q, nil
}

func (m *IMU) ReadRaw() (device.Accel, device.Gyro, error) {
	s := m.raws[m.ri]
	if m.ri < len(m.raws)-1 {
		m.ri++
	}
	return s.Accel, s.Gyro, nil
}

// LEDs records the last-set state of each status LED.
type LEDs struct {
	Red, Blue, Green bool
}

func (l *LEDs) SetRed(on bool)   { l.Red = on }
func (l *LEDs) SetBlue(on bool)  { l.Blue = on }
func (l *LEDs) SetGreen(on bool) { l.Green = on }

// Battery is a fixed-voltage device.Battery stand-in.
type Battery struct{ MV uint16 }

func (b Battery) MilliVolts() uint16 { return b.MV }

// Actuators records the last motor command issued.
type Actuators struct{ Last [4]uint16 }

func (a *Actuators) SetMotors(cmd [4]uint16) { a.Last = cmd }

// Flash is an in-memory device.Flash backed by a byte slice.
type Flash struct{ mem []byte }

// NewFlash allocates a zeroed flash region of size bytes.
func NewFlash(size uint32) *Flash { return &Flash{mem: make([]byte, size)} }

func (f *Flash) ReadAt(addr uint32, buf []byte) error {
	copy(buf, f.mem[addr:])
	return nil
}

func (f *Flash) WriteAt(addr uint32, data []byte) error {
	copy(f.mem[addr:], data)
	return nil
}

func (f *Flash) Erase() error {
	for i := range f.mem {
		f.mem[i] = 0
	}
	return nil
}

func (f *Flash) Size() uint32 { return uint32(len(f.mem)) }
