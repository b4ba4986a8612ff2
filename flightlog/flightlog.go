// Package flightlog implements the on-board append-only flight log: sensor
// samples are appended to flash while logging is enabled, and can later be
// streamed back to the ground station as SensorLog messages.
package flightlog

import (
	"encoding/binary"
	"errors"

	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/flightctl/quadrotor/message"
)

// ErrOutOfSpace is returned when a log write would run past the end of the
// flash device.
var ErrOutOfSpace = errors.New("flightlog: flash exhausted")

// ErrSpiError is returned in place of any I/O failure from the underlying
// flash device; the device's own error is not kept.
var ErrSpiError = errors.New("flightlog: flash io error")

const (
	eofAddr    = 0x00
	dataStart  = eofAddr + 0x04
	fieldCount = 9
	recordSize = fieldCount * 2

	// angleScale converts a Q16_16 radian value to the i16 the flash
	// record stores it as, and back.
	angleScale = 10000
)

// Sample is one tick's worth of raw and fused sensor data, ready to be
// appended to the log.
type Sample struct {
	Gyro             device.Gyro
	Accel            device.Accel
	Pitch, Roll, Yaw fixedpoint.Q16_16
}

// Store wraps a device.Flash with the append/replay state the on-board log
// and its ground-side report need.
type Store struct {
	flash       device.Flash
	writeCursor uint32
	readCursor  uint32
	reportEOF   uint32
	logging     bool
	reporting   bool
}

// New builds a Store over flash, with both cursors at the start of the data
// region.
func New(flash device.Flash) *Store {
	return &Store{flash: flash, writeCursor: dataStart, readCursor: dataStart}
}

// StartLogging begins a new logging pass, discarding any previous one that
// was never finalized with StopLogging. It is a no-op if logging or
// reporting is already in progress.
func (s *Store) StartLogging() bool {
	if s.logging || s.reporting {
		return false
	}
	s.logging = true
	s.writeCursor = dataStart
	return true
}

// Logging reports whether a logging pass is in progress.
func (s *Store) Logging() bool { return s.logging }

// StopLogging finalizes the current pass by writing its end offset to the
// flash header. It is a no-op if no pass is in progress.
func (s *Store) StopLogging() error {
	if !s.logging {
		return nil
	}
	s.logging = false

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], s.writeCursor)
	s.writeCursor = dataStart
	if err := s.flash.WriteAt(eofAddr, hdr[:]); err != nil {
		return ErrSpiError
	}
	return nil
}

// TickLog appends one sample if a pass is in progress. Running out of flash
// space stops the pass and returns ErrOutOfSpace.
func (s *Store) TickLog(sample Sample) error {
	if !s.logging {
		return nil
	}
	if s.writeCursor+recordSize > s.flash.Size() {
		s.StopLogging()
		return ErrOutOfSpace
	}

	buf := encodeRecord(sample)
	if err := s.flash.WriteAt(s.writeCursor, buf); err != nil {
		return ErrSpiError
	}
	s.writeCursor += recordSize
	return nil
}

// StartLogReporting begins streaming the previously finalized log back,
// reading the stored end offset from the flash header. It is a no-op if
// logging or reporting is already in progress.
func (s *Store) StartLogReporting() error {
	if s.logging || s.reporting {
		return nil
	}

	var hdr [4]byte
	if err := s.flash.ReadAt(eofAddr, hdr[:]); err != nil {
		return ErrSpiError
	}
	s.reporting = true
	s.reportEOF = binary.BigEndian.Uint32(hdr[:])
	s.readCursor = dataStart
	return nil
}

// Reporting reports whether a log report is in progress.
func (s *Store) Reporting() bool { return s.reporting }

// StopLogReporting ends the current report pass. It is a no-op if no report
// is in progress.
func (s *Store) StopLogReporting() {
	if !s.reporting {
		return
	}
	s.reporting = false
	s.readCursor = dataStart
}

// TickReport sends the next record of the current report, gated to once
// every period ticks. It returns ok=false when nothing was sent this tick
// (either gated by the period, or because the report just finished).
func (s *Store) TickReport(iterCount, period uint32) (msg message.SensorLog, ok bool, err error) {
	if !s.reporting {
		return message.SensorLog{}, false, nil
	}
	if s.readCursor >= s.reportEOF {
		s.StopLogReporting()
		return message.SensorLog{}, false, nil
	}
	if period == 0 || iterCount%period != 0 {
		return message.SensorLog{}, false, nil
	}

	buf := make([]byte, recordSize)
	readErr := s.flash.ReadAt(s.readCursor, buf)
	s.readCursor += recordSize
	if readErr != nil {
		s.StopLogReporting()
		return message.SensorLog{}, false, ErrSpiError
	}

	return decodeRecord(buf), true, nil
}

func encodeRecord(s Sample) []byte {
	fields := [fieldCount]int16{
		s.Gyro.X, s.Gyro.Y, s.Gyro.Z,
		s.Accel.X, s.Accel.Y, s.Accel.Z,
		scaleDown(s.Pitch), scaleDown(s.Roll), scaleDown(s.Yaw),
	}
	buf := make([]byte, recordSize)
	for i, f := range fields {
		binary.BigEndian.PutUint16(buf[i*2:], uint16(f))
	}
	return buf
}

func decodeRecord(buf []byte) message.SensorLog {
	read := func(i int) int16 { return int16(binary.BigEndian.Uint16(buf[i*2:])) }
	return message.SensorLog{
		GyroX: read(0), GyroY: read(1), GyroZ: read(2),
		AccelX: read(3), AccelY: read(4), AccelZ: read(5),
		Pitch: scaleUp(read(6)), Roll: scaleUp(read(7)), Yaw: scaleUp(read(8)),
	}
}

func scaleDown(v fixedpoint.Q16_16) int16 {
	return int16(v.Mul(fixedpoint.FromInt(angleScale)).ToInt32())
}

func scaleUp(v int16) fixedpoint.Q16_16 {
	return fixedpoint.FromInt(int32(v)).Div(fixedpoint.FromInt(angleScale))
}
