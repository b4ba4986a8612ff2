// Package message implements the tagged-union wire schema shared by the
// drone and the ground-control process: a varint discriminant followed by
// little-endian fixed-width fields, with strings length-prefixed and capped
// at MaxTextLen bytes. Discriminant numbers follow the declaration order
// below and must not be reordered - they are part of the wire contract.
package message

import "github.com/flightctl/quadrotor/fixedpoint"
import "github.com/flightctl/quadrotor/dronemode"

// Message is implemented by every wire-representable message variant.
type Message interface {
	tag() uint64
	encodeBody(dst []byte) []byte
}

// Pilot -> Drone

// Control carries the four raw pilot channels, each in [0, 2047] once
// validated by the mixer; the wire format itself does not enforce the
// range.
type Control struct{ Lift, Roll, Pitch, Yaw uint16 }

// ModeRequest asks the drone to transition to Mode.
type ModeRequest struct{ Mode dronemode.Mode }

// Tuning carries a full P/I/D gain update. The firmware has no integral
// term (see spec Non-goals), so I is accepted on the wire for symmetry with
// the original protocol but never consumed.
type Tuning struct{ P, I, D fixedpoint.Q16_16 }

// UpdateP updates the single yaw-rate-controller gain.
type UpdateP struct{ P fixedpoint.Q16_16 }

// UpdateP1P2 updates the roll/pitch PD-controller gains.
type UpdateP1P2 struct{ P1, P2 fixedpoint.Q16_16 }

type StartLogging struct{}
type StopLogging struct{}
type StartLogReporting struct{}
type StopLogReporting struct{}

// Drone -> Pilot

// SensorData is the compact 6-byte debug sensor snapshot.
type SensorData struct{ Sp, Sq, Sr, Sax, Say, Saz uint8 }

// HealthData reports battery, CPU and pressure telemetry.
type HealthData struct {
	Bat  uint16
	CPU  uint8
	Pres uint8
}

// MotorsState reports the last commanded value of all four rotors.
type MotorsState struct{ Ae1, Ae2, Ae3, Ae4 uint16 }

// WarningKind enumerates the reasons a mode transition was refused.
type WarningKind uint8

const (
	ControlNotNeutral WarningKind = iota
	SensorNotCalibratedWarning
)

// Warning reports a refused mode transition.
type Warning struct{ Kind WarningKind }

// CalibratedAck reports the offsets computed by the calibration pass.
type CalibratedAck struct {
	GyroPitchOffset, GyroRollOffset, GyroYawOffset fixedpoint.Q16_16
	AccelXOffset, AccelYOffset, AccelZOffset       int16
}

// SensorReading reports a raw gyro/accel sample.
type SensorReading struct {
	GyroPitch, GyroRoll, GyroYaw fixedpoint.Q16_16
	AccelX, AccelY, AccelZ       int16
}

// SensorNotCalibrated is a standalone notice (distinct from
// Warning{SensorNotCalibratedWarning}) that the calibration store has never
// completed a pass.
type SensorNotCalibrated struct{}

// MovementErrors reports the latest attitude-controller error terms.
type MovementErrors struct{ YawError, PitchError, RollError fixedpoint.Q16_16 }

// SensorLog is one replayed record from the on-device log store.
type SensorLog struct {
	GyroX, GyroY, GyroZ    int16
	AccelX, AccelY, AccelZ int16
	Roll, Pitch, Yaw       fixedpoint.Q16_16
}

// Duplex

// Text carries a short diagnostic string; the wire name is "Message" but
// that identifier collides with the Message interface, hence Text in Go.
type Text struct{ Value string }

// AckNack is a single-byte acknowledgement: 1 means ACK, 0 means NACK.
type AckNack struct{ Value uint8 }

// KeepAlive is the periodic "pilot still present" token.
type KeepAlive struct{}

// Empty signals that no data was available to read.
type Empty struct{}

// Wire discriminants, in declaration order. Renumbering any of these breaks
// wire compatibility with already-flashed devices.
const (
	tagControl uint64 = iota
	tagMode
	tagTuning
	tagSensorData
	tagHealthData
	tagMotorsState
	tagWarning
	tagText
	tagAckNack
	tagKeepAlive
	tagEmpty
	tagCalibratedAck
	tagSensorReading
	tagSensorNotCalibrated
	tagMovementErrors
	tagUpdateP
	tagUpdateP1P2
	tagStartLogging
	tagStopLogging
	tagStartLogReporting
	tagStopLogReporting
	tagSensorLog
)

func (Control) tag() uint64           { return tagControl }
func (ModeRequest) tag() uint64       { return tagMode }
func (Tuning) tag() uint64            { return tagTuning }
func (UpdateP) tag() uint64           { return tagUpdateP }
func (UpdateP1P2) tag() uint64        { return tagUpdateP1P2 }
func (StartLogging) tag() uint64      { return tagStartLogging }
func (StopLogging) tag() uint64       { return tagStopLogging }
func (StartLogReporting) tag() uint64 { return tagStartLogReporting }
func (StopLogReporting) tag() uint64  { return tagStopLogReporting }
func (SensorData) tag() uint64        { return tagSensorData }
func (HealthData) tag() uint64        { return tagHealthData }
func (MotorsState) tag() uint64       { return tagMotorsState }
func (Warning) tag() uint64           { return tagWarning }
func (CalibratedAck) tag() uint64     { return tagCalibratedAck }
func (SensorReading) tag() uint64     { return tagSensorReading }
func (SensorNotCalibrated) tag() uint64 {
	return tagSensorNotCalibrated
}
func (MovementErrors) tag() uint64 { return tagMovementErrors }
func (SensorLog) tag() uint64      { return tagSensorLog }
func (Text) tag() uint64           { return tagText }
func (AckNack) tag() uint64        { return tagAckNack }
func (KeepAlive) tag() uint64      { return tagKeepAlive }
func (Empty) tag() uint64          { return tagEmpty }

func (m Control) encodeBody(dst []byte) []byte {
	dst = putU16(dst, m.Lift)
	dst = putU16(dst, m.Roll)
	dst = putU16(dst, m.Pitch)
	return putU16(dst, m.Yaw)
}

func (m ModeRequest) encodeBody(dst []byte) []byte { return putU8(dst, uint8(m.Mode)) }

func (m Tuning) encodeBody(dst []byte) []byte {
	dst = putI32(dst, m.P.Int32Bits())
	dst = putI32(dst, m.I.Int32Bits())
	return putI32(dst, m.D.Int32Bits())
}

func (m UpdateP) encodeBody(dst []byte) []byte { return putI32(dst, m.P.Int32Bits()) }

func (m UpdateP1P2) encodeBody(dst []byte) []byte {
	dst = putI32(dst, m.P1.Int32Bits())
	return putI32(dst, m.P2.Int32Bits())
}

func (StartLogging) encodeBody(dst []byte) []byte      { return dst }
func (StopLogging) encodeBody(dst []byte) []byte       { return dst }
func (StartLogReporting) encodeBody(dst []byte) []byte { return dst }
func (StopLogReporting) encodeBody(dst []byte) []byte  { return dst }

func (m SensorData) encodeBody(dst []byte) []byte {
	return append(dst, m.Sp, m.Sq, m.Sr, m.Sax, m.Say, m.Saz)
}

func (m HealthData) encodeBody(dst []byte) []byte {
	dst = putU16(dst, m.Bat)
	return append(dst, m.CPU, m.Pres)
}

func (m MotorsState) encodeBody(dst []byte) []byte {
	dst = putU16(dst, m.Ae1)
	dst = putU16(dst, m.Ae2)
	dst = putU16(dst, m.Ae3)
	return putU16(dst, m.Ae4)
}

func (m Warning) encodeBody(dst []byte) []byte { return putU8(dst, uint8(m.Kind)) }

func (m CalibratedAck) encodeBody(dst []byte) []byte {
	dst = putI32(dst, m.GyroPitchOffset.Int32Bits())
	dst = putI32(dst, m.GyroRollOffset.Int32Bits())
	dst = putI32(dst, m.GyroYawOffset.Int32Bits())
	dst = putI16(dst, m.AccelXOffset)
	dst = putI16(dst, m.AccelYOffset)
	return putI16(dst, m.AccelZOffset)
}

func (m SensorReading) encodeBody(dst []byte) []byte {
	dst = putI32(dst, m.GyroPitch.Int32Bits())
	dst = putI32(dst, m.GyroRoll.Int32Bits())
	dst = putI32(dst, m.GyroYaw.Int32Bits())
	dst = putI16(dst, m.AccelX)
	dst = putI16(dst, m.AccelY)
	return putI16(dst, m.AccelZ)
}

func (SensorNotCalibrated) encodeBody(dst []byte) []byte { return dst }

func (m MovementErrors) encodeBody(dst []byte) []byte {
	dst = putI32(dst, m.YawError.Int32Bits())
	dst = putI32(dst, m.PitchError.Int32Bits())
	return putI32(dst, m.RollError.Int32Bits())
}

func (m SensorLog) encodeBody(dst []byte) []byte {
	dst = putI16(dst, m.GyroX)
	dst = putI16(dst, m.GyroY)
	dst = putI16(dst, m.GyroZ)
	dst = putI16(dst, m.AccelX)
	dst = putI16(dst, m.AccelY)
	dst = putI16(dst, m.AccelZ)
	dst = putI32(dst, m.Roll.Int32Bits())
	dst = putI32(dst, m.Pitch.Int32Bits())
	return putI32(dst, m.Yaw.Int32Bits())
}

func (m Text) encodeBody(dst []byte) []byte { return putString(dst, m.Value) }
func (m AckNack) encodeBody(dst []byte) []byte { return putU8(dst, m.Value) }
func (KeepAlive) encodeBody(dst []byte) []byte { return dst }
func (Empty) encodeBody(dst []byte) []byte     { return dst }

// Encode serializes msg as a varint tag followed by its fields, returning
// ErrNoMem if the result would exceed cap bytes.
func Encode(msg Message, cap int) ([]byte, error) {
	dst := make([]byte, 0, 16)
	dst = putVarint(dst, msg.tag())
	dst = msg.encodeBody(dst)
	if len(dst) > cap {
		return nil, ErrNoMem
	}
	return dst, nil
}

// Decode parses b as a Message. It returns ErrDecode if the tag is unknown
// or the body is too short for its fixed-width fields.
func Decode(b []byte) (Message, error) {
	tag, n, err := getVarint(b)
	if err != nil {
		return nil, err
	}
	body := b[n:]

	switch tag {
	case tagControl:
		lift, n1, err := getU16(body)
		if err != nil {
			return nil, err
		}
		roll, n2, err := getU16(body[n1:])
		if err != nil {
			return nil, err
		}
		pitch, n3, err := getU16(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		yaw, _, err := getU16(body[n1+n2+n3:])
		if err != nil {
			return nil, err
		}
		return Control{Lift: lift, Roll: roll, Pitch: pitch, Yaw: yaw}, nil

	case tagMode:
		v, _, err := getU8(body)
		if err != nil {
			return nil, err
		}
		return ModeRequest{Mode: dronemode.Mode(v)}, nil

	case tagTuning:
		p, n1, err := getI32(body)
		if err != nil {
			return nil, err
		}
		i, n2, err := getI32(body[n1:])
		if err != nil {
			return nil, err
		}
		d, _, err := getI32(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		return Tuning{
			P: fixedpoint.FromInt32Bits(p),
			I: fixedpoint.FromInt32Bits(i),
			D: fixedpoint.FromInt32Bits(d),
		}, nil

	case tagUpdateP:
		p, _, err := getI32(body)
		if err != nil {
			return nil, err
		}
		return UpdateP{P: fixedpoint.FromInt32Bits(p)}, nil

	case tagUpdateP1P2:
		p1, n1, err := getI32(body)
		if err != nil {
			return nil, err
		}
		p2, _, err := getI32(body[n1:])
		if err != nil {
			return nil, err
		}
		return UpdateP1P2{P1: fixedpoint.FromInt32Bits(p1), P2: fixedpoint.FromInt32Bits(p2)}, nil

	case tagStartLogging:
		return StartLogging{}, nil
	case tagStopLogging:
		return StopLogging{}, nil
	case tagStartLogReporting:
		return StartLogReporting{}, nil
	case tagStopLogReporting:
		return StopLogReporting{}, nil

	case tagSensorData:
		if len(body) < 6 {
			return nil, ErrDecode
		}
		return SensorData{
			Sp: body[0], Sq: body[1], Sr: body[2],
			Sax: body[3], Say: body[4], Saz: body[5],
		}, nil

	case tagHealthData:
		bat, n1, err := getU16(body)
		if err != nil {
			return nil, err
		}
		if len(body) < n1+2 {
			return nil, ErrDecode
		}
		return HealthData{Bat: bat, CPU: body[n1], Pres: body[n1+1]}, nil

	case tagMotorsState:
		ae1, n1, err := getU16(body)
		if err != nil {
			return nil, err
		}
		ae2, n2, err := getU16(body[n1:])
		if err != nil {
			return nil, err
		}
		ae3, n3, err := getU16(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		ae4, _, err := getU16(body[n1+n2+n3:])
		if err != nil {
			return nil, err
		}
		return MotorsState{Ae1: ae1, Ae2: ae2, Ae3: ae3, Ae4: ae4}, nil

	case tagWarning:
		v, _, err := getU8(body)
		if err != nil {
			return nil, err
		}
		return Warning{Kind: WarningKind(v)}, nil

	case tagCalibratedAck:
		gp, n1, err := getI32(body)
		if err != nil {
			return nil, err
		}
		gr, n2, err := getI32(body[n1:])
		if err != nil {
			return nil, err
		}
		gy, n3, err := getI32(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		off := n1 + n2 + n3
		ax, n4, err := getI16(body[off:])
		if err != nil {
			return nil, err
		}
		ay, n5, err := getI16(body[off+n4:])
		if err != nil {
			return nil, err
		}
		az, _, err := getI16(body[off+n4+n5:])
		if err != nil {
			return nil, err
		}
		return CalibratedAck{
			GyroPitchOffset: fixedpoint.FromInt32Bits(gp),
			GyroRollOffset:  fixedpoint.FromInt32Bits(gr),
			GyroYawOffset:   fixedpoint.FromInt32Bits(gy),
			AccelXOffset:    ax, AccelYOffset: ay, AccelZOffset: az,
		}, nil

	case tagSensorReading:
		gp, n1, err := getI32(body)
		if err != nil {
			return nil, err
		}
		gr, n2, err := getI32(body[n1:])
		if err != nil {
			return nil, err
		}
		gy, n3, err := getI32(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		off := n1 + n2 + n3
		ax, n4, err := getI16(body[off:])
		if err != nil {
			return nil, err
		}
		ay, n5, err := getI16(body[off+n4:])
		if err != nil {
			return nil, err
		}
		az, _, err := getI16(body[off+n4+n5:])
		if err != nil {
			return nil, err
		}
		return SensorReading{
			GyroPitch: fixedpoint.FromInt32Bits(gp),
			GyroRoll:  fixedpoint.FromInt32Bits(gr),
			GyroYaw:   fixedpoint.FromInt32Bits(gy),
			AccelX:    ax, AccelY: ay, AccelZ: az,
		}, nil

	case tagSensorNotCalibrated:
		return SensorNotCalibrated{}, nil

	case tagMovementErrors:
		ye, n1, err := getI32(body)
		if err != nil {
			return nil, err
		}
		pe, n2, err := getI32(body[n1:])
		if err != nil {
			return nil, err
		}
		re, _, err := getI32(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		return MovementErrors{
			YawError:   fixedpoint.FromInt32Bits(ye),
			PitchError: fixedpoint.FromInt32Bits(pe),
			RollError:  fixedpoint.FromInt32Bits(re),
		}, nil

	case tagSensorLog:
		gx, n1, err := getI16(body)
		if err != nil {
			return nil, err
		}
		gy, n2, err := getI16(body[n1:])
		if err != nil {
			return nil, err
		}
		gz, n3, err := getI16(body[n1+n2:])
		if err != nil {
			return nil, err
		}
		off := n1 + n2 + n3
		ax, n4, err := getI16(body[off:])
		if err != nil {
			return nil, err
		}
		ay, n5, err := getI16(body[off+n4:])
		if err != nil {
			return nil, err
		}
		az, n6, err := getI16(body[off+n4+n5:])
		if err != nil {
			return nil, err
		}
		off2 := off + n4 + n5 + n6
		roll, n7, err := getI32(body[off2:])
		if err != nil {
			return nil, err
		}
		pitch, n8, err := getI32(body[off2+n7:])
		if err != nil {
			return nil, err
		}
		yaw, _, err := getI32(body[off2+n7+n8:])
		if err != nil {
			return nil, err
		}
		return SensorLog{
			GyroX: gx, GyroY: gy, GyroZ: gz,
			AccelX: ax, AccelY: ay, AccelZ: az,
			Roll:  fixedpoint.FromInt32Bits(roll),
			Pitch: fixedpoint.FromInt32Bits(pitch),
			Yaw:   fixedpoint.FromInt32Bits(yaw),
		}, nil

	case tagText:
		s, _, err := getString(body)
		if err != nil {
			return nil, err
		}
		return Text{Value: s}, nil

	case tagAckNack:
		v, _, err := getU8(body)
		if err != nil {
			return nil, err
		}
		return AckNack{Value: v}, nil

	case tagKeepAlive:
		return KeepAlive{}, nil

	case tagEmpty:
		return Empty{}, nil

	default:
		return nil, ErrDecode
	}
}
