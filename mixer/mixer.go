// Package mixer converts the four pilot command channels (throttle, roll,
// pitch, yaw) into four per-rotor motor commands. The throttle curve runs
// through a fixed-point square root (no FPU on target hardware), and each
// cross-axis modifier is capped so that no single command can drive a rotor
// below its stall point.
package mixer

import (
	"errors"

	"github.com/flightctl/quadrotor/fixedpoint"
)

// ErrInputOutOfBounds is returned when any input channel exceeds
// MaxInputCommand.
var ErrInputOutOfBounds = errors.New("mixer: input channel out of bounds")

const (
	maxThrust       = 600
	maxMotorCommand = 800
	motorStall      = 180

	// MaxInputCommand is the top of the valid range for every input
	// channel.
	MaxInputCommand = 2047
	minThrustCommand = 10

	throttleA1 = 12
	throttleA0 = motorStall - 3*throttleA1

	minRollModif = -200
	maxRollModif = -minRollModif
	minPitchModif = minRollModif
	maxPitchModif = maxRollModif
	minYawModif = -300
	maxYawModif = -minYawModif
)

// Mix maps the four input channels, each in [0, MaxInputCommand], to four
// rotor commands in [0, maxMotorCommand], in ae1..ae4 order (front-left,
// front-right, rear-right, rear-left, matching the original X-frame wiring).
func Mix(input [4]uint16) ([4]uint16, error) {
	for _, v := range input {
		if v > MaxInputCommand {
			return [4]uint16{}, ErrInputOutOfBounds
		}
	}

	if input[0] <= minThrustCommand {
		return [4]uint16{}, nil
	}

	throttle := throttleCurve(input[0])
	untilStall := throttle - motorStall

	roll := int32(input[1]) - 1024
	pitch := int32(input[2]) - 1024
	yaw := int32(input[3]) - 1024

	rollModif := rollModifier(roll, untilStall)
	pitchModif := pitchModifier(pitch, untilStall)
	yawModif := yawModifier(yaw, untilStall)

	raw := [4]int32{
		throttle + pitchModif + yawModif,
		throttle - rollModif - yawModif,
		throttle - pitchModif + yawModif,
		throttle + rollModif - yawModif,
	}

	var out [4]uint16
	for i, v := range raw {
		if v < 0 {
			v = 0
		}
		if v > maxMotorCommand {
			v = maxMotorCommand
		}
		out[i] = uint16(v)
	}
	return out, nil
}

// throttleCurve computes MIN(sqrt(cmd)*A1 + A0, maxThrust) in fixed point.
func throttleCurve(cmd uint16) int32 {
	sq := fixedpoint.FromIntQ26(int32(cmd)).Sqrt()
	scaled := sq.Mul(fixedpoint.FromIntQ26(throttleA1)).ToInt32() + throttleA0
	if scaled > maxThrust {
		return maxThrust
	}
	return scaled
}

func checkStall(untilStall int32) bool {
	return untilStall < maxPitchModif+maxYawModif ||
		untilStall < maxRollModif+maxYawModif
}

func rollModifier(roll, untilStall int32) int32 {
	otherRange := int32(maxYawModif - minYawModif)
	return modifier(roll, untilStall, minRollModif, maxRollModif, otherRange)
}

func pitchModifier(pitch, untilStall int32) int32 {
	otherRange := int32(maxYawModif - minYawModif)
	return modifier(pitch, untilStall, minPitchModif, maxPitchModif, otherRange)
}

func yawModifier(yaw, untilStall int32) int32 {
	a := int32(maxRollModif - minRollModif)
	b := int32(maxPitchModif - minPitchModif)
	otherRange := a
	if a < b {
		otherRange = b
	}
	return modifier(yaw, untilStall, minYawModif, maxYawModif, otherRange)
}

// modifier maps command (in [-1024, 1023]) onto [toLo, toHi], then, if the
// motors are close enough to stall that both this and the other axis'
// maximum modifiers together would exceed the remaining headroom, caps the
// result proportionally to this axis' share of the combined range.
func modifier(command, untilStall, toLo, toHi, otherRange int32) int32 {
	if untilStall < 0 {
		return 0
	}

	comModif := mapRange(-1024, 1023, toLo, toHi, command)
	if comModif == 0 {
		return 0
	}

	if checkStall(untilStall) {
		thisRange := toHi - toLo
		cappedModif := (thisRange * untilStall) / (thisRange + otherRange)

		if comModif > 0 {
			if comModif > cappedModif {
				comModif = cappedModif
			}
		} else {
			if comModif < -cappedModif {
				comModif = -cappedModif
			}
		}
	}

	return comModif
}

func mapRange(fromLo, fromHi, toLo, toHi, s int32) int32 {
	return toLo + (s-fromLo)*(toHi-toLo)/(fromHi-fromLo)
}
