// Package control implements the attitude and yaw-rate controllers: a
// proportional controller for yaw rate, and PD controllers for roll and
// pitch, each available against either sensor source (DMP or the raw
// complementary filter). There is no integral term - see the repository's
// design notes for why.
package control

import (
	"time"

	"github.com/flightctl/quadrotor/fixedpoint"
)

// RateGains holds the single gain used by the yaw-rate controller.
type RateGains struct{ P fixedpoint.Q16_16 }

// AttitudeGains holds the proportional and derivative gains used by the
// roll/pitch PD controllers.
type AttitudeGains struct{ P1, P2 fixedpoint.Q16_16 }

var (
	responseFloor = fixedpoint.FromInt(-1022)
	responseCeil  = fixedpoint.FromInt(1022)
	responseBias  = fixedpoint.FromInt(1024)

	yawScalingConstant       = fixedpoint.FromInt(64)
	pitchRollScalingConstant = fixedpoint.FromInt(30)
	pitchRollDamping         = fixedpoint.FromInt(3).Div(fixedpoint.FromInt(4))
)

// YawRateDMP computes the yaw-axis motor command from the commanded yaw
// rate and the DMP-derived yaw estimate at the current and previous tick.
func YawRateDMP(yawCommand int32, gains RateGains, yawNew, yawOld fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	return yawRate(yawCommand, gains, yawOld, yawNew, deltaT)
}

// YawRateRaw computes the yaw-axis motor command from the commanded yaw
// rate and the raw complementary filter's yaw-rate estimate.
func YawRateRaw(yawCommand int32, gains RateGains, sensorYawRate fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	dt := fixedpoint.FromInt(int32(deltaT.Milliseconds()))
	rate := sensorYawRate.Mul(fixedpoint.FromInt(100)).Div(dt)
	return yawResponse(yawCommand, gains, rate)
}

func yawRate(yawCommand int32, gains RateGains, old, new fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	newScaled := new.Mul(fixedpoint.FromInt(100))
	oldScaled := old.Mul(fixedpoint.FromInt(100))
	dYaw := oldScaled.Sub(newScaled)
	dt := fixedpoint.FromInt(int32(deltaT.Milliseconds()))
	rate := dYaw.Div(dt)
	return yawResponse(yawCommand, gains, rate)
}

func yawResponse(yawCommand int32, gains RateGains, sensorYawRate fixedpoint.Q16_16) uint16 {
	errTerm := fixedpoint.FromInt(yawCommand).Div(yawScalingConstant).Sub(sensorYawRate.Mul(yawScalingConstant))
	response := gains.P.Mul(errTerm).Mul(fixedpoint.FromInt(5))
	return clipAndScale(response)
}

// RollDMP computes the roll motor command from the DMP roll estimate,
// sharing the attitude-controller formula with PitchDMP. The rate term is
// added.
func RollDMP(setpoint int32, gains AttitudeGains, old, new fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	return attitudeDMP(setpoint, gains, old, new, deltaT)
}

// PitchDMP computes the pitch motor command from the DMP pitch estimate.
// The rate term is subtracted, by running attitudeDMP with P2 negated.
func PitchDMP(setpoint int32, gains AttitudeGains, old, new fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	return attitudeDMP(setpoint, AttitudeGains{P1: gains.P1, P2: -gains.P2}, old, new, deltaT)
}

// attitudeDMP is shared by RollDMP and PitchDMP: it adds P2 times the rate
// term, so the sign of the rate term follows the sign of gains.P2.
func attitudeDMP(setpoint int32, gains AttitudeGains, old, new fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	oldScaled := old.Mul(fixedpoint.FromInt(100))
	newScaled := new.Mul(fixedpoint.FromInt(100))
	dt := fixedpoint.FromInt(int32(deltaT.Milliseconds()))
	rate := oldScaled.Sub(newScaled).Div(dt)

	p := fixedpoint.FromInt(setpoint).Div(pitchRollScalingConstant).Sub(newScaled.Mul(pitchRollDamping))
	response := gains.P1.Mul(p).Add(gains.P2.Mul(rate))
	return clipAndScale(response)
}

// RollRaw computes the roll motor command from the raw complementary
// filter's roll angle and rate. The rate term is added.
func RollRaw(setpoint int32, gains AttitudeGains, rate, angle fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	return attitudeRaw(setpoint, gains, rate, angle, deltaT)
}

// PitchRaw computes the pitch motor command from the raw complementary
// filter's pitch angle and rate. The rate term is subtracted, by running
// attitudeRaw with P2 negated.
func PitchRaw(setpoint int32, gains AttitudeGains, rate, angle fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	return attitudeRaw(setpoint, AttitudeGains{P1: gains.P1, P2: -gains.P2}, rate, angle, deltaT)
}

// attitudeRaw is shared by RollRaw and PitchRaw: like attitudeDMP it adds
// P2 times the rate term, so the sign follows the sign of gains.P2.
func attitudeRaw(setpoint int32, gains AttitudeGains, rate, angle fixedpoint.Q16_16, deltaT time.Duration) uint16 {
	angleScaled := angle.Mul(fixedpoint.FromInt(100))
	dt := fixedpoint.FromInt(int32(deltaT.Milliseconds()))
	r := rate.Div(dt)

	p := fixedpoint.FromInt(setpoint).Div(pitchRollScalingConstant).Sub(angleScaled.Mul(pitchRollDamping))
	response := gains.P1.Mul(p).Add(gains.P2.Mul(r))
	return clipAndScale(response)
}

func clipAndScale(response fixedpoint.Q16_16) uint16 {
	clipped := response.Clamp(responseFloor, responseCeil)
	return uint16(clipped.Add(responseBias).ToInt32())
}
