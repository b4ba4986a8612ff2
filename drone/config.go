package drone

// Config holds the tunables that govern keep-alive timeouts, panic-mode
// motor ramp-down, and the cadence of the various periodic reports. The
// values mirror the firmware's measured defaults.
type Config struct {
	// DeadMargin is how far roll, pitch or yaw may sit from their neutral
	// value of 1024 and still be considered neutral for a mode transition.
	// Lift gets no margin: it is neutral only at exactly 0.
	DeadMargin uint16

	// PanicMotorReduction is how much every rotor command is reduced by
	// on each panic-mode tick.
	PanicMotorReduction uint16

	// KeepAliveTickPeriod is how often, in ticks, a KeepAlive is sent to
	// the ground station.
	KeepAliveTickPeriod uint32

	// MaxTicksNoKeepAlive is how many ticks may pass without receiving a
	// KeepAlive before the link is considered dead.
	MaxTicksNoKeepAlive uint32

	// BatteryPrintingTime is how often, in ticks, a HealthData report is
	// sent.
	BatteryPrintingTime uint32

	// CheckBattery gates whether battery level is read and enforced at
	// all; disabling it is useful on a bench rig with no battery wired.
	CheckBattery bool

	// LogReportSendPeriod is how often, in ticks, one record of an
	// active log report is sent.
	LogReportSendPeriod uint32

	// DebugInfoPeriod is how often, in ticks, the last debug message is
	// resent.
	DebugInfoPeriod uint32

	// DebugMotorCommandPeriod is how often, in ticks, the last motor
	// command is reported.
	DebugMotorCommandPeriod uint32
}

// DefaultConfig returns the tuning the firmware ships with.
func DefaultConfig() Config {
	return Config{
		DeadMargin:              50,
		PanicMotorReduction:     2,
		KeepAliveTickPeriod:     40,
		MaxTicksNoKeepAlive:     120,
		BatteryPrintingTime:     100,
		CheckBattery:            true,
		LogReportSendPeriod:     2,
		DebugInfoPeriod:         50,
		DebugMotorCommandPeriod: 20,
	}
}
