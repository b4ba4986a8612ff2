// Package inputstate holds the ground-control host's latest control-stick
// values as a set of atomics, replacing the original runner's global
// lazy_static INPUT_STATE_KB/INPUT_STATE_JS with a single owned struct.
// Input sources write into an Aggregator and a reader takes a Snapshot;
// no command in cmd/groundctl creates or reads an Aggregator.
package inputstate

import "sync/atomic"

// Aggregator is safe for concurrent use: any number of input-source
// goroutines may call the Set* methods while a sender goroutine calls
// Snapshot, with no ordering guarantee between field writers - the same
// "last writer wins, no locking" contract the original runner's globals
// had.
type Aggregator struct {
	lift  uint32
	roll  uint32
	pitch uint32
	yaw   uint32
}

// neutral is the stick-centered value every channel starts at. It matches
// the drone package's neutral for roll, pitch and yaw; lift too starts at
// 1024, although the drone treats lift as neutral only at 0.
const neutral = 1024

// New returns an Aggregator with every channel centered.
func New() *Aggregator {
	a := &Aggregator{}
	a.SetLift(neutral)
	a.SetRoll(neutral)
	a.SetPitch(neutral)
	a.SetYaw(neutral)
	return a
}

func (a *Aggregator) SetLift(v uint16)  { atomic.StoreUint32(&a.lift, uint32(v)) }
func (a *Aggregator) SetRoll(v uint16)  { atomic.StoreUint32(&a.roll, uint32(v)) }
func (a *Aggregator) SetPitch(v uint16) { atomic.StoreUint32(&a.pitch, uint32(v)) }
func (a *Aggregator) SetYaw(v uint16)   { atomic.StoreUint32(&a.yaw, uint32(v)) }

// Snapshot is the [lift, roll, pitch, yaw] tuple read from an Aggregator.
type Snapshot struct {
	Lift, Roll, Pitch, Yaw uint16
}

// Snapshot reads every channel independently; the four reads are not
// mutually atomic, matching the original's lack of a cross-field lock.
func (a *Aggregator) Snapshot() Snapshot {
	return Snapshot{
		Lift:  uint16(atomic.LoadUint32(&a.lift)),
		Roll:  uint16(atomic.LoadUint32(&a.roll)),
		Pitch: uint16(atomic.LoadUint32(&a.pitch)),
		Yaw:   uint16(atomic.LoadUint32(&a.yaw)),
	}
}
