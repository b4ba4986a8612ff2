package inputstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStartsCentered(t *testing.T) {
	a := New()
	assert.Equal(t, Snapshot{Lift: neutral, Roll: neutral, Pitch: neutral, Yaw: neutral}, a.Snapshot())
}

func TestSettersAreIndependentlyVisible(t *testing.T) {
	a := New()
	a.SetRoll(1500)
	a.SetYaw(500)

	snap := a.Snapshot()
	assert.Equal(t, uint16(1500), snap.Roll)
	assert.Equal(t, uint16(500), snap.Yaw)
	assert.Equal(t, uint16(neutral), snap.Lift)
	assert.Equal(t, uint16(neutral), snap.Pitch)
}
