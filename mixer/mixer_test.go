package mixer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroState(t *testing.T) {
	got, err := Mix([4]uint16{0, 1024, 1024, 1024})
	require.NoError(t, err)
	require.Equal(t, [4]uint16{0, 0, 0, 0}, got)
}

func TestHover(t *testing.T) {
	got, err := Mix([4]uint16{2047, 1024, 1024, 1024})
	require.NoError(t, err)
	require.Equal(t, got[0], got[1])
	require.Equal(t, got[1], got[2])
	require.Equal(t, got[2], got[3])
}

func TestRollLeft(t *testing.T) {
	got, err := Mix([4]uint16{1024, 0, 1024, 1024})
	require.NoError(t, err)
	require.Greater(t, got[1], got[3])
	require.Equal(t, got[0], got[2])
}

func TestRollRight(t *testing.T) {
	got, err := Mix([4]uint16{1024, 2047, 1024, 1024})
	require.NoError(t, err)
	require.Less(t, got[1], got[3])
	require.Equal(t, got[0], got[2])
}

func TestPitchForward(t *testing.T) {
	got, err := Mix([4]uint16{1024, 1024, 0, 1024})
	require.NoError(t, err)
	require.Less(t, got[0], got[2])
	require.Equal(t, got[1], got[3])
}

func TestPitchBackward(t *testing.T) {
	got, err := Mix([4]uint16{1024, 1024, 2047, 1024})
	require.NoError(t, err)
	require.Greater(t, got[0], got[2])
	require.Equal(t, got[1], got[3])
}

func TestTurnDiagFrontLeft(t *testing.T) {
	got, err := Mix([4]uint16{1024, 0, 0, 1024})
	require.NoError(t, err)
	require.Less(t, got[0], got[2])
	require.Greater(t, got[1], got[3])
}

func TestTurnDiagFrontRight(t *testing.T) {
	got, err := Mix([4]uint16{1024, 2047, 0, 1024})
	require.NoError(t, err)
	require.Less(t, got[0], got[2])
	require.Less(t, got[1], got[3])
}

func TestTurnDiagBackRight(t *testing.T) {
	got, err := Mix([4]uint16{1024, 2047, 2047, 1024})
	require.NoError(t, err)
	require.Greater(t, got[0], got[2])
	require.Less(t, got[1], got[3])
}

func TestTurnDiagBackLeft(t *testing.T) {
	got, err := Mix([4]uint16{1024, 0, 2047, 1024})
	require.NoError(t, err)
	require.Greater(t, got[0], got[2])
	require.Greater(t, got[1], got[3])
}

func TestZeroThrust(t *testing.T) {
	cases := [][4]uint16{
		{0, 0, 0, 0},
		{0, 2047, 0, 0},
		{0, 2047, 2047, 0},
		{0, 0, 2047, 0},
		{0, 2047, 1000, 1000},
	}
	for _, c := range cases {
		got, err := Mix(c)
		require.NoError(t, err)
		require.Equal(t, [4]uint16{0, 0, 0, 0}, got)
	}
}

func TestInputOutOfBounds(t *testing.T) {
	_, err := Mix([4]uint16{2048, 0, 0, 0})
	require.ErrorIs(t, err, ErrInputOutOfBounds)
}
