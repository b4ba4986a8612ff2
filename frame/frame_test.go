package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenExclusivity(t *testing.T) {
	require.NotEqual(t, Escape^Mask, Start)
	require.NotEqual(t, Escape^Mask, End)
	require.NotEqual(t, Start^Mask, Escape)
	require.NotEqual(t, Start^Mask, End)
	require.NotEqual(t, End^Mask, Start)
	require.NotEqual(t, End^Mask, Escape)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0, 1, 'a', 'b'},
		{Start, End, Escape, Mask},
		makeSeq(200),
	}
	for _, payload := range cases {
		f := Encode(payload)
		got, err := Decode(f)
		require.NoError(t, err)
		require.Equal(t, payload, got)
	}
}

func TestEncodeFrameShape(t *testing.T) {
	payload := []byte{Start, End, Escape, 1, 2, 3}
	f := Encode(payload)

	require.Equal(t, Start, f[0])
	require.Equal(t, End, f[len(f)-1])

	for i := 1; i < len(f)-1; i++ {
		if f[i] == Escape {
			continue
		}
		require.NotEqual(t, Start, f[i], "unescaped START in the stuffed body at %d", i)
		require.NotEqual(t, End, f[i], "unescaped END in the stuffed body at %d", i)
	}
}

func TestDecodeRejectsBadStructure(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeRejectsBitFlip(t *testing.T) {
	f := Encode([]byte{10, 20, 30, 40})
	corrupted := make([]byte, len(f))
	copy(corrupted, f)
	corrupted[2] ^= 0x01 // flip a bit inside the stuffed header/payload

	_, err := Decode(corrupted)
	require.Error(t, err)
}

func makeSeq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
