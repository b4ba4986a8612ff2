// Package frame implements the byte-stuffed, CRC-protected serial framing
// used between the drone and the ground-control process. A frame is
// START ∥ escaped(header ∥ payload) ∥ END, where the header carries a
// CRC-8/LTE checksum of the payload.
package frame

import "errors"

// Wire tokens. None of Escape^Mask, Start^Mask or End^Mask may collide with
// Start, End or Escape - TestTokenExclusivity in frame_test.go pins this
// down, since a collision would make stuffed bytes indistinguishable from
// delimiters.
const (
	Start  byte = 0x3C
	End    byte = 0x3E
	Escape byte = 0x5C
	Mask   byte = 0x08
)

// ErrCRC is returned by Decode when the payload fails its CRC-8/LTE check.
var ErrCRC = errors.New("frame: crc mismatch")

// ErrDecode is returned by Decode when the inner header/payload structure
// could not be parsed.
var ErrDecode = errors.New("frame: malformed packet")

// Encode wraps payload in a START/END-delimited, byte-stuffed frame,
// prefixed with a one-byte CRC-8/LTE header covering payload.
func Encode(payload []byte) []byte {
	inner := make([]byte, 0, len(payload)+1)
	inner = append(inner, crc8LTE(payload))
	inner = append(inner, payload...)

	out := make([]byte, 0, len(inner)+4)
	out = append(out, Start)
	for _, b := range inner {
		if b == Start || b == End || b == Escape {
			out = append(out, Escape, b^Mask)
		} else {
			out = append(out, b)
		}
	}
	out = append(out, End)
	return out
}

// Decode extracts the payload from a frame that begins with Start and ends
// with End (inclusive of both). It returns ErrDecode if the frame is too
// short to hold a header, and ErrCRC if the embedded checksum does not
// match the recomputed CRC-8/LTE of the payload.
func Decode(f []byte) ([]byte, error) {
	if len(f) < 2 || f[0] != Start || f[len(f)-1] != End {
		return nil, ErrDecode
	}

	inner := make([]byte, 0, len(f)-2)
	escape := false
	for _, b := range f[1 : len(f)-1] {
		if escape {
			inner = append(inner, b^Mask)
			escape = false
		} else if b == Escape {
			escape = true
		} else {
			inner = append(inner, b)
		}
	}

	if len(inner) < 1 {
		return nil, ErrDecode
	}

	crc := inner[0]
	payload := inner[1:]
	if crc8LTE(payload) != crc {
		return nil, ErrCRC
	}
	return payload, nil
}

// crc8LTETable is the CRC-8/LTE lookup table: polynomial 0x9B, MSB-first
// with no input or output reflection, initial value 0x00, no xorout.
// Generated once and kept as a plain table because the pack carries no
// CRC-8/LTE implementation specifically (see DESIGN.md).
var crc8LTETable = func() [256]byte {
	const poly = 0x9B
	var table [256]byte
	for i := 0; i < 256; i++ {
		crc := byte(i)
		for b := 0; b < 8; b++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}()

func crc8LTE(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = crc8LTETable[crc^b]
	}
	return crc
}
