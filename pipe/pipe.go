// Package pipe couples the frame codec to an abstract byte-oriented device:
// a read hook that pulls raw bytes in, and a send hook that pushes an
// encoded frame out. It is used on both the drone and ground-control sides,
// parameterized by whatever ReadFunc/SendFunc a transport supplies.
package pipe

import (
	"errors"

	"github.com/flightctl/quadrotor/frame"
	"github.com/flightctl/quadrotor/message"
)

// chunkSize is how many bytes Pipe asks the ReadFunc for per underlying
// call while filling its receive buffer.
const chunkSize = 8

var (
	// ErrEmpty means no complete frame is available yet.
	ErrEmpty = errors.New("pipe: no frame available")
	// ErrInvalPacket means a START byte was found before the matching END
	// of an earlier frame; the truncated prefix has been discarded.
	ErrInvalPacket = errors.New("pipe: invalid packet boundary")
	// ErrBusy means SendFunc declined to accept the frame.
	ErrBusy = errors.New("pipe: send function busy")
	// ErrNoMem is declared for the pipe's error set, but no Pipe method
	// returns it: an oversized outgoing message surfaces from Send as
	// message.ErrNoMem instead.
	ErrNoMem = errors.New("pipe: receive buffer exhausted")
)

// ReadFunc pulls up to len(buf) bytes from the underlying device into buf,
// returning the number actually read.
type ReadFunc func(buf []byte) int

// SendFunc pushes data out over the underlying device, returning false if
// the device could not accept it right now.
type SendFunc func(data []byte) bool

// Pipe is a fixed-capacity ring buffer paired with read/send hooks,
// decoding frames as enough bytes accumulate.
type Pipe struct {
	recv     []byte // ring contents, logically recv[0:len(recv)]
	capacity int
	read     ReadFunc
	send     SendFunc
}

// New builds a Pipe with the given receive-buffer capacity.
func New(capacity int, read ReadFunc, send SendFunc) *Pipe {
	return &Pipe{
		recv:     make([]byte, 0, capacity),
		capacity: capacity,
		read:     read,
		send:     send,
	}
}

// Send encodes msg and hands the framed bytes to SendFunc.
func (p *Pipe) Send(msg message.Message) error {
	body, err := message.Encode(msg, p.capacity)
	if err != nil {
		return err
	}
	framed := frame.Encode(body)
	if !p.send(framed) {
		return ErrBusy
	}
	return nil
}

// Poll fills the receive buffer from ReadFunc and attempts to extract and
// decode one complete message. It returns ErrEmpty when no frame is ready
// yet, and ErrInvalPacket when a malformed prefix was discarded (the caller
// should poll again to continue past it).
func (p *Pipe) Poll() (message.Message, error) {
	p.fill()

	raw, err := p.extractFrame()
	if err != nil {
		return nil, err
	}

	body, err := frame.Decode(raw)
	if err != nil {
		return nil, err
	}

	return message.Decode(body)
}

func (p *Pipe) fill() {
	for {
		remaining := p.capacity - len(p.recv)
		if chunkSize > remaining {
			return
		}

		buf := make([]byte, chunkSize)
		n := p.read(buf)
		p.recv = append(p.recv, buf[:n]...)

		if n != chunkSize || len(p.recv) >= p.capacity {
			return
		}
	}
}

// extractFrame aligns to the next START byte, then looks for the matching
// END byte, dequeuing the discovered span either way.
func (p *Pipe) extractFrame() ([]byte, error) {
	p.alignToStart()

	if len(p.recv) == 0 {
		return nil, ErrEmpty
	}

	end, err := p.findEnd()
	if err != nil {
		return nil, err
	}

	out := make([]byte, end+1)
	copy(out, p.recv[:end+1])
	p.recv = p.recv[end+1:]
	return out, nil
}

func (p *Pipe) alignToStart() {
	i := 0
	for i < len(p.recv) && p.recv[i] != frame.Start {
		i++
	}
	p.recv = p.recv[i:]
}

// findEnd scans for frame.End. If an unescaped frame.Start reappears before
// it (other than at index 0), the span up to but not including that second
// START is a truncated, unterminated frame: it is discarded and
// ErrInvalPacket is returned so the caller can retry from the new START.
func (p *Pipe) findEnd() (int, error) {
	for i, b := range p.recv {
		if b == frame.End {
			return i, nil
		}
		if i != 0 && b == frame.Start {
			p.recv = p.recv[i:]
			return 0, ErrInvalPacket
		}
	}
	return 0, ErrEmpty
}
