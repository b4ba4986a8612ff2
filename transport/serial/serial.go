// Package serial wraps a go.bug.st/serial port with the read/send hooks
// pipe.Pipe expects, for use on the ground-control (host) side of the
// link. It plays the same role as the original runner's serial_wrapper.rs
// global, but as an owned value instead of a process-wide static.
package serial

import (
	"fmt"
	"time"

	"github.com/flightctl/quadrotor/pipe"
	goserial "go.bug.st/serial"
)

// BaudRate is the fixed link speed: 115200 8-N-1.
const BaudRate = 115200

// readTimeout mirrors serial_wrapper.rs's init_global_serial, which sets a
// 10ms read timeout on the port (go.bug.st/serial has no analogous write
// timeout setter, unlike the Rust serial2 crate it replaces).
const readTimeout = 10 * time.Millisecond

// port is the subset of go.bug.st/serial's Port interface Link depends on,
// kept narrow so tests can substitute a fake without a real device.
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(t time.Duration) error
}

// Link owns an open serial port and exposes the pipe.ReadFunc/pipe.SendFunc
// pair a pipe.Pipe needs.
type Link struct {
	port port
}

// Open opens the named serial device at 115200 8-N-1.
func Open(name string) (*Link, error) {
	mode := &goserial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}

	port, err := goserial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", name, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("serial: set read timeout: %w", err)
	}

	return &Link{port: port}, nil
}

// Close releases the underlying port.
func (l *Link) Close() error {
	return l.port.Close()
}

// Read implements pipe.ReadFunc: it pulls up to len(buf) bytes, returning
// 0 on a read timeout or error rather than propagating it, since the pipe
// treats "nothing available right now" and "a transient read error" the
// same way the original serial_wrapper.rs's receive_bytes does (it
// swallows read errors and returns 0).
func (l *Link) Read(buf []byte) int {
	n, err := l.port.Read(buf)
	if err != nil {
		return 0
	}
	return n
}

// Send implements pipe.SendFunc: it writes the full frame, reporting
// failure (rather than a partial write) exactly as the original
// serial_wrapper.rs's send_bytes does when written != bytes.len().
func (l *Link) Send(data []byte) bool {
	n, err := l.port.Write(data)
	if err != nil {
		return false
	}
	return n == len(data)
}

// NewPipe builds a pipe.Pipe of the given receive capacity wired to this
// link's Read/Send hooks.
func (l *Link) NewPipe(capacity int) *pipe.Pipe {
	return pipe.New(capacity, l.Read, l.Send)
}
