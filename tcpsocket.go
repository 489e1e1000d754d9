package asyncnet

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPSocket is a Socket speaking the length-prefixed framing of Write and
// Read over a single TCP connection. TryRead accumulates partial frames
// across poll windows, so a deadline expiring mid-frame loses nothing.
type TCPSocket struct {
	addr    string
	opts    SocketOptions
	conn    net.Conn
	pending []byte // bytes read but not yet returned as a frame.
}

// NewTCPSocket returns an unopened TCP socket for addr. A nil opts uses the defaults.
func NewTCPSocket(addr string, opts *SocketOptions) *TCPSocket {
	if opts == nil {
		opts = DefaultSocketOptions()
	}
	o := *opts
	o.applyDefaults()

	return &TCPSocket{addr: addr, opts: o}
}

// Open dials the remote address.
func (s *TCPSocket) Open(ctx context.Context) error {
	d := net.Dialer{Timeout: s.opts.DialTimeout, KeepAlive: s.opts.KeepAlive}
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	s.conn = conn

	return nil
}

// Write sends payload as one frame.
func (s *TCPSocket) Write(payload []byte) error {
	if s.conn == nil {
		return ErrNotOpen
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if err := Write(s.conn, payload); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	return nil
}

// TryRead returns the next complete frame, waiting at most PollTimeout for data.
func (s *TCPSocket) TryRead() ([]byte, bool, error) {
	if s.conn == nil {
		return nil, false, ErrNotOpen
	}
	if msg, ok := s.nextFrame(); ok {
		return msg, true, nil
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.opts.PollTimeout)); err != nil {
		return nil, false, fmt.Errorf("setting read deadline: %w", err)
	}

	buf := GetBuffer(readChunkSize)
	n, err := s.conn.Read(buf)
	s.pending = append(s.pending, buf[:n]...)
	PutBuffer(buf)

	if msg, ok := s.nextFrame(); ok {
		return msg, true, nil
	}
	if err != nil && !isTimeout(err) {
		return nil, false, fmt.Errorf("reading from connection: %w", err)
	}

	return nil, false, nil
}

// Close closes the connection. Closing an unopened socket is a no-op.
func (s *TCPSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.pending = nil

	return err
}

// nextFrame pops one complete frame off the pending bytes.
func (s *TCPSocket) nextFrame() ([]byte, bool) {
	frame, n, ok := SplitFrame(s.pending)
	if !ok {
		return nil, false
	}
	msg := make([]byte, len(frame))
	copy(msg, frame)
	s.pending = append(s.pending[:0], s.pending[n:]...)

	return msg, true
}
