package asyncnet

import (
	"context"
	"fmt"
	"net"
	"time"
)

// UDPSocket is a Socket mapping one datagram to one message.
type UDPSocket struct {
	addr string
	opts SocketOptions
	conn net.Conn
}

// NewUDPSocket returns an unopened UDP socket for addr. A nil opts uses the defaults.
func NewUDPSocket(addr string, opts *SocketOptions) *UDPSocket {
	if opts == nil {
		opts = DefaultSocketOptions()
	}
	o := *opts
	o.applyDefaults()

	return &UDPSocket{addr: addr, opts: o}
}

// Open binds a local port connected to the remote address.
func (s *UDPSocket) Open(ctx context.Context) error {
	d := net.Dialer{Timeout: s.opts.DialTimeout}
	conn, err := d.DialContext(ctx, "udp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	s.conn = conn

	return nil
}

// Write sends payload as a single datagram.
func (s *UDPSocket) Write(payload []byte) error {
	if s.conn == nil {
		return ErrNotOpen
	}
	if len(payload) > maxUDPPayload {
		return ErrMaxLenExceeded
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if _, err := s.conn.Write(payload); err != nil {
		return fmt.Errorf("writing datagram: %w", err)
	}

	return nil
}

// TryRead returns the next datagram, waiting at most PollTimeout for one.
func (s *UDPSocket) TryRead() ([]byte, bool, error) {
	if s.conn == nil {
		return nil, false, ErrNotOpen
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(s.opts.PollTimeout)); err != nil {
		return nil, false, fmt.Errorf("setting read deadline: %w", err)
	}

	buf := GetBuffer(maxDatagramSize)
	defer PutBuffer(buf)

	n, err := s.conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading datagram: %w", err)
	}
	msg := make([]byte, n)
	copy(msg, buf[:n])

	return msg, true, nil
}

// Close closes the connection. Closing an unopened socket is a no-op.
func (s *UDPSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil

	return err
}

// LocalAddr returns the bound local address, nil before Open.
func (s *UDPSocket) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}
