package asyncnet

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrNotOpen indicates a socket operation before Open succeeded or after Close.
var ErrNotOpen = errors.New("socket is not open")

// Socket is the transport collaborator owned by a Server's worker. The
// worker is its only user, so implementations need not be safe for
// concurrent use.
type Socket interface {
	// Open establishes the connection. It runs on the worker goroutine.
	Open(ctx context.Context) error
	// Write sends one message payload.
	Write(payload []byte) error
	// TryRead returns the next available message payload. It must not block
	// beyond a short poll window and reports false when no data is ready.
	TryRead() ([]byte, bool, error)
	// Close releases the connection.
	Close() error
}

// Factory creates an unopened socket for addr.
type Factory func(addr string) (Socket, error)

const (
	DefaultDialTimeout  = 5 * time.Second      // default connect timeout.
	DefaultPollTimeout  = 1 * time.Millisecond // default TryRead poll window.
	DefaultWriteTimeout = 5 * time.Second      // default write deadline.
	DefaultKeepAlive    = 30 * time.Second     // default TCP keepalive period.
	readChunkSize       = 4 * 1024             // bytes requested per TCP read.
	maxDatagramSize     = 64*1024 - 1          // largest UDP payload read.
	maxUDPPayload       = maxDatagramSize - 28 // largest UDP payload written.
)

// SocketOptions configures the built-in TCP and UDP sockets.
type SocketOptions struct {
	DialTimeout  time.Duration // maximum duration for Open.
	PollTimeout  time.Duration // read deadline applied by TryRead.
	WriteTimeout time.Duration // maximum duration for a single Write.
	KeepAlive    time.Duration // TCP keepalive period, negative disables it.
}

// DefaultSocketOptions returns the default socket options.
func DefaultSocketOptions() *SocketOptions {
	return &SocketOptions{
		DialTimeout:  DefaultDialTimeout,
		PollTimeout:  DefaultPollTimeout,
		WriteTimeout: DefaultWriteTimeout,
		KeepAlive:    DefaultKeepAlive,
	}
}

func (o *SocketOptions) applyDefaults() {
	if o.DialTimeout == 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.PollTimeout == 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.KeepAlive == 0 {
		o.KeepAlive = DefaultKeepAlive
	}
}

// TCPFactory returns a Factory producing framed TCP sockets.
func TCPFactory(opts *SocketOptions) Factory {
	return func(addr string) (Socket, error) {
		return NewTCPSocket(addr, opts), nil
	}
}

// UDPFactory returns a Factory producing datagram sockets.
func UDPFactory(opts *SocketOptions) Factory {
	return func(addr string) (Socket, error) {
		return NewUDPSocket(addr, opts), nil
	}
}

// DialTCP is a Factory for framed TCP sockets with default options.
var DialTCP = TCPFactory(nil)

// isTimeout reports whether err is a deadline expiry.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
