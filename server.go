package asyncnet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrAlreadyRunning indicates Start was called while the worker is active.
	ErrAlreadyRunning = errors.New("server is already running")

	// ErrStopped indicates Start was called after Stop. A Server runs its worker once.
	ErrStopped = errors.New("server is stopped")

	// ErrShutdownTimeout indicates the worker did not exit within Config.ShutdownTimeout.
	ErrShutdownTimeout = errors.New("timeout waiting for worker to exit")
)

// State is the lifecycle stage of a Server's worker.
type State int32

const (
	StateIdle    State = iota // not started yet.
	StateRunning              // worker goroutine active.
	StateStopped              // worker exited or Stop called; terminal.
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Server is the asynchronous send/receive facade over one socket. Send and
// Receive only touch in-memory queues; a single worker goroutine, spawned by
// Start, owns the socket and moves reports between it and the queues.
type Server struct {
	mu      sync.Mutex // guards the lifecycle fields below.
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{} // closed when the worker exits.

	addr    string
	factory Factory
	config  *Config
	logger  Logger
	queues  *dualQueue
	wake    chan struct{}
	state   atomic.Int32
	stats   counters
}

// New creates a Server that will reach addr through sockets built by f.
// A nil config uses DefaultConfig.
func New(addr string, f Factory, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	return &Server{
		addr:    addr,
		factory: f,
		config:  config,
		logger:  config.Logger,
		queues:  newDualQueue(config.MaxDepth, config.InboundDepth),
		wake:    make(chan struct{}, 1),
	}
}

// Start launches the worker goroutine. Socket setup happens on the worker,
// so Start never blocks on the network.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.done != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state.Store(int32(StateRunning))

	w := &worker{
		addr:     s.addr,
		factory:  s.factory,
		queues:   s.queues,
		wake:     s.wake,
		idleWait: s.config.IdleWait,
		logger:   s.logger,
		stats:    &s.stats,
	}

	go func(done chan struct{}) {
		defer close(done)
		defer s.state.Store(int32(StateStopped))
		w.run(ctx)
	}(s.done)

	s.logger.Infof("Server for %s started.", s.addr)

	return nil
}

// Stop signals the worker to exit and waits for it. Calling Stop again, or
// before Start, returns nil.
func (s *Server) Stop() error {
	s.mu.Lock()
	first := !s.stopped
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	done := s.done
	s.mu.Unlock()

	if done == nil {
		s.state.Store(int32(StateStopped))
		return nil
	}

	if s.config.ShutdownTimeout > 0 {
		select {
		case <-done:
		case <-time.After(s.config.ShutdownTimeout):
			s.logger.Warnf("Timeout waiting for worker of %s to exit.", s.addr)
			return ErrShutdownTimeout
		}
	} else {
		<-done
	}

	if first {
		s.logger.Infof("Server for %s stopped.", s.addr)
	}

	return nil
}

// Send queues text for the worker to write. When the outbound queue is full
// the report is dropped silently. The constructed report is returned either way.
func (s *Server) Send(text string) Report {
	r := NewReport(text)
	s.enqueue(r.clone())
	return r
}

// SendBytes is like Send for a raw payload. The payload is copied.
func (s *Server) SendBytes(payload []byte) Report {
	r := newReport(payload)
	s.enqueue(r.clone())
	return r
}

func (s *Server) enqueue(r Report) {
	if !s.queues.pushOutbound(r) {
		s.stats.dropped.Add(1)
		return
	}
	s.stats.enqueued.Add(1)

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Receive takes every pending inbound report, oldest first. It returns an
// empty slice when nothing is pending.
func (s *Server) Receive() []Report {
	return s.queues.drainInbound()
}

// SetAdmissionPredicate replaces the filter applied to inbound reports. A
// nil predicate restores AcceptAll.
func (s *Server) SetAdmissionPredicate(p Predicate) {
	s.queues.setPredicate(p)
}

// State returns the worker's lifecycle stage.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of the server's counters and queue depths.
func (s *Server) Stats() Stats {
	st := s.stats.snapshot()
	st.Outbound = s.queues.outboundLen()
	st.Inbound = s.queues.inboundLen()
	return st
}

// Addr returns the remote address the server was created for.
func (s *Server) Addr() string {
	return s.addr
}
