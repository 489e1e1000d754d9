package asyncnet

import (
	"context"
	"time"
)

// brokenSocket stands in when the factory fails, so the worker loop keeps
// draining the outbound queue instead of exiting.
type brokenSocket struct{ err error }

func (b brokenSocket) Open(context.Context) error     { return b.err }
func (b brokenSocket) Write([]byte) error             { return b.err }
func (b brokenSocket) TryRead() ([]byte, bool, error) { return nil, false, b.err }
func (b brokenSocket) Close() error                   { return nil }

// worker owns the socket. It is the only consumer of the outbound queue and
// the only producer of the inbound queue.
type worker struct {
	addr     string
	factory  Factory
	queues   *dualQueue
	wake     <-chan struct{}
	idleWait time.Duration
	logger   Logger
	stats    *counters
	sock     Socket
	lastErr  string // last transport error logged, to avoid repeating it every poll.
}

// run loops until ctx is cancelled. Each iteration writes at most one
// outbound report and reads every inbound report currently available.
func (w *worker) run(ctx context.Context) {
	w.open(ctx)
	defer func() {
		if err := w.sock.Close(); err != nil {
			w.logger.Warnf("Error closing socket for %s: %v", w.addr, err)
		}
	}()

	idle := time.NewTimer(w.idleWait)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		wrote := w.flushOne()
		read := w.pull(ctx)
		if wrote || read {
			continue
		}

		idle.Reset(w.idleWait)
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		case <-idle.C:
		}
	}
}

func (w *worker) open(ctx context.Context) {
	sock, err := w.factory(w.addr)
	if err == nil && sock == nil {
		err = ErrNotOpen
	}
	if err != nil {
		w.fail("create", err)
		w.sock = brokenSocket{err: err}
		return
	}
	w.sock = sock

	if err := sock.Open(ctx); err != nil {
		w.fail("open", err)
		return
	}
	w.logger.Infof("Socket to %s opened.", w.addr)
}

// flushOne writes the oldest outbound report. The queue lock is released
// before the write.
func (w *worker) flushOne() bool {
	r, ok := w.queues.popOutbound()
	if !ok {
		return false
	}
	if err := w.sock.Write(r.Payload); err != nil {
		w.fail("write", err)
		return true
	}
	w.stats.written.Add(1)
	w.lastErr = ""
	return true
}

// pull reads until the socket has nothing more to offer right now.
func (w *worker) pull(ctx context.Context) bool {
	moved := false
	for ctx.Err() == nil {
		payload, ok, err := w.sock.TryRead()
		if err != nil {
			w.fail("read", err)
			return moved
		}
		if !ok {
			return moved
		}
		moved = true

		switch w.queues.offerInbound(Report{Payload: payload, Stamp: time.Now()}) {
		case admitted:
			w.stats.received.Add(1)
		case rejected:
			w.stats.rejected.Add(1)
		case overflow:
			w.stats.inboundDropped.Add(1)
		}
	}
	return moved
}

// fail records a transport error. The loop carries on regardless.
func (w *worker) fail(op string, err error) {
	w.stats.transportErrors.Add(1)
	msg := err.Error()
	if msg == w.lastErr {
		return
	}
	w.lastErr = msg
	w.logger.Warnf("Socket %s error on %s: %v", op, w.addr, err)
}
