package asyncnet

import "sync/atomic"

// Stats is a snapshot of a Server's counters.
type Stats struct {
	Enqueued        uint64 // outbound reports accepted by Send.
	Dropped         uint64 // outbound reports refused because the queue was full.
	Written         uint64 // outbound reports written to the socket.
	Received        uint64 // inbound reports admitted to the inbound queue.
	Rejected        uint64 // inbound reports discarded by the admission predicate.
	InboundDropped  uint64 // inbound reports discarded because the inbound queue was full.
	TransportErrors uint64 // socket open, write and read failures.
	Outbound        int    // reports waiting in the outbound queue.
	Inbound         int    // reports waiting in the inbound queue.
}

// counters are updated by the caller and worker goroutines concurrently.
type counters struct {
	enqueued        atomic.Uint64
	dropped         atomic.Uint64
	written         atomic.Uint64
	received        atomic.Uint64
	rejected        atomic.Uint64
	inboundDropped  atomic.Uint64
	transportErrors atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Enqueued:        c.enqueued.Load(),
		Dropped:         c.dropped.Load(),
		Written:         c.written.Load(),
		Received:        c.received.Load(),
		Rejected:        c.rejected.Load(),
		InboundDropped:  c.inboundDropped.Load(),
		TransportErrors: c.transportErrors.Load(),
	}
}
