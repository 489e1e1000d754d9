package asyncnet

import "sync"

// admission is the outcome of offering an inbound report to the dual queue.
type admission int

const (
	admitted admission = iota // report appended to the inbound queue.
	rejected                  // predicate returned false.
	overflow                  // inbound limit reached.
)

// dualQueue holds the outbound and inbound report queues. Each queue has its
// own lock; the admission predicate is guarded by the inbound lock so that
// swapping it never races with an evaluation.
type dualQueue struct {
	outMu sync.Mutex
	out   *RingBuffer[Report]

	inMu  sync.Mutex
	in    *RingBuffer[Report]
	admit Predicate
}

func newDualQueue(outDepth, inDepth int) *dualQueue {
	return &dualQueue{
		out:   NewRingBuffer[Report](uint64(outDepth)),
		in:    NewRingBuffer[Report](uint64(inDepth)),
		admit: AcceptAll,
	}
}

// pushOutbound appends r unless the outbound queue is full.
func (q *dualQueue) pushOutbound(r Report) bool {
	q.outMu.Lock()
	defer q.outMu.Unlock()
	return q.out.Enqueue(r)
}

// popOutbound removes the oldest outbound report. The caller writes it to
// the socket after the lock is released.
func (q *dualQueue) popOutbound() (Report, bool) {
	q.outMu.Lock()
	defer q.outMu.Unlock()
	return q.out.Dequeue()
}

func (q *dualQueue) outboundLen() int {
	q.outMu.Lock()
	defer q.outMu.Unlock()
	return int(q.out.Len())
}

// offerInbound evaluates the active predicate and appends r when admitted.
// The predicate sees its own copy of the payload.
func (q *dualQueue) offerInbound(r Report) admission {
	q.inMu.Lock()
	defer q.inMu.Unlock()
	if !q.admit(r.clone()) {
		return rejected
	}
	if !q.in.Enqueue(r) {
		return overflow
	}
	return admitted
}

// drainInbound takes every pending inbound report, oldest first.
func (q *dualQueue) drainInbound() []Report {
	q.inMu.Lock()
	defer q.inMu.Unlock()
	return q.in.Drain()
}

func (q *dualQueue) inboundLen() int {
	q.inMu.Lock()
	defer q.inMu.Unlock()
	return int(q.in.Len())
}

// setPredicate swaps the admission predicate. A nil predicate restores AcceptAll.
func (q *dualQueue) setPredicate(p Predicate) {
	if p == nil {
		p = AcceptAll
	}
	q.inMu.Lock()
	q.admit = p
	q.inMu.Unlock()
}
