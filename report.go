package asyncnet

import (
	"bytes"
	"time"
)

// Report is a timestamped message envelope exchanged between a Server and
// its caller. Reports are values and are copied freely between queues. A
// Server never shares a payload with its caller: changing the bytes of a
// returned report does not affect what is queued.
type Report struct {
	Payload []byte    // message content.
	Stamp   time.Time // moment the report was created.
}

// NewReport builds an outbound report from text, stamped with the current time.
func NewReport(text string) Report {
	return newReport([]byte(text))
}

// newReport copies payload so the report never aliases caller memory.
func newReport(payload []byte) Report {
	p := make([]byte, len(payload))
	copy(p, payload)

	return Report{Payload: p, Stamp: time.Now()}
}

// clone returns a report with its own copy of the payload.
func (r Report) clone() Report {
	return Report{Payload: bytes.Clone(r.Payload), Stamp: r.Stamp}
}

// Text returns the payload as a string.
func (r Report) Text() string {
	return string(r.Payload)
}

// Predicate decides whether an inbound report is admitted to the inbound queue.
type Predicate func(Report) bool

// AcceptAll is the default Predicate. It admits every report.
func AcceptAll(Report) bool { return true }

// RejectAll discards every report.
func RejectAll(Report) bool { return false }
