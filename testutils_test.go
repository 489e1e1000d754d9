package asyncnet

import (
	"context"
	"sync"
	"sync/atomic"
)

// memSocket is an in-memory Socket. Tests feed inbound payloads with push
// and inspect what the worker wrote with writes.
type memSocket struct {
	mu       sync.Mutex
	opened   bool
	closed   bool
	openErr  error
	writeErr error
	written  []string
	inbound  [][]byte
	block    chan struct{} // when set, TryRead waits for it to close.
	openedCh chan struct{}
}

func newMemSocket() *memSocket {
	return &memSocket{openedCh: make(chan struct{})}
}

func (m *memSocket) Open(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.opened = true
	close(m.openedCh)
	return nil
}

func (m *memSocket) Write(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, string(payload))
	return nil
}

func (m *memSocket) TryRead() ([]byte, bool, error) {
	m.mu.Lock()
	block := m.block
	m.mu.Unlock()
	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inbound) == 0 {
		return nil, false, nil
	}
	p := m.inbound[0]
	m.inbound = m.inbound[1:]
	return p, true, nil
}

func (m *memSocket) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memSocket) push(msgs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range msgs {
		m.inbound = append(m.inbound, []byte(s))
	}
}

func (m *memSocket) writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.written...)
}

func (m *memSocket) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *memSocket) setWriteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// memFactory hands out sock and counts how many times it was asked.
func memFactory(sock Socket, calls *atomic.Int32) Factory {
	return func(string) (Socket, error) {
		if calls != nil {
			calls.Add(1)
		}
		return sock, nil
	}
}
