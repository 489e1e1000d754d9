package asyncnet_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/codincodee/asyncnet"
	"github.com/stretchr/testify/require"
)

// readFrame polls TryRead until a frame arrives or the timeout passes.
func readFrame(t *testing.T, s asyncnet.Socket, timeout time.Duration) []byte {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		msg, ok, err := s.TryRead()
		require.NoError(t, err)
		if ok {
			return msg
		}
	}
	t.Fatalf("no frame within %v", timeout)

	return nil
}

// rawPeer accepts one connection and hands it to fn.
func rawPeer(t *testing.T, fn func(net.Conn)) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		fn(c)
	}()

	return l.Addr().String()
}

func TestTCPSocketNotOpen(t *testing.T) {
	s := asyncnet.NewTCPSocket("127.0.0.1:1", nil)

	require.ErrorIs(t, s.Write([]byte("x")), asyncnet.ErrNotOpen)
	_, _, err := s.TryRead()
	require.ErrorIs(t, err, asyncnet.ErrNotOpen)
	require.NoError(t, s.Close())
}

func TestTCPSocketOpenRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := asyncnet.NewTCPSocket(addr, &asyncnet.SocketOptions{DialTimeout: 500 * time.Millisecond})
	require.Error(t, s.Open(context.Background()))
}

func TestTCPSocketEcho(t *testing.T) {
	addr, _ := StartTestServer(t)

	s := asyncnet.NewTCPSocket(addr, nil)
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	// nothing pending yet
	_, ok, err := s.TryRead()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write([]byte("hello")))
	require.NoError(t, s.Write([]byte("world")))

	require.Equal(t, "hello", string(readFrame(t, s, time.Second)))
	require.Equal(t, "world", string(readFrame(t, s, time.Second)))
}

func TestTCPSocketPartialFrame(t *testing.T) {
	frame, err := asyncnet.Encode([]byte("split-frame"))
	require.NoError(t, err)
	release := make(chan struct{})

	addr := rawPeer(t, func(c net.Conn) {
		_, _ = c.Write(frame[:5])
		<-release
		_, _ = c.Write(frame[5:])
		time.Sleep(100 * time.Millisecond)
	})

	s := asyncnet.NewTCPSocket(addr, &asyncnet.SocketOptions{PollTimeout: 10 * time.Millisecond})
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	// the first half arrives but is not a frame yet
	for range 5 {
		_, ok, err := s.TryRead()
		require.NoError(t, err)
		require.False(t, ok)
	}

	close(release)
	require.Equal(t, "split-frame", string(readFrame(t, s, time.Second)))
}

func TestTCPSocketCoalescedFrames(t *testing.T) {
	a, _ := asyncnet.Encode([]byte("one"))
	b, _ := asyncnet.Encode([]byte("two"))

	addr := rawPeer(t, func(c net.Conn) {
		_, _ = c.Write(append(append([]byte{}, a...), b...))
		time.Sleep(100 * time.Millisecond)
	})

	s := asyncnet.NewTCPSocket(addr, nil)
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	require.Equal(t, "one", string(readFrame(t, s, time.Second)))

	// the second frame is already buffered
	msg, ok, err := s.TryRead()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", string(msg))
}

func TestTCPSocketPeerClosed(t *testing.T) {
	addr := rawPeer(t, func(net.Conn) {})

	s := asyncnet.NewTCPSocket(addr, nil)
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	require.Eventually(t, func() bool {
		_, _, err := s.TryRead()
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func TestTCPSocketWriteTooLarge(t *testing.T) {
	addr, _ := StartTestServer(t)

	s := asyncnet.NewTCPSocket(addr, nil)
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	err := s.Write(make([]byte, asyncnet.MaxFrameLen+1))
	require.ErrorIs(t, err, asyncnet.ErrMaxLenExceeded)
}
