// Package asyncnet_test exercises asyncnet against real loopback peers.
package asyncnet_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/codincodee/asyncnet"
	"github.com/codincodee/asyncnet/server"
	"github.com/stretchr/testify/require"
)

// StartTestServer starts a framed echo server on a loopback port and
// returns its address. The server is stopped when the test ends.
func StartTestServer(t *testing.T) (string, *server.Server) {
	t.Helper()

	srv, err := server.NewServer("127.0.0.1:0", server.Echo, &server.ServerConfig{
		ShutdownTimeout: time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	return srv.Addr().String(), srv
}

// TestUtils verifies the message framing protocol implementation.
// It uses a test server to validate the complete request/response cycle.
func TestUtils(t *testing.T) {
	t.Parallel()

	addr, _ := StartTestServer(t)

	t.Run("Write Success", func(t *testing.T) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		// Set I/O deadlines to prevent hanging
		require.NoError(t, conn.SetDeadline(time.Now().Add(1*time.Second)))

		msg := []byte("hello utils write")
		require.NoError(t, asyncnet.Write(conn, msg))

		// Verify echo response
		readMsg, err := asyncnet.Read(conn)
		require.NoError(t, err)
		require.Equal(t, msg, readMsg)
	})

	t.Run("Read Pooled", func(t *testing.T) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()
		require.NoError(t, conn.SetDeadline(time.Now().Add(1*time.Second)))

		msg := []byte("hello utils read")
		require.NoError(t, asyncnet.Write(conn, msg))

		readMsg, err := asyncnet.ReadPooled(conn)
		require.NoError(t, err)
		require.Equal(t, msg, readMsg)
		asyncnet.PutBuffer(readMsg)
	})

	t.Run("Write Error (Closed Conn)", func(t *testing.T) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		err = asyncnet.Write(conn, []byte("write error"))
		require.Error(t, err)
	})

	t.Run("Read Error (Closed Conn)", func(t *testing.T) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		_, err = asyncnet.Read(conn)
		require.Error(t, err)
	})

	t.Run("Maximum Message Size", func(t *testing.T) {
		var buf bytes.Buffer

		// Create message larger than uint16 max
		msg := make([]byte, 70000)
		err := asyncnet.Write(&buf, msg)
		require.ErrorIs(t, err, asyncnet.ErrMaxLenExceeded)
		require.Zero(t, buf.Len())
	})
}

func TestEncodeRead(t *testing.T) {
	frame, err := asyncnet.Encode([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x03, 'a', 'b', 'c'}, frame)

	msg, err := asyncnet.Read(bytes.NewReader(frame))
	require.NoError(t, err)
	require.Equal(t, "abc", string(msg))

	// truncated payload
	_, err = asyncnet.Read(bytes.NewReader(frame[:4]))
	require.Error(t, err)
}

func TestSplitFrame(t *testing.T) {
	a, _ := asyncnet.Encode([]byte("first"))
	b, _ := asyncnet.Encode([]byte("second"))
	stream := append(append([]byte{}, a...), b...)

	_, _, ok := asyncnet.SplitFrame(stream[:1])
	require.False(t, ok, "header incomplete")

	_, _, ok = asyncnet.SplitFrame(stream[:len(a)-1])
	require.False(t, ok, "payload incomplete")

	msg, n, ok := asyncnet.SplitFrame(stream)
	require.True(t, ok)
	require.Equal(t, "first", string(msg))
	require.Equal(t, len(a), n)

	msg, n, ok = asyncnet.SplitFrame(stream[n:])
	require.True(t, ok)
	require.Equal(t, "second", string(msg))
	require.Equal(t, len(b), n)

	empty, _ := asyncnet.Encode(nil)
	msg, n, ok = asyncnet.SplitFrame(empty)
	require.True(t, ok)
	require.Empty(t, msg)
	require.Equal(t, asyncnet.LENGTHSIZE, n)
}
