package asyncnet_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/codincodee/asyncnet"
	"github.com/stretchr/testify/require"
)

func TestServerOverTCPEcho(t *testing.T) {
	addr, _ := StartTestServer(t)

	srv := asyncnet.New(addr, asyncnet.DialTCP, nil)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	for i := range 20 {
		srv.Send(fmt.Sprintf("line %d", i))
	}

	require.Eventually(t, func() bool { return srv.Stats().Received == 20 }, 2*time.Second, 5*time.Millisecond)

	got := srv.Receive()
	require.Len(t, got, 20)
	for i, r := range got {
		require.Equal(t, fmt.Sprintf("line %d", i), r.Text())
	}
	require.Empty(t, srv.Receive())
}

func TestServerFiltersUnsolicitedTCP(t *testing.T) {
	addr, peer := StartTestServer(t)

	srv := asyncnet.New(addr, asyncnet.DialTCP, nil)
	srv.SetAdmissionPredicate(func(r asyncnet.Report) bool {
		return !strings.HasPrefix(r.Text(), "heartbeat")
	})
	require.NoError(t, srv.Start())
	defer srv.Stop()

	require.Eventually(t, func() bool { return peer.ConnCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	peer.Broadcast([]byte("heartbeat 1"))
	peer.Broadcast([]byte("status ok"))
	peer.Broadcast([]byte("heartbeat 2"))

	require.Eventually(t, func() bool {
		st := srv.Stats()
		return st.Received == 1 && st.Rejected == 2
	}, 2*time.Second, 5*time.Millisecond)

	got := srv.Receive()
	require.Len(t, got, 1)
	require.Equal(t, "status ok", got[0].Text())
}

func TestServerOverUDPEcho(t *testing.T) {
	addr := startUDPEcho(t)

	srv := asyncnet.New(addr, asyncnet.UDPFactory(nil), &asyncnet.Config{MaxDepth: 10})
	require.NoError(t, srv.Start())
	defer srv.Stop()

	srv.Send("ping")
	require.Eventually(t, func() bool { return srv.Stats().Received == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, "ping", srv.Receive()[0].Text())
}

func TestServerStopClosesConnection(t *testing.T) {
	addr, peer := StartTestServer(t)

	srv := asyncnet.New(addr, asyncnet.DialTCP, &asyncnet.Config{ShutdownTimeout: time.Second})
	require.NoError(t, srv.Start())
	require.Eventually(t, func() bool { return peer.ConnCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, srv.Stop())
	require.Equal(t, asyncnet.StateStopped, srv.State())
	require.Eventually(t, func() bool { return peer.ConnCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}
