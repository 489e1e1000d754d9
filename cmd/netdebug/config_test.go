package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codincodee/asyncnet"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "tcp", cfg.Proto)
	require.Equal(t, asyncnet.DefaultMaxDepth, cfg.MaxDepth)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`addr: 10.0.0.7:2368
proto: udp
max_depth: 64
idle_wait: 20ms
shutdown_timeout: 3s
include: '^\$GP'
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.7:2368", cfg.Addr)
	require.Equal(t, "udp", cfg.Proto)
	require.Equal(t, 64, cfg.MaxDepth)
	require.Equal(t, 20*time.Millisecond, cfg.IdleWait)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, `^\$GP`, cfg.Include)

	// untouched keys keep their defaults
	require.Equal(t, asyncnet.DefaultPollTimeout, cfg.PollTimeout)
}

func TestValidateRejectsBadProto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("proto: sctp\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.ErrorContains(t, cfg.Validate(), "sctp")
}

func TestFlagOverridesBadFileProto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("proto: sctp\n"), 0o600))

	require.NoError(t, rootCmd.ParseFlags([]string{"--config", path, "--proto", "udp"}))
	t.Cleanup(func() {
		for _, name := range []string{"config", "proto"} {
			f := rootCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.Equal(t, "udp", cfg.Proto)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: [1, 2\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestNewServerBadFilter(t *testing.T) {
	cfg := defaultConfig()
	cfg.Include = "("

	_, err := cfg.newServer(&asyncnet.NoopLogger{})
	require.Error(t, err)
}
