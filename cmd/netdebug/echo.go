package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/codincodee/asyncnet/server"
	"github.com/spf13/cobra"
)

var (
	listenAddr   string
	pushText     string
	pushInterval time.Duration
	maxConns     int
)

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Run a framed TCP echo peer to debug against",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := newEchoServer(listenAddr)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		zl.Info().Str("addr", srv.Addr().String()).Msg("echo peer listening")

		var push <-chan time.Time
		if pushText != "" && pushInterval > 0 {
			t := time.NewTicker(pushInterval)
			defer t.Stop()
			push = t.C
		}

		for {
			select {
			case <-ctx.Done():
				zl.Info().Msg("echo peer stopping")
				return srv.Stop()
			case <-push:
				n := srv.Broadcast([]byte(pushText))
				zl.Debug().Int("conns", n).Str("text", pushText).Msg("pushed")
			}
		}
	},
}

func init() {
	echoCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":3456", "listen address")
	echoCmd.Flags().StringVar(&pushText, "push", "", "unsolicited message broadcast to every client")
	echoCmd.Flags().DurationVar(&pushInterval, "every", time.Second, "interval between unsolicited messages")
	echoCmd.Flags().IntVar(&maxConns, "max-conns", 0, "maximum concurrent clients, 0 for no limit")
	rootCmd.AddCommand(echoCmd)
}

// newEchoServer builds a server that logs and echoes every frame.
func newEchoServer(addr string) (*server.Server, error) {
	handler := server.HandlerFunc(func(c *server.ServerConn, req []byte) ([]byte, error) {
		zl.Debug().
			Str("remote", c.Conn.RemoteAddr().String()).
			Int("bytes", len(req)).
			Msg("echo")
		return req, nil
	})

	return server.NewServer(addr, handler, &server.ServerConfig{
		MaxConns: maxConns,
		Logger:   &loggerWrapper{l: zl},
	})
}
