package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/codincodee/asyncnet"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errInputClosed ends a session once stdin is exhausted and the linger passed.
var errInputClosed = errors.New("input closed")

var (
	stampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var (
	hexOutput    bool
	linger       time.Duration
	pollInterval time.Duration
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Send stdin lines to the peer and print what comes back",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := cfg.newServer(&loggerWrapper{l: zl})
		if err != nil {
			return err
		}

		return runSession(ctx, srv, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	connectCmd.Flags().BoolVar(&hexOutput, "hex", false, "print inbound payloads as hex")
	connectCmd.Flags().DurationVar(&linger, "linger", 500*time.Millisecond, "time to wait for replies after stdin closes")
	connectCmd.Flags().DurationVar(&pollInterval, "poll", 50*time.Millisecond, "how often inbound messages are printed")
	rootCmd.AddCommand(connectCmd)
}

// runSession starts srv, forwards every line of in, and prints inbound
// reports to out until ctx ends or in is exhausted.
func runSession(ctx context.Context, srv *asyncnet.Server, in io.Reader, out io.Writer) error {
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			zl.Warn().Err(err).Msg("stop")
		}
		st := srv.Stats()
		zl.Info().
			Uint64("sent", st.Written).
			Uint64("dropped", st.Dropped).
			Uint64("received", st.Received).
			Uint64("filtered", st.Rejected).
			Uint64("errors", st.TransportErrors).
			Msg("session closed")
	}()

	// the scanner cannot be interrupted, so it stays outside the group
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					select {
					case <-gctx.Done():
					case <-time.After(linger):
					}
					return errInputClosed
				}
				srv.Send(line)
			}
		}
	})

	eg.Go(func() error {
		t := time.NewTicker(pollInterval)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				printReports(out, srv.Receive())
				return nil
			case <-t.C:
				printReports(out, srv.Receive())
			}
		}
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, errInputClosed) {
		return err
	}

	return nil
}

func printReports(out io.Writer, reports []asyncnet.Report) {
	for _, r := range reports {
		fmt.Fprintln(out, stampStyle.Render(r.Stamp.Format("15:04:05.000")), inStyle.Render(formatPayload(r.Payload)))
	}
}

func formatPayload(p []byte) string {
	if hexOutput {
		return hex.EncodeToString(p)
	}
	return string(p)
}
