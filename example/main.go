// Package main provides an example of using the asyncnet library.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/codincodee/asyncnet"
	"github.com/codincodee/asyncnet/server"
)

// loggerWrapper adapts the standard log.Logger to satisfy asyncnet.Logger interface.
type loggerWrapper struct {
	*log.Logger
}

// Logger interface implementation.
func (lw *loggerWrapper) Printf(format string, v ...any) {
	lw.Logger.Printf(format, v...)
}

func (lw *loggerWrapper) Print(v ...any) {
	lw.Logger.Print(v...)
}

func (lw *loggerWrapper) Infof(format string, v ...any) {
	lw.Printf(format, v...)
}

func (lw *loggerWrapper) Warnf(format string, v ...any) {
	lw.Printf("[WARN] "+format, v...)
}

func (lw *loggerWrapper) Errorf(format string, v ...any) {
	lw.Printf("[ERROR] "+format, v...)
}

// startServer initializes and starts a peer that reverses every message.
func startServer(addr string) (*server.Server, error) {
	handler := server.HandlerFunc(func(_ *server.ServerConn, req []byte) ([]byte, error) {
		// reverse request data.
		out := make([]byte, len(req))
		for i := range req {
			out[len(req)-1-i] = req[i]
		}

		return out, nil
	})
	srv, err := server.NewServer(addr, handler, nil)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}

	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("server failed to start: %w", err)
	}

	return srv, nil
}

// newClient configures and starts an asyncnet server for the given peer address.
func newClient(addr string) (*asyncnet.Server, error) {
	logger := &loggerWrapper{
		Logger: log.New(os.Stdout, "ASYNC: ", log.LstdFlags|log.Lmicroseconds),
	}

	config := &asyncnet.Config{
		MaxDepth:        100,
		IdleWait:        2 * time.Millisecond,
		ShutdownTimeout: 2 * time.Second,
		Logger:          logger,
	}

	client := asyncnet.New(addr, asyncnet.DialTCP, config)

	// drop replies to anything that was not a word
	client.SetAdmissionPredicate(func(r asyncnet.Report) bool {
		return !strings.ContainsAny(r.Text(), "0123456789")
	})

	if err := client.Start(); err != nil {
		return nil, err
	}

	return client, nil
}

// sendMessages enqueues messages from several goroutines; none of them block.
func sendMessages(client *asyncnet.Server, messages []string) {
	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()

			r := client.Send(text)
			log.Printf("client queued: %s at %s", text, r.Stamp.Format(time.StampMicro))
		}(msg)
	}

	wg.Wait()
	log.Println("client queued all messages.")
}

// pollReplies drains the inbound queue until want replies arrived or the timeout passed.
func pollReplies(client *asyncnet.Server, want int, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	got := 0
	for got < want && time.Now().Before(deadline) {
		for _, r := range client.Receive() {
			got++
			log.Printf("client received: %s", r.Text())
		}
		time.Sleep(10 * time.Millisecond)
	}

	st := client.Stats()
	log.Printf("client finished: %d received, %d filtered", st.Received, st.Rejected)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	addr := "localhost:3000"

	srv, err := startServer(addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := srv.Stop(); err != nil {
			log.Printf("error stopping server: %v", err)
		}
	}()

	client, err := newClient(addr)
	if err != nil {
		log.Printf("client failed: %v", err)
		return
	}
	defer func() {
		if err := client.Stop(); err != nil {
			log.Printf("error stopping client: %v", err)
		}
	}()

	sendMessages(client, []string{"hello", "world", "asyncnet test", "request 42", "poll"})
	pollReplies(client, 4, 2*time.Second)
}
