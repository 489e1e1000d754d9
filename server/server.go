// Package server provides an embeddable TCP server speaking the asyncnet
// length-prefixed framing. It serves as the remote peer when exercising an
// asyncnet.Server: messages on one connection are handled in arrival order
// and any response is written back as a frame.
package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codincodee/asyncnet"
)

type Server struct {
	address         string         // network address to listen on.
	listener        net.Listener   // TCP listener for incoming connections.
	config          *ServerConfig  // server configuration options.
	handler         Handler        // handler to process incoming messages.
	activeConns     sync.Map       // registry of active connections.
	activeConnCount atomic.Int32   // atomic counter for active connections
	connWG          sync.WaitGroup // tracks active connection goroutines.
	stopChan        chan struct{}  // signals server shutdown.
	stopOnce        sync.Once      // guards stopChan.
}

func NewServer(address string, handler Handler, config *ServerConfig) (*Server, error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if config == nil {
		config = &ServerConfig{}
	}
	config.applyDefaults()

	return &Server{
		address:  address,
		config:   config,
		handler:  handler,
		stopChan: make(chan struct{}),
	}, nil
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.listener = ln

	go s.acceptLoop()

	return nil
}

// Addr returns the bound listen address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ConnCount returns the number of open client connections.
func (s *Server) ConnCount() int {
	return int(s.activeConnCount.Load())
}

// Broadcast writes msg as one frame to every open connection and returns
// how many writes succeeded.
func (s *Server) Broadcast(msg []byte) int {
	sent := 0
	s.activeConns.Range(func(_, val any) bool {
		if sc, ok := val.(*ServerConn); ok {
			if err := sc.WriteFrame(msg); err != nil {
				s.logf("broadcast write error: %v", err)
			} else {
				sent++
			}
		}

		return true
	})

	return sent
}

func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.listener != nil {
			err = s.listener.Close()
		}
	})
	if err != nil {
		return err
	}

	s.activeConns.Range(func(_, val any) bool {
		if c, ok := val.(*ServerConn); ok {
			if err := c.Conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.logf("connection close error: %v", err)
			}
		}

		return true
	})

	done := make(chan struct{})
	go func() {
		s.connWG.Wait()

		close(done)
	}()

	if s.config.ShutdownTimeout > 0 {
		select {
		case <-done:
		case <-time.After(s.config.ShutdownTimeout):
			s.logf("timeout waiting for connections to close")
		}
	} else {
		<-done
	}

	return nil
}

func (s *Server) acceptLoop() {
	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				time.Sleep(100 * time.Millisecond)

				continue
			}
			s.logf("accept error: %v", err)

			return
		}

		if s.config.MaxConns > 0 {
			if int(s.activeConnCount.Load()) >= s.config.MaxConns {
				if err := conn.Close(); err != nil {
					s.logf("connection close error: %v", err)
				}

				continue
			}
		}

		s.handleNewConnection(conn)
	}
}

func (s *Server) handleNewConnection(conn net.Conn) {
	s.activeConnCount.Add(1)
	sc := &ServerConn{Conn: conn, server: s}
	sc.init()

	s.activeConns.Store(sc, sc)

	s.connWG.Add(1)
	go s.connectionLoop(sc)
}

func (s *Server) removeConnection(sc *ServerConn) {
	s.activeConns.Delete(sc)
	s.activeConnCount.Add(-1)
}

func (s *Server) connectionLoop(sc *ServerConn) {
	defer func() {
		s.removeConnection(sc)

		if err := sc.Conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logf("connection close error: %v", err)
		}

		s.connWG.Done()
	}()

	for {
		if s.config.IdleTimeout > 0 {
			if err := sc.Conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout)); err != nil {
				s.logf("set read deadline error: %v", err)
			}
		}

		msg, err := asyncnet.ReadPooled(sc.Conn)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.logf("closing idle connection: %v", sc.Conn.RemoteAddr())
			}

			return
		}

		resp, err := s.handler.HandleMessage(sc, msg)
		if err != nil {
			s.logf("handler error: %v", err)
		}

		var writeErr error
		if resp != nil {
			writeErr = sc.WriteFrame(resp)
		}

		// resp may alias msg, so the buffer goes back only after the write.
		asyncnet.PutBuffer(msg)

		if writeErr != nil {
			s.logf("write error: %v", writeErr)

			return
		}
	}
}

func (s *Server) logf(format string, v ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Printf(format, v...)
	}
}
