package server

import (
	"net"
	"sync"
	"time"

	"github.com/codincodee/asyncnet"
)

// ServerConn represents a client connection on the server side.
type ServerConn struct {
	Conn    net.Conn   // underlying network connection.
	server  *Server    // reference to parent server.
	writeMu sync.Mutex // serializes concurrent writes.
}

// init configures TCP keepalive settings on the connection.
func (sc *ServerConn) init() {
	if tcpConn, ok := sc.Conn.(*net.TCPConn); ok {
		if sc.server.config.KeepAliveInterval > 0 {
			_ = tcpConn.SetKeepAlive(true)

			_ = tcpConn.SetKeepAlivePeriod(sc.server.config.KeepAliveInterval)
		}
	}
}

// WriteFrame writes msg as one length-prefixed frame. It is safe to call
// from handlers and Broadcast concurrently.
func (sc *ServerConn) WriteFrame(msg []byte) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	if sc.server.config.WriteTimeout > 0 {
		if err := sc.Conn.SetWriteDeadline(time.Now().Add(sc.server.config.WriteTimeout)); err != nil {
			return err
		}
	}

	return asyncnet.Write(sc.Conn, msg)
}
