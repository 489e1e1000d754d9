// Package asyncnet decouples a caller from a blocking network socket.
//
// A Server owns two bounded FIFO queues and one background worker. Callers
// enqueue outbound messages with Send and poll inbound messages with Receive;
// neither call ever touches the socket or blocks on I/O. The worker owns the
// socket exclusively: it drains the outbound queue one report per iteration
// and pulls every available inbound report, filtering each through the
// active admission Predicate before queueing it.
//
// Features:
//   - Dual queue: outbound and inbound buffers guarded by independent locks.
//     Outbound insertion never blocks; a full queue silently drops the report.
//   - Admission filter: SetAdmissionPredicate swaps the inbound filter
//     atomically with respect to the worker's evaluation of it.
//   - Sockets: TCPSocket speaks the 2-byte length-prefixed framing provided
//     by Write and Read; UDPSocket maps one datagram to one report. Any other
//     transport can be plugged in through the Socket interface.
//   - Lifecycle: Start spawns the worker once; Stop cancels it cooperatively
//     and waits, optionally bounded by Config.ShutdownTimeout.
//
// Basic Example:
//
//	srv := asyncnet.New("localhost:9000", asyncnet.DialTCP, nil)
//	if err := srv.Start(); err != nil {
//	    // handle error
//	}
//	defer srv.Stop()
//
//	srv.Send("hello")
//	for _, r := range srv.Receive() {
//	    fmt.Println(r.Stamp.Format(time.TimeOnly), r.Text())
//	}
//
// A framed TCP peer for testing and debugging lives in the server package.
package asyncnet
