// Package transport implements the YNCA network transport.
//
// A YNCA receiver exposes its control protocol as a plain TCP
// service, by default on port 50000. Commands and replies are text
// lines; see package wire for the format.
//
// Connection owns the socket and a read loop. Every parsed reply is
// delivered through a single registered EventHandler, invoked on the
// read goroutine. Get and Put are asynchronous: they only write the
// command line, the effect arrives later as an event. The device
// pushes unsolicited updates on the same connection, so the handler
// receives more events than there were requests.
//
// Reconnection and command pacing are the caller's concern.
package transport
