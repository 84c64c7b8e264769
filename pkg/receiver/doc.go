// Package receiver models a YNCA receiver and its zones.
//
// A receiver has no capability enumeration command: the only way to
// learn which zones and internal sources a device has is to probe
// every candidate subunit and watch which probes answer successfully.
// Receiver drives that discovery, then builds one Zone per confirmed
// zone subunit and keeps each Zone's properties live from the reply
// stream.
//
// # Discovery
//
// Initialize issues a burst of speculative queries (model name, the
// input name table, an AVAIL probe per candidate subunit) and closes
// the burst with a VERSION query. The device answers requests in
// issue order, so the VERSION reply doubles as a barrier: once it
// arrives, all probes have been answered. The barrier wait is
// bounded; on timeout discovery proceeds with whatever answered in
// time. Confirmed zones are then initialized one at a time, in
// discovery order.
//
// # Property Model
//
// Zone setters are asynchronous commands: they send exactly one line
// and return. State only changes when the device echoes the new value
// back as an update, so a property read immediately after a setter
// still returns the old value. Events are delivered by the transport
// on its read goroutine; all accessors are safe for concurrent use.
package receiver
