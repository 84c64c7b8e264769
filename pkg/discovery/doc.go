// Package discovery finds YNCA receivers on the local network.
//
// Network receivers advertise their control endpoint over mDNS.
// Browser watches for those advertisements and reports each receiver
// once, with its addresses aggregated across interfaces. This is
// endpoint discovery only: what zones and inputs a receiver actually
// has is learned after connecting, by package receiver's probe-based
// capability discovery.
package discovery
