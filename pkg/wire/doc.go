// Package wire defines the YNCA line format and value codecs.
//
// YNCA is a text line protocol. Every command and every reply is a
// single CRLF-terminated line of the form:
//
//	@SUBUNIT:FUNCTION=Value
//
// A GET is a PUT with the value "?". Replies arrive asynchronously and
// are not ordered with respect to other outstanding requests. The
// device answers a request it cannot handle with one of two bare
// keywords instead of a regular line:
//
//	@UNDEFINED   the subunit or function does not exist
//	@RESTRICTED  the function exists but is currently unavailable
//
// Both are failure statuses; existence probing relies on them.
//
// # Value Codecs
//
// Besides line parsing this package holds the codecs for the typed
// values that cross the wire: stepped decimal quantities (volume
// levels), the mute level vocabulary, and the fixed DSP sound program
// catalog. Catalogs are static tables: the protocol has no capability
// enumeration command, so clients must know the candidate subunits
// and valid values up front.
package wire
