package wire

// Status classifies a reply from the device.
type Status uint8

const (
	// StatusOK indicates a regular value reply.
	StatusOK Status = 0

	// StatusUndefined indicates the device answered @UNDEFINED:
	// the addressed subunit or function does not exist.
	StatusUndefined Status = 1

	// StatusRestricted indicates the device answered @RESTRICTED:
	// the function exists but cannot be used right now.
	StatusRestricted Status = 2
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusUndefined:
		return "UNDEFINED"
	case StatusRestricted:
		return "RESTRICTED"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether the status is a success.
// @UNDEFINED and @RESTRICTED are the expected outcome of most
// existence probes and are not errors by themselves.
func (s Status) OK() bool {
	return s == StatusOK
}
