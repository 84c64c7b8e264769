package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Line format constants.
const (
	// Terminator ends every outgoing command line.
	Terminator = "\r\n"

	// GetValue is the value that turns a command into a query.
	GetValue = "?"

	lineUndefined  = "@UNDEFINED"
	lineRestricted = "@RESTRICTED"
)

// Line parse errors.
var (
	// ErrMalformedLine indicates a line that is not a YNCA reply.
	ErrMalformedLine = errors.New("malformed line")
)

// Response is one parsed reply line from the device.
// For failure statuses Subunit, Function and Value are empty: the
// device does not echo what it rejected, correlation is by issue
// order only.
type Response struct {
	Status   Status
	Subunit  string
	Function string
	Value    string
}

// ParseLine parses a single reply line (without line terminator).
func ParseLine(line string) (Response, error) {
	switch line {
	case lineUndefined:
		return Response{Status: StatusUndefined}, nil
	case lineRestricted:
		return Response{Status: StatusRestricted}, nil
	}

	if !strings.HasPrefix(line, "@") {
		return Response{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return Response{}, fmt.Errorf("%w: missing subunit separator in %q", ErrMalformedLine, line)
	}
	eq := strings.IndexByte(line[colon:], '=')
	if eq < 0 {
		return Response{}, fmt.Errorf("%w: missing value separator in %q", ErrMalformedLine, line)
	}
	eq += colon

	resp := Response{
		Status:   StatusOK,
		Subunit:  line[1:colon],
		Function: line[colon+1 : eq],
		Value:    line[eq+1:],
	}
	if resp.Subunit == "" || resp.Function == "" {
		return Response{}, fmt.Errorf("%w: empty subunit or function in %q", ErrMalformedLine, line)
	}
	return resp, nil
}

// FormatPut formats a command line that sets a function value.
// The result includes the line terminator.
func FormatPut(subunit, function, value string) string {
	return fmt.Sprintf("@%s:%s=%s%s", subunit, function, value, Terminator)
}

// FormatGet formats a query line for a function.
// The result includes the line terminator.
func FormatGet(subunit, function string) string {
	return FormatPut(subunit, function, GetValue)
}
