package log

import (
	"time"
)

// Event represents a protocol event captured on a connection.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates line flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// RemoteAddr is the peer address (IP:port).
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Line is the raw protocol line, without terminator.
	Line string `cbor:"6,keyasint,omitempty"`

	// Status is the reply status name (OK/UNDEFINED/RESTRICTED),
	// empty for outgoing lines.
	Status string `cbor:"7,keyasint,omitempty"`

	// Subunit is the addressed subunit, when the line carried one.
	Subunit string `cbor:"8,keyasint,omitempty"`

	// Function is the addressed function, when the line carried one.
	Function string `cbor:"9,keyasint,omitempty"`

	// Value is the function value, when the line carried one.
	Value string `cbor:"10,keyasint,omitempty"`

	// State holds connection state transitions (CategoryState events).
	State *StateChange `cbor:"11,keyasint,omitempty"`

	// Error is the error text for CategoryError events.
	Error string `cbor:"12,keyasint,omitempty"`
}

// StateChange records a connection state transition.
type StateChange struct {
	// OldState is the state before the transition.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`
}

// Direction indicates the direction of line flow.
type Direction uint8

const (
	// DirectionIn indicates a line received from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates a line sent to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLine indicates a protocol line (command or reply).
	CategoryLine Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryError indicates an error (parse failure, write failure).
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLine:
		return "LINE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
