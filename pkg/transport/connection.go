package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	ylog "github.com/ynca-protocol/ynca-go/pkg/log"
	"github.com/ynca-protocol/ynca-go/pkg/wire"
)

// DefaultPort is the TCP port YNCA receivers listen on.
const DefaultPort = 50000

// MaxLineLength is the longest reply line the read loop accepts.
var MaxLineLength = 512

// Connection states.
type ConnectionState int

const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates connection in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateClosing indicates close in progress.
	StateClosing
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Connection errors.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrConnectionClosed = errors.New("connection closed")
)

// EventHandler receives every reply line parsed off the connection.
// It is invoked on the read goroutine; implementations that block
// stall the connection.
type EventHandler func(status wire.Status, subunit, function, value string)

// Config configures a YNCA connection.
type Config struct {
	// Logger is the operational logger. Defaults to slog.Default().
	Logger *slog.Logger

	// ProtocolLogger captures protocol traffic. Defaults to no capture.
	ProtocolLogger ylog.Logger

	// WriteTimeout is the timeout for write operations (0 = no timeout).
	WriteTimeout time.Duration
}

// Connection is a client connection to a YNCA receiver.
type Connection struct {
	config  Config
	handler EventHandler

	// Connection ID, assigned at construction, attached to trace events.
	id string

	mu      sync.RWMutex
	conn    net.Conn
	writeMu sync.Mutex

	state    atomic.Int32
	readDone chan struct{}
}

// NewConnection creates a new connection (not yet connected).
// The handler receives every reply; it must not be nil.
func NewConnection(config Config, handler EventHandler) *Connection {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.ProtocolLogger == nil {
		config.ProtocolLogger = ylog.NoopLogger{}
	}

	c := &Connection{
		config:  config,
		handler: handler,
		id:      uuid.NewString(),
	}
	c.state.Store(int32(StateDisconnected))
	return c
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() string {
	return c.id
}

// State returns the current connection state.
func (c *Connection) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Connect establishes a connection to the specified address.
// If address has no port, DefaultPort is used.
func (c *Connection) Connect(ctx context.Context, address string) error {
	if !c.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return ErrAlreadyConnected
	}
	c.notifyStateChange(StateDisconnected, StateConnecting)

	if !strings.Contains(address, ":") {
		address = fmt.Sprintf("%s:%d", address, DefaultPort)
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		c.notifyStateChange(StateConnecting, StateDisconnected)
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.readDone = make(chan struct{})
	c.mu.Unlock()

	c.state.Store(int32(StateConnected))
	c.notifyStateChange(StateConnecting, StateConnected)
	c.config.Logger.Info("connected", "address", conn.RemoteAddr().String(), "conn_id", c.id)

	go c.readLoop(conn)
	return nil
}

// Close closes the connection. It is safe to call on an unconnected
// Connection and safe to call more than once.
func (c *Connection) Close() error {
	if !c.state.CompareAndSwap(int32(StateConnected), int32(StateClosing)) {
		return nil
	}
	c.notifyStateChange(StateConnected, StateClosing)

	c.mu.Lock()
	conn := c.conn
	done := c.readDone
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if done != nil {
		<-done
	}

	c.state.Store(int32(StateDisconnected))
	c.notifyStateChange(StateClosing, StateDisconnected)
	return err
}

// Get sends a query for a function value.
func (c *Connection) Get(subunit, function string) error {
	return c.writeLine(wire.FormatGet(subunit, function), subunit, function, wire.GetValue)
}

// Put sends a command that sets a function value.
func (c *Connection) Put(subunit, function, value string) error {
	return c.writeLine(wire.FormatPut(subunit, function, value), subunit, function, value)
}

func (c *Connection) writeLine(line, subunit, function, value string) error {
	if c.State() != StateConnected {
		return ErrNotConnected
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.config.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	}
	if _, err := conn.Write([]byte(line)); err != nil {
		c.logError(fmt.Sprintf("write failed: %v", err), line)
		return fmt.Errorf("write failed: %w", err)
	}

	c.logLine(ylog.DirectionOut, strings.TrimSuffix(line, wire.Terminator), wire.Response{
		Status:   wire.StatusOK,
		Subunit:  subunit,
		Function: function,
		Value:    value,
	}, false)
	return nil
}

// readLoop reads reply lines until the connection drops.
func (c *Connection) readLoop(conn net.Conn) {
	defer func() {
		c.mu.Lock()
		done := c.readDone
		c.mu.Unlock()
		close(done)

		// A remote close lands here without Close having run.
		if c.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
			_ = conn.Close()
			c.notifyStateChange(StateConnected, StateDisconnected)
			c.config.Logger.Info("connection lost", "conn_id", c.id)
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, MaxLineLength), MaxLineLength)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		resp, err := wire.ParseLine(line)
		if err != nil {
			c.logError(err.Error(), line)
			continue
		}

		c.logLine(ylog.DirectionIn, line, resp, true)
		c.handler(resp.Status, resp.Subunit, resp.Function, resp.Value)
	}
}

func (c *Connection) remoteAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

func (c *Connection) logLine(dir ylog.Direction, line string, resp wire.Response, withStatus bool) {
	event := ylog.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    dir,
		Category:     ylog.CategoryLine,
		RemoteAddr:   c.remoteAddr(),
		Line:         line,
		Subunit:      resp.Subunit,
		Function:     resp.Function,
		Value:        resp.Value,
	}
	if withStatus {
		event.Status = resp.Status.String()
	}
	c.config.ProtocolLogger.Log(event)
}

func (c *Connection) logError(msg, line string) {
	c.config.ProtocolLogger.Log(ylog.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Category:     ylog.CategoryError,
		RemoteAddr:   c.remoteAddr(),
		Line:         line,
		Error:        msg,
	})
}

func (c *Connection) notifyStateChange(oldState, newState ConnectionState) {
	c.config.ProtocolLogger.Log(ylog.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Category:     ylog.CategoryState,
		State: &ylog.StateChange{
			OldState: oldState.String(),
			NewState: newState.String(),
		},
	})
}
