package receiver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ynca-protocol/ynca-go/pkg/wire"
)

// DefaultDiscoveryTimeout bounds the discovery barrier. The burst
// issues one probe per candidate subunit and commands take at least
// 100ms each, so the bound is generous.
const DefaultDiscoveryTimeout = 10 * time.Second

// Conn is the outgoing half of the transport boundary. Both calls are
// asynchronous: they enqueue one command line and return, the reply
// arrives later through the event callback.
type Conn interface {
	// Get queries a function value.
	Get(subunit, function string) error

	// Put sets a function value.
	Put(subunit, function, value string) error
}

// Config configures a Receiver.
type Config struct {
	// Logger is the operational logger. Defaults to slog.Default().
	Logger *slog.Logger

	// DiscoveryTimeout bounds the discovery barrier.
	// Defaults to DefaultDiscoveryTimeout.
	DiscoveryTimeout time.Duration

	// ZoneInitTimeout bounds each zone's initialization barrier.
	// Defaults to DefaultInitTimeout.
	ZoneInitTimeout time.Duration
}

// Receiver is the top-level model of a YNCA device. It discovers the
// device's zones and available inputs by probing and owns one Zone per
// confirmed zone subunit.
//
// Wire the Receiver to a transport by registering OnEvent as the
// transport's event handler, then call Initialize once.
type Receiver struct {
	config Config
	conn   Conn

	// discovered releases when the VERSION sentinel reply arrives.
	discovered *latch

	mu              sync.RWMutex
	modelName       string
	firmwareVersion string
	zones           map[string]*Zone
	inputs          map[string]string
	pendingZones    []string
	drained         bool
}

// NewReceiver creates a Receiver on top of conn. The Receiver does not
// own the transport; connect it and register OnEvent before calling
// Initialize.
func NewReceiver(conn Conn, config Config) *Receiver {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.DiscoveryTimeout <= 0 {
		config.DiscoveryTimeout = DefaultDiscoveryTimeout
	}

	return &Receiver{
		config:     config,
		conn:       conn,
		discovered: newLatch(),
		zones:      make(map[string]*Zone),
		inputs:     make(map[string]string),
	}
}

// Initialize discovers the device's capabilities and initializes every
// zone that proved to exist. It blocks until discovery and all zone
// initializations finish; barrier timeouts are recoverable and leave
// partial state. Run exactly once per connection.
func (r *Receiver) Initialize(ctx context.Context) error {
	r.config.Logger.Info("receiver initialization start")

	if err := r.sendDiscoveryBurst(); err != nil {
		return err
	}

	if !r.discovered.wait(ctx, r.config.DiscoveryTimeout) {
		r.config.Logger.Error("discovery incomplete, continuing with zones found so far")
	}

	// Drain the pending list exactly once. Zones are initialized one
	// at a time, in discovery order: interleaving their barriers would
	// make the sentinel-free zone barrier meaningless.
	r.mu.Lock()
	pending := r.pendingZones
	r.pendingZones = nil
	r.drained = true
	r.mu.Unlock()

	for _, subunit := range pending {
		r.config.Logger.Info("initializing zone", "zone", subunit)

		zone := newZone(subunit, r.conn, r.config.Logger, r.config.ZoneInitTimeout)
		r.mu.Lock()
		r.zones[subunit] = zone
		r.mu.Unlock()

		if err := zone.Initialize(ctx); err != nil {
			return err
		}
	}

	r.config.Logger.Info("receiver initialization done",
		"model", r.ModelName(), "zones", len(pending))
	return nil
}

// sendDiscoveryBurst issues every discovery query back to back. The
// closing VERSION query is a sequencing sentinel: the device answers
// in issue order, so its reply proves all probes have been answered.
func (r *Receiver) sendDiscoveryBurst() error {
	queries := []struct {
		subunit  string
		function string
	}{
		{wire.SubunitSystem, wire.FuncModelName},
		// The input name table doubles as external input detection.
		{wire.SubunitSystem, wire.FuncInputNamePrefix},
	}
	// Internal sources do not appear in the input name table; probe
	// each candidate. Most probes are expected to fail.
	for subunit := range wire.SourceInputs {
		queries = append(queries, struct{ subunit, function string }{subunit, wire.FuncAvailability})
	}
	for _, subunit := range wire.ZoneSubunits {
		queries = append(queries, struct{ subunit, function string }{subunit, wire.FuncAvailability})
	}
	queries = append(queries, struct{ subunit, function string }{wire.SubunitSystem, wire.FuncVersion})

	for _, q := range queries {
		if err := r.conn.Get(q.subunit, q.function); err != nil {
			return fmt.Errorf("discovery query %s:%s: %w", q.subunit, q.function, err)
		}
	}
	return nil
}

// OnEvent routes one transport event. Register it as the transport's
// event handler before Initialize; it handles events in every phase,
// including unsolicited updates long after discovery.
//
// Failure replies are dropped: probing is speculative and most probes
// are expected to fail.
func (r *Receiver) OnEvent(status wire.Status, subunit, function, value string) {
	if !status.OK() {
		return
	}

	if subunit == wire.SubunitSystem {
		r.handleSystem(function, value)
		return
	}

	r.mu.RLock()
	zone := r.zones[subunit]
	r.mu.RUnlock()
	if zone != nil {
		zone.OnUpdate(function, value)
		return
	}

	if wire.IsZoneSubunit(subunit) {
		// A successful reply from a zone without a Zone entity is the
		// existence proof discovery is waiting for.
		r.recordDiscoveredZone(subunit)
		return
	}

	if function == wire.FuncAvailability {
		if label, ok := wire.SourceInputs[subunit]; ok {
			r.mu.Lock()
			r.inputs[label] = label
			r.mu.Unlock()
		}
	}
	// Anything else is a reply we cannot attribute; drop it.
}

func (r *Receiver) handleSystem(function, value string) {
	switch {
	case function == wire.FuncModelName:
		r.mu.Lock()
		r.modelName = value
		r.mu.Unlock()

	case function == wire.FuncVersion:
		r.mu.Lock()
		r.firmwareVersion = value
		r.mu.Unlock()
		r.discovered.release()

	case strings.HasPrefix(function, wire.FuncInputNamePrefix):
		id := function[len(wire.FuncInputNamePrefix):]
		if id == "" {
			return
		}
		r.mu.Lock()
		r.inputs[id] = value
		r.mu.Unlock()
	}
}

func (r *Receiver) recordDiscoveredZone(subunit string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The pending list is drained exactly once; late discoveries and
	// duplicate successes are dropped.
	if r.drained {
		return
	}
	for _, existing := range r.pendingZones {
		if existing == subunit {
			return
		}
	}
	r.pendingZones = append(r.pendingZones, subunit)
}

// ModelName returns the device model name.
func (r *Receiver) ModelName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modelName
}

// FirmwareVersion returns the device firmware version.
func (r *Receiver) FirmwareVersion() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.firmwareVersion
}

// Zone returns the zone for a subunit identifier, or nil if the device
// does not have it.
func (r *Receiver) Zone(subunit string) *Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.zones[subunit]
}

// Zones returns every discovered zone, in the probe order of
// wire.ZoneSubunits.
func (r *Receiver) Zones() []*Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Zone, 0, len(r.zones))
	for _, subunit := range wire.ZoneSubunits {
		if zone, ok := r.zones[subunit]; ok {
			out = append(out, zone)
		}
	}
	return out
}

// Inputs returns the available inputs: display labels keyed by input
// identifier for external inputs reported in the name table, plus the
// fixed labels of internal sources that answered their probe.
func (r *Receiver) Inputs() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.inputs))
	for id, label := range r.inputs {
		out[id] = label
	}
	return out
}
