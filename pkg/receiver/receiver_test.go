package receiver

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ynca-protocol/ynca-go/pkg/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		Logger:           discardLogger(),
		DiscoveryTimeout: time.Second,
		ZoneInitTimeout:  50 * time.Millisecond,
	}
}

// scriptConn answers discovery and zone queries like a device with the
// given zones. Replies are delivered synchronously from Get, which is
// legal: the transport may invoke the event callback at any time
// relative to the issuing call.
type scriptConn struct {
	fakeConn
	receiver *Receiver
	zones    map[string]bool // candidate zone -> exists
	inputs   map[string]string
	version  bool // answer the VERSION sentinel
}

func newScriptConn(zones map[string]bool) *scriptConn {
	c := &scriptConn{
		zones:   zones,
		version: true,
		inputs:  map[string]string{"HDMI1": "BluRay", "AV2": "Tape"},
	}
	c.onGet = c.reply
	return c
}

func (c *scriptConn) reply(subunit, function string) {
	r := c.receiver
	switch {
	case subunit == "SYS" && function == "MODELNAME":
		r.OnEvent(wire.StatusOK, "SYS", "MODELNAME", "RX-V473")

	case subunit == "SYS" && function == "INPNAME":
		for id, label := range c.inputs {
			r.OnEvent(wire.StatusOK, "SYS", "INPNAME"+id, label)
		}

	case subunit == "SYS" && function == "VERSION":
		if c.version {
			r.OnEvent(wire.StatusOK, "SYS", "VERSION", "1.80/2.01")
		}

	case function == "AVAIL":
		if exists, known := c.zones[subunit]; known {
			if exists {
				r.OnEvent(wire.StatusOK, subunit, "AVAIL", "Ready")
			} else {
				r.OnEvent(wire.StatusUndefined, "", "", "")
			}
			return
		}
		if subunit == "TUN" {
			r.OnEvent(wire.StatusOK, "TUN", "AVAIL", "Ready")
		} else {
			r.OnEvent(wire.StatusUndefined, "", "", "")
		}

	case function == "BASIC":
		r.OnEvent(wire.StatusOK, subunit, "PWR", "Standby")
		r.OnEvent(wire.StatusOK, subunit, "VOL", "-30.0")
		r.OnEvent(wire.StatusOK, subunit, "MUTE", "Off")
		r.OnEvent(wire.StatusOK, subunit, "INP", "HDMI1")

	case function == "MAXVOL":
		r.OnEvent(wire.StatusOK, subunit, "MAXVOL", "16.5")

	case function == "SCENENAME":
		if subunit == "MAIN" {
			r.OnEvent(wire.StatusOK, subunit, "SCENE1NAME", "Movie")
			r.OnEvent(wire.StatusOK, subunit, "SCENE2NAME", "Music")
		}

	case function == "ZONENAME":
		r.OnEvent(wire.StatusOK, subunit, "ZONENAME", subunit+" Room")
	}
}

func TestReceiverDiscovery(t *testing.T) {
	conn := newScriptConn(map[string]bool{
		"MAIN": true, "ZONE2": true, "ZONE3": false, "ZONE4": false,
	})
	r := NewReceiver(conn, testConfig())
	conn.receiver = r

	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if r.ModelName() != "RX-V473" {
		t.Errorf("ModelName() = %q, want %q", r.ModelName(), "RX-V473")
	}
	if r.FirmwareVersion() != "1.80/2.01" {
		t.Errorf("FirmwareVersion() = %q, want %q", r.FirmwareVersion(), "1.80/2.01")
	}

	zones := r.Zones()
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}
	if zones[0].Subunit() != "MAIN" || zones[1].Subunit() != "ZONE2" {
		t.Errorf("zones = [%s %s], want [MAIN ZONE2]", zones[0].Subunit(), zones[1].Subunit())
	}
	if r.Zone("ZONE3") != nil || r.Zone("ZONE4") != nil {
		t.Error("a zone was materialized without a successful probe")
	}

	// Zones were fully initialized.
	main := r.Zone("MAIN")
	if main.Name() != "MAIN Room" {
		t.Errorf("main zone Name() = %q, want %q", main.Name(), "MAIN Room")
	}
	if main.Volume() != -30.0 || main.Mute() != wire.MuteOff {
		t.Error("main zone state incomplete after initialization")
	}
	if len(main.Scenes()) != 2 {
		t.Errorf("main zone Scenes() = %v, want 2 entries", main.Scenes())
	}
	if len(r.Zone("ZONE2").Scenes()) != 0 {
		t.Error("ZONE2 reported scenes it does not have")
	}

	// Inputs: named external inputs plus the probed tuner.
	inputs := r.Inputs()
	if inputs["HDMI1"] != "BluRay" || inputs["AV2"] != "Tape" {
		t.Errorf("Inputs() = %v, missing external input labels", inputs)
	}
	if inputs["TUNER"] != "TUNER" {
		t.Errorf("Inputs() = %v, missing probed tuner", inputs)
	}
}

func TestReceiverMaterializationOrder(t *testing.T) {
	// ZONE2's probe success arrives before MAIN's: initialization
	// must follow arrival order, not catalog order.
	conn := &scriptConn{zones: map[string]bool{}, version: true}
	conn.onGet = func(subunit, function string) {
		r := conn.receiver
		switch {
		case subunit == "SYS" && function == "VERSION":
			r.OnEvent(wire.StatusOK, "ZONE2", "AVAIL", "Ready")
			r.OnEvent(wire.StatusOK, "MAIN", "AVAIL", "Ready")
			r.OnEvent(wire.StatusOK, "SYS", "VERSION", "1.80/2.01")
		case function == "ZONENAME":
			r.OnEvent(wire.StatusOK, subunit, "ZONENAME", subunit)
		}
	}

	r := NewReceiver(conn, testConfig())
	conn.receiver = r
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var inits []string
	conn.mu.Lock()
	for _, get := range conn.gets {
		if get[1] == "ZONENAME" {
			inits = append(inits, get[0])
		}
	}
	conn.mu.Unlock()

	if len(inits) != 2 || inits[0] != "ZONE2" || inits[1] != "MAIN" {
		t.Errorf("initialization order = %v, want [ZONE2 MAIN]", inits)
	}
}

func TestReceiverDiscoveryTimeout(t *testing.T) {
	// The VERSION sentinel never arrives; discovery must still
	// materialize the zones whose probes answered in time.
	conn := newScriptConn(map[string]bool{"MAIN": true})
	conn.version = false

	r := NewReceiver(conn, Config{
		Logger:           discardLogger(),
		DiscoveryTimeout: 30 * time.Millisecond,
		ZoneInitTimeout:  30 * time.Millisecond,
	})
	conn.receiver = r

	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if r.FirmwareVersion() != "" {
		t.Errorf("FirmwareVersion() = %q, want empty", r.FirmwareVersion())
	}
	zones := r.Zones()
	if len(zones) != 1 || zones[0].Subunit() != "MAIN" {
		t.Fatalf("zones = %v, want [MAIN]", zones)
	}
}

func TestReceiverEventRouting(t *testing.T) {
	conn := newScriptConn(map[string]bool{"MAIN": true})
	r := NewReceiver(conn, testConfig())
	conn.receiver = r

	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	t.Run("zone update forwarded", func(t *testing.T) {
		r.OnEvent(wire.StatusOK, "MAIN", "VOL", "-17.5")
		if got := r.Zone("MAIN").Volume(); got != -17.5 {
			t.Errorf("Volume() = %v, want -17.5", got)
		}
	})

	t.Run("system update applied", func(t *testing.T) {
		r.OnEvent(wire.StatusOK, "SYS", "INPNAMEAV4", "Turntable")
		if got := r.Inputs()["AV4"]; got != "Turntable" {
			t.Errorf("Inputs()[AV4] = %q, want %q", got, "Turntable")
		}
	})

	t.Run("failure status dropped", func(t *testing.T) {
		before := r.Zone("MAIN").Volume()
		r.OnEvent(wire.StatusRestricted, "MAIN", "VOL", "0.0")
		if got := r.Zone("MAIN").Volume(); got != before {
			t.Errorf("Volume() = %v, want %v after failure event", got, before)
		}
	})

	t.Run("unknown subunit dropped", func(t *testing.T) {
		r.OnEvent(wire.StatusOK, "CD", "PLAYBACK", "Play")
		// Nothing observable changes; the event must simply not panic
		// or materialize anything.
		if r.Zone("CD") != nil {
			t.Error("unknown subunit materialized a zone")
		}
	})

	t.Run("late zone discovery dropped", func(t *testing.T) {
		// The pending list is drained exactly once; a zone answering
		// only after discovery never becomes a Zone.
		r.OnEvent(wire.StatusOK, "ZONE4", "AVAIL", "Ready")
		if r.Zone("ZONE4") != nil {
			t.Error("late probe success materialized a zone")
		}
	})
}

func TestReceiverDuplicateProbeSuccess(t *testing.T) {
	conn := &scriptConn{zones: map[string]bool{}, version: true}
	conn.onGet = func(subunit, function string) {
		r := conn.receiver
		switch {
		case subunit == "SYS" && function == "VERSION":
			// The same zone answers twice before the sentinel.
			r.OnEvent(wire.StatusOK, "ZONE2", "AVAIL", "Ready")
			r.OnEvent(wire.StatusOK, "ZONE2", "AVAIL", "Ready")
			r.OnEvent(wire.StatusOK, "SYS", "VERSION", "1.80/2.01")
		case function == "ZONENAME":
			r.OnEvent(wire.StatusOK, subunit, "ZONENAME", subunit)
		}
	}

	r := NewReceiver(conn, testConfig())
	conn.receiver = r
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if zones := r.Zones(); len(zones) != 1 {
		t.Errorf("got %d zones, want exactly 1", len(zones))
	}
}
