package receiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ynca-protocol/ynca-go/pkg/wire"
)

// Zone errors.
var (
	// ErrUnknownSoundProgram indicates a sound program outside the
	// fixed catalog. The device would reject it; we fail before sending.
	ErrUnknownSoundProgram = errors.New("unknown sound program")

	// ErrSceneUnsupported indicates scene activation on a zone that
	// reported no scene names during initialization.
	ErrSceneUnsupported = errors.New("zone does not support scenes")

	// ErrInvalidSceneSlot indicates a scene slot outside 1..4.
	ErrInvalidSceneSlot = errors.New("invalid scene slot")

	// ErrInvalidVolumeStep indicates a volume step the device does not
	// accept. Valid steps are 0.5, 1, 2 and 5 dB.
	ErrInvalidVolumeStep = errors.New("invalid volume step")
)

// DefaultMaxVolume is the maximum volume assumed until the zone
// reports its own limit.
const DefaultMaxVolume = 16.5

// DefaultInitTimeout bounds a zone's initialization barrier. Commands
// take at least 100ms each on the wire and initialization issues four,
// so this leaves a wide margin.
const DefaultInitTimeout = 2 * time.Second

// VolumeDirection selects the direction of a relative volume change.
type VolumeDirection uint8

const (
	// VolumeUp raises the volume.
	VolumeUp VolumeDirection = 0
	// VolumeDown lowers the volume.
	VolumeDown VolumeDirection = 1
)

// String returns the direction's wire keyword.
func (d VolumeDirection) String() string {
	if d == VolumeDown {
		return "Down"
	}
	return "Up"
}

// Zone is the live model of one zone subunit. Zones are created by
// Receiver after an existence probe succeeds and live as long as the
// Receiver.
//
// All setters are fire-and-forget: they send one command and return.
// The new state becomes visible once the device reports it back and
// OnUpdate applies it.
type Zone struct {
	subunit     string
	conn        Conn
	logger      *slog.Logger
	initTimeout time.Duration

	// ready releases when the zone reports its display name, the last
	// value guaranteed during initialization.
	ready *latch

	mu           sync.RWMutex
	name         string
	power        bool
	volume       float64
	maxVolume    float64
	mute         wire.MuteLevel
	input        string
	soundProgram string
	scenes       map[int]string
}

func newZone(subunit string, conn Conn, logger *slog.Logger, initTimeout time.Duration) *Zone {
	if initTimeout <= 0 {
		initTimeout = DefaultInitTimeout
	}
	return &Zone{
		subunit:     subunit,
		conn:        conn,
		logger:      logger,
		initTimeout: initTimeout,
		ready:       newLatch(),
		maxVolume:   DefaultMaxVolume,
		scenes:      make(map[int]string),
	}
}

// Initialize queries the zone's state and blocks until the zone
// reports its display name or the barrier times out. Run exactly once,
// right after construction. A timeout is recoverable: the zone keeps
// whatever state arrived and fills in the rest as updates come.
func (z *Zone) Initialize(ctx context.Context) error {
	queries := []string{
		wire.FuncBasic, // PWR, SLEEP, VOL, MUTE, INP, STRAIGHT, ENHANCER, SOUNDPRG
		wire.FuncMaxVolume,
		wire.FuncSceneName,
		wire.FuncZoneName,
	}
	for _, function := range queries {
		if err := z.conn.Get(z.subunit, function); err != nil {
			return fmt.Errorf("zone %s: query %s: %w", z.subunit, function, err)
		}
	}

	if !z.ready.wait(ctx, z.initTimeout) {
		z.logger.Error("zone initialization incomplete, continuing with partial state",
			"zone", z.subunit)
	}
	return nil
}

// zoneHandlers dispatches updates to property mutations. Built once
// for the Zone type; functions not in the table are matched against
// the scene-name pattern and otherwise ignored.
var zoneHandlers = map[string]func(*Zone, string){
	wire.FuncPower:        (*Zone).handlePower,
	wire.FuncVolume:       (*Zone).handleVolume,
	wire.FuncMaxVolume:    (*Zone).handleMaxVolume,
	wire.FuncMute:         (*Zone).handleMute,
	wire.FuncInput:        (*Zone).handleInput,
	wire.FuncSoundProgram: (*Zone).handleSoundProgram,
	wire.FuncZoneName:     (*Zone).handleZoneName,
}

// OnUpdate applies one update addressed to this zone. It is invoked by
// the owning Receiver for solicited and unsolicited events alike, on
// the transport's read goroutine. Updates with no handler are dropped:
// zones report more functions than this model tracks.
func (z *Zone) OnUpdate(function, value string) {
	if handler, ok := zoneHandlers[function]; ok {
		handler(z, value)
		return
	}

	if slot, ok := sceneNameSlot(function); ok {
		z.mu.Lock()
		z.scenes[slot] = value
		z.mu.Unlock()
	}
}

// sceneNameSlot matches the ordinal scene-name functions (SCENE1NAME
// .. SCENE4NAME) and extracts the slot number.
func sceneNameSlot(function string) (int, bool) {
	if len(function) != 10 || !strings.HasPrefix(function, "SCENE") || !strings.HasSuffix(function, "NAME") {
		return 0, false
	}
	slot, err := strconv.Atoi(function[5:6])
	if err != nil {
		return 0, false
	}
	return slot, true
}

func (z *Zone) handlePower(value string) {
	z.mu.Lock()
	z.power = value == "On"
	z.mu.Unlock()
}

func (z *Zone) handleVolume(value string) {
	volume, err := strconv.ParseFloat(value, 64)
	if err != nil {
		z.logger.Warn("unparseable volume", "zone", z.subunit, "value", value)
		return
	}
	z.mu.Lock()
	z.volume = volume
	z.mu.Unlock()
}

func (z *Zone) handleMaxVolume(value string) {
	maxVolume, err := strconv.ParseFloat(value, 64)
	if err != nil {
		z.logger.Warn("unparseable max volume", "zone", z.subunit, "value", value)
		return
	}
	z.mu.Lock()
	z.maxVolume = maxVolume
	z.mu.Unlock()
}

func (z *Zone) handleMute(value string) {
	z.mu.Lock()
	z.mute = wire.ParseMute(value)
	z.mu.Unlock()
}

func (z *Zone) handleInput(value string) {
	z.mu.Lock()
	z.input = value
	z.mu.Unlock()
}

func (z *Zone) handleSoundProgram(value string) {
	z.mu.Lock()
	z.soundProgram = value
	z.mu.Unlock()
}

func (z *Zone) handleZoneName(value string) {
	z.mu.Lock()
	z.name = value
	z.mu.Unlock()

	// ZONENAME is the last value reported during initialization.
	z.ready.release()
}

// Subunit returns the zone's subunit identifier.
func (z *Zone) Subunit() string {
	return z.subunit
}

// Name returns the zone's display name.
func (z *Zone) Name() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.name
}

// Power returns the current power state.
func (z *Zone) Power() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.power
}

// Volume returns the current volume in dB.
func (z *Zone) Volume() float64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.volume
}

// MaxVolume returns the maximum volume in dB.
func (z *Zone) MaxVolume() float64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.maxVolume
}

// Mute returns the current mute level.
func (z *Zone) Mute() wire.MuteLevel {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.mute
}

// Input returns the current input selection.
func (z *Zone) Input() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.input
}

// SoundProgram returns the current DSP sound program.
func (z *Zone) SoundProgram() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.soundProgram
}

// Scenes returns the known scene names by slot. An empty map means the
// zone does not support scenes.
func (z *Zone) Scenes() map[int]string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	out := make(map[int]string, len(z.scenes))
	for slot, name := range z.scenes {
		out[slot] = name
	}
	return out
}

// SetPower turns the zone on or puts it in standby.
func (z *Zone) SetPower(on bool) error {
	value := "Standby"
	if on {
		value = "On"
	}
	return z.conn.Put(z.subunit, wire.FuncPower, value)
}

// SetMute sets the zone's mute level.
func (z *Zone) SetMute(level wire.MuteLevel) error {
	return z.conn.Put(z.subunit, wire.FuncMute, level.CommandValue())
}

// SetVolume sets the volume in dB. The device works in 0.5 dB steps;
// the value is rounded to the nearest step before transmission.
func (z *Zone) SetVolume(volume float64) error {
	return z.conn.Put(z.subunit, wire.FuncVolume, wire.FormatStepped(volume, 1, 0.5))
}

// AdjustVolume changes the volume by one step in the given direction.
// Valid steps are 0.5, 1, 2 and 5 dB. The 0.5 step is the device
// default and is sent as a bare direction command.
func (z *Zone) AdjustVolume(direction VolumeDirection, step float64) error {
	value := direction.String()
	switch step {
	case 0.5:
		// Bare command, device default step.
	case 1, 2, 5:
		value = fmt.Sprintf("%s %g dB", value, step)
	default:
		return fmt.Errorf("%w: %g", ErrInvalidVolumeStep, step)
	}
	return z.conn.Put(z.subunit, wire.FuncVolume, value)
}

// SetInput selects an input.
func (z *Zone) SetInput(name string) error {
	return z.conn.Put(z.subunit, wire.FuncInput, name)
}

// SetSoundProgram selects a DSP sound program. Names outside the fixed
// catalog fail with ErrUnknownSoundProgram before anything is sent.
func (z *Zone) SetSoundProgram(name string) error {
	if !wire.IsSoundProgram(name) {
		return fmt.Errorf("%w: %q", ErrUnknownSoundProgram, name)
	}
	return z.conn.Put(z.subunit, wire.FuncSoundProgram, name)
}

// ActivateScene activates one of the zone's scenes. Fails with
// ErrSceneUnsupported if the zone reported no scene names and with
// ErrInvalidSceneSlot for slots outside 1..4.
func (z *Zone) ActivateScene(slot int) error {
	z.mu.RLock()
	supported := len(z.scenes) > 0
	z.mu.RUnlock()

	if !supported {
		return ErrSceneUnsupported
	}
	if slot < 1 || slot > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidSceneSlot, slot)
	}
	return z.conn.Put(z.subunit, wire.FuncScene, fmt.Sprintf("Scene %d", slot))
}
