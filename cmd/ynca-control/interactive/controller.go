// Package interactive provides the interactive command-line interface
// for ynca-control.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/ynca-protocol/ynca-go/pkg/discovery"
	"github.com/ynca-protocol/ynca-go/pkg/receiver"
	"github.com/ynca-protocol/ynca-go/pkg/transport"
	"github.com/ynca-protocol/ynca-go/pkg/wire"
)

// Controller handles interactive mode for ynca-control.
type Controller struct {
	rcv  *receiver.Receiver
	conn *transport.Connection
	rl   *readline.Instance
}

// New creates a new interactive controller handler.
func New(rcv *receiver.Receiver, conn *transport.Connection) (*Controller, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ynca> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Controller{
		rcv:  rcv,
		conn: conn,
		rl:   rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Controller) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Controller) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Controller) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "discover":
			c.cmdDiscover(ctx)

		case "status":
			c.cmdStatus()

		case "zones":
			c.cmdZones()

		case "inputs":
			c.cmdInputs()

		case "programs":
			c.cmdPrograms()

		case "power":
			c.cmdPower(args)

		case "volume", "vol":
			c.cmdVolume(args)

		case "mute":
			c.cmdMute(args)

		case "input":
			c.cmdInput(args)

		case "program", "prog":
			c.cmdProgram(args)

		case "scene":
			c.cmdScene(args)

		case "get":
			c.cmdGet(args)

		case "put":
			c.cmdPut(args)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Controller) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
YNCA Control Commands:
  Overview:
    status                      - Show receiver status
    zones                       - List available zones
    inputs                      - List available inputs
    programs                    - List sound program names
    discover                    - Browse for receivers on the LAN

  Zone Control:
    power <zone> on|off         - Switch a zone on or to standby
    volume <zone> <dB>          - Set volume (e.g. volume main -32.5)
    volume <zone> up|down [step] - Step volume (step: 0.5, 1, 2 or 5)
    mute <zone> on|off|att20|att40 - Set mute level
    input <zone> <name>         - Select an input
    program <zone> <name>       - Select a sound program
    scene <zone> <1-4>          - Activate a scene

  Raw Protocol:
    get <subunit> <function>    - Send a raw query
    put <subunit> <function> <value> - Send a raw command

  General:
    help                        - Show this help
    quit                        - Exit

  Zones are addressed by subunit (MAIN, ZONE2, ...) or by name.`)
}

// cmdDiscover handles the discover command.
func (c *Controller) cmdDiscover(ctx context.Context) {
	fmt.Fprintln(c.rl.Stdout(), "Browsing for receivers...")

	browser := discovery.NewBrowser(discovery.BrowserConfig{})
	found, err := browser.Find(ctx, 5*time.Second)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Discovery error: %v\n", err)
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Found %d receiver(s):\n", len(found))
	for idx, svc := range found {
		fmt.Fprintf(c.rl.Stdout(), "  %d. %s at %s", idx+1, svc.InstanceName, svc.Address())
		if svc.Model != "" {
			fmt.Fprintf(c.rl.Stdout(), " (%s)", svc.Model)
		}
		fmt.Fprintln(c.rl.Stdout())
	}
}

// cmdStatus handles the status command.
func (c *Controller) cmdStatus() {
	out := c.rl.Stdout()

	fmt.Fprintln(out, "\nReceiver Status")
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "  Model:      %s\n", c.rcv.ModelName())
	fmt.Fprintf(out, "  Firmware:   %s\n", c.rcv.FirmwareVersion())
	fmt.Fprintf(out, "  Connection: %s\n", c.conn.State())

	for _, zone := range c.rcv.Zones() {
		power := "standby"
		if zone.Power() {
			power = "on"
		}
		fmt.Fprintf(out, "  %s (%s): %s", zone.Subunit(), zone.Name(), power)
		if zone.Power() {
			fmt.Fprintf(out, ", %.1f dB, %s", zone.Volume(), zone.Input())
			if zone.Mute() != wire.MuteOff {
				fmt.Fprintf(out, ", mute %s", zone.Mute())
			}
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

// cmdZones handles the zones command.
func (c *Controller) cmdZones() {
	out := c.rl.Stdout()

	zones := c.rcv.Zones()
	if len(zones) == 0 {
		fmt.Fprintln(out, "No zones available")
		return
	}

	fmt.Fprintf(out, "\nZones (%d):\n", len(zones))
	fmt.Fprintln(out, "-------------------------------------------")
	for _, zone := range zones {
		fmt.Fprintf(out, "  %s: %s\n", zone.Subunit(), zone.Name())
		fmt.Fprintf(out, "      Max volume: %.1f dB\n", zone.MaxVolume())

		scenes := zone.Scenes()
		if len(scenes) > 0 {
			slots := make([]int, 0, len(scenes))
			for slot := range scenes {
				slots = append(slots, slot)
			}
			sort.Ints(slots)
			for _, slot := range slots {
				fmt.Fprintf(out, "      Scene %d: %s\n", slot, scenes[slot])
			}
		}
		fmt.Fprintln(out)
	}
}

// cmdInputs handles the inputs command.
func (c *Controller) cmdInputs() {
	out := c.rl.Stdout()

	inputs := c.rcv.Inputs()
	if len(inputs) == 0 {
		fmt.Fprintln(out, "No inputs discovered")
		return
	}

	ids := make([]string, 0, len(inputs))
	for id := range inputs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "Inputs (%d):\n", len(ids))
	for _, id := range ids {
		if inputs[id] != id {
			fmt.Fprintf(out, "  %s: %s\n", id, inputs[id])
		} else {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}
}

// cmdPrograms handles the programs command.
func (c *Controller) cmdPrograms() {
	out := c.rl.Stdout()

	programs := wire.SoundPrograms()
	fmt.Fprintf(out, "Sound programs (%d):\n", len(programs))
	for _, name := range programs {
		fmt.Fprintf(out, "  %s\n", name)
	}
}

// cmdPower handles the power command.
func (c *Controller) cmdPower(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: power <zone> on|off")
		return
	}

	zone := c.resolveZone(args[0])
	if zone == nil {
		return
	}

	var on bool
	switch strings.ToLower(args[1]) {
	case "on":
		on = true
	case "off", "standby":
		on = false
	default:
		fmt.Fprintf(c.rl.Stdout(), "Invalid power state: %s (use on or off)\n", args[1])
		return
	}

	if err := zone.SetPower(on); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to set power: %v\n", err)
	}
}

// cmdVolume handles the volume command, both absolute and stepped.
func (c *Controller) cmdVolume(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: volume <zone> <dB> | volume <zone> up|down [step]")
		return
	}

	zone := c.resolveZone(args[0])
	if zone == nil {
		return
	}

	switch strings.ToLower(args[1]) {
	case "up", "down":
		direction := receiver.VolumeUp
		if strings.EqualFold(args[1], "down") {
			direction = receiver.VolumeDown
		}

		step := 0.5
		if len(args) > 2 {
			parsed, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				fmt.Fprintf(c.rl.Stdout(), "Invalid step: %s\n", args[2])
				return
			}
			step = parsed
		}

		if err := zone.AdjustVolume(direction, step); err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Failed to adjust volume: %v\n", err)
		}

	default:
		volume, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid volume: %s\n", args[1])
			return
		}

		if err := zone.SetVolume(volume); err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Failed to set volume: %v\n", err)
		}
	}
}

// cmdMute handles the mute command.
func (c *Controller) cmdMute(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: mute <zone> on|off|att20|att40")
		return
	}

	zone := c.resolveZone(args[0])
	if zone == nil {
		return
	}

	var level wire.MuteLevel
	switch strings.ToLower(args[1]) {
	case "on":
		level = wire.MuteOn
	case "off":
		level = wire.MuteOff
	case "att20":
		level = wire.MuteAtt20
	case "att40":
		level = wire.MuteAtt40
	default:
		fmt.Fprintf(c.rl.Stdout(), "Invalid mute level: %s\n", args[1])
		return
	}

	if err := zone.SetMute(level); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to set mute: %v\n", err)
	}
}

// cmdInput handles the input command.
func (c *Controller) cmdInput(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: input <zone> <name>")
		return
	}

	zone := c.resolveZone(args[0])
	if zone == nil {
		return
	}

	name := strings.Join(args[1:], " ")
	if err := zone.SetInput(name); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to set input: %v\n", err)
	}
}

// cmdProgram handles the program command.
func (c *Controller) cmdProgram(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: program <zone> <name>")
		return
	}

	zone := c.resolveZone(args[0])
	if zone == nil {
		return
	}

	name := strings.Join(args[1:], " ")
	if err := zone.SetSoundProgram(name); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to set sound program: %v\n", err)
		fmt.Fprintln(c.rl.Stdout(), "Use 'programs' to list valid names")
	}
}

// cmdScene handles the scene command.
func (c *Controller) cmdScene(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: scene <zone> <1-4>")
		return
	}

	zone := c.resolveZone(args[0])
	if zone == nil {
		return
	}

	slot, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid scene slot: %s\n", args[1])
		return
	}

	if err := zone.ActivateScene(slot); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to activate scene: %v\n", err)
	}
}

// cmdGet handles the raw get command.
func (c *Controller) cmdGet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: get <subunit> <function>")
		fmt.Fprintln(c.rl.Stdout(), "  Example: get MAIN VOL")
		return
	}

	subunit := strings.ToUpper(args[0])
	function := strings.ToUpper(args[1])

	if err := c.conn.Get(subunit, function); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Send failed: %v\n", err)
	}
}

// cmdPut handles the raw put command.
func (c *Controller) cmdPut(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: put <subunit> <function> <value>")
		fmt.Fprintln(c.rl.Stdout(), "  Example: put MAIN PWR On")
		return
	}

	subunit := strings.ToUpper(args[0])
	function := strings.ToUpper(args[1])
	value := strings.Join(args[2:], " ")

	if err := c.conn.Put(subunit, function, value); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Send failed: %v\n", err)
	}
}

// resolveZone resolves a zone by subunit or display name. Prints an
// error message and returns nil when no zone matches.
func (c *Controller) resolveZone(name string) *receiver.Zone {
	// Try exact subunit match first
	if zone := c.rcv.Zone(strings.ToUpper(name)); zone != nil {
		return zone
	}

	// Fall back to display name match
	for _, zone := range c.rcv.Zones() {
		if strings.EqualFold(zone.Name(), name) {
			return zone
		}
	}

	fmt.Fprintf(c.rl.Stdout(), "Zone not found: %s (use 'zones' to list)\n", name)
	return nil
}
