package wire

// Subunit and function tokens used during discovery and zone control.
// The protocol has no enumeration command; these tables are the full
// candidate set a client can probe.
const (
	// SubunitSystem addresses the system unit.
	SubunitSystem = "SYS"

	// FuncModelName reports the device model.
	FuncModelName = "MODELNAME"

	// FuncVersion reports the firmware version. Replies are produced
	// in issue order, so a VERSION query doubles as a sequencing
	// sentinel behind a burst of probes.
	FuncVersion = "VERSION"

	// FuncAvailability is the existence probe function. Probing it on
	// a subunit that does not exist yields @UNDEFINED.
	FuncAvailability = "AVAIL"

	// FuncInputNamePrefix prefixes the per-input display name
	// functions (INPNAMEHDMI1, INPNAMEAV2, ...).
	FuncInputNamePrefix = "INPNAME"

	// FuncBasic queries the aggregate zone state: PWR, SLEEP, VOL,
	// MUTE, INP, STRAIGHT, ENHANCER and SOUNDPRG where applicable.
	FuncBasic = "BASIC"

	// FuncPower is the zone power function.
	FuncPower = "PWR"

	// FuncVolume is the zone volume function.
	FuncVolume = "VOL"

	// FuncMaxVolume is the zone maximum volume function.
	FuncMaxVolume = "MAXVOL"

	// FuncMute is the zone mute function.
	FuncMute = "MUTE"

	// FuncInput is the zone input selection function.
	FuncInput = "INP"

	// FuncSoundProgram is the zone DSP sound program function.
	FuncSoundProgram = "SOUNDPRG"

	// FuncZoneName is the zone display name function. It is the last
	// value a zone reports during initialization.
	FuncZoneName = "ZONENAME"

	// FuncSceneName queries all scene display names at once.
	FuncSceneName = "SCENENAME"

	// FuncScene activates a scene slot.
	FuncScene = "SCENE"
)

// ZoneSubunits lists every zone subunit a device can have, in probe
// order. Most devices only have a subset; existence is proven by a
// successful AVAIL probe.
var ZoneSubunits = []string{"MAIN", "ZONE2", "ZONE3", "ZONE4"}

// IsZoneSubunit reports whether subunit is a possible zone identifier.
func IsZoneSubunit(subunit string) bool {
	for _, z := range ZoneSubunits {
		if z == subunit {
			return true
		}
	}
	return false
}

// SourceInputs maps internal source subunits to the input label used
// to select them. These do not appear in the INPNAME table, so
// availability is probed per subunit.
// The NET subunit is missing: its input mapping is unknown.
var SourceInputs = map[string]string{
	"TUN":      "TUNER",
	"SIRIUS":   "SIRIUS",
	"IPOD":     "iPod",
	"BT":       "Bluetooth",
	"RHAP":     "Rhapsody",
	"SIRIUSIR": "SIRIUS InternetRadio",
	"PANDORA":  "Pandora",
	"NAPSTER":  "Napster",
	"PC":       "PC",
	"NETRADIO": "NET RADIO",
	"IPODUSB":  "iPod (USB)",
	"UAW":      "UAW",
}

// MainZoneInputs lists external inputs that only the main zone can
// select.
var MainZoneInputs = []string{
	"HDMI1", "HDMI2", "HDMI3", "HDMI4", "HDMI5", "HDMI6", "HDMI7",
	"AV1", "AV2", "AV3", "AV4",
}
