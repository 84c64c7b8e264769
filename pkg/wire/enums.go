package wire

// MuteLevel represents a zone's mute state.
type MuteLevel uint8

const (
	// MuteOn indicates full mute.
	MuteOn MuteLevel = 0

	// MuteAtt20 indicates output attenuated by 20 dB.
	MuteAtt20 MuteLevel = 1

	// MuteAtt40 indicates output attenuated by 40 dB.
	MuteAtt40 MuteLevel = 2

	// MuteOff indicates unmuted output.
	MuteOff MuteLevel = 3
)

// String returns the mute level name.
func (m MuteLevel) String() string {
	switch m {
	case MuteOn:
		return "ON"
	case MuteAtt20:
		return "ATT_-20DB"
	case MuteAtt40:
		return "ATT_-40DB"
	case MuteOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseMute maps a reported MUTE value to a mute level. The mapping is
// total: any value that is not one of the known unmuted or attenuated
// forms counts as fully muted. Firmware revisions vary in their exact
// status strings, so the catch-all keeps unknown forms on the safe side.
func ParseMute(value string) MuteLevel {
	switch value {
	case "Off":
		return MuteOff
	case "Att -20dB":
		return MuteAtt20
	case "Att -40dB":
		return MuteAtt40
	default:
		return MuteOn
	}
}

// CommandValue returns the wire value for a MUTE command.
// Note the attenuated command vocabulary ("Att -20 dB") is spaced
// differently from the reported status strings matched by ParseMute.
func (m MuteLevel) CommandValue() string {
	switch m {
	case MuteOff:
		return "Off"
	case MuteAtt20:
		return "Att -20 dB"
	case MuteAtt40:
		return "Att -40 dB"
	default:
		return "On"
	}
}

// soundPrograms is the fixed DSP sound program catalog. The device
// rejects values outside it, so callers are checked up front.
var soundPrograms = []string{
	"Hall in Munich",
	"Hall in Vienna",
	"Chamber",
	"Cellar Club",
	"The Roxy Theatre",
	"The Bottom Line",
	"Sports",
	"Action Game",
	"Roleplaying Game",
	"Music Video",
	"Standard",
	"Spectacle",
	"Sci-Fi",
	"Adventure",
	"Drama",
	"Mono Movie",
	"2ch Stereo",
	"7ch Stereo",
	"Surround Decoder",
}

var soundProgramSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(soundPrograms))
	for _, p := range soundPrograms {
		set[p] = struct{}{}
	}
	return set
}()

// SoundPrograms returns the DSP sound program catalog in device order.
func SoundPrograms() []string {
	out := make([]string, len(soundPrograms))
	copy(out, soundPrograms)
	return out
}

// IsSoundProgram reports whether name is a valid DSP sound program.
func IsSoundProgram(name string) bool {
	_, ok := soundProgramSet[name]
	return ok
}
