package wire

import (
	"errors"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Response
	}{
		{
			name: "value reply",
			line: "@MAIN:VOL=-20.5",
			want: Response{Status: StatusOK, Subunit: "MAIN", Function: "VOL", Value: "-20.5"},
		},
		{
			name: "system reply",
			line: "@SYS:MODELNAME=RX-V473",
			want: Response{Status: StatusOK, Subunit: "SYS", Function: "MODELNAME", Value: "RX-V473"},
		},
		{
			name: "value containing equals",
			line: "@MAIN:SOUNDPRG=2ch Stereo",
			want: Response{Status: StatusOK, Subunit: "MAIN", Function: "SOUNDPRG", Value: "2ch Stereo"},
		},
		{
			name: "empty value",
			line: "@ZONE2:ZONENAME=",
			want: Response{Status: StatusOK, Subunit: "ZONE2", Function: "ZONENAME", Value: ""},
		},
		{
			name: "undefined",
			line: "@UNDEFINED",
			want: Response{Status: StatusUndefined},
		},
		{
			name: "restricted",
			line: "@RESTRICTED",
			want: Response{Status: StatusRestricted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if err != nil {
				t.Fatalf("ParseLine(%q) error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineMalformed(t *testing.T) {
	lines := []string{
		"",
		"MAIN:VOL=1.0",
		"@MAIN",
		"@MAIN:VOL",
		"@:VOL=1.0",
		"@MAIN:=1.0",
	}

	for _, line := range lines {
		if _, err := ParseLine(line); !errors.Is(err, ErrMalformedLine) {
			t.Errorf("ParseLine(%q) error = %v, want ErrMalformedLine", line, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if got, want := FormatPut("MAIN", "PWR", "On"), "@MAIN:PWR=On\r\n"; got != want {
		t.Errorf("FormatPut() = %q, want %q", got, want)
	}
	if got, want := FormatGet("ZONE2", "AVAIL"), "@ZONE2:AVAIL=?\r\n"; got != want {
		t.Errorf("FormatGet() = %q, want %q", got, want)
	}
}

func TestStatusOK(t *testing.T) {
	if !StatusOK.OK() {
		t.Error("StatusOK.OK() = false, want true")
	}
	if StatusUndefined.OK() || StatusRestricted.OK() {
		t.Error("failure statuses must not report OK")
	}
}
