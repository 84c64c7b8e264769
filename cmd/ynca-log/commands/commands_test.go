package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ynca-protocol/ynca-go/pkg/log"
)

func createTestCapture(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cbor")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func testEvents() []log.Event {
	ts := time.Date(2026, 8, 30, 10, 15, 32, 0, time.UTC)
	return []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "conn-aaaa-bbbb",
			Direction:    log.DirectionOut,
			Category:     log.CategoryLine,
			RemoteAddr:   "192.168.1.20:50000",
			Line:         "@SYS:MODELNAME=?",
			Subunit:      "SYS",
			Function:     "MODELNAME",
			Value:        "?",
		},
		{
			Timestamp:    ts.Add(50 * time.Millisecond),
			ConnectionID: "conn-aaaa-bbbb",
			Direction:    log.DirectionIn,
			Category:     log.CategoryLine,
			RemoteAddr:   "192.168.1.20:50000",
			Line:         "@SYS:MODELNAME=RX-V473",
			Status:       "OK",
			Subunit:      "SYS",
			Function:     "MODELNAME",
			Value:        "RX-V473",
		},
		{
			Timestamp:    ts.Add(100 * time.Millisecond),
			ConnectionID: "conn-aaaa-bbbb",
			Direction:    log.DirectionIn,
			Category:     log.CategoryLine,
			Line:         "@MAIN:VOL=-32.5",
			Status:       "OK",
			Subunit:      "MAIN",
			Function:     "VOL",
			Value:        "-32.5",
		},
		{
			Timestamp:    ts.Add(200 * time.Millisecond),
			ConnectionID: "conn-aaaa-bbbb",
			Direction:    log.DirectionIn,
			Category:     log.CategoryError,
			Error:        "malformed line",
			Line:         "garbage",
		},
	}
}

func TestViewFormatsLines(t *testing.T) {
	path := createTestCapture(t, testEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "@SYS:MODELNAME=?") {
		t.Error("expected outgoing query in output")
	}
	if !strings.Contains(output, "@MAIN:VOL=-32.5") {
		t.Error("expected volume report in output")
	}
	if !strings.Contains(output, "[conn:conn-aaa]") {
		t.Error("expected shortened connection ID in output")
	}
	if !strings.Contains(output, "malformed line") {
		t.Error("expected error event in output")
	}
}

func TestViewFilterByDirection(t *testing.T) {
	path := createTestCapture(t, testEvents())

	out := log.DirectionOut
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Direction: &out}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "@SYS:MODELNAME=?") {
		t.Error("expected outgoing line in filtered output")
	}
	if strings.Contains(output, "RX-V473") {
		t.Error("incoming line should have been filtered out")
	}
}

func TestViewFilterBySubunit(t *testing.T) {
	path := createTestCapture(t, testEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Subunit: "MAIN"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "@MAIN:VOL=-32.5") {
		t.Error("expected MAIN line in filtered output")
	}
	if strings.Contains(output, "MODELNAME") {
		t.Error("SYS lines should have been filtered out")
	}
}

func TestParseDirectionFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Direction
		wantErr bool
	}{
		{"in", log.DirectionIn, false},
		{"OUT", log.DirectionOut, false},
		{"sideways", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirectionFlag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Category
		wantErr bool
	}{
		{"line", log.CategoryLine, false},
		{"State", log.CategoryState, false},
		{"error", log.CategoryError, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategoryFlag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestCapture(t, testEvents())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 JSONL lines, got %d", len(lines))
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if decoded["Line"] != "@SYS:MODELNAME=?" {
		t.Errorf("unexpected first line: %v", decoded["Line"])
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestCapture(t, testEvents())
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}

	// Header plus four events
	if len(records) != 5 {
		t.Fatalf("expected 5 CSV records, got %d", len(records))
	}
	if records[0][0] != "timestamp" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[3][6] != "MAIN" || records[3][8] != "-32.5" {
		t.Errorf("unexpected volume row: %v", records[3])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestCapture(t, testEvents())

	if err := RunExport(path, "xml", ""); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFilterWritesMatchingEvents(t *testing.T) {
	path := createTestCapture(t, testEvents())
	outPath := filepath.Join(t.TempDir(), "filtered.cbor")

	var buf bytes.Buffer
	opts := FilterOptions{
		Output:  outPath,
		Subunit: "MAIN",
	}
	if err := RunFilter(path, opts, &buf); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Filtered 1 events") {
		t.Errorf("unexpected filter summary: %s", buf.String())
	}

	// The output must itself be a readable capture
	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open filtered capture: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("failed to read filtered event: %v", err)
	}
	if event.Subunit != "MAIN" {
		t.Errorf("expected MAIN event, got subunit %q", event.Subunit)
	}
}

func TestFilterInvalidTime(t *testing.T) {
	path := createTestCapture(t, testEvents())

	var buf bytes.Buffer
	opts := FilterOptions{
		Output:    filepath.Join(t.TempDir(), "out.cbor"),
		TimeStart: "yesterday",
	}
	if err := RunFilter(path, opts, &buf); err == nil {
		t.Fatal("expected error for invalid time format")
	}
}

func TestStatsOutput(t *testing.T) {
	path := createTestCapture(t, testEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Total Events: 4") {
		t.Errorf("expected total of 4 events, got:\n%s", output)
	}
	if !strings.Contains(output, "Connections: 1") {
		t.Errorf("expected 1 connection, got:\n%s", output)
	}
	if !strings.Contains(output, "MAIN:") {
		t.Error("expected MAIN subunit count in output")
	}
	if !strings.Contains(output, "Errors: 1") {
		t.Error("expected error count in output")
	}
	if !strings.Contains(output, "Receiver: 192.168.1.20:50000") {
		t.Error("expected receiver address in output")
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestCapture(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected empty stats, got:\n%s", buf.String())
	}
}
