// Package commands implements the ynca-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/ynca-protocol/ynca-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	ConnID    string
	Subunit   string
	Direction *log.Direction
	Category  *log.Category
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		ConnectionID: filter.ConnID,
		Subunit:      filter.Subunit,
		Direction:    filter.Direction,
		Category:     filter.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)

	fmt.Fprintf(w, "%s [conn:%s] %-3s %s", ts, connID, event.Direction, event.Category)

	switch event.Category {
	case log.CategoryLine:
		fmt.Fprintf(w, " %s", event.Line)
		if event.Status != "" && event.Status != "OK" {
			fmt.Fprintf(w, " (%s)", event.Status)
		}

	case log.CategoryState:
		if event.State != nil {
			fmt.Fprintf(w, " %s -> %s", event.State.OldState, event.State.NewState)
		}

	case log.CategoryError:
		fmt.Fprintf(w, " %s", event.Error)
		if event.Line != "" {
			fmt.Fprintf(w, " (line: %q)", event.Line)
		}
	}

	fmt.Fprintln(w)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// ParseDirectionFlag parses a direction string from a command-line flag.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from a command-line flag.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "line":
		return log.CategoryLine, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be line, state, or error)", s)
	}
}
