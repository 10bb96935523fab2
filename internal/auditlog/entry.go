// ABOUTME: Audit log entry type, action tags, and the one-line text encoding
// ABOUTME: Lines are datetime,action,name,delta,before,after with commas in names replaced

package auditlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Action is the tag recorded for each audit entry.
type Action string

const (
	ActionRegister Action = "REGISTER"
	ActionIn       Action = "IN"
	ActionOut      Action = "OUT"
	ActionOutFail  Action = "OUT_FAIL"
	ActionSetMin   Action = "SET_MIN"
	ActionSaveCSV  Action = "SAVE_CSV"
	ActionLoadCSV  Action = "LOAD_CSV"
	ActionAlert    Action = "ALERT"
)

// ValidActions lists all valid audit actions.
var ValidActions = []Action{
	ActionRegister,
	ActionIn,
	ActionOut,
	ActionOutFail,
	ActionSetMin,
	ActionSaveCSV,
	ActionLoadCSV,
	ActionAlert,
}

// ParseAction returns the Action named by s (case-insensitive).
func ParseAction(s string) (Action, error) {
	for _, a := range ValidActions {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

const (
	// Header is written once, as the first line of a new audit file.
	Header = "datetime,action,name,delta,before,after"

	// TimeLayout formats the datetime column.
	TimeLayout = "2006-01-02 15:04:05"

	// NoItem stands in for the item name on whole-store actions.
	NoItem = "-"
)

var numericColumns = [3]string{"delta", "before", "after"}

// Entry is one line of the audit trail.
type Entry struct {
	Time   time.Time
	Action Action
	Name   string
	Delta  int
	Before int
	After  int
}

// Line encodes e without a trailing newline.
func (e Entry) Line() string {
	return fmt.Sprintf("%s,%s,%s,%d,%d,%d",
		e.Time.Format(TimeLayout),
		e.Action,
		safeName(e.Name),
		e.Delta,
		e.Before,
		e.After,
	)
}

// safeName replaces field delimiters so the name cannot split the line.
func safeName(name string) string {
	return strings.ReplaceAll(name, ",", " ")
}

// ParseLine decodes a line produced by Entry.Line. Times are read in loc.
func ParseLine(line string, loc *time.Location) (Entry, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 6 {
		return Entry{}, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}

	ts, err := time.ParseInLocation(TimeLayout, fields[0], loc)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing datetime: %w", err)
	}
	action, err := ParseAction(fields[1])
	if err != nil {
		return Entry{}, err
	}

	var nums [3]int
	for i, field := range fields[3:] {
		nums[i], err = strconv.Atoi(field)
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s: %w", numericColumns[i], err)
		}
	}

	return Entry{
		Time:   ts,
		Action: action,
		Name:   fields[2],
		Delta:  nums[0],
		Before: nums[1],
		After:  nums[2],
	}, nil
}

// ReadEntries parses an audit file in file order. The header and lines that
// fail to parse are skipped.
func ReadEntries(r io.Reader, loc *time.Location) ([]Entry, error) {
	var entries []Entry
	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("reading audit log: %w", readErr)
		}
		line := strings.TrimSpace(raw)
		if line != "" && line != Header {
			if e, err := ParseLine(line, loc); err == nil {
				entries = append(entries, e)
			}
		}
		if readErr != nil {
			break
		}
	}
	return entries, nil
}
