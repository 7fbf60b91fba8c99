package cluster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// TimestampLayout is the format used for averaged cluster timestamps:
// UTC with millisecond precision and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// timestampLayouts are tried in order when parsing an observation timestamp.
// The date and time may be separated by T or a space, and offsets may omit
// the colon. Layouts without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// errUnrecognisedTimestamp is wrapped by ParseError when no layout matches.
var errUnrecognisedTimestamp = errors.New("unrecognised timestamp format")

// ParseError reports a timestamp that could not be interpreted.
type ParseError struct {
	Value    string
	SensorID string
	Err      error
}

func (e *ParseError) Error() string {
	if e.SensorID != "" {
		return fmt.Sprintf("parse timestamp %q (sensor %s): %v", e.Value, e.SensorID, e.Err)
	}
	return fmt.Sprintf("parse timestamp %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseTimestamp interprets an ISO-8601 timestamp string. Matching is case
// insensitive and surrounding whitespace is ignored.
func ParseTimestamp(value string) (time.Time, error) {
	normalised := strings.ToUpper(strings.TrimSpace(value))
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, normalised); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Value: value, Err: errUnrecognisedTimestamp}
}

// FormatTimestamp renders epoch milliseconds in TimestampLayout.
func FormatTimestamp(unixMilli int64) string {
	return time.UnixMilli(unixMilli).UTC().Format(TimestampLayout)
}

// ReconcileTimestamp derives the representative timestamp of a cluster.
//
// When every member carries the same timestamp string it is returned
// verbatim and never parsed. Otherwise the members are averaged in epoch
// milliseconds, the mean is truncated toward zero and formatted with
// TimestampLayout.
func ReconcileTimestamp(members []Observation) (string, error) {
	if len(members) == 0 {
		return "", errors.New("reconcile timestamp: empty cluster")
	}
	if commonTimestamp(members) {
		return members[0].Timestamp, nil
	}

	millis := make([]float64, len(members))
	for i, m := range members {
		t, err := ParseTimestamp(m.Timestamp)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.SensorID = m.SensorID
			}
			return "", err
		}
		millis[i] = float64(t.UnixMilli())
	}

	mean := stat.Mean(millis, nil)
	return FormatTimestamp(int64(mean)), nil
}

func commonTimestamp(members []Observation) bool {
	first := members[0].Timestamp
	for _, m := range members[1:] {
		if m.Timestamp != first {
			return false
		}
	}
	return true
}
