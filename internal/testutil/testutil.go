// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the observation fixtures used by the records,
// pipeline and command tests.
package testutil

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/fsutil"
)

// ObservationHeader is the header row used by ObservationsCSV.
var ObservationHeader = []string{"x_position", "y_position", "sensor_id", "timestamp_id", "unique_id"}

// Obs builds an observation.
func Obs(x, y float64, sensorID, timestamp, uniqueID string) cluster.Observation {
	return cluster.Observation{X: x, Y: y, SensorID: sensorID, Timestamp: timestamp, UniqueID: uniqueID}
}

// ObservationsCSV renders observations as CSV text with ObservationHeader.
func ObservationsCSV(obs ...cluster.Observation) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(ObservationHeader)
	for _, o := range obs {
		_ = w.Write([]string{
			strconv.FormatFloat(o.X, 'f', -1, 64),
			strconv.FormatFloat(o.Y, 'f', -1, 64),
			o.SensorID,
			o.Timestamp,
			o.UniqueID,
		})
	}
	w.Flush()
	return buf.String()
}

// WriteFile stores content in fs, failing the test on error.
func WriteFile(t testing.TB, fs fsutil.FileSystem, path, content string) {
	t.Helper()
	if err := fs.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

// ReadFile returns the content of path in fs, failing the test on error.
func ReadFile(t testing.TB, fs fsutil.FileSystem, path string) string {
	t.Helper()
	f, err := fs.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// ReadCSV parses CSV text from fs into records, failing the test on error.
func ReadCSV(t testing.TB, fs fsutil.FileSystem, path string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(ReadFile(t, fs, path))).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return records
}
