package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/fsutil"
)

const utf8BOM = "\ufeff"

// CSVSource reads observations from a CSV file with a header row.
type CSVSource struct {
	path string
	fs   fsutil.FileSystem
}

// NewCSVSource creates a CSVSource. A nil fs uses the OS filesystem.
func NewCSVSource(path string, fs fsutil.FileSystem) *CSVSource {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &CSVSource{path: path, fs: fs}
}

// Observations reads every row of the file, in file order.
func (s *CSVSource) Observations(ctx context.Context) ([]cluster.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, &SourceReadError{Source: s.path, Err: err}
	}
	defer f.Close()

	obs, err := ReadObservations(f)
	if err != nil {
		return nil, &SourceReadError{Source: s.path, Err: err}
	}
	return obs, nil
}

// ReadObservations parses CSV observation rows. The header must name every
// column in ObservationColumns; order is free and extra columns are ignored.
func ReadObservations(r io.Reader) ([]cluster.Observation, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []cluster.Observation
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		o, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, o)
	}
	return out, nil
}

type columns struct {
	x, y, sensorID, timestamp, uniqueID int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	c := columns{
		x:         lookup(ColumnX),
		y:         lookup(ColumnY),
		sensorID:  lookup(ColumnSensorID),
		timestamp: lookup(ColumnTimestamp),
		uniqueID:  lookup(ColumnUniqueID),
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func parseRow(row []string, c columns) (cluster.Observation, error) {
	x, err := parseCoordinate(ColumnX, row[c.x])
	if err != nil {
		return cluster.Observation{}, err
	}
	y, err := parseCoordinate(ColumnY, row[c.y])
	if err != nil {
		return cluster.Observation{}, err
	}
	return cluster.Observation{
		X:         x,
		Y:         y,
		SensorID:  row[c.sensorID],
		Timestamp: row[c.timestamp],
		UniqueID:  row[c.uniqueID],
	}, nil
}

func parseCoordinate(column, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", column, value, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse %s %q: not a finite number", column, value)
	}
	return v, nil
}
