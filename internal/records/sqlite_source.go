package records

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/sensorcluster/internal/cluster"
)

// DefaultSQLiteTable is the table read when none is configured.
const DefaultSQLiteTable = "observations"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads observations from a SQLite table, in rowid order.
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource creates a SQLiteSource. An empty table selects DefaultSQLiteTable.
func NewSQLiteSource(path, table string) *SQLiteSource {
	if table == "" {
		table = DefaultSQLiteTable
	}
	return &SQLiteSource{path: path, table: table}
}

// Observations queries every row of the table.
func (s *SQLiteSource) Observations(ctx context.Context) ([]cluster.Observation, error) {
	obs, err := s.load(ctx)
	if err != nil {
		return nil, &SourceReadError{Source: s.path, Err: err}
	}
	return obs, nil
}

func (s *SQLiteSource) load(ctx context.Context) ([]cluster.Observation, error) {
	if !tableNamePattern.MatchString(s.table) {
		return nil, fmt.Errorf("invalid table name %q", s.table)
	}
	// sql.Open would create an empty database for a missing file.
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// The driver converts DATETIME/DATE/TIMESTAMP columns to time.Time;
	// casting keeps the stored text byte for byte.
	query := fmt.Sprintf(
		`SELECT %s, %s, CAST(%s AS TEXT), CAST(%s AS TEXT), CAST(%s AS TEXT) FROM %s ORDER BY rowid`,
		ColumnX, ColumnY, ColumnSensorID, ColumnTimestamp, ColumnUniqueID, s.table,
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []cluster.Observation
	for rows.Next() {
		var o cluster.Observation
		var sensorID, timestamp, uniqueID sql.NullString
		if err := rows.Scan(&o.X, &o.Y, &sensorID, &timestamp, &uniqueID); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out)+1, err)
		}
		o.SensorID = sensorID.String
		o.Timestamp = timestamp.String
		o.UniqueID = uniqueID.String
		if !uniqueID.Valid {
			o.UniqueID = cluster.AbsentUniqueID
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
