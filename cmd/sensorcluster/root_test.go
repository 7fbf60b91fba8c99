package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/fsutil"
	"github.com/banshee-data/sensorcluster/internal/records"
	"github.com/banshee-data/sensorcluster/internal/testutil"
)

var fixture = []cluster.Observation{
	testutil.Obs(0, 0, "s1", "2024-05-01T12:00:00.000Z", "0"),
	testutil.Obs(1, 0, "s2", "2024-05-01T12:00:00.000Z", "u1"),
	testutil.Obs(10, 10, "s3", "2024-05-01T12:00:05.000Z", "0"),
}

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testutil.ObservationsCSV(fixture...)), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "clustered_data.csv")

	code, stdout, stderr := runCLI(t, "-i", in, "-o", out, "--id-strategy", "sequential", "--log-format", "json")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, successMessage+"\n", stdout)
	assert.Contains(t, stderr, `"message":"run complete"`)
	assert.Contains(t, stderr, `"clusters":2`)

	got := testutil.ReadCSV(t, fsutil.OSFileSystem{}, out)
	want := [][]string{
		records.SummaryColumns,
		{"2024-05-01T12:00:00.000Z", "1", `[{"x_position":0,"y_position":0,"sensor_id":"s1"},{"x_position":1,"y_position":0,"sensor_id":"s2"}]`, "u1"},
		{"2024-05-01T12:00:05.000Z", "2", `[{"x_position":10,"y_position":10,"sensor_id":"s3"}]`, "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ThresholdFromEnv(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "out.csv")
	t.Setenv("SENSORCLUSTER_THRESHOLD", "20")

	code, _, stderr := runCLI(t, "-i", in, "-o", out)
	require.Equal(t, 0, code, stderr)

	rows := testutil.ReadCSV(t, fsutil.OSFileSystem{}, out)
	require.Len(t, rows, 2, "header plus one cluster")
	assert.Equal(t, "2024-05-01T12:00:01.666Z", rows[1][0])
}

func TestRun_FlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "out.csv")
	cfgPath := filepath.Join(dir, "sensorcluster.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("threshold: 20\nid_strategy: sequential\n"), 0o644))

	code, _, stderr := runCLI(t, "--config", cfgPath, "-i", in, "-o", out, "--threshold", "0.5")
	require.Equal(t, 0, code, stderr)

	rows := testutil.ReadCSV(t, fsutil.OSFileSystem{}, out)
	require.Len(t, rows, 4, "header plus three singleton clusters")
	assert.Equal(t, []string{"1", "2", "3"}, []string{rows[1][1], rows[2][1], rows[3][1]})
}

func TestRun_SQLiteSource(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "observations.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE readings (x_position DOUBLE, y_position DOUBLE, sensor_id TEXT, timestamp_id TEXT, unique_id TEXT)`)
	require.NoError(t, err)
	for _, o := range fixture {
		_, err := db.Exec(`INSERT INTO readings VALUES (?, ?, ?, ?, ?)`, o.X, o.Y, o.SensorID, o.Timestamp, o.UniqueID)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	out := filepath.Join(dir, "out.csv")
	code, _, stderr := runCLI(t, "--source", "sqlite", "--table", "readings", "-i", dbPath, "-o", out)
	require.Equal(t, 0, code, stderr)

	rows := testutil.ReadCSV(t, fsutil.OSFileSystem{}, out)
	assert.Len(t, rows, 3)
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing input",
			args: []string{"-i", filepath.Join(dir, "absent.csv"), "-o", filepath.Join(dir, "a.csv")},
			want: "absent.csv",
		},
		{
			name: "negative threshold",
			args: []string{"-i", in, "-o", filepath.Join(dir, "b.csv"), "--threshold=-1"},
			want: "threshold must be a non-negative number",
		},
		{
			name: "output overwrites input",
			args: []string{"-i", in, "-o", in},
			want: "would overwrite the input",
		},
		{
			name: "unknown id strategy",
			args: []string{"-i", in, "-o", filepath.Join(dir, "c.csv"), "--id-strategy", "uuid"},
			want: "unknown id strategy",
		},
		{
			name: "unexpected argument",
			args: []string{"extra"},
			want: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error processing data: ")
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRun_MalformedTimestampLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(in, []byte(testutil.ObservationsCSV(
		testutil.Obs(0, 0, "s1", "2024-05-01T12:00:00.000Z", "0"),
		testutil.Obs(0.5, 0, "s2", "yesterday", "0"),
	)), 0o644))
	out := filepath.Join(dir, "out.csv")

	code, _, stderr := runCLI(t, "-i", in, "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "yesterday")
	assert.NoFileExists(t, out)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "sensorcluster dev")
}
