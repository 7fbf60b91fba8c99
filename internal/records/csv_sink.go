package records

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/fsutil"
)

// SummaryColumns is the header written by the CSV sink.
var SummaryColumns = []string{"F_TIMESTAMP", "F_ID", "CLUSTER_DATA", "F_U_ID"}

// Sink accepts the summaries of one run.
type Sink interface {
	WriteSummaries(ctx context.Context, summaries []cluster.Summary) error
}

// CSVSink writes summaries to a CSV file.
type CSVSink struct {
	path string
	fs   fsutil.FileSystem
}

// NewCSVSink creates a CSVSink. A nil fs uses the OS filesystem.
func NewCSVSink(path string, fs fsutil.FileSystem) *CSVSink {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &CSVSink{path: path, fs: fs}
}

// WriteSummaries renders the whole file in memory, writes it beside the
// destination and renames it into place. On failure the destination is
// left untouched.
func (s *CSVSink) WriteSummaries(ctx context.Context, summaries []cluster.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteSummaries(&buf, summaries); err != nil {
		return &SinkWriteError{Path: s.path, Err: err}
	}

	tmp := tempPath(s.path)
	if err := s.fs.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &SinkWriteError{Path: s.path, Err: err}
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return &SinkWriteError{Path: s.path, Err: err}
	}
	return nil
}

// WriteSummaries writes the header and one row per summary, in order.
func WriteSummaries(w io.Writer, summaries []cluster.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range summaries {
		row := []string{s.Timestamp, strconv.Itoa(s.ID), s.Data, s.UniqueID}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func tempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+".tmp")
}
