// Package report writes port records to timestamped CSV files.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/productdevbook/serial-logger/internal/record"
)

// DirName is the report directory created under the base directory.
const DirName = "csv_logs"

const timestampLayout = "20060102_150405"

// Filename returns the report file name for hostname at ts.
func Filename(hostname string, ts time.Time) string {
	return fmt.Sprintf("serial_ports_%s_%s.csv", hostname, ts.Format(timestampLayout))
}

// Write renders records as CSV into dir, creating dir if needed, and returns
// the path written. The file appears complete or not at all.
func Write(records []record.PortRecord, dir, hostname string, ts time.Time) (string, error) {
	data, err := Encode(records)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, Filename(hostname, ts))
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}

	return path, nil
}

// Encode renders the header row followed by one row per record.
func Encode(records []record.PortRecord) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(record.Fields); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return nil, fmt.Errorf("encode record %s: %w", r.Port, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}

	return buf.Bytes(), nil
}

// writeAtomic writes data to a temp file next to path, syncs it and renames it
// into place. The temp file is removed on any failure.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".serial_ports-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}

	return nil
}
