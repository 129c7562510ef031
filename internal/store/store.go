// Package store persists receipts as JSON files. Writes are atomic: a
// receipt is either fully on disk under its final name or not there at all,
// so a crashed run never leaves a truncated baseline behind.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/report"
)

// ErrNotFound is returned when a receipt file does not exist.
var ErrNotFound = errors.New("receipt not found")

// WriteRun writes a run receipt to path.
func WriteRun(path string, r receipt.RunReceipt, pretty bool) error {
	return writeJSON(path, r, pretty)
}

// ReadRun loads a run receipt from path and checks its schema.
func ReadRun(path string) (receipt.RunReceipt, error) {
	var r receipt.RunReceipt
	if err := readJSON(path, &r); err != nil {
		return receipt.RunReceipt{}, err
	}
	if r.Schema != receipt.RunSchema {
		return receipt.RunReceipt{}, fmt.Errorf("%s: schema %q, want %q", path, r.Schema, receipt.RunSchema)
	}
	return r, nil
}

// WriteCompare writes a compare receipt to path.
func WriteCompare(path string, c receipt.CompareReceipt, pretty bool) error {
	return writeJSON(path, c, pretty)
}

// ReadCompare loads a compare receipt from path and checks its schema.
func ReadCompare(path string) (receipt.CompareReceipt, error) {
	var c receipt.CompareReceipt
	if err := readJSON(path, &c); err != nil {
		return receipt.CompareReceipt{}, err
	}
	if c.Schema != receipt.CompareSchema {
		return receipt.CompareReceipt{}, fmt.Errorf("%s: schema %q, want %q", path, c.Schema, receipt.CompareSchema)
	}
	return c, nil
}

// WriteReport writes a findings document to path.
func WriteReport(path string, r report.Report, pretty bool) error {
	return writeJSON(path, r, pretty)
}

// ReadReport loads a findings document from path and checks its type.
func ReadReport(path string) (report.Report, error) {
	var r report.Report
	if err := readJSON(path, &r); err != nil {
		return report.Report{}, err
	}
	if r.ReportType != report.Schema {
		return report.Report{}, fmt.Errorf("%s: report_type %q, want %q", path, r.ReportType, report.Schema)
	}
	return r, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals v and renames a temp file over path. The temp file
// lives in the destination directory so the rename never crosses
// filesystems.
func writeJSON(path string, v any, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
