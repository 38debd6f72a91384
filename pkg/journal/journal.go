package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord captures one end-to-end ingest run for audit and replay analysis.
type RunRecord struct {
	Timestamp    time.Time      `json:"timestamp"`
	Source       string         `json:"source"` // csv, geojson, parquet, feed, seed
	Path         string         `json:"path,omitempty"`
	Region       string         `json:"iso_region,omitempty"`
	RunNumber    int            `json:"run_number"`
	Loaded       int            `json:"loaded"`
	Skipped      int            `json:"skipped,omitempty"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Writer persists run records to a directory as JSON files (journal style).
type Writer struct {
	dir   string
	seq   int
	nowFn func() time.Time
}

// NewWriter constructs a journal writer.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "journal"
	}
	_ = os.MkdirAll(dir, 0o755)
	return &Writer{dir: dir, nowFn: time.Now}
}

// WriteRun writes a run record to a timestamped JSON file.
func (w *Writer) WriteRun(rec *RunRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("journal: nil record")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = w.nowFn()
	}
	w.seq++
	rec.RunNumber = w.seq
	name := fmt.Sprintf("ingest_%s_%05d.json", rec.Timestamp.UTC().Format("20060102_150405"), w.seq)
	path := filepath.Join(w.dir, name)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
