package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"gridscope-api/pkg/grid"
)

// Records is the raw record set a snapshot is built from, in checkpoint
// form. Checkpoints let the service come up and serve without reaching any
// upstream, and let ingest runs hand a data set to the API process.
type Records struct {
	SavedAt time.Time             `msgpack:"saved_at"`
	Assets  []grid.Asset          `msgpack:"assets"`
	Outages []grid.OutageInterval `msgpack:"outages"`
	Nodes   []grid.PricingNode    `msgpack:"nodes"`
	Samples []grid.PriceSample    `msgpack:"samples"`
	Zones   []grid.Zone           `msgpack:"zones"`
}

// Build assembles a snapshot from the record set.
func (r *Records) Build() (*Snapshot, error) {
	return NewBuilder().
		AddAssets(r.Assets...).
		AddOutages(r.Outages...).
		AddNodes(r.Nodes...).
		AddSamples(r.Samples...).
		AddZones(r.Zones...).
		Build()
}

// WriteCheckpoint encodes the record set to w.
func WriteCheckpoint(w io.Writer, r *Records) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	return nil
}

// ReadCheckpoint decodes a record set from r. A checkpoint that does not
// decode is corrupt, not merely empty.
func ReadCheckpoint(r io.Reader) (*Records, error) {
	var rec Records
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: decode checkpoint: %v", grid.ErrDataIntegrity, err)
	}
	return &rec, nil
}

// SaveCheckpoint writes the record set to path, creating parent directories
// as needed. The file is written to a temp name and renamed so a crash
// mid-write never leaves a truncated checkpoint behind.
func SaveCheckpoint(path string, r *Records) error {
	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now().UTC()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create checkpoint temp: %w", err)
	}
	if err := WriteCheckpoint(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close checkpoint temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads the record set at path.
func LoadCheckpoint(path string) (*Records, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()
	return ReadCheckpoint(f)
}
