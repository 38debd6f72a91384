package snapshot

import (
	"sync/atomic"

	"gridscope-api/pkg/grid"
)

// Store publishes snapshots to readers. Publish swaps an atomic pointer, so
// in-flight queries keep the version they started with and new queries see
// the replacement immediately.
type Store struct {
	cur atomic.Pointer[Snapshot]
	seq atomic.Uint64
}

func NewStore() *Store { return &Store{} }

// Current returns the latest published snapshot. Before the first publish
// there is nothing to serve and the data set counts as unavailable.
func (st *Store) Current() (*Snapshot, error) {
	s := st.cur.Load()
	if s == nil {
		return nil, grid.ErrUpstreamUnavailable
	}
	return s, nil
}

// Peek returns the latest snapshot or nil, without the availability check.
// Health reporting uses it to distinguish "empty" from "not loaded yet".
func (st *Store) Peek() *Snapshot { return st.cur.Load() }

// Publish stamps the snapshot with the next version and makes it current.
// The store takes ownership; the caller must not retain a mutable reference.
func (st *Store) Publish(s *Snapshot) *Snapshot {
	s.version = st.seq.Add(1)
	st.cur.Store(s)
	return s
}
