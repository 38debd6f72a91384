package repo

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

type stubRecordsRepo struct {
	calls atomic.Int64
	err   error
}

func (s *stubRecordsRepo) LoadRecords(_ context.Context, _ time.Duration) (*snapshot.Records, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &snapshot.Records{
		Assets: []grid.Asset{
			{AssetID: "GEN-1", Name: "Unit One", Fuel: grid.FuelWind, CapacityMW: 100, Lat: 40, Lon: -100, Region: "SPP"},
		},
	}, nil
}

func TestNewRefresherValidation(t *testing.T) {
	_, err := NewRefresher(RefresherConfig{Store: snapshot.NewStore()})
	assert.Error(t, err, "missing records repo should be rejected")

	_, err = NewRefresher(RefresherConfig{Records: &stubRecordsRepo{}})
	assert.Error(t, err, "missing store should be rejected")
}

func TestRefreshOncePublishes(t *testing.T) {
	store := snapshot.NewStore()
	r, err := NewRefresher(RefresherConfig{Records: &stubRecordsRepo{}, Store: store})
	assert.NoError(t, err)

	err = r.RefreshOnce(context.Background())
	assert.NoError(t, err, "refresh should not error")

	snap, err := store.Current()
	assert.NoError(t, err, "store should serve after publish")
	assert.Equal(t, uint64(1), snap.Version())
	assert.Equal(t, 1, snap.Counts().Assets)
}

func TestRefreshOnceWritesCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshot.ckpt")
	r, err := NewRefresher(RefresherConfig{
		Records:        &stubRecordsRepo{},
		Store:          snapshot.NewStore(),
		CheckpointPath: path,
	})
	assert.NoError(t, err)

	err = r.RefreshOnce(context.Background())
	assert.NoError(t, err, "refresh should not error")

	records, err := snapshot.LoadCheckpoint(path)
	assert.NoError(t, err, "checkpoint should load back")
	assert.Len(t, records.Assets, 1, "checkpoint should carry the loaded records")
	assert.False(t, records.SavedAt.IsZero(), "checkpoint should be stamped")
}

func TestRefreshOncePropagatesLoadError(t *testing.T) {
	loadErr := errors.New("postgres down")
	store := snapshot.NewStore()
	r, err := NewRefresher(RefresherConfig{Records: &stubRecordsRepo{err: loadErr}, Store: store})
	assert.NoError(t, err)

	err = r.RefreshOnce(context.Background())
	assert.True(t, errors.Is(err, loadErr), "load error should surface")
	assert.Nil(t, store.Peek(), "nothing should publish on a failed load")
}

func TestRunStopsOnStop(t *testing.T) {
	stub := &stubRecordsRepo{}
	r, err := NewRefresher(RefresherConfig{Records: stub, Store: snapshot.NewStore(), Interval: 20 * time.Millisecond})
	assert.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	deadline := time.After(3 * time.Second)
	for stub.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("refresher never ticked")
		case <-time.After(10 * time.Millisecond):
		}
	}
	r.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err, "Stop should end the loop cleanly")
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRefresher(RefresherConfig{Records: &stubRecordsRepo{}, Store: snapshot.NewStore(), Interval: time.Hour})
	assert.NoError(t, err)

	err = r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "cancelled context should surface")
}
