package svc_test

import (
	"path/filepath"
	"testing"
	"time"

	"gridscope-api/internal/config"
	"gridscope-api/internal/svc"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

func testConfig() config.Config {
	return config.Config{
		Env: "test",
		TTL: config.CacheTTL{Short: 10, Medium: 60, Long: 300},
		Snapshot: config.SnapshotConf{
			RefreshSec:       60,
			PriceLookbackSec: 7200,
			RetentionHours:   168,
		},
	}
}

// Without Postgres, Redis, or an upstream section the context still has to
// come up: the store and response cache exist, storage handles stay nil.
func TestNewServiceContextMinimal(t *testing.T) {
	c := testConfig()
	svcCtx := svc.NewServiceContext(c, filepath.Join(t.TempDir(), "gridscope.yaml"))

	if svcCtx.Store == nil {
		t.Fatal("expected snapshot store to be constructed")
	}
	if _, err := svcCtx.Store.Current(); err == nil {
		t.Error("expected empty store to report unavailable")
	}
	if svcCtx.ResponseCache == nil {
		t.Error("expected response cache to be constructed")
	}
	if svcCtx.DBConn != nil {
		t.Error("expected no database connection without postgres config")
	}
	if svcCtx.Repos != nil || svcCtx.Refresher != nil {
		t.Error("expected repositories and refresher to stay nil without postgres")
	}
	if svcCtx.Records != nil {
		t.Error("expected persistence service to stay nil without postgres")
	}
	if svcCtx.TTL.Medium != 60*time.Second {
		t.Errorf("TTL.Medium = %v, want 60s", svcCtx.TTL.Medium)
	}
}

func TestNewServiceContextPreloadsCheckpoint(t *testing.T) {
	dir := t.TempDir()
	records := &snapshot.Records{
		Assets: []grid.Asset{{
			AssetID:    "PJM_0001",
			Name:       "Brandon Shores",
			Fuel:       grid.FuelCoal,
			CapacityMW: 1273,
			Lat:        39.18,
			Lon:        -76.53,
			Region:     "PJM",
		}},
		Nodes: []grid.PricingNode{{
			NodeID: "PJM_NODE_1",
			Name:   "Brandon Shores Node",
			Kind:   "generator",
			Region: "PJM",
		}},
	}
	if err := snapshot.SaveCheckpoint(filepath.Join(dir, "checkpoint.bin"), records); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	c := testConfig()
	// Relative to the main config file's directory, like production configs.
	c.Snapshot.CheckpointPath = "checkpoint.bin"
	svcCtx := svc.NewServiceContext(c, filepath.Join(dir, "gridscope.yaml"))

	snap, err := svcCtx.Store.Current()
	if err != nil {
		t.Fatalf("expected preloaded snapshot, got error: %v", err)
	}
	counts := snap.Counts()
	if counts.Assets != 1 || counts.Nodes != 1 {
		t.Errorf("counts = %+v, want 1 asset and 1 node", counts)
	}
	if _, ok := snap.AssetByID("PJM_0001"); !ok {
		t.Error("preloaded asset not queryable by id")
	}
}

func TestNewServiceContextMissingCheckpointIsFine(t *testing.T) {
	c := testConfig()
	c.Snapshot.CheckpointPath = "does-not-exist.bin"
	svcCtx := svc.NewServiceContext(c, filepath.Join(t.TempDir(), "gridscope.yaml"))

	if _, err := svcCtx.Store.Current(); err == nil {
		t.Error("expected store to stay empty when no checkpoint file exists")
	}
}
