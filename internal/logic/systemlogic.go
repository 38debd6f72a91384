package logic

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/repo"
	"gridscope-api/internal/svc"
	"gridscope-api/internal/types"
	"gridscope-api/pkg/resolver"
)

type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Health reports liveness plus the serving snapshot's version. It never
// fails: a process that has not published yet is "starting", not broken.
func (l *HealthLogic) Health() (*types.HealthResp, error) {
	resp := &types.HealthResp{Status: "starting"}

	if snap := l.svcCtx.Store.Peek(); snap != nil {
		resp.Status = "healthy"
		resp.SnapshotVersion = snap.Version()
		resp.BuiltAt = snap.BuiltAt().UTC().Format(time.RFC3339)
		counts := snap.Counts()
		resp.Counts = &types.SnapshotCounts{
			Assets:  counts.Assets,
			Outages: counts.Outages,
			Nodes:   counts.Nodes,
			Samples: counts.Samples,
			Zones:   counts.Zones,
		}
	}

	// Cluster-level refresh metadata, when Redis carries it.
	var meta repo.Meta
	if l.svcCtx.ResponseCache.Get(l.ctx, cachekeys.SnapshotMetaKey(), &meta) {
		resp.RefreshedBy = meta.RefreshedBy
	}
	return resp, nil
}

type MapConfigLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMapConfigLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MapConfigLogic {
	return &MapConfigLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// MapConfig hands map clients their presentation defaults plus the regions
// present in the serving data set.
func (l *MapConfigLogic) MapConfig() (*types.MapConfigResp, error) {
	m := l.svcCtx.Config.Map
	resp := &types.MapConfigResp{
		Center:     types.MapCenter{Lat: m.CenterLat, Lon: m.CenterLon},
		Zoom:       m.Zoom,
		MaxAssets:  m.MaxAssets,
		ISORegions: []string{},
	}
	if snap := l.svcCtx.Store.Peek(); snap != nil {
		resp.ISORegions = resolver.Regions(snap)
	}
	return resp, nil
}
