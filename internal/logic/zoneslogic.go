package logic

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/svc"
	"gridscope-api/internal/types"
	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/zonegraph"
)

type ZoneMapLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneMapLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneMapLogic {
	return &ZoneMapLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ZoneMap returns zone boundaries as a GeoJSON collection. Zones without
// stored geometry are skipped rather than emitted as null features.
func (l *ZoneMapLogic) ZoneMap(req *types.ZoneListReq) (*types.ZoneCollection, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	var category grid.ZoneCategory
	if req.Category != "" {
		category, err = grid.ParseZoneCategory(req.Category)
		if err != nil {
			return nil, err
		}
	}
	zones := zonegraph.Zones(snap, req.Region, category)
	coll := &types.ZoneCollection{
		Type:     "FeatureCollection",
		Features: make([]types.ZoneFeature, 0, len(zones)),
	}
	for _, z := range zones {
		if f, ok := zoneFeature(z); ok {
			coll.Features = append(coll.Features, f)
		}
	}
	return coll, nil
}

type ZoneListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneListLogic {
	return &ZoneListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneListLogic) ZoneList(req *types.ZoneListReq) (*types.ZoneListResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	var category grid.ZoneCategory
	if req.Category != "" {
		category, err = grid.ParseZoneCategory(req.Category)
		if err != nil {
			return nil, err
		}
	}
	zones := zonegraph.Zones(snap, req.Region, category)
	if zones == nil {
		zones = []grid.Zone{}
	}
	return &types.ZoneListResp{Zones: zones}, nil
}

type ZoneGroupedLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneGroupedLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneGroupedLogic {
	return &ZoneGroupedLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneGroupedLogic) ZoneGrouped(req *types.ZoneGroupedReq) (*zonegraph.Grouped, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	cacheKey := cachekeys.BuildKeyWithSuffix(cachekeys.ZonesGroupedKey(), regionOrAll(req.Region))
	var cached zonegraph.Grouped
	if l.svcCtx.ResponseCache.Get(l.ctx, cacheKey, &cached) {
		return &cached, nil
	}
	grouped := zonegraph.GroupedByCategory(snap, req.Region)
	l.svcCtx.ResponseCache.Set(l.ctx, cacheKey, cachekeys.ZonesGroupedTTL(l.svcCtx.TTL), grouped)
	return &grouped, nil
}

type ZoneContainingLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneContainingLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneContainingLogic {
	return &ZoneContainingLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneContainingLogic) ZoneContaining(req *types.ZoneContainingReq) (*types.ZoneListResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	var category grid.ZoneCategory
	if req.Category != "" {
		category, err = grid.ParseZoneCategory(req.Category)
		if err != nil {
			return nil, err
		}
	}
	zones, err := zonegraph.Containing(snap, geo.Point{Lon: req.Lon, Lat: req.Lat}, category)
	if err != nil {
		return nil, err
	}
	if zones == nil {
		zones = []grid.Zone{}
	}
	return &types.ZoneListResp{Zones: zones}, nil
}

type ZoneGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneGetLogic {
	return &ZoneGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneGetLogic) ZoneGet(req *types.ZoneGetReq) (*grid.Zone, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	z, err := zonegraph.ZoneByID(snap, req.ZoneID)
	if err != nil {
		return nil, err
	}
	return &z, nil
}

type ZoneChildrenLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneChildrenLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneChildrenLogic {
	return &ZoneChildrenLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneChildrenLogic) ZoneChildren(req *types.ZoneGetReq) (*types.ZoneListResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	zones, err := zonegraph.Children(snap, req.ZoneID)
	if err != nil {
		return nil, err
	}
	if zones == nil {
		zones = []grid.Zone{}
	}
	return &types.ZoneListResp{Zones: zones}, nil
}

type ZoneAncestorsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneAncestorsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneAncestorsLogic {
	return &ZoneAncestorsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneAncestorsLogic) ZoneAncestors(req *types.ZoneGetReq) (*types.ZoneListResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	zones, err := zonegraph.Ancestors(snap, req.ZoneID)
	if err != nil {
		return nil, err
	}
	if zones == nil {
		zones = []grid.Zone{}
	}
	return &types.ZoneListResp{Zones: zones}, nil
}

type ZoneGeoJSONLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewZoneGeoJSONLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ZoneGeoJSONLogic {
	return &ZoneGeoJSONLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ZoneGeoJSONLogic) ZoneGeoJSON(req *types.ZoneGetReq) (*types.ZoneFeature, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	cacheKey := cachekeys.ZoneGeometryKey(req.ZoneID)
	var cached types.ZoneFeature
	if l.svcCtx.ResponseCache.Get(l.ctx, cacheKey, &cached) {
		return &cached, nil
	}
	z, err := zonegraph.ZoneByID(snap, req.ZoneID)
	if err != nil {
		return nil, err
	}
	f, ok := zoneFeature(z)
	if !ok {
		return nil, fmt.Errorf("%w: zone %s has no geometry", grid.ErrNotFound, req.ZoneID)
	}
	l.svcCtx.ResponseCache.Set(l.ctx, cacheKey, cachekeys.ZoneGeometryTTL(l.svcCtx.TTL), f)
	return &f, nil
}
