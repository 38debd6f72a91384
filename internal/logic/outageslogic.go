package logic

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/internal/svc"
	"gridscope-api/internal/types"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/resolver"
)

type OutageMapLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOutageMapLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OutageMapLogic {
	return &OutageMapLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// OutageMap lists outages whose span intersects the requested window as
// point features at their asset's location.
func (l *OutageMapLogic) OutageMap(req *types.OutageMapReq) (*types.OutageCollection, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	from, err := parseOptionalInstant(req.Start)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalInstant(req.End)
	if err != nil {
		return nil, err
	}

	f := resolver.OutageFilter{From: from, To: to, Region: req.Region, Limit: req.Limit}
	if req.Category != "" {
		if f.Category, err = grid.ParseOutageCategory(req.Category); err != nil {
			return nil, err
		}
	}
	if req.Tag != "" {
		if f.Tag, err = grid.ParseOutageTag(req.Tag); err != nil {
			return nil, err
		}
	}

	views, err := resolver.ListOutages(snap, f)
	if err != nil {
		return nil, err
	}
	return outageCollection(views), nil
}

type ActiveOutagesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewActiveOutagesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ActiveOutagesLogic {
	return &ActiveOutagesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ActiveOutagesLogic) ActiveOutages(req *types.ActiveOutagesReq) (*types.OutageCollection, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return nil, err
	}
	views, err := resolver.ActiveOutages(snap, at, req.Region, req.Limit)
	if err != nil {
		return nil, err
	}
	return outageCollection(views), nil
}

type OutageStatsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOutageStatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OutageStatsLogic {
	return &OutageStatsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *OutageStatsLogic) OutageStats(req *types.OutageStatsReq) (*resolver.OutageStats, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return nil, err
	}
	stats, err := resolver.Stats(snap, at, req.Region)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

type OutageTimelineLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOutageTimelineLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OutageTimelineLogic {
	return &OutageTimelineLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *OutageTimelineLogic) OutageTimeline(req *types.OutageTimelineReq) (*types.OutageTimelineResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	if req.Start == "" || req.End == "" {
		return nil, fmt.Errorf("%w: timeline start and end required", grid.ErrValidation)
	}
	t0, err := parseInstant(req.Start)
	if err != nil {
		return nil, err
	}
	t1, err := parseInstant(req.End)
	if err != nil {
		return nil, err
	}
	points, err := resolver.Timeline(snap, t0, t1, req.IntervalHours, req.Region)
	if err != nil {
		return nil, err
	}
	return &types.OutageTimelineResp{Timeline: points, IntervalHours: req.IntervalHours}, nil
}

type OutageGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOutageGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OutageGetLogic {
	return &OutageGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *OutageGetLogic) OutageGet(req *types.OutageGetReq) (*resolver.OutageView, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	view, err := resolver.OutageByID(snap, req.OutageID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

type AssetOutagesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssetOutagesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssetOutagesLogic {
	return &AssetOutagesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AssetOutages returns one asset's outage history, newest start first.
func (l *AssetOutagesLogic) AssetOutages(req *types.AssetOutagesReq) (*types.OutageHistoryResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	from, err := parseOptionalInstant(req.Start)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalInstant(req.End)
	if err != nil {
		return nil, err
	}
	history, err := resolver.OutagesForAsset(snap, req.AssetID, from, to, req.Limit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []grid.OutageInterval{}
	}
	return &types.OutageHistoryResp{Outages: history}, nil
}

func outageCollection(views []resolver.OutageView) *types.OutageCollection {
	coll := &types.OutageCollection{
		Type:     "FeatureCollection",
		Features: make([]types.OutageFeature, 0, len(views)),
	}
	for _, v := range views {
		coll.Features = append(coll.Features, outageFeature(v))
	}
	return coll
}
