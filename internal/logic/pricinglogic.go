package logic

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/svc"
	"gridscope-api/internal/types"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/pricing"
)

type PricingNodesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPricingNodesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PricingNodesLogic {
	return &PricingNodesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PricingNodesLogic) PricingNodes(req *types.PricingNodesReq) (*types.NodeCollection, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	box, err := parseBBox(req.BBox)
	if err != nil {
		return nil, err
	}
	nodes, err := pricing.Nodes(snap, pricing.NodesQuery{
		Region: req.Region,
		Kind:   req.Kind,
		BBox:   box,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, err
	}
	coll := &types.NodeCollection{
		Type:     "FeatureCollection",
		Features: make([]types.NodeFeature, 0, len(nodes)),
	}
	for _, n := range nodes {
		coll.Features = append(coll.Features, nodeFeature(n))
	}
	return coll, nil
}

type HeatmapLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHeatmapLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HeatmapLogic {
	return &HeatmapLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Heatmap builds the normalized price surface at the instant. Viewport-free
// surfaces are cached per region/market/component/instant; bbox queries vary
// per client and go straight to the snapshot.
func (l *HeatmapLogic) Heatmap(req *types.HeatmapReq) (*pricing.Heatmap, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	if req.At == "" {
		return nil, fmt.Errorf("%w: heatmap timestamp required", grid.ErrValidation)
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return nil, err
	}
	market, err := grid.ParseMarket(req.Market)
	if err != nil {
		return nil, err
	}
	component, err := grid.ParseComponent(req.Component)
	if err != nil {
		return nil, err
	}
	box, err := parseBBox(req.BBox)
	if err != nil {
		return nil, err
	}

	cacheKey := ""
	if box == nil {
		cacheKey = cachekeys.BuildKeyWithSuffix(
			cachekeys.HeatmapKey(regionOrAll(req.Region), string(market), string(component)),
			strconv.FormatInt(at.Unix(), 10))
		var cached pricing.Heatmap
		if l.svcCtx.ResponseCache.Get(l.ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	hm, err := pricing.BuildHeatmap(snap, pricing.HeatmapQuery{
		At:        at,
		Component: component,
		Market:    market,
		Region:    req.Region,
		BBox:      box,
		Lookback:  priceLookback(l.svcCtx),
	})
	if err != nil {
		return nil, err
	}
	if cacheKey != "" {
		l.svcCtx.ResponseCache.Set(l.ctx, cacheKey, cachekeys.HeatmapTTL(l.svcCtx.TTL), hm)
	}
	return hm, nil
}

type TimestampsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTimestampsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TimestampsLogic {
	return &TimestampsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TimestampsLogic) Timestamps(req *types.TimestampsReq) (*types.TimestampsResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	market, err := grid.ParseMarket(req.Market)
	if err != nil {
		return nil, err
	}
	t0, err := parseOptionalInstant(req.Start)
	if err != nil {
		return nil, err
	}
	t1, err := parseOptionalInstant(req.End)
	if err != nil {
		return nil, err
	}
	instants := pricing.Instants(snap, market, req.Region, t0, t1, req.Limit)
	out := make([]string, 0, len(instants))
	for _, t := range instants {
		out = append(out, t.UTC().Format(time.RFC3339))
	}
	return &types.TimestampsResp{Timestamps: out}, nil
}

type PricingStatsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPricingStatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PricingStatsLogic {
	return &PricingStatsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PricingStatsLogic) PricingStats(req *types.PricingStatsReq) (*pricing.Stats, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	if req.At == "" {
		return nil, fmt.Errorf("%w: stats timestamp required", grid.ErrValidation)
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return nil, err
	}
	market, err := grid.ParseMarket(req.Market)
	if err != nil {
		return nil, err
	}
	return pricing.SurfaceStats(snap, at, market, req.Region, priceLookback(l.svcCtx))
}

type NodeGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewNodeGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NodeGetLogic {
	return &NodeGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *NodeGetLogic) NodeGet(req *types.NodeGetReq) (*grid.PricingNode, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	n, err := pricing.NodeByID(snap, req.NodeID)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

type NodeTimeseriesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewNodeTimeseriesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NodeTimeseriesLogic {
	return &NodeTimeseriesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *NodeTimeseriesLogic) NodeTimeseries(req *types.NodeTimeseriesReq) (*pricing.Timeseries, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	if req.Start == "" || req.End == "" {
		return nil, fmt.Errorf("%w: series start and end required", grid.ErrValidation)
	}
	t0, err := parseInstant(req.Start)
	if err != nil {
		return nil, err
	}
	t1, err := parseInstant(req.End)
	if err != nil {
		return nil, err
	}
	market, err := grid.ParseMarket(req.Market)
	if err != nil {
		return nil, err
	}
	series, err := pricing.NodeTimeseries(snap, req.NodeID, market, t0, t1)
	if err != nil {
		return nil, err
	}
	if series.Data == nil {
		series.Data = []grid.PriceSample{}
	}
	return series, nil
}
