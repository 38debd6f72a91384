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

type AssetMapLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssetMapLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssetMapLogic {
	return &AssetMapLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AssetMap lists assets in the viewport as point features with their derived
// status at the requested instant.
func (l *AssetMapLogic) AssetMap(req *types.AssetMapReq) (*types.AssetCollection, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return nil, err
	}
	box, err := parseBBox(req.BBox)
	if err != nil {
		return nil, err
	}

	q := resolver.Query{BBox: box, Region: req.Region, At: at, Limit: req.Limit}
	if req.Fuel != "" {
		if q.Fuel, err = grid.ParseFuel(req.Fuel); err != nil {
			return nil, err
		}
	}

	views, err := resolver.ResolveAssets(snap, q)
	if err != nil {
		return nil, err
	}
	coll := &types.AssetCollection{
		Type:     "FeatureCollection",
		Features: make([]types.AssetFeature, 0, len(views)),
	}
	for _, v := range views {
		coll.Features = append(coll.Features, assetFeature(v))
	}
	return coll, nil
}

type AssetListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssetListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssetListLogic {
	return &AssetListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AssetList pages through assets without status derivation. Total counts the
// region's fleet, not the fuel/zone-narrowed page set.
func (l *AssetListLogic) AssetList(req *types.AssetListReq) (*types.AssetListResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	if req.Offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", grid.ErrValidation)
	}
	var fuel grid.Fuel
	if req.Fuel != "" {
		if fuel, err = grid.ParseFuel(req.Fuel); err != nil {
			return nil, err
		}
	}

	matched := make([]grid.Asset, 0)
	for _, a := range snap.Assets() {
		if req.Region != "" && a.Region != req.Region {
			continue
		}
		if fuel != "" && a.Fuel != fuel {
			continue
		}
		if req.Zone != "" && a.Zone != req.Zone {
			continue
		}
		matched = append(matched, a)
	}

	items := []grid.Asset{}
	if req.Offset < len(matched) {
		end := req.Offset + req.Limit
		if end > len(matched) {
			end = len(matched)
		}
		items = matched[req.Offset:end]
	}
	return &types.AssetListResp{
		Items:  items,
		Total:  resolver.AssetCount(snap, req.Region),
		Limit:  req.Limit,
		Offset: req.Offset,
	}, nil
}

type RegionsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRegionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RegionsLogic {
	return &RegionsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RegionsLogic) Regions() (*types.RegionsResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	return &types.RegionsResp{Regions: resolver.Regions(snap)}, nil
}

type FuelTypesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFuelTypesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FuelTypesLogic {
	return &FuelTypesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FuelTypesLogic) FuelTypes(req *types.FuelTypesReq) (*types.FuelTypesResp, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	return &types.FuelTypesResp{Distribution: resolver.FuelMix(snap, req.Region)}, nil
}

type AssetGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssetGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssetGetLogic {
	return &AssetGetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AssetGetLogic) AssetGet(req *types.AssetGetReq) (*grid.Asset, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	a, err := resolver.AssetByID(snap, req.AssetID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type AssetDetailsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAssetDetailsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AssetDetailsLogic {
	return &AssetDetailsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AssetDetails returns one asset with its derived status and the winning
// outage at the instant, when one is in force.
func (l *AssetDetailsLogic) AssetDetails(req *types.AssetDetailsReq) (*resolver.AssetView, error) {
	snap, err := currentSnapshot(l.svcCtx)
	if err != nil {
		return nil, err
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return nil, err
	}
	view, err := resolver.ResolveAsset(snap, req.AssetID, at)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
