// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

import (
	"encoding/json"

	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/resolver"
)

// Request bindings. Query parameters arrive via form tags, path segments via
// path tags. Instants are RFC 3339 strings with an explicit offset; the empty
// string means "now" where the endpoint allows it.

type AssetMapReq struct {
	BBox   string `form:"bbox,optional"`
	Region string `form:"iso_region,optional"`
	Fuel   string `form:"fuel_type,optional"`
	At     string `form:"at_time,optional"`
	Limit  int    `form:"limit,default=5000,range=[1:10000]"`
}

type AssetListReq struct {
	Region string `form:"iso_region,optional"`
	Fuel   string `form:"fuel_type,optional"`
	Zone   string `form:"zone,optional"`
	Limit  int    `form:"limit,default=100,range=[1:1000]"`
	Offset int    `form:"offset,default=0"`
}

type FuelTypesReq struct {
	Region string `form:"iso_region,optional"`
}

type AssetGetReq struct {
	AssetID string `path:"id"`
}

type AssetDetailsReq struct {
	AssetID string `path:"id"`
	At      string `form:"at_time,optional"`
}

type OutageMapReq struct {
	Start    string `form:"start,optional"`
	End      string `form:"end,optional"`
	Region   string `form:"iso_region,optional"`
	Category string `form:"outage_type,optional"`
	Tag      string `form:"status,optional"`
	Limit    int    `form:"limit,default=1000,range=[1:5000]"`
}

type ActiveOutagesReq struct {
	At     string `form:"at_time,optional"`
	Region string `form:"iso_region,optional"`
	Limit  int    `form:"limit,default=1000,range=[1:5000]"`
}

type OutageStatsReq struct {
	At     string `form:"at_time,optional"`
	Region string `form:"iso_region,optional"`
}

type OutageTimelineReq struct {
	Start         string `form:"start"`
	End           string `form:"end"`
	Region        string `form:"iso_region,optional"`
	IntervalHours int    `form:"interval_hours,default=1,range=[1:24]"`
}

type OutageGetReq struct {
	OutageID string `path:"id"`
}

type AssetOutagesReq struct {
	AssetID string `path:"id"`
	Start   string `form:"start,optional"`
	End     string `form:"end,optional"`
	Limit   int    `form:"limit,default=100,range=[1:1000]"`
}

type PricingNodesReq struct {
	BBox   string `form:"bbox,optional"`
	Region string `form:"iso_region,optional"`
	Kind   string `form:"node_type,optional"`
	Limit  int    `form:"limit,default=5000,range=[1:10000]"`
}

type HeatmapReq struct {
	At        string `form:"timestamp"`
	Region    string `form:"iso_region,optional"`
	Market    string `form:"market_type,default=DAM"`
	BBox      string `form:"bbox,optional"`
	Component string `form:"component,default=total"`
}

type TimestampsReq struct {
	Region string `form:"iso_region,optional"`
	Market string `form:"market_type,default=DAM"`
	Start  string `form:"start,optional"`
	End    string `form:"end,optional"`
	Limit  int    `form:"limit,default=100,range=[1:1000]"`
}

type PricingStatsReq struct {
	At     string `form:"timestamp"`
	Region string `form:"iso_region,optional"`
	Market string `form:"market_type,default=DAM"`
}

type NodeGetReq struct {
	NodeID string `path:"id"`
}

type NodeTimeseriesReq struct {
	NodeID string `path:"id"`
	Start  string `form:"start"`
	End    string `form:"end"`
	Market string `form:"market_type,default=DAM"`
}

type ZoneListReq struct {
	Region   string `form:"iso_region,optional"`
	Category string `form:"zone_type,optional"`
}

type ZoneGroupedReq struct {
	Region string `form:"iso_region,optional"`
}

type ZoneContainingReq struct {
	Lat      float64 `form:"lat"`
	Lon      float64 `form:"lon"`
	Category string  `form:"zone_type,optional"`
}

type ZoneGetReq struct {
	ZoneID string `path:"id"`
}

// GeoJSON payloads. Assets, outages and pricing nodes are point features;
// zones carry their stored Polygon/MultiPolygon geometry verbatim.

type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // lon, lat
}

type AssetFeatureProps struct {
	AssetID    string  `json:"asset_id"`
	AssetName  string  `json:"asset_name"`
	FuelType   string  `json:"fuel_type"`
	CapacityMW float64 `json:"capacity_mw"`
	ISORegion  string  `json:"iso_region"`
	Zone       string  `json:"zone,omitempty"`
	Owner      string  `json:"owner,omitempty"`
	Status     string  `json:"status"`
	OutageType string  `json:"outage_type,omitempty"`
}

type AssetFeature struct {
	Type       string            `json:"type"`
	Geometry   PointGeometry     `json:"geometry"`
	Properties AssetFeatureProps `json:"properties"`
}

type AssetCollection struct {
	Type     string         `json:"type"`
	Features []AssetFeature `json:"features"`
}

type OutageFeatureProps struct {
	OutageID            string   `json:"outage_id"`
	AssetID             string   `json:"asset_id"`
	AssetName           string   `json:"asset_name"`
	OutageType          string   `json:"outage_type"`
	Status              string   `json:"status"`
	StartTime           string   `json:"start_time"`
	EndTime             string   `json:"end_time,omitempty"`
	CauseCode           string   `json:"cause_code,omitempty"`
	CapacityReductionMW *float64 `json:"capacity_reduction_mw,omitempty"`
	FuelType            string   `json:"fuel_type"`
	CapacityMW          float64  `json:"capacity_mw"`
}

type OutageFeature struct {
	Type       string             `json:"type"`
	Geometry   PointGeometry      `json:"geometry"`
	Properties OutageFeatureProps `json:"properties"`
}

type OutageCollection struct {
	Type     string          `json:"type"`
	Features []OutageFeature `json:"features"`
}

type NodeFeatureProps struct {
	NodeID    string `json:"node_id"`
	NodeName  string `json:"node_name"`
	NodeType  string `json:"node_type"`
	ISORegion string `json:"iso_region"`
	Zone      string `json:"zone,omitempty"`
}

// NodeFeature geometry is null for nodes reported without coordinates.
type NodeFeature struct {
	Type       string           `json:"type"`
	Geometry   *PointGeometry   `json:"geometry"`
	Properties NodeFeatureProps `json:"properties"`
}

type NodeCollection struct {
	Type     string        `json:"type"`
	Features []NodeFeature `json:"features"`
}

type ZoneFeatureProps struct {
	ZoneID      string  `json:"zone_id"`
	ZoneName    string  `json:"zone_name"`
	ZoneType    string  `json:"zone_type"`
	ISORegion   string  `json:"iso_region"`
	FillColor   string  `json:"fill_color,omitempty"`
	StrokeColor string  `json:"stroke_color,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
}

type ZoneFeature struct {
	Type       string           `json:"type"`
	Geometry   json.RawMessage  `json:"geometry"`
	Properties ZoneFeatureProps `json:"properties"`
}

type ZoneCollection struct {
	Type     string        `json:"type"`
	Features []ZoneFeature `json:"features"`
}

// Listing envelopes.

type AssetListResp struct {
	Items  []grid.Asset `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

type RegionsResp struct {
	Regions []string `json:"regions"`
}

type FuelTypesResp struct {
	Distribution map[grid.Fuel]resolver.FuelBucket `json:"distribution"`
}

type OutageHistoryResp struct {
	Outages []grid.OutageInterval `json:"outages"`
}

type OutageTimelineResp struct {
	Timeline      []resolver.TimelinePoint `json:"timeline"`
	IntervalHours int                      `json:"interval_hours"`
}

type TimestampsResp struct {
	Timestamps []string `json:"timestamps"`
}

type ZoneListResp struct {
	Zones []grid.Zone `json:"zones"`
}

// Service-level payloads.

type SnapshotCounts struct {
	Assets  int `json:"assets"`
	Outages int `json:"outages"`
	Nodes   int `json:"nodes"`
	Samples int `json:"samples"`
	Zones   int `json:"zones"`
}

type HealthResp struct {
	Status          string          `json:"status"`
	SnapshotVersion uint64          `json:"snapshot_version"`
	BuiltAt         string          `json:"built_at,omitempty"`
	RefreshedBy     string          `json:"refreshed_by,omitempty"`
	Counts          *SnapshotCounts `json:"counts,omitempty"`
}

type MapCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type MapConfigResp struct {
	Center     MapCenter `json:"center"`
	Zoom       int       `json:"zoom"`
	MaxAssets  int       `json:"max_assets"`
	ISORegions []string  `json:"iso_regions"`
}
