package gridfeed

import (
	"fmt"
	"time"

	"gridscope-api/pkg/grid"
)

// Wire records mirror the gridfeed JSON payloads. Timestamps arrive as
// RFC 3339 strings; an empty end_time marks an ongoing outage.

// AssetRecord is one generation asset as reported by the feed.
type AssetRecord struct {
	AssetID    string  `json:"asset_id"`
	AssetName  string  `json:"asset_name"`
	FuelType   string  `json:"fuel_type"`
	CapacityMW float64 `json:"capacity_mw"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ISORegion  string  `json:"iso_region"`
	Zone       string  `json:"zone,omitempty"`
	Owner      string  `json:"owner,omitempty"`
}

// OutageRecord is one reported capacity reduction.
type OutageRecord struct {
	OutageID            string   `json:"outage_id"`
	AssetID             string   `json:"asset_id"`
	OutageType          string   `json:"outage_type"`
	StartTime           string   `json:"start_time"`
	EndTime             string   `json:"end_time,omitempty"`
	Status              string   `json:"status"`
	CauseCode           string   `json:"cause_code,omitempty"`
	CauseDescription    string   `json:"cause_description,omitempty"`
	CapacityReductionMW *float64 `json:"capacity_reduction_mw,omitempty"`
}

// NodeRecord is one pricing node directory entry.
type NodeRecord struct {
	NodeID    string   `json:"node_id"`
	NodeName  string   `json:"node_name"`
	NodeType  string   `json:"node_type"`
	ISORegion string   `json:"iso_region"`
	Zone      string   `json:"zone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	AssetID   string   `json:"asset_id,omitempty"`
}

// PriceRecord is one locational price observation.
type PriceRecord struct {
	NodeID        string   `json:"node_id"`
	Timestamp     string   `json:"timestamp"`
	MarketType    string   `json:"market_type"`
	LMPTotal      float64  `json:"lmp_total"`
	LMPEnergy     *float64 `json:"lmp_energy,omitempty"`
	LMPCongestion *float64 `json:"lmp_congestion,omitempty"`
	LMPLoss       *float64 `json:"lmp_loss,omitempty"`
	ISORegion     string   `json:"iso_region"`
}

func (r AssetRecord) toAsset() grid.Asset {
	return grid.Asset{
		AssetID:    r.AssetID,
		Name:       r.AssetName,
		Fuel:       grid.Fuel(r.FuelType),
		CapacityMW: r.CapacityMW,
		Lat:        r.Latitude,
		Lon:        r.Longitude,
		Region:     r.ISORegion,
		Zone:       r.Zone,
		Owner:      r.Owner,
	}
}

func (r OutageRecord) toOutage() (grid.OutageInterval, error) {
	start, err := parseFeedTime(r.StartTime)
	if err != nil {
		return grid.OutageInterval{}, fmt.Errorf("gridfeed: outage %s start_time: %w", r.OutageID, err)
	}
	rec := grid.OutageInterval{
		OutageID:            r.OutageID,
		AssetID:             r.AssetID,
		Category:            grid.OutageCategory(r.OutageType),
		Start:               start,
		Tag:                 grid.OutageTag(r.Status),
		CauseCode:           r.CauseCode,
		CauseDescription:    r.CauseDescription,
		CapacityReductionMW: r.CapacityReductionMW,
	}
	if r.EndTime != "" {
		end, err := parseFeedTime(r.EndTime)
		if err != nil {
			return grid.OutageInterval{}, fmt.Errorf("gridfeed: outage %s end_time: %w", r.OutageID, err)
		}
		rec.End = &end
	}
	return rec, nil
}

func (r NodeRecord) toNode() grid.PricingNode {
	return grid.PricingNode{
		NodeID:  r.NodeID,
		Name:    r.NodeName,
		Kind:    r.NodeType,
		Region:  r.ISORegion,
		Zone:    r.Zone,
		Lat:     r.Latitude,
		Lon:     r.Longitude,
		AssetID: r.AssetID,
	}
}

func (r PriceRecord) toSample() (grid.PriceSample, error) {
	at, err := parseFeedTime(r.Timestamp)
	if err != nil {
		return grid.PriceSample{}, fmt.Errorf("gridfeed: price at node %s timestamp: %w", r.NodeID, err)
	}
	return grid.PriceSample{
		NodeID:     r.NodeID,
		At:         at,
		Market:     grid.Market(r.MarketType),
		Total:      r.LMPTotal,
		Energy:     r.LMPEnergy,
		Congestion: r.LMPCongestion,
		Loss:       r.LMPLoss,
		Region:     r.ISORegion,
	}, nil
}

func parseFeedTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
