package logic

import (
	"encoding/json"
	"time"

	"gridscope-api/internal/types"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/resolver"
)

// GeoJSON feature builders. Coordinates are ordered lon, lat.

func assetFeature(v resolver.AssetView) types.AssetFeature {
	props := types.AssetFeatureProps{
		AssetID:    v.AssetID,
		AssetName:  v.Name,
		FuelType:   string(v.Fuel),
		CapacityMW: v.CapacityMW,
		ISORegion:  v.Region,
		Zone:       v.Zone,
		Owner:      v.Owner,
		Status:     string(v.Status),
	}
	if v.Outage != nil {
		props.OutageType = string(v.Outage.Category)
	}
	return types.AssetFeature{
		Type:       "Feature",
		Geometry:   types.PointGeometry{Type: "Point", Coordinates: [2]float64{v.Lon, v.Lat}},
		Properties: props,
	}
}

func outageFeature(v resolver.OutageView) types.OutageFeature {
	props := types.OutageFeatureProps{
		OutageID:            v.OutageID,
		AssetID:             v.AssetID,
		AssetName:           v.AssetName,
		OutageType:          string(v.Category),
		Status:              string(v.Tag),
		StartTime:           v.Start.UTC().Format(time.RFC3339),
		CauseCode:           v.CauseCode,
		CapacityReductionMW: v.CapacityReductionMW,
		FuelType:            string(v.Fuel),
		CapacityMW:          v.CapacityMW,
	}
	if v.End != nil {
		props.EndTime = v.End.UTC().Format(time.RFC3339)
	}
	return types.OutageFeature{
		Type:       "Feature",
		Geometry:   types.PointGeometry{Type: "Point", Coordinates: [2]float64{v.Lon, v.Lat}},
		Properties: props,
	}
}

func nodeFeature(n grid.PricingNode) types.NodeFeature {
	f := types.NodeFeature{
		Type: "Feature",
		Properties: types.NodeFeatureProps{
			NodeID:    n.NodeID,
			NodeName:  n.Name,
			NodeType:  n.Kind,
			ISORegion: n.Region,
			Zone:      n.Zone,
		},
	}
	if n.Located() {
		f.Geometry = &types.PointGeometry{Type: "Point", Coordinates: [2]float64{*n.Lon, *n.Lat}}
	}
	return f
}

// zoneFeature reports ok=false for zones stored without geometry; map
// layers cannot draw them, listings still can.
func zoneFeature(z grid.Zone) (types.ZoneFeature, bool) {
	if z.Geometry == "" {
		return types.ZoneFeature{}, false
	}
	return types.ZoneFeature{
		Type:     "Feature",
		Geometry: json.RawMessage(z.Geometry),
		Properties: types.ZoneFeatureProps{
			ZoneID:      z.ZoneID,
			ZoneName:    z.Name,
			ZoneType:    string(z.Category),
			ISORegion:   z.Region,
			FillColor:   z.FillColor,
			StrokeColor: z.StrokeColor,
			FillOpacity: z.FillOpacity,
		},
	}, true
}
