package grid

import (
	"fmt"
	"time"
)

// Core grid domain types shared across the resolver, aggregator and zone
// components. These structures mirror the records supplied by ingestion while
// staying storage-agnostic; every query component reads them from an immutable
// snapshot and never mutates them.

// Fuel categorizes a generation asset by primary fuel.
type Fuel string

const (
	FuelCoal       Fuel = "coal"
	FuelNaturalGas Fuel = "natural_gas"
	FuelNuclear    Fuel = "nuclear"
	FuelHydro      Fuel = "hydro"
	FuelWind       Fuel = "wind"
	FuelSolar      Fuel = "solar"
	FuelOil        Fuel = "oil"
	FuelBiomass    Fuel = "biomass"
	FuelGeothermal Fuel = "geothermal"
	FuelBattery    Fuel = "battery"
	FuelOther      Fuel = "other"
)

// Fuels lists every fuel category in display order.
func Fuels() []Fuel {
	return []Fuel{
		FuelCoal, FuelNaturalGas, FuelNuclear, FuelHydro, FuelWind,
		FuelSolar, FuelOil, FuelBiomass, FuelGeothermal, FuelBattery, FuelOther,
	}
}

// ParseFuel validates a fuel selector against the closed category set.
func ParseFuel(s string) (Fuel, error) {
	for _, f := range Fuels() {
		if Fuel(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown fuel type %q", ErrValidation, s)
}

// OutageCategory distinguishes the kinds of capacity reductions an asset
// reports. The category of the winning interval drives the derived status.
type OutageCategory string

const (
	OutagePlanned     OutageCategory = "planned"
	OutageForced      OutageCategory = "forced"
	OutageMaintenance OutageCategory = "maintenance"
	OutageDerate      OutageCategory = "derate"
)

// ParseOutageCategory validates an outage category selector.
func ParseOutageCategory(s string) (OutageCategory, error) {
	switch OutageCategory(s) {
	case OutagePlanned, OutageForced, OutageMaintenance, OutageDerate:
		return OutageCategory(s), nil
	}
	return "", fmt.Errorf("%w: unknown outage type %q", ErrValidation, s)
}

// OutageTag is the upstream-reported lifecycle tag on an outage record. It is
// advisory metadata only: whether an outage is in force at an instant is
// always derived from the interval bounds, never from this tag, because the
// tag may be stale relative to a requested historical instant.
type OutageTag string

const (
	TagActive    OutageTag = "active"
	TagScheduled OutageTag = "scheduled"
	TagCompleted OutageTag = "completed"
	TagCancelled OutageTag = "cancelled"
)

// ParseOutageTag validates a lifecycle tag selector.
func ParseOutageTag(s string) (OutageTag, error) {
	switch OutageTag(s) {
	case TagActive, TagScheduled, TagCompleted, TagCancelled:
		return OutageTag(s), nil
	}
	return "", fmt.Errorf("%w: unknown outage status %q", ErrValidation, s)
}

// AssetStatus is the derived operating status of an asset at an instant.
type AssetStatus string

const (
	StatusAvailable          AssetStatus = "available"
	StatusDerated            AssetStatus = "derated"
	StatusForcedOutage       AssetStatus = "forced_outage"
	StatusPlannedMaintenance AssetStatus = "planned_maintenance"
)

// StatusFor maps the winning outage category to the derived asset status.
// A nil winner means no outage covers the instant and the asset is available.
func StatusFor(c *OutageCategory) AssetStatus {
	if c == nil {
		return StatusAvailable
	}
	switch *c {
	case OutageDerate:
		return StatusDerated
	case OutageForced:
		return StatusForcedOutage
	case OutagePlanned, OutageMaintenance:
		return StatusPlannedMaintenance
	default:
		return StatusAvailable
	}
}

// Market identifies the settlement market a price sample belongs to.
type Market string

const (
	MarketDAM Market = "DAM" // day-ahead
	MarketRTM Market = "RTM" // real-time
)

// ParseMarket validates a market selector. The empty string selects the
// day-ahead market.
func ParseMarket(s string) (Market, error) {
	switch Market(s) {
	case "":
		return MarketDAM, nil
	case MarketDAM, MarketRTM:
		return Market(s), nil
	}
	return "", fmt.Errorf("%w: unknown market type %q", ErrValidation, s)
}

// Component selects one locational price component.
type Component string

const (
	ComponentTotal      Component = "total"
	ComponentEnergy     Component = "energy"
	ComponentCongestion Component = "congestion"
	ComponentLoss       Component = "loss"
)

// ParseComponent validates a component selector. The empty string selects
// total; anything outside the fixed set is a caller error.
func ParseComponent(s string) (Component, error) {
	switch Component(s) {
	case "":
		return ComponentTotal, nil
	case ComponentTotal, ComponentEnergy, ComponentCongestion, ComponentLoss:
		return Component(s), nil
	}
	return "", fmt.Errorf("%w: unknown price component %q", ErrValidation, s)
}

// ZoneCategory is the closed set of zone kinds. Keeping it closed lets every
// dispatch over categories be an exhaustive switch.
type ZoneCategory string

const (
	ZoneISOBoundary      ZoneCategory = "iso_boundary"
	ZoneLoad             ZoneCategory = "load_zone"
	ZoneTransmission     ZoneCategory = "transmission_zone"
	ZoneSettlement       ZoneCategory = "settlement_zone"
	ZonePricing          ZoneCategory = "pricing_zone"
	ZoneReserve          ZoneCategory = "reserve_zone"
)

// ZoneCategories lists every zone category.
func ZoneCategories() []ZoneCategory {
	return []ZoneCategory{
		ZoneISOBoundary, ZoneLoad, ZoneTransmission,
		ZoneSettlement, ZonePricing, ZoneReserve,
	}
}

// ParseZoneCategory validates a zone category string for loaders and flags.
func ParseZoneCategory(s string) (ZoneCategory, error) {
	for _, c := range ZoneCategories() {
		if ZoneCategory(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown zone category %q", ErrValidation, s)
}

// Asset is a generation unit with a fixed point location. Read-only to the
// query components; administrative corrections happen upstream.
type Asset struct {
	AssetID    string  `json:"asset_id" msgpack:"asset_id"`
	Name       string  `json:"asset_name" msgpack:"asset_name"`
	Fuel       Fuel    `json:"fuel_type" msgpack:"fuel_type"`
	CapacityMW float64 `json:"capacity_mw" msgpack:"capacity_mw"`
	Lat        float64 `json:"latitude" msgpack:"latitude"`
	Lon        float64 `json:"longitude" msgpack:"longitude"`
	Region     string  `json:"iso_region" msgpack:"iso_region"`
	Zone       string  `json:"zone,omitempty" msgpack:"zone"`
	Owner      string  `json:"owner,omitempty" msgpack:"owner"`
}

// OutageInterval is one time-bounded capacity reduction for an asset. The
// span is half-open [Start, End); a nil End means the outage is ongoing and
// covers every instant at or after Start. Multiple intervals may overlap for
// one asset (a derate nested in a longer planned window is common).
type OutageInterval struct {
	OutageID            string         `json:"outage_id" msgpack:"outage_id"`
	AssetID             string         `json:"asset_id" msgpack:"asset_id"`
	Category            OutageCategory `json:"outage_type" msgpack:"outage_type"`
	Start               time.Time      `json:"start_time" msgpack:"start_time"`
	End                 *time.Time     `json:"end_time,omitempty" msgpack:"end_time"`
	Tag                 OutageTag      `json:"status" msgpack:"status"`
	CauseCode           string         `json:"cause_code,omitempty" msgpack:"cause_code"`
	CauseDescription    string         `json:"cause_description,omitempty" msgpack:"cause_description"`
	CapacityReductionMW *float64       `json:"capacity_reduction_mw,omitempty" msgpack:"capacity_reduction_mw"`
}

// Covers reports whether the interval is in force at t under half-open
// semantics: Start <= t and (End absent or t < End).
func (o OutageInterval) Covers(t time.Time) bool {
	if t.Before(o.Start) {
		return false
	}
	return o.End == nil || t.Before(*o.End)
}

// Overlaps reports whether the interval intersects the closed range [t0, t1].
func (o OutageInterval) Overlaps(t0, t1 time.Time) bool {
	if o.Start.After(t1) {
		return false
	}
	return o.End == nil || !o.End.Before(t0)
}

// PriceSample is one locational price observation. Append-only upstream;
// (NodeID, At, Market) is logically unique. Total is always present, the
// decomposed components may be absent.
type PriceSample struct {
	NodeID     string    `json:"node_id" msgpack:"node_id"`
	At         time.Time `json:"timestamp" msgpack:"timestamp"`
	Market     Market    `json:"market_type" msgpack:"market_type"`
	Total      float64   `json:"lmp_total" msgpack:"lmp_total"`
	Energy     *float64  `json:"lmp_energy,omitempty" msgpack:"lmp_energy"`
	Congestion *float64  `json:"lmp_congestion,omitempty" msgpack:"lmp_congestion"`
	Loss       *float64  `json:"lmp_loss,omitempty" msgpack:"lmp_loss"`
	Region     string    `json:"iso_region" msgpack:"iso_region"`
}

// Value extracts the requested component. The second return is false when
// the sample does not carry that component.
func (p PriceSample) Value(c Component) (float64, bool) {
	switch c {
	case ComponentTotal, "":
		return p.Total, true
	case ComponentEnergy:
		if p.Energy != nil {
			return *p.Energy, true
		}
	case ComponentCongestion:
		if p.Congestion != nil {
			return *p.Congestion, true
		}
	case ComponentLoss:
		if p.Loss != nil {
			return *p.Loss, true
		}
	}
	return 0, false
}

// PricingNode is a settlement location prices are reported against. Nodes
// without coordinates exist (aggregated hubs reported without a site) and are
// excluded from spatial queries.
type PricingNode struct {
	NodeID  string   `json:"node_id" msgpack:"node_id"`
	Name    string   `json:"node_name" msgpack:"node_name"`
	Kind    string   `json:"node_type" msgpack:"node_type"` // hub, zone, generator, load
	Region  string   `json:"iso_region" msgpack:"iso_region"`
	Zone    string   `json:"zone,omitempty" msgpack:"zone"`
	Lat     *float64 `json:"latitude,omitempty" msgpack:"latitude"`
	Lon     *float64 `json:"longitude,omitempty" msgpack:"longitude"`
	AssetID string   `json:"asset_id,omitempty" msgpack:"asset_id"` // co-located asset, if any
}

// Located reports whether the node carries usable coordinates.
func (n PricingNode) Located() bool {
	return n.Lat != nil && n.Lon != nil
}

// Zone is a named boundary polygon. ParentID links zones into a forest; the
// data is not guaranteed acyclic, so ancestry walks must be depth-bounded.
// Styling fields are passthrough for presentation and carry no semantics.
type Zone struct {
	ZoneID      string       `json:"zone_id" msgpack:"zone_id"`
	Name        string       `json:"zone_name" msgpack:"zone_name"`
	Category    ZoneCategory `json:"zone_type" msgpack:"zone_type"`
	Region      string       `json:"iso_region" msgpack:"iso_region"`
	ParentID    string       `json:"parent_zone_id,omitempty" msgpack:"parent_zone_id"`
	Description string       `json:"description,omitempty" msgpack:"description"`
	FillColor   string       `json:"fill_color,omitempty" msgpack:"fill_color"`
	StrokeColor string       `json:"stroke_color,omitempty" msgpack:"stroke_color"`
	FillOpacity float64      `json:"fill_opacity,omitempty" msgpack:"fill_opacity"`
	Geometry    string       `json:"-" msgpack:"geometry"` // GeoJSON Polygon or MultiPolygon
}
