package ingest

import (
	"fmt"
	"strings"
	"time"

	"gridscope-api/pkg/grid"
)

// Loader reads grid data files and forwards normalized records to a Sink.
// Loads are resumable: records are keyed by business ID, so re-running a load
// after a partial failure converges on the same state.
type Loader struct {
	sink Sink
}

// NewLoader constructs a loader. A nil sink is replaced with a no-op sink so
// dry runs can exercise parsing without a database.
func NewLoader(sink Sink) *Loader {
	if sink == nil {
		sink = NewNoopSink()
	}
	return &Loader{sink: sink}
}

// priceBatchSize bounds memory while loading large price files.
const priceBatchSize = 10000

type loadOptions struct {
	columnMap map[string]string
	market    grid.Market
}

// LoadOption customises a tabular load.
type LoadOption func(*loadOptions)

// WithColumnMap renames source columns to the expected canonical names.
func WithColumnMap(columnMap map[string]string) LoadOption {
	return func(o *loadOptions) {
		o.columnMap = columnMap
	}
}

// WithMarket sets the market type for price loads. Defaults to day-ahead.
func WithMarket(market grid.Market) LoadOption {
	return func(o *loadOptions) {
		o.market = market
	}
}

func applyLoadOptions(opts []LoadOption) loadOptions {
	options := loadOptions{market: grid.MarketDAM}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// fuelAliases maps the fuel labels upstream files use to canonical categories.
var fuelAliases = map[string]grid.Fuel{
	"coal":          grid.FuelCoal,
	"natural gas":   grid.FuelNaturalGas,
	"gas":           grid.FuelNaturalGas,
	"ng":            grid.FuelNaturalGas,
	"nuclear":       grid.FuelNuclear,
	"hydro":         grid.FuelHydro,
	"hydroelectric": grid.FuelHydro,
	"wind":          grid.FuelWind,
	"solar":         grid.FuelSolar,
	"oil":           grid.FuelOil,
	"petroleum":     grid.FuelOil,
	"biomass":       grid.FuelBiomass,
	"geothermal":    grid.FuelGeothermal,
	"battery":       grid.FuelBattery,
	"storage":       grid.FuelBattery,
}

func normalizeFuel(raw string) grid.Fuel {
	if fuel, ok := fuelAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return fuel
	}
	return grid.FuelOther
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the formats outage and price feeds commonly use.
// Layouts without a zone are interpreted as UTC.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
