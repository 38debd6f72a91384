package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/internal/config"
	"gridscope-api/internal/ingest"
	"gridscope-api/internal/svc"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/journal"
	"gridscope-api/pkg/snapshot"
)

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

// regionSpec describes one ISO footprint: a bounding box the synthetic
// records are scattered over, a hub location and the load zone names that
// subdivide it.
type regionSpec struct {
	centerLat, centerLon float64
	minLat, maxLat       float64
	minLon, maxLon       float64
	color                string
	zones                []string
}

var allRegions = []string{"PJM", "MISO", "SPP", "ERCOT", "NYISO", "ISONE"}

var regionSpecs = map[string]regionSpec{
	"PJM": {
		centerLat: 40.0, centerLon: -77.0,
		minLat: 36.5, maxLat: 42.5, minLon: -82.0, maxLon: -74.0,
		color: "#1f77b4",
		zones: []string{"AEP", "APS", "ATSI", "BGE", "COMED", "DAY", "DEOK", "DOM", "DPL", "DUQ", "EKPC", "JC", "METED", "PECO", "PENELEC", "PPL", "PSEG", "RECO"},
	},
	"MISO": {
		centerLat: 42.0, centerLon: -90.0,
		minLat: 30.0, maxLat: 48.0, minLon: -98.0, maxLon: -82.0,
		color: "#ff7f0e",
		zones: []string{"AMIL", "AMMO", "CLEC", "CONS", "DECO", "EES", "EMBA", "GRE", "IPL", "LGEE", "MEC", "MHEB", "NIPS", "NSP", "OTP", "SMP", "UPPC", "WEC", "WPS"},
	},
	"SPP": {
		centerLat: 36.0, centerLon: -98.0,
		minLat: 30.0, maxLat: 42.0, minLon: -104.0, maxLon: -92.0,
		color: "#2ca02c",
		zones: []string{"AEPW", "GRDA", "KCPL", "LES", "MIDW", "NPPD", "OKGE", "OPPD", "SPS", "SUNC", "WFEC"},
	},
	"ERCOT": {
		centerLat: 31.0, centerLon: -99.0,
		minLat: 26.0, maxLat: 36.5, minLon: -106.5, maxLon: -93.5,
		color: "#d62728",
		zones: []string{"COAST", "EAST", "FWEST", "NORTH", "NCENT", "SCENT", "SOUTH", "WEST"},
	},
	"NYISO": {
		centerLat: 43.0, centerLon: -75.5,
		minLat: 40.5, maxLat: 45.0, minLon: -79.8, maxLon: -71.8,
		color: "#9467bd",
		zones: []string{"CAPITL", "CENTRL", "DUNWOD", "GENESE", "HUD VL", "LONGIL", "MHK VL", "MILLWD", "N.Y.C.", "NORTH", "WEST"},
	},
	"ISONE": {
		centerLat: 42.5, centerLon: -71.5,
		minLat: 41.0, maxLat: 47.5, minLon: -73.5, maxLon: -66.9,
		color: "#8c564b",
		zones: []string{"CT", "ME", "NEMASSBOST", "NH", "RI", "SEMASS", "VT", "WCMASS"},
	},
}

// fuelMix approximates the national generation fleet. Shares sum to 1 and
// drive both fuel selection and the capacity each plant is sized around.
var fuelMix = []struct {
	fuel  grid.Fuel
	share float64
	avgMW float64
}{
	{grid.FuelNaturalGas, 0.40, 500},
	{grid.FuelCoal, 0.15, 600},
	{grid.FuelNuclear, 0.08, 1000},
	{grid.FuelWind, 0.15, 150},
	{grid.FuelSolar, 0.12, 100},
	{grid.FuelHydro, 0.05, 200},
	{grid.FuelOil, 0.02, 100},
	{grid.FuelBattery, 0.02, 50},
	{grid.FuelOther, 0.01, 100},
}

var causeCodes = []string{
	"BOILER", "TURBINE", "GENERATOR", "TRANSFORMER", "COOLING",
	"FUEL", "ENVIRONMENTAL", "GRID", "WEATHER", "PLANNED",
}

var namePrefixes = []string{
	"North", "South", "East", "West", "Central", "River", "Lake", "Valley",
	"Mountain", "Prairie", "Coastal", "Desert", "Forest", "Metro",
}

var nameSuffixes = []string{
	"Energy Center", "Power Station", "Generating Station", "Plant",
	"Generation Facility", "Power Plant", "Energy Facility",
}

var nameNumerals = []string{"", " I", " II", " III", " 1", " 2", " 3", ""}

var owners = []string{
	"NextEra Energy", "Duke Energy", "Southern Company", "Dominion Energy",
	"Exelon Corporation", "American Electric Power", "Xcel Energy",
	"WEC Energy Group", "Entergy Corporation", "FirstEnergy",
	"Vistra Corp", "NRG Energy", "Public Service Enterprise",
	"Edison International", "Ameren Corporation", "Evergy",
}

func main() {
	var (
		configPath = flag.String("f", "etc/gridscope.yaml", "path to application configuration")
		outPath    = flag.String("out", "data/checkpoint.bin", "checkpoint destination")
		regionsRaw = flag.String("regions", strings.Join(allRegions, ","), "comma separated ISO regions to seed")
		perRegion  = flag.Int("assets-per-region", 200, "generator assets per region")
		activeN    = flag.Int("active-outages", 50, "active outages across the data set")
		historyN   = flag.Int("history-outages", 200, "completed outages across the data set")
		priceHours = flag.Int("price-hours", 24, "hours of hourly price history")
		seedVal    = flag.Int64("seed", 0, "random seed, 0 derives one from the clock")
		journalDir = flag.String("journal", "journal", "directory for ingest run records")
		skipDB     = flag.Bool("no-db", false, "skip persisting to postgres even when configured")
	)
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	regions, err := pickRegions(*regionsRaw)
	if err != nil {
		fatalf("%v", err)
	}
	if *seedVal == 0 {
		*seedVal = time.Now().UnixNano()
	}
	g := &generator{rng: rand.New(rand.NewSource(*seedVal)), now: time.Now().UTC()}
	logx.Infof("seeding %s with seed %d", strings.Join(regions, ","), *seedVal)

	records := &snapshot.Records{}
	records.Zones = g.genZones(regions)
	records.Assets = g.genAssets(regions, *perRegion)
	records.Outages = g.genOutages(records.Assets, *activeN, *historyN)
	records.Nodes = g.genNodes(records.Assets, regions)
	records.Samples = g.genSamples(records.Nodes, *priceHours)

	// Assemble once before writing anything; a record set that does not
	// build would poison both the checkpoint and the database.
	snap, err := records.Build()
	if err != nil {
		fatalf("generated records do not assemble: %v", err)
	}
	counts := snap.Counts()

	if err := snapshot.SaveCheckpoint(*outPath, records); err != nil {
		fatalf("write checkpoint %s: %v", *outPath, err)
	}
	logx.Infof("wrote checkpoint %s: %d assets, %d outages, %d nodes, %d samples, %d zones",
		*outPath, counts.Assets, counts.Outages, counts.Nodes, counts.Samples, counts.Zones)

	var persistErr error
	if *skipDB {
		logx.Infof("skipping postgres persist (-no-db)")
	} else if appCfg, err := config.Load(*configPath); err != nil {
		logx.Infof("config %s not loadable (%v); checkpoint only", *configPath, err)
	} else {
		svcCtx := svc.NewServiceContext(*appCfg, *configPath)
		if svcCtx.Records == nil {
			logx.Infof("postgres not configured; checkpoint only")
		} else if persistErr = persist(context.Background(), svcCtx.Records, records); persistErr == nil {
			logx.Infof("persisted seed records to postgres")
		}
	}

	rec := &journal.RunRecord{
		Source:  "seed",
		Path:    *outPath,
		Loaded:  counts.Assets + counts.Outages + counts.Nodes + counts.Samples + counts.Zones,
		Success: persistErr == nil,
		Extra: map[string]any{
			"assets":  counts.Assets,
			"outages": counts.Outages,
			"nodes":   counts.Nodes,
			"samples": counts.Samples,
			"zones":   counts.Zones,
			"seed":    *seedVal,
			"regions": strings.Join(regions, ","),
		},
	}
	if persistErr != nil {
		rec.ErrorMessage = persistErr.Error()
	}
	jw := journal.NewWriter(*journalDir)
	if _, jerr := jw.WriteRun(rec); jerr != nil {
		logx.Errorf("journal write failed: %v", jerr)
	}
	if persistErr != nil {
		fatalf("persist seed records: %v", persistErr)
	}
}

// persist upserts in dependency order so outages find their assets and
// samples find their nodes.
func persist(ctx context.Context, sink ingest.Sink, r *snapshot.Records) error {
	if err := sink.UpsertAssets(ctx, r.Assets); err != nil {
		return err
	}
	if err := sink.UpsertOutages(ctx, r.Outages); err != nil {
		return err
	}
	if err := sink.UpsertNodes(ctx, r.Nodes); err != nil {
		return err
	}
	if err := sink.UpsertSamples(ctx, r.Samples); err != nil {
		return err
	}
	return sink.UpsertZones(ctx, r.Zones)
}

func pickRegions(raw string) ([]string, error) {
	var regions []string
	for _, part := range strings.Split(raw, ",") {
		region := strings.ToUpper(strings.TrimSpace(part))
		if region == "" {
			continue
		}
		if _, ok := regionSpecs[region]; !ok {
			return nil, fmt.Errorf("%w: unknown region %q", grid.ErrValidation, region)
		}
		regions = append(regions, region)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no regions selected", grid.ErrValidation)
	}
	return regions, nil
}

type generator struct {
	rng *rand.Rand
	now time.Time
}

func (g *generator) genZones(regions []string) []grid.Zone {
	var zones []grid.Zone
	for _, region := range regions {
		spec := regionSpecs[region]
		boundaryID := region + "_BOUNDARY"
		zones = append(zones, grid.Zone{
			ZoneID:      boundaryID,
			Name:        region + " ISO/RTO",
			Category:    grid.ZoneISOBoundary,
			Region:      region,
			FillColor:   spec.color,
			StrokeColor: spec.color,
			FillOpacity: 0.15,
			Geometry:    rectGeometry(spec.minLon, spec.minLat, spec.maxLon, spec.maxLat),
		})
		names := spec.zones
		if len(names) > 5 {
			names = names[:5]
		}
		latStep := (spec.maxLat - spec.minLat) / 3
		lonStep := (spec.maxLon - spec.minLon) / 3
		for i, name := range names {
			row := float64(i / 3)
			col := float64(i % 3)
			zones = append(zones, grid.Zone{
				ZoneID:      region + "_" + name,
				Name:        name,
				Category:    grid.ZoneLoad,
				Region:      region,
				ParentID:    boundaryID,
				FillColor:   spec.color,
				StrokeColor: spec.color,
				FillOpacity: 0.25,
				Geometry: rectGeometry(
					spec.minLon+col*lonStep,
					spec.minLat+row*latStep,
					spec.minLon+(col+1)*lonStep,
					spec.minLat+(row+1)*latStep,
				),
			})
		}
	}
	return zones
}

func (g *generator) genAssets(regions []string, perRegion int) []grid.Asset {
	assets := make([]grid.Asset, 0, len(regions)*perRegion)
	id := 1
	for _, region := range regions {
		spec := regionSpecs[region]
		for i := 0; i < perRegion; i++ {
			fuel, avgMW := g.pickFuel()
			capacity := math.Max(10, g.rng.NormFloat64()*avgMW*0.5+avgMW)
			assets = append(assets, grid.Asset{
				AssetID:    fmt.Sprintf("%s_%05d", region, id),
				Name:       g.plantName(),
				Fuel:       fuel,
				CapacityMW: math.Round(capacity*10) / 10,
				Lat:        spec.minLat + g.rng.Float64()*(spec.maxLat-spec.minLat),
				Lon:        spec.minLon + g.rng.Float64()*(spec.maxLon-spec.minLon),
				Region:     region,
				Zone:       spec.zones[g.rng.Intn(len(spec.zones))],
				Owner:      owners[g.rng.Intn(len(owners))],
			})
			id++
		}
	}
	return assets
}

// genOutages marks the first active ones as ongoing now and backdates the
// rest as completed history. Derates reduce a fraction of capacity, every
// other category takes the full plant offline.
func (g *generator) genOutages(assets []grid.Asset, active, history int) []grid.OutageInterval {
	picks := g.rng.Perm(len(assets))
	if len(picks) > active+history {
		picks = picks[:active+history]
	}
	categories := []grid.OutageCategory{grid.OutagePlanned, grid.OutageForced, grid.OutageMaintenance, grid.OutageDerate}
	outages := make([]grid.OutageInterval, 0, len(picks))
	for i, pick := range picks {
		a := assets[pick]
		category := categories[g.rng.Intn(len(categories))]
		reduction := a.CapacityMW
		if category == grid.OutageDerate {
			reduction = a.CapacityMW * (0.2 + g.rng.Float64()*0.3)
		}
		o := grid.OutageInterval{
			OutageID:            fmt.Sprintf("OUT_%06d", i+1),
			AssetID:             a.AssetID,
			Category:            category,
			CauseCode:           causeCodes[g.rng.Intn(len(causeCodes))],
			CapacityReductionMW: &reduction,
		}
		if i < active {
			startOffset := g.rng.Intn(73)
			duration := 24 + g.rng.Intn(145)
			o.Start = g.now.Add(-time.Duration(startOffset) * time.Hour)
			o.Tag = grid.TagActive
			// Only planned work has a published end; forced outages stay
			// open-ended until resolved.
			if category == grid.OutagePlanned {
				end := g.now.Add(time.Duration(duration-startOffset) * time.Hour)
				o.End = &end
			}
		} else {
			daysAgo := 1 + g.rng.Intn(90)
			duration := 6 + g.rng.Intn(67)
			start := g.now.AddDate(0, 0, -daysAgo).Add(-time.Duration(g.rng.Intn(24)) * time.Hour)
			end := start.Add(time.Duration(duration) * time.Hour)
			o.Start = start
			o.End = &end
			o.Tag = grid.TagCompleted
		}
		outages = append(outages, o)
	}
	return outages
}

func (g *generator) genNodes(assets []grid.Asset, regions []string) []grid.PricingNode {
	nodes := make([]grid.PricingNode, 0, len(assets)+len(regions))
	for _, a := range assets {
		lat, lon := a.Lat, a.Lon
		nodes = append(nodes, grid.PricingNode{
			NodeID:  "PN_" + a.AssetID,
			Name:    a.Name + " Node",
			Kind:    "generator",
			Region:  a.Region,
			Zone:    a.Zone,
			Lat:     &lat,
			Lon:     &lon,
			AssetID: a.AssetID,
		})
	}
	for _, region := range regions {
		spec := regionSpecs[region]
		lat, lon := spec.centerLat, spec.centerLon
		nodes = append(nodes, grid.PricingNode{
			NodeID: "HUB_" + region,
			Name:   region + " Hub",
			Kind:   "hub",
			Region: region,
			Lat:    &lat,
			Lon:    &lon,
		})
	}
	return nodes
}

func (g *generator) genSamples(nodes []grid.PricingNode, hours int) []grid.PriceSample {
	samples := make([]grid.PriceSample, 0, len(nodes)*hours)
	base := g.now.Truncate(time.Hour)
	for h := 0; h < hours; h++ {
		ts := base.Add(-time.Duration(hours-h-1) * time.Hour)
		basePrice := g.basePriceFor(ts.Hour())
		for _, n := range nodes {
			energy := round2(basePrice + g.rng.NormFloat64()*5)
			congestion := 0.0
			if g.rng.Float64() > 0.7 {
				congestion = round2(g.rng.NormFloat64() * 3)
			}
			loss := round2(-2 + g.rng.Float64()*4)
			e, c, lo := energy, congestion, loss
			samples = append(samples, grid.PriceSample{
				NodeID:     n.NodeID,
				At:         ts,
				Market:     grid.MarketDAM,
				Total:      round2(energy + congestion + loss),
				Energy:     &e,
				Congestion: &c,
				Loss:       &lo,
				Region:     n.Region,
			})
		}
	}
	return samples
}

// basePriceFor shapes a daily load curve: cheap overnight, a morning ramp,
// a flat midday and an evening peak.
func (g *generator) basePriceFor(hour int) float64 {
	switch {
	case hour >= 6 && hour < 10:
		return 35 + g.rng.Float64()*20
	case hour >= 10 && hour < 15:
		return 40 + g.rng.Float64()*20
	case hour >= 15 && hour < 21:
		return 50 + g.rng.Float64()*30
	default:
		return 20 + g.rng.Float64()*15
	}
}

func (g *generator) pickFuel() (grid.Fuel, float64) {
	r := g.rng.Float64()
	cum := 0.0
	for _, fm := range fuelMix {
		cum += fm.share
		if r <= cum {
			return fm.fuel, fm.avgMW
		}
	}
	last := fuelMix[len(fuelMix)-1]
	return last.fuel, last.avgMW
}

func (g *generator) plantName() string {
	prefix := namePrefixes[g.rng.Intn(len(namePrefixes))]
	suffix := nameSuffixes[g.rng.Intn(len(nameSuffixes))]
	return prefix + " " + suffix + nameNumerals[g.rng.Intn(len(nameNumerals))]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func rectGeometry(minLon, minLat, maxLon, maxLat float64) string {
	return fmt.Sprintf(`{"type":"MultiPolygon","coordinates":[[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]]}`,
		minLon, minLat, maxLon, minLat, maxLon, maxLat, minLon, maxLat, minLon, minLat)
}
