package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/pkg/grid"
)

// csvFile wraps a CSV reader with header-indexed field access. Column renames
// from WithColumnMap are applied to the header before indexing.
type csvFile struct {
	file  *os.File
	r     *csv.Reader
	index map[string]int
}

func openCSV(path string, columnMap map[string]string) (*csvFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	r := csv.NewReader(file)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("ingest: read header %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if mapped, ok := columnMap[name]; ok {
			name = mapped
		}
		index[name] = i
	}
	return &csvFile{file: file, r: r, index: index}, nil
}

func (c *csvFile) close() {
	c.file.Close()
}

// requireColumns fails fast when the header is missing a mandatory column.
func (c *csvFile) requireColumns(names ...string) error {
	for _, name := range names {
		if _, ok := c.index[name]; !ok {
			return fmt.Errorf("%w: missing required column %q", grid.ErrValidation, name)
		}
	}
	return nil
}

func (c *csvFile) next() ([]string, error) {
	return c.r.Read()
}

func (c *csvFile) get(fields []string, name string) string {
	i, ok := c.index[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func (c *csvFile) getFloat(fields []string, name string) (float64, bool) {
	raw := c.get(fields, name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// LoadAssetsCSV loads generation assets from a CSV file. Expected columns:
// asset_id, asset_name, fuel_type, capacity_mw, latitude, longitude, zone, owner.
func (l *Loader) LoadAssetsCSV(ctx context.Context, path, region string, opts ...LoadOption) (int, error) {
	options := applyLoadOptions(opts)
	file, err := openCSV(path, options.columnMap)
	if err != nil {
		return 0, err
	}
	defer file.close()
	if err := file.requireColumns("asset_id", "asset_name", "capacity_mw", "latitude", "longitude"); err != nil {
		return 0, err
	}

	var assets []grid.Asset
	skipped := 0
	for {
		fields, err := file.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		assetID := file.get(fields, "asset_id")
		capacity, capOK := file.getFloat(fields, "capacity_mw")
		lat, latOK := file.getFloat(fields, "latitude")
		lon, lonOK := file.getFloat(fields, "longitude")
		if assetID == "" || !capOK || !latOK || !lonOK {
			skipped++
			continue
		}
		assets = append(assets, grid.Asset{
			AssetID:    assetID,
			Name:       file.get(fields, "asset_name"),
			Fuel:       normalizeFuel(file.get(fields, "fuel_type")),
			CapacityMW: capacity,
			Lat:        lat,
			Lon:        lon,
			Region:     region,
			Zone:       file.get(fields, "zone"),
			Owner:      file.get(fields, "owner"),
		})
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: assets load skipped %d malformed rows in %s", skipped, path)
	}
	if err := l.sink.UpsertAssets(ctx, assets); err != nil {
		return 0, err
	}
	return len(assets), nil
}

// LoadOutagesCSV loads outage intervals from a CSV file. Expected columns:
// outage_id, asset_id, outage_type, start_time, end_time, status, cause_code,
// cause_description, capacity_reduction_mw. An empty end_time marks an
// ongoing outage.
func (l *Loader) LoadOutagesCSV(ctx context.Context, path string, opts ...LoadOption) (int, error) {
	options := applyLoadOptions(opts)
	file, err := openCSV(path, options.columnMap)
	if err != nil {
		return 0, err
	}
	defer file.close()
	if err := file.requireColumns("outage_id", "asset_id", "start_time"); err != nil {
		return 0, err
	}

	var outages []grid.OutageInterval
	skipped := 0
	for {
		fields, err := file.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		outageID := file.get(fields, "outage_id")
		assetID := file.get(fields, "asset_id")
		start, startErr := parseTimestamp(file.get(fields, "start_time"))
		if outageID == "" || assetID == "" || startErr != nil {
			skipped++
			continue
		}
		outage := grid.OutageInterval{
			OutageID:         outageID,
			AssetID:          assetID,
			Category:         outageCategory(file.get(fields, "outage_type")),
			Start:            start,
			Tag:              outageTag(file.get(fields, "status")),
			CauseCode:        file.get(fields, "cause_code"),
			CauseDescription: file.get(fields, "cause_description"),
		}
		if raw := file.get(fields, "end_time"); raw != "" {
			end, err := parseTimestamp(raw)
			if err != nil {
				skipped++
				continue
			}
			outage.End = &end
		}
		if reduction, ok := file.getFloat(fields, "capacity_reduction_mw"); ok {
			outage.CapacityReductionMW = &reduction
		}
		outages = append(outages, outage)
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: outages load skipped %d malformed rows in %s", skipped, path)
	}
	if err := l.sink.UpsertOutages(ctx, outages); err != nil {
		return 0, err
	}
	return len(outages), nil
}

// outageCategory normalises the outage type label; unknown labels fall back to
// forced, the conservative reading for an unclassified capacity loss.
func outageCategory(raw string) grid.OutageCategory {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "planned":
		return grid.OutagePlanned
	case "maintenance":
		return grid.OutageMaintenance
	case "derate":
		return grid.OutageDerate
	default:
		return grid.OutageForced
	}
}

func outageTag(raw string) grid.OutageTag {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "scheduled":
		return grid.TagScheduled
	case "completed":
		return grid.TagCompleted
	case "cancelled":
		return grid.TagCancelled
	default:
		return grid.TagActive
	}
}

// LoadNodesCSV loads pricing nodes from a CSV file. Expected columns:
// node_id, node_name, node_type, latitude, longitude, zone. Coordinates are
// optional; hubs are commonly reported without a site.
func (l *Loader) LoadNodesCSV(ctx context.Context, path, region string, opts ...LoadOption) (int, error) {
	options := applyLoadOptions(opts)
	file, err := openCSV(path, options.columnMap)
	if err != nil {
		return 0, err
	}
	defer file.close()
	if err := file.requireColumns("node_id", "node_name"); err != nil {
		return 0, err
	}

	var nodes []grid.PricingNode
	skipped := 0
	for {
		fields, err := file.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		nodeID := file.get(fields, "node_id")
		if nodeID == "" {
			skipped++
			continue
		}
		kind := file.get(fields, "node_type")
		if kind == "" {
			kind = "generator"
		}
		node := grid.PricingNode{
			NodeID:  nodeID,
			Name:    file.get(fields, "node_name"),
			Kind:    kind,
			Region:  region,
			Zone:    file.get(fields, "zone"),
			AssetID: file.get(fields, "asset_id"),
		}
		if lat, ok := file.getFloat(fields, "latitude"); ok {
			node.Lat = &lat
		}
		if lon, ok := file.getFloat(fields, "longitude"); ok {
			node.Lon = &lon
		}
		nodes = append(nodes, node)
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: nodes load skipped %d malformed rows in %s", skipped, path)
	}
	if err := l.sink.UpsertNodes(ctx, nodes); err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// LoadPricesCSV loads price observations from a CSV file, batching writes so
// multi-million row files stream through bounded memory. Expected columns:
// node_id, timestamp, lmp_total, lmp_energy, lmp_congestion, lmp_loss.
func (l *Loader) LoadPricesCSV(ctx context.Context, path, region string, opts ...LoadOption) (int, error) {
	options := applyLoadOptions(opts)
	file, err := openCSV(path, options.columnMap)
	if err != nil {
		return 0, err
	}
	defer file.close()
	if err := file.requireColumns("node_id", "timestamp", "lmp_total"); err != nil {
		return 0, err
	}

	total := 0
	skipped := 0
	batch := make([]grid.PriceSample, 0, priceBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.sink.UpsertSamples(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		fields, err := file.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		nodeID := file.get(fields, "node_id")
		at, atErr := parseTimestamp(file.get(fields, "timestamp"))
		lmp, lmpOK := file.getFloat(fields, "lmp_total")
		if nodeID == "" || atErr != nil || !lmpOK {
			skipped++
			continue
		}
		sample := grid.PriceSample{
			NodeID: nodeID,
			At:     at,
			Market: options.market,
			Total:  lmp,
			Region: region,
		}
		if v, ok := file.getFloat(fields, "lmp_energy"); ok {
			sample.Energy = &v
		}
		if v, ok := file.getFloat(fields, "lmp_congestion"); ok {
			sample.Congestion = &v
		}
		if v, ok := file.getFloat(fields, "lmp_loss"); ok {
			sample.Loss = &v
		}
		batch = append(batch, sample)
		if len(batch) >= priceBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: prices load skipped %d malformed rows in %s", skipped, path)
	}
	return total, nil
}
