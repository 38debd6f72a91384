package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/internal/config"
	"gridscope-api/internal/ingest"
	"gridscope-api/internal/svc"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/journal"
)

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

func main() {
	var (
		configPath  = flag.String("f", "etc/gridscope.yaml", "path to application configuration")
		kind        = flag.String("kind", "", "record kind: assets | outages | nodes | prices | zones | boundaries | convert-prices")
		path        = flag.String("path", "", "source file, local or s3://bucket/key")
		region      = flag.String("region", "", "ISO region the file belongs to (assets, nodes, prices, zones)")
		marketRaw   = flag.String("market", "DAM", "market type for price files: DAM | RTM")
		zoneType    = flag.String("zone-type", string(grid.ZoneLoad), "zone category for geojson zone files")
		parentZone  = flag.String("parent-zone", "", "parent zone id assigned to loaded zones")
		outPath     = flag.String("out", "", "output parquet path for convert-prices")
		journalDir  = flag.String("journal", "journal", "directory for ingest run records")
		s3Region    = flag.String("s3-region", os.Getenv("AWS_REGION"), "region for s3:// sources")
		s3Endpoint  = flag.String("s3-endpoint", os.Getenv("AWS_ENDPOINT_URL"), "custom endpoint for s3:// sources")
		s3PathStyle = flag.Bool("s3-path-style", false, "use path-style addressing for s3:// sources")
	)
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	if *kind == "" {
		fatalf("no record kind provided; use -kind to pick one of assets | outages | nodes | prices | zones | boundaries | convert-prices")
	}
	if *path == "" {
		fatalf("no source file provided; use -path")
	}

	ctx := context.Background()

	if *kind == "convert-prices" {
		if *outPath == "" {
			fatalf("convert-prices needs -out for the parquet destination")
		}
		rows, err := ingest.ConvertPricesCSV(*path, *outPath)
		if err != nil {
			fatalf("convert %s: %v", *path, err)
		}
		logx.Infof("converted %d price rows from %s to %s", rows, *path, *outPath)
		return
	}

	appCfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config %s: %v", *configPath, err)
	}

	svcCtx := svc.NewServiceContext(*appCfg, *configPath)
	var sink ingest.Sink
	if svcCtx.Records != nil {
		sink = svcCtx.Records
	} else {
		logx.Infof("postgres not configured; running a validation pass without storage")
		sink = ingest.NewNoopSink()
	}
	loader := ingest.NewLoader(sink)

	localPath := *path
	if strings.HasPrefix(*path, "s3://") {
		bucket, key, err := ingest.ParseS3Path(*path)
		if err != nil {
			fatalf("parse s3 path: %v", err)
		}
		fetcher, err := ingest.NewS3Fetcher(ctx, ingest.S3Config{
			Region:          *s3Region,
			Endpoint:        *s3Endpoint,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PathStyle:       *s3PathStyle,
		})
		if err != nil {
			fatalf("build s3 fetcher: %v", err)
		}
		fetched, cleanup, err := fetcher.Fetch(ctx, bucket, key)
		if err != nil {
			fatalf("fetch %s: %v", *path, err)
		}
		defer cleanup()
		localPath = fetched
	}

	loaded, err := runLoad(ctx, loader, *kind, localPath, *region, *marketRaw, *zoneType, *parentZone)

	rec := &journal.RunRecord{
		Source:  sourceLabel(*kind, localPath),
		Path:    *path,
		Region:  *region,
		Loaded:  loaded,
		Success: err == nil,
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}
	jw := journal.NewWriter(*journalDir)
	if _, jerr := jw.WriteRun(rec); jerr != nil {
		logx.Errorf("journal write failed: %v", jerr)
	}

	if err != nil {
		fatalf("load %s from %s: %v", *kind, *path, err)
	}
	logx.Infof("loaded %d %s records from %s", loaded, *kind, *path)
}

func runLoad(ctx context.Context, loader *ingest.Loader, kind, path, region, marketRaw, zoneType, parentZone string) (int, error) {
	switch kind {
	case "assets":
		return loader.LoadAssetsCSV(ctx, path, region)
	case "outages":
		return loader.LoadOutagesCSV(ctx, path)
	case "nodes":
		return loader.LoadNodesCSV(ctx, path, region)
	case "prices":
		market, err := grid.ParseMarket(marketRaw)
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(filepath.Ext(path), ".parquet") {
			return loader.LoadPricesParquet(ctx, path, region, ingest.WithMarket(market))
		}
		return loader.LoadPricesCSV(ctx, path, region, ingest.WithMarket(market))
	case "zones":
		category, err := grid.ParseZoneCategory(zoneType)
		if err != nil {
			return 0, err
		}
		var opts []ingest.ZoneOption
		if parentZone != "" {
			opts = append(opts, ingest.WithParentZone(parentZone))
		}
		return loader.LoadZonesGeoJSON(ctx, path, region, category, opts...)
	case "boundaries":
		return loader.LoadBoundariesGeoJSON(ctx, path, nil)
	default:
		return 0, fmt.Errorf("%w: unknown record kind %q", grid.ErrValidation, kind)
	}
}

func sourceLabel(kind, path string) string {
	switch kind {
	case "zones", "boundaries":
		return "geojson"
	case "prices":
		if strings.EqualFold(filepath.Ext(path), ".parquet") {
			return "parquet"
		}
		return "csv"
	default:
		return "csv"
	}
}
