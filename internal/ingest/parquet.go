package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/pkg/grid"
)

// priceParquetRow is the Parquet column layout for price observations.
// Region and market are load parameters, not file columns, so one file can be
// replayed into several regions.
type priceParquetRow struct {
	NodeID        *string  `parquet:"name=node_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Timestamp     int64    `parquet:"name=timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	LmpTotal      float64  `parquet:"name=lmp_total, type=DOUBLE"`
	LmpEnergy     *float64 `parquet:"name=lmp_energy, type=DOUBLE, repetitiontype=OPTIONAL"`
	LmpCongestion *float64 `parquet:"name=lmp_congestion, type=DOUBLE, repetitiontype=OPTIONAL"`
	LmpLoss       *float64 `parquet:"name=lmp_loss, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// LoadPricesParquet loads price observations from a Parquet file. Column
// names are fixed by the priceParquetRow schema; rename columns when
// converting, not here. Rows without a node identifier are skipped.
func (l *Loader) LoadPricesParquet(ctx context.Context, path, region string, opts ...LoadOption) (int, error) {
	options := applyLoadOptions(opts)
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return 0, fmt.Errorf("ingest: open parquet %s: %w", path, err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(priceParquetRow), 1)
	if err != nil {
		return 0, fmt.Errorf("ingest: read parquet schema %s: %w", path, err)
	}
	defer pr.ReadStop()

	remaining := int(pr.GetNumRows())
	total := 0
	skipped := 0
	for remaining > 0 {
		n := priceBatchSize
		if remaining < n {
			n = remaining
		}
		rows := make([]priceParquetRow, n)
		if err := pr.Read(&rows); err != nil {
			return total, fmt.Errorf("ingest: read parquet %s: %w", path, err)
		}
		remaining -= n

		batch := make([]grid.PriceSample, 0, len(rows))
		for _, row := range rows {
			if row.NodeID == nil || *row.NodeID == "" {
				skipped++
				continue
			}
			batch = append(batch, grid.PriceSample{
				NodeID:     *row.NodeID,
				At:         time.UnixMilli(row.Timestamp).UTC(),
				Market:     options.market,
				Total:      row.LmpTotal,
				Energy:     row.LmpEnergy,
				Congestion: row.LmpCongestion,
				Loss:       row.LmpLoss,
				Region:     region,
			})
		}
		if err := l.sink.UpsertSamples(ctx, batch); err != nil {
			return total, err
		}
		total += len(batch)
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: parquet load skipped %d rows without node_id in %s", skipped, path)
	}
	return total, nil
}

// ConvertPricesCSV rewrites a price CSV as snappy-compressed Parquet for
// repeated fast loads. Column renames from WithColumnMap apply to the CSV
// header; the output always carries the priceParquetRow schema.
func ConvertPricesCSV(csvPath, parquetPath string, opts ...LoadOption) (int, error) {
	options := applyLoadOptions(opts)
	file, err := openCSV(csvPath, options.columnMap)
	if err != nil {
		return 0, err
	}
	defer file.close()
	if err := file.requireColumns("node_id", "timestamp", "lmp_total"); err != nil {
		return 0, err
	}

	fw, err := local.NewLocalFileWriter(parquetPath)
	if err != nil {
		return 0, fmt.Errorf("ingest: create parquet %s: %w", parquetPath, err)
	}
	pw, err := writer.NewParquetWriter(fw, new(priceParquetRow), 1)
	if err != nil {
		fw.Close()
		return 0, fmt.Errorf("ingest: new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	count := 0
	for {
		fields, err := file.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			pw.WriteStop()
			fw.Close()
			return count, fmt.Errorf("ingest: read %s: %w", csvPath, err)
		}
		nodeID := file.get(fields, "node_id")
		at, atErr := parseTimestamp(file.get(fields, "timestamp"))
		lmp, lmpOK := file.getFloat(fields, "lmp_total")
		if nodeID == "" || atErr != nil || !lmpOK {
			continue
		}
		row := priceParquetRow{
			NodeID:    &nodeID,
			Timestamp: at.UnixMilli(),
			LmpTotal:  lmp,
		}
		if v, ok := file.getFloat(fields, "lmp_energy"); ok {
			row.LmpEnergy = &v
		}
		if v, ok := file.getFloat(fields, "lmp_congestion"); ok {
			row.LmpCongestion = &v
		}
		if v, ok := file.getFloat(fields, "lmp_loss"); ok {
			row.LmpLoss = &v
		}
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			fw.Close()
			return count, fmt.Errorf("ingest: write parquet row: %w", err)
		}
		count++
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return count, fmt.Errorf("ingest: finalize parquet %s: %w", parquetPath, err)
	}
	if err := fw.Close(); err != nil {
		return count, fmt.Errorf("ingest: close parquet %s: %w", parquetPath, err)
	}
	return count, nil
}
