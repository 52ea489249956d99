package prediction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/i474232898/temperature-prediction/internal/tabular"
)

const (
	// TimestampColumn holds the observation time of each batch row.
	TimestampColumn = "timestamp"

	// InputTimestampLayout is YYYYMMDDTHHMM, e.g. 20240115T1300.
	InputTimestampLayout = "20060102T1504"
	// OutputTimestampLayout is DD/MM/YYYY HH:MM.
	OutputTimestampLayout = "02/01/2006 15:04"
)

// SourceColumns maps the column headers of exported weather files to the
// features they carry.
var SourceColumns = [NumFeatures]struct {
	Column  string
	Feature Feature
}{
	{"Precipitation Total", Precipitation},
	{"Relative Humidity [2 m]", Humidity},
	{"Wind Gust", WindGust},
	{"Wind Speed [100 m]", WindSpeed},
	{"Cloud Cover Total", CloudCover},
	{"Mean Sea Level Pressure [MSL]", Pressure},
}

// BatchProcessor runs the single-row pipeline over every row of a table.
//
// A batch is all-or-nothing: the first failing row aborts the whole batch
// and no records are returned.
type BatchProcessor struct {
	pipeline *Pipeline
}

// NewBatchProcessor creates a BatchProcessor on top of a pipeline.
func NewBatchProcessor(p *Pipeline) *BatchProcessor {
	return &BatchProcessor{pipeline: p}
}

// ProcessFile detects the format from filename, parses r and processes the
// rows. An unsupported extension fails before r is read.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filename string, r io.Reader) ([]PredictionRecord, error) {
	parser, err := tabular.ForFile(filename)
	if err != nil {
		return nil, &Error{Op: "prediction.process_file", Kind: KindUnsupportedFormat, Field: filename, Err: err}
	}

	rows, err := parser.Parse(r)
	if err != nil {
		kind := KindParse
		if errors.Is(err, tabular.ErrUnsupportedFormat) {
			kind = KindUnsupportedFormat
		}
		return nil, &Error{Op: "prediction.process_file", Kind: kind, Field: filename, Err: err}
	}

	return b.Process(ctx, rows)
}

// Process returns one record per row, in row order.
func (b *BatchProcessor) Process(ctx context.Context, rows []tabular.Row) ([]PredictionRecord, error) {
	records := make([]PredictionRecord, 0, len(rows))
	for i, row := range rows {
		rowNum := row.Index
		if rowNum <= 0 {
			rowNum = i + 1
		}

		rec, err := b.processRow(ctx, row, rowNum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (b *BatchProcessor) processRow(ctx context.Context, row tabular.Row, rowNum int) (PredictionRecord, error) {
	fv, err := FeaturesFromRow(row, rowNum)
	if err != nil {
		return PredictionRecord{}, err
	}

	ts, err := FormatTimestamp(row, rowNum)
	if err != nil {
		return PredictionRecord{}, err
	}

	temp, err := b.pipeline.PredictFromInput(ctx, fv)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) && pe.Row == 0 {
			pe.Row = rowNum
		}
		return PredictionRecord{}, err
	}

	return PredictionRecord{Timestamp: ts, Temperature: temp}, nil
}

// FeaturesFromRow reads the six source columns of a row.
func FeaturesFromRow(row tabular.Row, rowNum int) (FeatureVector, error) {
	var raw [NumFeatures]float64
	for _, sc := range SourceColumns {
		cell, ok := row.Get(sc.Column)
		if !ok || strings.TrimSpace(cell) == "" {
			return FeatureVector{}, &Error{
				Op:    "prediction.read_row",
				Kind:  KindParse,
				Field: sc.Column,
				Row:   rowNum,
				Err:   fmt.Errorf("missing value"),
			}
		}
		n, err := parseNumber(cell)
		if err != nil {
			return FeatureVector{}, &Error{
				Op:    "prediction.read_row",
				Kind:  KindParse,
				Field: sc.Column,
				Row:   rowNum,
				Err:   err,
			}
		}
		raw[sc.Feature] = n
	}
	return featureVectorFrom(raw), nil
}

// FormatTimestamp parses the row timestamp and renders it as DD/MM/YYYY HH:MM.
func FormatTimestamp(row tabular.Row, rowNum int) (string, error) {
	cell, ok := row.Get(TimestampColumn)
	if !ok {
		return "", &Error{
			Op:    "prediction.read_row",
			Kind:  KindParse,
			Field: TimestampColumn,
			Row:   rowNum,
			Err:   fmt.Errorf("missing value"),
		}
	}
	ts, err := time.Parse(InputTimestampLayout, strings.TrimSpace(cell))
	if err != nil {
		return "", &Error{
			Op:    "prediction.read_row",
			Kind:  KindParse,
			Field: TimestampColumn,
			Row:   rowNum,
			Err:   fmt.Errorf("%q does not match YYYYMMDDTHHMM", cell),
		}
	}
	return ts.Format(OutputTimestampLayout), nil
}
