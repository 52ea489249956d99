package prediction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/temperature-prediction/internal/tabular"
)

const batchHeader = "timestamp,Precipitation Total,Relative Humidity [2 m],Wind Gust,Wind Speed [100 m],Cloud Cover Total,Mean Sea Level Pressure [MSL]\n"

func batchCSV(rows ...string) string {
	return batchHeader + strings.Join(rows, "\n") + "\n"
}

func newTestBatch(t *testing.T, p Predictor) *BatchProcessor {
	t.Helper()
	return NewBatchProcessor(NewPipeline(scenarioParams(t), NewEngine(p)))
}

func TestProcessFilePreservesRowOrder(t *testing.T) {
	b := newTestBatch(t, firstColumn)

	doc := batchCSV(
		"20240115T1300,0,50,25,15,50,1010",
		"20240115T1400,5,50,25,15,50,1010",
		"20240115T1500,10,50,25,15,50,1010",
		"20241231T2359,2,50,25,15,50,1010",
	)

	records, err := b.ProcessFile(context.Background(), "obs.csv", strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, records, 4)

	want := []PredictionRecord{
		{Timestamp: "15/01/2024 13:00", Temperature: -10},
		{Timestamp: "15/01/2024 14:00", Temperature: 15},
		{Timestamp: "15/01/2024 15:00", Temperature: 40},
		{Timestamp: "31/12/2024 23:59", Temperature: 0},
	}
	for i, w := range want {
		assert.Equal(t, w.Timestamp, records[i].Timestamp)
		assert.InDelta(t, w.Temperature, records[i].Temperature, 1e-9)
	}
}

func TestProcessFileAbortsOnBadTimestamp(t *testing.T) {
	for k := 1; k <= 3; k++ {
		t.Run(fmt.Sprintf("row %d", k), func(t *testing.T) {
			rows := []string{
				"20240115T1300,1,50,25,15,50,1010",
				"20240115T1400,2,50,25,15,50,1010",
				"20240115T1500,3,50,25,15,50,1010",
			}
			rows[k-1] = strings.Replace(rows[k-1], "T1", "-1", 1)

			records, err := newTestBatch(t, firstColumn).ProcessFile(context.Background(), "obs.csv", strings.NewReader(batchCSV(rows...)))
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, ErrParse))

			var pe *Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, k, pe.Row)
			assert.Equal(t, TimestampColumn, pe.Field)
		})
	}
}

func TestProcessAbortsOnRowFailures(t *testing.T) {
	failOnSecond := 0
	flaky := PredictorFunc(func(_ context.Context, rows [][]float64) ([]float64, error) {
		failOnSecond++
		if failOnSecond == 2 {
			return nil, errors.New("model unavailable")
		}
		return []float64{0.5}, nil
	})

	tests := []struct {
		name string
		p    Predictor
		rows []string
		kind ErrorKind
	}{
		{
			name: "non numeric value",
			p:    firstColumn,
			rows: []string{"20240115T1300,1,50,25,15,50,1010", "20240115T1400,lots,50,25,15,50,1010"},
			kind: KindParse,
		},
		{
			name: "empty cell",
			p:    firstColumn,
			rows: []string{"20240115T1300,1,50,,15,50,1010"},
			kind: KindParse,
		},
		{
			name: "NaN cell",
			p:    firstColumn,
			rows: []string{"20240115T1300,1,50,25,NaN,50,1010"},
			kind: KindParse,
		},
		{
			name: "short row",
			p:    firstColumn,
			rows: []string{"20240115T1300,1,50,25,15"},
			kind: KindParse,
		},
		{
			name: "predictor failure",
			p:    flaky,
			rows: []string{"20240115T1300,1,50,25,15,50,1010", "20240115T1400,1,50,25,15,50,1010", "20240115T1500,1,50,25,15,50,1010"},
			kind: KindInference,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, err := newTestBatch(t, tc.p).ProcessFile(context.Background(), "obs.csv", strings.NewReader(batchCSV(tc.rows...)))
			require.Error(t, err)
			assert.Empty(t, records)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestProcessFileMissingColumn(t *testing.T) {
	doc := "timestamp,Precipitation Total\n20240115T1300,1\n"

	_, err := newTestBatch(t, firstColumn).ProcessFile(context.Background(), "obs.csv", strings.NewReader(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "Relative Humidity [2 m]")
}

// untouchable fails the test if anything reads from it.
type untouchable struct{ t *testing.T }

func (u untouchable) Read([]byte) (int, error) {
	u.t.Errorf("reader must not be read")
	return 0, io.EOF
}

func TestProcessFileUnsupportedFormat(t *testing.T) {
	for _, name := range []string{"obs.txt", "obs.xls", "obs", "obs.json"} {
		t.Run(name, func(t *testing.T) {
			records, err := newTestBatch(t, firstColumn).ProcessFile(context.Background(), name, untouchable{t})
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat))
		})
	}
}

func TestProcessEmptyTable(t *testing.T) {
	records, err := newTestBatch(t, firstColumn).ProcessFile(context.Background(), "obs.csv", strings.NewReader(batchHeader))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProcessRowsWithoutIndex(t *testing.T) {
	row := tabular.NewRow(0, map[string]string{
		"timestamp":                     "20240115T1300",
		"Precipitation Total":           "bad",
		"Relative Humidity [2 m]":       "50",
		"Wind Gust":                     "25",
		"Wind Speed [100 m]":            "15",
		"Cloud Cover Total":             "50",
		"Mean Sea Level Pressure [MSL]": "1010",
	})

	_, err := newTestBatch(t, firstColumn).Process(context.Background(), []tabular.Row{row})
	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
}
