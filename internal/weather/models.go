package weather

import (
	"encoding/json"
	"time"
)

const (
	// HistoryTimestampLayout is how observation times are stored: YYYYMMDDTHHMM.
	HistoryTimestampLayout = "20060102T1504"
	// DisplayTimestampLayout is how observation times are rendered.
	DisplayTimestampLayout = "2006-01-02 15:04"
)

// Observation is one recorded weather measurement shown next to predictions.
// Fields holds every recorded value except the timestamp, keyed as in the
// history file.
type Observation struct {
	Timestamp time.Time
	Fields    map[string]any
}

// MarshalJSON flattens the fields and renders the timestamp for display.
func (o Observation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Fields)+1)
	for k, v := range o.Fields {
		out[k] = v
	}
	out["timestamp"] = o.Timestamp.Format(DisplayTimestampLayout)
	return json.Marshal(out)
}
