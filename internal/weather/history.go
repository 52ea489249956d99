package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// DecodeHistory reads a JSON array of observations, each carrying a
// "timestamp" in YYYYMMDDTHHMM form. File order is preserved.
func DecodeHistory(r io.Reader) ([]Observation, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	out := make([]Observation, 0, len(raw))
	for i, entry := range raw {
		tsRaw, ok := entry["timestamp"].(string)
		if !ok {
			return nil, fmt.Errorf("history entry %d: missing timestamp", i)
		}
		ts, err := time.Parse(HistoryTimestampLayout, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: invalid timestamp %q", i, tsRaw)
		}

		fields := make(map[string]any, len(entry)-1)
		for k, v := range entry {
			if k != "timestamp" {
				fields[k] = v
			}
		}
		out = append(out, Observation{Timestamp: ts, Fields: fields})
	}
	return out, nil
}

// LoadHistoryFile reads observations from a JSON file.
func LoadHistoryFile(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeHistory(f)
}
