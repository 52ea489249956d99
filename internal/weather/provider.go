package weather

import "time"

// Store is the contract the in-memory history store must satisfy.
type Store interface {
	Replace(observations []Observation)
	Latest(n int) []Observation
	Range(from, to time.Time) ([]Observation, error)
}
