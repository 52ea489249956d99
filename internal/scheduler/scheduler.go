package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/temperature-prediction/internal/weather"
)

// LoadFunc produces a fresh history snapshot.
type LoadFunc func() ([]weather.Observation, error)

// Scheduler periodically reloads the observation history into a store.
// Prediction parameters and the model are never touched.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     weather.Store
	load      LoadFunc
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(interval time.Duration, store weather.Store, load LoadFunc, log *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		load:      load,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the reload job. A non-positive interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("scheduler: history refresh disabled")
		return nil
	}

	// The snapshot was loaded at startup, so skip the immediate run.
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.Reload)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infow("scheduler: history refresh scheduled", "interval", s.interval)
	return nil
}

// Reload loads a snapshot and installs it. On failure the previous snapshot
// stays in place.
func (s *Scheduler) Reload() {
	observations, err := s.load()
	if err != nil {
		s.log.Warnw("scheduler: history reload failed; keeping previous snapshot", "error", err)
		return
	}
	s.store.Replace(observations)
	s.log.Debugw("scheduler: history reloaded", "observations", len(observations))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
