package rankcandidates

import (
	"fmt"
	"time"

	"scholarship-workers/internal/common/config"
)

type Config struct {
	Enabled         bool
	MaxJobsActive   int
	Timeout         time.Duration
	DefaultLimit    int
	DefaultMinScore float64
	Weights         map[string]float64
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         30 * time.Second,
		DefaultLimit:    50,
		DefaultMinScore: 70,
	}
}

// NewConfig reads the worker and scoring sections of the application config.
func NewConfig(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}
	w := config.GetWorkerConfig(app, TaskType)
	cfg.Enabled = w.Enabled
	cfg.MaxJobsActive = w.MaxJobsActive
	cfg.Timeout = config.GetDuration(w.Timeout)

	d := app.Scoring.Candidate
	if d.DefaultLimit > 0 {
		cfg.DefaultLimit = d.DefaultLimit
	}
	if d.DefaultMinScore > 0 {
		cfg.DefaultMinScore = d.DefaultMinScore
	}
	cfg.Weights = d.Weights
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive")
	}
	if c.DefaultMinScore < 0 || c.DefaultMinScore > 100 {
		return fmt.Errorf("default_min_score must be within 0-100")
	}
	return nil
}
