// Package matching scores a batch of candidates against one subject: factors, weighted aggregation,
// explanations and ranking. Direction specific rules live behind Strategy.
package matching

import (
	"context"
	"strings"
	"time"
)

// Factors maps factor name to a 0-100 value. A missing key means the factor could not be evaluated.
type Factors map[string]float64

// Put returns a setter that records the factor only when ok is true, so that
// f.Put(name)(calc()) works with calculators returning (value, evaluated).
func (f Factors) Put(name string) func(v float64, ok bool) {
	return func(v float64, ok bool) {
		if ok {
			f[name] = v
		}
	}
}

// Scheme is the weight table of one direction.
type Scheme struct {
	Weights map[string]float64
	// Bonuses are added flat after normalization and are never weighted.
	Bonuses    []string
	MaxReasons int
}

// WithOverrides returns a copy of the scheme with the given weights replaced.
// Names match case-insensitively since viper lowercases map keys; unknown names are ignored.
func (s Scheme) WithOverrides(overrides map[string]float64) Scheme {
	if len(overrides) == 0 {
		return s
	}
	weights := make(map[string]float64, len(s.Weights))
	canonical := make(map[string]string, len(s.Weights))
	for k, v := range s.Weights {
		weights[k] = v
		canonical[strings.ToLower(k)] = k
	}
	for k, v := range overrides {
		if name, known := canonical[strings.ToLower(k)]; known {
			weights[name] = v
		}
	}
	s.Weights = weights
	return s
}

// Strategy supplies the rules of one matching direction.
type Strategy[S, C any] interface {
	Direction() string
	SubjectID(subject S) string
	CandidateID(candidate C) string
	Scheme() Scheme
	Factors(ctx context.Context, subject S, candidate C, now time.Time) Factors
	// Reasons returns threshold reasons in priority order; the pipeline pads and truncates them.
	Reasons(subject S, candidate C, factors Factors) []string
}

// Scored is one evaluated candidate.
type Scored[C any] struct {
	Candidate   C
	CandidateID string
	SubjectID   string
	Score       float64
	Factors     Factors
	Reasons     []string
	GeneratedAt time.Time
}
