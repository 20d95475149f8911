package matching

import (
	"math"
	"sort"
)

// Aggregate normalizes the weighted factors by the weight that was actually evaluated,
// then adds bonus factors flat. Factors at or below zero are left out of both sums.
// With no evaluated weighted factor the score is 0 and bonuses are not applied.
func Aggregate(factors Factors, scheme Scheme) float64 {
	bonus := make(map[string]bool, len(scheme.Bonuses))
	for _, b := range scheme.Bonuses {
		bonus[b] = true
	}

	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	var weighted, totalWeight float64
	for _, name := range names {
		value := factors[name]
		if bonus[name] || value <= 0 {
			continue
		}
		w := scheme.Weights[name]
		if w <= 0 {
			continue
		}
		weighted += value * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}

	score := weighted / totalWeight
	for _, b := range scheme.Bonuses {
		score += factors[b]
	}
	return Round2(Clamp(score))
}

func Clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
