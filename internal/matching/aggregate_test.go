package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testScheme() Scheme {
	return Scheme{
		Weights: map[string]float64{
			"a":     0.25,
			"b":     0.75,
			"c":     0.5,
			"bonus": 0.03,
			"feat":  0.02,
		},
		Bonuses:    []string{"bonus", "feat"},
		MaxReasons: 5,
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		factors Factors
		want    float64
	}{
		{"weighted mean", Factors{"a": 100, "b": 50}, 62.5},
		{"single evaluated factor equals its value", Factors{"c": 73.5}, 73.5},
		{"zero factor excluded from denominator", Factors{"a": 80, "b": 0}, 80},
		{"missing factor excluded", Factors{"b": 40}, 40},
		{"bonus added after normalization", Factors{"a": 80, "bonus": 15}, 95},
		{"clamped to 100", Factors{"a": 95, "bonus": 15, "feat": 10}, 100},
		{"nothing evaluated scores zero", Factors{}, 0},
		{"bonus alone is not enough", Factors{"a": 0, "bonus": 15, "feat": 10}, 0},
		{"unknown factor ignored", Factors{"zzz": 100, "a": 60}, 60},
		{"rounded to two decimals", Factors{"a": 100, "b": 33.333}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Aggregate(tt.factors, testScheme()), 0.001)
		})
	}
}

func TestAggregate_Bounds(t *testing.T) {
	values := []float64{0, 0.01, 20, 42.86, 80, 99.99, 100}
	for _, a := range values {
		for _, b := range values {
			got := Aggregate(Factors{"a": a, "b": b, "bonus": 15, "feat": 10}, testScheme())
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestScheme_WithOverrides(t *testing.T) {
	base := testScheme()
	s := base.WithOverrides(map[string]float64{"a": 1, "unknown": 3})

	assert.Equal(t, 1.0, s.Weights["a"])
	assert.NotContains(t, s.Weights, "unknown")
	assert.Equal(t, 0.25, base.Weights["a"], "base scheme must not change")
}

func TestScheme_WithOverrides_LowercasedKeys(t *testing.T) {
	base := Scheme{Weights: map[string]float64{"gpaMatch": 0.1, "fieldMatch": 0.2}}
	s := base.WithOverrides(map[string]float64{"gpamatch": 0.4})

	assert.Equal(t, 0.4, s.Weights["gpaMatch"])
	assert.Equal(t, 0.2, s.Weights["fieldMatch"])
	assert.NotContains(t, s.Weights, "gpamatch")
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 42.86, Round2(2.5/3.5*60))
	assert.Equal(t, 90.1, Round2(90.0952))
}
