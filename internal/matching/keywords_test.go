package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAchievementScore(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"Volunteered at the library", 20, true},
		{"Hackathon finalist", 40, true},
		{"National Olympiad winner", 60, true},
		{"Award winner, published author, patent holder, dean's list, honors", 100, true},
	}
	for _, tt := range tests {
		got, ok := AchievementScore(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}
