package matching

import "math"

var (
	highValueAchievements = []string{
		"award", "scholarship", "publication", "published", "patent", "first place",
		"winner", "olympiad", "dean's list", "valedictorian", "honors", "honours",
	}
	mediumValueAchievements = []string{
		"certificate", "certification", "competition", "finalist", "president",
		"captain", "conference", "hackathon",
	}
)

// AchievementScore rates free-text achievements: base 20, +20 per high-value and +10 per
// medium-value keyword, capped at 100. ok is false for blank text.
func AchievementScore(text string) (float64, bool) {
	if Blank(text) {
		return 0, false
	}
	high := CountMentions(text, highValueAchievements)
	medium := CountMentions(text, mediumValueAchievements)
	return math.Min(100, 20+20*float64(high)+10*float64(medium)), true
}
