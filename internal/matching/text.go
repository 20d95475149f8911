package matching

import (
	"math"
	"strings"
)

// ContainsFold reports whether list holds v, ignoring case and surrounding space.
func ContainsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

// CountFold counts the members of needles present in hay, ignoring case.
func CountFold(needles, hay []string) int {
	n := 0
	for _, x := range needles {
		if ContainsFold(hay, x) {
			n++
		}
	}
	return n
}

// MentionsAny reports whether text contains any keyword as a substring, ignoring case.
func MentionsAny(text string, keywords []string) bool {
	return CountMentions(text, keywords) > 0
}

// CountMentions counts the keywords that appear in text, ignoring case.
func CountMentions(text string, keywords []string) int {
	text = strings.ToLower(text)
	if text == "" {
		return 0
	}
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Capped returns base + inc*hits, at most 100.
func Capped(base, inc float64, hits int) float64 {
	return math.Min(100, base+inc*float64(hits))
}

// FieldCoverage scores how well field covers targets. A target counts 100 when one string
// contains the other and 80 when the phrases are similar enough. The average is doubled so
// that matching one of two listed fields is already a full match. ok is false when field is blank.
func FieldCoverage(sim Similarity, field string, targets []string) (score float64, ok bool) {
	if Blank(field) || len(targets) == 0 {
		return 0, false
	}
	f := strings.ToLower(strings.TrimSpace(field))

	var credit float64
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		switch {
		case t == "":
		case strings.Contains(f, t) || strings.Contains(t, f):
			credit += 100
		case sim.Similarity(f, t) >= fieldSimilarityThreshold:
			credit += 80
		}
	}
	return math.Min(100, credit/float64(len(targets))*fieldCoverageBoost), true
}

const (
	fieldSimilarityThreshold = 0.3
	fieldCoverageBoost       = 2
)
