package matching

import "strings"

// Similarity scores how related two short phrases are, in [0, 1].
type Similarity interface {
	Similarity(a, b string) float64
}

const (
	exactTokenWeight   = 1.0
	synonymTokenWeight = 0.8
	partialTokenWeight = 0.6
	partialMinLen      = 4
)

// synonymDomains groups tokens that count as related. The domain name is itself a member.
var synonymDomains = map[string][]string{
	"computer":    {"computing", "software", "programming", "informatics", "technology", "it", "data", "cs"},
	"medicine":    {"medical", "health", "healthcare", "nursing", "pharmacy", "clinical", "biomedical"},
	"engineering": {"mechanical", "electrical", "civil", "technical", "industrial", "aerospace"},
	"business":    {"management", "finance", "economics", "marketing", "accounting", "commerce", "mba"},
	"science":     {"physics", "chemistry", "biology", "mathematics", "research", "scientific"},
	"art":         {"arts", "design", "music", "fine", "creative", "media", "film"},
	"law":         {"legal", "justice", "jurisprudence", "llb"},
	"education":   {"teaching", "pedagogy", "training", "learning"},
}

// tokenDomains is the inverted synonym table.
var tokenDomains = func() map[string][]string {
	idx := make(map[string][]string)
	for domain, words := range synonymDomains {
		idx[domain] = append(idx[domain], domain)
		for _, w := range words {
			idx[w] = append(idx[w], domain)
		}
	}
	return idx
}()

// KeywordSimilarity compares whitespace tokens: exact 1.0, same synonym domain 0.8,
// containment between tokens of four or more characters 0.6. The matched weight is
// divided by the number of token pairs.
type KeywordSimilarity struct{}

func (KeywordSimilarity) Similarity(a, b string) float64 {
	ta := strings.Fields(strings.ToLower(a))
	tb := strings.Fields(strings.ToLower(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var matched float64
	for _, x := range ta {
		for _, y := range tb {
			matched += tokenWeight(x, y)
		}
	}
	return matched / float64(len(ta)*len(tb))
}

func tokenWeight(x, y string) float64 {
	if x == y {
		return exactTokenWeight
	}
	if sameDomain(x, y) {
		return synonymTokenWeight
	}
	if len(x) >= partialMinLen && len(y) >= partialMinLen &&
		(strings.Contains(x, y) || strings.Contains(y, x)) {
		return partialTokenWeight
	}
	return 0
}

func sameDomain(x, y string) bool {
	dx, ok := tokenDomains[x]
	if !ok {
		return false
	}
	for _, d := range tokenDomains[y] {
		for _, e := range dx {
			if d == e {
				return true
			}
		}
	}
	return false
}
