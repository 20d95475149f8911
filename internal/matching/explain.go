package matching

// Fallback reasons, used in order until the minimum is reached.
var fallbackReasons = []string{
	"Eligibility criteria match",
	"Profile compatible with requirements",
}

const MinReasons = 2

// FinalizeReasons pads reasons with fallbacks up to MinReasons and truncates to max.
func FinalizeReasons(reasons []string, max int) []string {
	out := make([]string, 0, max)
	seen := make(map[string]bool, len(reasons))
	for _, r := range reasons {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	for _, f := range fallbackReasons {
		if len(out) >= MinReasons {
			break
		}
		if !seen[f] {
			out = append(out, f)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
