package candidate

import "strings"

var countryRegions = map[string]string{
	"united states": "north america", "usa": "north america", "canada": "north america", "mexico": "north america",
	"united kingdom": "europe", "uk": "europe", "germany": "europe", "france": "europe", "netherlands": "europe",
	"spain": "europe", "italy": "europe", "sweden": "europe", "switzerland": "europe", "ireland": "europe",
	"belgium": "europe", "austria": "europe", "denmark": "europe", "norway": "europe", "finland": "europe",
	"poland": "europe", "portugal": "europe",
	"china": "asia", "japan": "asia", "south korea": "asia", "india": "asia", "singapore": "asia",
	"malaysia": "asia", "indonesia": "asia", "thailand": "asia", "vietnam": "asia", "philippines": "asia",
	"hong kong": "asia", "taiwan": "asia", "pakistan": "asia", "bangladesh": "asia",
	"australia": "oceania", "new zealand": "oceania",
	"brazil": "south america", "argentina": "south america", "chile": "south america", "colombia": "south america", "peru": "south america",
	"nigeria": "africa", "kenya": "africa", "south africa": "africa", "ghana": "africa", "egypt": "africa", "ethiopia": "africa",
	"united arab emirates": "middle east", "uae": "middle east", "saudi arabia": "middle east", "qatar": "middle east",
	"israel": "middle east", "turkey": "middle east",
}

var countryLanguages = map[string][]string{
	"united states": {"English"}, "usa": {"English"}, "united kingdom": {"English"}, "uk": {"English"},
	"australia": {"English"}, "new zealand": {"English"}, "ireland": {"English"}, "singapore": {"English"},
	"canada": {"English", "French"}, "switzerland": {"German", "French"}, "belgium": {"French", "Dutch"},
	"germany": {"German"}, "austria": {"German"}, "france": {"French"}, "netherlands": {"Dutch"},
	"spain": {"Spanish"}, "mexico": {"Spanish"}, "argentina": {"Spanish"}, "chile": {"Spanish"},
	"colombia": {"Spanish"}, "peru": {"Spanish"}, "italy": {"Italian"}, "portugal": {"Portuguese"},
	"brazil": {"Portuguese"}, "sweden": {"Swedish"}, "denmark": {"Danish"}, "norway": {"Norwegian"},
	"finland": {"Finnish"}, "poland": {"Polish"}, "china": {"Chinese"}, "taiwan": {"Chinese"},
	"hong kong": {"Chinese", "English"}, "japan": {"Japanese"}, "south korea": {"Korean"},
	"india": {"English", "Hindi"}, "malaysia": {"Malay", "English"}, "turkey": {"Turkish"},
	"saudi arabia": {"Arabic"}, "united arab emirates": {"Arabic", "English"}, "uae": {"Arabic", "English"},
	"qatar": {"Arabic"}, "egypt": {"Arabic"}, "israel": {"Hebrew"}, "south africa": {"English"},
	"nigeria": {"English"}, "kenya": {"English", "Swahili"}, "ghana": {"English"},
}

// demonyms maps nationality adjectives to countries so "German" and "Germany" compare equal.
var demonyms = map[string]string{
	"american": "united states", "canadian": "canada", "mexican": "mexico", "british": "united kingdom",
	"german": "germany", "french": "france", "dutch": "netherlands", "spanish": "spain", "italian": "italy",
	"swedish": "sweden", "swiss": "switzerland", "irish": "ireland", "chinese": "china", "japanese": "japan",
	"korean": "south korea", "indian": "india", "singaporean": "singapore", "australian": "australia",
	"brazilian": "brazil", "nigerian": "nigeria", "kenyan": "kenya", "egyptian": "egypt", "turkish": "turkey",
	"pakistani": "pakistan", "vietnamese": "vietnam", "portuguese": "portugal", "polish": "poland",
}

func normalizeCountry(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if country, ok := demonyms[c]; ok {
		return country
	}
	return c
}

// RegionOf returns the region group for a country, or "" if unknown.
func RegionOf(country string) string {
	return countryRegions[normalizeCountry(country)]
}

// LanguagesOf returns the languages expected in a country. Unknown countries expect English.
func LanguagesOf(country string) []string {
	if langs, ok := countryLanguages[normalizeCountry(country)]; ok {
		return langs
	}
	return []string{"English"}
}

// SameCountry compares a nationality or country name against a country name.
func SameCountry(a, b string) bool {
	return normalizeCountry(a) == normalizeCountry(b)
}
