// Package match resolves aggregated metro rows to official CBSA boundary
// polygons through an ordered chain of matching stages, and joins ZIP-level
// metrics onto ZCTA polygons for drill-down.
package match

import "strings"

// ParseCityState splits a display label like "Seattle, WA" into the base
// city name and a 2-letter uppercased state code. Labels without a comma
// yield an empty state.
func ParseCityState(city, cityFull string) (base, state string) {
	raw := strings.TrimSpace(cityFull)
	if raw == "" {
		raw = strings.TrimSpace(city)
	}

	parts := strings.SplitN(raw, ",", 2)
	base = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		state = strings.ToUpper(strings.TrimSpace(parts[1]))
		if len(state) > 2 {
			state = state[:2]
		}
	}
	return base, state
}

// hyphen-like separators found in compound metro names.
var citySeparators = []string{"-", "–", "—"} // hyphen, en dash, em dash

// CityTokens tokenizes a base city name for fuzzy matching. The whole
// lowercased name comes first, followed by each hyphen-separated part,
// de-duplicated preserving order. "Dallas-Fort Worth" yields
// ["dallas-fort worth", "dallas", "fort worth"].
func CityTokens(base string) []string {
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" {
		return nil
	}

	tokens := []string{base}
	for _, sep := range citySeparators {
		if !strings.Contains(base, sep) {
			continue
		}
		for _, part := range strings.Split(base, sep) {
			if p := strings.TrimSpace(part); p != "" {
				tokens = append(tokens, p)
			}
		}
	}

	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
