package match

import "strings"

// manualCBSANames maps normalized city labels to official CBSA names for
// metros the string stages get wrong. Keys are lowercase.
var manualCBSANames = map[string]string{
	"dc_metro":       "Washington-Arlington-Alexandria, DC-VA-MD-WV",
	"washington, dc": "Washington-Arlington-Alexandria, DC-VA-MD-WV",
}

// bostonCBSAName covers every "boston"-labeled variant in the dataset.
const bostonCBSAName = "Boston-Cambridge-Newton, MA-NH"

// ResolveManualName returns the official CBSA name for known special-case
// metros, checked before any string matching.
func ResolveManualName(city, cityFull string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(cityFull))
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(city))
	}

	if name, ok := manualCBSANames[key]; ok {
		return name, true
	}
	if strings.Contains(key, "boston") {
		return bostonCBSAName, true
	}
	return "", false
}
