// Package housing loads and standardizes the per-ZIP-per-year housing dataset.
package housing

import "strings"

// Record is one aggregated housing observation for a (zip_code, year) pair.
// Numeric fields are pointers: nil means the source value was missing or
// unparseable, which downstream filters treat as undefined (never zero).
type Record struct {
	City      string // raw metro label, e.g. "Seattle"
	CityFull  string // display label with state, e.g. "Seattle, WA"
	CityKey   string // lowercased, trimmed city label used for grouping
	ZIPCode   string // 5-digit, zero-padded
	Year      int
	SalePrice *float64 // median sale price
	Income    *float64 // per-capita income
	Lat       *float64
	Lon       *float64
}

// CityKeyOf returns the normalized grouping key for a raw city label.
func CityKeyOf(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Dataset is the immutable loaded housing table plus a content fingerprint
// used as a cache-key component by the dashboard layer.
type Dataset struct {
	Records     []Record
	Fingerprint string // SHA-256 hex of the source file bytes
	Path        string
}

// Years returns the inclusive (min, max) year range, or (0, 0) when empty.
func (d *Dataset) Years() (int, int) {
	if len(d.Records) == 0 {
		return 0, 0
	}
	minYear, maxYear := d.Records[0].Year, d.Records[0].Year
	for _, r := range d.Records[1:] {
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear
}

// ForYear returns the records for a single year.
func (d *Dataset) ForYear(year int) []Record {
	var out []Record
	for _, r := range d.Records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}
