package metrics

// GroupValue is one observation feeding a year-over-year comparison.
type GroupValue struct {
	Key   string // grouping identity (city key, zip code, ...)
	Year  int
	Value float64
}

// YoY is the year-over-year change for one group. When no prior-year
// observations exist, or the prior-year average is zero, Defined is false
// and Change/Pct are meaningless; callers surface "no prior year" rather
// than a 0% change.
type YoY struct {
	Current  float64
	Previous float64
	Change   float64
	Pct      float64
	Defined  bool
}

// ComputeYoY averages Value per group for currentYear and currentYear-1 and
// left-joins current onto previous. Every group present in the current year
// gets an entry; groups without prior-year data get an undefined YoY.
func ComputeYoY(rows []GroupValue, currentYear int) map[string]YoY {
	current := groupAverage(rows, currentYear)
	previous := groupAverage(rows, currentYear-1)

	out := make(map[string]YoY, len(current))
	for key, cur := range current {
		y := YoY{Current: cur}
		if prev, ok := previous[key]; ok && prev != 0 {
			y.Previous = prev
			y.Change = cur - prev
			y.Pct = round1((cur - prev) / prev * 100)
			y.Defined = true
		}
		out[key] = y
	}
	return out
}

// groupAverage returns the per-key mean of Value restricted to one year.
func groupAverage(rows []GroupValue, year int) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		if r.Year != year {
			continue
		}
		sums[r.Key] += r.Value
		counts[r.Key]++
	}
	out := make(map[string]float64, len(sums))
	for key, sum := range sums {
		out[key] = sum / float64(counts[key])
	}
	return out
}

// CompareYears returns the per-group percent change of the average Value
// between two named years. Groups missing either year, or with a zero base
// average, are omitted rather than reported as 0%.
func CompareYears(rows []GroupValue, fromYear, toYear int) map[string]float64 {
	from := groupAverage(rows, fromYear)
	to := groupAverage(rows, toYear)

	out := make(map[string]float64)
	for key, cur := range to {
		prev, ok := from[key]
		if !ok {
			continue
		}
		if pct, ok := PercentChange(cur, prev); ok {
			out[key] = pct
		}
	}
	return out
}

// PercentChange returns (cur - prev) / prev * 100 rounded to one decimal.
// The second return is false when prev is zero.
func PercentChange(cur, prev float64) (float64, bool) {
	if prev == 0 {
		return 0, false
	}
	return round1((cur - prev) / prev * 100), true
}
