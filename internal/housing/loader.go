package housing

import (
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// requiredColumns are the header names the housing CSV must carry.
var requiredColumns = []string{
	"city", "city_full", "zip_code", "year",
	"median_sale_price", "per_capita_income", "lat", "lon",
}

// LoadCSV reads the housing dataset from a CSV file, standardizes types and
// derived keys, and fingerprints the file contents. Rows with a missing ZIP
// or unparseable year are skipped and counted; missing numeric values load
// as nil, not zero.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "housing: open dataset %s", path)
	}
	defer func() { _ = f.Close() }()

	hash := sha256.New()
	reader := csv.NewReader(io.TeeReader(f, hash))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "housing: read CSV header of %s", path)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("housing: dataset %s is missing required column %q", path, col)
		}
	}

	var records []Record
	var skipped int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "housing: read CSV row of %s", path)
		}

		field := func(name string) string {
			idx := colIdx[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		zip, ok := normalizeZIP(field("zip_code"))
		if !ok {
			skipped++
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(field("year")))
		if err != nil {
			skipped++
			continue
		}

		city := field("city")
		cityFull := field("city_full")
		if cityFull == "" {
			cityFull = city
		}

		records = append(records, Record{
			City:      city,
			CityFull:  cityFull,
			CityKey:   CityKeyOf(city),
			ZIPCode:   zip,
			Year:      year,
			SalePrice: parseFloatPtr(field("median_sale_price")),
			Income:    parseFloatPtr(field("per_capita_income")),
			Lat:       parseFloatPtr(field("lat")),
			Lon:       parseFloatPtr(field("lon")),
		})
	}

	// Drain remaining bytes so the fingerprint covers the whole file even
	// if the CSV reader stopped short of EOF.
	if _, err := io.Copy(hash, f); err != nil {
		return nil, eris.Wrapf(err, "housing: fingerprint %s", path)
	}

	if skipped > 0 {
		zap.L().Info("housing: skipped rows with invalid zip or year",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	zap.L().Info("housing: dataset loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)

	return &Dataset{
		Records:     records,
		Fingerprint: fmt.Sprintf("%x", hash.Sum(nil)),
		Path:        path,
	}, nil
}

// normalizeZIP coerces a raw zip_code field to a zero-padded 5-digit string.
// Handles integer-typed sources serialized with a trailing ".0".
func normalizeZIP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 99999 {
		return "", false
	}
	return fmt.Sprintf("%05d", n), true
}

// parseFloatPtr parses a numeric field, returning nil for empty, NaN,
// infinite, or unparseable values.
func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
