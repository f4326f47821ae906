package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCityState(t *testing.T) {
	tests := []struct {
		name     string
		city     string
		cityFull string
		base     string
		state    string
	}{
		{"city and state", "Seattle", "Seattle, WA", "Seattle", "WA"},
		{"no state", "Chicago", "Chicago", "Chicago", ""},
		{"falls back to city", "Boise", "", "Boise", ""},
		{"lowercase state uppercased", "Miami", "Miami, fl", "Miami", "FL"},
		{"long state part truncated", "Austin", "Austin, Texas", "Austin", "TE"},
		{"whitespace trimmed", "Denver", "  Denver ,  CO ", "Denver", "CO"},
		{"multi-state suffix", "Washington", "Washington, DC-VA-MD", "Washington", "DC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, state := ParseCityState(tt.city, tt.cityFull)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.state, state)
		})
	}
}

func TestCityTokens(t *testing.T) {
	tests := []struct {
		name string
		base string
		want []string
	}{
		{"plain name", "Seattle", []string{"seattle"}},
		{
			"hyphenated compound",
			"Dallas-Fort Worth",
			[]string{"dallas-fort worth", "dallas", "fort worth"},
		},
		{
			"en dash",
			"Minneapolis–St. Paul",
			[]string{"minneapolis–st. paul", "minneapolis", "st. paul"},
		},
		{"duplicates removed", "a-a", []string{"a-a", "a"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CityTokens(tt.base))
		})
	}
}

func TestResolveManualName(t *testing.T) {
	name, ok := ResolveManualName("dc_metro", "")
	assert.True(t, ok)
	assert.Equal(t, "Washington-Arlington-Alexandria, DC-VA-MD-WV", name)

	name, ok = ResolveManualName("Washington", "Washington, DC")
	assert.True(t, ok)
	assert.Equal(t, "Washington-Arlington-Alexandria, DC-VA-MD-WV", name)

	// Any boston-labeled variant maps to the official CBSA.
	name, ok = ResolveManualName("Boston", "South Boston, MA")
	assert.True(t, ok)
	assert.Equal(t, "Boston-Cambridge-Newton, MA-NH", name)

	_, ok = ResolveManualName("Seattle", "Seattle, WA")
	assert.False(t, ok)
}
