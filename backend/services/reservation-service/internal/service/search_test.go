package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"ecocharge/backend/services/reservation-service/internal/models"
)

func ids(stations []models.Station) []string {
	out := make([]string, 0, len(stations))
	for _, st := range stations {
		out = append(out, st.ID)
	}
	return out
}

func TestSearchEmptyQueryIsIdentity(t *testing.T) {
	stations := fixtureStations()
	got := Search(stations, SearchQuery{})
	assert.Equal(t, stations, got)
}

func TestSearchSingleConstraints(t *testing.T) {
	stations := fixtureStations()

	tests := []struct {
		name  string
		query SearchQuery
		want  []string
	}{
		{"text matches name case-insensitively", SearchQuery{Text: "DOWNTOWN"}, []string{"st-downtown"}},
		{"text matches address", SearchQuery{Text: "whitefield"}, []string{"st-mall"}},
		{"blank text is ignored", SearchQuery{Text: "   "}, []string{"st-downtown", "st-airport", "st-mall"}},
		{"connector must be available", SearchQuery{ConnectorType: "Type2"}, []string{"st-mall"}},
		{"unavailable connector excluded", SearchQuery{ConnectorType: "CCS2"}, []string{"st-downtown"}},
		{"low price band", SearchQuery{PriceRange: PriceLow}, []string{"st-downtown"}},
		{"medium band", SearchQuery{PriceRange: PriceMedium}, []string{"st-mall"}},
		{"high band ignores availability", SearchQuery{PriceRange: PriceHigh}, []string{"st-airport"}},
		{"unknown band is no constraint", SearchQuery{PriceRange: "cheap"}, []string{"st-downtown", "st-airport", "st-mall"}},
		{"status exact", SearchQuery{Status: models.StationMaintenance}, []string{"st-airport"}},
		{"unknown status is no constraint", SearchQuery{Status: "busy"}, []string{"st-downtown", "st-airport", "st-mall"}},
		{"amenities are conjunctive", SearchQuery{Amenities: []string{"WiFi", "Restaurant"}}, []string{"st-downtown", "st-mall"}},
		{"amenities need every entry", SearchQuery{Amenities: []string{"WiFi", "Parking"}}, []string{"st-downtown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(stations, tt.query)))
		})
	}
}

func TestSearchCombinesWithAnd(t *testing.T) {
	stations := fixtureStations()
	q := SearchQuery{
		Text:       "road",
		PriceRange: PriceMedium,
		Amenities:  []string{"WiFi"},
	}
	got := Search(stations, q)
	assert.Equal(t, []string{"st-mall"}, ids(got))
	for _, st := range got {
		assert.True(t, q.Matches(st))
	}
}

func TestSearchPreservesOrderAndInput(t *testing.T) {
	stations := fixtureStations()
	before := ids(stations)
	got := Search(stations, SearchQuery{Amenities: []string{"Parking"}})

	assert.Equal(t, []string{"st-downtown", "st-airport"}, ids(got))
	assert.Equal(t, before, ids(stations))
}

func TestParseSearchQuery(t *testing.T) {
	values := url.Values{
		"q":         {"  hub "},
		"connector": {"CCS2"},
		"price":     {"HIGH"},
		"status":    {"nonsense"},
		"amenity":   {"WiFi,Parking", " ", "Restaurant"},
	}
	q := ParseSearchQuery(values)

	assert.Equal(t, "hub", q.Text)
	assert.Equal(t, "CCS2", q.ConnectorType)
	assert.Equal(t, PriceHigh, q.PriceRange)
	assert.Equal(t, models.StationStatus(""), q.Status)
	assert.Equal(t, []string{"WiFi", "Parking", "Restaurant"}, q.Amenities)
}

func TestFilters(t *testing.T) {
	opts := Filters(fixtureStations())
	assert.Equal(t, []string{"CCS2", "Type2", "CHAdeMO"}, opts.ConnectorTypes)
	assert.Equal(t, []string{"WiFi", "Parking", "Restaurant"}, opts.Amenities)
	assert.Len(t, opts.PriceRanges, 3)
}
