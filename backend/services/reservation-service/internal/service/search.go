package service

import (
	"net/url"
	"strings"

	"ecocharge/backend/services/reservation-service/internal/models"
)

// PriceRange buckets connector prices per kWh.
type PriceRange string

const (
	PriceLow    PriceRange = "low"
	PriceMedium PriceRange = "medium"
	PriceHigh   PriceRange = "high"
)

// Contains reports whether price falls in the band. Unknown bands accept every price.
func (p PriceRange) Contains(price float64) bool {
	switch p {
	case PriceLow:
		return price <= 10
	case PriceMedium:
		return price > 10 && price <= 15
	case PriceHigh:
		return price > 15
	default:
		return true
	}
}

func (p PriceRange) known() bool {
	return p == PriceLow || p == PriceMedium || p == PriceHigh
}

// SearchQuery holds the finder filters. Zero values mean "no constraint".
type SearchQuery struct {
	Text          string               `json:"q,omitempty"`
	ConnectorType string               `json:"connectorType,omitempty"`
	PriceRange    PriceRange           `json:"priceRange,omitempty"`
	Status        models.StationStatus `json:"status,omitempty"`
	Amenities     []string             `json:"amenities,omitempty"`
}

// Matches applies every active constraint with logical AND.
func (q SearchQuery) Matches(st models.Station) bool {
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		if !strings.Contains(strings.ToLower(st.Name), text) &&
			!strings.Contains(strings.ToLower(st.Address), text) {
			return false
		}
	}

	if ct := strings.TrimSpace(q.ConnectorType); ct != "" {
		if _, ok := st.AvailableConnector(ct); !ok {
			return false
		}
	}

	// Price bands ignore availability.
	if q.PriceRange.known() {
		inBand := false
		for _, c := range st.Connectors {
			if q.PriceRange.Contains(c.Price) {
				inBand = true
				break
			}
		}
		if !inBand {
			return false
		}
	}

	if q.Status.Valid() && st.Status != q.Status {
		return false
	}

	for _, a := range q.Amenities {
		if a = strings.TrimSpace(a); a != "" && !st.HasAmenity(a) {
			return false
		}
	}
	return true
}

// Search returns the stations matching q in catalog order. The input is not modified.
func Search(stations []models.Station, q SearchQuery) []models.Station {
	out := make([]models.Station, 0, len(stations))
	for _, st := range stations {
		if q.Matches(st) {
			out = append(out, st)
		}
	}
	return out
}

// ParseSearchQuery reads finder filters from query parameters: q, connector, price, status and
// amenity (repeatable or comma separated).
func ParseSearchQuery(values url.Values) SearchQuery {
	q := SearchQuery{
		Text:          strings.TrimSpace(values.Get("q")),
		ConnectorType: strings.TrimSpace(values.Get("connector")),
		PriceRange:    PriceRange(strings.ToLower(strings.TrimSpace(values.Get("price")))),
		Status:        models.StationStatus(strings.ToLower(strings.TrimSpace(values.Get("status")))),
	}
	if !q.PriceRange.known() {
		q.PriceRange = ""
	}
	if !q.Status.Valid() {
		q.Status = ""
	}
	for _, raw := range values["amenity"] {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				q.Amenities = append(q.Amenities, a)
			}
		}
	}
	return q
}

// FilterOptions lists the values the finder can offer as filters.
type FilterOptions struct {
	ConnectorTypes []string               `json:"connectorTypes"`
	Amenities      []string               `json:"amenities"`
	PriceRanges    []PriceRange           `json:"priceRanges"`
	Statuses       []models.StationStatus `json:"statuses"`
}

// Filters collects distinct connector types and amenities in catalog order.
func Filters(stations []models.Station) FilterOptions {
	opts := FilterOptions{
		ConnectorTypes: []string{},
		Amenities:      []string{},
		PriceRanges:    []PriceRange{PriceLow, PriceMedium, PriceHigh},
		Statuses:       []models.StationStatus{models.StationOnline, models.StationMaintenance, models.StationOffline},
	}
	seenTypes := map[string]bool{}
	seenAmenities := map[string]bool{}
	for _, st := range stations {
		for _, c := range st.Connectors {
			if c.Type != "" && !seenTypes[c.Type] {
				seenTypes[c.Type] = true
				opts.ConnectorTypes = append(opts.ConnectorTypes, c.Type)
			}
		}
		for _, a := range st.Amenities {
			if a != "" && !seenAmenities[a] {
				seenAmenities[a] = true
				opts.Amenities = append(opts.Amenities, a)
			}
		}
	}
	return opts
}
