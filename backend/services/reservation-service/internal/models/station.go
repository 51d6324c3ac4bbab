package models

// StationStatus is the operational state of a station.
type StationStatus string

const (
	StationOnline      StationStatus = "online"
	StationMaintenance StationStatus = "maintenance"
	StationOffline     StationStatus = "offline"
)

// Valid reports whether s is a known status.
func (s StationStatus) Valid() bool {
	switch s {
	case StationOnline, StationMaintenance, StationOffline:
		return true
	}
	return false
}

// Coordinates is a lat/lng pair.
type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// PeakHours is a time-of-day window ("HH:MM", inclusive) during which Multiplier applies.
type PeakHours struct {
	Start      string  `yaml:"start" json:"start"`
	End        string  `yaml:"end" json:"end"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// Connector is a charging port at a station.
type Connector struct {
	Type      string  `db:"type" yaml:"type" json:"type"`
	Power     string  `db:"power" yaml:"power" json:"power"`
	Price     float64 `db:"price" yaml:"price" json:"price"`
	Available bool    `db:"available" yaml:"available" json:"available"`
}

// Station is a charging location from the catalog.
type Station struct {
	ID             string        `db:"id" yaml:"id" json:"id"`
	Name           string        `db:"name" yaml:"name" json:"name"`
	Address        string        `db:"address" yaml:"address" json:"address"`
	Coordinates    Coordinates   `yaml:"coordinates" json:"coordinates"`
	Connectors     []Connector   `yaml:"connectors" json:"connectors"`
	Amenities      []string      `yaml:"amenities" json:"amenities"`
	OperatingHours string        `db:"operating_hours" yaml:"operatingHours" json:"operatingHours"`
	Status         StationStatus `db:"status" yaml:"status" json:"status"`
	Rating         float64       `yaml:"-" json:"rating"`
	ReviewCount    int           `yaml:"-" json:"reviewCount"`
	LoyaltyPoints  int           `db:"loyalty_points" yaml:"loyaltyPoints" json:"loyaltyPoints"`
	PeakHours      *PeakHours    `yaml:"peakHours,omitempty" json:"peakHours,omitempty"`
}

// Clone returns a deep copy so callers never alias catalog state.
func (s Station) Clone() Station {
	out := s
	if s.Connectors != nil {
		out.Connectors = append([]Connector(nil), s.Connectors...)
	}
	if s.Amenities != nil {
		out.Amenities = append([]string(nil), s.Amenities...)
	}
	if s.PeakHours != nil {
		peak := *s.PeakHours
		out.PeakHours = &peak
	}
	return out
}

// Connector returns the first connector of the given type.
func (s Station) Connector(connectorType string) (Connector, bool) {
	for _, c := range s.Connectors {
		if c.Type == connectorType {
			return c, true
		}
	}
	return Connector{}, false
}

// AvailableConnector returns the first available connector of the given type.
func (s Station) AvailableConnector(connectorType string) (Connector, bool) {
	for _, c := range s.Connectors {
		if c.Type == connectorType && c.Available {
			return c, true
		}
	}
	return Connector{}, false
}

// AvailableConnectors counts connectors that can currently be booked.
func (s Station) AvailableConnectors() int {
	n := 0
	for _, c := range s.Connectors {
		if c.Available {
			n++
		}
	}
	return n
}

// HasAmenity reports whether the station lists the amenity.
func (s Station) HasAmenity(amenity string) bool {
	for _, a := range s.Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}
