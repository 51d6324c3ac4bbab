package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ecocharge/backend/services/reservation-service/internal/models"
)

// StationRepository reads the station catalog feed.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// List returns every station with its connectors, in feed order.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	const query = `
		SELECT s.id, s.name, s.address, s.lat, s.lng,
			COALESCE(array_to_json(s.amenities), '[]')::text,
			s.operating_hours, s.status, s.loyalty_points,
			s.peak_start, s.peak_end, s.peak_multiplier,
			c.type, c.power, c.price, c.available
		FROM stations s
		LEFT JOIN station_connectors c ON c.station_id = s.id
		ORDER BY s.position, s.id, c.position
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: list stations: %w", err)
	}
	defer rows.Close()

	var (
		stations []models.Station
		index    = make(map[string]int)
	)
	for rows.Next() {
		var (
			st        models.Station
			amenities string
			peakStart sql.NullString
			peakEnd   sql.NullString
			peakMult  sql.NullFloat64
			connType  sql.NullString
			connPower sql.NullString
			connPrice sql.NullFloat64
			connAvail sql.NullBool
		)
		if err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Address,
			&st.Coordinates.Lat,
			&st.Coordinates.Lng,
			&amenities,
			&st.OperatingHours,
			&st.Status,
			&st.LoyaltyPoints,
			&peakStart,
			&peakEnd,
			&peakMult,
			&connType,
			&connPower,
			&connPrice,
			&connAvail,
		); err != nil {
			return nil, fmt.Errorf("repository: scan station: %w", err)
		}

		idx, seen := index[st.ID]
		if !seen {
			if st.Status == "" {
				st.Status = models.StationOnline
			}
			if !st.Status.Valid() {
				return nil, fmt.Errorf("repository: station %s has unknown status %q", st.ID, st.Status)
			}
			if err := json.Unmarshal([]byte(amenities), &st.Amenities); err != nil {
				return nil, fmt.Errorf("repository: station %s amenities: %w", st.ID, err)
			}
			if peakStart.Valid && peakEnd.Valid {
				st.PeakHours = &models.PeakHours{
					Start:      peakStart.String,
					End:        peakEnd.String,
					Multiplier: peakMult.Float64,
				}
			}
			st.Connectors = []models.Connector{}
			idx = len(stations)
			index[st.ID] = idx
			stations = append(stations, st)
		}

		if connType.Valid {
			stations[idx].Connectors = append(stations[idx].Connectors, models.Connector{
				Type:      connType.String,
				Power:     connPower.String,
				Price:     connPrice.Float64,
				Available: connAvail.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate stations: %w", err)
	}
	return stations, nil
}
