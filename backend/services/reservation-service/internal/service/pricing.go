package service

import (
	"fmt"
	"math"

	"ecocharge/backend/services/reservation-service/internal/models"
)

const (
	// loyaltyPointsPerUnit is the reward per currency unit spent.
	loyaltyPointsPerUnit = 2
	// referenceBatteryKWh scales cost by battery size: a 100 kWh pack draws one full unit.
	referenceBatteryKWh = 100.0

	firstSlotHour = 6
	lastSlotHour  = 22
	slotMinutes   = 30
)

// PriceInput is everything the calculator needs for one session.
type PriceInput struct {
	ConnectorPrice float64
	PeakHours      *models.PeakHours
	Time           string
	Duration       float64
	BatterySize    float64
}

// PriceBreakdown itemizes a quote so callers can render it without recomputing.
type PriceBreakdown struct {
	BasePrice           float64 `json:"basePrice"`
	PeakMultiplier      float64 `json:"peakMultiplier"`
	IsPeak              bool    `json:"isPeak"`
	EffectiveRate       float64 `json:"effectiveRate"`
	Duration            float64 `json:"duration"`
	BatterySize         float64 `json:"batterySize"`
	LoyaltyPointsEarned int     `json:"loyaltyPointsEarned"`
}

// PricingResult is a quote. A nil Breakdown marks the "not yet computable" state.
type PricingResult struct {
	Total     float64         `json:"total"`
	Breakdown *PriceBreakdown `json:"breakdown,omitempty"`
}

// Empty reports whether the result is the zero sentinel.
func (r PricingResult) Empty() bool {
	return r.Breakdown == nil
}

// LoyaltyPointsEarned returns the reward attached to the quote.
func (r PricingResult) LoyaltyPointsEarned() int {
	if r.Breakdown == nil {
		return 0
	}
	return r.Breakdown.LoyaltyPointsEarned
}

// Price computes cost as rate * duration * batterySize/100, with the peak multiplier applied to
// the rate when the start time falls inside the peak window. A missing connector (non-positive
// price) or a zero duration yields the empty result.
func Price(in PriceInput) PricingResult {
	if in.ConnectorPrice <= 0 || in.Duration <= 0 {
		return PricingResult{}
	}

	multiplier := 1.0
	peak := IsPeak(in.PeakHours, in.Time)
	if peak {
		multiplier = in.PeakHours.Multiplier
	}

	rate := in.ConnectorPrice * multiplier
	total := rate * in.Duration * (in.BatterySize / referenceBatteryKWh)

	return PricingResult{
		Total: total,
		Breakdown: &PriceBreakdown{
			BasePrice:           in.ConnectorPrice,
			PeakMultiplier:      multiplier,
			IsPeak:              peak,
			EffectiveRate:       rate,
			Duration:            in.Duration,
			BatterySize:         in.BatterySize,
			LoyaltyPointsEarned: LoyaltyPoints(total),
		},
	}
}

// IsPeak reports whether t lies in [start, end]. Times are zero-padded 24h "HH:MM" strings,
// which order correctly under plain string comparison. A multiplier below 1 disables the window.
func IsPeak(peak *models.PeakHours, t string) bool {
	if peak == nil || t == "" || peak.Multiplier < 1 {
		return false
	}
	return peak.Start <= t && t <= peak.End
}

// LoyaltyPoints converts spend into whole points, truncating fractions.
func LoyaltyPoints(total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(total * loyaltyPointsPerUnit))
}

// TimeSlots lists bookable start times from 06:00 to 22:30 in 30 minute steps.
func TimeSlots() []string {
	slots := make([]string, 0, (lastSlotHour-firstSlotHour+1)*(60/slotMinutes))
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		for minute := 0; minute < 60; minute += slotMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

func isTimeSlot(t string) bool {
	for _, slot := range TimeSlots() {
		if slot == t {
			return true
		}
	}
	return false
}

// Quote prices a session at station for the chosen connector type. Unknown connector types
// yield the empty result.
func Quote(station models.Station, connectorType, t string, duration, batterySize float64) PricingResult {
	connector, ok := station.Connector(connectorType)
	if !ok {
		return PricingResult{}
	}
	return Price(PriceInput{
		ConnectorPrice: connector.Price,
		PeakHours:      station.PeakHours,
		Time:           t,
		Duration:       duration,
		BatterySize:    batterySize,
	})
}
