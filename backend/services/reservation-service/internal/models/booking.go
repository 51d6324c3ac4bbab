package models

import "time"

// BookingStatus tracks the lifecycle of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Vehicle describes the car being charged.
type Vehicle struct {
	Make          string  `yaml:"make" json:"make"`
	Model         string  `yaml:"model" json:"model"`
	BatterySize   float64 `yaml:"batterySize" json:"batterySize"`
	CurrentCharge float64 `yaml:"currentCharge" json:"currentCharge"`
}

// Booking is a committed charging reservation.
type Booking struct {
	ID                  string        `yaml:"id" json:"id"`
	StationID           string        `yaml:"stationId" json:"stationId"`
	StationName         string        `yaml:"stationName" json:"stationName"`
	ConnectorType       string        `yaml:"connectorType" json:"connectorType"`
	Date                string        `yaml:"date" json:"date"`
	Time                string        `yaml:"time" json:"time"`
	Duration            float64       `yaml:"duration" json:"duration"`
	Vehicle             Vehicle       `yaml:"vehicle" json:"vehicle"`
	TotalCost           float64       `yaml:"totalCost" json:"totalCost"`
	Status              BookingStatus `yaml:"status" json:"status"`
	LoyaltyPointsEarned int           `yaml:"loyaltyPointsEarned" json:"loyaltyPointsEarned"`
	CreatedAt           time.Time     `yaml:"createdAt" json:"createdAt"`
}
