package models

import "time"

// Review is a rating left by a user for a station.
type Review struct {
	ID          string    `yaml:"id" json:"id"`
	StationID   string    `yaml:"stationId" json:"stationId"`
	StationName string    `yaml:"stationName" json:"stationName"`
	UserID      string    `yaml:"userId" json:"userId"`
	UserName    string    `yaml:"userName" json:"userName"`
	Rating      int       `yaml:"rating" json:"rating"`
	Comment     string    `yaml:"comment" json:"comment"`
	Date        time.Time `yaml:"date" json:"date"`
	Likes       int       `yaml:"likes" json:"likes"`
}
