package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ecocharge/backend/services/reservation-service/internal/models"
)

// SeedUser is a user record as written in a seed file. Password is plain text and is hashed
// before the user reaches the store.
type SeedUser struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

// Seed is the content of a catalog seed file.
type Seed struct {
	Stations []models.Station `yaml:"stations"`
	Users    []SeedUser       `yaml:"users"`
}

// LoadSeedFile reads stations and users from a YAML (or JSON) document.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document and fills defaults the feed may omit.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("catalog: decode seed: %w", err)
	}
	for i := range seed.Stations {
		st := &seed.Stations[i]
		if st.Status == "" {
			st.Status = models.StationOnline
		}
		if !st.Status.Valid() {
			return nil, fmt.Errorf("catalog: station %s has unknown status %q", st.ID, st.Status)
		}
	}
	for i := range seed.Users {
		if seed.Users[i].Role == "" {
			seed.Users[i].Role = models.RoleUser
		}
	}
	return &seed, nil
}
