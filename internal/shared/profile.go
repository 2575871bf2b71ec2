package shared

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"revenue_optimizer/internal/domain"
)

type profileDoc struct {
	Name       string  `yaml:"name"`
	Category   string  `yaml:"category"`
	Location   string  `yaml:"location"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	TotalRooms int     `yaml:"total_rooms"`
	Pricing    struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"pricing"`
	Targets struct {
		RevPAR    float64 `yaml:"revpar"`
		ADR       float64 `yaml:"adr"`
		Occupancy float64 `yaml:"occupancy"` // fraction
	} `yaml:"targets"`
}

// LoadProfile reads the static hotel configuration from a YAML file.
func LoadProfile(path string) (*domain.HotelProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	return ParseProfile(raw)
}

func ParseProfile(raw []byte) (*domain.HotelProfile, error) {
	var doc profileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("profile: name is required")
	}
	if doc.Pricing.Min < 0 || (doc.Pricing.Max > 0 && doc.Pricing.Max < doc.Pricing.Min) {
		return nil, fmt.Errorf("profile: inconsistent pricing bounds [%.2f, %.2f]", doc.Pricing.Min, doc.Pricing.Max)
	}
	if doc.Targets.Occupancy < 0 || doc.Targets.Occupancy > 1 {
		return nil, fmt.Errorf("profile: occupancy target %.2f must be a [0,1] fraction", doc.Targets.Occupancy)
	}
	return &domain.HotelProfile{
		Name:            doc.Name,
		Category:        doc.Category,
		Location:        doc.Location,
		Latitude:        doc.Latitude,
		Longitude:       doc.Longitude,
		TotalRooms:      doc.TotalRooms,
		MinPrice:        doc.Pricing.Min,
		MaxPrice:        doc.Pricing.Max,
		RevPARTarget:    doc.Targets.RevPAR,
		ADRTarget:       doc.Targets.ADR,
		OccupancyTarget: doc.Targets.Occupancy,
	}, nil
}
