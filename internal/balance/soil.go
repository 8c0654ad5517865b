// Package balance implements the daily soil water balance.
package balance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSoilType is returned when a soil name is not recognised.
var ErrInvalidSoilType = errors.New("soil type must be 'deep' or 'shallow'")

// Soil identifies a soil profile.
type Soil string

// Supported soils.
const (
	Deep    Soil = "deep"
	Shallow Soil = "shallow"
)

// Soils lists the supported soils in display order.
var Soils = []Soil{Deep, Shallow}

// Profile holds the storage parameters of a soil.
type Profile struct {
	// Capacity is the maximum soil moisture storage in mm.
	Capacity float64
	// GroundwaterFraction is the share of end-of-day soil moisture
	// reported as percolation.
	GroundwaterFraction float64
}

// ParseSoil normalises a user supplied soil name.
func ParseSoil(name string) (Soil, error) {
	soil := Soil(strings.ToLower(strings.TrimSpace(name)))
	switch soil {
	case Deep, Shallow:
		return soil, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidSoilType, name)
	}
}

// ParseSoilList parses a comma separated list of soils. "all" expands to
// every supported soil. Duplicates are dropped, order is kept.
func ParseSoilList(value string) ([]Soil, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "all") {
		return append([]Soil(nil), Soils...), nil
	}
	parts := strings.Split(value, ",")
	out := make([]Soil, 0, len(parts))
	seen := make(map[Soil]struct{}, len(parts))
	for _, part := range parts {
		soil, err := ParseSoil(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[soil]; ok {
			continue
		}
		seen[soil] = struct{}{}
		out = append(out, soil)
	}
	return out, nil
}

func (s Soil) String() string {
	return string(s)
}
