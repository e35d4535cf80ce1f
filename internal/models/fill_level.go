package models

import "strings"

// FillLevel is the coarse classification of a container's fill state,
// derived from the raw tag the backend attaches to dumpsters and usage
// records.
type FillLevel int

const (
	// FillUnknown is the catch-all for unrecognized or absent tags.
	FillUnknown FillLevel = iota
	// FillLow corresponds to the "GREEN" tag.
	FillLow
	// FillMedium corresponds to the "ORANGE" tag.
	FillMedium
	// FillFull corresponds to the "RED" tag.
	FillFull
)

// ParseFillLevel maps a raw server tag to a FillLevel. Matching is
// case-insensitive; anything unrecognized maps to FillUnknown.
func ParseFillLevel(tag string) FillLevel {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "GREEN":
		return FillLow
	case "ORANGE":
		return FillMedium
	case "RED":
		return FillFull
	default:
		return FillUnknown
	}
}

// String returns the display label for the level.
func (f FillLevel) String() string {
	switch f {
	case FillLow:
		return "Low"
	case FillMedium:
		return "Medium"
	case FillFull:
		return "Full"
	default:
		return "Unknown"
	}
}
