// Package models defines the core data structures exchanged with the
// waste-management backend: dumpsters, recycling plants, and usage records.
package models

// Dumpster represents a physical waste container tracked by the backend.
type Dumpster struct {
	// ID is assigned by the server on creation and absent until then.
	ID *int64 `json:"id,omitempty"`
	// Location is the street address of the container. The wire name is
	// "address" for compatibility with the backend.
	Location string `json:"address"`
	// PostalCode locates the container; valid range is [1000, 99999].
	PostalCode int `json:"postalCode"`
	// Capacity is the total volume of the container in liters.
	Capacity int `json:"capacity"`
	// CurrentFill is the currently used volume in liters.
	CurrentFill int `json:"currentFill"`
	// FillLevelTag is the raw server-side classification tag
	// (e.g. "GREEN", "ORANGE", "RED"). Use FillLevel to interpret it.
	FillLevelTag string `json:"fillLevel,omitempty"`
	// AssignedPlant is the recycling plant this container is assigned to,
	// if any. The backend owns this relationship.
	AssignedPlant *RecyclingPlant `json:"assignedPlant,omitempty"`
}

// FillLevel interprets the raw server tag as a FillLevel value.
func (d *Dumpster) FillLevel() FillLevel {
	return ParseFillLevel(d.FillLevelTag)
}

// FillPercentage returns the fill ratio as a percentage. It is 0 when the
// capacity is zero so callers never divide by zero on partial data.
func (d *Dumpster) FillPercentage() float64 {
	if d.Capacity == 0 {
		return 0
	}
	return float64(d.CurrentFill) * 100.0 / float64(d.Capacity)
}

// RecyclingPlant represents a destination facility. Identity is by Name;
// the client never mutates Assignments, the backend returns updated state.
type RecyclingPlant struct {
	// Name uniquely identifies the plant.
	Name string `json:"name"`
	// Location is the street address of the plant.
	Location string `json:"location"`
	// PostalCode locates the plant.
	PostalCode int `json:"postalCode"`
	// MaxCapacity is the processing limit of the plant in liters.
	MaxCapacity int `json:"maxCapacity"`
	// CurrentFill is the currently committed volume in liters.
	CurrentFill int `json:"currentFill"`
	// Assignments lists the dumpsters currently assigned to the plant.
	Assignments []Dumpster `json:"assignments,omitempty"`
}

// UsageRecord is a read-only entry of a dumpster's usage history,
// produced only by range queries.
type UsageRecord struct {
	// DumpsterID identifies the container the record belongs to.
	DumpsterID int64 `json:"dumpsterId"`
	// Date is the calendar day the record covers.
	Date Date `json:"date"`
	// EstimatedContainers is the estimated container count for the day.
	// The wire name is "estimatedNumCont" for backend compatibility.
	EstimatedContainers int `json:"estimatedNumCont"`
	// FillLevelTag is the raw fill classification tag for the day.
	FillLevelTag string `json:"fillLevel"`
}

// AssignRequest is the payload of the plant-assignment endpoint.
type AssignRequest struct {
	PlantName   string  `json:"plantName"`
	DumpsterIDs []int64 `json:"dumpsterIds"`
}

// Credentials is the payload of the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
