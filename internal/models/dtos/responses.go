package dtos

import (
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// APIResponse is the envelope for every JSON response
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// AllocationRunResult reports the outcome of one batch run
type AllocationRunResult struct {
	Allocated   int `json:"allocated"`
	Unallocated int `json:"unallocated"`
}

// ReallocationResult reports the outcome of a forced single-flight reallocation
type ReallocationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IncidentImpact reports an incident mutation and the flights it displaced
type IncidentImpact struct {
	Incident *models.Incident `json:"incident"`
	Released int              `json:"released"`
}

// StandDetail is the full display view of one stand: the derived operational
// state plus everything a controller needs to judge it
type StandDetail struct {
	Stand             *models.Stand              `json:"stand"`
	OperationalState  constants.OperationalState `json:"operational_state"`
	CurrentOccupant   *models.Flight             `json:"current_occupant,omitempty"`
	FutureAllocations []models.Flight            `json:"future_allocations"`
	ActiveIncidents   []models.Incident          `json:"active_incidents"`
}

// StandStats is the dashboard breakdown of the stand pool
type StandStats struct {
	Total     int64 `json:"total"`
	Occupied  int64 `json:"occupied"`
	Blocked   int64 `json:"blocked"`
	Available int64 `json:"available"`
}

// FlightStats is the dashboard breakdown of flights
type FlightStats struct {
	Pending         int64 `json:"pending"`
	Allocated       int64 `json:"allocated"`
	AllocatedFuture int64 `json:"allocated_future"`
	InProgress      int64 `json:"in_progress"`
}

// DashboardStats is the aggregate snapshot served at /api/v1/dashboard
type DashboardStats struct {
	Stands          StandStats  `json:"stands"`
	Flights         FlightStats `json:"flights"`
	ActiveIncidents int64       `json:"active_incidents"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// ArchiveRunResult reports the outcome of one archival sweep
type ArchiveRunResult struct {
	Archived int `json:"archived"`
}
