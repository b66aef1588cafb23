package dtos

import "time"

// CreateFlightRequest creates a flight, optionally creating or reusing an
// aircraft by registration in the same call
type CreateFlightRequest struct {
	ArrivalNumber   string           `json:"arrival_number"`
	DepartureNumber string           `json:"departure_number"`
	OccupationStart *time.Time       `json:"occupation_start"`
	OccupationEnd   *time.Time       `json:"occupation_end"`
	Origin          string           `json:"origin"`
	Destination     string           `json:"destination"`
	Aircraft        *AircraftPayload `json:"aircraft,omitempty"`
}

// AircraftPayload identifies or describes an aircraft. When an airframe with
// the given registration already exists it is reused and the dimensions here
// are ignored.
type AircraftPayload struct {
	Registration string  `json:"registration"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	TypeCode     string  `json:"type_code"`
	Description  string  `json:"description"`
}

// UpdateFlightRequest edits a flight's schedule and route. Changing either
// occupation endpoint resets the flight to PENDING with no stand.
type UpdateFlightRequest struct {
	ArrivalNumber   string     `json:"arrival_number"`
	DepartureNumber string     `json:"departure_number"`
	OccupationStart *time.Time `json:"occupation_start"`
	OccupationEnd   *time.Time `json:"occupation_end"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
}

// CreateStandRequest creates a stand; availability is always true on creation
type CreateStandRequest struct {
	OperationalName    string  `json:"operational_name"`
	Length             float64 `json:"length"`
	Width              float64 `json:"width"`
	DistanceToTerminal int     `json:"distance_to_terminal"`
}

// UpdateStandRequest edits a stand, including the manual maintenance flag
type UpdateStandRequest struct {
	OperationalName    string  `json:"operational_name"`
	Length             float64 `json:"length"`
	Width              float64 `json:"width"`
	DistanceToTerminal int     `json:"distance_to_terminal"`
	Availability       bool    `json:"availability"`
}

// DeclareIncidentRequest reports a new incident on a stand
type DeclareIncidentRequest struct {
	StandID      string `json:"stand_id"`
	TypeIncident string `json:"type_incident"`
	Description  string `json:"description"`
}

// TransitionIncidentRequest moves an incident to a new status
type TransitionIncidentRequest struct {
	Status string `json:"status"`
}

// RunBatchRequest optionally restricts a batch run to a flight subset
type RunBatchRequest struct {
	FlightIDs []string `json:"flight_ids,omitempty"`
}
