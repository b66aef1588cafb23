package constants

type (
	FlightStatus     string
	IncidentStatus   string
	OperationalState string
	CachePrefix      string
)

const (
	FlightPending   FlightStatus = "PENDING"
	FlightAllocated FlightStatus = "ALLOCATED"
	FlightCompleted FlightStatus = "COMPLETED"

	IncidentOpen       IncidentStatus = "OPEN"
	IncidentInProgress IncidentStatus = "IN_PROGRESS"
	IncidentResolved   IncidentStatus = "RESOLVED"

	StateOutOfService OperationalState = "OUT_OF_SERVICE"
	StateOccupied     OperationalState = "OCCUPIED"
	StateFree         OperationalState = "FREE"

	CachePrefixDashboard CachePrefix = "DASH_"
)

// ActiveIncidentStatuses are the incident statuses that block a stand
var ActiveIncidentStatuses = []string{string(IncidentOpen), string(IncidentInProgress)}

// ValidFlightStatus reports whether s is one of the known flight statuses
func ValidFlightStatus(s string) bool {
	switch FlightStatus(s) {
	case FlightPending, FlightAllocated, FlightCompleted:
		return true
	}
	return false
}

// ValidIncidentStatus reports whether s is one of the known incident statuses
func ValidIncidentStatus(s string) bool {
	switch IncidentStatus(s) {
	case IncidentOpen, IncidentInProgress, IncidentResolved:
		return true
	}
	return false
}
