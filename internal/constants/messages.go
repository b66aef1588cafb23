package constants

const (
	MsgFlightNotFound        = "Flight not found"
	MsgFlightNotAllocated    = "Flight is not allocated, nothing to reallocate"
	MsgFlightNoStand         = "Flight has no allocated stand"
	MsgStandNoIncident       = "Stand has no active incident, reallocation cancelled"
	MsgNoAlternativeFound    = "Flight returned to pending queue, no alternative stand found"
	MsgStandNotFound         = "Stand not found"
	MsgStandHasFutureFlights = "Stand still has future allocated flights"
	MsgIncidentNotFound      = "Incident not found"
)
