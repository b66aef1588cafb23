package services

import (
	"context"
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/db/repositories"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// StandStatusService derives the operational state of a stand from the
// availability flag, active incidents and allocated flights. The state is
// recomputed on every read and never written anywhere, so it cannot go stale.
type StandStatusService struct {
	flights   *repositories.FlightRepository
	incidents *repositories.IncidentRepository
}

// NewStandStatusService creates a new stand status service
func NewStandStatusService(
	flights *repositories.FlightRepository,
	incidents *repositories.IncidentRepository,
) *StandStatusService {
	return &StandStatusService{
		flights:   flights,
		incidents: incidents,
	}
}

// OperationalState computes the current state of a stand:
// OUT_OF_SERVICE when under maintenance or carrying an active incident,
// OCCUPIED when any flight is allocated to it (coarse on purpose, the
// allocation may lie in the future), FREE otherwise.
func (s *StandStatusService) OperationalState(ctx context.Context, stand *models.Stand) (constants.OperationalState, error) {
	if !stand.Availability {
		return constants.StateOutOfService, nil
	}

	blocked, err := s.incidents.HasActiveForStand(ctx, stand.ID)
	if err != nil {
		return "", err
	}
	if blocked {
		return constants.StateOutOfService, nil
	}

	occupied, err := s.flights.HasAllocatedOnStand(ctx, stand.ID)
	if err != nil {
		return "", err
	}
	if occupied {
		return constants.StateOccupied, nil
	}

	return constants.StateFree, nil
}

// CurrentOccupant returns the allocated flight whose occupation interval
// contains the current instant, nil when the stand is physically empty
func (s *StandStatusService) CurrentOccupant(ctx context.Context, stand *models.Stand) (*models.Flight, error) {
	return s.flights.OccupantAt(ctx, stand.ID, time.Now())
}
