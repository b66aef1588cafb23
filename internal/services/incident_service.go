package services

import (
	"context"
	"fmt"
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/logging"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// IncidentService owns the incident lifecycle and its side effects on
// allocations. Declaring an incident, or reopening a resolved one, blocks
// the stand and cascades the stand's future flights back through the
// allocation engine.
type IncidentService struct {
	incidents *repositories.IncidentRepository
	stands    *repositories.StandRepository
	engine    *AllocationService
}

// NewIncidentService creates a new incident service
func NewIncidentService(
	incidents *repositories.IncidentRepository,
	stands *repositories.StandRepository,
	engine *AllocationService,
) *IncidentService {
	return &IncidentService{
		incidents: incidents,
		stands:    stands,
		engine:    engine,
	}
}

// Declare records a new incident on a stand and cascades the stand's future
// allocations. Returns the incident and the number of flights released.
func (s *IncidentService) Declare(ctx context.Context, incident *models.Incident) (int, error) {
	stand, err := s.stands.GetByID(ctx, incident.StandID)
	if err != nil {
		return 0, err
	}
	if stand == nil {
		return 0, fmt.Errorf("%s: %s", constants.MsgStandNotFound, incident.StandID)
	}

	if err := s.incidents.Create(ctx, incident); err != nil {
		return 0, err
	}

	logging.Warn("Incident declared",
		"stand", stand.OperationalName,
		"type", incident.TypeIncident,
	)

	released, err := s.engine.CascadeRelease(ctx, stand.ID)
	if err != nil {
		// The incident record is in place; the cascade can be retried
		logging.Error("Incident cascade failed",
			"stand", stand.OperationalName,
			"error", err.Error(),
		)
		return 0, err
	}

	return released, nil
}

// Transition moves an incident to a new status.
//
// The resolution timestamp is managed here: set when entering RESOLVED,
// cleared on reopen. Reopening a RESOLVED incident re-blocks the stand and
// triggers a cascade exactly like a fresh declaration. Resolving the last
// active incident on a stand restores the manual availability flag so the
// stand returns to the eligible pool.
// Returns the number of flights released by a reopen cascade (0 otherwise).
func (s *IncidentService) Transition(ctx context.Context, incidentID string, newStatus constants.IncidentStatus) (*models.Incident, int, error) {
	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		return nil, 0, err
	}
	if incident == nil {
		return nil, 0, nil
	}

	wasResolved := incident.Status == string(constants.IncidentResolved)

	if err := s.incidents.UpdateStatus(ctx, incident, newStatus, time.Now()); err != nil {
		return nil, 0, err
	}

	released := 0

	switch {
	case newStatus == constants.IncidentResolved:
		if err := s.restoreStandIfClear(ctx, incident); err != nil {
			return nil, 0, err
		}

	case wasResolved:
		// RESOLVED -> OPEN/IN_PROGRESS re-blocks the stand
		released, err = s.engine.CascadeRelease(ctx, incident.StandID)
		if err != nil {
			return nil, 0, err
		}
	}

	return incident, released, nil
}

// restoreStandIfClear flips availability back on when no other active
// incident remains on the stand
func (s *IncidentService) restoreStandIfClear(ctx context.Context, incident *models.Incident) error {
	stillBlocked, err := s.incidents.HasOtherActiveForStand(ctx, incident.StandID, incident.ID)
	if err != nil {
		return err
	}
	if stillBlocked {
		logging.Info("Incident resolved, stand still blocked by other incidents",
			"stand_id", incident.StandID,
		)
		return nil
	}

	if err := s.stands.SetAvailability(ctx, incident.StandID, true); err != nil {
		return err
	}

	logging.Info("Incident resolved, stand back in service",
		"stand_id", incident.StandID,
	)
	return nil
}

// List returns all incidents, newest first
func (s *IncidentService) List(ctx context.Context) ([]models.Incident, error) {
	return s.incidents.List(ctx)
}
