package services

import (
	"context"
	"fmt"
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/metrics"
)

// AllocationService is the allocation engine. It matches pending flights to
// eligible stands and drives the reallocation workflow after incidents and
// schedule edits.
//
// Runs are synchronous and single-writer by design: each batch, single
// reallocation or cascade runs to completion before the next begins. The only
// locking relied upon is the atomicity of single-flight commits in the
// flight repository.
type AllocationService struct {
	flights   *repositories.FlightRepository
	stands    *repositories.StandRepository
	incidents *repositories.IncidentRepository
	metrics   *metrics.Registry
}

// NewAllocationService creates a new allocation engine
func NewAllocationService(
	flights *repositories.FlightRepository,
	stands *repositories.StandRepository,
	incidents *repositories.IncidentRepository,
	reg *metrics.Registry,
) *AllocationService {
	return &AllocationService{
		flights:   flights,
		stands:    stands,
		incidents: incidents,
		metrics:   reg,
	}
}

// RunBatch matches pending flights to stands, earliest occupation start
// first. When flightIDs is non-empty only that subset is considered;
// otherwise every PENDING flight is processed.
//
// Commits happen flight by flight: a stand taken by an earlier flight in the
// batch is seen as conflicting by every later flight. One flight failing to
// commit never aborts the rest of the batch. "No stand found" is a normal
// outcome reported through the unallocated count, never an error.
func (s *AllocationService) RunBatch(ctx context.Context, flightIDs []string) (int, int, error) {
	started := time.Now()

	flights, err := s.flights.PendingFlights(ctx, flightIDs)
	if err != nil {
		return 0, 0, fmt.Errorf("allocation batch: %w", err)
	}

	// Fetched once per batch. A stand blocked mid-batch by a concurrent
	// incident is still filtered out per flight by the conflict check.
	stands, err := s.stands.EligibleStands(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("allocation batch: %w", err)
	}

	allocated := 0
	unallocated := 0

	for i := range flights {
		flight := &flights[i]

		if flight.Aircraft == nil || !flight.HasSchedule() {
			logging.Warn("Flight skipped: aircraft or occupation interval missing",
				"flight", flight.ArrivalNumber,
			)
			unallocated++
			continue
		}

		start := *flight.OccupationStart
		end := *flight.OccupationEnd

		chosen, err := selectStand(flight.Aircraft, stands, func(standID string) (bool, error) {
			return s.flights.HasConflict(ctx, standID, start, end)
		})
		if err != nil {
			logging.Error("Flight skipped: conflict check failed",
				"flight", flight.ArrivalNumber,
				"error", err.Error(),
			)
			unallocated++
			continue
		}

		if chosen == nil {
			logging.Warn("No compatible stand found",
				"flight", flight.ArrivalNumber,
				"length", flight.Aircraft.Length,
				"width", flight.Aircraft.Width,
			)
			unallocated++
			continue
		}

		if err := s.flights.CommitAllocation(ctx, flight.ID, chosen.ID); err != nil {
			logging.Error("Allocation commit failed",
				"flight", flight.ArrivalNumber,
				"stand", chosen.OperationalName,
				"error", err.Error(),
			)
			unallocated++
			continue
		}

		logging.Info("Flight allocated",
			"flight", flight.ArrivalNumber,
			"stand", chosen.OperationalName,
		)
		allocated++
	}

	s.metrics.AddAllocated(allocated)
	s.metrics.AddUnallocated(unallocated)
	s.metrics.ObserveBatchDuration(time.Since(started).Seconds())

	return allocated, unallocated, nil
}

// ReallocateFlight forces a single allocated flight off a stand that has an
// active incident and tries to find it a new stand. Every unmet precondition
// returns (false, reason) and changes nothing.
func (s *AllocationService) ReallocateFlight(ctx context.Context, flightID string) (bool, string, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return false, "", err
	}
	if flight == nil {
		return false, constants.MsgFlightNotFound, nil
	}

	if flight.Status != string(constants.FlightAllocated) {
		return false, fmt.Sprintf("Flight %s: %s", flight.ArrivalNumber, constants.MsgFlightNotAllocated), nil
	}

	oldStand := flight.Stand
	if oldStand == nil {
		return false, fmt.Sprintf("Flight %s: %s", flight.ArrivalNumber, constants.MsgFlightNoStand), nil
	}

	active, err := s.incidents.HasActiveForStand(ctx, oldStand.ID)
	if err != nil {
		return false, "", err
	}
	if !active {
		return false, fmt.Sprintf("Stand %s: %s", oldStand.OperationalName, constants.MsgStandNoIncident), nil
	}

	if err := s.flights.ResetToPending(ctx, flight.ID); err != nil {
		return false, "", err
	}

	allocated, _, err := s.RunBatch(ctx, []string{flight.ID})
	if err != nil {
		return false, "", err
	}

	if allocated == 0 {
		return false, fmt.Sprintf("Flight %s: %s", flight.ArrivalNumber, constants.MsgNoAlternativeFound), nil
	}

	updated, err := s.flights.GetByID(ctx, flight.ID)
	if err != nil || updated == nil || updated.Stand == nil {
		// Committed but unreadable; report success without the new name
		return true, fmt.Sprintf("Flight %s reallocated from %s", flight.ArrivalNumber, oldStand.OperationalName), nil
	}

	return true, fmt.Sprintf("Flight %s reallocated from %s to %s",
		flight.ArrivalNumber, oldStand.OperationalName, updated.Stand.OperationalName), nil
}

// CascadeRelease reacts to a stand becoming blocked: every flight allocated
// to it whose occupation has not started yet is reset to PENDING, then the
// engine is re-run on exactly that released set. Flights already in progress
// stay where they are.
//
// Returns how many flights were released. How many found a new stand is
// reported by the engine's own counts in the log.
func (s *AllocationService) CascadeRelease(ctx context.Context, standID string) (int, error) {
	affected, err := s.flights.FutureAllocatedOnStand(ctx, standID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("cascade release: %w", err)
	}

	if len(affected) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(affected))
	for _, flight := range affected {
		ids = append(ids, flight.ID)
	}

	if err := s.flights.BulkReset(ctx, ids); err != nil {
		return 0, fmt.Errorf("cascade release: %w", err)
	}

	s.metrics.AddReleased(len(ids))
	logging.Warn("Flights released from blocked stand",
		"stand_id", standID,
		"released", len(ids),
	)

	allocated, unallocated, err := s.RunBatch(ctx, ids)
	if err != nil {
		return len(ids), fmt.Errorf("cascade release: re-allocation failed: %w", err)
	}

	logging.Info("Cascade re-allocation finished",
		"stand_id", standID,
		"released", len(ids),
		"reallocated", allocated,
		"unplaced", unallocated,
	)

	return len(ids), nil
}
