package services

import (
	"context"
	"time"

	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/metrics"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// ArchiveService moves allocated flights whose occupation has ended to
// COMPLETED and writes a denormalized snapshot into allocation_history.
// Normally driven by the periodic archive job.
type ArchiveService struct {
	flights *repositories.FlightRepository
	history *repositories.HistoryRepository
	metrics *metrics.Registry
}

// NewArchiveService creates a new archive service
func NewArchiveService(
	flights *repositories.FlightRepository,
	history *repositories.HistoryRepository,
	reg *metrics.Registry,
) *ArchiveService {
	return &ArchiveService{
		flights: flights,
		history: history,
		metrics: reg,
	}
}

// CompleteElapsed archives every ALLOCATED flight whose occupation end has
// passed. Each flight is handled independently; one failing flight does not
// stop the sweep. Returns the number of flights archived.
func (s *ArchiveService) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.flights.ElapsedAllocated(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	archived := 0
	for i := range elapsed {
		flight := &elapsed[i]

		record := snapshotOf(flight)
		if err := s.history.Insert(ctx, record); err != nil {
			logging.Error("Archive sweep: history insert failed",
				"flight", flight.ArrivalNumber,
				"error", err.Error(),
			)
			continue
		}

		if err := s.flights.MarkCompleted(ctx, flight.ID); err != nil {
			logging.Error("Archive sweep: completion failed",
				"flight", flight.ArrivalNumber,
				"error", err.Error(),
			)
			continue
		}

		archived++
	}

	if archived > 0 {
		s.metrics.AddArchived(archived)
		logging.Info("Archive sweep finished", "archived", archived)
	}

	return archived, nil
}

// snapshotOf flattens a flight and its relations into one archive row
func snapshotOf(flight *models.Flight) *models.AllocationHistory {
	record := &models.AllocationHistory{
		ArrivalNumber:   flight.ArrivalNumber,
		DepartureNumber: flight.DepartureNumber,
		OccupationStart: flight.OccupationStart,
		OccupationEnd:   flight.OccupationEnd,
		Origin:          flight.Origin,
		Destination:     flight.Destination,
	}
	if flight.Stand != nil {
		record.StandName = flight.Stand.OperationalName
	}
	if flight.Aircraft != nil {
		record.AircraftRegistration = flight.Aircraft.Registration
		record.AircraftType = flight.Aircraft.TypeCode
		record.AircraftDescription = flight.Aircraft.Description
	}
	return record
}
