package services

import (
	"context"
	"fmt"
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/models/dtos"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// FlightService owns flight record lifecycle outside the allocation engine:
// creation with aircraft reuse, and schedule edits that knock a flight back
// into the pending queue.
type FlightService struct {
	flights  *repositories.FlightRepository
	aircraft *repositories.AircraftRepository
}

// NewFlightService creates a new flight service
func NewFlightService(
	flights *repositories.FlightRepository,
	aircraft *repositories.AircraftRepository,
) *FlightService {
	return &FlightService{
		flights:  flights,
		aircraft: aircraft,
	}
}

// Create registers a new flight in PENDING. When the request carries an
// aircraft payload, an existing airframe with the same registration is
// reused; otherwise a new one is created.
func (s *FlightService) Create(ctx context.Context, req *dtos.CreateFlightRequest) (*models.Flight, error) {
	if req.ArrivalNumber == "" {
		return nil, fmt.Errorf("arrival number is required")
	}

	flight := &models.Flight{
		ArrivalNumber:   req.ArrivalNumber,
		DepartureNumber: req.DepartureNumber,
		OccupationStart: req.OccupationStart,
		OccupationEnd:   req.OccupationEnd,
		Origin:          req.Origin,
		Destination:     req.Destination,
	}

	if req.Aircraft != nil && req.Aircraft.Registration != "" {
		ac, err := s.resolveAircraft(ctx, req.Aircraft)
		if err != nil {
			return nil, err
		}
		flight.AircraftID = &ac.ID
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}

	logging.Info("Flight created", "flight", flight.ArrivalNumber)
	return flight, nil
}

// Update edits a flight's schedule and route. When either occupation
// endpoint changes, the allocation no longer holds: the flight drops back to
// PENDING with its stand cleared, to be picked up by the next batch run.
// The second return reports whether that reset happened.
func (s *FlightService) Update(ctx context.Context, flightID string, req *dtos.UpdateFlightRequest) (*models.Flight, bool, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, false, err
	}
	if flight == nil {
		return nil, false, nil
	}

	rescheduled := !sameInstant(flight.OccupationStart, req.OccupationStart) ||
		!sameInstant(flight.OccupationEnd, req.OccupationEnd)

	if req.ArrivalNumber != "" {
		flight.ArrivalNumber = req.ArrivalNumber
	}
	flight.DepartureNumber = req.DepartureNumber
	flight.OccupationStart = req.OccupationStart
	flight.OccupationEnd = req.OccupationEnd
	flight.Origin = req.Origin
	flight.Destination = req.Destination

	if rescheduled {
		flight.Status = string(constants.FlightPending)
		flight.StandID = nil
		flight.Stand = nil
	}

	if err := s.flights.Update(ctx, flight); err != nil {
		return nil, false, err
	}

	if rescheduled {
		logging.Info("Flight schedule changed, returned to pending queue",
			"flight", flight.ArrivalNumber,
		)
	}

	return flight, rescheduled, nil
}

// Get returns a flight with its aircraft and stand, nil when unknown
func (s *FlightService) Get(ctx context.Context, flightID string) (*models.Flight, error) {
	return s.flights.GetByID(ctx, flightID)
}

// List returns flights, restricted to one calendar day when day is non-zero
func (s *FlightService) List(ctx context.Context, day *time.Time) ([]models.Flight, error) {
	if day != nil {
		return s.flights.ListActiveByDay(ctx, *day)
	}
	return s.flights.List(ctx)
}

// Delete removes a flight
func (s *FlightService) Delete(ctx context.Context, flightID string) error {
	return s.flights.Delete(ctx, flightID)
}

func (s *FlightService) resolveAircraft(ctx context.Context, payload *dtos.AircraftPayload) (*models.Aircraft, error) {
	existing, err := s.aircraft.GetByRegistration(ctx, payload.Registration)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if payload.Length <= 0 || payload.Width <= 0 {
		return nil, fmt.Errorf("aircraft %s: dimensions must be positive", payload.Registration)
	}

	ac := &models.Aircraft{
		Registration: payload.Registration,
		Length:       payload.Length,
		Width:        payload.Width,
		TypeCode:     payload.TypeCode,
		Description:  payload.Description,
	}
	if err := s.aircraft.Create(ctx, ac); err != nil {
		return nil, err
	}
	return ac, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
