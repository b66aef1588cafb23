package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/models/dtos"
	"smartpark-alliance/smartpark/internal/services"
)

// CreateFlightHandler handles POST /api/v1/flights
func CreateFlightHandler(flights *services.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateFlightRequest
		if !decodeBody(w, r, &req) {
			return
		}

		flight, err := flights.Create(r.Context(), &req)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusCreated, flight)
	}
}

// GetFlightHandler handles GET /api/v1/flights/{flightID}
func GetFlightHandler(flights *services.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flight, err := flights.Get(r.Context(), chi.URLParam(r, "flightID"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if flight == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgFlightNotFound)
			return
		}

		respondWithSuccess(w, http.StatusOK, flight)
	}
}

// ListFlightsHandler handles GET /api/v1/flights with an optional
// ?date=2006-01-02 day filter (today's, tomorrow's or any future board)
func ListFlightsHandler(flights *services.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var day *time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
				return
			}
			day = &parsed
		}

		list, err := flights.List(r.Context(), day)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &list)
	}
}

// UpdateFlightHandler handles PUT /api/v1/flights/{flightID}. A schedule
// change resets the flight to PENDING; the caller is expected to trigger a
// batch run afterwards (or wait for the next one).
func UpdateFlightHandler(flights *services.FlightService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateFlightRequest
		if !decodeBody(w, r, &req) {
			return
		}

		flight, rescheduled, err := flights.Update(r.Context(), chi.URLParam(r, "flightID"), &req)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if flight == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgFlightNotFound)
			return
		}

		if rescheduled {
			dashboard.Invalidate()
		}
		respondWithSuccess(w, http.StatusOK, flight)
	}
}

// DeleteFlightHandler handles DELETE /api/v1/flights/{flightID}
func DeleteFlightHandler(flights *services.FlightService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightID := chi.URLParam(r, "flightID")

		flight, err := flights.Get(r.Context(), flightID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if flight == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgFlightNotFound)
			return
		}

		if err := flights.Delete(r.Context(), flightID); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		dashboard.Invalidate()
		respondWithSuccess(w, http.StatusOK, flight)
	}
}
