package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartpark-alliance/smartpark/internal/db/repositories"
)

// ListAircraftHandler handles GET /api/v1/aircraft
func ListAircraftHandler(aircraft *repositories.AircraftRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fleet, err := aircraft.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &fleet)
	}
}

// GetAircraftHandler handles GET /api/v1/aircraft/{aircraftID}
func GetAircraftHandler(aircraft *repositories.AircraftRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, err := aircraft.GetByID(r.Context(), chi.URLParam(r, "aircraftID"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ac == nil {
			respondWithError(w, http.StatusNotFound, "Aircraft not found")
			return
		}

		respondWithSuccess(w, http.StatusOK, ac)
	}
}
