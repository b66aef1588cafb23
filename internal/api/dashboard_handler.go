package api

import (
	"net/http"

	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/services"
)

// DashboardHandler handles GET /api/v1/dashboard
func DashboardHandler(dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := dashboard.Snapshot(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, stats)
	}
}

// ListHistoryHandler handles GET /api/v1/history, the archived allocations
func ListHistoryHandler(history *repositories.HistoryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := history.List(r.Context(), 200)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &records)
	}
}
