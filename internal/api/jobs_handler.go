package api

import (
	"net/http"

	"smartpark-alliance/smartpark/internal/models/dtos"
	"smartpark-alliance/smartpark/internal/services"
)

// RunArchiveHandler handles POST /api/v1/jobs/archive, a manual trigger for
// the archival sweep that normally runs on a timer
func RunArchiveHandler(archive *services.ArchiveService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archived, err := archive.CompleteElapsed(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if archived > 0 {
			dashboard.Invalidate()
		}
		respondWithSuccess(w, http.StatusOK, &dtos.ArchiveRunResult{Archived: archived})
	}
}
