package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartpark-alliance/smartpark/internal/models/dtos"
	"smartpark-alliance/smartpark/internal/services"
)

// RunAllocationHandler handles POST /api/v1/allocations/run.
// Runs the allocation engine over the pending queue, or over an explicit
// flight subset when the body names one.
func RunAllocationHandler(engine *services.AllocationService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RunBatchRequest
		if r.ContentLength > 0 {
			if !decodeBody(w, r, &req) {
				return
			}
		}

		allocated, unallocated, err := engine.RunBatch(r.Context(), req.FlightIDs)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		dashboard.Invalidate()
		respondWithSuccess(w, http.StatusOK, &dtos.AllocationRunResult{
			Allocated:   allocated,
			Unallocated: unallocated,
		})
	}
}

// ReallocateFlightHandler handles POST /api/v1/flights/{flightID}/reallocate.
// Precondition failures are reported as success=false with a reason, not as
// HTTP errors: the request itself was valid and fully processed.
func ReallocateFlightHandler(engine *services.AllocationService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightID := chi.URLParam(r, "flightID")

		ok, message, err := engine.ReallocateFlight(r.Context(), flightID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if ok {
			dashboard.Invalidate()
		}
		respondWithSuccess(w, http.StatusOK, &dtos.ReallocationResult{
			Success: ok,
			Message: message,
		})
	}
}
