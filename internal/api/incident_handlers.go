package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/models/dtos"
	models "smartpark-alliance/smartpark/internal/models/gorm"
	"smartpark-alliance/smartpark/internal/services"
)

// DeclareIncidentHandler handles POST /api/v1/incidents. Declaring an
// incident blocks the stand and cascades its future allocations; the
// response reports how many flights were displaced.
func DeclareIncidentHandler(incidents *services.IncidentService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.DeclareIncidentRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if req.StandID == "" || req.TypeIncident == "" {
			respondWithError(w, http.StatusBadRequest, "Incident needs a stand and a type")
			return
		}

		incident := &models.Incident{
			StandID:      req.StandID,
			TypeIncident: req.TypeIncident,
			Description:  req.Description,
		}

		released, err := incidents.Declare(r.Context(), incident)
		if err != nil {
			if strings.Contains(err.Error(), constants.MsgStandNotFound) {
				respondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		dashboard.Invalidate()
		respondWithSuccess(w, http.StatusCreated, &dtos.IncidentImpact{
			Incident: incident,
			Released: released,
		})
	}
}

// TransitionIncidentHandler handles PUT /api/v1/incidents/{incidentID}/status.
// Reopening a resolved incident cascades the stand again; resolving the last
// active incident puts the stand back in service.
func TransitionIncidentHandler(incidents *services.IncidentService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TransitionIncidentRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if !constants.ValidIncidentStatus(req.Status) {
			respondWithError(w, http.StatusBadRequest, "Unknown incident status: "+req.Status)
			return
		}

		incident, released, err := incidents.Transition(
			r.Context(),
			chi.URLParam(r, "incidentID"),
			constants.IncidentStatus(req.Status),
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if incident == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgIncidentNotFound)
			return
		}

		dashboard.Invalidate()
		respondWithSuccess(w, http.StatusOK, &dtos.IncidentImpact{
			Incident: incident,
			Released: released,
		})
	}
}

// ResolveIncidentHandler handles POST /api/v1/incidents/{incidentID}/resolve,
// a shorthand for transitioning straight to RESOLVED
func ResolveIncidentHandler(incidents *services.IncidentService, dashboard *services.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		incident, released, err := incidents.Transition(
			r.Context(),
			chi.URLParam(r, "incidentID"),
			constants.IncidentResolved,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if incident == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgIncidentNotFound)
			return
		}

		dashboard.Invalidate()
		respondWithSuccess(w, http.StatusOK, &dtos.IncidentImpact{
			Incident: incident,
			Released: released,
		})
	}
}

// ListIncidentsHandler handles GET /api/v1/incidents
func ListIncidentsHandler(incidents *services.IncidentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := incidents.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &list)
	}
}
