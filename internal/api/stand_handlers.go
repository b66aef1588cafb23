package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/models/dtos"
	models "smartpark-alliance/smartpark/internal/models/gorm"
	"smartpark-alliance/smartpark/internal/services"
)

// CreateStandHandler handles POST /api/v1/stands
func CreateStandHandler(stands *repositories.StandRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateStandRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if req.OperationalName == "" || req.Length <= 0 || req.Width <= 0 {
			respondWithError(w, http.StatusBadRequest, "Stand needs a name and positive dimensions")
			return
		}

		stand := &models.Stand{
			OperationalName:    req.OperationalName,
			Length:             req.Length,
			Width:              req.Width,
			DistanceToTerminal: req.DistanceToTerminal,
		}
		if err := stands.Create(r.Context(), stand); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusCreated, stand)
	}
}

// ListStandsHandler handles GET /api/v1/stands
func ListStandsHandler(stands *repositories.StandRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := stands.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &list)
	}
}

// GetStandHandler handles GET /api/v1/stands/{standID}: the stand record
// plus its derived operational state, current occupant, future allocations
// and active incidents
func GetStandHandler(
	stands *repositories.StandRepository,
	flights *repositories.FlightRepository,
	incidents *repositories.IncidentRepository,
	state *services.StandStatusService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stand, err := stands.GetByID(r.Context(), chi.URLParam(r, "standID"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stand == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgStandNotFound)
			return
		}

		opState, err := state.OperationalState(r.Context(), stand)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		occupant, err := state.CurrentOccupant(r.Context(), stand)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		future, err := flights.FutureAllocatedOnStand(r.Context(), stand.ID, time.Now())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		active, err := incidents.ActiveForStand(r.Context(), stand.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, &dtos.StandDetail{
			Stand:             stand,
			OperationalState:  opState,
			CurrentOccupant:   occupant,
			FutureAllocations: future,
			ActiveIncidents:   active,
		})
	}
}

// UpdateStandHandler handles PUT /api/v1/stands/{standID}
func UpdateStandHandler(stands *repositories.StandRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateStandRequest
		if !decodeBody(w, r, &req) {
			return
		}

		stand, err := stands.GetByID(r.Context(), chi.URLParam(r, "standID"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stand == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgStandNotFound)
			return
		}

		if req.Length <= 0 || req.Width <= 0 {
			respondWithError(w, http.StatusBadRequest, "Stand dimensions must be positive")
			return
		}

		if req.OperationalName != "" {
			stand.OperationalName = req.OperationalName
		}
		stand.Length = req.Length
		stand.Width = req.Width
		stand.DistanceToTerminal = req.DistanceToTerminal
		stand.Availability = req.Availability

		if err := stands.Update(r.Context(), stand); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, stand)
	}
}

// DeleteStandHandler handles DELETE /api/v1/stands/{standID}. Refused while
// future flights are still allocated to the stand.
func DeleteStandHandler(stands *repositories.StandRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standID := chi.URLParam(r, "standID")

		stand, err := stands.GetByID(r.Context(), standID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stand == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgStandNotFound)
			return
		}

		if err := stands.Delete(r.Context(), standID, time.Now()); err != nil {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, stand)
	}
}
