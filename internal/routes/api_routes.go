package routes

import (
	"github.com/go-chi/chi/v5"

	"smartpark-alliance/smartpark/internal/api"
)

// RegisterAPIRoutes mounts the JSON API under /api/v1
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	svcs := deps.Services
	repos := deps.Repo

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/allocations", func(r chi.Router) {
			r.Post("/run", api.RunAllocationHandler(svcs.Allocation, svcs.Dashboard))
		})

		r.Route("/flights", func(r chi.Router) {
			r.Post("/", api.CreateFlightHandler(svcs.Flights))
			r.Get("/", api.ListFlightsHandler(svcs.Flights))
			r.Get("/{flightID}", api.GetFlightHandler(svcs.Flights))
			r.Put("/{flightID}", api.UpdateFlightHandler(svcs.Flights, svcs.Dashboard))
			r.Delete("/{flightID}", api.DeleteFlightHandler(svcs.Flights, svcs.Dashboard))
			r.Post("/{flightID}/reallocate", api.ReallocateFlightHandler(svcs.Allocation, svcs.Dashboard))
		})

		r.Route("/stands", func(r chi.Router) {
			r.Post("/", api.CreateStandHandler(repos.Stands))
			r.Get("/", api.ListStandsHandler(repos.Stands))
			r.Get("/{standID}", api.GetStandHandler(repos.Stands, repos.Flights, repos.Incidents, svcs.StandState))
			r.Put("/{standID}", api.UpdateStandHandler(repos.Stands))
			r.Delete("/{standID}", api.DeleteStandHandler(repos.Stands))
		})

		r.Route("/incidents", func(r chi.Router) {
			r.Post("/", api.DeclareIncidentHandler(svcs.Incidents, svcs.Dashboard))
			r.Get("/", api.ListIncidentsHandler(svcs.Incidents))
			r.Put("/{incidentID}/status", api.TransitionIncidentHandler(svcs.Incidents, svcs.Dashboard))
			r.Post("/{incidentID}/resolve", api.ResolveIncidentHandler(svcs.Incidents, svcs.Dashboard))
		})

		r.Route("/aircraft", func(r chi.Router) {
			r.Get("/", api.ListAircraftHandler(repos.Aircraft))
			r.Get("/{aircraftID}", api.GetAircraftHandler(repos.Aircraft))
		})

		r.Get("/dashboard", api.DashboardHandler(svcs.Dashboard))
		r.Get("/history", api.ListHistoryHandler(repos.History))

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/archive", api.RunArchiveHandler(svcs.Archive, svcs.Dashboard))
		})
	})
}
