package api

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"
)

// ServiceStatus reports the health of one backing service
type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthCheckResponse is the body of GET /healthCheck
type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(orm *gorm.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]ServiceStatus)

		dbStatus := "ok"
		dbDetails := "Database connected"

		sqlDB, err := orm.DB()
		if err != nil {
			dbStatus = "down"
			dbDetails = err.Error()
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "down"
			dbDetails = err.Error()
		}
		services["database"] = ServiceStatus{
			Status:  dbStatus,
			Details: dbDetails,
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := HealthCheckResponse{
			Status:   overallStatus,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
			Services: services,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
