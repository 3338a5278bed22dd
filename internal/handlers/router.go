package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/xelth-com/recoverydesk/internal/buildinfo"
	"github.com/xelth-com/recoverydesk/internal/config"
	"github.com/xelth-com/recoverydesk/internal/middleware"
	"github.com/xelth-com/recoverydesk/internal/services/printer"
	"github.com/xelth-com/recoverydesk/internal/sync"
	"github.com/xelth-com/recoverydesk/internal/utils"
	"github.com/xelth-com/recoverydesk/internal/websocket"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies; system imports can be large
const maxBodyBytes = 32 << 20

// Router wraps the mux router and the record engine
type Router struct {
	*mux.Router
	engine *sync.Engine
	hub    *websocket.Hub
	cfg    *config.Config
	log    *zap.Logger
	now    func() time.Time
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(engine *sync.Engine, hub *websocket.Hub, cfg *config.Config, log *zap.Logger) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		engine: engine,
		hub:    hub,
		cfg:    cfg,
		log:    log.Named("handlers"),
		now:    time.Now,
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.HandleFunc("/api/status", r.getStatus).Methods("GET")

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.Handle("/password", middleware.Auth(cfg.JWTSecret)(http.HandlerFunc(r.changePassword))).Methods("PUT")

	if hub != nil {
		hub.AllowOrigins(cfg.CORSOrigins...)
		r.Handle("/ws", middleware.StreamAuth(cfg.JWTSecret)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(hub, w, req)
		})))
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Jobs
	api.HandleFunc("/jobs", r.listJobs).Methods("GET")
	api.HandleFunc("/jobs", r.createJob).Methods("POST")
	api.HandleFunc("/jobs/next-id", r.nextJobID).Methods("GET")
	api.HandleFunc("/jobs/{jobId}", r.getJob).Methods("GET")
	api.HandleFunc("/jobs/{jobId}", r.updateJob).Methods("PUT")
	api.HandleFunc("/jobs/{jobId}", r.deleteJob).Methods("DELETE")
	api.HandleFunc("/jobs/{jobId}/status", r.updateStatus).Methods("PUT")
	api.HandleFunc("/jobs/{jobId}/deliver", r.deliverJob).Methods("POST")
	api.HandleFunc("/jobs/{jobId}/estimate", r.issueEstimate).Methods("POST")
	api.HandleFunc("/jobs/{jobId}/estimate", r.getEstimate).Methods("GET")
	api.HandleFunc("/jobs/{jobId}/invoice", r.issueInvoice).Methods("POST")
	api.HandleFunc("/jobs/{jobId}/invoice", r.getInvoice).Methods("GET")

	// Reports
	api.HandleFunc("/reports/delivery", r.deliveryReport).Methods("GET")
	api.HandleFunc("/reports/delivery.xlsx", r.deliveryReportXLSX).Methods("GET")
	api.HandleFunc("/reports/dashboard", r.dashboard).Methods("GET")
	api.HandleFunc("/customers", r.listCustomers).Methods("GET")

	// Business analytics rows
	api.HandleFunc("/backup/jobs", r.listBackupJobs).Methods("GET")
	api.HandleFunc("/backup/jobs", r.addBackupJob).Methods("POST")
	api.HandleFunc("/backup/jobs", r.clearBackupJobs).Methods("DELETE")
	api.HandleFunc("/backup/jobs/import", r.importBackupJobs).Methods("POST")
	api.HandleFunc("/backup/jobs/sync", r.syncBackupJobs).Methods("POST")
	api.HandleFunc("/backup/jobs/delete", r.deleteBackupJobs).Methods("POST")
	api.HandleFunc("/backup/jobs/export", r.exportBackupJobs).Methods("GET")
	api.HandleFunc("/backup/jobs.xlsx", r.backupJobsXLSX).Methods("GET")
	api.HandleFunc("/backup/revenue/clear", r.clearRevenue).Methods("POST")

	// System
	api.HandleFunc("/system/export", r.exportSystem).Methods("GET")
	api.HandleFunc("/system/import", r.importSystem).Methods("POST")
	api.HandleFunc("/system/fresh-start", r.freshStart).Methods("POST")
	api.HandleFunc("/system/outward/clear", r.clearOutward).Methods("POST")
	api.HandleFunc("/system/clear", r.clearAll).Methods("POST")

	// Settings
	api.HandleFunc("/settings/company", r.getCompany).Methods("GET")
	api.HandleFunc("/settings/company", r.saveCompany).Methods("PUT")
	api.HandleFunc("/settings/terms", r.getTerms).Methods("GET")
	api.HandleFunc("/settings/terms", r.saveTerms).Methods("PUT")

	// Print
	api.HandleFunc("/print/tags", r.printTags).Methods("POST")

	return r
}

// Handler returns the router wrapped with CORS and access logging
func (r *Router) Handler() http.Handler {
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins:   r.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return middleware.AccessLog(r.log)(withCORS(r.Router))
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"store":  r.cfg.Store.Driver,
	})
}

// getStatus returns build and runtime information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	clients := 0
	if r.hub != nil {
		clients = r.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "running",
		"buildTime":  buildinfo.BuildTime,
		"commitTime": buildinfo.CommitTime,
		"commitHash": buildinfo.CommitHash,
		"startTime":  buildinfo.StartTime,
		"clients":    clients,
		"lanUrls":    utils.LANURLs(r.cfg.Port),
	})
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, req *http.Request, v any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondEngineError maps engine errors onto HTTP statuses
func (r *Router) respondEngineError(w http.ResponseWriter, err error) {
	var verr *sync.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
	case errors.Is(err, sync.ErrJobNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sync.ErrImmutableJobID), errors.Is(err, sync.ErrDuplicateJobID):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sync.ErrWrongPassword):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, printer.ErrNoTags):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		r.log.Error("Request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondBulk reports a bulk operation outcome
func respondBulk(w http.ResponseWriter, res sync.BulkResult) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, res)
}

// attachment sends a binary download
func attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
