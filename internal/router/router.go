package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openomi/pof-auditor/internal/audit"
	"github.com/openomi/pof-auditor/internal/handlers"
	"github.com/openomi/pof-auditor/internal/middleware"
	"github.com/openomi/pof-auditor/internal/utils"
)

func NewRouter(auditService audit.Service, maxFileSize int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	auditHandler := handlers.NewAuditHandler(auditService, maxFileSize, logger)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Audit endpoints
	api.HandleFunc("/audits", auditHandler.CreateAudit).Methods(http.MethodPost)
	api.HandleFunc("/audits/export", auditHandler.ExportAudit).Methods(http.MethodPost)

	return r
}
