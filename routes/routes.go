package routes

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/jigisha06/Roadfix-Connect/handler"
	"github.com/jigisha06/Roadfix-Connect/middleware"
	"github.com/jigisha06/Roadfix-Connect/service"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	reportService *service.ReportService,
	confirmationService *service.ConfirmationService,
	queryService *service.QueryService,
	escalationService *service.EscalationService,
	abusePreventionService *service.AbusePreventionService,
) *mux.Router {
	router := mux.NewRouter()

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService, confirmationService, queryService, abusePreventionService)
	communityHandler := handler.NewCommunityHandler(queryService)
	userHandler := handler.NewUserHandler(queryService)
	staffHandler := handler.NewStaffHandler(reportService, queryService)
	escalationHandler := handler.NewEscalationHandler(escalationService)

	// Initialize auth middleware
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "roadfix-secret-key-change-in-production" // Default for local runs
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	// API v1 routes
	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Report routes
	reports := apiV1.PathPrefix("/reports").Subrouter()

	// POST /api/v1/reports - Submit a report (anonymous allowed; token attributes ownership)
	reports.Handle("", authMiddleware.OptionalAuth(http.HandlerFunc(reportHandler.CreateReport))).Methods("POST")

	// GET /api/v1/reports - List the signed-in user's reports (REQUIRES AUTH)
	reports.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(reportHandler.ListMyReports))).Methods("GET")

	// GET /api/v1/reports/{id}/history - Full status audit trail
	reports.HandleFunc("/{id}/history", reportHandler.GetHistory).Methods("GET")

	// POST /api/v1/reports/{id}/confirm - Confirm a report (REQUIRES AUTH)
	reports.Handle("/{id}/confirm", authMiddleware.RequireAuth(http.HandlerFunc(reportHandler.ConfirmReport))).Methods("POST")

	// POST /api/v1/reports/{id}/ai-verify - Mark a report AI-verified. Staff only; no public verification write.
	reports.Handle("/{id}/ai-verify", middleware.RequireAdminAuth(http.HandlerFunc(staffHandler.AIVerify))).Methods("POST")

	// Community feed (signed-in citizens)
	apiV1.Handle("/community/reports", authMiddleware.RequireAuth(http.HandlerFunc(communityHandler.ListFeed))).Methods("GET")

	// User routes (protected - require auth)
	users := apiV1.PathPrefix("/users").Subrouter()
	users.Handle("/me/stats", authMiddleware.RequireAuth(http.HandlerFunc(userHandler.GetMyStats))).Methods("GET")
	users.Handle("/me/confirmations", authMiddleware.RequireAuth(http.HandlerFunc(userHandler.GetMyConfirmations))).Methods("GET")

	// Staff routes (env-based token; separate from citizen auth)
	staff := apiV1.PathPrefix("/staff").Subrouter()
	staff.Use(middleware.RequireAdminAuth)
	staff.HandleFunc("/reports", staffHandler.ListQueue).Methods("GET")
	staff.HandleFunc("/metrics", staffHandler.Metrics).Methods("GET")
	staff.HandleFunc("/reports/{id}/status", staffHandler.UpdateStatus).Methods("POST")

	// Escalation routes (staff only; worker runs internally, no HTTP)
	escalations := apiV1.PathPrefix("/escalations").Subrouter()
	escalations.Handle("/sweep", middleware.RequireAdminAuth(http.HandlerFunc(escalationHandler.Sweep))).Methods("POST")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
