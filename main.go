package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/jigisha06/Roadfix-Connect/config"
	"github.com/jigisha06/Roadfix-Connect/repository"
	"github.com/jigisha06/Roadfix-Connect/routes"
	"github.com/jigisha06/Roadfix-Connect/schema"
	"github.com/jigisha06/Roadfix-Connect/service"
	"github.com/jigisha06/Roadfix-Connect/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize database connection (UTC for consistent timestamps)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	// Create any missing tables
	schema.InitializeDatabase(db)

	// Initialize repositories
	reportRepo := repository.NewReportRepository(db)
	confirmationRepo := repository.NewConfirmationRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	abusePreventionRepo := repository.NewAbusePreventionRepository(db)

	// Initialize services
	scorer := service.NewPriorityScorer(cfg.Engine.HighPrioritySignal)
	detector := service.NewDuplicateDetector(reportRepo, cfg.Engine.DuplicateRadiusMeters)
	reportService := service.NewReportService(db, reportRepo, statsRepo, detector, scorer)
	confirmationService := service.NewConfirmationService(db, reportRepo, confirmationRepo, statsRepo, scorer, cfg.Engine.ConfirmationPoints)
	escalationService := service.NewEscalationService(reportRepo, cfg.Engine.EscalationThresholdDays)
	queryService := service.NewQueryService(db, reportRepo, confirmationRepo, statsRepo, cfg.Engine.CommunityFeedLimit, cfg.Engine.ContributorBadgeThreshold)
	abusePreventionService := service.NewAbusePreventionService(abusePreventionRepo, cfg.Engine.MaxReportsPerDay, cfg.Engine.ResubmitGuardMinutes)

	// Start the background escalation sweeper
	escalationWorker := worker.NewEscalationWorker(
		escalationService,
		time.Duration(cfg.Engine.WorkerIntervalSeconds)*time.Second,
	)
	escalationWorker.Start()
	defer escalationWorker.Stop()

	// Setup routes
	router := routes.SetupRoutes(
		reportService,
		confirmationService,
		queryService,
		escalationService,
		abusePreventionService,
	)

	// Add CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Handle preflight requests
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, corsHandler(router)))
}
