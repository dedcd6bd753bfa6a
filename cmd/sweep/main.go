// sweep runs one escalation pass and exits: connect, flag every overdue
// pending report, print the count.
// Usage: from project root, run: go run ./cmd/sweep [-days N]
// Requires .env (or env) with DB_*.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/jigisha06/Roadfix-Connect/config"
	"github.com/jigisha06/Roadfix-Connect/repository"
	"github.com/jigisha06/Roadfix-Connect/schema"
	"github.com/jigisha06/Roadfix-Connect/service"
)

func main() {
	days := flag.Int("days", 0, "override the pending-age threshold in days (0 = configured default)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}
	cfg := config.LoadConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("DB open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("DB ping: %v", err)
	}
	schema.InitializeDatabase(db)

	reportRepo := repository.NewReportRepository(db)
	escalationService := service.NewEscalationService(reportRepo, cfg.Engine.EscalationThresholdDays)

	count, err := escalationService.Sweep(time.Now().UTC(), *days)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	fmt.Printf("Escalated %d report(s)\n", count)
}
