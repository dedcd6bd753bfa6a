// Package schema: safe database initialization. Creates only missing tables, never drops or overwrites.

package schema

import (
	"database/sql"
	"log"
)

const (
	tableReports       = "reports"
	tableStatusHistory = "status_history"
	tableConfirmations = "report_confirmations"
	tableUserStats     = "user_stats"
)

// InitializeDatabase ensures core tables exist. Checks
// INFORMATION_SCHEMA.TABLES; creates only missing tables in dependency order:
// reports → status_history → report_confirmations → user_stats. Does not drop
// or recreate tables; does not remove data.
func InitializeDatabase(db *sql.DB) {
	ensureTable(db, tableReports, createReportsTable)
	ensureTable(db, tableStatusHistory, createStatusHistoryTable)
	ensureTable(db, tableConfirmations, createConfirmationsTable)
	ensureTable(db, tableUserStats, createUserStatsTable)
}

func ensureTable(db *sql.DB, name string, create func(*sql.DB)) {
	exists, err := tableExists(db, name)
	if err != nil {
		log.Fatalf("[SCHEMA] Failed to check if table %s exists: %v", name, err)
	}
	if exists {
		log.Printf("[SCHEMA] %s table exists", name)
		return
	}
	create(db)
	log.Printf("[SCHEMA] created %s table", name)
}

func tableExists(db *sql.DB, name string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	`
	var count int
	if err := db.QueryRow(query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func createReportsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS reports (
    report_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    report_number VARCHAR(32) UNIQUE NOT NULL COMMENT 'Shareable identifier (RF-YYYYMMDD-xxxxxxxx)',
    issue_type VARCHAR(100) NOT NULL,
    description TEXT NOT NULL,
    image_url VARCHAR(512) NOT NULL COMMENT 'Opaque reference to externally stored image',
    latitude DOUBLE NOT NULL,
    longitude DOUBLE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'Pending',
    priority VARCHAR(10) NOT NULL DEFAULT 'Low',
    crowd_verified BOOLEAN NOT NULL DEFAULT FALSE,
    nearby_reports_count INT NOT NULL DEFAULT 0 COMMENT 'Cached count within duplicate radius at last recompute',
    confirmation_count INT NOT NULL DEFAULT 0 COMMENT 'Kept in sync with report_confirmations transactionally',
    ai_verified BOOLEAN NOT NULL DEFAULT FALSE COMMENT 'Set by external reviewer',
    escalated BOOLEAN NOT NULL DEFAULT FALSE,
    escalated_at TIMESTAMP NULL,
    user_id VARCHAR(64) NULL COMMENT 'Owner identity; NULL for anonymous',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    INDEX idx_status_escalated (status, escalated),
    INDEX idx_user (user_id),
    INDEX idx_coords (latitude, longitude),
    INDEX idx_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table %s: %v", tableReports, err)
	}
}

func createStatusHistoryTable(db *sql.DB) {
	// changed_at carries microseconds so entries for one report stay totally
	// ordered even when two transitions land in the same second.
	q := `
CREATE TABLE IF NOT EXISTS status_history (
    history_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    report_id BIGINT NOT NULL,
    old_status VARCHAR(20) NULL COMMENT 'NULL only for the creation entry',
    new_status VARCHAR(20) NOT NULL,
    changed_by VARCHAR(64) NOT NULL,
    changed_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_report_changed (report_id, changed_at),
    CONSTRAINT fk_history_report FOREIGN KEY (report_id) REFERENCES reports(report_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table %s: %v", tableStatusHistory, err)
	}
}

func createConfirmationsTable(db *sql.DB) {
	// The unique key closes the race between two concurrent confirmations by
	// the same user; application code never relies on check-then-insert.
	q := `
CREATE TABLE IF NOT EXISTS report_confirmations (
    confirmation_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    report_id BIGINT NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    confirmed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uniq_report_user (report_id, user_id),
    INDEX idx_user (user_id),
    CONSTRAINT fk_confirmation_report FOREIGN KEY (report_id) REFERENCES reports(report_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table %s: %v", tableConfirmations, err)
	}
}

func createUserStatsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS user_stats (
    user_id VARCHAR(64) PRIMARY KEY,
    points INT NOT NULL DEFAULT 0,
    verified_reports_count INT NOT NULL DEFAULT 0,
    confirmations_given INT NOT NULL DEFAULT 0,
    badges JSON NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table %s: %v", tableUserStats, err)
	}
}
