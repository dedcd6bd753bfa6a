package repository

import "database/sql"

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repository methods that must participate in a caller-owned transaction
// accept a DBTX so the service layer controls the transactional boundary.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
