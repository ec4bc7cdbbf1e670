package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. The unique index on
// consignment_number is the authority on duplicate numbers: the upstream
// allocator is a non-atomic read-then-increment and can hand out the same
// number twice under concurrency.
const schema = `
CREATE TABLE IF NOT EXISTS consignments (
    id                 INTEGER PRIMARY KEY,
    account_no         TEXT NOT NULL,
    name               TEXT NOT NULL,
    addressline1       TEXT NOT NULL,
    addressline2       TEXT,
    addressline3       TEXT NOT NULL,
    addressline4       TEXT NOT NULL,
    weight             INTEGER NOT NULL CHECK (weight BETWEEN 1 AND 30),
    consignment_number INTEGER NOT NULL UNIQUE,
    delivery_depot     INTEGER NOT NULL,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_consignments_account
    ON consignments(account_no);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
