package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"travelbook/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/travelbook_test?parseTime=true&multiStatements=true"

// SetupTestDB opens the integration database named by TEST_DB_DSN and
// skips the test when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the schema migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties every table, rewinds the id sequences and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"Comments", "Orders", "Plans", "Accounts"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
	if _, err := db.Exec("UPDATE IdSequences SET nextValue = 0"); err != nil {
		t.Logf("failed to reset id sequences: %v", err)
	}

	db.Close()
}
