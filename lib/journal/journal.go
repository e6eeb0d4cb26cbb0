package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/ktran04/getgtclass/lib/banner"
)

// Schema holds the attempt log. The in-run result list stays in memory,
// this is an opt-in side log so camping overnight leaves a trail.
const Schema = `
CREATE TABLE IF NOT EXISTS attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	crn TEXT NOT NULL,
	outcome TEXT NOT NULL,
	reason TEXT NOT NULL,
	messages TEXT NOT NULL,
	attempted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS attempts_crn ON attempts (crn);
`

// Open opens the attempt database and applies the schema. Remote libsql
// URLs work the same as local paths.
func Open(path string) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") {
		driver = "libsql"
	}
	database, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec(Schema); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

type Journal struct {
	db *sql.DB
}

func New(database *sql.DB) Journal {
	return Journal{db: database}
}

type Attempt struct {
	ID          int64
	CRN         string
	Outcome     banner.Outcome
	Reason      string
	Messages    []string
	AttemptedAt time.Time
}

// Record appends one row per result, in one transaction so a partial write
// never shows up as a partial attempt.
func (j Journal) Record(ctx context.Context, at time.Time, results []banner.Result) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range results {
		messages, err := json.Marshal(r.Messages)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO attempts (crn, outcome, reason, messages, attempted_at)
			 VALUES (?, ?, ?, ?, ?)`,
			r.CRN, string(r.Outcome), r.Reason, string(messages), at.Unix(),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns every recorded attempt, oldest first.
func (j Journal) List(ctx context.Context) ([]Attempt, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT id, crn, outcome, reason, messages, attempted_at
		 FROM attempts ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// ListCRN returns the recorded attempts for one crn, oldest first.
func (j Journal) ListCRN(ctx context.Context, crn string) ([]Attempt, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT id, crn, outcome, reason, messages, attempted_at
		 FROM attempts WHERE crn = ? ORDER BY id`,
		crn,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var outcome, messages string
		var attemptedAt int64
		if err := rows.Scan(&a.ID, &a.CRN, &outcome, &a.Reason, &messages, &attemptedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(messages), &a.Messages); err != nil {
			return nil, err
		}
		a.Outcome = banner.Outcome(outcome)
		a.AttemptedAt = time.Unix(attemptedAt, 0)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
