package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder journals selection events to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets external readers query the journal while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite journal opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS selections (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id        TEXT NOT NULL UNIQUE,
			version         INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			range_id        TEXT NOT NULL,
			lookback_days   INTEGER NOT NULL,
			points          INTEGER NOT NULL,
			first_date      TEXT,
			last_date       TEXT,
			current_price   REAL,
			absolute_change REAL,
			percent_change  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_selections_ts ON selections(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_selections_range ON selections(range_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSelection(evt *SelectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO selections
		(event_id, version, timestamp, range_id, lookback_days, points,
		 first_date, last_date, current_price, absolute_change, percent_change)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.EventID, evt.Version, evt.SelectedAt.Unix(), evt.RangeID, evt.LookbackDays, evt.Points,
		evt.FirstDate.String(), evt.LastDate.String(),
		evt.CurrentPrice, evt.AbsoluteChange, evt.PercentChange,
	)
	if err != nil {
		return fmt.Errorf("insert selection %s: %w", evt.EventID, err)
	}
	return nil
}

// CountSelections returns how many events were journaled for rangeID, or for
// all ranges when rangeID is empty.
func (r *SQLiteRecorder) CountSelections(rangeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	var err error
	if rangeID == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM selections`).Scan(&n)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM selections WHERE range_id = ?`, rangeID).Scan(&n)
	}
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite journal")
	return r.db.Close()
}
