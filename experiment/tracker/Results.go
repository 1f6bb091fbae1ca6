package tracker

import (
	"database/sql"
	"fmt"
	"log"

	ts "github.com/samuelfneumann/goslam/timestep"
	_ "modernc.org/sqlite"
)

// Episode is one row of per-episode statistics persisted by a Results
// Tracker
type Episode struct {
	Return   float64
	Steps    int
	Coverage float64
	End      string
}

// Results persists per-episode statistics (return, length, final
// coverage, and how the episode ended) to a SQLite database, one row
// per completed episode. Rows accumulate in memory during the
// experiment and are written in a single transaction by Save.
type Results struct {
	db *sql.DB

	currentReturn float64
	coverage      Coverage
	episodes      []Episode
}

// NewResults opens (creating if needed) the SQLite database at path
// and returns a Results Tracker recording into it
func NewResults(path string) (*Results, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("new results: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			episode_return REAL NOT NULL,
			steps INTEGER NOT NULL,
			coverage REAL NOT NULL,
			end_type TEXT NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new results: could not create table: %v", err)
	}

	return &Results{db: db}, nil
}

// Track accumulates a timestep's statistics, caching an episode row
// when the episode's last timestep is seen
func (r *Results) Track(step ts.TimeStep) {
	r.currentReturn += step.Reward
	r.coverage.Track(step)

	if !step.Last() {
		return
	}

	coverages := r.coverage.Coverages()
	r.episodes = append(r.episodes, Episode{
		Return:   r.currentReturn,
		Steps:    step.Number,
		Coverage: coverages[len(coverages)-1],
		End:      step.End().String(),
	})
	r.currentReturn = 0.0
}

// Save writes all cached episode rows to the database in a single
// transaction
func (r *Results) Save() {
	tx, err := r.db.Begin()
	if err != nil {
		log.Fatalf("could not begin results transaction: %v", err)
	}

	for _, ep := range r.episodes {
		_, err := tx.Exec(`
			INSERT INTO episodes (episode_return, steps, coverage, end_type)
			VALUES (?, ?, ?, ?)
		`, ep.Return, ep.Steps, ep.Coverage, ep.End)
		if err != nil {
			_ = tx.Rollback()
			log.Fatalf("could not insert episode row: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("could not commit results transaction: %v", err)
	}
	r.episodes = nil
}

// Episodes reads back every episode row in the database in insertion
// order
func (r *Results) Episodes() ([]Episode, error) {
	rows, err := r.db.Query(`
		SELECT episode_return, steps, coverage, end_type
		FROM episodes ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var ep Episode
		err := rows.Scan(&ep.Return, &ep.Steps, &ep.Coverage, &ep.End)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// Close closes the underlying database
func (r *Results) Close() error {
	return r.db.Close()
}
