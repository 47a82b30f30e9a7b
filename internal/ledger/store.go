// Package ledger persists the symbolic record of every pipeline cycle:
// interactions, FSM snapshots and aggregate risk statistics.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
	"github.com/ahalasec/ODG-ACI4A/internal/intent"
	"github.com/ahalasec/ODG-ACI4A/internal/vsi"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	interaction_id  TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	ts              TEXT NOT NULL,
	user_msg        TEXT NOT NULL,
	draft           TEXT NOT NULL,
	final           TEXT NOT NULL,
	decision        TEXT NOT NULL,
	events_json     TEXT NOT NULL,
	fsm_states_json TEXT NOT NULL,
	snapshot_json   TEXT NOT NULL,
	mie_json        TEXT,
	fused_json      TEXT,
	prognosis_json  TEXT
);

CREATE INDEX IF NOT EXISTS idx_interactions_session
	ON interactions(session_id, ts);

CREATE TABLE IF NOT EXISTS fsm_snapshot (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	snapshot_json TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS aggregate_stats (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	stats_json TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// #endregion schema

// #region types

// Interaction is one full pipeline cycle as recorded in the ledger.
type Interaction struct {
	InteractionID string            `json:"interaction_id"`
	SessionID     string            `json:"session_id"`
	Timestamp     time.Time         `json:"ts"`
	UserMsg       string            `json:"user_msg"`
	Draft         string            `json:"draft"`
	Final         string            `json:"final"`
	Decision      string            `json:"decision"`
	Events        []string          `json:"eventos"`
	FSMStates     map[string]string `json:"fsm_states"`
	FSMSnapshot   axiom.Snapshot    `json:"fsm_snapshot"`
	Analysis      *intent.Snapshot  `json:"mie,omitempty"`
	Fused         *vsi.Fused        `json:"vsi_fused,omitempty"`
	Prognosis     *axiom.Prognosis  `json:"prognostico,omitempty"`
}

// #endregion types

// #region store

// Store manages the ledger in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region record

// RecordInteraction appends one cycle and refreshes the session snapshot
// atomically. A missing interaction ID is filled in.
func (s *Store) RecordInteraction(rec *Interaction) error {
	if rec.InteractionID == "" {
		rec.InteractionID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	eventsJSON, err := json.Marshal(rec.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	statesJSON, err := json.Marshal(rec.FSMStates)
	if err != nil {
		return fmt.Errorf("marshal states: %w", err)
	}
	snapJSON, err := json.Marshal(rec.FSMSnapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ts := rec.Timestamp.Format(time.RFC3339Nano)
	_, err = tx.Exec(
		`INSERT INTO interactions
		 (interaction_id, session_id, ts, user_msg, draft, final, decision,
		  events_json, fsm_states_json, snapshot_json, mie_json, fused_json, prognosis_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.InteractionID, rec.SessionID, ts,
		rec.UserMsg, rec.Draft, rec.Final, rec.Decision,
		string(eventsJSON), string(statesJSON), string(snapJSON),
		marshalNullable(rec.Analysis), marshalNullable(rec.Fused), marshalNullable(rec.Prognosis),
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO fsm_snapshot (id, snapshot_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET snapshot_json = excluded.snapshot_json,
		                               updated_at = excluded.updated_at`,
		string(snapJSON), ts,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return tx.Commit()
}

func marshalNullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(raw)
}

// #endregion record

// #region queries

// LastInteraction returns the most recent recorded cycle if any.
func (s *Store) LastInteraction() (*Interaction, error) {
	rows, err := s.queryInteractions(
		`SELECT interaction_id, session_id, ts, user_msg, draft, final, decision,
		        events_json, fsm_states_json, snapshot_json, mie_json, fused_json, prognosis_json
		 FROM interactions ORDER BY ts DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListInteractions returns the most recent cycles, newest first.
func (s *Store) ListInteractions(limit int) ([]Interaction, error) {
	return s.queryInteractions(
		`SELECT interaction_id, session_id, ts, user_msg, draft, final, decision,
		        events_json, fsm_states_json, snapshot_json, mie_json, fused_json, prognosis_json
		 FROM interactions ORDER BY ts DESC LIMIT ?`, limit)
}

// CountInteractions returns the total number of recorded cycles.
func (s *Store) CountInteractions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

func (s *Store) queryInteractions(query string, args ...any) ([]Interaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var rec Interaction
		var ts string
		var eventsJSON, statesJSON, snapJSON string
		var mieJSON, fusedJSON, progJSON sql.NullString

		if err := rows.Scan(
			&rec.InteractionID, &rec.SessionID, &ts,
			&rec.UserMsg, &rec.Draft, &rec.Final, &rec.Decision,
			&eventsJSON, &statesJSON, &snapJSON,
			&mieJSON, &fusedJSON, &progJSON,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		if err := json.Unmarshal([]byte(eventsJSON), &rec.Events); err != nil {
			return nil, fmt.Errorf("unmarshal events: %w", err)
		}
		if err := json.Unmarshal([]byte(statesJSON), &rec.FSMStates); err != nil {
			return nil, fmt.Errorf("unmarshal states: %w", err)
		}
		if err := json.Unmarshal([]byte(snapJSON), &rec.FSMSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		if mieJSON.Valid {
			rec.Analysis = &intent.Snapshot{}
			if err := json.Unmarshal([]byte(mieJSON.String), rec.Analysis); err != nil {
				return nil, fmt.Errorf("unmarshal analysis: %w", err)
			}
		}
		if fusedJSON.Valid {
			rec.Fused = &vsi.Fused{}
			if err := json.Unmarshal([]byte(fusedJSON.String), rec.Fused); err != nil {
				return nil, fmt.Errorf("unmarshal fused: %w", err)
			}
		}
		if progJSON.Valid {
			rec.Prognosis = &axiom.Prognosis{}
			if err := json.Unmarshal([]byte(progJSON.String), rec.Prognosis); err != nil {
				return nil, fmt.Errorf("unmarshal prognosis: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion queries

// #region snapshot

// LoadSnapshot reads the persisted FSM snapshot. The second return value
// reports whether one exists.
func (s *Store) LoadSnapshot() (axiom.Snapshot, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT snapshot_json FROM fsm_snapshot WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return axiom.Snapshot{}, false, nil
	}
	if err != nil {
		return axiom.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var snap axiom.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return axiom.Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

// #endregion snapshot

// #region aggregate stats

// SaveAggregateStats upserts the accumulated risk statistics.
func (s *Store) SaveAggregateStats(sig axiom.AggregateSignal) error {
	raw, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO aggregate_stats (id, stats_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET stats_json = excluded.stats_json,
		                               updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// LoadAggregateStats reads the accumulated risk statistics. The second
// return value reports whether any were stored.
func (s *Store) LoadAggregateStats() (axiom.AggregateSignal, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT stats_json FROM aggregate_stats WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return axiom.AggregateSignal{}, false, nil
	}
	if err != nil {
		return axiom.AggregateSignal{}, false, fmt.Errorf("load stats: %w", err)
	}
	var sig axiom.AggregateSignal
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		return axiom.AggregateSignal{}, false, fmt.Errorf("unmarshal stats: %w", err)
	}
	return sig, true, nil
}

// #endregion aggregate stats

// #region reset

// Reset wipes every table, returning the ledger to a clean state.
func (s *Store) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"interactions", "fsm_snapshot", "aggregate_stats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// #endregion reset
