package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"f50-race-telemetry/maneuver"
	"f50-race-telemetry/telemetry"
)

// DB persists normalized telemetry and maneuver statistics in SQLite.
// Samples are stored long-format (one row per field value), which keeps the
// schema stable as the field catalog evolves.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			source            TEXT,
			started           TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id            TEXT,
			boat              TEXT,
			ts                TIMESTAMP,
			port_tack         BOOLEAN,
			field             TEXT,
			value             DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS maneuvers (
			run_id            TEXT,
			boat              TEXT,
			race              TEXT,
			leg               BIGINT,
			type              TEXT,
			ts                TIMESTAMP,
			entry_tack        TEXT,
			entry_twa         DOUBLE,
			exit_twa          DOUBLE,
			entry_bsp         DOUBLE,
			exit_bsp          DOUBLE,
			min_bsp           DOUBLE,
			bsp_loss          DOUBLE,
			max_yaw_rate      DOUBLE,
			turning_time      DOUBLE,
			max_rudder_angle  DOUBLE,
			turn_min_rh       DOUBLE,
			flying            BOOLEAN,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_samples_boat_ts ON samples(boat, ts);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// CreateRun registers a new processing run and returns its id.
func (db *DB) CreateRun(source string) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec("INSERT INTO runs (run_id, source) VALUES (?, ?)", runID, source)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return runID, nil
}

// InsertRows stores the numeric fields of normalized rows under a run, one
// transaction for the batch.
func (db *DB) InsertRows(runID string, rows []telemetry.Row) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO samples (run_id, boat, ts, port_tack, field, value) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		boat := row.Boat()
		ts := row.Timestamp()
		port, err := row.PortTack()
		if err != nil {
			return err
		}
		for field, raw := range row {
			switch field {
			case telemetry.FieldBoat, telemetry.FieldDateTime, telemetry.FieldPortTack:
				continue
			}
			v, ok := telemetry.ToFloat64(raw)
			if !ok {
				continue // non-numeric channels stay in the CSV export only
			}
			if _, err := stmt.Exec(runID, boat, ts, port, field, v); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// InsertManeuvers stores detected maneuvers under a run.
func (db *DB) InsertManeuvers(runID string, maneuvers []maneuver.Maneuver) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO maneuvers (
			run_id, boat, race, leg, type, ts, entry_tack,
			entry_twa, exit_twa, entry_bsp, exit_bsp, min_bsp, bsp_loss,
			max_yaw_rate, turning_time, max_rudder_angle, turn_min_rh, flying
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range maneuvers {
		_, err := stmt.Exec(
			runID, m.Boat, m.Race, m.Leg, string(m.Type), m.Time, m.EntryTack,
			m.EntryTWA, m.ExitTWA, m.EntryBSP, m.ExitBSP, m.MinBSP, m.BSPLoss,
			m.MaxYawRate, m.TurningTime, m.MaxRudderAngle, m.TurnMinRH, m.Flying)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SampleValue reads back one stored field value for a boat at a timestamp.
func (db *DB) SampleValue(boat, field string, ts time.Time) (float64, error) {
	var v float64
	err := db.QueryRow(
		"SELECT value FROM samples WHERE boat = ? AND field = ? AND ts = ?",
		boat, field, ts).Scan(&v)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// CountSamples returns the number of stored sample values for a run.
func (db *DB) CountSamples(runID string) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM samples WHERE run_id = ?", runID).Scan(&n)
	return n, err
}

// ManeuversByBoat returns stored maneuvers for a boat, oldest first.
func (db *DB) ManeuversByBoat(boat string) ([]maneuver.Maneuver, error) {
	rows, err := db.Query(`
		SELECT boat, race, leg, type, ts, entry_tack,
		       entry_twa, exit_twa, entry_bsp, exit_bsp, min_bsp, bsp_loss,
		       max_yaw_rate, turning_time, max_rudder_angle, turn_min_rh, flying
		FROM maneuvers WHERE boat = ? ORDER BY ts`, boat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []maneuver.Maneuver
	for rows.Next() {
		var m maneuver.Maneuver
		var typ string
		if err := rows.Scan(
			&m.Boat, &m.Race, &m.Leg, &typ, &m.Time, &m.EntryTack,
			&m.EntryTWA, &m.ExitTWA, &m.EntryBSP, &m.ExitBSP, &m.MinBSP, &m.BSPLoss,
			&m.MaxYawRate, &m.TurningTime, &m.MaxRudderAngle, &m.TurnMinRH, &m.Flying); err != nil {
			return nil, err
		}
		m.Type = maneuver.Type(typ)
		out = append(out, m)
	}
	return out, rows.Err()
}
