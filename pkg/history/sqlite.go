package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store on a SQLite database. Suitable for
// single-instance use; WAL mode keeps readers unblocked during writes.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// MaxOpenConns caps the connection pool. WAL mode lets readers run
	// alongside the single writer, so values above one are safe.
	// Default: 1.
	MaxOpenConns int

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLiteStore opens (creating if needed) the run history database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("history: db path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}

	// Writes still serialize on SQLite's writer lock; the busy timeout
	// covers contention between pooled connections.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS validation_runs (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		validation_type TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		rules_executed INTEGER NOT NULL,
		files_analyzed INTEGER NOT NULL,
		total_violations INTEGER NOT NULL,
		compliance_score REAL NOT NULL,
		is_valid INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_violations (
		run_id TEXT NOT NULL REFERENCES validation_runs(id) ON DELETE CASCADE,
		rule_id TEXT NOT NULL,
		file_path TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON validation_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_violations_run ON run_violations(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists a run and its violations in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("history: run cannot be nil")
	}
	if run.ID == "" {
		return fmt.Errorf("history: run id cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO validation_runs
			(id, target, validation_type, started_at, duration_ms,
			 rules_executed, files_analyzed, total_violations,
			 compliance_score, is_valid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Target, run.ValidationType,
		run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
		run.RulesExecuted, run.FilesAnalyzed, run.TotalViolations,
		run.ComplianceScore, boolToInt(run.IsValid),
	)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}

	for _, v := range run.Violations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_violations (run_id, rule_id, file_path, severity, message)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, v.RuleID, v.FilePath, v.Severity, v.Message,
		); err != nil {
			return fmt.Errorf("history: insert violation: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun returns the run with the given id, violations included.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, target, validation_type, started_at, duration_ms,
		       rules_executed, files_analyzed, total_violations,
		       compliance_score, is_valid
		FROM validation_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, file_path, severity, message
		FROM run_violations WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("history: query violations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v RunViolation
		if err := rows.Scan(&v.RuleID, &v.FilePath, &v.Severity, &v.Message); err != nil {
			return nil, fmt.Errorf("history: scan violation: %w", err)
		}
		run.Violations = append(run.Violations, v)
	}
	return run, rows.Err()
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `
		SELECT id, target, validation_type, started_at, duration_ms,
		       rules_executed, files_analyzed, total_violations,
		       compliance_score, is_valid
		FROM validation_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRunsBefore removes runs started before cutoff.
func (s *SQLiteStore) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("history: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM run_violations WHERE run_id IN
			(SELECT id FROM validation_runs WHERE started_at < ?)`,
		cutoff.UnixMilli(),
	); err != nil {
		return 0, fmt.Errorf("history: delete violations: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM validation_runs WHERE started_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("history: delete runs: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(deleted), tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run        Run
		startedAt  int64
		durationMS int64
		isValid    int
	)
	err := row.Scan(
		&run.ID, &run.Target, &run.ValidationType, &startedAt, &durationMS,
		&run.RulesExecuted, &run.FilesAnalyzed, &run.TotalViolations,
		&run.ComplianceScore, &isValid,
	)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(startedAt)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.IsValid = isValid != 0
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
