package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"recap/internal/modules/results/domain"
	resultsout "recap/internal/modules/results/port/out"

	_ "modernc.org/sqlite"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

type SQLiteOutcomeProjection struct {
	db *sql.DB
}

func NewSQLiteOutcomeProjection(dbPath string) (resultsout.OutcomeProjection, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projection := &SQLiteOutcomeProjection{db: db}
	if err := projection.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projection, nil
}

func (s *SQLiteOutcomeProjection) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS quiz_instances (
  instance_id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  tier TEXT NOT NULL,
  status TEXT NOT NULL,
  completed_at TEXT
);
CREATE TABLE IF NOT EXISTS outcomes (
  instance_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  topic TEXT NOT NULL,
  correct INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  skip_reason TEXT,
  PRIMARY KEY (instance_id, position)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create projection tables: %w", err)
	}
	return nil
}

func (s *SQLiteOutcomeProjection) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM outcomes`); err != nil {
		return fmt.Errorf("reset outcomes: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM quiz_instances`); err != nil {
		return fmt.Errorf("reset quiz instances: %w", err)
	}
	return nil
}

func (s *SQLiteOutcomeProjection) UpsertInstance(ctx context.Context, tier, instanceID, sessionID, status string, completedAt time.Time) error {
	const stmt = `
INSERT INTO quiz_instances (instance_id, session_id, tier, status, completed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(instance_id) DO UPDATE SET
  session_id=excluded.session_id,
  tier=excluded.tier,
  status=excluded.status,
  completed_at=excluded.completed_at;
`
	var completed any
	if !completedAt.IsZero() {
		completed = completedAt.Format(timeFormat)
	}
	if _, err := s.db.ExecContext(ctx, stmt, instanceID, sessionID, tier, status, completed); err != nil {
		return fmt.Errorf("upsert quiz instance: %w", err)
	}
	return nil
}

func (s *SQLiteOutcomeProjection) UpsertOutcome(ctx context.Context, record domain.OutcomeRecord, position int) error {
	const stmt = `
INSERT INTO outcomes (instance_id, position, topic, correct, skipped, skip_reason)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(instance_id, position) DO UPDATE SET
  topic=excluded.topic,
  correct=excluded.correct,
  skipped=excluded.skipped,
  skip_reason=excluded.skip_reason;
`
	if _, err := s.db.ExecContext(ctx, stmt,
		record.InstanceID,
		position,
		record.Topic,
		boolToInt(record.Correct),
		boolToInt(record.Skipped),
		record.SkipReason,
	); err != nil {
		return fmt.Errorf("upsert outcome: %w", err)
	}
	return nil
}

func (s *SQLiteOutcomeProjection) TopicTotals(ctx context.Context) ([]resultsout.TopicTotal, error) {
	const query = `
SELECT topic,
       COUNT(*) AS asked,
       SUM(skipped) AS skipped,
       SUM(correct) AS correct
FROM outcomes
GROUP BY topic
ORDER BY topic;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query topic totals: %w", err)
	}
	defer rows.Close()
	var totals []resultsout.TopicTotal
	for rows.Next() {
		var total resultsout.TopicTotal
		if err := rows.Scan(&total.Topic, &total.Asked, &total.Skipped, &total.Correct); err != nil {
			return nil, fmt.Errorf("scan topic total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic totals: %w", err)
	}
	return totals, nil
}

func (s *SQLiteOutcomeProjection) SkipTotals(ctx context.Context) ([]resultsout.SkipTotal, error) {
	const query = `
SELECT skip_reason, COUNT(*) AS count
FROM outcomes
WHERE skipped = 1
GROUP BY skip_reason
ORDER BY count DESC, skip_reason;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query skip totals: %w", err)
	}
	defer rows.Close()
	var totals []resultsout.SkipTotal
	for rows.Next() {
		var total resultsout.SkipTotal
		if err := rows.Scan(&total.Reason, &total.Count); err != nil {
			return nil, fmt.Errorf("scan skip total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skip totals: %w", err)
	}
	return totals, nil
}

func (s *SQLiteOutcomeProjection) Counts(ctx context.Context) (resultsout.InstanceCounts, error) {
	var counts resultsout.InstanceCounts
	const instanceQuery = `
SELECT
  SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END),
  SUM(CASE WHEN status = 'expired' THEN 1 ELSE 0 END)
FROM quiz_instances;
`
	var completed, expired sql.NullInt64
	if err := s.db.QueryRowContext(ctx, instanceQuery).Scan(&completed, &expired); err != nil {
		return resultsout.InstanceCounts{}, fmt.Errorf("query instance counts: %w", err)
	}
	counts.Completed = int(completed.Int64)
	counts.Expired = int(expired.Int64)
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outcomes`).Scan(&counts.Outcomes); err != nil {
		return resultsout.InstanceCounts{}, fmt.Errorf("query outcome count: %w", err)
	}
	return counts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
