package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slidesmith/internal/deck"
)

// Record is one journaled generation job.
type Record struct {
	ID         int64
	DocumentID string
	JobID      string
	Kind       deck.JobKind
	Status     deck.JobStatus
	Progress   deck.TaskProgress
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Resolved reports whether the job reached a terminal status.
func (r *Record) Resolved() bool {
	return r.Status.IsTerminal()
}

const recordColumns = `id, document_id, job_id, kind, status, total, completed, failed, error, created_at, updated_at`

// RecordLaunch journals a freshly launched job.
func (j *Journal) RecordLaunch(ctx context.Context, documentID, jobID string, kind deck.JobKind, total int) (*Record, error) {
	if documentID == "" || jobID == "" {
		return nil, fmt.Errorf("record launch: document id and job id are required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := j.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            document_id, job_id, kind, status, total, completed, failed, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		documentID,
		jobID,
		string(kind),
		string(deck.JobPending),
		total,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return j.Get(ctx, jobID)
}

// UpdateStatus records the latest server-reported status for a job. Unknown
// job identifiers are a no-op so trackers can report freely.
func (j *Journal) UpdateStatus(ctx context.Context, jobID string, status deck.JobStatus, progress deck.TaskProgress, errMsg string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.execWithRetry(
		ctx,
		`UPDATE jobs SET status = ?, total = ?, completed = ?, failed = ?, error = ?, updated_at = ?
         WHERE job_id = ?`,
		string(status),
		progress.Total,
		progress.Completed,
		progress.Failed,
		nullableString(errMsg),
		timestamp,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("update job %s: %w", jobID, err)
	}
	return nil
}

// Get fetches one journaled job. A missing job returns (nil, nil).
func (j *Journal) Get(ctx context.Context, jobID string) (*Record, error) {
	row := j.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM jobs WHERE job_id = ?`, jobID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return record, nil
}

// Active returns the most recent unresolved job for a document, or nil when
// every journaled job has resolved.
func (j *Journal) Active(ctx context.Context, documentID string) (*Record, error) {
	row := j.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM jobs
         WHERE document_id = ? AND status NOT IN (?, ?, ?)
         ORDER BY id DESC LIMIT 1`,
		documentID,
		string(deck.JobCompleted),
		string(deck.JobPartial),
		string(deck.JobFailed),
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active job: %w", err)
	}
	return record, nil
}

// History lists a document's journaled jobs, newest first. A non-positive
// limit returns everything.
func (j *Journal) History(ctx context.Context, documentID string, limit int) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM jobs WHERE document_id = ? ORDER BY id DESC`
	args := []any{documentID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return records, nil
}

// Prune removes resolved jobs older than the retention window, returning the
// number deleted.
func (j *Journal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	res, err := j.execWithRetry(
		ctx,
		`DELETE FROM jobs WHERE updated_at < ? AND status IN (?, ?, ?)`,
		cutoff,
		string(deck.JobCompleted),
		string(deck.JobPartial),
		string(deck.JobFailed),
	)
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		record     Record
		kind       string
		status     string
		errMsg     sql.NullString
		createdRaw string
		updatedRaw string
	)
	err := row.Scan(
		&record.ID,
		&record.DocumentID,
		&record.JobID,
		&kind,
		&status,
		&record.Progress.Total,
		&record.Progress.Completed,
		&record.Progress.Failed,
		&errMsg,
		&createdRaw,
		&updatedRaw,
	)
	if err != nil {
		return nil, err
	}
	record.Kind = deck.JobKind(kind)
	if parsed, ok := deck.ParseJobStatus(status); ok {
		record.Status = parsed
	} else {
		record.Status = deck.JobStatus(status)
	}
	record.Error = errMsg.String
	if t, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		record.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		record.UpdatedAt = t
	}
	return &record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
