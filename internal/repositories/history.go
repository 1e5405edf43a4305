package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
)

var _ models.Repository[*models.HistoryEntry] = (*HistoryRepository)(nil)

const historyColumns = `id, sequence, run_id, track, artist, album, state, path, media_id, error, created_at, updated_at, deleted_at`

// HistoryRepository implements models.Repository[*models.HistoryEntry] for download history.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts entry with a generated ID and sequence
func (r *HistoryRepository) Create(entry *models.HistoryEntry) error {
	entry.SetID(shared.GenerateID())
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: validation failed: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "downloads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	entry.SetSequence(sequence)

	query := `
		INSERT INTO downloads (id, sequence, run_id, track, artist, album, state, path, media_id, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	rec := entry.Record()
	_, err = r.db.Exec(query,
		entry.ID(),
		sequence,
		entry.RunID(),
		rec.Track,
		rec.Artist,
		rec.Album,
		entry.State().String(),
		entry.Path(),
		entry.MediaID(),
		entry.ErrorText(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by ID, excluding soft-deleted entries
func (r *HistoryRepository) Get(id string) (*models.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM downloads WHERE id = ? AND deleted_at IS NULL`

	entry, err := scanEntry(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: history entry %s", shared.ErrNotFound, id)
	}
	return entry, err
}

// Delete soft-deletes an entry by ID
func (r *HistoryRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE downloads SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: history entry not found or already deleted: %s", shared.ErrNotFound, id)
	}

	return nil
}

// DeleteRun soft-deletes every entry of a run and returns how many were removed.
func (r *HistoryRepository) DeleteRun(runID string) (int64, error) {
	result, err := r.db.Exec(`UPDATE downloads SET deleted_at = ? WHERE run_id = ? AND deleted_at IS NULL`, time.Now(), runID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete run: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves entries newest first, excluding soft-deleted entries.
//
// Supported criteria: "run_id" (string), "state" (string, see [models.TaskState]) and "limit" (int).
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM downloads WHERE deleted_at IS NULL`
	args := []any{}

	if runID, ok := criteria["run_id"].(string); ok && runID != "" {
		query += " AND run_id = ?"
		args = append(args, runID)
	}

	if state, ok := criteria["state"].(string); ok && state != "" {
		if _, err := models.ParseTaskState(state); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		query += " AND state = ?"
		args = append(args, state)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// LatestRunID returns the run of the most recently recorded entry.
func (r *HistoryRepository) LatestRunID() (string, error) {
	var runID string
	err := r.db.QueryRow(`SELECT run_id FROM downloads WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no recorded runs", shared.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.HistoryEntry, error) {
	var (
		id        string
		sequence  int
		runID     string
		rec       models.DownloadRecord
		state     string
		path      string
		mediaID   string
		errText   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &runID, &rec.Track, &rec.Artist, &rec.Album, &state, &path, &mediaID, &errText, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}

	st, err := models.ParseTaskState(state)
	if err != nil {
		return nil, fmt.Errorf("failed to scan history entry %s: %w", id, err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreHistoryEntry(id, sequence, runID, rec, st, path, mediaID, errText, createdAt, updatedAt, deleted), nil
}

// HistoryRecorder stores scheduler results through a [HistoryRepository].
//
// Writes are serialized so concurrent tasks never contend for the SQLite write lock.
type HistoryRecorder struct {
	mu   sync.Mutex
	repo *HistoryRepository
}

// NewHistoryRecorder creates a new HistoryRecorder with the given repository
func NewHistoryRecorder(repo *HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record persists result as a new entry of run runID.
func (a *HistoryRecorder) Record(runID string, result models.TaskResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.repo.Create(models.NewHistoryEntry(runID, result)); err != nil {
		return fmt.Errorf("failed to record %s: %w", result.Record.Label(), err)
	}
	return nil
}
