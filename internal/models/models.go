// package models defines the data model for the download orchestrator
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// DownloadRecord is one row of the input track list. It is never modified after loading.
type DownloadRecord struct {
	Track  string `json:"track"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// Dispatchable reports whether both the track and artist are non-empty after trimming.
func (r DownloadRecord) Dispatchable() bool {
	return strings.TrimSpace(r.Track) != "" && strings.TrimSpace(r.Artist) != ""
}

// Label is the "<artist> - <track>" identity used in progress output and logs.
func (r DownloadRecord) Label() string {
	return fmt.Sprintf("%s - %s", r.Artist, r.Track)
}

// MediaURLTemplate builds the canonical watch URL for a resolved media ID.
const MediaURLTemplate = "https://youtube.com/watch?v=%s"

// ResolvedMedia is the search result consumed by the fetch phase.
type ResolvedMedia struct {
	ID    string
	Title string
}

// URL returns the canonical media URL.
func (m ResolvedMedia) URL() string {
	return fmt.Sprintf(MediaURLTemplate, m.ID)
}

// TaskState is the lifecycle position of a task.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskResolving
	TaskFetching
	TaskCompleted
	TaskFailed
	TaskSkipped
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskResolving:
		return "resolving"
	case TaskFetching:
		return "fetching"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	case TaskSkipped:
		return "skipped"
	default:
		return ""
	}
}

// ParseTaskState is the inverse of [TaskState.String].
func ParseTaskState(s string) (TaskState, error) {
	for st := TaskPending; st <= TaskSkipped; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return TaskPending, fmt.Errorf("unknown task state %q", s)
}

// IsTerminal reports whether no further transitions can happen.
func (s TaskState) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskSkipped
}

// TaskResult is the terminal outcome of one dispatched task.
type TaskResult struct {
	ID         string         `json:"id"`
	Record     DownloadRecord `json:"record"`
	State      TaskState      `json:"-"`
	Path       string         `json:"path,omitempty"`
	MediaID    string         `json:"media_id,omitempty"`
	Err        error          `json:"-"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Error returns the task error text, or "" on success.
func (r TaskResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Duration is the wall time between dispatch and the terminal state.
func (r TaskResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
