package models

import (
	"fmt"
	"time"
)

// HistoryEntry is a persisted [TaskResult].
//
// Entries are write-once: they are created when a task reaches a terminal state and only ever soft-deleted.
type HistoryEntry struct {
	id        string
	sequence  int
	runID     string
	record    DownloadRecord
	state     TaskState
	path      string
	mediaID   string
	errText   string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewHistoryEntry builds an unsaved entry for result within run runID.
func NewHistoryEntry(runID string, result TaskResult) *HistoryEntry {
	now := time.Now()
	if !result.FinishedAt.IsZero() {
		now = result.FinishedAt
	}
	return &HistoryEntry{
		runID:     runID,
		record:    result.Record,
		state:     result.State,
		path:      result.Path,
		mediaID:   result.MediaID,
		errText:   result.Error(),
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreHistoryEntry rebuilds an entry from stored columns.
func RestoreHistoryEntry(id string, sequence int, runID string, record DownloadRecord, state TaskState,
	path, mediaID, errText string, createdAt, updatedAt time.Time, deletedAt *time.Time) *HistoryEntry {
	return &HistoryEntry{
		id:        id,
		sequence:  sequence,
		runID:     runID,
		record:    record,
		state:     state,
		path:      path,
		mediaID:   mediaID,
		errText:   errText,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (h *HistoryEntry) ID() string                { return h.id }
func (h *HistoryEntry) Sequence() int             { return h.sequence }
func (h *HistoryEntry) RunID() string             { return h.runID }
func (h *HistoryEntry) Record() DownloadRecord    { return h.record }
func (h *HistoryEntry) State() TaskState          { return h.state }
func (h *HistoryEntry) Path() string              { return h.path }
func (h *HistoryEntry) MediaID() string           { return h.mediaID }
func (h *HistoryEntry) ErrorText() string         { return h.errText }
func (h *HistoryEntry) CreatedAt() time.Time      { return h.createdAt }
func (h *HistoryEntry) UpdatedAt() time.Time      { return h.updatedAt }
func (h *HistoryEntry) DeletedAt() *time.Time     { return h.deletedAt }
func (h *HistoryEntry) SetID(id string)           { h.id = id }
func (h *HistoryEntry) SetSequence(seq int)       { h.sequence = seq }
func (h *HistoryEntry) SetDeletedAt(t *time.Time) { h.deletedAt = t }

// Validate checks the fields every stored entry must carry.
func (h *HistoryEntry) Validate() error {
	switch {
	case h.id == "":
		return fmt.Errorf("history entry ID is required")
	case h.runID == "":
		return fmt.Errorf("history entry run ID is required")
	case !h.record.Dispatchable():
		return fmt.Errorf("history entry needs a track and an artist")
	case !h.state.IsTerminal():
		return fmt.Errorf("history entry state %q is not terminal", h.state)
	}
	return nil
}

// HistoryView is the JSON shape of an entry for CLI output.
type HistoryView struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Track     string    `json:"track"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	State     string    `json:"state"`
	Path      string    `json:"path,omitempty"`
	MediaID   string    `json:"media_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// View returns the JSON-friendly representation of h.
func (h *HistoryEntry) View() HistoryView {
	return HistoryView{
		ID:        h.id,
		RunID:     h.runID,
		Track:     h.record.Track,
		Artist:    h.record.Artist,
		Album:     h.record.Album,
		State:     h.state.String(),
		Path:      h.path,
		MediaID:   h.mediaID,
		Error:     h.errText,
		CreatedAt: h.createdAt,
	}
}
