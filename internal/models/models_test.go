package models

import (
	"errors"
	"testing"
	"time"
)

func TestDownloadRecord(t *testing.T) {
	tc := []struct {
		name   string
		record DownloadRecord
		want   bool
	}{
		{name: "complete", record: DownloadRecord{Track: "Song A", Artist: "Artist X", Album: "Album Y"}, want: true},
		{name: "no album is fine", record: DownloadRecord{Track: "Song A", Artist: "Artist X"}, want: true},
		{name: "empty track", record: DownloadRecord{Artist: "Artist X", Album: "Album Y"}, want: false},
		{name: "empty artist", record: DownloadRecord{Track: "Song A", Album: "Album Y"}, want: false},
		{name: "whitespace track", record: DownloadRecord{Track: "  \t", Artist: "Artist X"}, want: false},
		{name: "whitespace artist", record: DownloadRecord{Track: "Song A", Artist: " "}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Dispatchable(); got != tt.want {
				t.Errorf("Dispatchable() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("Label", func(t *testing.T) {
		r := DownloadRecord{Track: "Song A", Artist: "Artist X"}
		if got := r.Label(); got != "Artist X - Song A" {
			t.Errorf("Label() = %q", got)
		}
	})
}

func TestResolvedMediaURL(t *testing.T) {
	m := ResolvedMedia{ID: "dQw4w9WgXcQ"}
	if got := m.URL(); got != "https://youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("URL() = %q", got)
	}
}

func TestTaskState(t *testing.T) {
	for st := TaskPending; st <= TaskSkipped; st++ {
		parsed, err := ParseTaskState(st.String())
		if err != nil || parsed != st {
			t.Errorf("ParseTaskState(%q) = %v, %v", st.String(), parsed, err)
		}
	}

	if _, err := ParseTaskState("exploded"); err == nil {
		t.Error("expected error for unknown state")
	}

	terminal := map[TaskState]bool{TaskCompleted: true, TaskFailed: true, TaskSkipped: true}
	for st := TaskPending; st <= TaskSkipped; st++ {
		if st.IsTerminal() != terminal[st] {
			t.Errorf("%s.IsTerminal() = %v", st, st.IsTerminal())
		}
	}
}

func TestTaskResult(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	r := TaskResult{StartedAt: start}
	if r.Duration() != 0 {
		t.Errorf("unfinished result should have zero duration, got %v", r.Duration())
	}
	if r.Error() != "" {
		t.Errorf("expected empty error text, got %q", r.Error())
	}

	r.FinishedAt = start.Add(3 * time.Second)
	r.Err = errors.New("boom")
	if r.Duration() != 3*time.Second {
		t.Errorf("Duration() = %v", r.Duration())
	}
	if r.Error() != "boom" {
		t.Errorf("Error() = %q", r.Error())
	}
}

func TestHistoryEntry(t *testing.T) {
	result := TaskResult{
		Record:     DownloadRecord{Track: "Song A", Artist: "Artist X", Album: "Album Y"},
		State:      TaskFailed,
		Err:        errors.New("fetch failed: exit code 1"),
		FinishedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	entry := NewHistoryEntry("run-1", result)
	if err := entry.Validate(); err == nil {
		t.Error("entry without ID should not validate")
	}

	entry.SetID("entry-1")
	if err := entry.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	if !entry.CreatedAt().Equal(result.FinishedAt) {
		t.Errorf("CreatedAt() = %v, want %v", entry.CreatedAt(), result.FinishedAt)
	}

	view := entry.View()
	if view.State != "failed" || view.Error != "fetch failed: exit code 1" || view.Album != "Album Y" {
		t.Errorf("unexpected view: %+v", view)
	}

	pending := NewHistoryEntry("run-1", TaskResult{Record: result.Record, State: TaskFetching})
	pending.SetID("entry-2")
	if err := pending.Validate(); err == nil {
		t.Error("non-terminal entry should not validate")
	}
}
