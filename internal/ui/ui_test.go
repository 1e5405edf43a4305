package ui

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/desertthunder/ytgrab/internal/tasks"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "lowercase y", input: "y\n", want: true},
		{name: "uppercase Y", input: "Y\n", want: true},
		{name: "padded y", input: "  y \n", want: true},
		{name: "y without newline", input: "y", want: true},
		{name: "yes is not y", input: "yes\n", want: false},
		{name: "n", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "eof", input: "", want: false},
	}

	rec := models.DownloadRecord{Track: "Song A", Artist: "Artist X", Album: "Album Y"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			if got := p.Confirm(rec); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if out.String() != "Download 'Song A' by Artist X? [y/N]: " {
				t.Errorf("unexpected prompt %q", out.String())
			}
		})
	}
}

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("first.csv\n  second.csv  \n"), &out)

	for _, want := range []string{"first.csv", "second.csv"} {
		got, err := p.Ask("Path: ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}

	if _, err := p.Ask("Path: "); err == nil {
		t.Error("expected error at end of input")
	}
	if strings.Count(out.String(), "Path: ") != 3 {
		t.Errorf("expected three prompts, got %q", out.String())
	}
}

func TestPlainDisplay(t *testing.T) {
	t.Run("prints start and finish lines", func(t *testing.T) {
		var out bytes.Buffer
		d := NewPlainDisplay(&out)

		h := d.Add("Artist X - Song A")
		h.SetPosition(40)
		h.SetPosition(100)
		h.Finish("Done: Artist X - Song A")

		got := out.String()
		for _, want := range []string{"→ Artist X - Song A", "✓ Done: Artist X - Song A", "(100%)"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got %q", want, got)
			}
		}
	})

	t.Run("marks unfinished tasks", func(t *testing.T) {
		var out bytes.Buffer
		h := NewPlainDisplay(&out).Add("Artist X - Song B")
		h.SetPosition(50)
		h.SetPosition(30)
		h.Finish("Done: Artist X - Song B")

		got := out.String()
		if !strings.Contains(got, "✗ Done: Artist X - Song B") || !strings.Contains(got, "(50%)") {
			t.Errorf("unexpected output %q", got)
		}
	})
}

func TestProgressModel(t *testing.T) {
	update := func(m tea.Model, msg tea.Msg) (progressModel, tea.Cmd) {
		next, cmd := m.Update(msg)
		return next.(progressModel), cmd
	}

	t.Run("tracks bars and ignores regressions", func(t *testing.T) {
		m := newProgressModel()
		m, _ = update(m, barAddedMsg(1, "Artist X - Song A"))
		m, _ = update(m, barAddedMsg(2, "Artist X - Song B"))
		m, _ = update(m, barProgressMsg(1, 40))
		m, _ = update(m, barProgressMsg(1, 20))

		if len(m.bars) != 2 {
			t.Fatalf("expected 2 bars, got %d", len(m.bars))
		}
		if m.bars[0].pos != 40 {
			t.Errorf("expected position 40, got %d", m.bars[0].pos)
		}

		view := m.View()
		if !strings.Contains(view, "Artist X - Song A") || !strings.Contains(view, " 40%") {
			t.Errorf("unexpected view %q", view)
		}
	})

	t.Run("finished bars leave the view", func(t *testing.T) {
		m := newProgressModel()
		m, _ = update(m, barAddedMsg(1, "Artist X - Song A"))
		m, cmd := update(m, barFinishedMsg(1, "Done: Artist X - Song A"))

		if len(m.bars) != 0 {
			t.Errorf("expected finished bar to be removed, got %d bars", len(m.bars))
		}
		if cmd == nil {
			t.Error("expected a print command for the finished bar")
		}
	})

	t.Run("stop quits", func(t *testing.T) {
		_, cmd := update(newProgressModel(), stopMsg())
		if cmd == nil {
			t.Fatal("expected a command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("log lines are printed", func(t *testing.T) {
		_, cmd := update(newProgressModel(), logLineMsg("INFO found"))
		if cmd == nil {
			t.Error("expected a print command")
		}
	})
}

func TestMultiProgress(t *testing.T) {
	var out bytes.Buffer
	mp := NewMultiProgress(&out)
	mp.Start()

	var display tasks.Display = mp
	h := display.Add("Artist X - Song A")
	h.SetPosition(50)
	fmt.Fprintln(mp.Writer(), "INFO found track")
	h.SetPosition(100)
	h.Finish("Done: Artist X - Song A")

	if err := mp.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if _, err := fmt.Fprint(mp.Writer(), "after stop\n"); err != nil {
		t.Fatalf("write after stop: %v", err)
	}
	if !strings.Contains(out.String(), "after stop") {
		t.Error("expected writes after Stop to reach the output directly")
	}
}

func TestRenderSummary(t *testing.T) {
	result := &tasks.RunResult{
		RunID:     "run-1",
		Total:     4,
		Ignored:   1,
		Completed: 1,
		Skipped:   1,
		Failed:    1,
		Results: []models.TaskResult{
			{Record: models.DownloadRecord{Track: "Song A", Artist: "Artist X"}, State: models.TaskCompleted},
			{Record: models.DownloadRecord{Track: "Song B", Artist: "Artist X"}, State: models.TaskSkipped},
			{
				Record: models.DownloadRecord{Track: "Song C", Artist: "Artist X"},
				State:  models.TaskFailed,
				Err:    fmt.Errorf("%w: failed with exit code 1", shared.ErrFetch),
			},
		},
	}

	var out bytes.Buffer
	RenderSummary(&out, result)

	got := out.String()
	for _, want := range []string{"run-1", "completed 1", "failed 1", "1 ignored", "Artist X - Song C", "exit code 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Song A:") {
		t.Error("successful tracks should not be listed")
	}
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
	if UseMultiProgress(f, true, false) {
		t.Error("multi progress requires a terminal")
	}
}
