package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/ytgrab/internal/shared"
	th "github.com/desertthunder/ytgrab/internal/testing"
)

func newTestClient(tool string) *Client {
	return NewClient(Options{Tool: tool, PollInterval: 10 * time.Millisecond})
}

func TestNewClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c := NewClient(Options{})
		if c.Tool() != DefaultTool {
			t.Errorf("expected tool %q, got %q", DefaultTool, c.Tool())
		}
		if c.poll != DefaultPollInterval {
			t.Errorf("expected poll interval %v, got %v", DefaultPollInterval, c.poll)
		}
		if c.results != DefaultSearchResults {
			t.Errorf("expected %d search results, got %d", DefaultSearchResults, c.results)
		}
	})

	t.Run("search args", func(t *testing.T) {
		c := NewClient(Options{})
		got := strings.Join(c.SearchArgs("Song - Band official audio"), " ")
		want := "ytsearch10:Song - Band official audio --dump-json --skip-download"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("fetch args", func(t *testing.T) {
		c := NewClient(Options{})
		got := strings.Join(c.FetchArgs("https://youtube.com/watch?v=abc", "playlists/Album/Song"), " ")
		want := "-f bestaudio/best --extract-audio --audio-format mp3 --audio-quality 192K -o playlists/Album/Song https://youtube.com/watch?v=abc"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}

func TestParseSearchOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantID  string
		wantErr error
	}{
		{name: "first line wins", output: "{\"id\":\"abc123\",\"title\":\"Song\"}\n{\"id\":\"zzz\"}\n", wantID: "abc123"},
		{name: "no trailing newline", output: `{"id":"abc123"}`, wantID: "abc123"},
		{name: "crlf line ending", output: "{\"id\":\"abc123\"}\r\n", wantID: "abc123"},
		{name: "empty output", output: "", wantErr: shared.ErrNoResults},
		{name: "malformed first line", output: "not json\n{\"id\":\"abc123\"}\n", wantErr: shared.ErrMalformedResult},
		{name: "missing id", output: `{"title":"Song"}`, wantErr: shared.ErrMissingMediaID},
		{name: "empty id", output: `{"id":""}`, wantErr: shared.ErrMissingMediaID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, err := ParseSearchOutput([]byte(tt.output))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, shared.ErrResolve) {
					t.Errorf("expected error to wrap ErrResolve, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if media.ID != tt.wantID {
				t.Errorf("expected id %q, got %q", tt.wantID, media.ID)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("returns first result", func(t *testing.T) {
		dir := t.TempDir()
		argsFile := filepath.Join(dir, "args")
		tool := th.FakeTool(t, dir, "yt-dlp", `echo "$@" > `+argsFile+`
echo '{"id":"abc123","title":"Song"}'
echo '{"id":"second"}'
echo 'noise' >&2`)

		media, err := newTestClient(tool).Resolve(context.Background(), "Song - Band official audio")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if media.ID != "abc123" {
			t.Errorf("expected id abc123, got %q", media.ID)
		}
		if media.URL() != "https://youtube.com/watch?v=abc123" {
			t.Errorf("unexpected url %q", media.URL())
		}

		args := th.MustReadFile(t, argsFile)
		if !strings.HasPrefix(args, "ytsearch10:Song - Band official audio --dump-json --skip-download") {
			t.Errorf("unexpected search args %q", args)
		}
	})

	t.Run("no output", func(t *testing.T) {
		tool := th.FakeTool(t, t.TempDir(), "yt-dlp", "exit 0")
		_, err := newTestClient(tool).Resolve(context.Background(), "q")
		if !errors.Is(err, shared.ErrNoResults) {
			t.Errorf("expected ErrNoResults, got %v", err)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		tool := th.FakeTool(t, t.TempDir(), "yt-dlp", "exit 2")
		_, err := newTestClient(tool).Resolve(context.Background(), "q")
		if !errors.Is(err, shared.ErrResolve) {
			t.Fatalf("expected ErrResolve, got %v", err)
		}
		if !strings.Contains(err.Error(), "exit code 2") {
			t.Errorf("expected exit code in error, got %v", err)
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		c := newTestClient(filepath.Join(t.TempDir(), "does-not-exist"))
		_, err := c.Resolve(context.Background(), "q")
		if !errors.Is(err, shared.ErrResolve) {
			t.Errorf("expected ErrResolve, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		tool := th.FakeTool(t, t.TempDir(), "yt-dlp", `echo '{"id":"abc"}'`)
		c := NewClient(Options{Tool: tool, SearchRate: 0.001})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := c.Resolve(ctx, "q"); !errors.Is(err, shared.ErrResolve) {
			t.Errorf("expected ErrResolve, got %v", err)
		}
	})
}

func TestFetch(t *testing.T) {
	t.Run("success produces file and ticks", func(t *testing.T) {
		dir := t.TempDir()
		tool := th.FakeTool(t, dir, "yt-dlp", `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
sleep 0.2
touch "$out.mp3"`)

		template := filepath.Join(dir, "Album", "Song")
		if err := os.MkdirAll(filepath.Dir(template), 0755); err != nil {
			t.Fatal(err)
		}

		var ticks atomic.Int32
		err := newTestClient(tool).Fetch(context.Background(), "https://youtube.com/watch?v=abc", template, func() {
			ticks.Add(1)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		th.AssertFileExists(t, template+".mp3")
		if ticks.Load() == 0 {
			t.Error("expected at least one tick while the tool was running")
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		tool := th.FakeTool(t, t.TempDir(), "yt-dlp", `echo "ERROR: video unavailable" >&2
exit 1`)

		err := newTestClient(tool).Fetch(context.Background(), "https://youtube.com/watch?v=abc", "out", nil)
		if !errors.Is(err, shared.ErrFetch) {
			t.Fatalf("expected ErrFetch, got %v", err)
		}
		if !strings.Contains(err.Error(), "exit code 1") {
			t.Errorf("expected exit code in error, got %v", err)
		}
		if !strings.Contains(err.Error(), "video unavailable") {
			t.Errorf("expected stderr tail in error, got %v", err)
		}
	})

	t.Run("no ticks after return", func(t *testing.T) {
		tool := th.FakeTool(t, t.TempDir(), "yt-dlp", "sleep 0.05")

		var ticks atomic.Int32
		if err := newTestClient(tool).Fetch(context.Background(), "u", "out", func() { ticks.Add(1) }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		after := ticks.Load()
		time.Sleep(50 * time.Millisecond)
		if ticks.Load() != after {
			t.Errorf("tick ran after Fetch returned: %d -> %d", after, ticks.Load())
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		c := newTestClient(filepath.Join(t.TempDir(), "does-not-exist"))
		if err := c.Fetch(context.Background(), "u", "out", nil); !errors.Is(err, shared.ErrFetch) {
			t.Errorf("expected ErrFetch, got %v", err)
		}
	})
}

func TestVersion(t *testing.T) {
	t.Run("reports version", func(t *testing.T) {
		tool := th.FakeTool(t, t.TempDir(), "yt-dlp", "echo 2025.10.22")
		v, err := newTestClient(tool).Version(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "2025.10.22" {
			t.Errorf("expected version 2025.10.22, got %q", v)
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		c := newTestClient(filepath.Join(t.TempDir(), "does-not-exist"))
		if _, err := c.Version(context.Background()); err == nil {
			t.Error("expected error for missing tool")
		}
	})
}
