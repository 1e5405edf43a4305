package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/ytgrab/internal/shared"
	th "github.com/desertthunder/ytgrab/internal/testing"
)

func TestCleanQuery(t *testing.T) {
	tc := []struct {
		name   string
		track  string
		artist string
		want   string
	}{
		{
			name:   "plain",
			track:  "Song A",
			artist: "Artist X",
			want:   "Song A - Artist X official audio",
		},
		{
			name:   "punctuation stripped",
			track:  "Don't Stop Me Now!",
			artist: "Queen",
			want:   "Dont Stop Me Now - Queen official audio",
		},
		{
			name:   "featuring and parentheses",
			track:  "Song (feat. Other) - Remix",
			artist: "A, B & C",
			want:   "Song feat Other  Remix - A B  C official audio",
		},
		{
			name:   "trimmed",
			track:  "  ...Intro  ",
			artist: " Band ",
			want:   "Intro - Band official audio",
		},
		{
			name:   "non-ascii letters kept",
			track:  "Café del Mar",
			artist: "Björk",
			want:   "Café del Mar - Björk official audio",
		},
		{
			name:   "combining accents kept",
			track:  "Cafe\u0301",
			artist: "Sigur Ro\u0301s",
			want:   "Cafe\u0301 - Sigur Ro\u0301s official audio",
		},
		{
			name:   "connector punctuation kept",
			track:  "snake_case\u203fsong",
			artist: "Band",
			want:   "snake_case\u203fsong - Band official audio",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanQuery(tt.track, tt.artist); got != tt.want {
				t.Errorf("CleanQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeComponent(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{in: "Song A", want: "Song A"},
		{in: "AC/DC", want: "ACDC"},
		{in: `What? "Now": <live> | *mix* \ end`, want: "What Now live  mix  end"},
		{in: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeComponent(tt.in); got != tt.want {
				t.Errorf("SanitizeComponent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	t.Run("TrackPath creates album directory", func(t *testing.T) {
		base := t.TempDir()
		layout := NewLayout(base, "")

		path, err := layout.TrackPath("Artist X", "Album Y", "Song A")
		if err != nil {
			t.Fatalf("TrackPath() error = %v", err)
		}

		want := filepath.Join(base, "Album Y", "Song A.mp3")
		if path != want {
			t.Errorf("TrackPath() = %q, want %q", path, want)
		}
		th.AssertDirExists(t, filepath.Join(base, "Album Y"))
	})

	t.Run("TrackPath sanitizes track and album", func(t *testing.T) {
		base := t.TempDir()
		layout := NewLayout(base, ".mp3")

		path, err := layout.TrackPath("ignored", "AC/DC: Live", "Who? Me/You")
		if err != nil {
			t.Fatalf("TrackPath() error = %v", err)
		}

		want := filepath.Join(base, "ACDC Live", "Who MeYou.mp3")
		if path != want {
			t.Errorf("TrackPath() = %q, want %q", path, want)
		}
	})

	t.Run("TrackPath ignores artist", func(t *testing.T) {
		layout := NewLayout(t.TempDir(), "")
		a, _ := layout.TrackPath("Artist X", "Album", "Song")
		b, _ := layout.TrackPath("Artist Z", "Album", "Song")
		if a != b {
			t.Errorf("expected identical paths, got %q and %q", a, b)
		}
	})

	t.Run("TrackPath reports directory failure", func(t *testing.T) {
		base := t.TempDir()
		blocker := filepath.Join(base, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write blocker file: %v", err)
		}

		layout := NewLayout(blocker, "")
		path, err := layout.TrackPath("Artist X", "Album Y", "Song A")
		if !errors.Is(err, shared.ErrIO) {
			t.Fatalf("expected ErrIO, got %v", err)
		}
		if path == "" {
			t.Error("path should still be returned")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		layout := NewLayout("", "")
		if layout.BaseDir != DefaultBaseDir || layout.Extension != DefaultExtension {
			t.Errorf("unexpected defaults: %+v", layout)
		}
	})
}

func TestOutputTemplate(t *testing.T) {
	got := OutputTemplate(filepath.Join("playlists", "Album Y", "Song A.mp3"))
	want := filepath.Join("playlists", "Album Y", "Song A")
	if got != want {
		t.Errorf("OutputTemplate() = %q, want %q", got, want)
	}
}
