package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/desertthunder/ytgrab/internal/shared"
)

// DefaultBaseDir is the directory used when none is configured.
const DefaultBaseDir = "playlists"

// DefaultExtension is the extension yt-dlp produces for the configured audio format.
const DefaultExtension = "mp3"

var (
	forbiddenChars = regexp.MustCompile(`[\\/:"*?<>|]+`)
	punctuation    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{Pc}\s]`)
)

// Layout places tracks under BaseDir, one directory per album.
type Layout struct {
	BaseDir   string
	Extension string
}

// NewLayout creates a [Layout] rooted at base, falling back to [DefaultBaseDir].
func NewLayout(base, ext string) *Layout {
	if base == "" {
		base = DefaultBaseDir
	}
	if ext == "" {
		ext = DefaultExtension
	}
	return &Layout{BaseDir: base, Extension: strings.TrimPrefix(ext, ".")}
}

// TrackPath returns "<base>/<album>/<track>.<ext>" and creates the album directory.
//
// A directory that cannot be created is reported as [shared.ErrIO]; the path is still returned.
func (l *Layout) TrackPath(_ string, album, track string) (string, error) {
	dir := filepath.Join(l.BaseDir, SanitizeComponent(album))
	path := filepath.Join(dir, SanitizeComponent(track)+"."+l.Extension)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return path, fmt.Errorf("%w: failed to create album directory %s: %v", shared.ErrIO, dir, err)
	}
	return path, nil
}

// SanitizeComponent removes characters that are not allowed in file or directory names.
func SanitizeComponent(name string) string {
	return forbiddenChars.ReplaceAllString(name, "")
}

// OutputTemplate strips the extension from path; yt-dlp appends its own.
func OutputTemplate(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// CleanQuery builds the search string "<track> - <artist> official audio" with punctuation removed from both names.
func CleanQuery(track, artist string) string {
	t := strings.TrimSpace(punctuation.ReplaceAllString(track, ""))
	a := strings.TrimSpace(punctuation.ReplaceAllString(artist, ""))
	return fmt.Sprintf("%s - %s official audio", t, a)
}
