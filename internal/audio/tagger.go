package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// Tagger sets ID3 frames on MP3 files. Files with other extensions are left untouched.
type Tagger struct {
	// AlbumArtist also fills TPE2 with the record's artist.
	AlbumArtist bool
}

func NewTagger() *Tagger {
	return &Tagger{AlbumArtist: true}
}

// Tag writes the record's track, artist and album to the file at path.
//
// Existing frames are parsed and kept; only the frames derived from rec are replaced.
func (t *Tagger) Tag(path string, rec models.DownloadRecord) error {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: failed to open %s for tagging: %v", shared.ErrIO, path, err)
	}
	defer tag.Close()

	tag.AddTextFrame(tag.CommonID("Title"), id3v2.EncodingUTF8, rec.Track)
	tag.AddTextFrame(tag.CommonID("Artist"), id3v2.EncodingUTF8, rec.Artist)
	if rec.Album != "" {
		tag.AddTextFrame(tag.CommonID("Album/Movie/Show title"), id3v2.EncodingUTF8, rec.Album)
	}
	if t.AlbumArtist {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, rec.Artist)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: failed to save tags to %s: %v", shared.ErrIO, path, err)
	}
	return nil
}
