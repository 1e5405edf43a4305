package formatter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
)

// Header names of the columns read from a track list.
const (
	TrackHeader  = "Track Name"
	ArtistHeader = "Artist Name(s)"
	AlbumHeader  = "Album Name"
)

// LoadRecords reads the track list at path. Malformed rows are logged to logger and skipped.
func LoadRecords(path string, logger *log.Logger) ([]models.DownloadRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open track list: %v", shared.ErrIO, err)
	}
	defer f.Close()

	return ParseRecords(f, logger)
}

// ParseRecords reads a CSV track list from r.
func ParseRecords(r io.Reader, logger *log.Logger) ([]models.DownloadRecord, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: track list is empty", shared.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.DownloadRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed row", "err", err)
			continue
		}

		line, _ := reader.FieldPos(0)
		if len(row) <= cols.max() {
			logger.Warn("skipping short row", "line", line, "fields", len(row))
			continue
		}

		records = append(records, models.DownloadRecord{
			Track:  row[cols.track],
			Artist: row[cols.artist],
			Album:  row[cols.album],
		})
	}

	return records, nil
}

type columns struct {
	track, artist, album int
}

func (c columns) max() int {
	return max(c.track, c.artist, c.album)
}

func locateColumns(header []string) (columns, error) {
	cols := columns{track: -1, artist: -1, album: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, TrackHeader):
			cols.track = i
		case strings.EqualFold(name, ArtistHeader):
			cols.artist = i
		case strings.EqualFold(name, AlbumHeader):
			cols.album = i
		}
	}

	var missing []string
	if cols.track < 0 {
		missing = append(missing, TrackHeader)
	}
	if cols.artist < 0 {
		missing = append(missing, ArtistHeader)
	}
	if cols.album < 0 {
		missing = append(missing, AlbumHeader)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing CSV columns: %s", shared.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return cols, nil
}
