package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Download DownloadConfig `toml:"download"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// DownloadConfig controls the orchestrator and the yt-dlp invocations.
type DownloadConfig struct {
	BaseDir         string  `toml:"base_dir"`
	Jobs            int     `toml:"jobs"`
	Tool            string  `toml:"tool"`
	SearchResults   int     `toml:"search_results"`
	AudioFormat     string  `toml:"audio_format"`
	AudioQuality    string  `toml:"audio_quality"`
	PollIntervalMS  int     `toml:"poll_interval_ms"`
	ProgressStep    int     `toml:"progress_step"`
	ProgressCeiling int     `toml:"progress_ceiling"`
	SearchRate      float64 `toml:"search_rate"`
	Tag             bool    `toml:"tag"`
}

// PollInterval returns the poll interval as a [time.Duration].
func (d DownloadConfig) PollInterval() time.Duration {
	return time.Duration(d.PollIntervalMS) * time.Millisecond
}

// audioExtensions maps yt-dlp --audio-format values to the extension of the file it writes.
var audioExtensions = map[string]string{
	"mp3":    "mp3",
	"aac":    "m4a",
	"m4a":    "m4a",
	"alac":   "m4a",
	"opus":   "opus",
	"vorbis": "ogg",
	"flac":   "flac",
	"wav":    "wav",
}

// AudioExtension returns the extension of the file yt-dlp writes for format. An empty format
// means mp3. "best" keeps the source container, so no fixed extension exists and it is rejected.
func AudioExtension(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return "mp3", nil
	}
	ext, ok := audioExtensions[format]
	if !ok {
		return "", fmt.Errorf("%w: unsupported download.audio_format %q", ErrInvalidConfig, format)
	}
	return ext, nil
}

// Extension is [AudioExtension] of the configured audio format.
func (d DownloadConfig) Extension() (string, error) {
	return AudioExtension(d.AudioFormat)
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks the settings the orchestrator cannot run without.
func (c *Config) Validate() error {
	d := c.Download
	switch {
	case d.Jobs < 1:
		return fmt.Errorf("%w: download.jobs must be at least 1, got %d", ErrInvalidConfig, d.Jobs)
	case d.Tool == "":
		return fmt.Errorf("%w: download.tool is empty", ErrInvalidConfig)
	case d.SearchResults < 1:
		return fmt.Errorf("%w: download.search_results must be at least 1, got %d", ErrInvalidConfig, d.SearchResults)
	case d.PollIntervalMS < 1:
		return fmt.Errorf("%w: download.poll_interval_ms must be positive", ErrInvalidConfig)
	case d.ProgressCeiling < 0 || d.ProgressCeiling > 99:
		return fmt.Errorf("%w: download.progress_ceiling must be within [0, 99]", ErrInvalidConfig)
	case d.SearchRate < 0:
		return fmt.Errorf("%w: download.search_rate cannot be negative", ErrInvalidConfig)
	}
	if _, err := d.Extension(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
