package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultTool          = "yt-dlp"
	DefaultSearchResults = 10
	DefaultAudioFormat   = "mp3"
	DefaultAudioQuality  = "192K"
	DefaultPollInterval  = 300 * time.Millisecond
	formatSelector       = "bestaudio/best"
)

// Options configures a [Client]. Zero values fall back to the package defaults.
type Options struct {
	Tool          string
	SearchResults int
	AudioFormat   string
	AudioQuality  string
	PollInterval  time.Duration
	SearchRate    float64 // searches per second; 0 disables throttling
	Logger        *log.Logger
}

// Client runs yt-dlp searches and downloads. It is safe for concurrent use.
type Client struct {
	tool    string
	results int
	format  string
	quality string
	poll    time.Duration
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a [Client] from opts.
func NewClient(opts Options) *Client {
	if opts.Tool == "" {
		opts.Tool = DefaultTool
	}
	if opts.SearchResults <= 0 {
		opts.SearchResults = DefaultSearchResults
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = DefaultAudioFormat
	}
	if opts.AudioQuality == "" {
		opts.AudioQuality = DefaultAudioQuality
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.SearchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.SearchRate), 1)
	}

	return &Client{
		tool:    opts.Tool,
		results: opts.SearchResults,
		format:  opts.AudioFormat,
		quality: opts.AudioQuality,
		poll:    opts.PollInterval,
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// Tool returns the executable the client invokes.
func (c *Client) Tool() string {
	return c.tool
}

// SearchArgs returns the argument list for a metadata-only search.
func (c *Client) SearchArgs(query string) []string {
	return []string{
		fmt.Sprintf("ytsearch%d:%s", c.results, query),
		"--dump-json",
		"--skip-download",
	}
}

// FetchArgs returns the argument list that downloads url as audio into outTemplate.
func (c *Client) FetchArgs(url, outTemplate string) []string {
	return []string{
		"-f", formatSelector,
		"--extract-audio",
		"--audio-format", c.format,
		"--audio-quality", c.quality,
		"-o", outTemplate,
		url,
	}
}

// Version runs `<tool> --version`. It fails when the tool is missing from PATH.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, c.tool, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s is not usable: %w", c.tool, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Resolve searches for query and returns the first result's media identifier.
//
// Only the first output line is consulted. A malformed first line fails the resolve.
func (c *Client) Resolve(ctx context.Context, query string) (models.ResolvedMedia, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.ResolvedMedia{}, fmt.Errorf("%w: %v", shared.ErrResolve, err)
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, c.tool, c.SearchArgs(query)...)
	cmd.Stdout = &stdout

	c.logger.Debug("searching", "tool", c.tool, "query", query)
	if err := cmd.Run(); err != nil {
		return models.ResolvedMedia{}, fmt.Errorf("%w: search %s", shared.ErrResolve, describeExit(err))
	}

	return ParseSearchOutput(stdout.Bytes())
}

// searchResult holds the fields read from a --dump-json line.
type searchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ParseSearchOutput extracts the media identifier from the first line of --dump-json output.
func ParseSearchOutput(out []byte) (models.ResolvedMedia, error) {
	if len(out) == 0 {
		return models.ResolvedMedia{}, fmt.Errorf("%w: %w", shared.ErrResolve, shared.ErrNoResults)
	}

	line, _, _ := bytes.Cut(out, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	var res searchResult
	if err := json.Unmarshal(line, &res); err != nil {
		return models.ResolvedMedia{}, fmt.Errorf("%w: %w: %v", shared.ErrResolve, shared.ErrMalformedResult, err)
	}
	if res.ID == "" {
		return models.ResolvedMedia{}, fmt.Errorf("%w: %w", shared.ErrResolve, shared.ErrMissingMediaID)
	}

	return models.ResolvedMedia{ID: res.ID, Title: res.Title}, nil
}

// Fetch downloads url into outTemplate (a path without extension) and blocks until the child exits.
//
// tick runs once per poll interval while the child is alive. It never runs after Fetch returns.
// A non-zero exit yields an error wrapping [shared.ErrFetch] that names the exit code.
func (c *Client) Fetch(ctx context.Context, url, outTemplate string, tick func()) error {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.tool, c.FetchArgs(url, outTemplate)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start %s: %v", shared.ErrFetch, c.tool, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			c.logger.Debug("fetch exited", "url", url, "stdout_bytes", stdout.Len(), "stderr", lastLine(stderr.String()))
			if err != nil {
				msg := describeExit(err)
				if tail := lastLine(stderr.String()); tail != "" {
					msg += ": " + tail
				}
				return fmt.Errorf("%w: %s", shared.ErrFetch, msg)
			}
			return nil
		case <-ticker.C:
			if tick != nil {
				tick()
			}
		}
	}
}

// describeExit renders a process error, naming the exit code when there is one.
func describeExit(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("failed with exit code %d", exitErr.ExitCode())
	}
	return fmt.Sprintf("failed: %v", err)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
