package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/tasks"
)

var _ tasks.Confirmer = (*Prompter)(nil)

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks whether to download rec. Only "y" (any case) accepts; EOF declines.
func (p *Prompter) Confirm(rec models.DownloadRecord) bool {
	answer, err := p.Ask(fmt.Sprintf("Download '%s' by %s? [y/N]: ", rec.Track, rec.Artist))
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y")
}

// Ask prints question and returns the trimmed answer. A final line without newline is accepted.
func (p *Prompter) Ask(question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
