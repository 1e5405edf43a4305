package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/desertthunder/ytgrab/internal/tasks"
	"github.com/mattn/go-isatty"
)

var _ tasks.Display = (*PlainDisplay)(nil)

// PlainDisplay prints a line when a task starts and when it finishes. Intermediate positions
// are only remembered for the finish line.
type PlainDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPlainDisplay(w io.Writer) *PlainDisplay {
	return &PlainDisplay{w: w}
}

func (d *PlainDisplay) Add(label string) tasks.ProgressHandle {
	d.println(styles.label.Render("→ ") + label)
	return &plainHandle{display: d}
}

func (d *PlainDisplay) println(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.w, line)
}

type plainHandle struct {
	display *PlainDisplay
	pos     int
}

func (h *plainHandle) SetPosition(pos int) {
	if pos > h.pos {
		h.pos = pos
	}
}

func (h *plainHandle) Finish(msg string) {
	h.display.println(fmt.Sprintf("%s %s", renderFinished(msg, h.pos), styles.help.Render(fmt.Sprintf("(%d%%)", h.pos))))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// UseMultiProgress reports whether the animated display may own out. Interactive confirmation
// needs the plain display so prompts stay readable.
func UseMultiProgress(out *os.File, autoConfirm, plain bool) bool {
	return autoConfirm && !plain && IsTerminal(out)
}
