package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytgrab/internal/tasks"
)

const barWidth = 40

var (
	_ tasks.Display        = (*MultiProgress)(nil)
	_ tasks.ProgressHandle = (*multiHandle)(nil)
)

// bar is one task's row in the progress view.
type bar struct {
	id    int
	label string
	pos   int
}

// progressModel renders running tasks as spinner + label + bar + percentage.
// Finished tasks leave the view and are printed above it.
type progressModel struct {
	bars    []*bar
	spinner spinner.Model
	bar     progress.Model
}

func newProgressModel() progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = NewStyle("#04B575")

	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = barWidth

	return progressModel{spinner: sp, bar: prog}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Msg:
		return m.handle(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) handle(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgBarAdded:
		d := msg.data.(barData)
		m.bars = append(m.bars, &bar{id: d.id, label: d.label})
	case MsgBarProgress:
		d := msg.data.(barData)
		if b := m.find(d.id); b != nil && d.pos > b.pos {
			b.pos = d.pos
		}
	case MsgBarFinished:
		d := msg.data.(barData)
		for i, b := range m.bars {
			if b.id == d.id {
				m.bars = append(m.bars[:i:i], m.bars[i+1:]...)
				return m, tea.Println(renderFinished(d.label, b.pos))
			}
		}
	case MsgLogLine:
		return m, tea.Println(msg.data.(string))
	case MsgStop:
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) find(id int) *bar {
	for _, b := range m.bars {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (m progressModel) View() string {
	var b strings.Builder
	for _, row := range m.bars {
		fmt.Fprintf(&b, "%s %s [%s] %3d%%\n",
			m.spinner.View(),
			styles.label.Render(row.label),
			m.bar.ViewAs(float64(row.pos)/100),
			row.pos,
		)
	}
	return b.String()
}

// renderFinished styles a finish message by how far the task got.
func renderFinished(msg string, pos int) string {
	if pos >= tasks.Complete {
		return styles.ok.Render("✓ ") + msg
	}
	return styles.warn.Render("✗ ") + msg
}

// MultiProgress is a [tasks.Display] backed by a bubbletea program.
//
// Call Start before the first Add and Stop after the last Finish.
type MultiProgress struct {
	program *tea.Program
	out     io.Writer
	done    chan struct{}
	mu      sync.Mutex
	next    int
	err     error
}

// NewMultiProgress creates a display writing to out. It never reads from stdin or installs
// signal handlers.
func NewMultiProgress(out io.Writer) *MultiProgress {
	p := tea.NewProgram(newProgressModel(),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &MultiProgress{program: p, out: out, done: make(chan struct{})}
}

// Start runs the program in the background.
func (m *MultiProgress) Start() {
	go func() {
		_, err := m.program.Run()
		m.mu.Lock()
		m.err = err
		m.mu.Unlock()
		close(m.done)
	}()
}

// Stop renders the final frame and waits for the program to exit.
func (m *MultiProgress) Stop() error {
	m.program.Send(stopMsg())
	<-m.done
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Add registers a new bar at position 0.
func (m *MultiProgress) Add(label string) tasks.ProgressHandle {
	m.mu.Lock()
	m.next++
	id := m.next
	m.mu.Unlock()

	m.program.Send(barAddedMsg(id, label))
	return &multiHandle{program: m.program, id: id}
}

// Writer returns an [io.Writer] whose lines are printed above the bars. After Stop it writes
// straight to the display's output.
func (m *MultiProgress) Writer() io.Writer {
	return &lineWriter{m: m}
}

type multiHandle struct {
	program *tea.Program
	id      int
}

func (h *multiHandle) SetPosition(pos int) {
	h.program.Send(barProgressMsg(h.id, pos))
}

func (h *multiHandle) Finish(msg string) {
	h.program.Send(barFinishedMsg(h.id, msg))
}

type lineWriter struct {
	m *MultiProgress
}

func (w *lineWriter) Write(p []byte) (int, error) {
	select {
	case <-w.m.done:
		return w.m.out.Write(p)
	default:
	}

	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.m.program.Send(logLineMsg(line))
	}
	return len(p), nil
}
