package tasks

const (
	// DefaultStep is the position increment applied per poll tick.
	DefaultStep = 2
	// DefaultCeiling is the highest position reachable before the fetch exits.
	DefaultCeiling = 90
	// Complete is the position reported after a successful fetch or a skip.
	Complete = 100
)

// Display is the shared multi-task progress sink. Add is called once per dispatched task and
// must be safe for concurrent use.
type Display interface {
	Add(label string) ProgressHandle
}

// ProgressHandle is one task's progress indicator. It is owned by that task and never shared.
type ProgressHandle interface {
	SetPosition(pos int)
	Finish(msg string)
}

// Estimator synthesizes a monotonic progress position for a process that reports none.
type Estimator struct {
	handle  ProgressHandle
	pos     int
	step    int
	ceiling int
}

// NewEstimator creates an [Estimator] at position 0. Out-of-range values fall back to
// [DefaultStep] and [DefaultCeiling].
func NewEstimator(handle ProgressHandle, step, ceiling int) *Estimator {
	if step <= 0 {
		step = DefaultStep
	}
	if ceiling <= 0 || ceiling >= Complete {
		ceiling = DefaultCeiling
	}
	return &Estimator{handle: handle, step: step, ceiling: ceiling}
}

// Tick advances the position by one step unless the ceiling is reached.
func (e *Estimator) Tick() {
	if e.pos >= e.ceiling {
		return
	}
	e.pos = min(e.pos+e.step, e.ceiling)
	e.handle.SetPosition(e.pos)
}

// Complete snaps the position to 100.
func (e *Estimator) Complete() {
	e.pos = Complete
	e.handle.SetPosition(e.pos)
}

// Position returns the last reported position.
func (e *Estimator) Position() int {
	return e.pos
}

// NopDisplay discards all progress.
type NopDisplay struct{}

func (NopDisplay) Add(string) ProgressHandle { return nopHandle{} }

type nopHandle struct{}

func (nopHandle) SetPosition(int) {}
func (nopHandle) Finish(string)   {}
