// Package engine implements the timed exercise state machines. Engines
// are passive: the caller drives them with TimeTick (1 second cadence)
// and PaceTick (exercise-specific cadence) calls, which keeps the
// pacing logic independent of any real timer and lets tests run on a
// simulated clock.
package engine

import (
	"errors"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

// State is the lifecycle state of an exercise session.
type State int

// Lifecycle states. Completed and Cancelled are terminal.
const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
	StateCancelled
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrInvalidConfig is wrapped by all construction-time validation errors.
var ErrInvalidConfig = errors.New("invalid exercise configuration")

// Configuration bounds shared across engines.
const (
	MinTargetWPM     = 100
	MaxTargetWPM     = 600
	MinWindowWords   = 1
	MaxWindowWords   = 3
	MinChunkWords    = 2
	MaxChunkWords    = 5
	MinChunkInterval = 700 * time.Millisecond
	MaxChunkInterval = 2 * time.Second
)

// Result is the single raw outcome an engine hands off on completion.
// Only the fields relevant to the exercise kind are populated.
type Result struct {
	Kind           model.ExerciseKind
	ElapsedSeconds int
	WordsRead      int
	ChunksSeen     int
	Mistakes       int
	RoundDurations []time.Duration
}

// Events carries the optional presentation callbacks. All callbacks are
// invoked synchronously from the engine methods; nil callbacks are
// skipped.
type Events struct {
	Tick      func(display string, progress float64)
	Completed func(Result)
	Cancelled func()
}

// machine holds the state and pause-aware elapsed accounting shared by
// the three engines.
type machine struct {
	clk    clock.Clock
	events Events

	state          State
	startedAt      time.Time
	pausedAt       time.Time
	pausedTotal    time.Duration
	elapsedSeconds int
}

func newMachine(clk clock.Clock) machine {
	if clk == nil {
		clk = clock.System{}
	}
	return machine{clk: clk}
}

// State returns the current lifecycle state.
func (m *machine) State() State {
	return m.state
}

// ElapsedSeconds returns whole seconds spent running, excluding pauses.
func (m *machine) ElapsedSeconds() int {
	return m.elapsedSeconds
}

func (m *machine) running() bool {
	return m.state == StateRunning
}

func (m *machine) terminal() bool {
	return m.state == StateCompleted || m.state == StateCancelled
}

// net returns the running duration so far, excluding paused time.
func (m *machine) net() time.Duration {
	if m.startedAt.IsZero() {
		return 0
	}
	d := m.clk.Now().Sub(m.startedAt) - m.pausedTotal
	if m.state == StatePaused {
		d -= m.clk.Now().Sub(m.pausedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

func (m *machine) start() error {
	if m.state != StateIdle {
		return errors.New("exercise already started")
	}
	m.state = StateRunning
	m.startedAt = m.clk.Now()
	return nil
}

// Pause freezes counters and timers. No-op unless running.
func (m *machine) Pause() {
	if m.state != StateRunning {
		return
	}
	m.state = StatePaused
	m.pausedAt = m.clk.Now()
}

// Resume restores a paused session without counter loss.
func (m *machine) Resume() {
	if m.state != StatePaused {
		return
	}
	m.pausedTotal += m.clk.Now().Sub(m.pausedAt)
	m.pausedAt = time.Time{}
	m.state = StateRunning
}

// Cancel discards the session. Terminal; counters are not handed off.
func (m *machine) Cancel() {
	if m.terminal() {
		return
	}
	m.state = StateCancelled
	if m.events.Cancelled != nil {
		m.events.Cancelled()
	}
}

func (m *machine) complete(res Result) {
	if m.terminal() {
		return
	}
	m.state = StateCompleted
	if m.events.Completed != nil {
		m.events.Completed(res)
	}
}

func (m *machine) emitTick(display string, progress float64) {
	if m.events.Tick != nil {
		m.events.Tick(display, progress)
	}
}

// SetEvents installs the presentation callbacks. Must be called before
// Start.
func (m *machine) SetEvents(ev Events) {
	m.events = ev
}
