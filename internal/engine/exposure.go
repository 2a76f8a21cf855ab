package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

// ExposureConfig configures the rapid word exposure exercise.
type ExposureConfig struct {
	TargetWPM       int
	WordsPerDisplay int
	Duration        time.Duration
	Words           []string
}

func (c ExposureConfig) validate() error {
	if c.TargetWPM < MinTargetWPM || c.TargetWPM > MaxTargetWPM {
		return fmt.Errorf("%w: target speed %d outside [%d,%d] WPM", ErrInvalidConfig, c.TargetWPM, MinTargetWPM, MaxTargetWPM)
	}
	if c.WordsPerDisplay < MinWindowWords || c.WordsPerDisplay > MaxWindowWords {
		return fmt.Errorf("%w: words per display %d outside [%d,%d]", ErrInvalidConfig, c.WordsPerDisplay, MinWindowWords, MaxWindowWords)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	}
	return nil
}

// Exposure reveals fixed-size word windows at a target speed. The
// pacing tick advances the window pointer; completion triggers at
// content end or at the configured duration, whichever comes first.
type Exposure struct {
	machine
	cfg   ExposureConfig
	index int
}

// NewExposure validates the configuration and returns an idle engine.
func NewExposure(cfg ExposureConfig, clk clock.Clock) (*Exposure, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Exposure{machine: newMachine(clk), cfg: cfg}, nil
}

// PaceInterval returns the pacing tick cadence: 60/(WPM/N) seconds.
func (e *Exposure) PaceInterval() time.Duration {
	return time.Duration(float64(e.cfg.WordsPerDisplay) / float64(e.cfg.TargetWPM) * float64(time.Minute))
}

// Start transitions Idle to Running. Empty content completes
// immediately with zero counters.
func (e *Exposure) Start() error {
	if err := e.start(); err != nil {
		return err
	}
	if len(e.cfg.Words) == 0 {
		e.complete(e.result())
	}
	return nil
}

// PaceTick advances the word window. No-op unless running.
func (e *Exposure) PaceTick() {
	if !e.running() {
		return
	}
	e.index += e.cfg.WordsPerDisplay
	if e.index >= len(e.cfg.Words) {
		e.index = len(e.cfg.Words)
		e.complete(e.result())
		return
	}
	e.emitTick(e.Display(), e.Progress())
}

// TimeTick advances the elapsed counter by one second and checks the
// duration cutoff. No-op unless running.
func (e *Exposure) TimeTick() {
	if !e.running() {
		return
	}
	e.elapsedSeconds++
	if e.elapsedSeconds >= int(e.cfg.Duration.Seconds()) {
		e.complete(e.result())
	}
}

// WordsRead returns the words covered by the pointer so far.
func (e *Exposure) WordsRead() int {
	return e.index
}

// Display returns the current word window.
func (e *Exposure) Display() string {
	if e.index >= len(e.cfg.Words) {
		return ""
	}
	end := e.index + e.cfg.WordsPerDisplay
	if end > len(e.cfg.Words) {
		end = len(e.cfg.Words)
	}
	return strings.Join(e.cfg.Words[e.index:end], " ")
}

// Progress returns the fraction of content covered.
func (e *Exposure) Progress() float64 {
	if len(e.cfg.Words) == 0 {
		return 0
	}
	return float64(e.index) / float64(len(e.cfg.Words))
}

func (e *Exposure) result() Result {
	return Result{
		Kind:           model.KindExposure,
		ElapsedSeconds: e.elapsedSeconds,
		WordsRead:      e.index,
	}
}
