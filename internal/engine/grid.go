package engine

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

// Grid sizes and round counts accepted by the search exercise.
var (
	gridSizes   = map[int]struct{}{5: {}, 7: {}}
	roundCounts = map[int]struct{}{1: {}, 3: {}, 5: {}}
)

// GridConfig configures the number search exercise.
type GridConfig struct {
	Size   int // grid side length
	Rounds int
	Rand   *rand.Rand // optional; defaults to a clock-seeded source
}

func (c GridConfig) validate() error {
	if _, ok := gridSizes[c.Size]; !ok {
		return fmt.Errorf("%w: grid size %d not in {5,7}", ErrInvalidConfig, c.Size)
	}
	if _, ok := roundCounts[c.Rounds]; !ok {
		return fmt.Errorf("%w: round count %d not in {1,3,5}", ErrInvalidConfig, c.Rounds)
	}
	return nil
}

// GridSearch runs rounds over a shuffled N by N grid of 1..N*N. Taps on
// the current target advance it; any other tap counts a mistake. Each
// round gets a fresh shuffle and an independently recorded duration.
type GridSearch struct {
	machine
	cfg GridConfig
	rng *rand.Rand

	cells          []int
	target         int
	round          int
	mistakes       int
	roundStart     time.Duration
	roundDurations []time.Duration
}

// NewGridSearch validates the configuration and returns an idle engine.
func NewGridSearch(cfg GridConfig, clk clock.Clock) (*GridSearch, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &GridSearch{machine: newMachine(clk), cfg: cfg}
	g.rng = cfg.Rand
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(g.clk.Now().UnixNano()))
	}
	return g, nil
}

// Start transitions Idle to Running and deals the first round.
func (g *GridSearch) Start() error {
	if err := g.start(); err != nil {
		return err
	}
	g.round = 1
	g.startRound()
	return nil
}

func (g *GridSearch) startRound() {
	total := g.cfg.Size * g.cfg.Size
	g.cells = make([]int, total)
	for i := range g.cells {
		g.cells[i] = i + 1
	}
	g.rng.Shuffle(total, func(i, j int) {
		g.cells[i], g.cells[j] = g.cells[j], g.cells[i]
	})
	g.target = 1
	g.roundStart = g.net()
}

// Tap reports a tap on the cell showing value. A correct tap advances
// the target (or completes the round); any other tap counts a mistake
// and is otherwise a no-op. Returns whether the tap was correct.
func (g *GridSearch) Tap(value int) bool {
	if !g.running() {
		return false
	}
	if value != g.target {
		g.mistakes++
		return false
	}
	if g.target == g.cfg.Size*g.cfg.Size {
		g.completeRound()
		return true
	}
	g.target++
	g.emitTick(g.Display(), g.Progress())
	return true
}

func (g *GridSearch) completeRound() {
	g.roundDurations = append(g.roundDurations, g.net()-g.roundStart)
	if g.round < g.cfg.Rounds {
		g.round++
		g.startRound()
		g.emitTick(g.Display(), g.Progress())
		return
	}
	g.complete(g.result())
}

// TimeTick advances the elapsed counter by one second. No-op unless
// running; the grid exercise has no duration cutoff.
func (g *GridSearch) TimeTick() {
	if !g.running() {
		return
	}
	g.elapsedSeconds++
}

// Cells returns the current grid in row-major order.
func (g *GridSearch) Cells() []int {
	return g.cells
}

// Target returns the value to find next.
func (g *GridSearch) Target() int {
	return g.target
}

// Round returns the 1-based current round.
func (g *GridSearch) Round() int {
	return g.round
}

// Mistakes returns the cumulative mistake count across rounds.
func (g *GridSearch) Mistakes() int {
	return g.mistakes
}

// Display returns the target value as text.
func (g *GridSearch) Display() string {
	return strconv.Itoa(g.target)
}

// Progress returns the fraction of targets found across all rounds.
func (g *GridSearch) Progress() float64 {
	total := g.cfg.Size * g.cfg.Size * g.cfg.Rounds
	if total == 0 {
		return 0
	}
	done := (g.round-1)*g.cfg.Size*g.cfg.Size + g.target - 1
	return float64(done) / float64(total)
}

func (g *GridSearch) result() Result {
	return Result{
		Kind:           model.KindGridSearch,
		ElapsedSeconds: g.elapsedSeconds,
		Mistakes:       g.mistakes,
		RoundDurations: g.roundDurations,
	}
}
