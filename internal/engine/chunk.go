package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

// ChunkConfig configures the chunked reveal exercise.
type ChunkConfig struct {
	ChunkSize int
	Interval  time.Duration
	Duration  time.Duration
	Words     []string
}

func (c ChunkConfig) validate() error {
	if c.ChunkSize < MinChunkWords || c.ChunkSize > MaxChunkWords {
		return fmt.Errorf("%w: chunk size %d outside [%d,%d]", ErrInvalidConfig, c.ChunkSize, MinChunkWords, MaxChunkWords)
	}
	if c.Interval < MinChunkInterval || c.Interval > MaxChunkInterval {
		return fmt.Errorf("%w: chunk interval %s outside [%s,%s]", ErrInvalidConfig, c.Interval, MinChunkInterval, MaxChunkInterval)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	}
	return nil
}

// ChunkedReveal highlights contiguous word groups on a fixed interval.
// Completion triggers when the highlight reaches the last chunk or at
// the configured duration, whichever comes first.
type ChunkedReveal struct {
	machine
	cfg     ChunkConfig
	chunks  [][]string
	pointer int
}

// NewChunkedReveal validates the configuration and returns an idle engine.
func NewChunkedReveal(cfg ChunkConfig, clk clock.Clock) (*ChunkedReveal, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &ChunkedReveal{
		machine: newMachine(clk),
		cfg:     cfg,
		chunks:  chunkWords(cfg.Words, cfg.ChunkSize),
	}, nil
}

func chunkWords(words []string, size int) [][]string {
	if len(words) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[start:end])
	}
	return chunks
}

// PaceInterval returns the fixed highlight cadence.
func (c *ChunkedReveal) PaceInterval() time.Duration {
	return c.cfg.Interval
}

// Start transitions Idle to Running. Empty content completes
// immediately with zero counters.
func (c *ChunkedReveal) Start() error {
	if err := c.start(); err != nil {
		return err
	}
	if len(c.chunks) == 0 {
		c.complete(c.result())
	}
	return nil
}

// PaceTick advances the highlight by one chunk. No-op unless running.
func (c *ChunkedReveal) PaceTick() {
	if !c.running() {
		return
	}
	c.pointer++
	if c.pointer >= len(c.chunks)-1 {
		c.pointer = len(c.chunks) - 1
		c.complete(c.result())
		return
	}
	c.emitTick(c.Display(), c.Progress())
}

// TimeTick advances the elapsed counter by one second and checks the
// duration cutoff. No-op unless running.
func (c *ChunkedReveal) TimeTick() {
	if !c.running() {
		return
	}
	c.elapsedSeconds++
	if c.elapsedSeconds >= int(c.cfg.Duration.Seconds()) {
		c.complete(c.result())
	}
}

// ChunkIndex returns the highlighted chunk index.
func (c *ChunkedReveal) ChunkIndex() int {
	return c.pointer
}

// Chunks returns the segmented content.
func (c *ChunkedReveal) Chunks() [][]string {
	return c.chunks
}

// WordsRead returns the words covered by the highlight, current chunk
// included.
func (c *ChunkedReveal) WordsRead() int {
	total := 0
	for i := 0; i <= c.pointer && i < len(c.chunks); i++ {
		total += len(c.chunks[i])
	}
	return total
}

// Display returns the highlighted chunk.
func (c *ChunkedReveal) Display() string {
	if c.pointer >= len(c.chunks) || len(c.chunks) == 0 {
		return ""
	}
	return strings.Join(c.chunks[c.pointer], " ")
}

// Progress returns the fraction of chunks covered.
func (c *ChunkedReveal) Progress() float64 {
	if len(c.chunks) == 0 {
		return 0
	}
	return float64(c.pointer+1) / float64(len(c.chunks))
}

func (c *ChunkedReveal) result() Result {
	return Result{
		Kind:           model.KindChunkedReveal,
		ElapsedSeconds: c.elapsedSeconds,
		WordsRead:      c.WordsRead(),
		ChunksSeen:     min(c.pointer+1, len(c.chunks)),
	}
}
