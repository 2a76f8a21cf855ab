package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/speedrd/rapida/internal/clock"
)

func TestChunkConfigValidation(t *testing.T) {
	clk := clock.NewFake(time.Now())
	for _, cfg := range []ChunkConfig{
		{ChunkSize: 1, Interval: time.Second, Duration: time.Minute},
		{ChunkSize: 6, Interval: time.Second, Duration: time.Minute},
		{ChunkSize: 3, Interval: 500 * time.Millisecond, Duration: time.Minute},
		{ChunkSize: 3, Interval: 3 * time.Second, Duration: time.Minute},
		{ChunkSize: 3, Interval: time.Second, Duration: 0},
	} {
		if _, err := NewChunkedReveal(cfg, clk); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestChunkSegmentation(t *testing.T) {
	c, err := NewChunkedReveal(ChunkConfig{
		ChunkSize: 3,
		Interval:  time.Second,
		Duration:  time.Minute,
		Words:     words(10),
	}, clock.NewFake(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Chunks()
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if len(chunks[3]) != 1 {
		t.Fatalf("trailing chunk has %d words, want 1", len(chunks[3]))
	}
}

func TestChunkCompletesAtLastChunk(t *testing.T) {
	c, err := NewChunkedReveal(ChunkConfig{
		ChunkSize: 2,
		Interval:  time.Second,
		Duration:  time.Minute,
		Words:     words(8), // 4 chunks
	}, clock.NewFake(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	var result *Result
	c.SetEvents(Events{Completed: func(r Result) { result = &r }})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.PaceTick() // chunk 1
	c.PaceTick() // chunk 2
	if c.State() != StateRunning {
		t.Fatalf("completed early at chunk %d", c.ChunkIndex())
	}
	c.PaceTick() // chunk 3, the last: completes
	if result == nil {
		t.Fatal("did not complete at last chunk")
	}
	if result.ChunksSeen != 4 {
		t.Fatalf("chunks seen = %d, want 4", result.ChunksSeen)
	}
	if result.WordsRead != 8 {
		t.Fatalf("words read = %d, want 8", result.WordsRead)
	}
}

func TestChunkCompletesAtDuration(t *testing.T) {
	c, err := NewChunkedReveal(ChunkConfig{
		ChunkSize: 2,
		Interval:  time.Second,
		Duration:  3 * time.Second,
		Words:     words(40),
	}, clock.NewFake(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	var result *Result
	c.SetEvents(Events{Completed: func(r Result) { result = &r }})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		c.PaceTick()
		c.TimeTick()
	}
	if result == nil {
		t.Fatal("did not complete at duration")
	}
	if result.ElapsedSeconds != 3 {
		t.Fatalf("elapsed = %d, want 3", result.ElapsedSeconds)
	}
	// Pointer advanced 3 times: chunks 0..3 covered, 2 words each.
	if result.WordsRead != 8 {
		t.Fatalf("words read = %d, want 8", result.WordsRead)
	}
}

func TestChunkPauseFreezesHighlight(t *testing.T) {
	c, err := NewChunkedReveal(ChunkConfig{
		ChunkSize: 2,
		Interval:  time.Second,
		Duration:  time.Minute,
		Words:     words(20),
	}, clock.NewFake(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	c.PaceTick()
	c.Pause()
	for i := 0; i < 10; i++ {
		c.PaceTick()
	}
	if c.ChunkIndex() != 1 {
		t.Fatalf("highlight moved while paused: %d", c.ChunkIndex())
	}
	c.Resume()
	c.PaceTick()
	if c.ChunkIndex() != 2 {
		t.Fatalf("highlight did not resume: %d", c.ChunkIndex())
	}
}

func TestChunkEmptyContent(t *testing.T) {
	c, err := NewChunkedReveal(ChunkConfig{
		ChunkSize: 2,
		Interval:  time.Second,
		Duration:  time.Minute,
	}, clock.NewFake(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", c.State())
	}
	if c.WordsRead() != 0 {
		t.Fatalf("words read = %d, want 0", c.WordsRead())
	}
}
