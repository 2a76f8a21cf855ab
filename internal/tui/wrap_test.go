package tui

import (
	"strings"
	"testing"
)

func TestBuildChunkRunesStyles(t *testing.T) {
	chunks := [][]string{{"one", "two"}, {"three"}, {"four"}}

	runes := buildChunkRunes(chunks, 1)
	// "one two three four" = 18 cells including separators.
	if len(runes) != 18 {
		t.Fatalf("expected 18 styled runes, got %d", len(runes))
	}
	if runes[0].s != readStyle.Render("o") {
		t.Fatalf("expected read style for covered chunk")
	}
	if runes[8].s != activeChunkStyle.Render("t") {
		t.Fatalf("expected active style for highlighted chunk")
	}
	if runes[14].s != pendingStyle.Render("f") {
		t.Fatalf("expected pending style for unseen chunk")
	}
}

func TestBuildChunkRunesSeparators(t *testing.T) {
	chunks := [][]string{{"a", "b"}, {"c"}}

	runes := buildChunkRunes(chunks, 0)
	spaces := 0
	for _, r := range runes {
		if r.isSpace {
			spaces++
		}
	}
	if spaces != 2 {
		t.Fatalf("expected 2 separators, got %d", spaces)
	}
	if runes[0].isSpace {
		t.Fatalf("expected no leading separator")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	chunks := [][]string{{"alpha", "beta"}, {"gamma"}}
	runes := buildChunkRunes(chunks, 0)

	wrapped := wrapStyledRunes(runes, 11)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
}

func TestWrapStyledRunesNoWidthReturnsSingleLine(t *testing.T) {
	chunks := [][]string{{"alpha", "beta", "gamma"}}
	runes := buildChunkRunes(chunks, 0)

	wrapped := wrapStyledRunes(runes, 0)
	if strings.Contains(wrapped, "\n") {
		t.Fatalf("expected no wrapping when width is 0")
	}
}

func TestWrapStyledRunesHardBreakWithoutSpaces(t *testing.T) {
	chunks := [][]string{{"abcdefghij"}}
	runes := buildChunkRunes(chunks, 0)

	wrapped := wrapStyledRunes(runes, 4)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}
