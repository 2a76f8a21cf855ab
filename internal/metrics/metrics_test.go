package metrics

import "testing"

func TestSpeedZeroElapsed(t *testing.T) {
	if got := Speed(100, 0); got != 0 {
		t.Fatalf("expected 0 for zero elapsed, got %d", got)
	}
	if got := Speed(100, -5); got != 0 {
		t.Fatalf("expected 0 for negative elapsed, got %d", got)
	}
}

func TestSpeedZeroWords(t *testing.T) {
	for _, secs := range []int{1, 30, 600} {
		if got := Speed(0, secs); got != 0 {
			t.Fatalf("expected 0 for zero words at %ds, got %d", secs, got)
		}
	}
}

func TestSpeedRounding(t *testing.T) {
	cases := []struct {
		words, secs, want int
	}{
		{250, 60, 250},
		{300, 60, 300},
		{100, 30, 200},
		{125, 50, 150},
		{1, 60, 1},
		{7, 120, 4}, // 3.5 rounds up
	}
	for _, c := range cases {
		if got := Speed(c.words, c.secs); got != c.want {
			t.Fatalf("Speed(%d, %d) = %d, want %d", c.words, c.secs, got, c.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	if got := ReadingTime(500, 0); got != 0 {
		t.Fatalf("expected 0 for zero wpm, got %d", got)
	}
	if got := ReadingTime(500, DefaultWPM); got != 2 {
		t.Fatalf("expected 2 minutes, got %d", got)
	}
	if got := ReadingTime(501, DefaultWPM); got != 3 {
		t.Fatalf("expected ceil to 3 minutes, got %d", got)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		wpm  int
		want Category
	}{
		{0, CategorySlow},
		{199, CategorySlow},
		{200, CategoryAverage},
		{299, CategoryAverage},
		{300, CategoryGood},
		{399, CategoryGood},
		{400, CategoryExcellent},
		{499, CategoryExcellent},
		{500, CategoryExceptional},
		{900, CategoryExceptional},
	}
	for _, c := range cases {
		if got := Classify(c.wpm); got != c.want {
			t.Fatalf("Classify(%d) = %s, want %s", c.wpm, got, c.want)
		}
	}
}

func TestCategoryMessages(t *testing.T) {
	for _, c := range []Category{CategorySlow, CategoryAverage, CategoryGood, CategoryExcellent, CategoryExceptional} {
		if c.Message() == "" {
			t.Fatalf("category %s has no message", c)
		}
		if c.Color() == "" {
			t.Fatalf("category %s has no color", c)
		}
	}
}
