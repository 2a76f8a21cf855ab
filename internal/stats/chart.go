package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/speedrd/rapida/internal/model"
)

const sparkChars = " .:-=+*#%@"

const fallbackTerminalWidth = 80

// TerminalWidth returns the current terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// SpeedSeries extracts the WPM values from summaries, skipping sessions
// without a speed.
func SpeedSeries(summaries []model.SessionSummary) []float64 {
	var out []float64
	for _, sum := range summaries {
		if sum.WPM != nil {
			out = append(out, float64(*sum.WPM))
		}
	}
	return out
}

// RenderSpeedChart prints a sparkline of recent speeds with min/max
// labels, sized to the given width.
func RenderSpeedChart(w io.Writer, summaries []model.SessionSummary, window, width int) error {
	series := SpeedSeries(summaries)
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No speed data yet.")
		return err
	}
	series = MovingAverage(series, window)
	if width > 0 && len(series) > width {
		series = series[len(series)-width:]
	}
	minVal, maxVal := series[0], series[0]
	for _, v := range series[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if _, err := fmt.Fprintf(w, "Speed (WPM)  min %.0f  max %.0f\n", minVal, maxVal); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Sparkline(series))
	return err
}
