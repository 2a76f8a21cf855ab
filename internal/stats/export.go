package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportCSV writes the user's session history as CSV, newest-first.
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	stats, err := s.Compute(ctx, userID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "WPM", "Comprehension", "Words Read"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, sum := range stats.History {
		wpm := "N/A"
		if sum.WPM != nil {
			wpm = strconv.Itoa(*sum.WPM)
		}
		comprehension := "N/A"
		if sum.Comprehension != nil {
			comprehension = fmt.Sprintf("%.2f", *sum.Comprehension)
		}
		row := []string{
			sum.Date.Local().Format("2006-01-02 15:04"),
			wpm,
			comprehension,
			strconv.Itoa(sum.WordsRead),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
