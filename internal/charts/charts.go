// Package charts renders spending reports as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("charts: no data to render")

// minShare hides slices below this percentage of the total.
const minShare = 1.0

// Slice is one labelled amount of a pie chart.
type Slice struct {
	Label  string
	Amount float64
}

// SpendingPie renders the share of each slice as a PNG pie chart.
// Non-positive amounts are skipped.
func SpendingPie(title string, slices []Slice) ([]byte, error) {
	total := 0.0
	for _, s := range slices {
		if s.Amount > 0 {
			total += s.Amount
		}
	}
	if total == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Amount <= 0 {
			continue
		}
		share := s.Amount / total * 100
		if share < minShare {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %.2f (%.1f%%)", s.Label, s.Amount, share),
			Value: s.Amount,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render spending pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}
