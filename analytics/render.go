package analytics

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("analytics: no data to render")

var (
	colorApproved = drawing.ColorFromHex("0088FE")
	colorDeclined = drawing.ColorFromHex("FF8042")
)

const (
	chartWidth  = 640
	chartHeight = 320
)

func fill(col drawing.Color) chart.Style {
	return chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
}

// RenderBar draws c as a PNG stacked bar chart, approved below declined.
func RenderBar(w io.Writer, c BarChart, approvedLabel, declinedLabel string) error {
	if len(c.Bars) == 0 || c.Empty() {
		return ErrNoData
	}

	bars := make([]chart.StackedBar, 0, len(c.Bars))
	for _, b := range c.Bars {
		bars = append(bars, chart.StackedBar{
			Name: b.Name,
			Values: []chart.Value{
				{Label: approvedLabel, Value: b.Approved, Style: fill(colorApproved)},
				{Label: declinedLabel, Value: b.Declined, Style: fill(colorDeclined)},
			},
		})
	}

	sbc := chart.StackedBarChart{
		Title:      c.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarSpacing: 24,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Bars:       bars,
	}
	if err := sbc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("analytics: render %s: %w", c.Key, err)
	}
	return nil
}

// RenderPie draws the outcome split as a PNG pie chart.
func RenderPie(w io.Writer, title string, data []PieDatum) error {
	var total float64
	values := make([]chart.Value, 0, len(data))
	for i, d := range data {
		total += d.Value
		col := colorApproved
		if i%2 == 1 {
			col = colorDeclined
		}
		values = append(values, chart.Value{Label: d.Name, Value: d.Value, Style: fill(col)})
	}
	if total <= 0 {
		return ErrNoData
	}

	pc := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	if err := pc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("analytics: render pie: %w", err)
	}
	return nil
}
