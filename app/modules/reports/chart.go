package reports

import (
	"bytes"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colours the rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a dark theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("16181d"),
	Bar:        drawing.ColorFromHex("7fb069"),
	Text:       drawing.ColorFromHex("e6e6e6"),
}

// NoDataMessage is drawn on the placeholder chart.
const NoDataMessage = "No runs logged yet"

// GhostFrequencyChart renders a PNG bar chart of how often each ghost turned up.
func GhostFrequencyChart(stats []GhostStat, palette ChartPalette) ([]byte, error) {
	if len(stats) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, 0, len(stats))
	maxRuns := 0
	for _, st := range stats {
		bars = append(bars, chart.Value{
			Label: st.Name,
			Value: float64(st.Runs),
			Style: chart.Style{FillColor: palette.Bar, StrokeColor: palette.Bar},
		})
		if st.Runs > maxRuns {
			maxRuns = st.Runs
		}
	}

	width := 120 + 80*len(bars)
	if width < 480 {
		width = 480
	}
	text := chart.Style{FontColor: palette.Text, StrokeColor: palette.Text}

	graph := chart.BarChart{
		Title:      "Ghost frequency",
		TitleStyle: text,
		Width:      width,
		Height:     400,
		BarWidth:   50,
		BarSpacing: 30,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      text,
		YAxis: chart.YAxis{
			Style: text,
			// Whole-number ticks from zero.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxRuns)},
			Ticks: countTicks(maxRuns),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func countTicks(max int) []chart.Tick {
	step := max/8 + 1
	ticks := make([]chart.Tick, 0, max/step+2)
	for v := 0; v <= max; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	if last := ticks[len(ticks)-1]; int(last.Value) != max {
		ticks = append(ticks, chart.Tick{Value: float64(max), Label: strconv.Itoa(max)})
	}
	return ticks
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(NoDataMessage)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(NoDataMessage, x, y)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
