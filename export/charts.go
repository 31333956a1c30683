package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/padraicbc/parkgolf/stats"
)

// Palette colours the rendered charts.
type Palette struct {
	Background drawing.Color
	Primary    drawing.Color
	Accent     drawing.Color
	Text       drawing.Color
}

// DefaultPalette matches the scorecard colours: blue for averages and a
// green line for recent rounds.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Primary:    drawing.ColorFromHex("3b82f6"),
	Accent:     drawing.ColorFromHex("16a34a"),
	Text:       drawing.ColorFromHex("374151"),
}

const (
	chartWidth  = 800
	chartHeight = 400
	barWidth    = 40
	barSpacing  = 20
)

// AverageChart renders an averages series (monthly or per venue) as bars.
func AverageChart(title string, series []stats.Average, palette Palette) ([]byte, error) {
	if len(series) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, len(series))
	top := 0.0
	for i, a := range series {
		bars[i] = chart.Value{
			Label: a.Label,
			Value: a.Avg,
			Style: chart.Style{FillColor: palette.Primary, StrokeColor: palette.Primary},
		}
		top = math.Max(top, a.Avg)
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      barChartWidth(len(bars)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 40}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.Style{FontColor: palette.Text},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(top)},
		},
		Bars: bars,
	}
	return render(graph)
}

// RecentChart renders the recent-rounds series as a line, oldest first.
func RecentChart(title string, series []stats.RoundPoint, palette Palette) ([]byte, error) {
	if len(series) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	n := float64(len(series))
	x := make([]float64, len(series))
	y := make([]float64, len(series))
	// go-chart takes the x range from the outermost ticks; the unlabelled
	// bounds keep it wider than zero even for a single round.
	ticks := []chart.Tick{{Value: -0.5}}
	top := 0.0
	for i, p := range series {
		x[i] = float64(i)
		y[i] = float64(p.Score)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Label})
		top = math.Max(top, y[i])
	}
	ticks = append(ticks, chart.Tick{Value: n - 0.5})

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 40}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: -0.5, Max: n - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(top)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: x,
				YValues: y,
				Style: chart.Style{
					StrokeColor: palette.Accent,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    palette.Accent,
				},
			},
		},
	}
	return render(graph)
}

// PlayCountChart renders how often each venue was played as a pie.
func PlayCountChart(title string, counts []stats.Count, palette Palette) ([]byte, error) {
	if len(counts) == 0 {
		return renderNoDataPlaceholder(palette)
	}
	values := make([]chart.Value, len(counts))
	for i, c := range counts {
		values[i] = chart.Value{Label: fmt.Sprintf("%s (%d)", c.Label, c.Count), Value: float64(c.Count)}
	}
	graph := chart.PieChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      chartHeight,
		Height:     chartHeight,
		Background: chart.Style{FillColor: palette.Background},
		Values:     values,
	}
	return render(graph)
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(c renderable) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := c.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// barChartWidth grows the image so every bar keeps its width.
func barChartWidth(n int) int {
	return max(chartWidth, n*(barWidth+barSpacing)+160)
}

// yMax leaves headroom above the tallest value and never returns a zero
// range.
func yMax(top float64) float64 {
	if top <= 0 {
		return 1
	}
	return math.Ceil(top * 1.1)
}

func renderNoDataPlaceholder(palette Palette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No data yet"
	)

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		// go-chart refuses to render without a visible series, so the
		// placeholder draws one in the background colour.
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: palette.Background,
					StrokeWidth: 1,
				},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	return render(graph)
}
