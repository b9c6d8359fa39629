package render

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	tidechart "github.com/bbernstein/tidetracker/internal/chart"
	"github.com/bbernstein/tidetracker/internal/models"
)

// PNG rasterizes the chart with go-chart. Day boundaries become grid lines
// and x ticks, displayed lows become annotations.
func PNG(w io.Writer, resp *models.ChartResponse) error {
	g, err := drawable(resp)
	if err != nil {
		return err
	}
	if len(resp.Series) < 2 {
		return ErrNoGeometry
	}

	xs := make([]time.Time, len(resp.Series))
	ys := make([]float64, len(resp.Series))
	for i, p := range resp.Series {
		xs[i] = p.T.Time()
		ys[i] = p.H
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "tide",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(waterTopHex),
				StrokeWidth: 2,
				FillColor:   drawing.ColorFromHex(waterBaseHex).WithAlpha(230),
			},
		},
	}

	if len(resp.Lows) > 0 {
		annotations := make([]chart.Value2, len(resp.Lows))
		for i, l := range resp.Lows {
			label := tidechart.FormatHeight(l.H) + " " + tidechart.FormatClock(l.T)
			style := chart.Style{}
			if l.IsBestLow {
				style = chart.Style{FillColor: drawing.ColorFromHex(bestLowHex), FontColor: drawing.ColorFromHex(backgroundHex)}
			}
			annotations[i] = chart.Value2{
				XValue: chart.TimeToFloat64(l.T.Time()),
				YValue: l.H,
				Label:  label,
				Style:  style,
			}
		}
		series = append(series, chart.AnnotationSeries{Name: "lows", Annotations: annotations})
	}

	if resp.Now.Visible && resp.Now.H != nil {
		at := resp.Now.T.Time()
		series = append(series,
			chart.TimeSeries{
				Name:    "now",
				XValues: []time.Time{at, at},
				YValues: []float64{g.HeightMin, g.HeightMax},
				Style: chart.Style{
					StrokeColor:     drawing.ColorWhite.WithAlpha(90),
					StrokeWidth:     1,
					StrokeDashArray: []float64{4, 6},
				},
			},
			chart.TimeSeries{
				Name:    "now-dot",
				XValues: []time.Time{at},
				YValues: []float64{*resp.Now.H},
				Style: chart.Style{
					StrokeWidth: 0,
					DotWidth:    4,
					DotColor:    drawing.ColorWhite,
				},
			},
		)
	}

	dayTicks := make([]chart.Tick, len(g.DayTicks))
	gridLines := make([]chart.GridLine, len(g.DayTicks))
	for i, d := range g.DayTicks {
		v := chart.TimeToFloat64(d.T.Time())
		dayTicks[i] = chart.Tick{Value: v, Label: d.Weekday + " " + d.MonthDay}
		gridLines[i] = chart.GridLine{Value: v}
	}

	yTicks := make([]chart.Tick, len(g.YTicks))
	for i, v := range g.YTicks {
		yTicks[i] = chart.Tick{Value: v, Label: tidechart.FormatHeight(v)}
	}

	light := drawing.ColorWhite.WithAlpha(200)
	ch := chart.Chart{
		Width:  int(g.Width),
		Height: int(g.Height),
		Background: chart.Style{
			FillColor: drawing.ColorFromHex(backgroundHex),
			Padding:   chart.Box{Top: int(g.Pad), Left: int(g.Pad), Right: int(g.Pad), Bottom: int(g.Pad)},
		},
		Canvas: chart.Style{FillColor: drawing.ColorFromHex(backgroundHex)},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: light, StrokeColor: light},
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(xs[0]), Max: chart.TimeToFloat64(xs[len(xs)-1])},
			Ticks:          dayTicks,
			GridLines:      gridLines,
			GridMajorStyle: chart.Style{StrokeColor: drawing.ColorWhite.WithAlpha(40), StrokeWidth: 1.5},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: light, StrokeColor: light},
			Range: &chart.ContinuousRange{Min: g.HeightMin, Max: g.HeightMax},
			Ticks: yTicks,
		},
		Series: series,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering png: %w", err)
	}
	return nil
}
