package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/bbernstein/tidetracker/internal/models"
)

// SVG writes the chart as a standalone SVG document: the water area, day
// boundaries, low tide markers with height and time labels, date labels and
// the dashed now line.
func SVG(w io.Writer, resp *models.ChartResponse) error {
	g, err := drawable(resp)
	if err != nil {
		return err
	}

	base := g.Height - g.BottomPad
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" role="img" aria-label="%s">`,
		num(g.Width), num(g.Height), num(g.Width), num(g.Height), html.EscapeString(title(resp)))
	b.WriteString("\n")
	fmt.Fprintf(&b, `<rect x="0" y="0" width="100%%" height="100%%" fill="#%s"/>`+"\n", backgroundHex)
	fmt.Fprintf(&b, `<defs><linearGradient id="water" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="0%%" stop-color="#%s"/><stop offset="100%%" stop-color="#%s"/></linearGradient></defs>`+"\n",
		waterTopHex, waterBaseHex)

	for _, d := range g.DayTicks {
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(255,255,255,0.15)" stroke-width="1.5"/>`+"\n",
			num(d.X), num(g.Pad), num(d.X), num(base))
	}

	fmt.Fprintf(&b, `<path d="%s" fill="url(#water)" opacity="0.95"/>`+"\n", areaPath(g.Curve, base))

	for _, l := range g.Lows {
		r, fill, weight := "3", "#fff", "normal"
		if l.IsBestLow {
			r, fill, weight = "4", "#"+bestLowHex, "bold"
		}
		x, y := num(l.Position.X), l.Position.Y
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", x, num(y), r, fill)
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="10" font-weight="%s" fill="rgba(255,255,255,0.85)">%s</text>`+"\n",
			x, num(y+20), weight, html.EscapeString(l.HeightLabel))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="10" fill="rgba(255,255,255,0.75)">%s</text>`+"\n",
			x, num(base+20), html.EscapeString(l.TimeLabel))
	}

	for _, d := range g.DayTicks {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="11" font-weight="bold" fill="rgba(255,255,255,0.9)">%s</text>`+"\n",
			num(d.X), num(base+35), d.Weekday)
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="10" fill="rgba(255,255,255,0.7)">%s</text>`+"\n",
			num(d.X), num(base+48), d.MonthDay)
	}

	if resp.Now.Visible {
		x := num(resp.Now.X)
		fmt.Fprintf(&b, `<line x1="%s" x2="%s" y1="%s" y2="%s" stroke="rgba(255,255,255,0.35)" stroke-dasharray="4 6"/>`+"\n",
			x, x, num(nowLineTop), num(base))
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="4" fill="#fff"/>`+"\n", x, num(resp.Now.Y))
	}

	b.WriteString("</svg>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

// areaPath closes the curve down to the baseline.
func areaPath(curve []models.ScreenPoint, base float64) string {
	var b strings.Builder
	first, last := curve[0], curve[len(curve)-1]
	fmt.Fprintf(&b, "M%s,%s", num(first.X), num(base))
	for _, p := range curve {
		fmt.Fprintf(&b, "L%s,%s", num(p.X), num(p.Y))
	}
	fmt.Fprintf(&b, "L%s,%sZ", num(last.X), num(base))
	return b.String()
}

func title(resp *models.ChartResponse) string {
	if resp.StationName == "" {
		return "Tide height over time"
	}
	return "Tide height over time at " + resp.StationName
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
