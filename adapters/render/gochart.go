// Package render draws chart specs to SVG or PNG with go-chart.
package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"beerdash/internal/chart"
	"beerdash/ports"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	padding       = 8
	legendHeight  = 34
	legendSwatch  = 14
	legendGap     = 18
	axisTickLen   = 6
	barFill       = 0.8
	fontScale     = 0.6 // chart font sizes are CSS pixels; go-chart sizes are points at DefaultDPI
	minBarFont    = 8.0
	textInset     = 6
	defaultWidth  = 1024
	defaultHeight = 640
)

// GoChartRenderer renders horizontal bar charts with go-chart's drawing API
type GoChartRenderer struct {
	width  int
	height int
}

var _ ports.ChartRenderer = (*GoChartRenderer)(nil)

// NewGoChartRenderer creates a renderer producing images of the given size
func NewGoChartRenderer(width, height int) *GoChartRenderer {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &GoChartRenderer{width: width, height: height}
}

// Render draws spec and writes it to w in the requested format
func (g *GoChartRenderer) Render(ctx context.Context, spec chart.Spec, format ports.ImageFormat, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var provider gochart.RendererProvider
	switch format {
	case ports.FormatPNG:
		provider = gochart.PNG
	case ports.FormatSVG, "":
		provider = gochart.SVG
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}

	r, err := provider(g.width, g.height)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	r.SetDPI(gochart.DefaultDPI)
	r.SetFont(font)

	fillBox(r, gochart.Box{Top: 0, Left: 0, Right: g.width, Bottom: g.height}, drawing.ColorWhite)

	plot := gochart.Box{
		Top:    spec.Margin.Top + legendHeight + padding,
		Left:   spec.Margin.Left + padding,
		Right:  g.width - spec.Margin.Right - 2*padding,
		Bottom: g.height - spec.Margin.Bottom - axisHeight(spec),
	}

	g.drawLegend(r, spec)
	axis := g.drawValueAxis(r, spec, plot)
	g.drawBars(r, spec, plot, axis)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

func axisHeight(spec chart.Spec) int {
	h := padding + axisTickLen
	if spec.ValueAxis.ShowTickLabels {
		h += int(float64(spec.ValueAxis.TickFontSize)*fontScale*1.6) + padding
	}
	if spec.ValueAxis.Title != "" {
		h += int(float64(spec.ValueAxis.TitleFontSize)*fontScale*1.6) + padding
	}
	return h
}

// drawLegend lays the entries out in one row, anchored top-left
func (g *GoChartRenderer) drawLegend(r gochart.Renderer, spec chart.Spec) {
	if len(spec.Legend.Entries) == 0 {
		return
	}
	r.SetFontSize(12)
	r.SetFontColor(drawing.ColorBlack)

	x := spec.Margin.Left + padding
	top := spec.Margin.Top + padding/2
	bottom := top + legendHeight - padding
	mid := (top + bottom) / 2

	cursor := x + padding
	for _, e := range spec.Legend.Entries {
		fillBox(r, gochart.Box{Top: mid - legendSwatch/2, Left: cursor, Right: cursor + legendSwatch, Bottom: mid + legendSwatch/2}, parseColor(e.Color))
		cursor += legendSwatch + padding/2
		tb := r.MeasureText(e.Label)
		r.Text(e.Label, cursor, mid+tb.Height()/2)
		cursor += tb.Width() + legendGap
	}

	if spec.Legend.BorderWidth > 0 {
		strokeBox(r, gochart.Box{Top: top, Left: x, Right: cursor - legendGap + padding, Bottom: bottom},
			parseColor(spec.Legend.BorderColor), float64(spec.Legend.BorderWidth))
	}
}

// drawValueAxis draws ticks, tick labels and the axis title and returns
// the value range used for the bars
func (g *GoChartRenderer) drawValueAxis(r gochart.Renderer, spec chart.Spec, plot gochart.Box) gochart.ContinuousRange {
	step, max := NiceScale(spec.MaxValue(), 5)
	rng := gochart.ContinuousRange{Min: 0, Max: max, Domain: plot.Width()}

	axisColor := drawing.ColorFromHex("444444")
	r.SetStrokeColor(axisColor)
	r.SetStrokeWidth(1)
	r.MoveTo(plot.Left, plot.Bottom)
	r.LineTo(plot.Right, plot.Bottom)
	r.Stroke()

	tickFont := float64(spec.ValueAxis.TickFontSize) * fontScale
	r.SetFontColor(axisColor)
	labelBottom := plot.Bottom + axisTickLen
	for v := 0.0; v <= max+step/2; v += step {
		x := plot.Left + rng.Translate(v)
		gridColor := drawing.ColorFromHex("E5E5E5")
		if v > 0 {
			r.SetStrokeColor(gridColor)
			r.MoveTo(x, plot.Top)
			r.LineTo(x, plot.Bottom)
			r.Stroke()
		}
		r.SetStrokeColor(axisColor)
		r.MoveTo(x, plot.Bottom)
		r.LineTo(x, plot.Bottom+axisTickLen)
		r.Stroke()

		if spec.ValueAxis.ShowTickLabels && tickFont > 0 {
			r.SetFontSize(tickFont)
			label := FormatTick(v, step)
			tb := r.MeasureText(label)
			r.Text(label, x-tb.Width()/2, plot.Bottom+axisTickLen+padding+tb.Height())
			labelBottom = plot.Bottom + axisTickLen + padding + tb.Height()
		}
	}

	if spec.ValueAxis.Title != "" {
		r.SetFontSize(float64(spec.ValueAxis.TitleFontSize) * fontScale)
		r.SetFontColor(drawing.ColorBlack)
		tb := r.MeasureText(spec.ValueAxis.Title)
		r.Text(spec.ValueAxis.Title, plot.Left+(plot.Width()-tb.Width())/2, labelBottom+padding+tb.Height())
	}
	return rng
}

// drawBars stacks bars bottom-up so the first (smallest) bar sits lowest
func (g *GoChartRenderer) drawBars(r gochart.Renderer, spec chart.Spec, plot gochart.Box, rng gochart.ContinuousRange) {
	n := len(spec.Bars)
	if n == 0 {
		return
	}
	band := float64(plot.Height()) / float64(n)
	thickness := int(band * barFill)
	if thickness < 1 {
		thickness = 1
	}

	for i, bar := range spec.Bars {
		bandBottom := plot.Bottom - int(float64(i)*band)
		bottom := bandBottom - int((band-float64(thickness))/2)
		top := bottom - thickness
		right := plot.Left + rng.Translate(math.Max(bar.Value, 0))
		fillBox(r, gochart.Box{Top: top, Left: plot.Left, Right: right, Bottom: bottom}, parseColor(bar.Color))

		if bar.Text == "" {
			continue
		}
		size := float64(spec.BarTextFontSize) * fontScale
		if limit := float64(thickness) * 0.6; size > limit {
			size = math.Max(limit, minBarFont)
		}
		r.SetFontSize(size)
		tb := r.MeasureText(bar.Text)
		baseline := top + (thickness+tb.Height())/2
		if tb.Width()+2*textInset <= right-plot.Left {
			r.SetFontColor(drawing.ColorWhite)
			r.Text(bar.Text, plot.Left+textInset, baseline)
		} else {
			r.SetFontColor(drawing.ColorBlack)
			r.Text(bar.Text, right+textInset, baseline)
		}
	}
}

func fillBox(r gochart.Renderer, b gochart.Box, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.Fill()
}

func strokeBox(r gochart.Renderer, b gochart.Box, c drawing.Color, width float64) {
	r.SetStrokeColor(c)
	r.SetStrokeWidth(width)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.Stroke()
}

var namedColors = map[string]drawing.Color{
	"black": drawing.ColorBlack,
	"white": drawing.ColorWhite,
}

// parseColor accepts "#RRGGBB", "RRGGBB" or a few named colors
func parseColor(s string) drawing.Color {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c
	}
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// NiceScale picks a 1/2/5×10^k tick step giving about target ticks and the
// axis maximum rounded up to that step. A non-positive max yields a 0..1 axis.
func NiceScale(max float64, target int) (step, top float64) {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		max = 1
	}
	if target < 1 {
		target = 1
	}
	raw := max / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	top = math.Ceil(max/step-1e-9) * step
	return step, top
}

// FormatTick prints v with as many decimals as step needs
func FormatTick(v, step float64) string {
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
