package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ougirez/popchart/internal/service/series"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Renderer draws population lines as a year/value line chart.
type Renderer struct {
	width   int
	height  int
	printer *message.Printer
}

func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{
		width:   width,
		height:  height,
		printer: message.NewPrinter(language.Japanese),
	}
}

// FormatPopulation prints v with locale digit grouping.
func (r *Renderer) FormatPopulation(v int64) string {
	return r.printer.Sprintf("%d", v)
}

// Render writes the chart of lines to w. No lines renders an empty grid.
func (r *Renderer) Render(w io.Writer, format Format, title string, lines []series.Line) error {
	xRange, yRange := ranges(lines)

	chartSeries := make([]gochart.Series, 0, len(lines))
	for _, line := range lines {
		xs := make([]float64, 0, len(line.Years))
		ys := make([]float64, 0, len(line.Values))
		for i := range line.Years {
			xs = append(xs, float64(line.Years[i]))
			ys = append(ys, float64(line.Values[i]))
		}
		chartSeries = append(chartSeries, gochart.ContinuousSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(line.Stroke),
		})
	}
	if len(chartSeries) == 0 {
		chartSeries = append(chartSeries, gochart.ContinuousSeries{
			XValues: []float64{xRange.Min, xRange.Max},
			YValues: []float64{yRange.Min, yRange.Min},
			Style:   gochart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
		})
	}

	ch := gochart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           "year",
			Range:          xRange,
			ValueFormatter: yearFormatter,
			GridMajorStyle: gridStyle(),
		},
		YAxis: gochart.YAxis{
			Name:           "population",
			Range:          yRange,
			ValueFormatter: r.populationFormatter,
			GridMajorStyle: gridStyle(),
		},
		Series: chartSeries,
	}
	if len(lines) > 0 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}

	if err := ch.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}

func (r *Renderer) populationFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return r.FormatPopulation(int64(f))
	}
	return ""
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}
	return ""
}

func lineStyle(stroke string) gochart.Style {
	col := gochart.ColorAlternateGray
	if stroke != "" {
		col = drawing.ColorFromHex(strings.TrimPrefix(stroke, "#"))
	}
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    2,
	}
}

func gridStyle() gochart.Style {
	return gochart.Style{
		StrokeColor:     drawing.ColorFromHex("cccccc"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{3, 3},
	}
}

// ranges spans every point of lines, widened so neither axis is degenerate.
func ranges(lines []series.Line) (*gochart.ContinuousRange, *gochart.ContinuousRange) {
	x := &gochart.ContinuousRange{}
	y := &gochart.ContinuousRange{}

	first := true
	for _, line := range lines {
		for i := range line.Years {
			xv, yv := float64(line.Years[i]), float64(line.Values[i])
			if first {
				x.Min, x.Max = xv, xv
				y.Max = yv
				first = false
				continue
			}
			if xv < x.Min {
				x.Min = xv
			}
			if xv > x.Max {
				x.Max = xv
			}
			if yv > y.Max {
				y.Max = yv
			}
		}
	}

	if first {
		x.Min, x.Max = 1960, 2045
	}
	if x.Max == x.Min {
		x.Min--
		x.Max++
	}
	if y.Max <= 0 {
		y.Max = 1
	} else {
		y.Max *= 1.05
	}

	return x, y
}
