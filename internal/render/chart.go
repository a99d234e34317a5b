package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"PriceBoard/internal/model"
	"PriceBoard/internal/notifier"
)

// Format selects the image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 320
	// domainPad widens the Y axis beyond the data on both sides.
	domainPad = 1000.0
)

var (
	ErrNoData        = errors.New("series has no points")
	ErrUnknownFormat = errors.New("unknown chart format")

	lineColor = drawing.ColorFromHex("3b82f6")
	fillColor = lineColor.WithAlpha(60)
)

// Options controls the rendered image.
type Options struct {
	Width  int
	Height int
	Title  string
}

// ParseFormat maps "png"/"svg" to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, SVG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Series renders s as a filled area chart with date ticks on X and currency
// ticks on Y.
func Series(w io.Writer, s model.Series, format Format, opts Options) error {
	if len(s) == 0 {
		return ErrNoData
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	xs := make([]time.Time, len(s))
	ys := make([]float64, len(s))
	minY, maxY := s[0].Price, s[0].Price
	for i, p := range s {
		xs[i] = p.Date.Time()
		ys[i] = p.Price
		if p.Price < minY {
			minY = p.Price
		}
		if p.Price > maxY {
			maxY = p.Price
		}
	}
	// go-chart needs two x values to build a range.
	if len(s) == 1 {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[0])
	}

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2"),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minY - domainPad, Max: maxY + domainPad},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return "$" + notifier.FormatCurrency(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Price",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
			},
		},
	}

	cf := chart.PNG
	switch format {
	case PNG:
	case SVG:
		cf = chart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := ch.Render(cf, w); err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}
