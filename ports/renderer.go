package ports

import (
	"context"
	"io"

	"beerdash/internal/chart"
)

// ImageFormat selects the encoding a ChartRenderer writes
type ImageFormat string

const (
	FormatSVG ImageFormat = "svg"
	FormatPNG ImageFormat = "png"
)

// ContentType returns the MIME type for the format
func (f ImageFormat) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// ChartRenderer draws a chart.Spec
type ChartRenderer interface {
	Render(ctx context.Context, spec chart.Spec, format ImageFormat, w io.Writer) error
}
