// Package display renders pages and detected regions as raster images with
// overlay markup. All pixel-level work happens behind the ImageHandler
// contract, so callers can swap the raster backend through the handler
// registry without touching client code. PageImage is the document-space
// orchestrator: it scales point coordinates into pixel space exactly once
// per call and delegates the drawing to a handler.
package display

import (
	"image/color"
	"math"

	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// Resolution is measured in pixels per inch; document space is in points,
// 1/72 inch units.
const (
	DefaultResolution  = 72.0
	DocUnitsPerInch    = 72.0
	DefaultStrokeWidth = 1.0
)

// Stock colors for overlay markup
var (
	ColorRed         = color.NRGBA{R: 255, A: 255}
	ColorGreen       = color.NRGBA{G: 255, A: 255}
	ColorBlue        = color.NRGBA{B: 255, A: 255}
	ColorTransparent = color.NRGBA{}

	// DefaultFill is a translucent blue, DefaultStroke a strong red
	DefaultFill   = color.NRGBA{B: 255, A: 50}
	DefaultStroke = color.NRGBA{R: 255, A: 200}
)

// PixelBox is an axis-aligned rectangle in raster space
type PixelBox struct {
	Left, Top, Right, Bottom int
}

// Width returns the pixel width of the box
func (p PixelBox) Width() int {
	return p.Right - p.Left
}

// Height returns the pixel height of the box
func (p PixelBox) Height() int {
	return p.Bottom - p.Top
}

// ToPixelBox converts a document-space bounding box to raster space:
// each coordinate is round(v * resolution / 72).
func ToPixelBox(b pdf.BoundingBox, resolution float64) PixelBox {
	return PixelBox{
		Left:   ScaleToPixels(b.X0, resolution),
		Top:    ScaleToPixels(b.Y0, resolution),
		Right:  ScaleToPixels(b.X1, resolution),
		Bottom: ScaleToPixels(b.Y1, resolution),
	}
}

// ScaleToPixels converts one document-space coordinate to raster space
func ScaleToPixels(v, resolution float64) int {
	return int(math.Round(v * resolution / DocUnitsPerInch))
}
