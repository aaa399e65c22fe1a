package display

import (
	"errors"
	"image"
	"image/color"

	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// Structural errors. They indicate programmer or input error and are fatal
// to the current operation; nothing in this package retries them.
var (
	// ErrUnsupportedSource is returned by SetOriginal for source values
	// that are not a file path, a raster image, or a PageSource.
	ErrUnsupportedSource = errors.New("unsupported source kind")

	// ErrUnsupportedMode is returned by Reset for unknown color-mode names.
	ErrUnsupportedMode = errors.New("unsupported mode kind")

	// ErrNoImage is returned by operations that require an original image
	// before one has been set.
	ErrNoImage = errors.New("no image loaded")

	// ErrInvalidCropBox is returned by CropOriginal for degenerate,
	// out-of-bounds, or non-axis-aligned crop boxes.
	ErrInvalidCropBox = errors.New("invalid crop box")

	// ErrUnsupportedTarget is returned by Save for targets that are neither
	// a file path nor an io.Writer.
	ErrUnsupportedTarget = errors.New("unsupported target kind")
)

// PageSource asks a handler to adopt the raster produced by rendering Page
// at Resolution.
type PageSource struct {
	Page       pdf.Page
	Resolution float64
}

// Options is an open set of backend-specific drawing or save settings.
// Backends ignore options they do not recognize rather than fail.
type Options map[string]interface{}

// Geometry describes an axis-aligned drawing region in pixel space. It can
// be built from two corner points or from four scalars; both forms resolve
// to identical geometry.
type Geometry struct {
	x0, y0, x1, y1 float64
}

// GeometryFromPoints builds a Geometry from two opposing corner points,
// top-left and bottom-right.
func GeometryFromPoints(p0, p1 pdf.Point) Geometry {
	return Geometry{x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y}
}

// GeometryFromScalars builds a Geometry from explicit (x0, y0, x1, y1)
// coordinates.
func GeometryFromScalars(x0, y0, x1, y1 float64) Geometry {
	return Geometry{x0: x0, y0: y0, x1: x1, y1: y1}
}

// Coords returns the geometry as (x0, y0, x1, y1)
func (g Geometry) Coords() (x0, y0, x1, y1 float64) {
	return g.x0, g.y0, g.x1, g.y1
}

// ImageHandler encapsulates all pixel-level state and operations behind a
// backend-neutral contract. A handler holds two rasters: the immutable
// original and the mutable annotated copy, which are dimensionally identical
// whenever observed. Drawing operations touch only the annotated image;
// SetOriginal always regenerates it, so annotations never survive a
// replacement of the original.
type ImageHandler interface {
	// SetOriginal adopts a new original image. Accepted sources: a file
	// path (string), a raster (image.Image), or a PageSource. Any other
	// value fails with ErrUnsupportedSource. Always forces Reset("").
	SetOriginal(source interface{}) error

	// Original returns the current original image, or nil if unset
	Original() image.Image

	// Annotated returns the annotated image, lazily deriving it from the
	// original when not yet materialized
	Annotated() image.Image

	// Reset recomputes the annotated image from the original. mode "" is a
	// passthrough copy; a known color-mode name applies that conversion;
	// unknown names fail with ErrUnsupportedMode.
	Reset(mode string) error

	// Size returns the pixel dimensions of the original image, failing
	// with ErrNoImage when none is set
	Size() (width, height int, err error)

	// CropOriginal crops both original and annotated to the rectangle
	// described by cropbox: four points, clockwise from top-left,
	// axis-aligned. Degenerate, out-of-bounds or non-axis-aligned boxes
	// fail with ErrInvalidCropBox.
	CropOriginal(cropbox []pdf.Point) error

	// Line draws a line segment between the geometry's two endpoints
	Line(geom Geometry, stroke color.Color, width float64, opts Options) error

	// Rectangle draws a rectangle with the given fill and outline colors
	Rectangle(geom Geometry, fill, outline color.Color, opts Options) error

	// Ellipse draws an ellipse inscribed in the geometry's bounds
	Ellipse(geom Geometry, fill, stroke color.Color, opts Options) error

	// Save writes the annotated image. target is a file path (string,
	// format inferred from the extension unless given) or an io.Writer
	// (format mandatory). Any other value fails with ErrUnsupportedTarget.
	Save(target interface{}, format string, opts Options) error
}
