package display

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// ImagingHandler is the reference ImageHandler implementation, built on
// disintegration/imaging for raster state and fogleman/gg for anti-aliased
// drawing. It is registered under DefaultHandlerKey at startup.
type ImagingHandler struct {
	original *image.NRGBA
	dc       *gg.Context
}

// NewImagingHandler creates an empty handler; call SetOriginal before any
// other operation.
func NewImagingHandler() *ImagingHandler {
	return &ImagingHandler{}
}

// SetOriginal adopts a new original image and regenerates the annotated copy
func (h *ImagingHandler) SetOriginal(source interface{}) error {
	switch src := source.(type) {
	case string:
		img, err := imaging.Open(src)
		if err != nil {
			return fmt.Errorf("failed to open image %q: %w", src, err)
		}
		h.original = imaging.Clone(img)
	case image.Image:
		if src == nil {
			return fmt.Errorf("%w: nil image", ErrUnsupportedSource)
		}
		h.original = imaging.Clone(src)
	case PageSource:
		if src.Page == nil {
			return fmt.Errorf("%w: PageSource with nil page", ErrUnsupportedSource)
		}
		img, err := src.Page.Render(src.Resolution)
		if err != nil {
			return fmt.Errorf("failed to render page %d: %w", src.Page.GetPageNumber(), err)
		}
		h.original = imaging.Clone(img)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedSource, source)
	}

	// Replacing the original invalidates any existing annotations
	return h.Reset("")
}

// Original returns the current original image, or nil if unset
func (h *ImagingHandler) Original() image.Image {
	if h.original == nil {
		return nil
	}
	return h.original
}

// Annotated returns the annotated image, deriving it from the original on
// first access
func (h *ImagingHandler) Annotated() image.Image {
	if h.dc == nil {
		if h.original == nil {
			return nil
		}
		h.dc = gg.NewContextForImage(h.original)
	}
	return h.dc.Image()
}

// Reset recomputes the annotated image from the original, optionally
// applying a color-mode conversion
func (h *ImagingHandler) Reset(mode string) error {
	if h.original == nil {
		return fmt.Errorf("cannot reset: %w", ErrNoImage)
	}

	var base image.Image
	switch mode {
	case "", "RGB", "RGBA":
		base = imaging.Clone(h.original)
	case "L", "gray", "grayscale":
		base = imaging.Grayscale(h.original)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}

	h.dc = gg.NewContextForImage(base)
	return nil
}

// Size returns the pixel dimensions of the original image
func (h *ImagingHandler) Size() (int, int, error) {
	if h.original == nil {
		return 0, 0, ErrNoImage
	}
	b := h.original.Bounds()
	return b.Dx(), b.Dy(), nil
}

// CropOriginal crops both original and annotated to the rectangle described
// by the 4-point clockwise cropbox. Annotations inside the region survive.
func (h *ImagingHandler) CropOriginal(cropbox []pdf.Point) error {
	if h.original == nil {
		return fmt.Errorf("cannot crop: %w", ErrNoImage)
	}
	rect, err := cropRect(cropbox)
	if err != nil {
		return err
	}

	bounds := h.original.Bounds()
	if rect.Min.X < bounds.Min.X || rect.Min.Y < bounds.Min.Y ||
		rect.Max.X > bounds.Max.X || rect.Max.Y > bounds.Max.Y {
		return fmt.Errorf("%w: rectangle %v outside image bounds %v",
			ErrInvalidCropBox, rect, bounds)
	}

	annotated := h.Annotated()
	h.original = imaging.Crop(h.original, rect)
	h.dc = gg.NewContextForImage(imaging.Crop(annotated, rect))
	return nil
}

// cropRect derives the pixel rectangle from a 4-point cropbox: points run
// clockwise from the top-left corner and must describe an axis-aligned
// rectangle. Non-rectangular quadrilaterals fail rather than guess at a
// winding order.
func cropRect(cropbox []pdf.Point) (image.Rectangle, error) {
	if len(cropbox) != 4 {
		return image.Rectangle{}, fmt.Errorf("%w: expected 4 points, got %d",
			ErrInvalidCropBox, len(cropbox))
	}

	left := int(math.Round(cropbox[0].X))
	top := int(math.Round(cropbox[0].Y))
	right := int(math.Round(cropbox[1].X))
	bottom := int(math.Round(cropbox[2].Y))

	aligned := int(math.Round(cropbox[1].Y)) == top &&
		int(math.Round(cropbox[2].X)) == right &&
		int(math.Round(cropbox[3].Y)) == bottom &&
		int(math.Round(cropbox[3].X)) == left
	if !aligned {
		return image.Rectangle{}, fmt.Errorf("%w: corners are not axis-aligned",
			ErrInvalidCropBox)
	}

	if left >= right || top >= bottom {
		return image.Rectangle{}, fmt.Errorf("%w: degenerate rectangle (%d,%d)-(%d,%d)",
			ErrInvalidCropBox, left, top, right, bottom)
	}

	return image.Rect(left, top, right, bottom), nil
}

// ensureContext materializes the annotated image for drawing
func (h *ImagingHandler) ensureContext() error {
	if h.dc != nil {
		return nil
	}
	if h.original == nil {
		return fmt.Errorf("cannot draw: %w", ErrNoImage)
	}
	return h.Reset("")
}

// applyOptions sets recognized backend options on the drawing context.
// Unrecognized options are ignored.
func (h *ImagingHandler) applyOptions(opts Options) {
	if dash, ok := opts["dash"].([]float64); ok && len(dash) > 0 {
		h.dc.SetDash(dash...)
	} else {
		h.dc.SetDash()
	}
}

// Line draws a line segment onto the annotated image
func (h *ImagingHandler) Line(geom Geometry, stroke color.Color, width float64, opts Options) error {
	if err := h.ensureContext(); err != nil {
		return err
	}
	h.applyOptions(opts)

	x0, y0, x1, y1 := geom.Coords()
	h.dc.SetColor(stroke)
	h.dc.SetLineWidth(width)
	h.dc.DrawLine(x0, y0, x1, y1)
	h.dc.Stroke()
	return nil
}

// Rectangle draws a rectangle onto the annotated image
func (h *ImagingHandler) Rectangle(geom Geometry, fill, outline color.Color, opts Options) error {
	if err := h.ensureContext(); err != nil {
		return err
	}
	h.applyOptions(opts)

	x0, y0, x1, y1 := geom.Coords()
	h.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	h.dc.SetColor(fill)
	h.dc.FillPreserve()
	h.dc.SetColor(outline)
	h.dc.SetLineWidth(DefaultStrokeWidth)
	h.dc.Stroke()
	return nil
}

// Ellipse draws an ellipse inscribed in the geometry's bounds onto the
// annotated image
func (h *ImagingHandler) Ellipse(geom Geometry, fill, stroke color.Color, opts Options) error {
	if err := h.ensureContext(); err != nil {
		return err
	}
	h.applyOptions(opts)

	x0, y0, x1, y1 := geom.Coords()
	cx, cy := (x0+x1)/2, (y0+y1)/2
	rx, ry := (x1-x0)/2, (y1-y0)/2
	h.dc.DrawEllipse(cx, cy, rx, ry)
	h.dc.SetColor(fill)
	h.dc.FillPreserve()
	h.dc.SetColor(stroke)
	h.dc.SetLineWidth(DefaultStrokeWidth)
	h.dc.Stroke()
	return nil
}

// Save writes the annotated image to a file path or an io.Writer
func (h *ImagingHandler) Save(target interface{}, format string, opts Options) error {
	annotated := h.Annotated()
	if annotated == nil {
		return fmt.Errorf("cannot save: %w", ErrNoImage)
	}

	switch t := target.(type) {
	case string:
		if format == "" {
			return imaging.Save(annotated, t)
		}
		f, err := parseFormat(format)
		if err != nil {
			return err
		}
		out, err := os.Create(t)
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", t, err)
		}
		defer out.Close()
		return imaging.Encode(out, annotated, f)
	case io.Writer:
		if format == "" {
			return fmt.Errorf("format is required for writer targets")
		}
		f, err := parseFormat(format)
		if err != nil {
			return err
		}
		return imaging.Encode(t, annotated, f)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}

// parseFormat resolves a format name like "png" or "JPEG" to an imaging
// format
func parseFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, fmt.Errorf("unknown image format %q: %w", name, err)
	}
	return f, nil
}
