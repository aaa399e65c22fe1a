package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// DrawOption customizes the styling of a single drawing call
type DrawOption func(*drawConfig)

type drawConfig struct {
	fill        color.Color
	stroke      color.Color
	strokeWidth float64
	radius      float64
	backend     Options
}

func newDrawConfig(opts []DrawOption) drawConfig {
	cfg := drawConfig{
		fill:        DefaultFill,
		stroke:      DefaultStroke,
		strokeWidth: DefaultStrokeWidth,
		radius:      5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFill sets the fill color
func WithFill(c color.Color) DrawOption {
	return func(cfg *drawConfig) { cfg.fill = c }
}

// WithStroke sets the stroke color
func WithStroke(c color.Color) DrawOption {
	return func(cfg *drawConfig) { cfg.stroke = c }
}

// WithStrokeWidth sets the stroke width in pixels
func WithStrokeWidth(w float64) DrawOption {
	return func(cfg *drawConfig) { cfg.strokeWidth = w }
}

// WithRadius sets the circle radius in document units
func WithRadius(r float64) DrawOption {
	return func(cfg *drawConfig) { cfg.radius = r }
}

// WithBackendOptions passes backend-specific settings through to the handler
func WithBackendOptions(o Options) DrawOption {
	return func(cfg *drawConfig) { cfg.backend = o }
}

// PageImage binds a page, a resolution, and a handler instance. It accepts
// drawing requests in document space, converts them to pixel space exactly
// once per call, and delegates to the handler; handlers never see document
// coordinates.
type PageImage struct {
	page       pdf.Page
	handler    ImageHandler
	factory    HandlerFactory
	resolution float64
	scale      float64
	// view is the document-space region currently mapped onto the raster;
	// its top-left corner corresponds to pixel (0, 0)
	view pdf.BoundingBox
}

// NewPageImage creates a PageImage for page at the given resolution.
// original, when non-nil, is adopted directly instead of rendering the page.
// handlerKeyOrFactory is resolved through the registry: a registered key, a
// HandlerFactory, or nil for the default handler.
func NewPageImage(page pdf.Page, original image.Image, resolution float64, handlerKeyOrFactory interface{}) (*PageImage, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	factory := ResolveHandler(handlerKeyOrFactory)
	handler := factory()

	if original != nil {
		if err := handler.SetOriginal(original); err != nil {
			return nil, err
		}
	} else {
		if page == nil {
			return nil, fmt.Errorf("%w: neither page nor original supplied", ErrUnsupportedSource)
		}
		if err := handler.SetOriginal(PageSource{Page: page, Resolution: resolution}); err != nil {
			return nil, err
		}
	}

	pi := &PageImage{
		page:       page,
		handler:    handler,
		factory:    factory,
		resolution: resolution,
		scale:      resolution / DocUnitsPerInch,
	}

	if page != nil {
		pi.view = page.GetBBox()
	} else {
		w, h, err := handler.Size()
		if err != nil {
			return nil, err
		}
		pi.view = pdf.BoundingBox{X1: float64(w) / pi.scale, Y1: float64(h) / pi.scale}
	}

	return pi, nil
}

// Handler returns the underlying image handler
func (pi *PageImage) Handler() ImageHandler {
	return pi.handler
}

// Resolution returns the resolution in pixels per inch
func (pi *PageImage) Resolution() float64 {
	return pi.resolution
}

// Original returns the original image
func (pi *PageImage) Original() image.Image {
	return pi.handler.Original()
}

// Annotated returns the annotated image
func (pi *PageImage) Annotated() image.Image {
	return pi.handler.Annotated()
}

// reproject converts a document-space coordinate into pixel space, relative
// to the current view
func (pi *PageImage) reproject(x, y float64) (float64, float64) {
	return (x - pi.view.X0) * pi.scale, (y - pi.view.Y0) * pi.scale
}

// reprojectBBox converts a document-space bounding box into pixel-space
// geometry
func (pi *PageImage) reprojectBBox(b pdf.BoundingBox) Geometry {
	x0, y0 := pi.reproject(b.X0, b.Y0)
	x1, y1 := pi.reproject(b.X1, b.Y1)
	return GeometryFromScalars(x0, y0, x1, y1)
}

// Reset restores the annotated image to a fresh copy of the original
func (pi *PageImage) Reset() error {
	return pi.handler.Reset("")
}

// Copy creates an independent PageImage sharing the same page, resolution
// and handler type, seeded with this image's current original.
func (pi *PageImage) Copy() (*PageImage, error) {
	original := pi.handler.Original()
	if original == nil {
		return nil, fmt.Errorf("cannot copy: %w", ErrNoImage)
	}
	cp, err := NewPageImage(pi.page, original, pi.resolution, pi.factory)
	if err != nil {
		return nil, err
	}
	cp.view = pi.view
	return cp, nil
}

// CropTo crops the image to the document-space bbox. Subsequent drawing
// calls are reprojected relative to the cropped region.
func (pi *PageImage) CropTo(bbox pdf.BoundingBox) error {
	x0, y0 := pi.reproject(bbox.X0, bbox.Y0)
	x1, y1 := pi.reproject(bbox.X1, bbox.Y1)

	cropbox := []pdf.Point{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
	if err := pi.handler.CropOriginal(cropbox); err != nil {
		return err
	}

	pi.view = bbox
	return nil
}

// DrawLine draws a line between two document-space points
func (pi *PageImage) DrawLine(p0, p1 pdf.Point, opts ...DrawOption) error {
	cfg := newDrawConfig(opts)
	x0, y0 := pi.reproject(p0.X, p0.Y)
	x1, y1 := pi.reproject(p1.X, p1.Y)
	return pi.handler.Line(GeometryFromScalars(x0, y0, x1, y1), cfg.stroke, cfg.strokeWidth, cfg.backend)
}

// DrawLines draws multiple line segments
func (pi *PageImage) DrawLines(segments [][2]pdf.Point, opts ...DrawOption) error {
	for _, seg := range segments {
		if err := pi.DrawLine(seg[0], seg[1], opts...); err != nil {
			return err
		}
	}
	return nil
}

// DrawVLine draws a vertical line at document-space x, spanning the view
func (pi *PageImage) DrawVLine(x float64, opts ...DrawOption) error {
	return pi.DrawLine(
		pdf.Point{X: x, Y: pi.view.Y0},
		pdf.Point{X: x, Y: pi.view.Y1},
		opts...,
	)
}

// DrawVLines draws vertical lines at each location
func (pi *PageImage) DrawVLines(locations []float64, opts ...DrawOption) error {
	for _, x := range locations {
		if err := pi.DrawVLine(x, opts...); err != nil {
			return err
		}
	}
	return nil
}

// DrawHLine draws a horizontal line at document-space y, spanning the view
func (pi *PageImage) DrawHLine(y float64, opts ...DrawOption) error {
	return pi.DrawLine(
		pdf.Point{X: pi.view.X0, Y: y},
		pdf.Point{X: pi.view.X1, Y: y},
		opts...,
	)
}

// DrawHLines draws horizontal lines at each location
func (pi *PageImage) DrawHLines(locations []float64, opts ...DrawOption) error {
	for _, y := range locations {
		if err := pi.DrawHLine(y, opts...); err != nil {
			return err
		}
	}
	return nil
}

// DrawRect draws a filled rectangle with a stroked border for the
// document-space bbox
func (pi *PageImage) DrawRect(bbox pdf.BoundingBox, opts ...DrawOption) error {
	cfg := newDrawConfig(opts)

	// Inset by half the stroke width so the border straddles the box edge
	half := cfg.strokeWidth / 2 / pi.scale
	x0, top := bbox.X0+half, bbox.Y0+half
	x1, bottom := bbox.X1-half, bbox.Y1-half

	inner := pdf.BoundingBox{X0: x0, Y0: top, X1: x1, Y1: bottom}
	if err := pi.handler.Rectangle(pi.reprojectBBox(inner), cfg.fill, ColorTransparent, cfg.backend); err != nil {
		return err
	}

	if cfg.strokeWidth > 0 {
		segments := [][2]pdf.Point{
			{{X: x0, Y: top}, {X: x1, Y: top}},       // top
			{{X: x0, Y: bottom}, {X: x1, Y: bottom}}, // bottom
			{{X: x0, Y: top}, {X: x0, Y: bottom}},    // left
			{{X: x1, Y: top}, {X: x1, Y: bottom}},    // right
		}
		return pi.DrawLines(segments, opts...)
	}
	return nil
}

// DrawRects draws multiple rectangles
func (pi *PageImage) DrawRects(bboxes []pdf.BoundingBox, opts ...DrawOption) error {
	for _, b := range bboxes {
		if err := pi.DrawRect(b, opts...); err != nil {
			return err
		}
	}
	return nil
}

// DrawCircle draws a circle around a document-space center point
func (pi *PageImage) DrawCircle(center pdf.Point, opts ...DrawOption) error {
	cfg := newDrawConfig(opts)
	bbox := pdf.BoundingBox{
		X0: center.X - cfg.radius,
		Y0: center.Y - cfg.radius,
		X1: center.X + cfg.radius,
		Y1: center.Y + cfg.radius,
	}
	return pi.handler.Ellipse(pi.reprojectBBox(bbox), cfg.fill, cfg.stroke, cfg.backend)
}

// DrawCircles draws circles around multiple center points
func (pi *PageImage) DrawCircles(centers []pdf.Point, opts ...DrawOption) error {
	for _, c := range centers {
		if err := pi.DrawCircle(c, opts...); err != nil {
			return err
		}
	}
	return nil
}

// DrawTableOutline outlines the table's overall bounding box
func (pi *PageImage) DrawTableOutline(table pdf.Table, opts ...DrawOption) error {
	return pi.DrawRect(table.BBox, opts...)
}

// DrawRowOutline outlines one row's bounding box
func (pi *PageImage) DrawRowOutline(row pdf.Row, opts ...DrawOption) error {
	return pi.DrawRect(row.BBox, opts...)
}

// DrawCellOutline outlines one cell's bounding box
func (pi *PageImage) DrawCellOutline(cell pdf.BoundingBox, opts ...DrawOption) error {
	return pi.DrawRect(cell, opts...)
}

// DebugTable outlines every present cell of a table
func (pi *PageImage) DebugTable(table pdf.Table, opts ...DrawOption) error {
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			if cell == nil {
				continue
			}
			if err := pi.DrawCellOutline(*cell, opts...); err != nil {
				return err
			}
		}
	}
	return nil
}

// DebugTables outlines all given tables and their cells
func (pi *PageImage) DebugTables(tables []pdf.Table, opts ...DrawOption) error {
	for _, table := range tables {
		if err := pi.DrawTableOutline(table, opts...); err != nil {
			return err
		}
		if err := pi.DebugTable(table, opts...); err != nil {
			return err
		}
	}
	return nil
}

// DebugTableFinder overlays the detection evidence behind a finder result:
// the detected tables and cells, the consolidated ruling edges, and circles
// at the grid intersections.
func (pi *PageImage) DebugTableFinder(finder pdf.TableFinder, opts ...DrawOption) error {
	if err := pi.DebugTables(finder.Tables, opts...); err != nil {
		return err
	}
	for _, e := range finder.Edges {
		err := pi.DrawLine(pdf.Point{X: e.X0, Y: e.Y0}, pdf.Point{X: e.X1, Y: e.Y1}, opts...)
		if err != nil {
			return err
		}
	}
	return pi.DrawCircles(finder.Intersections, append([]DrawOption{WithRadius(2)}, opts...)...)
}

// OutlineWords outlines every word extracted from the page
func (pi *PageImage) OutlineWords(xTol, yTol float64, opts ...DrawOption) error {
	if pi.page == nil {
		return fmt.Errorf("cannot outline words: no page bound")
	}
	for _, word := range pi.page.ExtractWords(xTol, yTol) {
		if err := pi.DrawRect(word.GetBBox(), opts...); err != nil {
			return err
		}
	}
	return nil
}

// OutlineChars outlines every character on the page
func (pi *PageImage) OutlineChars(opts ...DrawOption) error {
	if pi.page == nil {
		return fmt.Errorf("cannot outline chars: no page bound")
	}
	styled := append([]DrawOption{
		WithStroke(color.NRGBA{R: 255, A: 255}),
		WithFill(color.NRGBA{R: 255, A: 63}),
	}, opts...)
	for _, ch := range pi.page.GetObjects().Chars {
		if err := pi.DrawRect(ch.GetBBox(), styled...); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the annotated image through the handler
func (pi *PageImage) Save(target interface{}, format string, opts Options) error {
	return pi.handler.Save(target, format, opts)
}
