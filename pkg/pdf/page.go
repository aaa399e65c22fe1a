package pdf

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
)

// basePage carries the page state shared by every backend: dimensions, the
// page bbox, and the extracted objects. Backends construct one and get the
// whole Page interface for free.
type basePage struct {
	pageNumber int
	width      float64
	height     float64
	bbox       BoundingBox
	objects    Objects
}

// GetPageNumber returns the page number (1-based)
func (p *basePage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width in points
func (p *basePage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height in points
func (p *basePage) GetHeight() float64 {
	return p.height
}

// GetBBox returns the page bounding box
func (p *basePage) GetBBox() BoundingBox {
	return p.bbox
}

// GetObjects returns all objects on the page
func (p *basePage) GetObjects() Objects {
	return p.objects
}

// ExtractText extracts all text from the page
func (p *basePage) ExtractText() string {
	return organizeText(p.objects.Chars, DefaultXTolerance, DefaultYTolerance)
}

// ExtractTextIn extracts text within bbox using the given tolerances
func (p *basePage) ExtractTextIn(bbox BoundingBox, xTol, yTol float64) (string, error) {
	return extractTextIn(p.objects.Chars, bbox, xTol, yTol)
}

// ExtractWords extracts individual words from the page
func (p *basePage) ExtractWords(xTol, yTol float64) []Word {
	return extractWords(p.objects.Chars, xTol, yTol)
}

// FindTables detects tables from the page's line and rectangle geometry
func (p *basePage) FindTables() []Table {
	return findTables(p.objects)
}

// Crop returns a new page restricted to the specified bounding box
func (p *basePage) Crop(bbox BoundingBox) Page {
	return &basePage{
		pageNumber: p.pageNumber,
		width:      bbox.Width(),
		height:     bbox.Height(),
		bbox:       bbox,
		objects:    filterObjectsInBBox(p.objects, bbox),
	}
}

// Render rasterizes the page at the given resolution (pixels per inch). The
// raster is a debug rendering: page objects drawn onto a white canvas at
// their document positions.
func (p *basePage) Render(resolution float64) (image.Image, error) {
	return renderObjects(p.objects, p.bbox, resolution)
}

// NewStaticPage builds a standalone page from pre-extracted objects. Useful
// when detection ran elsewhere and only the visualization side is needed.
func NewStaticPage(pageNumber int, bbox BoundingBox, objects Objects) Page {
	return &basePage{
		pageNumber: pageNumber,
		width:      bbox.Width(),
		height:     bbox.Height(),
		bbox:       bbox,
		objects:    objects,
	}
}

// filterObjectsInBBox filters objects that intersect the given bounding box
func filterObjectsInBBox(objects Objects, bbox BoundingBox) Objects {
	filtered := Objects{}

	for _, obj := range objects.Chars {
		if bbox.Intersects(obj.GetBBox()) {
			filtered.Chars = append(filtered.Chars, obj)
		}
	}

	for _, obj := range objects.Lines {
		if bbox.Intersects(obj.GetBBox()) {
			filtered.Lines = append(filtered.Lines, obj)
		}
	}

	for _, obj := range objects.Rects {
		if bbox.Intersects(obj.GetBBox()) {
			filtered.Rects = append(filtered.Rects, obj)
		}
	}

	for _, obj := range objects.Curves {
		if bbox.Intersects(obj.GetBBox()) {
			filtered.Curves = append(filtered.Curves, obj)
		}
	}

	return filtered
}

// renderObjects draws the extracted objects onto a white canvas sized
// bbox * resolution / 72, translated so bbox's top-left lands at the origin.
func renderObjects(objects Objects, bbox BoundingBox, resolution float64) (image.Image, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %.2f", resolution)
	}
	if !bbox.IsValid() {
		return nil, fmt.Errorf("cannot render degenerate page bbox (%.2f, %.2f, %.2f, %.2f)",
			bbox.X0, bbox.Y0, bbox.X1, bbox.Y1)
	}

	scale := resolution / 72.0
	w := int(math.Round(bbox.Width() * scale))
	h := int(math.Round(bbox.Height() * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	px := func(x float64) float64 { return (x - bbox.X0) * scale }
	py := func(y float64) float64 { return (y - bbox.Y0) * scale }

	dc.SetRGB(0.6, 0.6, 0.6)
	for _, r := range objects.Rects {
		dc.SetLineWidth(math.Max(1, r.Width*scale))
		dc.DrawRectangle(px(r.X0), py(r.Y0), (r.X1-r.X0)*scale, (r.Y1-r.Y0)*scale)
		dc.Stroke()
	}

	dc.SetRGB(0, 0, 0)
	for _, l := range objects.Lines {
		dc.SetLineWidth(math.Max(1, l.Width*scale))
		dc.DrawLine(px(l.X0), py(l.Y0), px(l.X1), py(l.Y1))
		dc.Stroke()
	}

	for _, c := range objects.Curves {
		if len(c.Points) < 2 {
			continue
		}
		dc.SetLineWidth(math.Max(1, c.Width*scale))
		dc.MoveTo(px(c.Points[0].X), py(c.Points[0].Y))
		for _, pt := range c.Points[1:] {
			dc.LineTo(px(pt.X), py(pt.Y))
		}
		dc.Stroke()
	}

	for _, c := range objects.Chars {
		// Baseline sits at the character's bottom edge
		dc.DrawString(c.Text, px(c.X0), py(c.Y1))
	}

	return dc.Image(), nil
}
