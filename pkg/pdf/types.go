package pdf

// ObjectType represents the type of PDF object
type ObjectType string

const (
	ObjectTypeChar  ObjectType = "char"
	ObjectTypeLine  ObjectType = "line"
	ObjectTypeRect  ObjectType = "rect"
	ObjectTypeCurve ObjectType = "curve"
)

// BoundingBox represents a rectangular area in document space (points,
// 1/72 inch units), with Y increasing downward from the top of the page.
// Invariant: X0 <= X1 and Y0 <= Y1.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// IsValid reports whether the box is non-degenerate
func (b BoundingBox) IsValid() bool {
	return b.X1 > b.X0 && b.Y1 > b.Y0
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Point represents a 2D point in document space
type Point struct {
	X, Y float64
}

// Color represents an RGBA color
type Color struct {
	R, G, B uint8
	A       uint8
}

// Objects represents a collection of PDF objects extracted from a page
type Objects struct {
	Chars  []CharObject
	Lines  []LineObject
	Rects  []RectObject
	Curves []CurveObject
}

// CharObject represents a character in the PDF
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
	Color    Color
}

// GetType returns the object type
func (c CharObject) GetType() ObjectType {
	return ObjectTypeChar
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// LineObject represents a line in the PDF
type LineObject struct {
	X0          float64
	Y0          float64
	X1          float64
	Y1          float64
	Width       float64
	StrokeColor Color
}

// GetType returns the object type
func (l LineObject) GetType() ObjectType {
	return ObjectTypeLine
}

// GetBBox returns the line's bounding box
func (l LineObject) GetBBox() BoundingBox {
	return BoundingBox{
		X0: min(l.X0, l.X1),
		Y0: min(l.Y0, l.Y1),
		X1: max(l.X0, l.X1),
		Y1: max(l.Y0, l.Y1),
	}
}

// RectObject represents a rectangle in the PDF
type RectObject struct {
	X0          float64
	Y0          float64
	X1          float64
	Y1          float64
	Width       float64
	StrokeColor Color
	FillColor   Color
}

// GetType returns the object type
func (r RectObject) GetType() ObjectType {
	return ObjectTypeRect
}

// GetBBox returns the rectangle's bounding box
func (r RectObject) GetBBox() BoundingBox {
	return BoundingBox{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
}

// CurveObject represents a curve in the PDF
type CurveObject struct {
	Points      []Point
	StrokeColor Color
	Width       float64
}

// GetType returns the object type
func (c CurveObject) GetType() ObjectType {
	return ObjectTypeCurve
}

// GetBBox returns the curve's bounding box
func (c CurveObject) GetBBox() BoundingBox {
	if len(c.Points) == 0 {
		return BoundingBox{}
	}

	minX, minY := c.Points[0].X, c.Points[0].Y
	maxX, maxY := minX, minY

	for _, p := range c.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	return BoundingBox{X0: minX, Y0: minY, X1: maxX, Y1: maxY}
}

// Word represents a word extracted from a page
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Characters []CharObject
}

// GetBBox returns the word's bounding box
func (w Word) GetBBox() BoundingBox {
	return BoundingBox{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1}
}

// Table represents a detected table on a page. Rows are ordered top to
// bottom and every row's Cells slice is aligned to the same column index.
type Table struct {
	BBox BoundingBox
	Rows []Row
}

// Row represents one row of a detected table. A nil entry in Cells marks an
// absent cell (merged or irregular region); absence never shifts the column
// alignment of the remaining cells.
type Row struct {
	BBox  BoundingBox
	Cells []*BoundingBox
}

// Helper functions
func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
