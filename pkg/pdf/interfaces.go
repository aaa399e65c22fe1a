package pdf

import (
	"image"
)

// Document represents a PDF document with methods similar to pdfplumber.PDF
type Document interface {
	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page in a PDF document. The visualization core in
// pkg/display consumes pages only through this interface: Render is the
// opaque "render page to raster at resolution R" operation, and
// ExtractTextIn is the in-bbox text extraction collaborator.
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width in points
	GetWidth() float64

	// GetHeight returns the page height in points
	GetHeight() float64

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractText extracts all text from the page
	ExtractText() string

	// ExtractTextIn extracts text within bbox, merging characters that are
	// within xTol horizontally and yTol vertically into one run. It fails
	// when bbox is degenerate.
	ExtractTextIn(bbox BoundingBox, xTol, yTol float64) (string, error)

	// ExtractWords extracts individual words from the page
	ExtractWords(xTol, yTol float64) []Word

	// FindTables detects tables on the page from its line and rectangle
	// geometry
	FindTables() []Table

	// Crop returns a new page restricted to the specified bounding box
	Crop(bbox BoundingBox) Page

	// Render rasterizes the page at the given resolution (pixels per inch)
	Render(resolution float64) (image.Image, error)
}
