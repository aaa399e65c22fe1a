// Package pdfplumber provides PDF page visualization and annotation with a
// pluggable raster backend, plus the PDF parsing collaborators needed to
// drive it end to end.
package pdfplumber

import (
	"github.com/RyanCPeters/pdfplumber/pkg/display"
	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// Re-export types from pdf package for public API
type (
	Document    = pdf.Document
	Page        = pdf.Page
	BoundingBox = pdf.BoundingBox
	Point       = pdf.Point
	Objects     = pdf.Objects
	CharObject  = pdf.CharObject
	LineObject  = pdf.LineObject
	RectObject  = pdf.RectObject
	CurveObject = pdf.CurveObject
	Word        = pdf.Word
	Table       = pdf.Table
	Row         = pdf.Row
)

// Re-export the visualization core
type (
	ImageHandler   = display.ImageHandler
	HandlerFactory = display.HandlerFactory
	PageImage      = display.PageImage
	PageSource     = display.PageSource
)

// Re-export handler registry and orchestrator entry points
var (
	RegisterHandler = display.RegisterHandler
	ResolveHandler  = display.ResolveHandler
	NewPageImage    = display.NewPageImage
	NewStaticPage   = pdf.NewStaticPage
)

// DefaultHandlerKey is the registry key of the built-in handler
const DefaultHandlerKey = display.DefaultHandlerKey

// Open opens a PDF file and returns a Document. The ledongthuc backend is
// tried first since it extracts positioned text; pdfcpu is the structural
// fallback.
func Open(filepath string) (pdf.Document, error) {
	doc, err := pdf.OpenWithLedongthuc(filepath)
	if err == nil {
		return doc, nil
	}

	return pdf.Open(filepath)
}

// OpenWithPassword opens a password-protected PDF file
func OpenWithPassword(filepath string, password string) (pdf.Document, error) {
	return pdf.OpenWithPassword(filepath, password)
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library,
// which provides positioned character extraction
func OpenWithLedongthuc(filepath string) (pdf.Document, error) {
	return pdf.OpenWithLedongthuc(filepath)
}
