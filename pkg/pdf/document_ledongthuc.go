package pdf

import (
	"fmt"
	"io"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucDocument implements the Document interface using the
// ledongthuc/pdf library. It extracts positioned characters, which makes it
// the preferred backend for text, word and table operations.
type LedongthucDocument struct {
	file     io.Closer
	reader   *lpdf.Reader
	filepath string
	pages    []Page
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (Document, error) {
	f, r, err := lpdf.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	doc := &LedongthucDocument{
		file:     f,
		reader:   r,
		filepath: filepath,
	}

	if err := doc.initializePages(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return doc, nil
}

// initializePages initializes all pages in the document
func (d *LedongthucDocument) initializePages() error {
	pageCount := d.reader.NumPage()
	d.pages = make([]Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := newLedongthucPage(d.reader, i)
		if err != nil {
			return fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}

	return nil
}

// GetPages returns all pages in the document
func (d *LedongthucDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *LedongthucDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	return len(d.pages)
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// newLedongthucPage builds a page with positioned characters from the
// library's text extraction and vector graphics parsed out of the raw
// content stream.
func newLedongthucPage(reader *lpdf.Reader, pageNumber int) (Page, error) {
	if pageNumber < 1 || pageNumber > reader.NumPage() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	page := reader.Page(pageNumber)

	// Get page dimensions from MediaBox, defaulting to US Letter
	width := 612.0
	height := 792.0

	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		// MediaBox is [x0, y0, x1, y1]
		x0 := mediaBox.Index(0).Float64()
		y0 := mediaBox.Index(1).Float64()
		x1 := mediaBox.Index(2).Float64()
		y1 := mediaBox.Index(3).Float64()
		width = x1 - x0
		height = y1 - y0
	}

	p := &basePage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
		bbox: BoundingBox{
			X0: 0,
			Y0: 0,
			X1: width,
			Y1: height,
		},
	}

	p.objects.Chars = extractChars(page.Content(), height)

	if content := contentStreamBytes(page); len(content) > 0 {
		graphics := ParseContentGraphics(content, height)
		p.objects.Lines = graphics.Lines
		p.objects.Rects = graphics.Rects
		p.objects.Curves = graphics.Curves
	}

	return p, nil
}

// contentStreamBytes collects the page's decoded content streams. The
// library panics on unsupported stream filters, so the read is fenced off
// from page initialization; a page whose content cannot be decoded simply
// carries no vector graphics.
func contentStreamBytes(page lpdf.Page) (data []byte) {
	defer func() {
		if recover() != nil {
			data = nil
		}
	}()

	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case lpdf.Stream:
		data = readStreamValue(contents)
	case lpdf.Array:
		for i := 0; i < contents.Len(); i++ {
			if v := contents.Index(i); v.Kind() == lpdf.Stream {
				data = append(data, readStreamValue(v)...)
				data = append(data, '\n')
			}
		}
	}
	return data
}

func readStreamValue(v lpdf.Value) []byte {
	r := v.Reader()
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	return data
}

// extractChars converts ledongthuc text items into positioned characters.
// PDF coordinates grow upward from the bottom-left corner; ours grow
// downward from the top-left, so Y is flipped against the page height.
func extractChars(content lpdf.Content, pageHeight float64) []CharObject {
	var chars []CharObject

	for _, text := range content.Text {
		fontSize := text.FontSize
		fontHeight := fontSize
		// text.Y is the baseline; the glyph top sits roughly at 80% of the
		// font height above it
		yTopPDF := text.Y + fontHeight*0.8
		top := pageHeight - yTopPDF

		runes := []rune(text.S)
		if len(runes) == 0 {
			continue
		}

		// The item carries one advance width for the whole run; divide it
		// evenly since per-glyph metrics are not exposed
		charWidth := text.W / float64(len(runes))
		x := text.X

		for _, r := range runes {
			if r != ' ' {
				chars = append(chars, CharObject{
					Text:     string(r),
					Font:     text.Font,
					FontSize: fontSize,
					X0:       x,
					Y0:       top,
					X1:       x + charWidth,
					Y1:       top + fontHeight,
					Width:    charWidth,
					Height:   fontHeight,
					Color:    Color{R: 0, G: 0, B: 0, A: 255},
				})
			}
			x += charWidth
		}
	}

	return chars
}
