package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUDocument implements the Document interface using pdfcpu. It is the
// structural backend: page count, dimensions, encrypted documents, and the
// vector graphics parsed from each page's content streams. Pages carry no
// positioned characters, since text decoding needs the font machinery the
// ledongthuc backend brings; that backend is preferred when text matters.
type PDFCPUDocument struct {
	ctx      *model.Context
	filepath string
	pages    []Page
}

// Open opens a PDF file and returns a Document
func Open(filepath string) (Document, error) {
	return OpenWithPassword(filepath, "")
}

// OpenWithPassword opens a password-protected PDF file
func OpenWithPassword(filepath string, password string) (Document, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	doc := &PDFCPUDocument{
		ctx:      ctx,
		filepath: filepath,
	}

	if err := doc.initializePages(); err != nil {
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return doc, nil
}

// initializePages initializes all pages in the document
func (d *PDFCPUDocument) initializePages() error {
	pageDims, err := d.ctx.PageDims()
	if err != nil {
		return fmt.Errorf("failed to get page dimensions: %w", err)
	}

	d.pages = make([]Page, d.ctx.PageCount)
	for i := 0; i < d.ctx.PageCount; i++ {
		dim := pageDims[i]
		page := &basePage{
			pageNumber: i + 1,
			width:      dim.Width,
			height:     dim.Height,
			bbox: BoundingBox{
				X0: 0,
				Y0: 0,
				X1: dim.Width,
				Y1: dim.Height,
			},
		}

		if content := d.pageContent(i + 1); len(content) > 0 {
			graphics := ParseContentGraphics(content, dim.Height)
			page.objects.Lines = graphics.Lines
			page.objects.Rects = graphics.Rects
			page.objects.Curves = graphics.Curves
		}

		d.pages[i] = page
	}

	return nil
}

// pageContent collects the decoded content streams for a page. A page whose
// content cannot be resolved carries no vector graphics rather than failing
// the whole document.
func (d *PDFCPUDocument) pageContent(pageNumber int) []byte {
	pageDict, _, _, err := d.ctx.PageDict(pageNumber, false)
	if err != nil || pageDict == nil {
		return nil
	}

	var content []byte
	switch contents := pageDict["Contents"].(type) {
	case types.IndirectRef:
		content = d.decodedStream(contents)
	case *types.IndirectRef:
		content = d.decodedStream(*contents)
	case types.Array:
		for _, item := range contents {
			var part []byte
			switch ref := item.(type) {
			case types.IndirectRef:
				part = d.decodedStream(ref)
			case *types.IndirectRef:
				part = d.decodedStream(*ref)
			}
			if len(part) > 0 {
				content = append(content, part...)
				content = append(content, '\n')
			}
		}
	}
	return content
}

// decodedStream dereferences and decodes one content stream
func (d *PDFCPUDocument) decodedStream(ref types.IndirectRef) []byte {
	stream, _, err := d.ctx.DereferenceStreamDict(ref)
	if err != nil || stream == nil {
		return nil
	}
	if len(stream.Content) == 0 {
		if err := stream.Decode(); err != nil {
			return nil
		}
	}
	return stream.Content
}

// GetPages returns all pages in the document
func (d *PDFCPUDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *PDFCPUDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *PDFCPUDocument) PageCount() int {
	return len(d.pages)
}

// Close releases resources associated with the document
func (d *PDFCPUDocument) Close() error {
	d.ctx = nil
	d.pages = nil
	return nil
}
