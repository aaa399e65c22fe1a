package display

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// newTestPage builds a 200x100 point page with a few chars and rulings
func newTestPage() pdf.Page {
	return pdf.NewStaticPage(1, pdf.BoundingBox{X1: 200, Y1: 100}, pdf.Objects{
		Chars: []pdf.CharObject{
			{Text: "A", X0: 20, Y0: 20, X1: 28, Y1: 32, Width: 8, Height: 12},
			{Text: "B", X0: 29, Y0: 20, X1: 37, Y1: 32, Width: 8, Height: 12},
		},
		Lines: []pdf.LineObject{
			{X0: 10, Y0: 50, X1: 190, Y1: 50, Width: 1},
		},
	})
}

func TestNewPageImageRendersPage(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 144, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	w, h, err := pi.Handler().Size()
	if err != nil {
		t.Fatalf("Size() failed: %v", err)
	}
	// 200 x 100 points at 144 dpi is 400 x 200 pixels
	if w != 400 || h != 200 {
		t.Errorf("rendered size = (%d, %d), want (400, 200)", w, h)
	}
}

func TestNewPageImageAdoptsSuppliedOriginal(t *testing.T) {
	original := imaging.New(80, 40, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	pi, err := NewPageImage(nil, original, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	w, h, err := pi.Handler().Size()
	if err != nil {
		t.Fatalf("Size() failed: %v", err)
	}
	if w != 80 || h != 40 {
		t.Errorf("size = (%d, %d), want (80, 40)", w, h)
	}
}

func TestNewPageImageRequiresPageOrOriginal(t *testing.T) {
	if _, err := NewPageImage(nil, nil, 72, nil); err == nil {
		t.Error("NewPageImage(nil, nil, ...) should fail")
	}
}

func TestNewPageImageSelectsRegisteredHandler(t *testing.T) {
	RegisterHandler("ALT", newAltHandler)

	pi, err := NewPageImage(newTestPage(), nil, 72, "ALT")
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	if _, ok := pi.Handler().(*altHandler); !ok {
		t.Errorf("handler is %T, want *altHandler", pi.Handler())
	}
}

func TestDrawOutlinesModifyAnnotatedOnly(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	cell := pdf.BoundingBox{X0: 10, Y0: 10, X1: 90, Y1: 40}
	table := pdf.Table{
		BBox: pdf.BoundingBox{X0: 10, Y0: 10, X1: 190, Y1: 90},
		Rows: []pdf.Row{
			{BBox: pdf.BoundingBox{X0: 10, Y0: 10, X1: 190, Y1: 40}, Cells: []*pdf.BoundingBox{&cell}},
		},
	}

	before := imaging.Clone(pi.Original())

	if err := pi.DrawTableOutline(table); err != nil {
		t.Fatalf("DrawTableOutline failed: %v", err)
	}
	if err := pi.DrawRowOutline(table.Rows[0]); err != nil {
		t.Fatalf("DrawRowOutline failed: %v", err)
	}
	if err := pi.DrawCellOutline(cell); err != nil {
		t.Fatalf("DrawCellOutline failed: %v", err)
	}

	if !sameImage(before, pi.Original()) {
		t.Error("drawing modified the original image")
	}
	if sameImage(pi.Original(), pi.Annotated()) {
		t.Error("drawing did not modify the annotated image")
	}
}

func TestResetDiscardsAnnotations(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	if err := pi.DrawVLine(100); err != nil {
		t.Fatalf("DrawVLine failed: %v", err)
	}
	if err := pi.DrawHLine(50); err != nil {
		t.Fatalf("DrawHLine failed: %v", err)
	}
	if sameImage(pi.Original(), pi.Annotated()) {
		t.Fatal("drawing did not modify the annotated image")
	}

	if err := pi.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !sameImage(pi.Original(), pi.Annotated()) {
		t.Error("Reset did not restore annotated to match original")
	}
}

func TestCropTo(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	if err := pi.CropTo(pdf.BoundingBox{X0: 10, Y0: 10, X1: 110, Y1: 60}); err != nil {
		t.Fatalf("CropTo failed: %v", err)
	}

	w, h, err := pi.Handler().Size()
	if err != nil {
		t.Fatalf("Size() failed: %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("cropped size = (%d, %d), want (100, 50)", w, h)
	}

	// Drawing after a crop reprojects against the cropped region
	if err := pi.DrawRect(pdf.BoundingBox{X0: 20, Y0: 20, X1: 60, Y1: 40}); err != nil {
		t.Errorf("DrawRect after crop failed: %v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	cp, err := pi.Copy()
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	if err := cp.DrawCircle(pdf.Point{X: 100, Y: 50}, WithRadius(10)); err != nil {
		t.Fatalf("DrawCircle failed: %v", err)
	}

	if sameImage(cp.Annotated(), pi.Annotated()) {
		t.Error("drawing on the copy modified the source PageImage")
	}
}

func TestOutlineWordsAndChars(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	if err := pi.OutlineWords(3, 3); err != nil {
		t.Fatalf("OutlineWords failed: %v", err)
	}
	if err := pi.OutlineChars(); err != nil {
		t.Fatalf("OutlineChars failed: %v", err)
	}
	if sameImage(pi.Original(), pi.Annotated()) {
		t.Error("outlines did not modify the annotated image")
	}
}

func TestDebugTableSkipsAbsentCells(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	present := pdf.BoundingBox{X0: 10, Y0: 10, X1: 90, Y1: 40}
	table := pdf.Table{
		BBox: pdf.BoundingBox{X0: 10, Y0: 10, X1: 190, Y1: 40},
		Rows: []pdf.Row{
			{
				BBox:  pdf.BoundingBox{X0: 10, Y0: 10, X1: 190, Y1: 40},
				Cells: []*pdf.BoundingBox{&present, nil},
			},
		},
	}

	if err := pi.DebugTable(table); err != nil {
		t.Errorf("DebugTable with absent cell failed: %v", err)
	}
}

func TestDebugTableFinderOverlay(t *testing.T) {
	// Rule a 2x2 grid so the finder has real edges and intersections
	grid := pdf.Objects{
		Lines: []pdf.LineObject{
			{X0: 10, Y0: 10, X1: 190, Y1: 10, Width: 1},
			{X0: 10, Y0: 50, X1: 190, Y1: 50, Width: 1},
			{X0: 10, Y0: 90, X1: 190, Y1: 90, Width: 1},
			{X0: 10, Y0: 10, X1: 10, Y1: 90, Width: 1},
			{X0: 100, Y0: 10, X1: 100, Y1: 90, Width: 1},
			{X0: 190, Y0: 10, X1: 190, Y1: 90, Width: 1},
		},
	}
	page := pdf.NewStaticPage(1, pdf.BoundingBox{X1: 200, Y1: 100}, grid)

	pi, err := NewPageImage(page, nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	finder := pdf.AnalyzeTables(page.GetObjects())
	if len(finder.Edges) == 0 || len(finder.Intersections) == 0 {
		t.Fatalf("finder evidence missing: %d edges, %d intersections",
			len(finder.Edges), len(finder.Intersections))
	}

	if err := pi.DebugTableFinder(finder); err != nil {
		t.Fatalf("DebugTableFinder failed: %v", err)
	}
	if sameImage(pi.Original(), pi.Annotated()) {
		t.Error("overlay did not modify the annotated image")
	}
}

func TestDrawStylingOptions(t *testing.T) {
	pi, err := NewPageImage(newTestPage(), nil, 72, nil)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	err = pi.DrawRect(pdf.BoundingBox{X0: 30, Y0: 30, X1: 80, Y1: 60},
		WithFill(color.NRGBA{G: 255, A: 80}),
		WithStroke(color.NRGBA{B: 255, A: 255}),
		WithStrokeWidth(2),
		WithBackendOptions(Options{"dash": []float64{4, 2}}),
	)
	if err != nil {
		t.Errorf("DrawRect with options failed: %v", err)
	}
}
