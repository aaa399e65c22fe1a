package pdfplumber

import (
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.pdf"); err == nil {
		t.Error("Open on a missing file should fail")
	}
}

func TestOpenWithPasswordMissingFile(t *testing.T) {
	if _, err := OpenWithPassword("testdata/does-not-exist.pdf", "secret"); err == nil {
		t.Error("OpenWithPassword on a missing file should fail")
	}
}

// The facade should be enough to go from pre-extracted objects to an
// annotated image without touching the sub-packages directly.
func TestFacadeDrivesVisualization(t *testing.T) {
	page := NewStaticPage(1, BoundingBox{X1: 120, Y1: 60}, Objects{
		Lines: []LineObject{
			{X0: 10, Y0: 30, X1: 110, Y1: 30, Width: 1},
		},
	})

	pi, err := NewPageImage(page, nil, 144, DefaultHandlerKey)
	if err != nil {
		t.Fatalf("NewPageImage failed: %v", err)
	}

	if err := pi.DrawRect(BoundingBox{X0: 10, Y0: 10, X1: 110, Y1: 50}); err != nil {
		t.Fatalf("DrawRect failed: %v", err)
	}

	w, h, err := pi.Handler().Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if w != 240 || h != 120 {
		t.Errorf("image size = (%d, %d), want (240, 120)", w, h)
	}
}
