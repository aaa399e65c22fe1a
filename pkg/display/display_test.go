package display

import (
	"testing"

	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

func TestToPixelBox(t *testing.T) {
	testCases := []struct {
		name       string
		bbox       pdf.BoundingBox
		resolution float64
		expected   PixelBox
	}{
		{
			name:       "identity at 72 dpi",
			bbox:       pdf.BoundingBox{X0: 10, Y0: 20, X1: 110, Y1: 220},
			resolution: 72,
			expected:   PixelBox{Left: 10, Top: 20, Right: 110, Bottom: 220},
		},
		{
			name:       "doubled at 144 dpi",
			bbox:       pdf.BoundingBox{X0: 10, Y0: 20, X1: 110, Y1: 220},
			resolution: 144,
			expected:   PixelBox{Left: 20, Top: 40, Right: 220, Bottom: 440},
		},
		{
			name:       "fractional coordinates round to nearest",
			bbox:       pdf.BoundingBox{X0: 10.4, Y0: 10.5, X1: 20.4, Y1: 20.6},
			resolution: 72,
			expected:   PixelBox{Left: 10, Top: 11, Right: 20, Bottom: 21},
		},
		{
			name:       "200 dpi scale",
			bbox:       pdf.BoundingBox{X0: 36, Y0: 72, X1: 108, Y1: 144},
			resolution: 200,
			expected:   PixelBox{Left: 100, Top: 200, Right: 300, Bottom: 400},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToPixelBox(tc.bbox, tc.resolution)
			if got != tc.expected {
				t.Errorf("ToPixelBox(%v, %v) = %v, want %v",
					tc.bbox, tc.resolution, got, tc.expected)
			}
		})
	}
}

func TestPixelBoxDimensions(t *testing.T) {
	box := PixelBox{Left: 10, Top: 20, Right: 80, Bottom: 150}

	if box.Width() != 70 {
		t.Errorf("Width() = %d, want 70", box.Width())
	}
	if box.Height() != 130 {
		t.Errorf("Height() = %d, want 130", box.Height())
	}
}

func TestGeometryFormsResolveIdentically(t *testing.T) {
	fromPoints := GeometryFromPoints(pdf.Point{X: 5, Y: 10}, pdf.Point{X: 50, Y: 100})
	fromScalars := GeometryFromScalars(5, 10, 50, 100)

	if fromPoints != fromScalars {
		t.Errorf("GeometryFromPoints = %v, GeometryFromScalars = %v; want identical",
			fromPoints, fromScalars)
	}
}
