package pdf

import (
	"testing"
)

func hline(y, x0, x1 float64) LineObject {
	return LineObject{X0: x0, Y0: y, X1: x1, Y1: y, Width: 1}
}

func vline(x, y0, y1 float64) LineObject {
	return LineObject{X0: x, Y0: y0, X1: x, Y1: y1, Width: 1}
}

// gridLines rules a 2x2 grid: rows at y 10-50 and 50-90, columns at
// x 10-100 and 100-190
func gridLines() []LineObject {
	return []LineObject{
		hline(10, 10, 190),
		hline(50, 10, 190),
		hline(90, 10, 190),
		vline(10, 10, 90),
		vline(100, 10, 90),
		vline(190, 10, 90),
	}
}

func TestFindTablesFullGrid(t *testing.T) {
	tables := findTables(Objects{Lines: gridLines()})

	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	table := tables[0]

	want := BoundingBox{X0: 10, Y0: 10, X1: 190, Y1: 90}
	if table.BBox != want {
		t.Errorf("table bbox = %v, want %v", table.BBox, want)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			t.Fatalf("row %d has %d cells, want 2", i, len(row.Cells))
		}
		for j, cell := range row.Cells {
			if cell == nil {
				t.Errorf("row %d cell %d is absent, want present", i, j)
			}
		}
	}

	if table.Rows[0].BBox != (BoundingBox{X0: 10, Y0: 10, X1: 190, Y1: 50}) {
		t.Errorf("row 0 bbox = %v", table.Rows[0].BBox)
	}
	if *table.Rows[1].Cells[1] != (BoundingBox{X0: 100, Y0: 50, X1: 190, Y1: 90}) {
		t.Errorf("row 1 cell 1 = %v", *table.Rows[1].Cells[1])
	}
}

func TestFindTablesMergedCellIsAbsent(t *testing.T) {
	// The middle column ruling stops at the first row boundary, so the
	// lower-right cell has no left ruling and sits inside a merged region
	lines := []LineObject{
		hline(10, 10, 190),
		hline(50, 10, 190),
		hline(90, 10, 190),
		vline(10, 10, 90),
		vline(100, 10, 50),
		vline(190, 10, 90),
	}

	tables := findTables(Objects{Lines: lines})
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	rows := tables[0].Rows
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].Cells[0] == nil || rows[0].Cells[1] == nil {
		t.Error("first row cells should all be present")
	}
	if rows[1].Cells[0] == nil {
		t.Error("row 1 cell 0 should be present")
	}
	if rows[1].Cells[1] != nil {
		t.Error("row 1 cell 1 should be absent in the merged region")
	}
	// Absence keeps the column alignment intact
	if len(rows[1].Cells) != 2 {
		t.Errorf("row 1 has %d cells, want 2", len(rows[1].Cells))
	}
}

func TestFindTablesFromRectEdges(t *testing.T) {
	// Two side-by-side rectangles supply all rulings through their edges
	rects := []RectObject{
		{X0: 10, Y0: 10, X1: 100, Y1: 90},
		{X0: 100, Y0: 10, X1: 190, Y1: 90},
	}

	tables := findTables(Objects{Rects: rects})
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	rows := tables[0].Rows
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0].Cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(rows[0].Cells))
	}
	for j, cell := range rows[0].Cells {
		if cell == nil {
			t.Errorf("cell %d is absent, want present", j)
		}
	}
}

func TestFindTablesRequiresGrid(t *testing.T) {
	if tables := findTables(Objects{}); tables != nil {
		t.Errorf("empty page produced tables: %v", tables)
	}

	// A single crossing is not a grid
	lines := []LineObject{
		hline(50, 10, 190),
		vline(100, 10, 90),
	}
	if tables := findTables(Objects{Lines: lines}); tables != nil {
		t.Errorf("single crossing produced tables: %v", tables)
	}
}

func TestFindTablesSnapsNearbyRulings(t *testing.T) {
	// Rulings within the float tolerance collapse into one boundary
	lines := append(gridLines(),
		hline(51, 10, 190),
		vline(101, 10, 90),
	)

	tables := findTables(Objects{Lines: lines})
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if len(tables[0].Rows) != 2 {
		t.Errorf("got %d rows, want 2 after snapping", len(tables[0].Rows))
	}
	if len(tables[0].Rows[0].Cells) != 2 {
		t.Errorf("got %d cells, want 2 after snapping", len(tables[0].Rows[0].Cells))
	}
}

func TestAnalyzeTablesReportsDetectionEvidence(t *testing.T) {
	finder := AnalyzeTables(Objects{Lines: gridLines()})

	if len(finder.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(finder.Tables))
	}
	// 3 horizontal + 3 vertical consolidated rulings
	if len(finder.Edges) != 6 {
		t.Errorf("got %d edges, want 6", len(finder.Edges))
	}
	// Full grid: every row boundary crosses every column boundary
	if len(finder.Intersections) != 9 {
		t.Errorf("got %d intersections, want 9", len(finder.Intersections))
	}

	for _, pt := range finder.Intersections {
		if !finder.Tables[0].BBox.Contains(pt.X, pt.Y) {
			t.Errorf("intersection %v outside table bbox %v", pt, finder.Tables[0].BBox)
		}
	}
}

func TestAnalyzeTablesSparseGeometry(t *testing.T) {
	// A single ruling yields evidence but no table
	finder := AnalyzeTables(Objects{Lines: []LineObject{hline(50, 10, 190)}})

	if len(finder.Tables) != 0 {
		t.Errorf("got %d tables, want 0", len(finder.Tables))
	}
	if len(finder.Edges) != 1 {
		t.Errorf("got %d edges, want 1", len(finder.Edges))
	}
	if len(finder.Intersections) != 0 {
		t.Errorf("got %d intersections, want 0", len(finder.Intersections))
	}
}

func TestDeduplicateLines(t *testing.T) {
	lines := []LineObject{
		hline(10, 10, 190),
		hline(10, 10, 190),
		{X0: 190, Y0: 10, X1: 10, Y1: 10, Width: 1}, // same line, reversed
		vline(10, 10, 90),
	}

	got := DeduplicateLines(lines)
	if len(got) != 2 {
		t.Errorf("got %d lines after dedup, want 2", len(got))
	}
}

func TestDeduplicateLinesEmpty(t *testing.T) {
	if got := DeduplicateLines(nil); len(got) != 0 {
		t.Errorf("DeduplicateLines(nil) = %v, want empty", got)
	}
}
