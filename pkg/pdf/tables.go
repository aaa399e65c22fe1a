package pdf

import (
	"math"
	"sort"
)

// Tolerance for floating point comparisons when snapping ruling lines
const FloatTolerance = 2.0

// findTables reconstructs tables from the page's ruling geometry
func findTables(objects Objects) []Table {
	return AnalyzeTables(objects).Tables
}

// TableFinder exposes the geometry behind table detection: the detected
// tables plus the consolidated ruling edges and grid intersections they were
// built from. Useful for overlaying the detection evidence on a page image.
type TableFinder struct {
	Tables        []Table
	Edges         []LineObject
	Intersections []Point
}

// AnalyzeTables runs table detection over the page objects and reports the
// full finder geometry. Horizontal and vertical rulings are gathered from
// line objects and rectangle edges, snapped into a grid of row and column
// boundaries, and turned into Table/Row/Cell records. A cell whose top and
// left rulings are missing from the grid is recorded as absent (nil), which
// is how merged cells survive detection without shifting column alignment.
func AnalyzeTables(objects Objects) TableFinder {
	horiz, vert := collectRulings(objects)

	finder := TableFinder{
		Edges: append(edgeLines(horiz, true), edgeLines(vert, false)...),
	}
	if len(horiz) < 2 || len(vert) < 2 {
		return finder
	}

	ys := snapPositions(positionsOf(horiz, func(s segment) float64 { return s.at }))
	xs := snapPositions(positionsOf(vert, func(s segment) float64 { return s.at }))
	if len(ys) < 2 || len(xs) < 2 {
		return finder
	}

	for _, x := range xs {
		for _, y := range ys {
			if spanExists(horiz, y, x, x) && spanExists(vert, x, y, y) {
				finder.Intersections = append(finder.Intersections, Point{X: x, Y: y})
			}
		}
	}

	table := Table{
		BBox: BoundingBox{X0: xs[0], Y0: ys[0], X1: xs[len(xs)-1], Y1: ys[len(ys)-1]},
	}

	for j := 0; j+1 < len(ys); j++ {
		row := Row{
			BBox: BoundingBox{X0: xs[0], Y0: ys[j], X1: xs[len(xs)-1], Y1: ys[j+1]},
		}
		for i := 0; i+1 < len(xs); i++ {
			cell := BoundingBox{X0: xs[i], Y0: ys[j], X1: xs[i+1], Y1: ys[j+1]}
			if cellSupported(cell, horiz, vert) {
				c := cell
				row.Cells = append(row.Cells, &c)
			} else {
				row.Cells = append(row.Cells, nil)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) > 0 {
		finder.Tables = []Table{table}
	}
	return finder
}

// edgeLines converts consolidated ruling segments back into line objects for
// overlay drawing
func edgeLines(segs []segment, horizontal bool) []LineObject {
	lines := make([]LineObject, 0, len(segs))
	for _, s := range segs {
		if horizontal {
			lines = append(lines, LineObject{X0: s.lo, Y0: s.at, X1: s.hi, Y1: s.at, Width: 1})
		} else {
			lines = append(lines, LineObject{X0: s.at, Y0: s.lo, X1: s.at, Y1: s.hi, Width: 1})
		}
	}
	return lines
}

// segment is an axis-aligned ruling: at is the fixed coordinate (y for
// horizontal, x for vertical), lo/hi the span along the other axis.
type segment struct {
	at, lo, hi float64
}

// collectRulings gathers horizontal and vertical rulings from lines and
// rectangle edges, merging collinear overlapping pieces.
func collectRulings(objects Objects) (horiz, vert []segment) {
	for _, l := range DeduplicateLines(objects.Lines) {
		switch {
		case math.Abs(l.Y0-l.Y1) < FloatTolerance:
			horiz = append(horiz, segment{at: (l.Y0 + l.Y1) / 2, lo: min(l.X0, l.X1), hi: max(l.X0, l.X1)})
		case math.Abs(l.X0-l.X1) < FloatTolerance:
			vert = append(vert, segment{at: (l.X0 + l.X1) / 2, lo: min(l.Y0, l.Y1), hi: max(l.Y0, l.Y1)})
		}
	}

	for _, r := range objects.Rects {
		horiz = append(horiz,
			segment{at: r.Y0, lo: r.X0, hi: r.X1},
			segment{at: r.Y1, lo: r.X0, hi: r.X1})
		vert = append(vert,
			segment{at: r.X0, lo: r.Y0, hi: r.Y1},
			segment{at: r.X1, lo: r.Y0, hi: r.Y1})
	}

	return consolidateSegments(horiz), consolidateSegments(vert)
}

// consolidateSegments merges collinear segments that overlap or nearly touch
func consolidateSegments(segs []segment) []segment {
	if len(segs) == 0 {
		return segs
	}

	sort.Slice(segs, func(i, j int) bool {
		if math.Abs(segs[i].at-segs[j].at) > FloatTolerance {
			return segs[i].at < segs[j].at
		}
		return segs[i].lo < segs[j].lo
	})

	result := []segment{segs[0]}
	for _, s := range segs[1:] {
		last := &result[len(result)-1]
		if math.Abs(s.at-last.at) < FloatTolerance && s.lo <= last.hi+1 {
			last.hi = math.Max(last.hi, s.hi)
			continue
		}
		result = append(result, s)
	}

	return result
}

func positionsOf(segs []segment, key func(segment) float64) []float64 {
	out := make([]float64, 0, len(segs))
	for _, s := range segs {
		out = append(out, key(s))
	}
	return out
}

// snapPositions sorts positions and collapses values closer than the
// tolerance into one boundary
func snapPositions(positions []float64) []float64 {
	if len(positions) == 0 {
		return nil
	}

	sort.Float64s(positions)

	result := []float64{positions[0]}
	for _, p := range positions[1:] {
		if p-result[len(result)-1] > FloatTolerance {
			result = append(result, p)
		}
	}

	return result
}

// cellSupported reports whether the grid actually contains the cell's top
// and left rulings. Cells inside a merged region lack them.
func cellSupported(cell BoundingBox, horiz, vert []segment) bool {
	return spanExists(horiz, cell.Y0, cell.X0, cell.X1) &&
		spanExists(vert, cell.X0, cell.Y0, cell.Y1)
}

// spanExists reports whether some segment sits at the given coordinate and
// covers [lo, hi]
func spanExists(segs []segment, at, lo, hi float64) bool {
	for _, s := range segs {
		if math.Abs(s.at-at) < FloatTolerance && s.lo <= lo+FloatTolerance && s.hi >= hi-FloatTolerance {
			return true
		}
	}
	return false
}

// DeduplicateLines removes duplicate lines based on coordinates
func DeduplicateLines(lines []LineObject) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	sorted := make([]LineObject, len(lines))
	copy(sorted, lines)

	sort.Slice(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y0-sorted[j].Y0) > FloatTolerance {
			return sorted[i].Y0 < sorted[j].Y0
		}
		if math.Abs(sorted[i].X0-sorted[j].X0) > FloatTolerance {
			return sorted[i].X0 < sorted[j].X0
		}
		if math.Abs(sorted[i].Y1-sorted[j].Y1) > FloatTolerance {
			return sorted[i].Y1 < sorted[j].Y1
		}
		return sorted[i].X1 < sorted[j].X1
	})

	result := []LineObject{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if !linesEqual(result[len(result)-1], sorted[i]) {
			result = append(result, sorted[i])
		}
	}

	return result
}

// linesEqual checks if two lines are essentially the same, in either
// direction
func linesEqual(a, b LineObject) bool {
	sameDirection := math.Abs(a.X0-b.X0) < FloatTolerance &&
		math.Abs(a.Y0-b.Y0) < FloatTolerance &&
		math.Abs(a.X1-b.X1) < FloatTolerance &&
		math.Abs(a.Y1-b.Y1) < FloatTolerance

	reversedDirection := math.Abs(a.X0-b.X1) < FloatTolerance &&
		math.Abs(a.Y0-b.Y1) < FloatTolerance &&
		math.Abs(a.X1-b.X0) < FloatTolerance &&
		math.Abs(a.Y1-b.Y0) < FloatTolerance

	return sameDirection || reversedDirection
}
