// Package tablevis turns detected tables into paired debug artifacts: one
// annotated raster image and one aligned text file per table. It drives the
// display package against the pdf collaborators and recovers locally from
// per-cell and per-table failures, so one bad cell never drops a row and one
// bad table never stops a page.
package tablevis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/RyanCPeters/pdfplumber/pkg/display"
	"github.com/RyanCPeters/pdfplumber/pkg/pdf"
)

// Defaults match the tolerances and resolution that produce readable debug
// output for typical scanned tables.
const (
	DefaultResolution = 200.0
	DefaultTolerance  = 10.0
)

// Config configures a Pipeline
type Config struct {
	// OutputDir receives one PNG and one text file per table
	OutputDir string

	// Resolution for rendering cropped table images, pixels per inch
	Resolution float64

	// XTolerance and YTolerance control how near characters are merged
	// into one text run during cell extraction
	XTolerance float64
	YTolerance float64

	// Handler selects the image backend: a registry key, a
	// display.HandlerFactory, or nil for the default
	Handler interface{}

	// FinderOverlay additionally emits one whole-page image per page with
	// the table finder's ruling edges and grid intersections drawn over the
	// detected tables
	FinderOverlay bool

	// Logger receives per-cell and per-table failure reports; defaults to
	// log.Default()
	Logger *log.Logger
}

// Artifact describes the output emitted for one table
type Artifact struct {
	Name      string
	ImagePath string
	TextPath  string
	Rows      [][]string
}

// Pipeline emits visualization artifacts for the tables found on a page
type Pipeline struct {
	cfg    Config
	logger *log.Logger
}

// New creates a Pipeline, applying defaults for unset config fields
func New(cfg Config) *Pipeline {
	if cfg.Resolution <= 0 {
		cfg.Resolution = DefaultResolution
	}
	if cfg.XTolerance <= 0 {
		cfg.XTolerance = DefaultTolerance
	}
	if cfg.YTolerance <= 0 {
		cfg.YTolerance = DefaultTolerance
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// ProcessPage runs the pipeline over every table detected on the page.
// Malformed or failing tables are logged and skipped; the returned slice
// holds the artifacts that were emitted.
func (p *Pipeline) ProcessPage(page pdf.Page, pageIdx int) ([]Artifact, error) {
	if page == nil {
		return nil, fmt.Errorf("nil page")
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var artifacts []Artifact
	for tableIdx, table := range page.FindTables() {
		artifact, err := p.processTable(page, table, pageIdx, tableIdx)
		if err != nil {
			p.logger.Warn("skipping table",
				"page", pageIdx, "table", tableIdx, "err", err)
			continue
		}
		artifacts = append(artifacts, artifact)
	}

	if p.cfg.FinderOverlay {
		if path, err := p.renderFinderOverlay(page, pageIdx); err != nil {
			p.logger.Warn("finder overlay failed", "page", pageIdx, "err", err)
		} else if path != "" {
			p.logger.Debug("emitted finder overlay", "page", pageIdx, "path", path)
		}
	}

	return artifacts, nil
}

// renderFinderOverlay draws the finder's detection evidence over the whole
// page. Pages without any ruling geometry emit nothing.
func (p *Pipeline) renderFinderOverlay(page pdf.Page, pageIdx int) (string, error) {
	finder := pdf.AnalyzeTables(page.GetObjects())
	if len(finder.Edges) == 0 {
		return "", nil
	}

	pi, err := display.NewPageImage(page, nil, p.cfg.Resolution, p.cfg.Handler)
	if err != nil {
		return "", err
	}
	if err := pi.DebugTableFinder(finder); err != nil {
		return "", err
	}

	path := filepath.Join(p.cfg.OutputDir, fmt.Sprintf("page_%d_finder.png", pageIdx))
	return path, pi.Save(path, "", nil)
}

// processTable emits one image and one text artifact for a single table
func (p *Pipeline) processTable(page pdf.Page, table pdf.Table, pageIdx, tableIdx int) (Artifact, error) {
	if len(table.Rows) == 0 {
		return Artifact{}, fmt.Errorf("table has no rows")
	}

	bounds, err := ColumnBounds(table.Rows[0])
	if err != nil {
		return Artifact{}, err
	}
	columns := len(bounds) - 1

	// Header text names the artifact
	header := make([]string, 0, columns)
	for i := 0; i < columns; i++ {
		cell := pdf.BoundingBox{
			X0: bounds[i],
			Y0: table.Rows[0].BBox.Y0,
			X1: bounds[i+1],
			Y1: table.Rows[0].BBox.Y1,
		}
		text, err := page.ExtractTextIn(cell, p.cfg.XTolerance, p.cfg.YTolerance)
		if err != nil {
			p.logger.Warn("header cell extraction failed",
				"page", pageIdx, "table", tableIdx, "column", i, "err", err)
			text = ""
		}
		header = append(header, text)
	}

	name := SanitizeName(fmt.Sprintf("%s_%d_%d", strings.Join(header, "_"), pageIdx, tableIdx))

	rows := [][]string{header}
	for _, row := range table.Rows[1:] {
		cells := make([]string, 0, columns)
		for i := 0; i < columns; i++ {
			bbox := pdf.BoundingBox{
				X0: bounds[i],
				Y0: row.BBox.Y0,
				X1: bounds[i+1],
				Y1: row.BBox.Y1,
			}
			text, err := page.ExtractTextIn(bbox, p.cfg.XTolerance, p.cfg.YTolerance)
			if err != nil {
				// One bad cell leaves an empty entry; the row is still
				// emitted with its full column count
				p.logger.Warn("cell extraction failed",
					"page", pageIdx, "table", tableIdx,
					"bbox", bbox, "err", err)
				text = ""
			}
			cells = append(cells, text)
		}
		rows = append(rows, cells)
	}

	imagePath := filepath.Join(p.cfg.OutputDir, name+".png")
	if err := p.renderTable(page, table, imagePath); err != nil {
		return Artifact{}, fmt.Errorf("failed to render table image: %w", err)
	}

	textPath := filepath.Join(p.cfg.OutputDir, name+".txt")
	if err := writeRows(textPath, rows); err != nil {
		return Artifact{}, fmt.Errorf("failed to write table text: %w", err)
	}

	return Artifact{
		Name:      name,
		ImagePath: imagePath,
		TextPath:  textPath,
		Rows:      rows,
	}, nil
}

// renderTable crops a page image to the table, outlines its cells, and
// saves the annotated raster.
func (p *Pipeline) renderTable(page pdf.Page, table pdf.Table, path string) error {
	pi, err := display.NewPageImage(page, nil, p.cfg.Resolution, p.cfg.Handler)
	if err != nil {
		return err
	}
	if err := pi.CropTo(table.BBox); err != nil {
		return err
	}
	if err := pi.DebugTable(table); err != nil {
		return err
	}
	return pi.Save(path, "", nil)
}

// ColumnBounds derives the N+1 column boundary values from the header row:
// the left edge of each cell plus the right edge of the last. A header with
// an absent cell is malformed, since the missing boundary would break column
// alignment for every data row.
func ColumnBounds(header pdf.Row) ([]float64, error) {
	if len(header.Cells) == 0 {
		return nil, fmt.Errorf("header row has no cells")
	}

	bounds := make([]float64, 0, len(header.Cells)+1)
	for i, cell := range header.Cells {
		if cell == nil {
			return nil, fmt.Errorf("header cell %d is absent; column alignment is broken", i)
		}
		bounds = append(bounds, cell.X0)
	}
	bounds = append(bounds, header.Cells[len(header.Cells)-1].X1)

	return bounds, nil
}

// SanitizeName makes a header-derived name safe for filenames: runs of two
// spaces collapse to a hyphen, periods become underscores, and remaining
// spaces become hyphens.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "  ", "-")
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, " ", "-")
	return name
}

// writeRows writes rows as UTF-8 text, one line per row, cells separated by
// tabs. The file handle is released on every exit path.
func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, row := range rows {
		if _, err := fmt.Fprintln(f, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return f.Sync()
}
