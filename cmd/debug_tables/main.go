// Command debug_tables renders every detected table in a PDF as paired
// image and text artifacts for visual inspection.
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/RyanCPeters/pdfplumber"
	"github.com/RyanCPeters/pdfplumber/pkg/tablevis"
)

func main() {
	var (
		pdfPath    = flag.String("pdf", "testdata/sample.pdf", "path to the PDF file")
		outDir     = flag.String("out", "demo_output", "output directory for artifacts")
		resolution = flag.Float64("resolution", tablevis.DefaultResolution, "render resolution in pixels per inch")
		xTol       = flag.Float64("x-tolerance", tablevis.DefaultTolerance, "horizontal text merge tolerance")
		yTol       = flag.Float64("y-tolerance", tablevis.DefaultTolerance, "vertical text merge tolerance")
		handler    = flag.String("handler", pdfplumber.DefaultHandlerKey, "registered image handler key")
		finder     = flag.Bool("finder", false, "also emit per-page table finder overlays")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	doc, err := pdfplumber.Open(*pdfPath)
	if err != nil {
		logger.Fatal("failed to open PDF", "path", *pdfPath, "err", err)
	}
	defer doc.Close()

	logger.Info("opened document", "path", *pdfPath, "pages", doc.PageCount())

	pipeline := tablevis.New(tablevis.Config{
		OutputDir:     *outDir,
		Resolution:    *resolution,
		XTolerance:    *xTol,
		YTolerance:    *yTol,
		Handler:       *handler,
		FinderOverlay: *finder,
		Logger:        logger,
	})

	total := 0
	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.GetPage(i)
		if err != nil {
			logger.Warn("failed to get page", "page", i, "err", err)
			continue
		}

		artifacts, err := pipeline.ProcessPage(page, i)
		if err != nil {
			logger.Warn("failed to process page", "page", i, "err", err)
			continue
		}

		for _, a := range artifacts {
			logger.Debug("emitted table artifact",
				"name", a.Name, "rows", len(a.Rows), "image", a.ImagePath)
		}
		total += len(artifacts)
	}

	logger.Info("done", "tables", total, "out", *outDir)
}
