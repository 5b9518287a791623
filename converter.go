package pdfreflow

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ProcessingMetrics contains timing and statistics for a conversion.
type ProcessingMetrics struct {
	TotalTime       time.Duration
	DocumentOpen    time.Duration
	PageExtractions []PageMetrics
	Statistics      DocumentStatistics
}

// PageMetrics contains timing for a single page.
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
}

// DocumentStatistics contains document-level statistics.
type DocumentStatistics struct {
	TotalPages      int
	TotalLinks      int
	MatchedLinks    int
	OrphanLinks     int
	TotalParagraphs int
	TotalCharacters int
}

// Config controls conversion behavior.
type Config struct {
	// LinkTolerance is the margin, in layout units, by which annotation
	// rectangles are expanded when matching overlapping text (default: 10).
	// It compensates for sub-unit discrepancies between text-metric
	// geometry and annotation geometry.
	LinkTolerance float64

	// PageWorkers bounds how many pages are reflowed concurrently
	// (default: 4). Extraction itself is always serial: pdfium instances
	// are not safe for concurrent page access.
	PageWorkers int

	// BestEffort replaces a failed page with an explicit "page
	// unavailable" marker and continues instead of aborting the whole
	// conversion (default: false).
	BestEffort bool

	// EnableMetricsLogging enables processing time and statistics logging
	// (default: false).
	EnableMetricsLogging bool
}

// DefaultConfig returns the default converter configuration.
func DefaultConfig() Config {
	return Config{
		LinkTolerance: 10.0,
		PageWorkers:   4,
	}
}

// Converter converts PDF documents to markdown using pdfium text extraction.
type Converter struct {
	instance pdfium.Pdfium
	config   Config
}

// NewConverter creates a converter with the default configuration.
func NewConverter(instance pdfium.Pdfium) *Converter {
	return &Converter{
		instance: instance,
		config:   DefaultConfig(),
	}
}

// NewConverterWithConfig creates a converter with a custom configuration.
func NewConverterWithConfig(instance pdfium.Pdfium, config Config) *Converter {
	return &Converter{
		instance: instance,
		config:   config,
	}
}

// ConvertFile converts a PDF file to markdown. The file name is used to
// derive the title line.
func (c *Converter) ConvertFile(filePath string) (string, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return "", openFailed(err)
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	markdown, _, err := c.convertDocument(doc.Document, filepath.Base(filePath))
	return markdown, err
}

// ConvertBytes converts PDF bytes to markdown. sourceName is the original
// file name, used only to derive the title line.
func (c *Converter) ConvertBytes(pdfBytes []byte, sourceName string) (string, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return "", openFailed(err)
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	markdown, _, err := c.convertDocument(doc.Document, sourceName)
	return markdown, err
}

// ConvertReader converts a PDF from an io.ReadSeeker to markdown.
func (c *Converter) ConvertReader(reader io.ReadSeeker, sourceName string) (string, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FileReader: reader,
	})
	if err != nil {
		return "", openFailed(err)
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	markdown, _, err := c.convertDocument(doc.Document, sourceName)
	return markdown, err
}

// ConvertFileWithMetrics converts a PDF and returns both markdown and
// processing metrics.
func (c *Converter) ConvertFileWithMetrics(filePath string) (string, ProcessingMetrics, error) {
	openStart := time.Now()

	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return "", ProcessingMetrics{}, openFailed(err)
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	documentOpenTime := time.Since(openStart)

	markdown, metrics, err := c.convertDocument(doc.Document, filepath.Base(filePath))
	metrics.DocumentOpen = documentOpenTime
	return markdown, metrics, err
}

// GetDocumentInfo returns basic information about a PDF without converting it.
func (c *Converter) GetDocumentInfo(filePath string) (*DocumentInfo, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, openFailed(err)
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, openFailed(err)
	}

	return &DocumentInfo{
		PageCount: pageCount.PageCount,
	}, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
}

// convertDocument runs the full pipeline: serial page extraction, then
// page-parallel reflow, then the ordered markdown join. All pages must have
// finished reflowing before assembly begins; partial results are never
// assembled into a degraded document.
func (c *Converter) convertDocument(docRef references.FPDF_DOCUMENT, sourceName string) (string, ProcessingMetrics, error) {
	startTime := time.Now()

	pageCount, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return "", ProcessingMetrics{}, openFailed(err)
	}

	contents := make([]PageContent, pageCount.PageCount)
	failed := make([]bool, pageCount.PageCount)
	pageMetrics := make([]PageMetrics, 0, pageCount.PageCount)

	for i := 0; i < pageCount.PageCount; i++ {
		pageStart := time.Now()
		content, err := extractPageContent(c.instance, docRef, i)
		if err != nil {
			if !c.config.BestEffort {
				return "", ProcessingMetrics{}, &ConversionError{
					Stage: StageExtract,
					Page:  i + 1,
					Err:   errors.WithMessage(ErrExtractionFailed, err.Error()),
				}
			}
			failed[i] = true
			content = PageContent{Index: i}
		}
		contents[i] = content

		pageMetrics = append(pageMetrics, PageMetrics{
			PageNumber: i + 1,
			Duration:   time.Since(pageStart),
		})

		if c.config.EnableMetricsLogging {
			log.Printf("Page %d/%d extracted in %v", i+1, pageCount.PageCount, time.Since(pageStart))
		}
	}

	pages, stats, err := c.reflowPages(contents, failed)
	if err != nil {
		return "", ProcessingMetrics{}, err
	}

	doc := Document{
		Title:      deriveTitle(sourceName),
		SourceName: sourceName,
		Pages:      pages,
	}

	markdown, err := assembleDocument(doc)
	if err != nil {
		return "", ProcessingMetrics{}, err
	}

	metrics := ProcessingMetrics{
		TotalTime:       time.Since(startTime),
		PageExtractions: pageMetrics,
		Statistics:      calculateDocumentStatistics(pages, stats),
	}

	if c.config.EnableMetricsLogging {
		logProcessingMetrics(metrics)
	}

	return markdown, metrics, nil
}

// reflowPages runs reconstruction, link matching and normalization for every
// page. Each page's transforms depend only on that page's data, so pages fan
// out over independent workers with no shared mutable state and join by
// index. A page failure aborts the whole conversion unless best-effort mode
// is on, in which case the page becomes an explicit unavailable marker.
func (c *Converter) reflowPages(contents []PageContent, failed []bool) ([]PageText, []linkStats, error) {
	pages := make([]PageText, len(contents))
	stats := make([]linkStats, len(contents))

	workers := c.config.PageWorkers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range contents {
		g.Go(func() error {
			if failed[i] {
				pages[i] = unavailablePage(i)
				return nil
			}

			content := contents[i]
			raw := reconstructPage(content.Runs)
			linked, pageStats := matchLinks(raw, content.Runs, content.Links, c.config.LinkTolerance)
			stats[i] = pageStats

			normalized, err := normalizeText(linked)
			if err != nil {
				if c.config.BestEffort {
					pages[i] = unavailablePage(i)
					return nil
				}
				return &ConversionError{Stage: StageNormalize, Page: i + 1, Err: err}
			}

			pages[i] = PageText{Index: i, Text: normalized}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return pages, stats, nil
}

// unavailablePage is the explicit best-effort replacement for a failed page.
func unavailablePage(index int) PageText {
	return PageText{
		Index: index,
		Text:  fmt.Sprintf("*Page %d unavailable*", index+1),
	}
}

// openFailed maps a pdfium open/enumerate failure onto the extraction error
// taxonomy, preserving the underlying cause.
func openFailed(cause error) error {
	return &ConversionError{
		Stage: StageExtract,
		Err:   errors.WithMessage(ErrExtractionFailed, cause.Error()),
	}
}

// calculateDocumentStatistics aggregates per-page reflow results.
func calculateDocumentStatistics(pages []PageText, stats []linkStats) DocumentStatistics {
	result := DocumentStatistics{
		TotalPages: len(pages),
	}

	for _, s := range stats {
		result.MatchedLinks += s.Matched
		result.OrphanLinks += s.Orphaned
	}
	result.TotalLinks = result.MatchedLinks + result.OrphanLinks

	for _, page := range pages {
		result.TotalParagraphs += len(splitParagraphs(page.Text))
		result.TotalCharacters += len(page.Text)
	}

	return result
}

// logProcessingMetrics logs the processing metrics in a readable format.
func logProcessingMetrics(metrics ProcessingMetrics) {
	log.Println("┌─────────────────────────────────────────────┐")
	log.Println("│ Reflow Metrics                              │")
	log.Println("├─────────────────────────────────────────────┤")
	log.Printf("│ Total Time: %-31v │\n", metrics.TotalTime.Round(time.Millisecond))
	log.Printf("│   Pages:       %-28d │\n", metrics.Statistics.TotalPages)
	log.Printf("│   Paragraphs:  %-28d │\n", metrics.Statistics.TotalParagraphs)
	log.Printf("│   Links:       %-28d │\n", metrics.Statistics.TotalLinks)
	log.Printf("│   Matched:     %-28d │\n", metrics.Statistics.MatchedLinks)
	log.Printf("│   Orphaned:    %-28d │\n", metrics.Statistics.OrphanLinks)
	log.Printf("│   Characters:  %-28d │\n", metrics.Statistics.TotalCharacters)

	if len(metrics.PageExtractions) > 0 {
		avgTime := metrics.TotalTime / time.Duration(len(metrics.PageExtractions))
		log.Println("├─────────────────────────────────────────────┤")
		log.Printf("│ Avg per page: %-29v │\n", avgTime.Round(time.Millisecond))
	}

	log.Println("└─────────────────────────────────────────────┘")
}
