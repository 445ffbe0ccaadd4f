package usecase

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	applogger "CoinScan/pkg/logger"
)

// ReportRenderer turns a scan report into an HTML page.
type ReportRenderer interface {
	Render(report *models.ScanReport) ([]byte, error)
}

// ReportProcessor keeps the latest scan report and its rendered HTML, and
// optionally mirrors the page to a static file for external serving.
type ReportProcessor struct {
	renderer   ReportRenderer
	metrics    domrepo.Metrics
	logger     *applogger.Logger
	outputPath string

	mu     sync.RWMutex
	latest *models.ScanReport
	html   []byte
}

func NewReportProcessor(renderer ReportRenderer, metrics domrepo.Metrics, logger *applogger.Logger, outputPath string) *ReportProcessor {
	return &ReportProcessor{
		renderer:   renderer,
		metrics:    metrics,
		logger:     logger,
		outputPath: outputPath,
	}
}

// Process stores the report and renders the HTML page. A render failure
// keeps the previous page in place.
func (p *ReportProcessor) Process(ctx context.Context, report *models.ScanReport) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}

	start := time.Now()

	html, err := p.renderer.Render(report)
	if err != nil {
		p.metrics.RecordError("render")
		return fmt.Errorf("render report: %w", err)
	}

	p.mu.Lock()
	p.latest = report
	p.html = html
	p.mu.Unlock()

	if p.outputPath != "" {
		if err := os.WriteFile(p.outputPath, html, 0o644); err != nil {
			p.metrics.RecordError("report_write")
			p.logger.Warn("report: static write failed",
				applogger.String("path", p.outputPath),
				applogger.Error(err),
			)
		}
	}

	p.metrics.RecordLatency("render", time.Since(start).Seconds())
	return nil
}

// Latest returns the most recent report, or nil before the first scan.
func (p *ReportProcessor) Latest() *models.ScanReport {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// HTML returns the rendered page for the latest report. ok is false
// before the first successful scan.
func (p *ReportProcessor) HTML() (page []byte, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.html == nil {
		return nil, false
	}
	return p.html, true
}
