package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "CoinScan/internal/domain/models"
	"CoinScan/internal/report"
	"CoinScan/internal/usecase"
	xlogger "CoinScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

type noopMetrics struct{}

func (noopMetrics) RecordScan(scored, skipped int)               {}
func (noopMetrics) RecordSkip(reason string)                     {}
func (noopMetrics) RecordError(kind string)                      {}
func (noopMetrics) RecordLastPrice(symbol string, price float64) {}
func (noopMetrics) RecordTopScore(score float64)                 {}
func (noopMetrics) RecordLatency(op string, seconds float64)     {}

func testHandler(t *testing.T, rep *models.ScanReport) (*echo.Echo, *usecase.ReportProcessor) {
	t.Helper()

	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	renderer, err := report.NewRenderer("Crypto Opportunities")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	proc := usecase.NewReportProcessor(renderer, noopMetrics{}, logger, "")
	if rep != nil {
		if err := proc.Process(context.Background(), rep); err != nil {
			t.Fatalf("process: %v", err)
		}
	}

	e := echo.New()
	NewOpportunitiesEchoHandler(logger, proc, nil, renderer).RegisterRoutes(e)
	return e, proc
}

func testReport() *models.ScanReport {
	results := make([]models.ScoreResult, 0, 15)
	for _, s := range []string{
		"AUSDT", "BUSDT", "CUSDT", "DUSDT", "EUSDT",
		"FUSDT", "GUSDT", "HUSDT", "IUSDT", "JUSDT",
		"KUSDT", "LUSDT", "MUSDT", "NUSDT", "OUSDT",
	} {
		results = append(results, models.ScoreResult{Symbol: s, Score: 55, LastPrice: 1.23})
	}
	return &models.ScanReport{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Interval:    "1h",
		Scanned:     20,
		Skipped:     2,
		Results:     results,
	}
}

func TestDashboardBeforeFirstScan(t *testing.T) {
	e, _ := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Scan in progress") {
		t.Fatalf("expected waiting state before first scan")
	}
}

func TestDashboardWithReport(t *testing.T) {
	e, _ := testHandler(t, testReport())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AUSDT") {
		t.Fatalf("expected ranked symbols in page")
	}
}

func TestOpportunitiesDefaultLimit(t *testing.T) {
	e, _ := testHandler(t, testReport())

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data struct {
			Rows  []models.ScoreResult `json:"rows"`
			Total int64                `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Rows) != 10 {
		t.Fatalf("default limit should cap at 10, got %d", len(body.Data.Rows))
	}
}

func TestOpportunitiesCustomLimit(t *testing.T) {
	e, _ := testHandler(t, testReport())

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?limit=3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body struct {
		Data struct {
			Rows []models.ScoreResult `json:"rows"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(body.Data.Rows))
	}
}

func TestOpportunitiesInvalidLimit(t *testing.T) {
	e, _ := testHandler(t, testReport())

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?limit=500", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("expected bad request status in body, got %d", body.Status)
	}
}

func TestReportEndpoint(t *testing.T) {
	e, _ := testHandler(t, testReport())

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body struct {
		Data models.ScanReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Scanned != 20 || body.Data.Skipped != 2 {
		t.Fatalf("unexpected report counts: %+v", body.Data)
	}
}

func TestReportEndpointBeforeFirstScan(t *testing.T) {
	e, _ := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusNotFound {
		t.Fatalf("expected not found status in body, got %d", body.Status)
	}
}

func TestHealth(t *testing.T) {
	e, _ := testHandler(t, testReport())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Status     string     `json:"status"`
		LastScanAt *time.Time `json:"last_scan_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("unexpected status %q", body.Status)
	}
	if body.LastScanAt == nil {
		t.Fatalf("expected last_scan_at after a scan")
	}
}
