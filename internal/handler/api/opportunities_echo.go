package api

import (
	"net/http"
	"time"

	models "CoinScan/internal/domain/models"
	"CoinScan/internal/usecase"
	xhttp "CoinScan/pkg/http"
	xlogger "CoinScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OpportunitiesEchoHandler serves the dashboard page and the JSON API for
// the latest scan report.
type OpportunitiesEchoHandler struct {
	logger    *xlogger.Logger
	proc      *usecase.ReportProcessor
	collector *usecase.PriceCollector // nil when the live stream is disabled
	renderer  usecase.ReportRenderer
	startedAt time.Time
}

func NewOpportunitiesEchoHandler(
	logger *xlogger.Logger,
	proc *usecase.ReportProcessor,
	collector *usecase.PriceCollector,
	renderer usecase.ReportRenderer,
) *OpportunitiesEchoHandler {
	return &OpportunitiesEchoHandler{
		logger:    logger,
		proc:      proc,
		collector: collector,
		renderer:  renderer,
		startedAt: time.Now().UTC(),
	}
}

func (h *OpportunitiesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Dashboard)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/opportunities", h.Opportunities)
	g.GET("/report", h.Report)
}

// Dashboard serves the rendered HTML page. Before the first scan it shows
// the waiting state.
func (h *OpportunitiesEchoHandler) Dashboard(c echo.Context) error {
	page, ok := h.proc.HTML()
	if !ok {
		var err error
		page, err = h.renderer.Render(nil)
		if err != nil {
			h.logger.Error("dashboard render error", xlogger.Error(err))
			return xhttp.InternalServerErrorResponse(c)
		}
	}
	return c.HTMLBlob(http.StatusOK, page)
}

// Opportunities returns the top scored symbols from the latest cycle,
// decorated with streamed live prices when available.
func (h *OpportunitiesEchoHandler) Opportunities(c echo.Context) error {
	req := &models.OpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report := h.proc.Latest()
	if report == nil {
		return xhttp.ListResponse(c, []models.ScoreResult{}, 0)
	}

	results := report.Results
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	if h.collector != nil {
		decorated := make([]models.ScoreResult, len(results))
		copy(decorated, results)
		for i := range decorated {
			if p, ok := h.collector.LastPrice(decorated[i].Symbol); ok {
				decorated[i].LastPrice = p
			}
		}
		results = decorated
	}

	return xhttp.ListResponse(c, results, int64(len(results)))
}

// Report returns the full latest scan report.
func (h *OpportunitiesEchoHandler) Report(c echo.Context) error {
	report := h.proc.Latest()
	if report == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no scan has completed yet"))
	}
	return xhttp.SuccessResponse(c, report)
}

type healthStatus struct {
	Status          string     `json:"status"`
	UptimeSec       int64      `json:"uptime_sec"`
	LastScanAt      *time.Time `json:"last_scan_at,omitempty"`
	StreamConnected *bool      `json:"stream_connected,omitempty"`
}

// Health reports liveness plus the age of the latest report.
func (h *OpportunitiesEchoHandler) Health(c echo.Context) error {
	st := healthStatus{
		Status:    "ok",
		UptimeSec: int64(time.Since(h.startedAt).Seconds()),
	}
	if report := h.proc.Latest(); report != nil {
		t := report.GeneratedAt
		st.LastScanAt = &t
	}
	if h.collector != nil {
		connected := h.collector.IsConnected()
		st.StreamConnected = &connected
	}
	return c.JSON(http.StatusOK, st)
}
