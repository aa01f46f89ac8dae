package delivery

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"profitgo/internal/domain"
	"profitgo/internal/infrastructure"
	"profitgo/internal/profit"
	"profitgo/internal/reporting"
	"profitgo/internal/usecase"
	"profitgo/pkg/logger"

	"github.com/gin-gonic/gin"
)

// upload limit for batch CSVs
var maxBatchBodyBytes int64 = 10 << 20

// handles HTTP requests
type HTTPHandlers struct {
	analysisService *usecase.AnalysisService
	historyService  *usecase.HistoryService
	logger          *logger.Logger
	defaultOrders   int
}

// creates new HTTP handlers
func NewHTTPHandlers(
	analysisService *usecase.AnalysisService,
	historyService *usecase.HistoryService,
	logger *logger.Logger,
	defaultOrders int,
) *HTTPHandlers {
	return &HTTPHandlers{
		analysisService: analysisService,
		historyService:  historyService,
		logger:          logger,
		defaultOrders:   defaultOrders,
	}
}

type scenarioRequest struct {
	ModelName      string  `json:"model_name" binding:"max=200"`
	Price          float64 `json:"price" binding:"gte=0"`
	Cost           float64 `json:"cost" binding:"gte=0"`
	OtherCost      float64 `json:"other_cost" binding:"gte=0"`
	ShippingFee    float64 `json:"shipping_fee" binding:"gte=0"`
	CommissionRate float64 `json:"commission_rate" binding:"gte=0,lt=1"`
	SalesVolume    int     `json:"sales_volume" binding:"gte=0"`
	ReturnQuantity int     `json:"return_quantity" binding:"gte=0"`
	DealOrders     int     `json:"deal_orders" binding:"gte=0"`
	NetDealOrders  int     `json:"net_deal_orders" binding:"gte=0"`
	AdUnitPrice    float64 `json:"ad_unit_price" binding:"gte=0"`
	AdEnabled      bool    `json:"ad_enabled"`
	OrderCount     *int    `json:"order_count" binding:"omitempty,gt=0"`
}

func (r scenarioRequest) scenario() domain.ScenarioInput {
	return domain.ScenarioInput{
		ModelName:      r.ModelName,
		Price:          r.Price,
		Cost:           r.Cost,
		OtherCost:      r.OtherCost,
		ShippingFee:    r.ShippingFee,
		CommissionRate: r.CommissionRate,
		SalesVolume:    r.SalesVolume,
		ReturnQuantity: r.ReturnQuantity,
		DealOrders:     r.DealOrders,
		NetDealOrders:  r.NetDealOrders,
		AdUnitPrice:    r.AdUnitPrice,
		AdEnabled:      r.AdEnabled,
	}
}

func (h *HTTPHandlers) orders(requested *int) int {
	if requested != nil {
		return *requested
	}
	return h.defaultOrders
}

type analysisRequest struct {
	scenarioRequest
	Save bool `json:"save"`
}

type sweepRequest struct {
	scenarioRequest
	MinPrice float64 `json:"min_price" binding:"gte=0"`
	MaxPrice float64 `json:"max_price" binding:"gte=0"`
	Step     float64 `json:"step" binding:"gt=0"`
}

// computes a profit report for one scenario
func (h *HTTPHandlers) Analyze(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid analysis request", err)
		return
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), usecase.AnalysisRequest{
		Scenario:  req.scenario(),
		Orders:    h.orders(req.OrderCount),
		Save:      req.Save,
		CreatedBy: createdBy(c),
	})
	if err != nil {
		h.fail(c, "Analysis failed", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// computes reports for a CSV upload, either as the raw body or a "file" form field
func (h *HTTPHandlers) AnalyzeBatch(c *gin.Context) {
	orders := h.defaultOrders
	if raw := c.Query("order_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.badRequest(c, "Invalid order_count", fmt.Errorf("order_count must be a positive integer"))
			return
		}
		orders = n
	}
	save := c.Query("save") == "true"

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchBodyBytes)
	body, err := batchBody(c)
	if err != nil {
		h.badRequest(c, "Invalid batch upload", err)
		return
	}
	defer body.Close()

	rows, err := infrastructure.ReadScenarios(body)
	if err != nil {
		h.badRequest(c, "Invalid batch CSV", err)
		return
	}

	result, err := h.analysisService.AnalyzeBatch(c.Request.Context(), rows, orders, save, createdBy(c))
	if err != nil {
		h.fail(c, "Batch analysis failed", err)
		return
	}

	if c.Query("format") == "csv" {
		reports := make([]domain.ProfitReport, 0, result.Succeeded)
		for _, item := range result.Items {
			if item.Report != nil {
				reports = append(reports, *item.Report)
			}
		}
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(reporting.RenderReportCSV(reports)))
		return
	}

	c.JSON(http.StatusOK, result)
}

func batchBody(c *gin.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		return header.Open()
	}
	return c.Request.Body, nil
}

// evaluates profit across a price range
func (h *HTTPHandlers) Sweep(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid sweep request", err)
		return
	}

	points, err := h.analysisService.Sweep(c.Request.Context(), req.scenario(), h.orders(req.OrderCount), req.MinPrice, req.MaxPrice, req.Step)
	if err != nil {
		h.fail(c, "Sweep failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model_name": req.ModelName,
		"points":     points,
	})
}

func (h *HTTPHandlers) CommissionRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"commission_rates": h.analysisService.CommissionRates(),
		"default_category": profit.DefaultCategory,
	})
}

func (h *HTTPHandlers) AdBids(c *gin.Context) {
	price, err := parseFinite(c.Query("price"))
	if err != nil || price <= 0 {
		h.badRequest(c, "Invalid price", fmt.Errorf("price must be a positive number"))
		return
	}

	c.JSON(http.StatusOK, h.analysisService.SuggestAdBids(c.Query("category"), price))
}

// lists archived analyses, filtered and paginated
func (h *HTTPHandlers) ListHistory(c *gin.Context) {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		h.badRequest(c, "Invalid history query", err)
		return
	}

	response, err := h.historyService.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "Failed to list history", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *HTTPHandlers) HistorySummary(c *gin.Context) {
	summary, err := h.historyService.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to summarize history", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandlers) HistoryTrend(c *gin.Context) {
	trend, err := h.historyService.Trend(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to build profit trend", err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (h *HTTPHandlers) ExportHistoryCSV(c *gin.Context) {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		h.badRequest(c, "Invalid history query", err)
		return
	}

	out, err := h.historyService.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "Failed to export history", err)
		return
	}

	filename := fmt.Sprintf("history_export_%s.csv", domain.NewRecordID(time.Now()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}

// returns one record, as JSON or as a Markdown report
func (h *HTTPHandlers) GetHistory(c *gin.Context) {
	record, err := h.historyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to get history record", err)
		return
	}

	if c.Query("format") == "markdown" {
		trace := profit.Explain(record.Scenario, record.Report)
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(reporting.RenderMarkdown(record.Report, trace)))
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *HTTPHandlers) DeleteHistory(c *gin.Context) {
	id := c.Param("id")
	if err := h.historyService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete history record", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "History record deleted",
		"analysis_id": id,
	})
}

func (h *HTTPHandlers) ClearHistory(c *gin.Context) {
	if err := h.historyService.Clear(c.Request.Context()); err != nil {
		h.fail(c, "Failed to clear history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// pushes one day's archived analyses to the report sink
func (h *HTTPHandlers) ExportRun(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		h.badRequest(c, "Missing required parameter", fmt.Errorf("date parameter is required"))
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		h.badRequest(c, "Invalid date format", fmt.Errorf("date must be in YYYY-MM-DD format"))
		return
	}

	count, err := h.historyService.Export(c.Request.Context(), date)
	if err != nil {
		h.fail(c, "Export failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Export completed successfully",
		"date":       date.Format("2006-01-02"),
		"records":    count,
		"request_id": c.GetString("request_id"),
	})
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_version": "v1",
		"service":     "profit-go",
		"version":     "1.0.0",
		"description": "Marketplace profit calculator with analysis history",
		"endpoints": gin.H{
			"analysis": gin.H{
				"single": "POST /api/v1/analysis",
				"batch":  "POST /api/v1/analysis/batch?order_count=100&save=false&format=json|csv",
				"sweep":  "POST /api/v1/analysis/sweep",
			},
			"platform": gin.H{
				"commission_rates": "GET /api/v1/platform/commission-rates",
				"ad_bids":          "GET /api/v1/platform/ad-bids?category=general&price=99",
			},
			"history": gin.H{
				"list":    "GET /api/v1/history?model_name=&date_from=YYYY-MM-DD&date_to=YYYY-MM-DD&min_profit=&max_profit=&limit=&offset=",
				"summary": "GET /api/v1/history/summary",
				"trend":   "GET /api/v1/history/trend",
				"export":  "GET /api/v1/history/export.csv",
				"get":     "GET /api/v1/history/:id?format=markdown",
				"delete":  "DELETE /api/v1/history/:id",
				"clear":   "DELETE /api/v1/history",
			},
			"export": gin.H{
				"run": "POST /api/v1/export/run?date=YYYY-MM-DD",
			},
		},
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "profit-go",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

// parseHistoryFilter reads the history query parameters. date_to given as a
// plain date covers that whole day.
func parseHistoryFilter(c *gin.Context) (domain.HistoryFilter, error) {
	filter := domain.HistoryFilter{ModelName: strings.TrimSpace(c.Query("model_name"))}

	var err error
	if filter.MinProfit, err = optionalFloat(c, "min_profit"); err != nil {
		return filter, err
	}
	if filter.MaxProfit, err = optionalFloat(c, "max_profit"); err != nil {
		return filter, err
	}

	if raw := c.Query("date_from"); raw != "" {
		from, _, err := parseDate(raw)
		if err != nil {
			return filter, fmt.Errorf("date_from: %w", err)
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, dateOnly, err := parseDate(raw)
		if err != nil {
			return filter, fmt.Errorf("date_to: %w", err)
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.DateTo = &to
	}

	if raw := c.Query("limit"); raw != "" {
		if filter.Limit, err = strconv.Atoi(raw); err != nil || filter.Limit < 0 {
			return filter, fmt.Errorf("limit must be a non-negative integer")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if filter.Offset, err = strconv.Atoi(raw); err != nil || filter.Offset < 0 {
			return filter, fmt.Errorf("offset must be a non-negative integer")
		}
	}

	return filter, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := parseFinite(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a finite number", key)
	}
	return &v, nil
}

// strconv accepts NaN and Inf, which no query parameter may carry
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", raw)
	}
	return v, nil
}

func parseDate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC3339", raw)
}

func createdBy(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "api"
}

func (h *HTTPHandlers) badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      message,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}

// fail maps service errors onto HTTP statuses
func (h *HTTPHandlers) fail(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error(message)
	}

	c.JSON(status, gin.H{
		"error":      message,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, profit.ErrInvalidSweep):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSinkNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
