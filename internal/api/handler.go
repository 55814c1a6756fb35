package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"PropertyAssessor/internal/assessor"
	"PropertyAssessor/internal/calculator"
	"PropertyAssessor/internal/model"
	"PropertyAssessor/internal/store"

	"github.com/gin-gonic/gin"
)

// Assessor is the part of assessor.Service the handlers call.
type Assessor interface {
	Analyze(ctx context.Context, zpid int64, o assessor.Overrides) (*model.Analysis, error)
	AnalyzeInputs(ctx context.Context, in model.InvestmentInputs) (*model.Analysis, error)
	LoadAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	Screen(ctx context.Context, f store.Filter, top int) (*assessor.ScreenReport, error)
	Import(ctx context.Context) (*model.ImportBatch, error)
}

type PropertyHandler struct {
	assessor    Assessor
	listings    store.ListingStore
	assumptions model.Assumptions
}

func NewPropertyHandler(a Assessor, listings store.ListingStore, assumptions model.Assumptions) *PropertyHandler {
	return &PropertyHandler{assessor: a, listings: listings, assumptions: assumptions}
}

func (h *PropertyHandler) RegisterRoutes(router *gin.RouterGroup) {
	properties := router.Group("/api/properties")
	{
		properties.GET("", h.ListProperties)
		properties.GET("/:zpid", h.GetProperty)
		properties.POST("/:zpid/analysis", h.AnalyzeProperty)
	}
	analysis := router.Group("/api/analysis")
	{
		analysis.POST("", h.AnalyzeInputs)
		analysis.GET("/:id", h.GetAnalysis)
	}
	router.GET("/api/screen", h.Screen)
	router.POST("/api/imports", h.Import)
	router.GET("/api/imports/latest", h.LatestImport)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, calculator.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(code, Error(code, err.Error()))
}

func parseZPID(c *gin.Context) (int64, bool) {
	zpid, err := strconv.ParseInt(c.Param("zpid"), 10, 64)
	if err != nil || zpid <= 0 {
		c.JSON(http.StatusBadRequest, Error(http.StatusBadRequest, "invalid zpid"))
		return 0, false
	}
	return zpid, true
}

// filterFromQuery reads the listing filter shared by list and screen.
func filterFromQuery(c *gin.Context) store.Filter {
	f := store.Filter{
		City:     c.Query("city"),
		HomeType: c.Query("home_type"),
		SortBy:   c.Query("sort"),
		Desc:     c.Query("order") == "desc",
	}
	f.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)
	f.MinBedrooms, _ = strconv.ParseFloat(c.Query("min_bedrooms"), 64)
	return f
}

// bindOverrides accepts an empty body as "no overrides".
func bindOverrides(c *gin.Context) (assessor.Overrides, bool) {
	var o assessor.Overrides
	if err := c.ShouldBindJSON(&o); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return o, false
	}
	return o, true
}

// ListProperties returns a page of stored listings.
// Query: page, limit, city, home_type, min_price, max_price, min_bedrooms, sort, order.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	p := ParsePagination(c)
	f := filterFromQuery(c)
	if f.SortBy != "" {
		if _, ok := store.SortColumns[f.SortBy]; !ok {
			c.JSON(http.StatusBadRequest, Error(http.StatusBadRequest, "unknown sort column "+strconv.Quote(f.SortBy)))
			return
		}
	}

	total, err := h.listings.Count(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	f.Limit, f.Offset = p.Limit, p.Offset
	listings, err := h.listings.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	c.JSON(http.StatusOK, SuccessWithPagination(http.StatusOK, listings, p, total))
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	zpid, ok := parseZPID(c)
	if !ok {
		return
	}
	l, err := h.listings.Get(c.Request.Context(), zpid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Success(http.StatusOK, l))
}

// AnalyzeProperty runs the calculator for a stored listing. The optional body holds overrides.
func (h *PropertyHandler) AnalyzeProperty(c *gin.Context) {
	zpid, ok := parseZPID(c)
	if !ok {
		return
	}
	o, ok := bindOverrides(c)
	if !ok {
		return
	}
	a, err := h.assessor.Analyze(c.Request.Context(), zpid, o)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Success(http.StatusOK, newAnalysisResponse(a)))
}

// AnalyzeInputs runs the calculator for a property that is not in the store.
// Omitted fields take the configured assumptions and fallback price.
func (h *PropertyHandler) AnalyzeInputs(c *gin.Context) {
	o, ok := bindOverrides(c)
	if !ok {
		return
	}
	in := assessor.ResolveInputs(&model.Listing{}, h.assumptions, o)
	a, err := h.assessor.AnalyzeInputs(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Success(http.StatusOK, newAnalysisResponse(a)))
}

func (h *PropertyHandler) GetAnalysis(c *gin.Context) {
	a, err := h.assessor.LoadAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Success(http.StatusOK, newAnalysisResponse(a)))
}

// Screen ranks listings passing both rules of thumb. Query: top plus the list filters.
func (h *PropertyHandler) Screen(c *gin.Context) {
	top, _ := strconv.Atoi(c.DefaultQuery("top", "10"))
	report, err := h.assessor.Screen(c.Request.Context(), filterFromQuery(c), top)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Success(http.StatusOK, report))
}

func (h *PropertyHandler) Import(c *gin.Context) {
	batch, err := h.assessor.Import(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, Success(http.StatusCreated, batch))
}

func (h *PropertyHandler) LatestImport(c *gin.Context) {
	batch, err := h.listings.LatestImport(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Success(http.StatusOK, batch))
}
