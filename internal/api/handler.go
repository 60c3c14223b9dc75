package api

import (
	"net/http"
	"strconv"
	"time"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/service"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	requests *service.RequestService
	catalog  *service.CatalogService
	ledger   *service.InventoryLedger
	pageSize int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	requests *service.RequestService,
	catalogSvc *service.CatalogService,
	ledger *service.InventoryLedger,
	pageSize int,
) *Handler {
	return &Handler{
		requests: requests,
		catalog:  catalogSvc,
		ledger:   ledger,
		pageSize: pageSize,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/material-requests", h.createRequest)
		v1.GET("/material-requests/verify/:requestId", h.verifyRequest)
		v1.GET("/materials", h.searchListings)
		v1.GET("/materials/filters/:industrySlug", h.industryFilters)

		admin := v1.Group("", adminAuth())
		{
			admin.GET("/material-requests", h.searchRequests)
			admin.GET("/material-requests/:id", h.getRequest)
			admin.PATCH("/material-requests/:id/status", h.updateRequestStatus)
			admin.POST("/material-requests/:id/notes", h.addRequestNote)
			admin.POST("/materials", h.createListing)
			admin.PATCH("/materials/:id/stock", h.adjustStock)
			admin.DELETE("/industries/:id", h.deleteIndustry)
		}
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().Unix()})
}

// createRequest handles the public buyer request submission
func (h *Handler) createRequest(c *gin.Context) {
	var input service.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	req, err := h.requests.CreateRequest(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"requestId": req.RequestID,
		"request":   req,
	})
}

// verifyRequest handles the public lookup of a request by its human code
func (h *Handler) verifyRequest(c *gin.Context) {
	result, err := h.requests.VerifyRequest(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": result})
}

// getRequest handles the admin full-detail lookup
func (h *Handler) getRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.requests.GetRequestDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": detail})
}

type updateStatusBody struct {
	Status    string `json:"status" binding:"required"`
	AdminNote string `json:"adminNote"`
}

// updateRequestStatus handles a lifecycle transition
func (h *Handler) updateRequestStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	req, err := h.requests.UpdateStatus(c.Request.Context(), id, body.Status, body.AdminNote, adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": req})
}

type noteBody struct {
	Note string `json:"note" binding:"required"`
}

// addRequestNote appends an admin note without changing status
func (h *Handler) addRequestNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	note, err := h.requests.AddNote(c.Request.Context(), id, body.Note, adminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "note": note})
}

// searchRequests handles the admin request search
func (h *Handler) searchRequests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	industryID, _ := strconv.ParseInt(c.Query("industry"), 10, 64)
	listingID, _ := strconv.ParseInt(c.Query("material"), 10, 64)

	params := &service.SearchParams{
		Search:     c.Query("search"),
		IndustryID: industryID,
		ListingID:  listingID,
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   h.pageSize,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			params.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			params.To = t
		}
	}

	result, err := h.requests.SearchRequests(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"requests":   result.Requests,
		"pagination": result.Pagination,
	})
}

// industryFilters serves the derived filter schema of one industry
func (h *Handler) industryFilters(c *gin.Context) {
	filters, err := h.catalog.IndustryFilters(c.Request.Context(), c.Param("industrySlug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filters": filters})
}

// searchListings serves the attribute-filtered catalog browse
func (h *Handler) searchListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	params := &service.ListingSearchParams{
		IndustrySlug: c.Query("industry"),
		FiltersJSON:  c.Query("filters"),
		Search:       c.Query("search"),
		Page:         page,
		PageSize:     h.pageSize,
	}

	result, err := h.catalog.SearchListings(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"listings":   result.Listings,
		"pagination": result.Pagination,
	})
}

// createListing handles admin listing creation
func (h *Handler) createListing(c *gin.Context) {
	var input service.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	listing, err := h.catalog.CreateListing(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "listing": listing})
}

type stockBody struct {
	Operation string `json:"operation" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// adjustStock handles the admin stock override
func (h *Handler) adjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body stockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if body.Operation != store.StockOpAdd && body.Operation != store.StockOpSubtract && body.Operation != store.StockOpSet {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid stock operation"})
		return
	}

	newQty, err := h.ledger.Adjust(c.Request.Context(), id, body.Operation, body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "available_quantity": newQty})
}

// deleteIndustry removes an industry with no listings
func (h *Handler) deleteIndustry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteIndustry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// adminAuth requires an authenticated admin identity on the request. Session
// issuance is external; the identity arrives as a header set by the gateway.
func adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Admin-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Admin identity required",
			})
			return
		}
		c.Set("adminID", id)
		c.Next()
	}
}

func adminID(c *gin.Context) string {
	return c.GetString("adminID")
}

// respondError maps domain errors to the uniform response envelope.
func respondError(c *gin.Context, err error) {
	if stockErr, ok := apperr.AsInsufficientStock(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "Insufficient stock",
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}
	if apperr.IsInvalidTransition(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status", "details": err.Error()})
		return
	}
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if apperr.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
