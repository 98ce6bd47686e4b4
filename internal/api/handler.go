package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/pricing"
	"lasercraft-pos/internal/service"
	"lasercraft-pos/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	sales   *service.SalesService
	catalog *service.CatalogService
	reports *service.ReportsService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sales *service.SalesService,
	catalog *service.CatalogService,
	reports *service.ReportsService,
) *Handler {
	return &Handler{
		sales:   sales,
		catalog: catalog,
		reports: reports,
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
		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.addProduct)
		v1.GET("/products/stock", h.stockLevels)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.POST("/checkout", h.checkout)
		v1.GET("/sales", h.listSales)
		v1.POST("/sales/:id/void", h.voidSale)

		v1.GET("/history", h.history)
		v1.GET("/dashboard", h.dashboard)

		v1.POST("/pricing/estimate", h.pricingEstimate)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// checkoutRequest is the POS cart submission.
type checkoutRequest struct {
	Cart []models.CartLine `json:"cart" binding:"required"`
}

// checkout applies a whole cart atomically
func (h *Handler) checkout(c *gin.Context) {
	actor := c.GetHeader("X-Actor")

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	saleIDs, err := h.sales.Checkout(c.Request.Context(), actor, req.Cart)
	if err != nil {
		switch {
		case models.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		case errors.Is(err, models.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Product not found"})
		case errors.Is(err, models.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Checkout failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "sale_ids": saleIDs})
}

// voidRequest carries the optional void reason.
type voidRequest struct {
	Reason string `json:"reason"`
}

// voidSale reverses one sale
func (h *Handler) voidSale(c *gin.Context) {
	actor := c.GetHeader("X-Actor")

	saleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid sale ID"})
		return
	}

	var req voidRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.sales.Void(c.Request.Context(), actor, saleID, req.Reason); err != nil {
		switch {
		case models.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		case errors.Is(err, models.ErrSaleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Sale not found"})
		case errors.Is(err, models.ErrAlreadyVoided):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Already voided"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Void failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// listProducts returns one page of active products
func (h *Handler) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	products, total, err := h.catalog.ListProducts(c.Request.Context(), page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": products,
		"total": total,
		"page":  page,
	})
}

// addProduct creates a catalog entry
func (h *Handler) addProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	product, err := h.catalog.AddProduct(c.Request.Context(), &req)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to add product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "product": product})
}

// getProduct returns one active product
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid product ID"})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to load product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// updateProduct rewrites a catalog entry
func (h *Handler) updateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid product ID"})
		return
	}

	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "product": product})
}

// deleteProduct soft-deletes a catalog entry
func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid product ID"})
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// stockLevels serves the POS stock snapshot
func (h *Handler) stockLevels(c *gin.Context) {
	levels, err := h.catalog.StockLevels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to load stock levels"})
		return
	}
	c.JSON(http.StatusOK, levels)
}

// listSales returns ledger rows newest first
func (h *Handler) listSales(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sales, err := h.reports.Sales(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to list sales"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// history returns the unified audit + sales feed
func (h *Handler) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.reports.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// dashboard returns revenue and stock aggregates
func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// pricingEstimate computes a cost-plus quote
func (h *Handler) pricingEstimate(c *gin.Context) {
	var in pricing.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pricing.Calculate(in))
}

func (h *Handler) writeCatalogError(c *gin.Context, err error, fallback string) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
	case errors.Is(err, models.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Product name already exists"})
	case errors.Is(err, models.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": fallback})
	}
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
