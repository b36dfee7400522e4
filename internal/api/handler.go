package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	sessions *session.Manager
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{sessions: sessions}
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
		v1.POST("/sessions", h.createSession)
		v1.DELETE("/sessions/:id", h.closeSession)

		v1.GET("/sessions/:id/view", h.getView)
		v1.PUT("/sessions/:id/filters", h.updateFilters)
		v1.DELETE("/sessions/:id/filters", h.clearFilters)
		v1.POST("/sessions/:id/catalog/refresh", h.refreshCatalog)

		v1.GET("/sessions/:id/cart", h.getCart)
		v1.POST("/sessions/:id/cart/items", h.addCartItem)
		v1.PATCH("/sessions/:id/cart/items/:productID", h.updateCartItem)
		v1.DELETE("/sessions/:id/cart/items/:productID", h.removeCartItem)

		v1.GET("/sessions/:id/wishlist", h.getWishlist)
		v1.POST("/sessions/:id/wishlist/:productID", h.toggleWishlist)

		v1.POST("/sessions/:id/checkout", h.checkout)
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

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return sess, true
}

// createSession opens a new storefront session and starts its catalog load.
func (h *Handler) createSession(c *gin.Context) {
	sess := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"session_id": sess.ID})
}

func (h *Handler) closeSession(c *gin.Context) {
	h.sessions.Remove(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// getView returns the derived product grid plus filter and cart metadata.
func (h *Handler) getView(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.View(c.Request.Context()))
}

type updateFiltersRequest struct {
	Category *string `json:"category"`
	Search   *string `json:"search"`
	Sort     *string `json:"sort"`
}

// updateFilters applies the provided filter fields; absent fields are left
// untouched, mirroring independent filter controls.
func (h *Handler) updateFilters(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req updateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Category != nil {
		sess.SetCategory(*req.Category)
	}
	if req.Search != nil {
		sess.SetSearch(*req.Search)
	}
	if req.Sort != nil {
		sess.SetSort(models.SortOption(*req.Sort))
	}

	c.JSON(http.StatusOK, gin.H{"state": sess.ViewState()})
}

// clearFilters resets search and category; sort is kept.
func (h *Handler) clearFilters(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.ClearFilters()
	c.JSON(http.StatusOK, gin.H{"state": sess.ViewState()})
}

// refreshCatalog re-issues the catalog fetch; bound to the error banner's
// retry button. The fetch runs in the background and the view reports
// loading until it resolves.
func (h *Handler) refreshCatalog(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.LoadBackground()
	c.Status(http.StatusAccepted)
}

func (h *Handler) getCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Cart())
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// addCartItem adds one unit of a product. Unknown and out-of-stock products
// are ignored without error; the returned cart reflects whatever happened.
func (h *Handler) addCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess.AddToCart(req.ProductID)
	c.JSON(http.StatusOK, sess.Cart())
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess.UpdateQuantity(c.Param("productID"), req.Quantity)
	c.JSON(http.StatusOK, sess.Cart())
}

func (h *Handler) removeCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.RemoveFromCart(c.Param("productID"))
	c.JSON(http.StatusOK, sess.Cart())
}

func (h *Handler) getWishlist(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_ids": sess.WishlistIDs()})
}

func (h *Handler) toggleWishlist(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	productID := c.Param("productID")
	sess.ToggleWishlist(productID)
	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"wishlisted": sess.InWishlist(productID),
	})
}

// checkout hands the cart to the checkout collaborator. The cart stays put
// until the collaborator confirms; the result worker clears it then.
func (h *Handler) checkout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	checkoutID, err := sess.Checkout(c.Request.Context())
	if errors.Is(err, session.ErrEmptyCart) {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to hand off checkout",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"checkout_id": checkoutID,
		"status":      "initiated",
	})
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
