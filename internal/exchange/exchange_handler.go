package exchange

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

type ExchangeHandler struct {
	Service *Service
}

func NewHandler(s *Service) *ExchangeHandler {
	return &ExchangeHandler{Service: s}
}

func (h *ExchangeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/exchange-queue", security.Authorize("user"), h.GetPending)
	router.POST("/exchange-queue/:id/process", security.Authorize("manager"), h.ProcessEntry)
}

func (h *ExchangeHandler) GetPending(c *gin.Context) {
	entries, err := h.Service.Pending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchange queue"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *ExchangeHandler) ProcessEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid exchange entry ID"})
		return
	}

	var req struct {
		ToLocation string `json:"toLocation"`
	}
	// Body is optional; the item's current location is the default target.
	_ = c.ShouldBindJSON(&req)

	stored, err := h.Service.ProcessEntry(c.Request.Context(), id, req.ToLocation, security.CurrentUserID(c))
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stored)
}

func RegisterRoutes(router *gin.Engine, s *Service) {
	api := router.Group("/api", security.JWTMiddleware())
	NewHandler(s).RegisterRoutes(api)
}
