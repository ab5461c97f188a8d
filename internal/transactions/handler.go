package transactions

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luckyskyman/warehouse-inventory-system/internal/ledger"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

type TransactionHandler struct {
	Service          *Service
	LedgerRepository *ledger.LedgerRepository
}

func NewHandler(s *Service, lr *ledger.LedgerRepository) *TransactionHandler {
	return &TransactionHandler{
		Service:          s,
		LedgerRepository: lr,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/transactions", security.Authorize("user"), h.CreateTransaction)
	router.GET("/transactions", security.Authorize("user"), h.GetTransactions)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var intent Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	intent.UserID = security.CurrentUserID(c)

	stored, err := h.Service.Process(c.Request.Context(), intent)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			c.AbortWithStatusJSON(status, gin.H{"error": "Failed to process transaction"})
			return
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var query struct {
		ItemCode string `form:"itemCode"`
		Type     string `form:"type"`
		From     string `form:"from"`
		To       string `form:"to"`
		Limit    uint   `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filter := ledger.QueryFilter{
		ItemCode: query.ItemCode,
		Type:     query.Type,
		Limit:    query.Limit,
	}
	if query.From != "" {
		from, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp, expected RFC3339"})
			return
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp, expected RFC3339"})
			return
		}
		filter.To = &to
	}

	entries, err := h.LedgerRepository.Query(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func RegisterRoutes(router *gin.Engine, s *Service, lr *ledger.LedgerRepository) {
	api := router.Group("/api", security.JWTMiddleware())
	NewHandler(s, lr).RegisterRoutes(api)
}
