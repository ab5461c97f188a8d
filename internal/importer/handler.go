package importer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luckyskyman/warehouse-inventory-system/internal/items"
	"github.com/luckyskyman/warehouse-inventory-system/internal/ledger"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportHandler struct {
	Service          *Service
	ItemRepository   *items.ItemRepository
	LedgerRepository *ledger.LedgerRepository
}

func NewHandler(s *Service, ir *items.ItemRepository, lr *ledger.LedgerRepository) *ImportHandler {
	return &ImportHandler{
		Service:          s,
		ItemRepository:   ir,
		LedgerRepository: lr,
	}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/import/inventory-add", security.Authorize("manager"), h.BulkInbound)
	router.POST("/import/inventory-sync", security.Authorize("admin"), h.SyncReplaceAll)
	router.POST("/import/excel", security.Authorize("manager"), h.UploadExcel)
	router.GET("/export/inventory", security.Authorize("user"), h.ExportInventory)
	router.GET("/export/transactions", security.Authorize("user"), h.ExportTransactions)
}

// BulkInbound accepts already-normalized rows, e.g. from a parsed JSON
// upload, and books each as an independent inbound.
func (h *ImportHandler) BulkInbound(c *gin.Context) {
	var rows []Row
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result := h.Service.BulkInbound(c.Request.Context(), rows, security.CurrentUserID(c))
	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) SyncReplaceAll(c *gin.Context) {
	var rows []Row
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.Service.SyncReplaceAll(c.Request.Context(), rows, security.CurrentUserID(c))
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UploadExcel parses an uploaded workbook into normalized rows and routes
// them by mode: add (default) books inbounds, sync replaces the registry.
func (h *ImportHandler) UploadExcel(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing 'file' upload"})
		return
	}

	opened, err := file.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return
	}
	defer opened.Close()

	rows, err := ParseInventorySheet(opened)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	userID := security.CurrentUserID(c)
	if c.Query("mode") == "sync" {
		result, err := h.Service.SyncReplaceAll(c.Request.Context(), rows, userID)
		if err != nil {
			status := custom_error.HTTPStatus(err)
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	c.JSON(http.StatusOK, h.Service.BulkInbound(c.Request.Context(), rows, userID))
}

func (h *ImportHandler) ExportInventory(c *gin.Context) {
	found, err := h.ItemRepository.GetItemsBy(nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}

	f, err := ExportInventory(found)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func (h *ImportHandler) ExportTransactions(c *gin.Context) {
	entries, err := h.LedgerRepository.Query(ledger.QueryFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	f, err := ExportTransactions(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func RegisterRoutes(router *gin.Engine, s *Service, ir *items.ItemRepository, lr *ledger.LedgerRepository) {
	api := router.Group("/api", security.JWTMiddleware())
	NewHandler(s, ir, lr).RegisterRoutes(api)
}
