package items

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luckyskyman/warehouse-inventory-system/pkg/auditlog"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

type ItemHandler struct {
	ItemRepository *ItemRepository
	Service        *ItemService
	AuditLog       *auditlog.Auditlog
}

func NewHandler(ir *ItemRepository, s *ItemService, a *auditlog.Auditlog) *ItemHandler {
	return &ItemHandler{
		ItemRepository: ir,
		Service:        s,
		AuditLog:       a,
	}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/inventory", security.Authorize("user"), h.GetItems)
	router.GET("/inventory-stats", security.Authorize("user"), h.GetStats)
	router.GET("/inventory/:id", security.Authorize("user"), h.GetItem)
	router.GET("/inventory/:id/verify", security.Authorize("manager"), h.VerifyItem)
	router.POST("/inventory", security.Authorize("manager"), h.CreateItem)
	router.PATCH("/inventory/:id", security.Authorize("manager"), h.UpdateItem)
	router.PATCH("/inventory/:id/location", security.Authorize("manager"), h.RelocateItem)
	router.DELETE("/inventory/:id", security.Authorize("admin"), h.DeleteItem)
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	var query ItemQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	found, err := h.ItemRepository.GetItemsBy(&query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.ItemRepository.GetItem(id)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) GetStats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute inventory stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ItemHandler) VerifyItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	report, err := h.Service.VerifyItem(id)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.Service.CreateItem(&req, security.CurrentUserID(c))
	if err != nil {
		status := custom_error.HTTPStatus(err)
		if status == http.StatusConflict {
			c.AbortWithStatusJSON(status, gin.H{"error": "Item with same code and location already registered"})
			return
		}
		c.AbortWithStatusJSON(status, gin.H{"error": "Failed to create item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"code":     item.Code,
			"stock":    item.Stock,
			"location": item.Location,
			"msg":      "Registered inventory item",
		},
		item,
	)

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req PatchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.ItemRepository.UpdateItem(id, &req)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Unable to update item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) RelocateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req RelocateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.ItemRepository.SetLocation(id, req.Location)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Unable to relocate item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	force := c.Query("force") == "true"

	item, getErr := h.ItemRepository.GetItem(id)

	if err := h.Service.DeleteItem(id, force); err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	if getErr == nil {
		go h.AuditLog.Log(
			"delete",
			map[string]interface{}{
				"code":     item.Code,
				"stock":    item.Stock,
				"location": item.Location,
				"forced":   force,
				"msg":      "Deleted inventory item",
			},
			item,
		)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func RegisterRoutes(router *gin.Engine, ir *ItemRepository, s *ItemService, a *auditlog.Auditlog) {
	api := router.Group("/api", security.JWTMiddleware())
	NewHandler(ir, s, a).RegisterRoutes(api)
}
