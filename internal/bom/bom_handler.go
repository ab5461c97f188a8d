package bom

import (
	"net/http"

	"github.com/gin-gonic/gin"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

type BomHandler struct {
	Service       *Service
	BomRepository *BomRepository
}

func NewHandler(s *Service, br *BomRepository) *BomHandler {
	return &BomHandler{Service: s, BomRepository: br}
}

func (h *BomHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/bom-guides", security.Authorize("user"), h.GetGuideNames)
	router.GET("/bom-guides/:name", security.Authorize("user"), h.GetGuide)
	router.POST("/bom-guides", security.Authorize("manager"), h.CreateRow)
	router.DELETE("/bom-guides/:name", security.Authorize("manager"), h.DeleteGuide)
	router.GET("/bom-check/:name", security.Authorize("user"), h.CheckGuide)
}

type CreateRowRequest struct {
	GuideName        string `json:"guideName" binding:"required"`
	ItemCode         string `json:"itemCode" binding:"required"`
	RequiredQuantity int    `json:"requiredQuantity" binding:"required,gte=1"`
}

func (h *BomHandler) GetGuideNames(c *gin.Context) {
	names, err := h.BomRepository.GetGuideNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch BOM guides"})
		return
	}

	c.JSON(http.StatusOK, names)
}

func (h *BomHandler) GetGuide(c *gin.Context) {
	rows, err := h.BomRepository.GetGuide(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch BOM guide"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *BomHandler) CreateRow(c *gin.Context) {
	var req CreateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	row := models.BomGuide{
		GuideName:        req.GuideName,
		ItemCode:         req.ItemCode,
		RequiredQuantity: req.RequiredQuantity,
	}

	if err := h.BomRepository.PersistRow(&row); err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Failed to create BOM guide row", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *BomHandler) DeleteGuide(c *gin.Context) {
	if err := h.BomRepository.DeleteGuide(c.Param("name")); err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "BOM guide deleted successfully"})
}

func (h *BomHandler) CheckGuide(c *gin.Context) {
	report, err := h.Service.CheckGuide(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run shortage check"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func RegisterRoutes(router *gin.Engine, s *Service, br *BomRepository) {
	api := router.Group("/api", security.JWTMiddleware())
	NewHandler(s, br).RegisterRoutes(api)
}
