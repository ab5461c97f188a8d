package locations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/luckyskyman/warehouse-inventory-system/pkg/auditlog"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

type LayoutHandler struct {
	LayoutRepository *LayoutRepository
	AuditLog         *auditlog.Auditlog
}

func NewLayoutHandler(lr *LayoutRepository, a *auditlog.Auditlog) *LayoutHandler {
	return &LayoutHandler{
		LayoutRepository: lr,
		AuditLog:         a,
	}
}

func (h *LayoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/warehouse-layout", security.Authorize("user"), h.GetZones)
	router.POST("/warehouse-layout", security.Authorize("manager"), h.CreateZone)
	router.PATCH("/warehouse-layout/:id", security.Authorize("manager"), h.UpdateZone)
	router.DELETE("/warehouse-layout/:id", security.Authorize("admin"), h.DeleteZone)
}

type CreateZoneRequest struct {
	ZoneName    string   `json:"zoneName" binding:"required"`
	SubZoneName string   `json:"subZoneName" binding:"required"`
	Floors      []string `json:"floors" binding:"required,min=1"`
}

type UpdateZoneRequest struct {
	ZoneName    *string  `json:"zoneName"`
	SubZoneName *string  `json:"subZoneName"`
	Floors      []string `json:"floors"`
}

func (h *LayoutHandler) GetZones(c *gin.Context) {
	zones, err := h.LayoutRepository.GetZones()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch warehouse layout"})
		return
	}

	c.JSON(http.StatusOK, zones)
}

func (h *LayoutHandler) CreateZone(c *gin.Context) {
	var req CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	// Zone and floor tokens become halves of a location string, so the
	// location grammar constrains them here.
	if _, err := Compose(req.ZoneName, req.SubZoneName, req.Floors[0]); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid zone naming", "details": err.Error()})
		return
	}

	zone := models.WarehouseZone{
		ZoneName:    req.ZoneName,
		SubZoneName: req.SubZoneName,
		Floors:      pq.StringArray(req.Floors),
	}

	if err := h.LayoutRepository.PersistZone(&zone); err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Failed to create warehouse zone", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"zone_name":     zone.ZoneName,
			"sub_zone_name": zone.SubZoneName,
			"floors":        req.Floors,
			"msg":           "Declared warehouse zone",
		},
		&zone,
	)

	c.JSON(http.StatusCreated, zone)
}

func (h *LayoutHandler) UpdateZone(c *gin.Context) {
	zoneID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid zone ID"})
		return
	}

	var req UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	zone, err := h.LayoutRepository.UpdateZone(zoneID, req)
	if err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Unable to update warehouse zone", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, zone)
}

func (h *LayoutHandler) DeleteZone(c *gin.Context) {
	zoneID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid zone ID"})
		return
	}

	if err := h.LayoutRepository.RemoveZone(zoneID); err != nil {
		status := custom_error.HTTPStatus(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Failed to delete warehouse zone", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Warehouse zone deleted successfully"})
}

func RegisterRoutes(router *gin.Engine, lr *LayoutRepository, a *auditlog.Auditlog) {
	api := router.Group("/api", security.JWTMiddleware())
	NewLayoutHandler(lr, a).RegisterRoutes(api)
}
