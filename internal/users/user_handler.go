package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

type UserHandler struct {
	Repository *UserRepository
}

func NewUserHandler(repository *UserRepository) *UserHandler {
	return &UserHandler{Repository: repository}
}

func RegisterRoutes(router *gin.Engine, repository *UserRepository) {
	api := router.Group("/api", security.JWTMiddleware())
	NewUserHandler(repository).RegisterRoutes(api)
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", security.Authorize("manager"), h.GetUsersHandler)
	router.GET("/users/:id", security.Authorize("manager"), h.GetUserHandler)
	router.POST("/users", security.Authorize("admin"), h.CreateUserHandler)
	router.PATCH("/users/:id", security.Authorize("admin"), h.UpdateUserHandler)
	router.DELETE("/users/:id", security.Authorize("admin"), h.DeleteUserHandler)
}

func (h *UserHandler) GetUsersHandler(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.Repository.GetUser(id)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	var request models.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(request.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role: " + request.Role})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, err := h.Repository.PersistUser(request, hash)
	if err != nil {
		var duplicateErr *custom_error.DuplicateKeyError
		if errors.As(err, &duplicateErr) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var request models.UpdateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Role != nil && !models.ValidRole(*request.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role: " + *request.Role})
		return
	}

	var hash []byte
	if request.Password != nil {
		hash, err = bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
	}

	user, err := h.Repository.UpdateUser(id, request, hash)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.Repository.DeleteUser(id); err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user removed"})
}
