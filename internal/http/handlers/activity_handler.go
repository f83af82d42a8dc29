package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/activity-favorites/internal/http/handlers/common"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// ActivityHandler отдаёт каталог активностей.
type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// List GET /activities?page=&limit=
func (h *ActivityHandler) List(c *gin.Context) {
	page, limit := common.GetPagination(c)
	result, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMine GET /activities/my
func (h *ActivityHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.GetPagination(c)
	result, err := h.svc.ListByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByCity GET /activities/city/:city?name=&price=
func (h *ActivityHandler) ListByCity(c *gin.Context) {
	price, err := common.ParseIntQuery(c, "price")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.GetPagination(c)
	result, err := h.svc.ListByCity(c.Request.Context(), c.Param("city"), c.Query("name"), price, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest GET /activities/latest
func (h *ActivityHandler) Latest(c *gin.Context) {
	items, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Cities GET /activities/cities
func (h *ActivityHandler) Cities(c *gin.Context) {
	cities, err := h.svc.Cities(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// Get GET /activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	activity, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// Create POST /activities
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		City        string `json:"city" binding:"required"`
		Description string `json:"description" binding:"required"`
		Price       int    `json:"price"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	activity, err := h.svc.Create(c.Request.Context(), userID, service.CreateActivityInput{
		Name:        req.Name,
		City:        req.City,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}
