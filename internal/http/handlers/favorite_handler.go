package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/http/handlers/common"
	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// FavoriteHandler повторяет GraphQL операции избранного в REST.
type FavoriteHandler struct {
	svc *service.FavoriteAPIService
}

func NewFavoriteHandler(s *service.FavoriteAPIService) *FavoriteHandler {
	return &FavoriteHandler{svc: s}
}

// ListFavorites GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	favorites, err := h.svc.GetAllFavoritesByUserID(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// AddFavorite POST /favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req struct {
		ActivityID string `json:"activityId" binding:"required,uuid"`
		Order      *int   `json:"order"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	fav, err := h.svc.CreateFavorite(c.Request.Context(), userID, service.CreateFavoriteInput{
		ActivityID: uuid.MustParse(req.ActivityID),
		Order:      req.Order,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// UpdateOrder PUT /favorites/:id/order
func (h *FavoriteHandler) UpdateOrder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	favoriteID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req struct {
		NewOrder *int `json:"newOrder" binding:"required"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	fav, err := h.svc.UpdateFavoriteOrder(c.Request.Context(), userID, service.UpdateFavoriteOrderInput{
		FavoriteID: favoriteID,
		NewOrder:   *req.NewOrder,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// Reorder PUT /favorites/reorder
func (h *FavoriteHandler) Reorder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req struct {
		Favorites []struct {
			FavoriteID string `json:"favoriteId" binding:"required,uuid"`
			Order      *int   `json:"order" binding:"required"`
		} `json:"favorites" binding:"dive"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	items := make([]models.FavoriteOrderItem, len(req.Favorites))
	for i, f := range req.Favorites {
		items[i] = models.FavoriteOrderItem{FavoriteID: uuid.MustParse(f.FavoriteID), Order: *f.Order}
	}

	favorites, err := h.svc.ReorderFavorites(c.Request.Context(), userID, service.ReorderFavoritesInput{Favorites: items})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// RemoveFavorite DELETE /favorites/activity/:activityId
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	activityID, err := common.ParseUUIDParam(c, "activityId")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	deleted, err := h.svc.DeleteFavorite(c.Request.Context(), userID, activityID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// CheckFavorite GET /favorites/activity/:activityId
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	activityID, err := common.ParseUUIDParam(c, "activityId")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	isFav, err := h.svc.IsFavorite(c.Request.Context(), userID, activityID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": isFav})
}
