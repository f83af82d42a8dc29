package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

// События изменения избранного для live-подключений пользователя.
const (
	EventFavoriteCreated    = "favorite.created"
	EventFavoriteUpdated    = "favorite.updated"
	EventFavoritesReordered = "favorites.reordered"
	EventFavoriteDeleted    = "favorite.deleted"
)

// UserLookup находит пользователя по идентификатору.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ActivityLookup находит активность по идентификатору.
type ActivityLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
}

// FavoriteNotifier рассылает события об изменении избранного.
// Реализация не должна блокировать запрос.
type FavoriteNotifier interface {
	NotifyFavorites(userID uuid.UUID, event string, payload interface{})
}

type CreateFavoriteInput struct {
	ActivityID uuid.UUID
	// При Order == nil запись добавляется в конец списка.
	Order *int
}

type UpdateFavoriteOrderInput struct {
	FavoriteID uuid.UUID
	NewOrder   int
}

type ReorderFavoritesInput struct {
	Favorites []models.FavoriteOrderItem
}

// FavoriteAPIService проверяет пользователя, сущности и владение перед изменением избранного.
type FavoriteAPIService struct {
	favorites  *FavoriteService
	users      UserLookup
	activities ActivityLookup
	notifier   FavoriteNotifier
	log        *logrus.Entry
}

func NewFavoriteAPIService(favorites *FavoriteService, users UserLookup, activities ActivityLookup, notifier FavoriteNotifier) *FavoriteAPIService {
	return &FavoriteAPIService{
		favorites:  favorites,
		users:      users,
		activities: activities,
		notifier:   notifier,
		log:        logger.Component("favorite_api_service"),
	}
}

func (s *FavoriteAPIService) GetAllFavoritesByUserID(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	favorites, err := s.favorites.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, s.passThrough("get_all", err)
	}
	return favorites, nil
}

func (s *FavoriteAPIService) CreateFavorite(ctx context.Context, userID uuid.UUID, in CreateFavoriteInput) (*models.Favorite, error) {
	if in.ActivityID == uuid.Nil {
		return nil, apperror.BadRequest("требуется идентификатор активности")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureActivity(ctx, in.ActivityID); err != nil {
		return nil, err
	}

	var (
		fav *models.Favorite
		err error
	)
	if in.Order == nil {
		fav, err = s.favorites.CreateAtEnd(ctx, userID, in.ActivityID)
	} else {
		fav, err = s.favorites.Create(ctx, userID, in.ActivityID, *in.Order)
	}
	if err != nil {
		return nil, s.passThrough("create", err)
	}

	s.notify(userID, EventFavoriteCreated, fav)
	return fav, nil
}

func (s *FavoriteAPIService) UpdateFavoriteOrder(ctx context.Context, userID uuid.UUID, in UpdateFavoriteOrderInput) (*models.Favorite, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUserIDRequired
	}
	if in.FavoriteID == uuid.Nil {
		return nil, apperror.BadRequest("требуется идентификатор избранного")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.favorites.FindByIDAndUser(ctx, userID, in.FavoriteID)
	if err != nil {
		return nil, s.passThrough("update_order", err)
	}
	if existing == nil {
		return nil, apperror.ErrFavoriteNotFound
	}

	fav, err := s.favorites.UpdateOrder(ctx, userID, in.FavoriteID, in.NewOrder)
	if err != nil {
		return nil, s.passThrough("update_order", err)
	}

	s.notify(userID, EventFavoriteUpdated, fav)
	return fav, nil
}

// ReorderFavorites отклоняет весь пакет, если хотя бы один id не принадлежит пользователю.
func (s *FavoriteAPIService) ReorderFavorites(ctx context.Context, userID uuid.UUID, in ReorderFavoritesInput) ([]models.Favorite, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUserIDRequired
	}
	if len(in.Favorites) == 0 {
		return nil, apperror.ErrEmptyReorder
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	owned, err := s.favorites.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, s.passThrough("reorder", err)
	}
	ownedIDs := make(map[uuid.UUID]struct{}, len(owned))
	for _, fav := range owned {
		ownedIDs[fav.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(in.Favorites))
	for _, item := range in.Favorites {
		if _, ok := ownedIDs[item.FavoriteID]; !ok {
			return nil, apperror.ErrForeignFavorites
		}
		if _, dup := seen[item.FavoriteID]; dup {
			return nil, apperror.BadRequest("элемент избранного указан в сортировке дважды")
		}
		seen[item.FavoriteID] = struct{}{}
	}

	favorites, err := s.favorites.ReorderBatch(ctx, userID, in.Favorites)
	if err != nil {
		return nil, s.passThrough("reorder", err)
	}

	s.notify(userID, EventFavoritesReordered, favorites)
	return favorites, nil
}

// DeleteFavorite возвращает NotFound, если удалять было нечего.
func (s *FavoriteAPIService) DeleteFavorite(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, apperror.ErrUserIDRequired
	}
	if activityID == uuid.Nil {
		return false, apperror.BadRequest("требуется идентификатор активности")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return false, err
	}

	deleted, err := s.favorites.DeleteByUserAndActivity(ctx, userID, activityID)
	if err != nil {
		return false, s.passThrough("delete", err)
	}
	if !deleted {
		return false, apperror.ErrFavoriteNotFound
	}

	s.notify(userID, EventFavoriteDeleted, map[string]string{"activityId": activityID.String()})
	return true, nil
}

func (s *FavoriteAPIService) IsFavorite(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, apperror.ErrUserIDRequired
	}
	if activityID == uuid.Nil {
		return false, apperror.BadRequest("требуется идентификатор активности")
	}
	ok, err := s.favorites.Exists(ctx, userID, activityID)
	if err != nil {
		return false, s.passThrough("is_favorite", err)
	}
	return ok, nil
}

func (s *FavoriteAPIService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.ErrUserIDRequired
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return s.passThrough("ensure_user", err)
	}
	return nil
}

func (s *FavoriteAPIService) ensureActivity(ctx context.Context, activityID uuid.UUID) error {
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.ErrActivityNotFound
		}
		return s.passThrough("ensure_activity", err)
	}
	return nil
}

// passThrough пропускает классифицированные ошибки, остальные логирует и превращает во внутренние.
func (s *FavoriteAPIService) passThrough(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	s.log.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Error("неожиданная ошибка")
	return apperror.Internal(err, "не удалось обработать избранное")
}

func (s *FavoriteAPIService) notify(userID uuid.UUID, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyFavorites(userID, event, payload)
}
