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

// FavoriteRepository описывает хранилище избранного.
// Все методы фильтруют по userID, поэтому чужая запись для них не существует.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Favorite, error)
	NextOrder(ctx context.Context, userID uuid.UUID) (int, error)
	Create(ctx context.Context, fav *models.Favorite) error
	CreateAtEnd(ctx context.Context, fav *models.Favorite) error
	GetByIDAndUser(ctx context.Context, userID, favoriteID uuid.UUID) (*models.Favorite, error)
	UpdateOrder(ctx context.Context, userID, favoriteID uuid.UUID, order int) (*models.Favorite, error)
	Reorder(ctx context.Context, userID uuid.UUID, items []models.FavoriteOrderItem) error
	Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error)
	DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) (bool, error)
}

// FavoriteService поддерживает порядок избранного пользователя.
// Ошибки хранилища логируются здесь один раз и наружу уходят как apperror.
type FavoriteService struct {
	repo FavoriteRepository
	log  *logrus.Entry
}

func NewFavoriteService(repo FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo, log: logger.Component("favorite_service")}
}

// GetAllByUser возвращает избранное по возрастанию order.
func (s *FavoriteService) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.storageError("get_all_by_user", userID, err)
	}
	return favorites, nil
}

// GetNextOrder возвращает max(order)+1 или 0 для пустого списка.
func (s *FavoriteService) GetNextOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	next, err := s.repo.NextOrder(ctx, userID)
	if err != nil {
		return 0, s.storageError("get_next_order", userID, err)
	}
	return next, nil
}

func (s *FavoriteService) Create(ctx context.Context, userID, activityID uuid.UUID, order int) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: userID, ActivityID: activityID, Order: order}
	if err := s.repo.Create(ctx, fav); err != nil {
		return nil, s.storageError("create", userID, err)
	}
	return fav, nil
}

// CreateAtEnd добавляет запись в конец списка.
func (s *FavoriteService) CreateAtEnd(ctx context.Context, userID, activityID uuid.UUID) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: userID, ActivityID: activityID}
	if err := s.repo.CreateAtEnd(ctx, fav); err != nil {
		return nil, s.storageError("create_at_end", userID, err)
	}
	return fav, nil
}

// FindByIDAndUser возвращает nil без ошибки, если записи нет или она чужая.
func (s *FavoriteService) FindByIDAndUser(ctx context.Context, userID, favoriteID uuid.UUID) (*models.Favorite, error) {
	fav, err := s.repo.GetByIDAndUser(ctx, userID, favoriteID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storageError("find_by_id_and_user", userID, err)
	}
	return fav, nil
}

func (s *FavoriteService) UpdateOrder(ctx context.Context, userID, favoriteID uuid.UUID, newOrder int) (*models.Favorite, error) {
	fav, err := s.repo.UpdateOrder(ctx, userID, favoriteID, newOrder)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, s.storageError("update_order", userID, err)
	}
	return fav, nil
}

// ReorderBatch применяет пары (id, order) и возвращает затронутые записи,
// отсортированные по order, затем по createdAt и id.
func (s *FavoriteService) ReorderBatch(ctx context.Context, userID uuid.UUID, items []models.FavoriteOrderItem) ([]models.Favorite, error) {
	if len(items) == 0 {
		return []models.Favorite{}, nil
	}

	if err := s.repo.Reorder(ctx, userID, items); err != nil {
		if errors.Is(err, common.ErrPartialUpdate) {
			s.log.WithFields(logrus.Fields{
				"op":        "reorder_batch",
				"user_id":   userID,
				"requested": len(items),
				"error":     err.Error(),
			}).Warn("сортировка применена не ко всем элементам")
			return nil, apperror.Internal(err, "не удалось применить сортировку ко всем элементам")
		}
		return nil, s.storageError("reorder_batch", userID, err)
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.FavoriteID
	}
	favorites, err := s.repo.ListByIDs(ctx, userID, ids)
	if err != nil {
		return nil, s.storageError("reorder_batch_fetch", userID, err)
	}
	return favorites, nil
}

func (s *FavoriteService) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID, activityID)
	if err != nil {
		return false, s.storageError("exists", userID, err)
	}
	return ok, nil
}

// DeleteByUserAndActivity возвращает false, если удалять было нечего.
func (s *FavoriteService) DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	deleted, err := s.repo.DeleteByUserAndActivity(ctx, userID, activityID)
	if err != nil {
		return false, s.storageError("delete", userID, err)
	}
	return deleted, nil
}

func (s *FavoriteService) storageError(op string, userID uuid.UUID, err error) error {
	if errors.Is(err, common.ErrAlreadyExists) {
		return apperror.ErrFavoriteExists
	}
	s.log.WithFields(logrus.Fields{
		"op":      op,
		"user_id": userID,
		"error":   err.Error(),
	}).Error("ошибка хранилища избранного")
	return apperror.Internal(err, "ошибка хранилища избранного")
}
