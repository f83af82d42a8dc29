package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
	"github.com/ignatzorin/activity-favorites/internal/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	LatestCount  = 3
)

// ActivityRepository описывает хранилище активностей.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Activity, error)
	List(ctx context.Context, filter models.ActivityFilter, limit, offset int) ([]models.Activity, error)
	Count(ctx context.Context, filter models.ActivityFilter) (int, error)
	Latest(ctx context.Context, n int) ([]models.Activity, error)
	Cities(ctx context.Context) ([]string, error)
}

type CreateActivityInput struct {
	Name        string
	City        string
	Description string
	Price       int
}

// ActivityService отдаёт каталог активностей.
type ActivityService struct {
	repo  ActivityRepository
	cache *Cache
	log   *logrus.Entry
}

func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo, log: logger.Component("activity_service")}
}

// WithCache включает кэширование списка городов и последних активностей.
func (s *ActivityService) WithCache(cache *Cache) *ActivityService {
	s.cache = cache
	return s
}

func (s *ActivityService) cached(key string, fn func() (interface{}, error)) (interface{}, error) {
	if s.cache == nil {
		return fn()
	}
	return s.cache.GetOrSet(key, activityCacheTTL, fn)
}

// ClampPage приводит page и limit к допустимым значениям.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func (s *ActivityService) List(ctx context.Context, page, limit int) (*models.ActivityPage, error) {
	return s.page(ctx, models.ActivityFilter{}, page, limit)
}

func (s *ActivityService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*models.ActivityPage, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return s.page(ctx, models.ActivityFilter{OwnerID: &userID}, page, limit)
}

// ListByCity ищет по точному городу, подстроке названия без учёта регистра и точной цене.
func (s *ActivityService) ListByCity(ctx context.Context, city, name string, price *int, page, limit int) (*models.ActivityPage, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperror.BadRequest("требуется город")
	}
	return s.page(ctx, models.ActivityFilter{
		City:         city,
		NameContains: strings.TrimSpace(name),
		Price:        price,
	}, page, limit)
}

func (s *ActivityService) Latest(ctx context.Context) ([]models.Activity, error) {
	v, err := s.cached(latestCacheKey, func() (interface{}, error) {
		return s.repo.Latest(ctx, LatestCount)
	})
	if err != nil {
		return nil, s.storageError("latest", err)
	}
	return v.([]models.Activity), nil
}

func (s *ActivityService) Cities(ctx context.Context) ([]string, error) {
	v, err := s.cached(citiesCacheKey, func() (interface{}, error) {
		return s.repo.Cities(ctx)
	})
	if err != nil {
		return nil, s.storageError("cities", err)
	}
	return v.([]string), nil
}

func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	if id == uuid.Nil {
		return nil, apperror.BadRequest("требуется идентификатор активности")
	}
	activity, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrActivityNotFound
	}
	if err != nil {
		return nil, s.storageError("get_by_id", err)
	}
	return activity, nil
}

// GetByIDs возвращает активности по id; отсутствующие пропускаются.
func (s *ActivityService) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Activity, error) {
	items, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.storageError("get_by_ids", err)
	}
	byID := make(map[uuid.UUID]models.Activity, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

func (s *ActivityService) Create(ctx context.Context, ownerID uuid.UUID, in CreateActivityInput) (*models.Activity, error) {
	if ownerID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	if err := validation.ValidateActivity(in.Name, in.City, in.Description, in.Price); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	activity := &models.Activity{
		Name:        strings.TrimSpace(in.Name),
		City:        strings.TrimSpace(in.City),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, s.storageError("create", err)
	}
	if s.cache != nil {
		s.cache.InvalidateByPrefix("activities:")
	}
	return activity, nil
}

// page загружает элементы и общее количество параллельно.
func (s *ActivityService) page(ctx context.Context, filter models.ActivityFilter, page, limit int) (*models.ActivityPage, error) {
	page, limit = ClampPage(page, limit)
	offset := (page - 1) * limit

	var (
		items []models.Activity
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, filter, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.storageError("page", err)
	}

	return models.NewActivityPage(items, total, page, limit), nil
}

func (s *ActivityService) storageError(op string, err error) error {
	s.log.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Error("ошибка хранилища активностей")
	return apperror.Internal(err, "ошибка хранилища активностей")
}
