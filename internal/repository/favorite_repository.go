package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

const favoriteColumns = "id, user_id, activity_id, sort_order, created_at, updated_at"

// Одинаковые позиции упорядочиваются по времени создания, затем по id.
const favoriteOrderBy = "ORDER BY sort_order ASC, created_at ASC, id ASC"

// FavoriteRepository хранит избранное в таблице favorites.
// Каждый запрос фильтруется по user_id, чужие записи недоступны на уровне предиката.
type FavoriteRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db, now: time.Now}
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	query := `SELECT ` + favoriteColumns + ` FROM favorites WHERE user_id = $1 ` + favoriteOrderBy
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("favorite repository: list by user: %w", err)
	}
	return favorites, nil
}

func (r *FavoriteRepository) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	if len(ids) == 0 {
		return favorites, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT ` + favoriteColumns + ` FROM favorites WHERE user_id = $1 AND id = ANY($2::uuid[]) ` + favoriteOrderBy
	if err := r.db.SelectContext(ctx, &favorites, query, userID, pq.StringArray(raw)); err != nil {
		return nil, fmt.Errorf("favorite repository: list by ids: %w", err)
	}
	return favorites, nil
}

// NextOrder возвращает max(sort_order)+1 или 0, если у пользователя нет избранного.
func (r *FavoriteRepository) NextOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	var next int
	if err := r.db.GetContext(ctx, &next, `SELECT COALESCE(MAX(sort_order) + 1, 0) FROM favorites WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("favorite repository: next order: %w", err)
	}
	return next, nil
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	r.prepare(fav)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, activity_id, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, fav.ID, fav.UserID, fav.ActivityID, fav.Order, fav.CreatedAt)
	return r.insertError(err)
}

// CreateAtEnd вставляет запись с позицией max+1 в одной транзакции.
// Advisory-блокировка по пользователю сериализует параллельные добавления в конец,
// поэтому две записи одного пользователя не получают одинаковую позицию.
func (r *FavoriteRepository) CreateAtEnd(ctx context.Context, fav *models.Favorite) error {
	r.prepare(fav)

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, fav.UserID.String()); err != nil {
			return fmt.Errorf("favorite repository: lock user: %w", err)
		}

		return tx.GetContext(ctx, &fav.Order, `
			INSERT INTO favorites (id, user_id, activity_id, sort_order, created_at, updated_at)
			SELECT $1, $2, $3, COALESCE(MAX(f.sort_order) + 1, 0), $4, $4
			FROM favorites f WHERE f.user_id = $2
			RETURNING sort_order
		`, fav.ID, fav.UserID, fav.ActivityID, fav.CreatedAt)
	})
	return r.insertError(err)
}

func (r *FavoriteRepository) GetByIDAndUser(ctx context.Context, userID, favoriteID uuid.UUID) (*models.Favorite, error) {
	var fav models.Favorite
	query := `SELECT ` + favoriteColumns + ` FROM favorites WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &fav, query, favoriteID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("favorite repository: get by id and user: %w", err)
	}
	return &fav, nil
}

func (r *FavoriteRepository) UpdateOrder(ctx context.Context, userID, favoriteID uuid.UUID, order int) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.GetContext(ctx, &fav, `
		UPDATE favorites SET sort_order = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+favoriteColumns,
		favoriteID, userID, order, r.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("favorite repository: update order: %w", err)
	}
	return &fav, nil
}

// Reorder применяет все пары (id, позиция) в одной транзакции.
// Если хотя бы одна пара не совпала с записью пользователя, транзакция откатывается.
func (r *FavoriteRepository) Reorder(ctx context.Context, userID uuid.UUID, items []models.FavoriteOrderItem) error {
	now := r.now().UTC()
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var matched int64
		for _, item := range items {
			res, err := tx.ExecContext(ctx, `
				UPDATE favorites SET sort_order = $3, updated_at = $4
				WHERE id = $1 AND user_id = $2
			`, item.FavoriteID, userID, item.Order, now)
			if err != nil {
				return fmt.Errorf("favorite repository: reorder: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("favorite repository: reorder rows affected: %w", err)
			}
			matched += n
		}

		if matched != int64(len(items)) {
			return fmt.Errorf("favorite repository: %w: ожидалось %d, совпало %d", common.ErrPartialUpdate, len(items), matched)
		}
		return nil
	})
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND activity_id = $2)
	`, userID, activityID)
	if err != nil {
		return false, fmt.Errorf("favorite repository: exists: %w", err)
	}
	return exists, nil
}

func (r *FavoriteRepository) DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND activity_id = $2`, userID, activityID)
	if err != nil {
		return false, fmt.Errorf("favorite repository: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("favorite repository: delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *FavoriteRepository) prepare(fav *models.Favorite) {
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	now := r.now().UTC()
	fav.CreatedAt = now
	fav.UpdatedAt = now
}

func (r *FavoriteRepository) insertError(err error) error {
	if err == nil {
		return nil
	}
	if common.IsUniqueViolation(err) {
		return fmt.Errorf("favorite repository: %w", common.ErrAlreadyExists)
	}
	return fmt.Errorf("favorite repository: create: %w", err)
}
