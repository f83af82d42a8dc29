package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

const activityColumns = "id, name, city, description, price, owner_id, created_at, updated_at"

// ActivityRepository отвечает за работу с таблицей activities.
type ActivityRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewActivityRepository создаёт экземпляр репозитория.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

// Create сохраняет новую активность.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	now := r.now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (id, name, city, description, price, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, activity.ID, activity.Name, activity.City, activity.Description, activity.Price, activity.OwnerID, now)
	if err != nil {
		return fmt.Errorf("activity repository: create %w", err)
	}
	return nil
}

// GetByID возвращает активность по идентификатору.
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	return common.GetByID[models.Activity](ctx, r.db, "activities", activityColumns, id, common.ErrNotFound)
}

// GetByIDs возвращает найденные активности; отсутствующие id пропускаются.
func (r *ActivityRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Activity, error) {
	activities := []models.Activity{}
	if len(ids) == 0 {
		return activities, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &activities, query, pq.StringArray(raw)); err != nil {
		return nil, fmt.Errorf("activity repository: get by ids %w", err)
	}
	return activities, nil
}

// List возвращает страницу активностей по фильтру, новые сначала.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter, limit, offset int) ([]models.Activity, error) {
	where, args := activityWhere(filter)
	argNum := len(args) + 1

	query := `SELECT ` + activityColumns + ` FROM activities` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, limit, offset)

	activities := []models.Activity{}
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("activity repository: list %w", err)
	}
	return activities, nil
}

// Count возвращает количество активностей по тому же фильтру, что и List.
func (r *ActivityRepository) Count(ctx context.Context, filter models.ActivityFilter) (int, error) {
	where, args := activityWhere(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM activities`+where, args...); err != nil {
		return 0, fmt.Errorf("activity repository: count %w", err)
	}
	return count, nil
}

// Latest возвращает n самых новых активностей.
func (r *ActivityRepository) Latest(ctx context.Context, n int) ([]models.Activity, error) {
	activities := []models.Activity{}
	query := `SELECT ` + activityColumns + ` FROM activities ORDER BY created_at DESC, id ASC LIMIT $1`
	if err := r.db.SelectContext(ctx, &activities, query, n); err != nil {
		return nil, fmt.Errorf("activity repository: latest %w", err)
	}
	return activities, nil
}

// Cities возвращает список различных городов в алфавитном порядке.
func (r *ActivityRepository) Cities(ctx context.Context) ([]string, error) {
	cities := []string{}
	if err := r.db.SelectContext(ctx, &cities, `SELECT DISTINCT city FROM activities ORDER BY city`); err != nil {
		return nil, fmt.Errorf("activity repository: cities %w", err)
	}
	return cities, nil
}

func activityWhere(filter models.ActivityFilter) (string, []interface{}) {
	var conds []string
	args := []interface{}{}
	argNum := 1

	if filter.OwnerID != nil {
		conds = append(conds, fmt.Sprintf("owner_id = $%d", argNum))
		args = append(args, *filter.OwnerID)
		argNum++
	}
	if filter.City != "" {
		conds = append(conds, fmt.Sprintf("city = $%d", argNum))
		args = append(args, filter.City)
		argNum++
	}
	if filter.NameContains != "" {
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", argNum))
		args = append(args, "%"+escapeLike(filter.NameContains)+"%")
		argNum++
	}
	if filter.Price != nil {
		conds = append(conds, fmt.Sprintf("price = $%d", argNum))
		args = append(args, *filter.Price)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
