package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite — закладка пользователя на активность с позицией в его списке.
// Пара (UserID, ActivityID) уникальна.
type Favorite struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"-"`
	ActivityID uuid.UUID `db:"activity_id" json:"activityId"`
	Order      int       `db:"sort_order" json:"order"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// FavoriteOrderItem — новая позиция одного элемента при пакетной сортировке.
type FavoriteOrderItem struct {
	FavoriteID uuid.UUID `json:"favoriteId"`
	Order      int       `json:"order"`
}
