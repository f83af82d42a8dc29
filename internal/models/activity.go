package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity описывает активность, которую пользователи могут добавлять в избранное.
type Activity struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	City        string    `db:"city" json:"city"`
	Description string    `db:"description" json:"description"`
	Price       int       `db:"price" json:"price"`
	OwnerID     uuid.UUID `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ActivityFilter задаёт условия поиска активностей.
type ActivityFilter struct {
	OwnerID *uuid.UUID
	City    string
	// NameContains ищет подстроку в названии без учёта регистра.
	NameContains string
	Price        *int
}

// ActivityPage содержит страницу результатов и метаданные пагинации.
type ActivityPage struct {
	Items      []Activity `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// NewActivityPage считает totalPages по total и limit.
func NewActivityPage(items []Activity, total, page, limit int) *ActivityPage {
	if items == nil {
		items = []Activity{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &ActivityPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
