// Package mongostore хранит пользователей, активности и избранное в MongoDB.
// Методы повторяют репозитории PostgreSQL, поэтому сервисы не знают, какое хранилище выбрано.
package mongostore

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/models"
)

// Идентификаторы хранятся строками UUID, чтобы совпадать с реляционным хранилищем.

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type activityDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	City        string    `bson:"city"`
	Description string    `bson:"description"`
	Price       int       `bson:"price"`
	OwnerID     string    `bson:"ownerId"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type favoriteDocument struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"userId"`
	ActivityID string    `bson:"activityId"`
	Order      int       `bson:"order"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func newUserDocument(u *models.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) model() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("mongostore: user id %q: %w", d.ID, err)
	}
	return &models.User{
		ID:           id,
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func newActivityDocument(a *models.Activity) activityDocument {
	return activityDocument{
		ID:          a.ID.String(),
		Name:        a.Name,
		City:        a.City,
		Description: a.Description,
		Price:       a.Price,
		OwnerID:     a.OwnerID.String(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d activityDocument) model() (models.Activity, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Activity{}, fmt.Errorf("mongostore: activity id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return models.Activity{}, fmt.Errorf("mongostore: activity owner %q: %w", d.OwnerID, err)
	}
	return models.Activity{
		ID:          id,
		Name:        d.Name,
		City:        d.City,
		Description: d.Description,
		Price:       d.Price,
		OwnerID:     owner,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

func newFavoriteDocument(f *models.Favorite) favoriteDocument {
	return favoriteDocument{
		ID:         f.ID.String(),
		UserID:     f.UserID.String(),
		ActivityID: f.ActivityID.String(),
		Order:      f.Order,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func (d favoriteDocument) model() (models.Favorite, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("mongostore: favorite id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("mongostore: favorite user %q: %w", d.UserID, err)
	}
	activityID, err := uuid.Parse(d.ActivityID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("mongostore: favorite activity %q: %w", d.ActivityID, err)
	}
	return models.Favorite{
		ID:         id,
		UserID:     userID,
		ActivityID: activityID,
		Order:      d.Order,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}, nil
}

func idStrings(ids []uuid.UUID) []string {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	return raw
}
