package service

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/models"
)

// SeedPassword — пароль всех демо-аккаунтов.
const SeedPassword = "Password123"

// SeedUserRepository содержит методы хранилища пользователей, нужные для сидирования.
type SeedUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int, error)
}

// SeedService заполняет пустое хранилище демо-пользователями и активностями.
type SeedService struct {
	users      SeedUserRepository
	activities ActivityRepository
	rnd        *rand.Rand
}

// SeedResult описывает созданные данные.
type SeedResult struct {
	Skipped    bool
	Users      []*models.User
	Activities int
}

// NewSeedService создаёт новый сервис для генерации данных.
func NewSeedService(users SeedUserRepository, activities ActivityRepository, seed int64) *SeedService {
	return &SeedService{
		users:      users,
		activities: activities,
		rnd:        rand.New(rand.NewSource(seed)),
	}
}

var seedAccounts = []struct {
	Email, FirstName, LastName string
}{
	{"alice@example.com", "Alice", "Martin"},
	{"bob@example.com", "Bob", "Bernard"},
	{"chloe@example.com", "Chloé", "Dubois"},
}

var seedCities = []string{"Paris", "Lyon", "Marseille", "Bordeaux", "Nice", "Nantes"}

var seedActivities = []struct {
	Name, Description string
}{
	{"Atelier poterie", "Initiation au tour et à l'émaillage en petit groupe."},
	{"Cours de cuisine", "Préparez un menu de saison avec un chef local."},
	{"Balade à vélo", "Découverte des quartiers historiques à vélo."},
	{"Escape game", "Une heure pour résoudre l'énigme en équipe."},
	{"Dégustation de vins", "Cinq vins de la région commentés par un sommelier."},
	{"Cours de yoga", "Séance matinale en plein air, tous niveaux."},
	{"Kayak", "Descente encadrée de la rivière, matériel fourni."},
	{"Visite guidée", "Les secrets de la vieille ville avec un guide."},
}

// Seed создаёт пользователей и по perUser активностей на каждого.
// Если пользователи уже есть, ничего не делает.
func (s *SeedService) Seed(ctx context.Context, perUser int) (*SeedResult, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed service: count users: %w", err)
	}
	if count > 0 {
		logger.Component("seed").WithField("users", count).Info("хранилище не пустое, сидирование пропущено")
		return &SeedResult{Skipped: true}, nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed service: hash password: %w", err)
	}

	result := &SeedResult{}
	for _, account := range seedAccounts {
		user := &models.User{
			Email:        account.Email,
			FirstName:    account.FirstName,
			LastName:     account.LastName,
			PasswordHash: string(passwordHash),
			Role:         models.RoleUser,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("seed service: create user %s: %w", account.Email, err)
		}
		result.Users = append(result.Users, user)

		for i := 0; i < perUser; i++ {
			tmpl := seedActivities[s.rnd.Intn(len(seedActivities))]
			activity := &models.Activity{
				Name:        tmpl.Name,
				City:        seedCities[s.rnd.Intn(len(seedCities))],
				Description: tmpl.Description,
				Price:       (s.rnd.Intn(20) + 1) * 5,
				OwnerID:     user.ID,
			}
			if err := s.activities.Create(ctx, activity); err != nil {
				return nil, fmt.Errorf("seed service: create activity: %w", err)
			}
			result.Activities++
		}
	}

	logger.Component("seed").WithField("users", len(result.Users)).WithField("activities", result.Activities).
		Info("демо-данные созданы")
	return result, nil
}
