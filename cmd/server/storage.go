package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ignatzorin/activity-favorites/internal/config"
	"github.com/ignatzorin/activity-favorites/internal/db"
	"github.com/ignatzorin/activity-favorites/internal/http/handlers"
	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/repository"
	"github.com/ignatzorin/activity-favorites/internal/repository/memstore"
	"github.com/ignatzorin/activity-favorites/internal/repository/mongostore"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// userStore объединяет то, что сервисам нужно от хранилища пользователей.
type userStore interface {
	service.AuthRepository
	Count(ctx context.Context) (int, error)
}

// storage держит репозитории выбранного драйвера и их проверки здоровья.
type storage struct {
	users      userStore
	activities service.ActivityRepository
	favorites  service.FavoriteRepository
	checks     map[string]handlers.Pinger
	closers    []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func (s *storage) seeder(seed int64) *service.SeedService {
	return service.NewSeedService(s.users, s.activities, seed)
}

// openStorage подключается к хранилищу из STORAGE_DRIVER.
// Для postgres применяются миграции, для mongo создаются индексы.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	log := logger.Component("main")
	st := &storage{checks: make(map[string]handlers.Pinger)}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
		}
		st.closers = append(st.closers, func() {
			if err := conn.Close(); err != nil {
				log.WithError(err).Warn("ошибка закрытия базы")
			}
		})
		if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			st.close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		st.users = repository.NewUserRepository(conn)
		st.activities = repository.NewActivityRepository(conn)
		st.favorites = repository.NewFavoriteRepository(conn)
		st.checks["database"] = conn.PingContext

	case config.StorageMongo:
		client, err := db.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к mongo: %w", err)
		}
		st.closers = append(st.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(shutdownCtx); err != nil {
				log.WithError(err).Warn("ошибка отключения от mongo")
			}
		})
		database := client.Database(cfg.MongoDatabase)
		if err := db.EnsureIndexes(ctx, database); err != nil {
			st.close()
			return nil, fmt.Errorf("ошибка создания индексов: %w", err)
		}
		st.users = mongostore.NewUserStore(database)
		st.activities = mongostore.NewActivityStore(database)
		st.favorites = mongostore.NewFavoriteStore(database)
		st.checks["database"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }

	case config.StorageMemory:
		log.Warn("данные хранятся в памяти и пропадут после остановки")
		st.users = memstore.NewUserStore()
		st.activities = memstore.NewActivityStore()
		st.favorites = memstore.NewFavoriteStore()

	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища %q", cfg.StorageDriver)
	}

	return st, nil
}

// openRedis возвращает nil, если REDIS_URL не задан.
func openRedis(ctx context.Context, cfg *config.Config, st *storage) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("некорректный REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis недоступен: %w", err)
	}

	st.closers = append(st.closers, func() { _ = client.Close() })
	st.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return client, nil
}
