package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/activity-favorites/internal/config"
	"github.com/ignatzorin/activity-favorites/internal/logger"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Printf("main: %v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "favorites",
		Short:         "Сервис избранных активностей",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newSeedCommand())
	return root
}

// loadConfig читает конфигурацию и настраивает логгер.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	return cfg, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции Postgres или создать индексы Mongo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.close()

			logger.Component("main").WithField("driver", cfg.StorageDriver).Info("схема хранилища актуальна")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var perUser int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Заполнить пустое хранилище демо-данными",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.close()

			res, err := st.seeder(seed).Seed(cmd.Context(), perUser)
			if err != nil {
				return err
			}

			seedLog := logger.Component("seed")
			if res.Skipped {
				seedLog.Info("пользователи уже есть, сидирование пропущено")
				return nil
			}
			seedLog.WithField("users", len(res.Users)).WithField("activities", res.Activities).Info("демо-данные созданы")
			return nil
		},
	}
	cmd.Flags().IntVar(&perUser, "per-user", 5, "активностей на пользователя")
	cmd.Flags().Int64Var(&seed, "seed", 42, "seed генератора случайных чисел")
	return cmd
}
