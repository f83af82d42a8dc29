package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/activity-favorites/internal/goroutine"
	"github.com/ignatzorin/activity-favorites/internal/graph"
	httpHandlers "github.com/ignatzorin/activity-favorites/internal/http/handlers"
	"github.com/ignatzorin/activity-favorites/internal/http/handlers/common"
	"github.com/ignatzorin/activity-favorites/internal/http/middleware"
	httpRouter "github.com/ignatzorin/activity-favorites/internal/http/router"
	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/service"
	"github.com/ignatzorin/activity-favorites/internal/ws"
)

func newServeCommand() *cobra.Command {
	var seedDemo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер (REST, GraphQL, WebSocket)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), seedDemo)
		},
	}
	cmd.Flags().BoolVar(&seedDemo, "seed", false, "заполнить пустое хранилище демо-данными перед стартом")
	return cmd
}

func serve(ctx context.Context, seedDemo bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Component("main")

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := openRedis(ctx, cfg, st)
	if err != nil {
		return err
	}
	limiterStore, err := middleware.NewLimiterStore(redisClient)
	if err != nil {
		return err
	}

	if seedDemo && !cfg.IsProduction() {
		if _, err := st.seeder(time.Now().UnixNano()).Seed(ctx, 5); err != nil {
			log.WithError(err).Warn("сидирование не удалось")
		}
	}

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(st.users, tokenManager)
	activityService := service.NewActivityService(st.activities).WithCache(service.NewCache(ctx))

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	favoriteAPI := service.NewFavoriteAPIService(service.NewFavoriteService(st.favorites), st.users, activityService, hub)

	schema, err := graph.NewSchema(&graph.Resolver{
		Favorites:  favoriteAPI,
		Activities: activityService,
		Auth:       authService,
		Throttler:  middleware.NewOperationThrottler(limiterStore),
	})
	if err != nil {
		return err
	}

	// HTTP хэндлеры.
	cookie := common.AuthCookie{Name: cfg.AuthCookieName, Domain: cfg.FrontendDomain, Secure: cfg.IsProduction()}
	engine := httpRouter.SetupRouter(cfg, limiterStore, tokenManager, httpRouter.Handlers{
		Auth:       httpHandlers.NewAuthHandler(authService, cookie),
		Activities: httpHandlers.NewActivityHandler(activityService),
		Favorites:  httpHandlers.NewFavoriteHandler(favoriteAPI),
		GraphQL:    httpHandlers.NewGraphQLHandler(schema, cookie),
		WS:         httpHandlers.NewWSHandler(hub, tokenManager, cfg.AuthCookieName, cfg.AllowedOrigins),
		Health:     httpHandlers.NewHealthHandler(st.checks),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ошибка остановки http сервера")
		}
	})

	log.WithField("port", cfg.HTTPPort).WithField("driver", cfg.StorageDriver).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
