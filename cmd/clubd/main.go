package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pdh8788/club/api"
	"github.com/pdh8788/club/auth"
	"github.com/pdh8788/club/config"
	"github.com/pdh8788/club/logger"
	"github.com/pdh8788/club/membership"
	"github.com/pdh8788/club/note"
	"github.com/pdh8788/club/persistence"
	"github.com/pdh8788/club/session"
	"github.com/pdh8788/club/token"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	defer logger.Log.Sync()

	logger.Log.Info("Starting Club Service",
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBType),
	)

	store, err := persistence.NewStorage(cfg.DBType, cfg.DSN, nil)
	if err != nil {
		logger.Log.Fatal("failed to initialize storage", zap.Error(err))
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	authenticator := auth.NewAuthenticator(store, hasher)
	social := auth.NewSocialResolver(store, hasher)
	codec := token.NewCodec(cfg.TokenSecret, cfg.TokenValidity)
	sessions := session.NewManager(store)
	notes := note.NewService(store)
	memberships := membership.NewService(store)

	var oidcManager *api.OIDCManager
	if len(cfg.OIDCProviders) > 0 {
		oidcManager, err = api.NewOIDCManager(context.Background(), cfg.OIDCProviders)
		if err != nil {
			logger.Log.Error("failed to initialize OIDC providers", zap.Error(err))
		}
	}

	h := api.NewHandler(authenticator, social, codec, sessions, store, hasher,
		notes, memberships, oidcManager, cfg.ProtectedPath)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h.RegisterRoutes(e)

	logger.Log.Info("Server is starting", zap.Int("port", cfg.Port))
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Log.Fatal("server failed to start", zap.Error(err))
	}
}
