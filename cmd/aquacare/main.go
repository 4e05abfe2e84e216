package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"

	"github.com/SergeyKozhin/aquacare-backend/internal/api"
	events_service "github.com/SergeyKozhin/aquacare-backend/internal/business/events"
	"github.com/SergeyKozhin/aquacare-backend/internal/business/subscriptions"
	"github.com/SergeyKozhin/aquacare-backend/internal/config"
	"github.com/SergeyKozhin/aquacare-backend/internal/database"
	"github.com/SergeyKozhin/aquacare-backend/internal/database/events"
	"github.com/SergeyKozhin/aquacare-backend/internal/database/fish"
	"github.com/SergeyKozhin/aquacare-backend/internal/database/user"
	"github.com/SergeyKozhin/aquacare-backend/internal/pkg/jwt"
	"github.com/SergeyKozhin/aquacare-backend/internal/redis"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	if config.PostgresURL() == "" {
		log.Fatal("POSTGRES_URL must be set")
	}
	if config.Secret() == "" {
		log.Fatal("SECRET must be set")
	}

	jwts := jwt.NewManger()

	redisPool := redis.NewRedisPool(logger)
	refreshTokens := redis.NewRefreshTokenRepository(redisPool, logger)

	db, err := database.NewPGX(ctx)
	if err != nil {
		log.Fatalf("unable to initialize db: %v", err)
	}
	usersRepository := user.NewRepository()
	fishRepository := fish.NewRepository()
	eventsRepository := events.NewRepository()

	subscriptionManager := subscriptions.NewManager(db, eventsRepository, logger)
	eventsService := events_service.NewService(db, eventsRepository, fishRepository, subscriptionManager)

	api, err := api.NewApi(
		logger,
		rand.Reader,
		jwts,
		refreshTokens,
		db,
		usersRepository,
		fishRepository,
		eventsService,
		subscriptionManager,
	)
	if err != nil {
		logger.Fatalw("error initiating api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
