package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/config"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/db"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/logger"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/repository"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/session"
)

const (
	configPath     = "./cmd/app/config.yml"
	janitorEvery   = 15 * time.Minute
	janitorTimeout = 30 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	config.Watch(configPath, func(updated *config.AppConfig, err error) {
		if err != nil {
			zap.L().Warn("config reload failed", zap.Error(err))
			return
		}
		if err := logger.SetLevel(updated.Log.Level); err != nil {
			zap.L().Warn("log level not changed", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", updated.Log.Level))
	})

	persisters, err := sessionPersistence(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize sessions -> %w", err)
	}

	s := api.NewServer(conf, persisters)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr), zap.String("upstream", conf.Upstream.BaseURL))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func sessionPersistence(conf *config.AppConfig) (session.PersisterFactory, error) {
	store, err := session.NewCookieStore(conf.Session)
	if err != nil {
		return nil, err
	}

	if conf.Session.Driver == config.SessionDriverCookie {
		return session.CookieFactory(store), nil
	}

	database, err := db.Open(conf.Database)
	if err != nil {
		return nil, err
	}
	if err = dao.InitTables(database); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	repo := repository.NewSessionRepository(dao.NewSessionDAO(database))
	go sweepExpired(repo)

	return session.DatabaseFactory(store, repo), nil
}

func sweepExpired(repo *repository.SessionRepository) {
	ticker := time.NewTicker(janitorEvery)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), janitorTimeout)
		n, err := repo.DeleteExpired(ctx, time.Now())
		cancel()

		if err != nil {
			zap.L().Error("failed to delete expired sessions", zap.Error(err))
			continue
		}
		if n > 0 {
			zap.L().Debug("expired sessions deleted", zap.Int64("count", n))
		}
	}
}
