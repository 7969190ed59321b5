package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/config"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Map driver specific unique violations onto gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Open connects using the configured dialect.
func Open(conf *config.DatabaseConfig) (*gorm.DB, error) {
	switch conf.Dialect {
	case "postgres", "":
		return OpenPostgres(conf.DSN())
	case "mysql":
		return OpenMySQL(conf.DSN())
	}

	return nil, fmt.Errorf("unsupported database dialect %q", conf.Dialect)
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open postgres -> %w", err)
	}

	return db, nil
}

func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open mysql -> %w", err)
	}

	return db, nil
}
