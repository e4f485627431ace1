package database

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"donation-core/pkg/config"
	"donation-core/pkg/logger"
)

// ConnectPostgres 打开连接池并校验连通性
func ConnectPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(PostgresDSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s:%s/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Named("database").Info("postgres connected",
		zap.String("host", cfg.Host), zap.String("port", cfg.Port), zap.String("db", cfg.Name))
	return db, nil
}

// PostgresDSN gorm 使用的 key=value DSN
func PostgresDSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
}

// MigrateURL golang-migrate 使用的 URL 形式
func MigrateURL(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
