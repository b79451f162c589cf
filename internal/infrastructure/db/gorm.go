package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type PoolOptions struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

func DefaultPool() PoolOptions {
	return PoolOptions{MaxOpen: 30, MaxIdle: 10, MaxLifetime: 30 * time.Minute, MaxIdleTime: 10 * time.Minute}
}

// OpenGorm connects to MySQL and verifies the connection with a ping.
func OpenGorm(dsn string, gl gormlogger.Interface, pool PoolOptions, log *zap.Logger) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(mysql.Open(dsn), gl)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)
	log.Info("gorm: connected", zap.Int("max_open", pool.MaxOpen))
	return db, nil
}

// OpenGormWithDialector opens any dialector and pings it. A nil logger keeps gorm's default.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
// gorm's own open-time ping is off; the explicit ping below is the only one.
func OpenGormWithDialector(dial gorm.Dialector, gl gormlogger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true, DisableAutomaticPing: true}
	if gl != nil {
		cfg.Logger = gl
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
