package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"transport-payroll/internal/adapter/repository/mysql"
	"transport-payroll/internal/config"
	"transport-payroll/internal/infrastructure/db"
	"transport-payroll/internal/infrastructure/logger"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo drivers, vehicles, stations, routes and a per-ton rule")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN(),
		logger.NewGormLogger(log, logger.GormLevel(cfg.DBLogLevel), cfg.DBSlowThreshold()),
		db.DefaultPool(), log)
	if err != nil {
		log.Fatal("open mysql", zap.Error(err))
	}

	if err := mysql.AutoMigrate(gdb); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	log.Info("schema migrated", zap.Int("tables", len(mysql.Models())))

	if *seed {
		if err := seedDemo(context.Background(), gdb, log); err != nil {
			log.Fatal("seed", zap.Error(err))
		}
	}
}
