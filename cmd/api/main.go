package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpadp "transport-payroll/internal/adapter/http"
	"transport-payroll/internal/adapter/lock"
	"transport-payroll/internal/adapter/middleware"
	"transport-payroll/internal/adapter/repository/mysql"
	"transport-payroll/internal/config"
	"transport-payroll/internal/infrastructure/cache"
	"transport-payroll/internal/infrastructure/db"
	"transport-payroll/internal/infrastructure/logger"
	auditsvc "transport-payroll/internal/usecase/audit"
	salaryuc "transport-payroll/internal/usecase/salary"
	tripuc "transport-payroll/internal/usecase/trip"
)

func main() {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(),
		logger.NewGormLogger(log, logger.GormLevel(cfg.DBLogLevel), cfg.DBSlowThreshold()),
		db.DefaultPool(), log)
	if err != nil {
		log.Fatal("open mysql", zap.Error(err))
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("mysql handle", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}
	defer rdb.Close()

	repos := mysql.NewRepos(gdb)
	tx := mysql.NewGormUoW(gdb)
	audit := auditsvc.NewService(mysql.NewAuditRepository(gdb), log)
	trips := tripuc.NewUsecase(repos.Trips, tx, audit, log)
	salary := salaryuc.NewUsecase(repos, tx, lock.NewPeriodLocker(rdb, cfg.PeriodLockTTL()), audit, log)

	e := httpadp.NewRouter(httpadp.RouterDeps{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"mysql": sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Trips:  httpadp.NewTripHandler(trips),
		Salary: httpadp.NewSalaryHandler(salary),
		Redis:  rdb,
		Idempotency: middleware.IdempotencyOptions{
			TTL:          cfg.IdempotencyTTL(),
			MaxClockSkew: cfg.MaxClockSkew(),
		},
		Log: log,
	})

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
