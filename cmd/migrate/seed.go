package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transport-payroll/internal/adapter/repository/mysql"
	"transport-payroll/internal/domain/actor"
	"transport-payroll/internal/domain/reference"
	auditsvc "transport-payroll/internal/usecase/audit"
	salaryuc "transport-payroll/internal/usecase/salary"
	"transport-payroll/pkg/id"
)

// seedDemo is safe to rerun: rows whose unique code already exists are skipped
// and the rule is only added when no active rule exists.
func seedDemo(ctx context.Context, gdb *gorm.DB, log *zap.Logger) error {
	mine, port := id.NewID32(), id.NewID32()
	rows := []any{
		&[]reference.Driver{
			{ID: id.NewID32(), EmployeeCode: "DRV-001", Name: "Budi Santoso"},
			{ID: id.NewID32(), EmployeeCode: "DRV-002", Name: "Sari Wulandari"},
		},
		&[]reference.Vehicle{
			{ID: id.NewID32(), PlateNo: "KT 8123 AB", VehicleType: "dump truck", Model: "Hino 500"},
		},
		&[]reference.Station{
			{ID: mine, Code: "MINE-A", Name: "Mine A"},
			{ID: port, Code: "PORT-B", Name: "Port B"},
		},
		&[]reference.Route{
			{ID: id.NewID32(), Code: "MINEA-PORTB", Name: "Mine A - Port B", OriginID: mine, DestinationID: port, DistanceKm: 42.5},
		},
	}
	for _, r := range rows {
		if err := gdb.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(r).Error; err != nil {
			return err
		}
	}

	ctx = actor.WithActor(ctx, actor.Actor{UserID: "system:migrate", Roles: []actor.Role{actor.RoleAdmin}})
	salary := salaryuc.NewUsecase(mysql.NewRepos(gdb), mysql.NewGormUoW(gdb), nil,
		auditsvc.NewService(mysql.NewAuditRepository(gdb), log), log)
	active, err := salary.ListRules(ctx, true)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		log.Info("seed: rule already present", zap.String("rule_id", active[0].ID))
		return nil
	}
	rule, err := salary.CreateRule(ctx, salaryuc.CreateRuleInput{
		Name:          "Base per ton rate",
		RatePerTon:    decimal.NewFromInt(50000),
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}
	log.Info("seed: done", zap.String("rule_id", rule.ID))
	return nil
}
