package mysql

import (
	"context"
	"errors"
	"testing"

	"transport-payroll/internal/domain/salary"
	"transport-payroll/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func makeRule(from int, version int, active bool) *salary.Rule {
	return &salary.Rule{
		ID:            id.NewID32(),
		Name:          "Standard per ton",
		RuleType:      salary.RulePerTon,
		RateAmount:    decimal.NewFromInt(50000),
		EffectiveFrom: day(2024, 1, from),
		Version:       version,
		IsActive:      active,
	}
}

func TestRule_ListActiveAndMaxVersion(t *testing.T) {
	db := openTestDB(t)
	repo := NewRuleRepository(db)
	ctx := context.Background()

	v1 := makeRule(1, 1, true)
	v2 := makeRule(1, 2, true)
	inactive := makeRule(1, 3, false)
	future := makeRule(20, 1, true)
	expired := makeRule(1, 1, true)
	end := day(2024, 1, 5)
	expired.EffectiveTo = &end
	routeID := id.NewID32()
	expired.RouteID = &routeID
	for _, r := range []*salary.Rule{v1, v2, inactive, future, expired} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	active, err := repo.ListActive(ctx, day(2024, 1, 10))
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 || active[0].ID != v2.ID || active[1].ID != v1.ID {
		t.Fatalf("unexpected active rules: %+v", active)
	}

	got, err := salary.ResolveActive(active, day(2024, 1, 10))
	if err != nil || got.ID != v2.ID {
		t.Fatalf("resolve: %+v %v", got, err)
	}

	max, err := repo.MaxVersion(ctx, day(2024, 1, 1), nil)
	if err != nil || max != 3 {
		t.Fatalf("MaxVersion global: %d %v", max, err)
	}
	max, err = repo.MaxVersion(ctx, day(2024, 1, 1), &routeID)
	if err != nil || max != 1 {
		t.Fatalf("MaxVersion route: %d %v", max, err)
	}
	max, err = repo.MaxVersion(ctx, day(2024, 3, 1), nil)
	if err != nil || max != 0 {
		t.Fatalf("MaxVersion none: %d %v", max, err)
	}

	all, err := repo.List(ctx, false)
	if err != nil || len(all) != 5 || all[0].ID != future.ID {
		t.Fatalf("List all: len=%d err=%v", len(all), err)
	}
	onlyActive, err := repo.List(ctx, true)
	if err != nil || len(onlyActive) != 4 {
		t.Fatalf("List active: len=%d err=%v", len(onlyActive), err)
	}
}

func TestPeriod_CreateUniqueCode(t *testing.T) {
	db := openTestDB(t)
	repo := NewPeriodRepository(db)
	ctx := context.Background()

	p, err := salary.NewPeriod("December first half", day(2024, 12, 1), day(2024, 12, 15))
	if err != nil {
		t.Fatal(err)
	}
	p.ID = id.NewID32()
	if err := repo.Create(ctx, &p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := p
	dup.ID = id.NewID32()
	if err := repo.Create(ctx, &dup); err == nil {
		t.Fatalf("expected unique violation on code")
	}

	got, err := repo.GetByCode(ctx, "2024-12-P1")
	if err != nil || got.ID != p.ID {
		t.Fatalf("GetByCode: %+v %v", got, err)
	}
	if _, err := repo.GetByID(ctx, id.NewID32()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPeriod_ResetIfCalculating(t *testing.T) {
	db := openTestDB(t)
	repo := NewPeriodRepository(db)
	ctx := context.Background()

	calc := salary.Period{ID: id.NewID32(), Code: "2024-11-P2", PeriodStart: day(2024, 11, 16), PeriodEnd: day(2024, 11, 30), Status: salary.PeriodCalculating}
	locked := salary.Period{ID: id.NewID32(), Code: "2024-11-P1", PeriodStart: day(2024, 11, 1), PeriodEnd: day(2024, 11, 15), Status: salary.PeriodLocked}
	for _, p := range []*salary.Period{&calc, &locked} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	ok, err := repo.ResetIfCalculating(ctx, calc.ID)
	if err != nil || !ok {
		t.Fatalf("reset calculating: ok=%v err=%v", ok, err)
	}
	ok, err = repo.ResetIfCalculating(ctx, locked.ID)
	if err != nil || ok {
		t.Fatalf("locked period must not be reset: ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetByID(ctx, locked.ID)
	if got.Status != salary.PeriodLocked {
		t.Fatalf("locked period changed to %s", got.Status)
	}
	got, _ = repo.GetByID(ctx, calc.ID)
	if got.Status != salary.PeriodOpen {
		t.Fatalf("calculating period is %s", got.Status)
	}
}

func TestResult_ReplaceAndList(t *testing.T) {
	db := openTestDB(t)
	periods := NewPeriodRepository(db)
	results := NewResultRepository(db)
	ctx := context.Background()

	p := salary.Period{ID: id.NewID32(), Code: "2024-12-P1", PeriodStart: day(2024, 12, 1), PeriodEnd: day(2024, 12, 15), Status: salary.PeriodOpen}
	if err := periods.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	d1, d2 := id.NewID32(), id.NewID32()
	mk := func(driverID string, amount int64) salary.Result {
		return salary.Result{
			ID:          id.NewID32(),
			PeriodID:    p.ID,
			DriverID:    driverID,
			TotalTrips:  1,
			TotalWeight: decimal.NewFromInt(10),
			BaseSalary:  decimal.NewFromInt(amount),
			TotalSalary: decimal.NewFromInt(amount),
			CalculationDetails: datatypes.NewJSONType([]salary.BreakdownEntry{
				{TripID: "t", TripCode: "TR241201-AAAA", Weight: decimal.NewFromInt(10), Amount: decimal.NewFromInt(amount)},
			}),
			CalculationVersion: salary.CalculationVersion,
		}
	}
	if err := results.CreateBatch(ctx, []salary.Result{mk(d1, 100), mk(d2, 300)}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := results.CreateBatch(ctx, []salary.Result{mk(d1, 1)}); err == nil {
		t.Fatalf("expected unique (period, driver) violation")
	}

	list, err := results.ListByPeriod(ctx, p.ID, "")
	if err != nil || len(list) != 2 || list[0].DriverID != d2 {
		t.Fatalf("ListByPeriod order: %+v err=%v", list, err)
	}
	if bd := list[0].Breakdown(); len(bd) != 1 || bd[0].TripCode != "TR241201-AAAA" {
		t.Fatalf("breakdown round trip: %+v", bd)
	}

	one, err := results.ListByPeriod(ctx, p.ID, d1)
	if err != nil || len(one) != 1 {
		t.Fatalf("driver filter: %+v %v", one, err)
	}
	if _, err := results.GetByPeriodDriver(ctx, p.ID, d2); err != nil {
		t.Fatalf("GetByPeriodDriver: %v", err)
	}

	listed, err := periods.List(ctx, "", 10)
	if err != nil || len(listed) != 1 || listed[0].ResultCount != 2 {
		t.Fatalf("period list counts: %+v %v", listed, err)
	}

	if err := results.DeleteByPeriod(ctx, p.ID); err != nil {
		t.Fatalf("DeleteByPeriod: %v", err)
	}
	n, err := results.CountByPeriod(ctx, p.ID)
	if err != nil || n != 0 {
		t.Fatalf("count after delete: %d %v", n, err)
	}
}
