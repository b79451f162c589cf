package salary

import (
	"context"
	"testing"
	"time"

	"transport-payroll/internal/adapter/lock"
	"transport-payroll/internal/adapter/repository/mysql"
	"transport-payroll/internal/domain/actor"
	"transport-payroll/internal/domain/apperr"
	"transport-payroll/internal/domain/audit"
	domain "transport-payroll/internal/domain/salary"
	"transport-payroll/internal/domain/trip"
	"transport-payroll/internal/domain/uow"
	"transport-payroll/internal/testutil/auditmock"
	"transport-payroll/internal/testutil/sqlitedb"
	"transport-payroll/internal/testutil/uowmock"
	tripuc "transport-payroll/internal/usecase/trip"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db    *gorm.DB
	refs  sqlitedb.Refs
	repos uow.Repos
	uc    *Usecase
	trips *tripuc.Usecase
	audit *auditmock.Recorder
	redis *miniredis.Miniredis
	lock  *lock.PeriodLocker
	ctx   context.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := sqlitedb.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repos := mysql.NewRepos(db)
	tx := mysql.NewGormUoW(db)
	locker := lock.NewPeriodLocker(rdb, time.Minute)
	rec := &auditmock.Recorder{}
	return &env{
		db:    db,
		refs:  sqlitedb.SeedRefs(t, db),
		repos: repos,
		uc:    NewUsecase(repos, tx, locker, rec, zap.NewNop()),
		trips: tripuc.NewUsecase(repos.Trips, tx, rec, zap.NewNop()),
		audit: rec,
		redis: mr,
		lock:  locker,
		ctx: actor.WithActor(context.Background(), actor.Actor{
			UserID: "hr-1", Roles: []actor.Role{actor.RoleHR, actor.RoleAdmin},
		}),
	}
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

func (e *env) rule(t *testing.T, rate string, from time.Time) *domain.Rule {
	t.Helper()
	r, err := e.uc.CreateRule(e.ctx, CreateRuleInput{Name: "Base " + rate, RatePerTon: decimal.RequireFromString(rate), EffectiveFrom: from})
	require.NoError(t, err)
	return r
}

func (e *env) period(t *testing.T, start, end time.Time) *domain.Period {
	t.Helper()
	p, err := e.uc.CreatePeriod(e.ctx, CreatePeriodInput{PeriodStart: start, PeriodEnd: end})
	require.NoError(t, err)
	return p
}

// approvedTrip runs a trip through create, submit and approve.
func (e *env) approvedTrip(t *testing.T, driverID string, date time.Time, loaded, final decimal.NullDecimal) *trip.Trip {
	t.Helper()
	tr, err := e.trips.Create(e.ctx, tripuc.CreateInput{
		DriverID: driverID, VehicleID: e.refs.VehicleID, RouteID: e.refs.RouteID,
		OriginID: e.refs.OriginID, DestinationID: e.refs.DestinationID,
		TripDate: date, WeightLoaded: loaded,
	})
	require.NoError(t, err)
	_, err = e.trips.Submit(e.ctx, tr.ID)
	require.NoError(t, err)
	d, err := e.trips.Approve(e.ctx, tr.ID, final)
	require.NoError(t, err)
	return d.Trip
}

func TestEndToEnd_FirstHalfOfDecember(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))

	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))
	assert.Equal(t, "2024-12-P1", p.Code)
	assert.Equal(t, "2024-12-P1", p.Name)
	assert.Equal(t, domain.PeriodOpen, p.Status)

	// approved out of date order; the breakdown must still be by trip date
	second := e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 9), nd("15.0"), decimal.NullDecimal{})
	first := e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 3), nd("15.0"), nd("14.2"))

	sum, err := e.uc.Recalculate(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalDrivers)
	assert.Equal(t, 2, sum.TotalTrips)
	assert.True(t, sum.TotalWeight.Equal(decimal.RequireFromString("29.2")), sum.TotalWeight.String())
	assert.True(t, sum.TotalAmount.Equal(decimal.NewFromInt(1460000)), sum.TotalAmount.String())
	require.NotNil(t, sum.RuleUsed)
	assert.True(t, sum.RuleUsed.RatePerTon.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, domain.PeriodOpen, sum.Period.Status)
	assert.EqualValues(t, 1, sum.Period.ResultCount)

	res, err := e.uc.GetDriverResult(e.ctx, p.ID, e.refs.DriverID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", res.DriverName)
	assert.Equal(t, 2, res.TotalTrips)
	assert.True(t, res.TotalSalary.Equal(decimal.NewFromInt(1460000)))

	bd := res.Breakdown()
	require.Len(t, bd, 2)
	assert.Equal(t, first.ID, bd[0].TripID)
	assert.Equal(t, second.ID, bd[1].TripID)
	assert.True(t, bd[0].Weight.Equal(decimal.RequireFromString("14.2")))
	assert.True(t, bd[1].Weight.Equal(decimal.NewFromInt(15)))
	assert.True(t, bd[0].Amount.Equal(decimal.NewFromInt(710000)))
	assert.Equal(t, "Mine A - Port B", bd[0].RouteName)
}

func TestRecalculate_IsRepeatable(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))
	e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 2), nd("10"), decimal.NullDecimal{})
	e.approvedTrip(t, e.refs.OtherDriverID, day(2024, 12, 2), nd("20"), decimal.NullDecimal{})
	// outside the period and not approved: both ignored
	e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 16), nd("99"), decimal.NullDecimal{})
	_, err := e.trips.Create(e.ctx, tripuc.CreateInput{
		DriverID: e.refs.DriverID, VehicleID: e.refs.VehicleID, RouteID: e.refs.RouteID,
		OriginID: e.refs.OriginID, DestinationID: e.refs.DestinationID,
		TripDate: day(2024, 12, 5), WeightLoaded: nd("50"),
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		sum, err := e.uc.Recalculate(e.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, sum.TotalDrivers)
		assert.True(t, sum.TotalAmount.Equal(decimal.NewFromInt(1500000)))
	}

	views, err := e.uc.GetResults(e.ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, views, 2, "old results are replaced, not appended")
	assert.Equal(t, e.refs.OtherDriverID, views[0].DriverID, "ordered by total salary desc")

	only, err := e.uc.GetResults(e.ctx, p.ID, e.refs.DriverID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, e.refs.DriverID, only[0].DriverID)
}

func TestRecalculate_NoActiveRule(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2025, 1, 1))
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))

	_, err := e.uc.Recalculate(e.ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNoActiveRule)
	assert.True(t, apperr.IsBadRequest(err))

	got, err := e.repos.Periods.GetByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, got.Status)
}

func TestRecalculate_UsesRuleInForceAtPeriodStart(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "40000", day(2024, 1, 1))
	e.rule(t, "45000", day(2024, 12, 1))
	e.rule(t, "47000", day(2024, 12, 1)) // same day, higher version
	e.rule(t, "90000", day(2024, 12, 2)) // starts after the period start
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))
	e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 3), nd("1"), decimal.NullDecimal{})

	sum, err := e.uc.Recalculate(e.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, sum.RuleUsed.RatePerTon.Equal(decimal.NewFromInt(47000)))
}

func TestRecalculate_LockHeldElsewhere(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))

	release, ok, err := e.lock.Acquire(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.uc.Recalculate(e.ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrRecalcRunning)
	assert.True(t, apperr.IsConflict(err))

	require.NoError(t, release(context.Background()))
	_, err = e.uc.Recalculate(e.ctx, p.ID)
	assert.NoError(t, err)
}

func TestRecalculate_ResetsPeriodOnFailure(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))

	base := mysql.NewGormUoW(e.db)
	calls := 0
	tx := &uowmock.UoW{
		WithinPeriodTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *domain.Period) error) error {
			calls++
			if calls == 2 {
				return assert.AnError
			}
			return base.WithinPeriodTx(ctx, id, fn)
		},
	}
	uc := NewUsecase(e.repos, tx, e.lock, e.audit, zap.NewNop())

	_, err := uc.Recalculate(e.ctx, p.ID)
	assert.ErrorIs(t, err, assert.AnError)

	got, err := e.repos.Periods.GetByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, got.Status)
	assert.False(t, e.redis.Exists("lock:salary:period:"+p.ID), "lock released")
}

func TestRecalculate_Missing(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Recalculate(e.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestClosePeriod(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))

	_, err := e.uc.ClosePeriod(e.ctx, p.ID, "hr-1")
	assert.ErrorIs(t, err, domain.ErrNoResults)

	e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 3), nd("10"), decimal.NullDecimal{})
	_, err = e.uc.Recalculate(e.ctx, p.ID)
	require.NoError(t, err)

	closed, err := e.uc.ClosePeriod(e.ctx, p.ID, "hr-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodLocked, closed.Status)
	require.NotNil(t, closed.LockedAt)
	require.NotNil(t, closed.LockedByID)
	assert.Equal(t, "hr-1", *closed.LockedByID)
	assert.Equal(t, audit.ActionUpdate, e.audit.Last().Action)
	assert.Equal(t, audit.EntitySalaryPeriods, e.audit.Last().Entity)

	_, err = e.uc.ClosePeriod(e.ctx, p.ID, "hr-1")
	assert.ErrorIs(t, err, domain.ErrPeriodAlreadyClosed)

	before, err := e.uc.GetResults(e.ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = e.uc.Recalculate(e.ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPeriodLocked)
	assert.Equal(t, "cannot recalculate closed period", err.Error())

	after, err := e.uc.GetResults(e.ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.True(t, before[0].CalculatedAt.Equal(after[0].CalculatedAt))
	assert.Equal(t, before[0].CalculationVersion, after[0].CalculationVersion)
	assert.True(t, before[0].TotalSalary.Equal(after[0].TotalSalary))

	stored, err := e.uc.GetPeriod(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodLocked, stored.Period.Status)
}

func TestClosePeriod_WhileCalculating(t *testing.T) {
	e := newEnv(t)
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))
	require.NoError(t, e.db.Model(&domain.Period{}).Where("id = ?", p.ID).Update("status", domain.PeriodCalculating).Error)

	_, err := e.uc.ClosePeriod(e.ctx, p.ID, "hr-1")
	assert.ErrorIs(t, err, domain.ErrPeriodCalculating)
}

func TestCreatePeriod(t *testing.T) {
	e := newEnv(t)

	p, err := e.uc.CreatePeriod(e.ctx, CreatePeriodInput{Name: "Late Dec", PeriodStart: day(2024, 12, 16), PeriodEnd: day(2024, 12, 31)})
	require.NoError(t, err)
	assert.Equal(t, "2024-12-P2", p.Code)
	assert.Equal(t, "Late Dec", p.Name)
	assert.Equal(t, "hr-1", p.CreatedByID)
	assert.Equal(t, audit.ActionCreate, e.audit.Last().Action)

	_, err = e.uc.CreatePeriod(e.ctx, CreatePeriodInput{PeriodStart: day(2024, 12, 20), PeriodEnd: day(2024, 12, 31)})
	assert.ErrorIs(t, err, domain.ErrPeriodExists)

	_, err = e.uc.CreatePeriod(e.ctx, CreatePeriodInput{PeriodStart: day(2025, 1, 15), PeriodEnd: day(2025, 1, 15)})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriodRange)

	_, err = e.uc.CreatePeriod(e.ctx, CreatePeriodInput{PeriodEnd: day(2025, 1, 15)})
	assert.ErrorIs(t, err, domain.ErrPeriodDatesRequired)
}

func TestListAndGetPeriods(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))
	older := e.period(t, day(2024, 11, 1), day(2024, 11, 15))
	newer := e.period(t, day(2024, 12, 1), day(2024, 12, 15))
	e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 3), nd("10"), decimal.NullDecimal{})
	_, err := e.uc.Recalculate(e.ctx, newer.ID)
	require.NoError(t, err)

	ps, err := e.uc.ListPeriods(e.ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, newer.ID, ps[0].ID)
	assert.EqualValues(t, 1, ps[0].ResultCount)
	assert.Equal(t, older.ID, ps[1].ID)
	assert.EqualValues(t, 0, ps[1].ResultCount)

	d, err := e.uc.GetPeriod(e.ctx, newer.ID)
	require.NoError(t, err)
	require.Len(t, d.Results, 1)
	assert.Equal(t, "Budi", d.Results[0].DriverName)

	_, err = e.uc.GetPeriod(e.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)

	_, err = e.uc.GetDriverResult(e.ctx, newer.ID, e.refs.OtherDriverID)
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestExportData(t *testing.T) {
	e := newEnv(t)
	e.rule(t, "50000", day(2024, 1, 1))
	p := e.period(t, day(2024, 12, 1), day(2024, 12, 15))
	e.approvedTrip(t, e.refs.DriverID, day(2024, 12, 3), nd("10"), decimal.NullDecimal{})
	e.approvedTrip(t, e.refs.OtherDriverID, day(2024, 12, 4), nd("5"), decimal.NullDecimal{})
	_, err := e.uc.Recalculate(e.ctx, p.ID)
	require.NoError(t, err)

	x, err := e.uc.ExportData(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, x.Period.ID)
	assert.Len(t, x.Results, 2)
	assert.Equal(t, 2, x.Summary.TotalDrivers)
	assert.True(t, x.Summary.TotalAmount.Equal(decimal.NewFromInt(750000)))
}

func TestCreateRule(t *testing.T) {
	e := newEnv(t)

	r1 := e.rule(t, "50000", day(2024, 12, 1))
	r2 := e.rule(t, "55000", day(2024, 12, 1))
	other := e.rule(t, "60000", day(2025, 1, 1))
	assert.Equal(t, 1, r1.Version)
	assert.Equal(t, 2, r2.Version)
	assert.Equal(t, 1, other.Version)
	assert.Equal(t, domain.RulePerTon, r1.RuleType)
	assert.True(t, r1.IsActive)
	assert.Equal(t, audit.EntitySalaryRules, e.audit.Last().Entity)

	route := e.refs.RouteID
	scoped, err := e.uc.CreateRule(e.ctx, CreateRuleInput{
		RatePerTon: decimal.NewFromInt(70000), EffectiveFrom: day(2024, 12, 1), RouteID: &route,
		Config: map[string]any{"note": "long haul"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, scoped.Version, "route-scoped rules version separately")
	assert.Equal(t, "long haul", scoped.ConfigJSON["note"])
	assert.Equal(t, "Per ton rate 2024-12-01", scoped.Name)

	_, err = e.uc.CreateRule(e.ctx, CreateRuleInput{RatePerTon: decimal.Zero, EffectiveFrom: day(2024, 1, 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
	to := day(2023, 1, 1)
	_, err = e.uc.CreateRule(e.ctx, CreateRuleInput{RatePerTon: decimal.NewFromInt(1), EffectiveFrom: day(2024, 1, 1), EffectiveTo: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidRuleRange)

	rules, err := e.uc.ListRules(e.ctx, true)
	require.NoError(t, err)
	assert.Len(t, rules, 4)

	active, err := e.uc.ActiveRule(e.ctx, day(2024, 12, 20))
	require.NoError(t, err)
	assert.Equal(t, r2.ID, active.ID)
	_, err = e.uc.ActiveRule(e.ctx, day(2024, 6, 1))
	assert.ErrorIs(t, err, domain.ErrNoActiveRule)
}
