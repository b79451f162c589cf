package salary

import (
	"context"
	"errors"
	"strings"
	"time"

	"transport-payroll/internal/domain/actor"
	"transport-payroll/internal/domain/audit"
	domain "transport-payroll/internal/domain/salary"
	"transport-payroll/internal/domain/trip"
	"transport-payroll/internal/domain/uow"
	"transport-payroll/pkg/id"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Usecase struct {
	repos  uow.Repos
	uow    uow.UnitOfWork
	locker domain.PeriodLocker
	audit  audit.Logger
	log    *zap.Logger
	now    func() time.Time
}

// NewUsecase takes repos for plain reads; every write goes through tx.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, locker domain.PeriodLocker, auditLog audit.Logger, log *zap.Logger) *Usecase {
	return &Usecase{
		repos:  repos,
		uow:    tx,
		locker: locker,
		audit:  auditLog,
		log:    log.Named("salary"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func periodNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrPeriodNotFound
	}
	return err
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *Usecase) CreatePeriod(ctx context.Context, in CreatePeriodInput) (*domain.Period, error) {
	var start, end time.Time
	if !in.PeriodStart.IsZero() {
		start = dateOnly(in.PeriodStart)
	}
	if !in.PeriodEnd.IsZero() {
		end = dateOnly(in.PeriodEnd)
	}
	p, err := domain.NewPeriod(strings.TrimSpace(in.Name), start, end)
	if err != nil {
		return nil, err
	}
	p.ID = id.NewID32()
	p.CreatedByID = actor.FromContext(ctx).UserID

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Periods.GetByCode(ctx, p.Code); err == nil {
			return domain.ErrPeriodExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.Periods.Create(ctx, &p)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domain.ErrPeriodExists
	}
	if err != nil {
		return nil, err
	}
	u.audit.LogCreate(ctx, audit.EntitySalaryPeriods, p.ID, p)
	u.log.Info("period created", zap.String("period_id", p.ID), zap.String("code", p.Code))
	return &p, nil
}

func (u *Usecase) ListPeriods(ctx context.Context, status domain.PeriodStatus, limit int) ([]domain.Period, error) {
	if limit <= 0 {
		limit = defaultPeriodLimit
	}
	if limit > maxPeriodLimit {
		limit = maxPeriodLimit
	}
	ps, err := u.repos.Periods.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.Period{}
	}
	return ps, nil
}

func (u *Usecase) GetPeriod(ctx context.Context, periodID string) (*PeriodDetail, error) {
	p, err := u.repos.Periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, periodNotFound(err)
	}
	views, err := u.results(ctx, periodID, "")
	if err != nil {
		return nil, err
	}
	p.ResultCount = int64(len(views))
	return &PeriodDetail{Period: p, Results: views}, nil
}

// Recalculate rebuilds every driver's result for the period from its approved
// trips. The period sits in CALCULATING while the work runs and is put back to
// OPEN whether or not the work succeeds.
func (u *Usecase) Recalculate(ctx context.Context, periodID string) (*RecalcSummary, error) {
	release, ok, err := u.locker.Acquire(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrRecalcRunning
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			u.log.Warn("release period lock", zap.String("period_id", periodID), zap.Error(err))
		}
	}()

	var (
		before domain.Period
		rule   *domain.Rule
	)
	err = u.uow.WithinPeriodTx(ctx, periodID, func(r uow.Repos, p *domain.Period) error {
		before = *p
		if err := p.BeginCalculation(); err != nil {
			return err
		}
		rules, err := r.Rules.ListActive(ctx, p.PeriodStart)
		if err != nil {
			return err
		}
		if rule, err = domain.ResolveActive(rules, p.PeriodStart); err != nil {
			return err
		}
		return r.Periods.Save(ctx, p)
	})
	if err != nil {
		return nil, periodNotFound(err)
	}
	u.log.Info("period calculating", zap.String("period_id", periodID), zap.String("rule_id", rule.ID))

	var out *RecalcSummary
	err = u.uow.WithinPeriodTx(ctx, periodID, func(r uow.Repos, p *domain.Period) error {
		trips, err := r.Trips.ListApprovedBetween(ctx, p.PeriodStart, p.PeriodEnd)
		if err != nil {
			return err
		}
		names, err := r.References.RouteNames(ctx, routeIDs(trips))
		if err != nil {
			return err
		}
		results, summary := domain.Calculate(p.ID, trips, names, *rule, u.now())
		for i := range results {
			results[i].ID = id.NewID32()
		}
		if err := r.Results.DeleteByPeriod(ctx, p.ID); err != nil {
			return err
		}
		if err := r.Results.CreateBatch(ctx, results); err != nil {
			return err
		}
		p.FinishCalculation()
		if err := r.Periods.Save(ctx, p); err != nil {
			return err
		}
		p.ResultCount = int64(len(results))
		out = &RecalcSummary{Period: p, Summary: summary}
		return nil
	})
	if err != nil {
		if _, rerr := u.repos.Periods.ResetIfCalculating(context.WithoutCancel(ctx), periodID); rerr != nil {
			u.log.Error("reset period after failed recalculation", zap.String("period_id", periodID), zap.Error(rerr))
		}
		return nil, periodNotFound(err)
	}

	u.audit.LogUpdate(ctx, audit.EntitySalaryPeriods, periodID, before, out.Period)
	u.log.Info("period recalculated",
		zap.String("period_id", periodID),
		zap.Int("drivers", out.TotalDrivers),
		zap.Int("trips", out.TotalTrips),
		zap.String("total_amount", out.TotalAmount.StringFixed(2)),
	)
	return out, nil
}

func routeIDs(trips []trip.Trip) []string {
	seen := make(map[string]struct{}, len(trips))
	ids := make([]string, 0, len(trips))
	for _, t := range trips {
		if _, ok := seen[t.RouteID]; ok {
			continue
		}
		seen[t.RouteID] = struct{}{}
		ids = append(ids, t.RouteID)
	}
	return ids
}

func (u *Usecase) ClosePeriod(ctx context.Context, periodID, actorID string) (*domain.Period, error) {
	var before domain.Period
	var closed *domain.Period
	err := u.uow.WithinPeriodTx(ctx, periodID, func(r uow.Repos, p *domain.Period) error {
		before = *p
		n, err := r.Results.CountByPeriod(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := p.Lock(actorID, u.now(), n); err != nil {
			return err
		}
		p.ResultCount = n
		closed = p
		return r.Periods.Save(ctx, p)
	})
	if err != nil {
		return nil, periodNotFound(err)
	}
	u.audit.LogUpdate(ctx, audit.EntitySalaryPeriods, periodID, before, closed)
	u.log.Info("period closed", zap.String("period_id", periodID), zap.String("by", actorID))
	return closed, nil
}

func (u *Usecase) GetResults(ctx context.Context, periodID, driverID string) ([]ResultView, error) {
	if _, err := u.repos.Periods.GetByID(ctx, periodID); err != nil {
		return nil, periodNotFound(err)
	}
	return u.results(ctx, periodID, driverID)
}

func (u *Usecase) GetDriverResult(ctx context.Context, periodID, driverID string) (*ResultView, error) {
	if _, err := u.repos.Periods.GetByID(ctx, periodID); err != nil {
		return nil, periodNotFound(err)
	}
	res, err := u.repos.Results.GetByPeriodDriver(ctx, periodID, driverID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	views, err := u.attachDrivers(ctx, []domain.Result{*res})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (u *Usecase) ExportData(ctx context.Context, periodID string) (*Export, error) {
	d, err := u.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	rs := make([]domain.Result, len(d.Results))
	for i, v := range d.Results {
		rs[i] = v.Result
	}
	return &Export{Period: d.Period, Results: d.Results, Summary: domain.Summarize(rs)}, nil
}

func (u *Usecase) results(ctx context.Context, periodID, driverID string) ([]ResultView, error) {
	rs, err := u.repos.Results.ListByPeriod(ctx, periodID, driverID)
	if err != nil {
		return nil, err
	}
	return u.attachDrivers(ctx, rs)
}

func (u *Usecase) attachDrivers(ctx context.Context, rs []domain.Result) ([]ResultView, error) {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.DriverID
	}
	drivers, err := u.repos.References.Drivers(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]ResultView, len(rs))
	for i, r := range rs {
		d := drivers[r.DriverID]
		views[i] = ResultView{Result: r, DriverName: d.Name, EmployeeCode: d.EmployeeCode}
	}
	return views, nil
}

func (u *Usecase) CreateRule(ctx context.Context, in CreateRuleInput) (*domain.Rule, error) {
	var from time.Time
	if !in.EffectiveFrom.IsZero() {
		from = dateOnly(in.EffectiveFrom)
	}
	var to *time.Time
	if in.EffectiveTo != nil {
		d := dateOnly(*in.EffectiveTo)
		to = &d
	}
	if err := domain.ValidateRule(in.RatePerTon, from, to); err != nil {
		return nil, err
	}
	var routeID *string
	if in.RouteID != nil && strings.TrimSpace(*in.RouteID) != "" {
		rid := strings.TrimSpace(*in.RouteID)
		routeID = &rid
	}

	rule := &domain.Rule{
		ID:            id.NewID32(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		RuleType:      domain.RulePerTon,
		RateAmount:    in.RatePerTon,
		EffectiveFrom: from,
		EffectiveTo:   to,
		IsActive:      true,
		RouteID:       routeID,
		CreatedByID:   actor.FromContext(ctx).UserID,
	}
	if len(in.Config) > 0 {
		rule.ConfigJSON = datatypes.JSONMap(in.Config)
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		v, err := r.Rules.MaxVersion(ctx, from, routeID)
		if err != nil {
			return err
		}
		rule.Version = v + 1
		if rule.Name == "" {
			rule.Name = "Per ton rate " + from.Format(time.DateOnly)
		}
		return r.Rules.Create(ctx, rule)
	})
	if err != nil {
		return nil, err
	}
	u.audit.LogCreate(ctx, audit.EntitySalaryRules, rule.ID, rule)
	return rule, nil
}

func (u *Usecase) ListRules(ctx context.Context, activeOnly bool) ([]domain.Rule, error) {
	rules, err := u.repos.Rules.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []domain.Rule{}
	}
	return rules, nil
}

// ActiveRule returns the PER_TON rule in force on the given day.
func (u *Usecase) ActiveRule(ctx context.Context, at time.Time) (*domain.Rule, error) {
	at = dateOnly(at)
	rules, err := u.repos.Rules.ListActive(ctx, at)
	if err != nil {
		return nil, err
	}
	return domain.ResolveActive(rules, at)
}
