package mysql

import (
	"context"
	"time"

	"transport-payroll/internal/domain/salary"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RuleRepository struct{ db *gorm.DB }

func NewRuleRepository(db *gorm.DB) *RuleRepository { return &RuleRepository{db: db} }

func (r *RuleRepository) Create(ctx context.Context, rule *salary.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *RuleRepository) ListActive(ctx context.Context, at time.Time) ([]salary.Rule, error) {
	var out []salary.Rule
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND rule_type = ? AND effective_from <= ?", true, salary.RulePerTon, at).
		Where("(effective_to IS NULL OR effective_to >= ?)", at).
		Order("effective_from DESC, version DESC").
		Find(&out).Error
	return out, err
}

func (r *RuleRepository) List(ctx context.Context, activeOnly bool) ([]salary.Rule, error) {
	var out []salary.Rule
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("effective_from DESC, version DESC").Find(&out).Error
	return out, err
}

func (r *RuleRepository) MaxVersion(ctx context.Context, effectiveFrom time.Time, routeID *string) (int, error) {
	q := r.db.WithContext(ctx).Model(&salary.Rule{}).
		Where("rule_type = ? AND effective_from = ?", salary.RulePerTon, effectiveFrom)
	if routeID == nil {
		q = q.Where("route_id IS NULL")
	} else {
		q = q.Where("route_id = ?", *routeID)
	}
	var v int
	err := q.Select("COALESCE(MAX(version), 0)").Scan(&v).Error
	return v, err
}

type PeriodRepository struct{ db *gorm.DB }

func NewPeriodRepository(db *gorm.DB) *PeriodRepository { return &PeriodRepository{db: db} }

func (r *PeriodRepository) Create(ctx context.Context, p *salary.Period) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PeriodRepository) GetByID(ctx context.Context, id string) (*salary.Period, error) {
	var out salary.Period
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PeriodRepository) GetByIDForUpdate(ctx context.Context, id string) (*salary.Period, error) {
	var out salary.Period
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *PeriodRepository) GetByCode(ctx context.Context, code string) (*salary.Period, error) {
	var out salary.Period
	res := r.db.WithContext(ctx).Where("code = ?", code).First(&out)
	return &out, res.Error
}

func (r *PeriodRepository) List(ctx context.Context, status salary.PeriodStatus, limit int) ([]salary.Period, error) {
	var out []salary.Period
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("period_start DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	var counts []struct {
		PeriodID string
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&salary.Result{}).
		Select("period_id, COUNT(*) AS n").
		Where("period_id IN ?", ids).
		Group("period_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.PeriodID] = c.N
	}
	for i := range out {
		out[i].ResultCount = byID[out[i].ID]
	}
	return out, nil
}

func (r *PeriodRepository) Save(ctx context.Context, p *salary.Period) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PeriodRepository) ResetIfCalculating(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&salary.Period{}).
		Where("id = ? AND status = ?", id, salary.PeriodCalculating).
		Update("status", salary.PeriodOpen)
	return res.RowsAffected > 0, res.Error
}

type ResultRepository struct{ db *gorm.DB }

func NewResultRepository(db *gorm.DB) *ResultRepository { return &ResultRepository{db: db} }

func (r *ResultRepository) DeleteByPeriod(ctx context.Context, periodID string) error {
	return r.db.WithContext(ctx).Where("period_id = ?", periodID).Delete(&salary.Result{}).Error
}

func (r *ResultRepository) CreateBatch(ctx context.Context, rs []salary.Result) error {
	if len(rs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rs).Error
}

func (r *ResultRepository) ListByPeriod(ctx context.Context, periodID, driverID string) ([]salary.Result, error) {
	var out []salary.Result
	q := r.db.WithContext(ctx).Where("period_id = ?", periodID)
	if driverID != "" {
		q = q.Where("driver_id = ?", driverID)
	}
	err := q.Order("total_salary DESC, driver_id ASC").Find(&out).Error
	return out, err
}

func (r *ResultRepository) GetByPeriodDriver(ctx context.Context, periodID, driverID string) (*salary.Result, error) {
	var out salary.Result
	res := r.db.WithContext(ctx).
		Where("period_id = ? AND driver_id = ?", periodID, driverID).
		First(&out)
	return &out, res.Error
}

func (r *ResultRepository) CountByPeriod(ctx context.Context, periodID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&salary.Result{}).Where("period_id = ?", periodID).Count(&n).Error
	return n, err
}
