package salary

import (
	"context"
	"time"
)

type RuleRepository interface {
	Create(ctx context.Context, r *Rule) error
	// ListActive returns active PER_TON rules in force at the given day.
	ListActive(ctx context.Context, at time.Time) ([]Rule, error)
	// List orders by effective_from desc, version desc.
	List(ctx context.Context, activeOnly bool) ([]Rule, error)
	// MaxVersion is the highest PER_TON version sharing effectiveFrom and route scope, 0 when none.
	MaxVersion(ctx context.Context, effectiveFrom time.Time, routeID *string) (int, error)
}

type PeriodRepository interface {
	Create(ctx context.Context, p *Period) error
	GetByID(ctx context.Context, id string) (*Period, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Period, error)
	GetByCode(ctx context.Context, code string) (*Period, error)
	// List orders by period_start desc and fills ResultCount.
	List(ctx context.Context, status PeriodStatus, limit int) ([]Period, error)
	Save(ctx context.Context, p *Period) error
	// ResetIfCalculating flips CALCULATING back to OPEN and leaves any other status alone.
	ResetIfCalculating(ctx context.Context, id string) (bool, error)
}

type ResultRepository interface {
	DeleteByPeriod(ctx context.Context, periodID string) error
	CreateBatch(ctx context.Context, rs []Result) error
	// ListByPeriod orders by total_salary desc; driverID narrows when non-empty.
	ListByPeriod(ctx context.Context, periodID, driverID string) ([]Result, error)
	GetByPeriodDriver(ctx context.Context, periodID, driverID string) (*Result, error)
	CountByPeriod(ctx context.Context, periodID string) (int64, error)
}

// PeriodLocker serialises recalculations of one period across processes.
type PeriodLocker interface {
	// Acquire returns a release func, or ok=false when another holder has it.
	Acquire(ctx context.Context, periodID string) (release func(context.Context) error, ok bool, err error)
}
