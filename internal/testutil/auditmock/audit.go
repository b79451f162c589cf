package auditmock

import (
	"context"
	"sync"

	domain "transport-payroll/internal/domain/audit"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Logger     = (*Recorder)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn        func(ctx context.Context, e *domain.Entry) error
	ListForEntityFn func(ctx context.Context, entity, entityID string, limit int) ([]domain.Entry, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListForEntity(ctx context.Context, entity, entityID string, limit int) ([]domain.Entry, error) {
	if m.ListForEntityFn != nil {
		return m.ListForEntityFn(ctx, entity, entityID, limit)
	}
	return nil, nil
}

// Call is one recorded audit event.
type Call struct {
	Action   domain.Action
	Entity   string
	EntityID string
	Before   any
	After    any
}

// Recorder is an in-memory domain.Logger that remembers every call.
type Recorder struct {
	mu      sync.Mutex
	Calls   []Call
	Entries []domain.Entry
}

func (r *Recorder) add(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) LogCreate(_ context.Context, entity, entityID string, after any) {
	r.add(Call{Action: domain.ActionCreate, Entity: entity, EntityID: entityID, After: after})
}

func (r *Recorder) LogUpdate(_ context.Context, entity, entityID string, before, after any) {
	r.add(Call{Action: domain.ActionUpdate, Entity: entity, EntityID: entityID, Before: before, After: after})
}

func (r *Recorder) LogDelete(_ context.Context, entity, entityID string, before any) {
	r.add(Call{Action: domain.ActionDelete, Entity: entity, EntityID: entityID, Before: before})
}

func (r *Recorder) History(_ context.Context, _, _ string, limit int) ([]domain.Entry, error) {
	if limit > 0 && len(r.Entries) > limit {
		return r.Entries[:limit], nil
	}
	return r.Entries, nil
}

// Last returns the most recent call, or the zero Call.
func (r *Recorder) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}
