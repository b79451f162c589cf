package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"transport-payroll/internal/domain/actor"
	domain "transport-payroll/internal/domain/audit"
	"transport-payroll/pkg/id"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var _ domain.Logger = (*Service)(nil)

// ignoredKeys never count as a change.
var ignoredKeys = map[string]bool{"created_at": true, "updated_at": true}

// Service appends audit entries. Write failures are logged and swallowed.
type Service struct {
	repo domain.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo domain.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log.Named("audit"), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) LogCreate(ctx context.Context, entity, entityID string, after any) {
	s.write(ctx, entity, entityID, domain.ActionCreate, nil, Snapshot(after))
}

func (s *Service) LogUpdate(ctx context.Context, entity, entityID string, before, after any) {
	s.write(ctx, entity, entityID, domain.ActionUpdate, Snapshot(before), Snapshot(after))
}

func (s *Service) LogDelete(ctx context.Context, entity, entityID string, before any) {
	s.write(ctx, entity, entityID, domain.ActionDelete, Snapshot(before), nil)
}

func (s *Service) History(ctx context.Context, entity, entityID string, limit int) ([]domain.Entry, error) {
	return s.repo.ListForEntity(ctx, entity, entityID, limit)
}

func (s *Service) write(ctx context.Context, entity, entityID string, action domain.Action, before, after datatypes.JSONMap) {
	a := actor.FromContext(ctx)
	e := &domain.Entry{
		ID:        id.NewID32(),
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Before:    before,
		After:     after,
		UserID:    a.UserID,
		UserEmail: a.Email,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
		RequestID: a.RequestID,
		CreatedAt: s.now(),
	}
	if action == domain.ActionUpdate {
		e.Changes = Diff(before, after)
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.log.Warn("audit write failed",
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// Snapshot renders v through its JSON form so stored snapshots match API payloads.
func Snapshot(v any) datatypes.JSONMap {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return datatypes.JSONMap(m)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Diff returns {key: {"from": old, "to": new}} for every key whose value differs,
// ignoring created_at/updated_at.
func Diff(before, after map[string]any) datatypes.JSONMap {
	changes := datatypes.JSONMap{}
	for k, nv := range after {
		if ignoredKeys[k] {
			continue
		}
		if ov, ok := before[k]; !ok || !reflect.DeepEqual(ov, nv) {
			changes[k] = map[string]any{"from": before[k], "to": nv}
		}
	}
	for k, ov := range before {
		if ignoredKeys[k] {
			continue
		}
		if _, ok := after[k]; !ok {
			changes[k] = map[string]any{"from": ov, "to": nil}
		}
	}
	return changes
}
