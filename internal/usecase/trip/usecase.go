package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"transport-payroll/internal/domain/actor"
	"transport-payroll/internal/domain/audit"
	"transport-payroll/internal/domain/reference"
	domainTrip "transport-payroll/internal/domain/trip"
	"transport-payroll/internal/domain/uow"
	"transport-payroll/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	trips domainTrip.Repository
	uow   uow.UnitOfWork
	audit audit.Logger
	log   *zap.Logger
	now   func() time.Time
}

func NewUsecase(trips domainTrip.Repository, tx uow.UnitOfWork, auditLog audit.Logger, log *zap.Logger) *Usecase {
	return &Usecase{
		trips: trips,
		uow:   tx,
		audit: auditLog,
		log:   log.Named("trip"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// notFound hides whether a trip is missing, deleted or owned by someone else.
func notFound(err error, scope domainTrip.Scope) error {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if scope.DriverID != "" {
		return domainTrip.ErrNotFoundOrDenied
	}
	return domainTrip.ErrNotFound
}

// dateOnly keeps the UTC calendar day so trip dates compare with period bounds.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func driverScope(driverID string) domainTrip.Scope { return domainTrip.Scope{DriverID: driverID} }

// verifyReferences checks, in a fixed order, that every foreign key points at a
// live reference row. With prev set only the keys that changed are checked.
func verifyReferences(ctx context.Context, refs reference.Repository, t, prev *domainTrip.Trip) error {
	var was domainTrip.Trip
	if prev != nil {
		was = *prev
	}
	checks := []struct {
		id, was string
		find    func(context.Context, string) error
		missing error
	}{
		{t.DriverID, was.DriverID, func(ctx context.Context, id string) error { _, err := refs.FindDriver(ctx, id); return err }, reference.ErrDriverNotFound},
		{t.VehicleID, was.VehicleID, func(ctx context.Context, id string) error { _, err := refs.FindVehicle(ctx, id); return err }, reference.ErrVehicleNotFound},
		{t.RouteID, was.RouteID, func(ctx context.Context, id string) error { _, err := refs.FindRoute(ctx, id); return err }, reference.ErrRouteNotFound},
		{t.OriginID, was.OriginID, func(ctx context.Context, id string) error { _, err := refs.FindStation(ctx, id); return err }, reference.ErrOriginNotFound},
		{t.DestinationID, was.DestinationID, func(ctx context.Context, id string) error { _, err := refs.FindStation(ctx, id); return err }, reference.ErrDestinationNotFound},
	}
	for _, c := range checks {
		if prev != nil && c.id == c.was {
			continue
		}
		if err := c.find(ctx, c.id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.missing
			}
			return err
		}
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domainTrip.Trip, error) {
	return u.create(ctx, in)
}

// CreateForDriver ignores any driver in the input and files the trip under driverID.
func (u *Usecase) CreateForDriver(ctx context.Context, driverID string, in CreateInput) (*domainTrip.Trip, error) {
	in.DriverID = driverID
	return u.create(ctx, in)
}

func (u *Usecase) create(ctx context.Context, in CreateInput) (*domainTrip.Trip, error) {
	if in.TripDate.IsZero() {
		return nil, domainTrip.ErrTripDateRequired
	}
	if err := domainTrip.ValidateWeights(in.WeightLoaded, in.WeightUnloaded, in.WeightFinal); err != nil {
		return nil, err
	}

	now := u.now()
	t := &domainTrip.Trip{
		ID:             id.NewID32(),
		TripCode:       domainTrip.NewCode(now),
		DriverID:       in.DriverID,
		VehicleID:      in.VehicleID,
		RouteID:        in.RouteID,
		OriginID:       in.OriginID,
		DestinationID:  in.DestinationID,
		TripDate:       dateOnly(in.TripDate),
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		WeightLoaded:   in.WeightLoaded,
		WeightUnloaded: in.WeightUnloaded,
		WeightFinal:    in.WeightFinal,
		Status:         domainTrip.StatusDraft,
		Note:           strings.TrimSpace(in.Note),
		CreatedByID:    actor.FromContext(ctx).UserID,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := verifyReferences(ctx, r.References, t, nil); err != nil {
			return err
		}
		return r.Trips.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	u.audit.LogCreate(ctx, audit.EntityTrips, t.ID, t)
	return t, nil
}

// change locks the trip, runs fn and saves when fn reports a change. The
// returned before is the row as read under the lock.
func (u *Usecase) change(ctx context.Context, tripID string, scope domainTrip.Scope,
	fn func(r uow.Repos, t *domainTrip.Trip) (bool, error),
) (before domainTrip.Trip, after *domainTrip.Trip, changed bool, err error) {
	err = u.uow.WithinTripTx(ctx, tripID, scope, func(r uow.Repos, t *domainTrip.Trip) error {
		before = *t
		ok, err := fn(r, t)
		if err != nil {
			return err
		}
		after = t
		if !ok {
			return nil
		}
		changed = true
		return r.Trips.Save(ctx, t)
	})
	return before, after, changed, notFound(err, scope)
}

func (u *Usecase) Submit(ctx context.Context, tripID string) (*domainTrip.Trip, error) {
	return u.submit(ctx, tripID, domainTrip.Scope{})
}

func (u *Usecase) SubmitForDriver(ctx context.Context, tripID, driverID string) (*domainTrip.Trip, error) {
	return u.submit(ctx, tripID, driverScope(driverID))
}

func (u *Usecase) submit(ctx context.Context, tripID string, scope domainTrip.Scope) (*domainTrip.Trip, error) {
	before, after, _, err := u.change(ctx, tripID, scope, func(_ uow.Repos, t *domainTrip.Trip) (bool, error) {
		return true, t.Submit()
	})
	if err != nil {
		return nil, err
	}
	u.audit.LogUpdate(ctx, audit.EntityTrips, tripID, before, after)
	return after, nil
}

func (u *Usecase) Approve(ctx context.Context, tripID string, weightFinal decimal.NullDecimal) (*Decision, error) {
	var outcome domainTrip.Outcome
	before, after, changed, err := u.change(ctx, tripID, domainTrip.Scope{}, func(_ uow.Repos, t *domainTrip.Trip) (bool, error) {
		o, err := t.Approve(weightFinal)
		outcome = o
		return o == domainTrip.Applied, err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		u.audit.LogUpdate(ctx, audit.EntityTrips, tripID, before, after)
	} else {
		u.log.Info("trip already decided", zap.String("trip_id", tripID), zap.String("status", string(after.Status)))
	}
	return &Decision{Outcome: outcome, Trip: after}, nil
}

func (u *Usecase) Reject(ctx context.Context, tripID, reason string) (*Decision, error) {
	var outcome domainTrip.Outcome
	before, after, changed, err := u.change(ctx, tripID, domainTrip.Scope{}, func(_ uow.Repos, t *domainTrip.Trip) (bool, error) {
		o, err := t.Reject(reason)
		outcome = o
		return o == domainTrip.Applied, err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		u.audit.LogUpdate(ctx, audit.EntityTrips, tripID, before, after)
	} else {
		u.log.Info("trip already decided", zap.String("trip_id", tripID), zap.String("status", string(after.Status)))
	}
	return &Decision{Outcome: outcome, Trip: after}, nil
}

func applyPatch(t *domainTrip.Trip, in UpdateInput) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&t.DriverID, in.DriverID)
	setStr(&t.VehicleID, in.VehicleID)
	setStr(&t.RouteID, in.RouteID)
	setStr(&t.OriginID, in.OriginID)
	setStr(&t.DestinationID, in.DestinationID)
	setStr(&t.Note, in.Note)
	if in.TripDate != nil {
		t.TripDate = dateOnly(*in.TripDate)
	}
	if in.DepartureTime != nil {
		t.DepartureTime = *in.DepartureTime
	}
	if in.ArrivalTime != nil {
		t.ArrivalTime = *in.ArrivalTime
	}
	if in.WeightLoaded != nil {
		t.WeightLoaded = *in.WeightLoaded
	}
	if in.WeightUnloaded != nil {
		t.WeightUnloaded = *in.WeightUnloaded
	}
	if in.WeightFinal != nil {
		t.WeightFinal = *in.WeightFinal
	}
}

func (u *Usecase) Update(ctx context.Context, tripID string, in UpdateInput) (*domainTrip.Trip, error) {
	before, after, _, err := u.change(ctx, tripID, domainTrip.Scope{}, func(r uow.Repos, t *domainTrip.Trip) (bool, error) {
		if err := t.CanEdit(); err != nil {
			return false, err
		}
		prev := *t
		applyPatch(t, in)
		if t.TripDate.IsZero() {
			return false, domainTrip.ErrTripDateRequired
		}
		if err := domainTrip.ValidateWeights(t.WeightLoaded, t.WeightUnloaded, t.WeightFinal); err != nil {
			return false, err
		}
		if err := verifyReferences(ctx, r.References, t, &prev); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	u.audit.LogUpdate(ctx, audit.EntityTrips, tripID, before, after)
	return after, nil
}

func (u *Usecase) Delete(ctx context.Context, tripID string) error {
	var before domainTrip.Trip
	err := u.uow.WithinTripTx(ctx, tripID, domainTrip.Scope{}, func(r uow.Repos, t *domainTrip.Trip) error {
		if err := t.CanDelete(); err != nil {
			return err
		}
		before = *t
		return r.Trips.SoftDelete(ctx, t)
	})
	if err != nil {
		return notFound(err, domainTrip.Scope{})
	}
	u.audit.LogDelete(ctx, audit.EntityTrips, tripID, before)
	return nil
}

func (u *Usecase) Get(ctx context.Context, tripID string, includeAudit bool) (*Detail, error) {
	d, err := u.detail(ctx, tripID, domainTrip.Scope{})
	if err != nil {
		return nil, err
	}
	if includeAudit {
		logs, err := u.audit.History(ctx, audit.EntityTrips, tripID, auditLimit)
		if err != nil {
			return nil, err
		}
		d.AuditLogs = logs
	}
	return d, nil
}

func (u *Usecase) GetForDriver(ctx context.Context, tripID, driverID string) (*Detail, error) {
	return u.detail(ctx, tripID, driverScope(driverID))
}

func (u *Usecase) detail(ctx context.Context, tripID string, scope domainTrip.Scope) (*Detail, error) {
	t, err := u.trips.GetByID(ctx, tripID, scope)
	if err != nil {
		return nil, notFound(err, scope)
	}
	recs, err := u.trips.ListRecords(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []domainTrip.Record{}
	}
	return &Detail{Trip: t, Records: recs}, nil
}

func (u *Usecase) List(ctx context.Context, f domainTrip.Filter) (*Page, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	trips, total, err := u.trips.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []domainTrip.Trip{}
	}
	return &Page{Trips: trips, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (u *Usecase) ListForDriver(ctx context.Context, driverID string, f domainTrip.Filter) (*Page, error) {
	f.DriverID = driverID
	return u.List(ctx, f)
}

// ReviewQueue lists trips awaiting review unless another status is asked for.
func (u *Usecase) ReviewQueue(ctx context.Context, f domainTrip.Filter) (*Page, error) {
	if f.Status == "" {
		f.Status = domainTrip.StatusPending
	}
	return u.List(ctx, f)
}

func (u *Usecase) AddAttachment(ctx context.Context, tripID string, in AttachmentInput) (*domainTrip.Record, error) {
	return u.addAttachment(ctx, tripID, domainTrip.Scope{}, in)
}

func (u *Usecase) AddAttachmentForDriver(ctx context.Context, tripID, driverID string, in AttachmentInput) (*domainTrip.Record, error) {
	return u.addAttachment(ctx, tripID, driverScope(driverID), in)
}

func (u *Usecase) addAttachment(ctx context.Context, tripID string, scope domainTrip.Scope, in AttachmentInput) (*domainTrip.Record, error) {
	rt, err := domainTrip.ParseRecordType(in.RecordType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FileURL) == "" {
		return nil, domainTrip.ErrFileURLRequired
	}
	if err := domainTrip.ValidateWeights(in.Weight); err != nil {
		return nil, err
	}

	var rec *domainTrip.Record
	err = u.uow.WithinTripTx(ctx, tripID, scope, func(r uow.Repos, t *domainTrip.Trip) error {
		if err := t.CanAttach(); err != nil {
			return err
		}
		rec = &domainTrip.Record{
			ID:          id.NewID32(),
			TripID:      t.ID,
			RecordType:  rt,
			FileURL:     strings.TrimSpace(in.FileURL),
			FileName:    in.FileName,
			FileType:    in.FileType,
			TicketNo:    in.TicketNo,
			Weight:      in.Weight,
			Note:        in.Note,
			CreatedByID: actor.FromContext(ctx).UserID,
		}
		rec.StampWeighing(u.now())
		return r.Trips.CreateRecord(ctx, rec)
	})
	if err != nil {
		return nil, notFound(err, scope)
	}
	u.audit.LogCreate(ctx, audit.EntityTripRecords, rec.ID, rec)
	return rec, nil
}
