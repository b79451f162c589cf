package trip

import (
	"strings"

	"transport-payroll/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

// Outcome tells whether a review decision changed the trip or found it already decided.
type Outcome int

const (
	Applied Outcome = iota
	AlreadyApplied
)

func (o Outcome) String() string {
	if o == AlreadyApplied {
		return "already_applied"
	}
	return "applied"
}

func (t *Trip) Submit() error {
	if t.Status != StatusDraft {
		return apperr.Wrap(ErrInvalidTransition, "only draft trips can be submitted (status %s)", t.Status)
	}
	t.Status = StatusPending
	return nil
}

// Approve moves a PENDING trip to APPROVED. When weightFinal is unset the loaded
// weight is carried over; without a loaded weight the stored final weight stays.
func (t *Trip) Approve(weightFinal decimal.NullDecimal) (Outcome, error) {
	if t.Status == StatusApproved {
		return AlreadyApplied, nil
	}
	if t.Status != StatusPending {
		return Applied, apperr.Wrap(ErrInvalidTransition,
			"cannot approve trip with status '%s'; only PENDING trips can be approved", t.Status)
	}
	if err := ValidateWeights(weightFinal); err != nil {
		return Applied, err
	}
	t.Status = StatusApproved
	switch {
	case weightFinal.Valid:
		t.WeightFinal = weightFinal
	case t.WeightLoaded.Valid:
		t.WeightFinal = t.WeightLoaded
	}
	return Applied, nil
}

func (t *Trip) Reject(reason string) (Outcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Applied, ErrRejectionReasonRequired
	}
	if t.Status == StatusRejected {
		return AlreadyApplied, nil
	}
	if t.Status != StatusPending {
		return Applied, apperr.Wrap(ErrInvalidTransition,
			"cannot reject trip with status '%s'; only PENDING trips can be rejected", t.Status)
	}
	t.Status = StatusRejected
	t.RejectionReason = reason
	return Applied, nil
}

func (t Trip) CanEdit() error {
	if t.Status == StatusApproved {
		return ErrEditApproved
	}
	return nil
}

func (t Trip) CanDelete() error {
	if t.Status == StatusApproved {
		return ErrDeleteApproved
	}
	return nil
}

func (t Trip) CanAttach() error {
	if t.Status == StatusApproved {
		return ErrAttachApproved
	}
	return nil
}
