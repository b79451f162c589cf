package salary

import "transport-payroll/internal/domain/apperr"

var (
	ErrPeriodNotFound        = apperr.NotFound("salary period not found")
	ErrResultNotFound        = apperr.NotFound("salary result not found")
	ErrPeriodExists          = apperr.Conflict("salary period already exists")
	ErrPeriodLocked          = apperr.Conflict("cannot recalculate closed period")
	ErrPeriodAlreadyClosed   = apperr.Conflict("period is already closed")
	ErrPeriodCalculating     = apperr.Conflict("period is being recalculated")
	ErrRecalcRunning         = apperr.Conflict("recalculation already running")
	ErrNoResults             = apperr.BadRequest("cannot close period without salary results; run recalculate first")
	ErrNoActiveRule          = apperr.BadRequest("no active salary rule found")
	ErrInvalidPeriodRange    = apperr.BadRequest("end date must be after start date")
	ErrPeriodDatesRequired   = apperr.BadRequest("period start and end are required")
	ErrInvalidRate           = apperr.BadRequest("rate per ton must be positive")
	ErrInvalidRuleRange      = apperr.BadRequest("effective to must not be before effective from")
	ErrEffectiveFromRequired = apperr.BadRequest("effective from is required")
)
