package http

import (
	"net/http"
	"time"

	"transport-payroll/internal/adapter/middleware"
	domainTrip "transport-payroll/internal/domain/trip"
	tripuc "transport-payroll/internal/usecase/trip"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type TripHandler struct{ uc *tripuc.Usecase }

func NewTripHandler(uc *tripuc.Usecase) *TripHandler { return &TripHandler{uc: uc} }

type createTripReq struct {
	DriverID       string              `json:"driver_id"       validate:"omitempty,hex32"`
	VehicleID      string              `json:"vehicle_id"      validate:"required,hex32"`
	RouteID        string              `json:"route_id"        validate:"required,hex32"`
	OriginID       string              `json:"origin_id"       validate:"required,hex32"`
	DestinationID  string              `json:"destination_id"  validate:"required,hex32"`
	TripDate       string              `json:"trip_date"       validate:"required,datetime=2006-01-02"`
	DepartureTime  *time.Time          `json:"departure_time"`
	ArrivalTime    *time.Time          `json:"arrival_time"`
	WeightLoaded   decimal.NullDecimal `json:"weight_loaded"   validate:"omitempty,gte=0,dec3"`
	WeightUnloaded decimal.NullDecimal `json:"weight_unloaded" validate:"omitempty,gte=0,dec3"`
	WeightFinal    decimal.NullDecimal `json:"weight_final"    validate:"omitempty,gte=0,dec3"`
	Note           string              `json:"note"            validate:"max=1000"`
}

func (r createTripReq) input() tripuc.CreateInput {
	date, _ := parseDate(r.TripDate)
	return tripuc.CreateInput{
		DriverID:       r.DriverID,
		VehicleID:      r.VehicleID,
		RouteID:        r.RouteID,
		OriginID:       r.OriginID,
		DestinationID:  r.DestinationID,
		TripDate:       date,
		DepartureTime:  utcPtr(r.DepartureTime),
		ArrivalTime:    utcPtr(r.ArrivalTime),
		WeightLoaded:   r.WeightLoaded,
		WeightUnloaded: r.WeightUnloaded,
		WeightFinal:    r.WeightFinal,
		Note:           r.Note,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (h *TripHandler) Create(c echo.Context) error {
	var req createTripReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.DriverID == "" {
		return badRequest(c, "driver_id", "is required")
	}
	t, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TripHandler) CreateMine(c echo.Context) error {
	var req createTripReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	t, err := h.uc.CreateForDriver(c.Request().Context(), middleware.CurrentActor(c).DriverID, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

type updateTripReq struct {
	DriverID       *string                   `json:"driver_id"      validate:"omitempty,hex32"`
	VehicleID      *string                   `json:"vehicle_id"     validate:"omitempty,hex32"`
	RouteID        *string                   `json:"route_id"       validate:"omitempty,hex32"`
	OriginID       *string                   `json:"origin_id"      validate:"omitempty,hex32"`
	DestinationID  *string                   `json:"destination_id" validate:"omitempty,hex32"`
	TripDate       *string                   `json:"trip_date"      validate:"omitempty,datetime=2006-01-02"`
	DepartureTime  optional[time.Time]       `json:"departure_time"`
	ArrivalTime    optional[time.Time]       `json:"arrival_time"`
	WeightLoaded   optional[decimal.Decimal] `json:"weight_loaded"`
	WeightUnloaded optional[decimal.Decimal] `json:"weight_unloaded"`
	WeightFinal    optional[decimal.Decimal] `json:"weight_final"`
	Note           *string                   `json:"note"           validate:"omitempty,max=1000"`
	Status         *string                   `json:"status"`
}

func patchTime(o optional[time.Time]) **time.Time {
	if !o.Set {
		return nil
	}
	v := utcPtr(o.Value)
	return &v
}

func patchWeight(o optional[decimal.Decimal]) *decimal.NullDecimal {
	if !o.Set {
		return nil
	}
	var nd decimal.NullDecimal
	if o.Value != nil {
		nd = decimal.NewNullDecimal(*o.Value)
	}
	return &nd
}

func (h *TripHandler) Update(c echo.Context) error {
	var req updateTripReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Status != nil {
		return badRequest(c, "status", "cannot be changed here; use submit, approve or reject")
	}
	in := tripuc.UpdateInput{
		DriverID:       req.DriverID,
		VehicleID:      req.VehicleID,
		RouteID:        req.RouteID,
		OriginID:       req.OriginID,
		DestinationID:  req.DestinationID,
		DepartureTime:  patchTime(req.DepartureTime),
		ArrivalTime:    patchTime(req.ArrivalTime),
		WeightLoaded:   patchWeight(req.WeightLoaded),
		WeightUnloaded: patchWeight(req.WeightUnloaded),
		WeightFinal:    patchWeight(req.WeightFinal),
		Note:           req.Note,
	}
	if req.TripDate != nil {
		d, _ := parseDate(*req.TripDate)
		in.TripDate = &d
	}
	t, err := h.uc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TripHandler) Submit(c echo.Context) error {
	t, err := h.uc.Submit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TripHandler) SubmitMine(c echo.Context) error {
	t, err := h.uc.SubmitForDriver(c.Request().Context(), c.Param("id"), middleware.CurrentActor(c).DriverID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type approveReq struct {
	WeightFinal decimal.NullDecimal `json:"weight_final" validate:"omitempty,gte=0,dec3"`
}

type rejectReq struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type alreadyProcessedResp struct {
	Error            string           `json:"error"`
	AlreadyProcessed bool             `json:"already_processed"`
	Trip             *domainTrip.Trip `json:"trip"`
}

// decided answers an approve/reject. A replay of an earlier decision is a 409
// that still carries the trip so clients can treat it as success.
func decided(c echo.Context, d *tripuc.Decision) error {
	if d.Outcome == domainTrip.AlreadyApplied {
		return c.JSON(http.StatusConflict, alreadyProcessedResp{
			Error:            "trip already " + string(d.Trip.Status),
			AlreadyProcessed: true,
			Trip:             d.Trip,
		})
	}
	return c.JSON(http.StatusOK, d)
}

func (h *TripHandler) Approve(c echo.Context) error {
	var req approveReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	d, err := h.uc.Approve(c.Request().Context(), c.Param("id"), req.WeightFinal)
	if err != nil {
		return fail(c, err)
	}
	return decided(c, d)
}

func (h *TripHandler) Reject(c echo.Context) error {
	var req rejectReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	d, err := h.uc.Reject(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return decided(c, d)
}

func (h *TripHandler) Get(c echo.Context) error {
	var includeAudit bool
	if err := echo.QueryParamsBinder(c).Bool("includeAudit", &includeAudit).BindError(); err != nil {
		return badRequest(c, "includeAudit", "must be true or false")
	}
	d, err := h.uc.Get(c.Request().Context(), c.Param("id"), includeAudit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *TripHandler) GetMine(c echo.Context) error {
	d, err := h.uc.GetForDriver(c.Request().Context(), c.Param("id"), middleware.CurrentActor(c).DriverID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// listFilter reads ?status, driverId, vehicleId, routeId, dateFrom, dateTo,
// limit and offset. On failure the 400 response is already written.
func listFilter(c echo.Context) (domainTrip.Filter, bool, error) {
	var (
		f        domainTrip.Filter
		status   string
		from, to time.Time
	)
	err := echo.QueryParamsBinder(c).
		String("status", &status).
		String("driverId", &f.DriverID).
		String("vehicleId", &f.VehicleID).
		String("routeId", &f.RouteID).
		Time("dateFrom", &from, time.DateOnly).
		Time("dateTo", &to, time.DateOnly).
		Int("limit", &f.Limit).
		Int("offset", &f.Offset).
		BindError()
	if err != nil {
		return f, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query: " + err.Error()})
	}
	if status != "" {
		f.Status = domainTrip.Status(status)
		if !f.Status.Valid() {
			return f, false, badRequest(c, "status", "must be one of: DRAFT PENDING APPROVED REJECTED EXCEPTION")
		}
	}
	if !from.IsZero() {
		f.DateFrom = &from
	}
	if !to.IsZero() {
		f.DateTo = &to
	}
	return f, true, nil
}

func (h *TripHandler) List(c echo.Context) error {
	f, ok, err := listFilter(c)
	if !ok {
		return err
	}
	page, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *TripHandler) ReviewQueue(c echo.Context) error {
	f, ok, err := listFilter(c)
	if !ok {
		return err
	}
	page, err := h.uc.ReviewQueue(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *TripHandler) ListMine(c echo.Context) error {
	f, ok, err := listFilter(c)
	if !ok {
		return err
	}
	page, err := h.uc.ListForDriver(c.Request().Context(), middleware.CurrentActor(c).DriverID, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

type attachmentReq struct {
	RecordType string              `json:"record_type" validate:"omitempty,oneof=WEIGHT_TICKET_LOAD WEIGHT_TICKET_UNLOAD PHOTO OTHER"`
	FileURL    string              `json:"file_url"    validate:"required,url"`
	FileName   string              `json:"file_name"   validate:"max=255"`
	FileType   string              `json:"file_type"   validate:"max=64"`
	TicketNo   string              `json:"ticket_no"   validate:"max=64"`
	Weight     decimal.NullDecimal `json:"weight"      validate:"omitempty,gte=0,dec3"`
	Note       string              `json:"note"        validate:"max=1000"`
}

func (r attachmentReq) input() tripuc.AttachmentInput {
	return tripuc.AttachmentInput(r)
}

func (h *TripHandler) AddAttachment(c echo.Context) error {
	var req attachmentReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rec, err := h.uc.AddAttachment(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *TripHandler) AddAttachmentMine(c echo.Context) error {
	var req attachmentReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rec, err := h.uc.AddAttachmentForDriver(c.Request().Context(), c.Param("id"), middleware.CurrentActor(c).DriverID, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}
