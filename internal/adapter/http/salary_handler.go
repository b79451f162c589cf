package http

import (
	"fmt"
	"net/http"
	"time"

	"transport-payroll/internal/adapter/middleware"
	domain "transport-payroll/internal/domain/salary"
	salaryuc "transport-payroll/internal/usecase/salary"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type SalaryHandler struct{ uc *salaryuc.Usecase }

func NewSalaryHandler(uc *salaryuc.Usecase) *SalaryHandler { return &SalaryHandler{uc: uc} }

type createPeriodReq struct {
	Name        string `json:"name"         validate:"max=128"`
	PeriodStart string `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end"   validate:"required,datetime=2006-01-02"`
}

func (h *SalaryHandler) CreatePeriod(c echo.Context) error {
	var req createPeriodReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	start, _ := parseDate(req.PeriodStart)
	end, _ := parseDate(req.PeriodEnd)
	p, err := h.uc.CreatePeriod(c.Request().Context(), salaryuc.CreatePeriodInput{
		Name: req.Name, PeriodStart: start, PeriodEnd: end,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *SalaryHandler) ListPeriods(c echo.Context) error {
	var (
		status string
		limit  int
	)
	if err := echo.QueryParamsBinder(c).String("status", &status).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query: " + err.Error()})
	}
	switch domain.PeriodStatus(status) {
	case "", domain.PeriodOpen, domain.PeriodCalculating, domain.PeriodLocked:
	default:
		return badRequest(c, "status", "must be one of: OPEN CALCULATING LOCKED")
	}
	ps, err := h.uc.ListPeriods(c.Request().Context(), domain.PeriodStatus(status), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *SalaryHandler) GetPeriod(c echo.Context) error {
	d, err := h.uc.GetPeriod(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *SalaryHandler) Recalculate(c echo.Context) error {
	sum, err := h.uc.Recalculate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *SalaryHandler) ClosePeriod(c echo.Context) error {
	p, err := h.uc.ClosePeriod(c.Request().Context(), c.Param("id"), middleware.CurrentActor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *SalaryHandler) GetResults(c echo.Context) error {
	rs, err := h.uc.GetResults(c.Request().Context(), c.Param("id"), c.QueryParam("driverId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *SalaryHandler) GetDriverResult(c echo.Context) error {
	r, err := h.uc.GetDriverResult(c.Request().Context(), c.Param("id"), c.Param("driverId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Export serves the period as a downloadable JSON document.
func (h *SalaryHandler) Export(c echo.Context) error {
	x, err := h.uc.ExportData(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="salary-%s.json"`, x.Period.Code))
	return c.JSON(http.StatusOK, x)
}

type createRuleReq struct {
	Name          string          `json:"name"           validate:"max=128"`
	Description   string          `json:"description"    validate:"max=1000"`
	RatePerTon    decimal.Decimal `json:"rate_per_ton"   validate:"gt=0,dec2"`
	EffectiveFrom string          `json:"effective_from" validate:"required,datetime=2006-01-02"`
	EffectiveTo   string          `json:"effective_to"   validate:"omitempty,datetime=2006-01-02"`
	RouteID       *string         `json:"route_id"       validate:"omitempty,hex32"`
	Config        map[string]any  `json:"config_json"`
}

func (h *SalaryHandler) CreateRule(c echo.Context) error {
	var req createRuleReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	from, _ := parseDate(req.EffectiveFrom)
	in := salaryuc.CreateRuleInput{
		Name:          req.Name,
		Description:   req.Description,
		RatePerTon:    req.RatePerTon,
		EffectiveFrom: from,
		RouteID:       req.RouteID,
		Config:        req.Config,
	}
	if req.EffectiveTo != "" {
		to, _ := parseDate(req.EffectiveTo)
		in.EffectiveTo = &to
	}
	r, err := h.uc.CreateRule(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *SalaryHandler) ListRules(c echo.Context) error {
	var activeOnly bool
	if err := echo.QueryParamsBinder(c).Bool("active", &activeOnly).BindError(); err != nil {
		return badRequest(c, "active", "must be true or false")
	}
	rs, err := h.uc.ListRules(c.Request().Context(), activeOnly)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

// ActiveRule reports the rule in force on ?date= (default today, UTC).
func (h *SalaryHandler) ActiveRule(c echo.Context) error {
	at := time.Now().UTC()
	if err := echo.QueryParamsBinder(c).Time("date", &at, time.DateOnly).BindError(); err != nil {
		return badRequest(c, "date", "must be a date formatted YYYY-MM-DD")
	}
	r, err := h.uc.ActiveRule(c.Request().Context(), at)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}
