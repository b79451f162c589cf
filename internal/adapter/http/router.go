package http

import (
	"transport-payroll/internal/adapter/middleware"
	"transport-payroll/internal/domain/actor"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Health      *Handler
	Trips       *TripHandler
	Salary      *SalaryHandler
	Redis       *redis.Client
	Idempotency middleware.IdempotencyOptions
	Log         *zap.Logger
}

// NewRouter builds the echo instance with every route and its role gate.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(middleware.RequestLogger(d.Log), echomw.Recover())

	e.GET("/health", d.Health.Health)

	api := e.Group("", middleware.Authenticate(), middleware.Idempotency(d.Redis, d.Idempotency))

	staff := middleware.RequireRoles(actor.RoleAdmin, actor.RoleDispatcher, actor.RoleHR)
	dispatch := middleware.RequireRoles(actor.RoleAdmin, actor.RoleDispatcher)
	admin := middleware.RequireRoles(actor.RoleAdmin)
	payroll := middleware.RequireRoles(actor.RoleAdmin, actor.RoleHR)
	driver := middleware.RequireDriver()

	t := api.Group("/trips")
	t.GET("", d.Trips.List, staff)
	t.GET("/review-queue", d.Trips.ReviewQueue, staff)
	t.GET("/my", d.Trips.ListMine, driver)
	t.GET("/my/:id", d.Trips.GetMine, driver)
	t.POST("/my", d.Trips.CreateMine, driver)
	t.POST("/my/:id/submit", d.Trips.SubmitMine, driver)
	t.POST("/my/:id/attachments", d.Trips.AddAttachmentMine, driver)
	t.GET("/:id", d.Trips.Get, staff)
	t.POST("", d.Trips.Create, dispatch)
	t.PUT("/:id", d.Trips.Update, dispatch)
	t.DELETE("/:id", d.Trips.Delete, admin)
	t.POST("/:id/submit", d.Trips.Submit, dispatch)
	t.POST("/:id/approve", d.Trips.Approve, staff)
	t.POST("/:id/reject", d.Trips.Reject, staff)
	t.POST("/:id/attachments", d.Trips.AddAttachment, dispatch)

	s := api.Group("/salary", payroll)
	s.GET("/periods", d.Salary.ListPeriods)
	s.POST("/periods", d.Salary.CreatePeriod)
	s.GET("/periods/:id", d.Salary.GetPeriod)
	s.POST("/periods/:id/recalculate", d.Salary.Recalculate)
	s.GET("/periods/:id/results", d.Salary.GetResults)
	s.GET("/periods/:id/results/:driverId", d.Salary.GetDriverResult)
	s.POST("/periods/:id/close", d.Salary.ClosePeriod)
	s.GET("/periods/:id/export", d.Salary.Export)
	s.GET("/rules", d.Salary.ListRules)
	s.GET("/rules/active", d.Salary.ActiveRule)
	s.POST("/rules", d.Salary.CreateRule, admin)

	return e
}
