// Package reminders provides the service reminder domain module.
package reminders

import (
	"homezy_backend/internal/events"
	apphttp "homezy_backend/internal/http"
	"homezy_backend/internal/reminders/handler"
	"homezy_backend/internal/reminders/repository"
	"homezy_backend/internal/reminders/service"
	"homezy_backend/platform/httpkit"
	"homezy_backend/platform/logger"
	"homezy_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the reminders domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new reminders module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "reminders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/reminders")
	group.Use(httpkit.RequireRole(httpkit.RoleHomeowner))
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
