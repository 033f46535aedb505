// Package leads provides the lead marketplace domain module.
package leads

import (
	"homezy_backend/internal/events"
	apphttp "homezy_backend/internal/http"
	"homezy_backend/internal/leads/handler"
	"homezy_backend/internal/leads/repository"
	"homezy_backend/internal/leads/service"
	"homezy_backend/platform/config"
	"homezy_backend/platform/httpkit"
	"homezy_backend/platform/logger"
	"homezy_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates a new leads module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, pros service.ProfessionalDirectory, eventBus events.Bus, cfg config.MarketplaceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pros, eventBus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the store for adapters (service history, jobs).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/public/leads")
	if ctx.GuestRateLimiter != nil {
		public.Use(ctx.GuestRateLimiter.RateLimit())
	}
	m.handler.RegisterPublicRoutes(public)

	homeowner := ctx.Protected.Group("/leads")
	homeowner.Use(httpkit.RequireRole(httpkit.RoleHomeowner))
	m.handler.RegisterHomeownerRoutes(homeowner)

	professional := ctx.Protected.Group("/pro/leads")
	professional.Use(httpkit.RequireRole(httpkit.RoleProfessional))
	m.handler.RegisterProfessionalRoutes(professional)
}

var _ apphttp.Module = (*Module)(nil)
