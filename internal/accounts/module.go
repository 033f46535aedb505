// Package accounts exposes account settings relevant to notifications. Auth
// itself (registration, tokens) lives outside this service.
package accounts

import (
	"homezy_backend/internal/accounts/handler"
	"homezy_backend/internal/accounts/repository"
	apphttp "homezy_backend/internal/http"
	"homezy_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)

	return &Module{
		handler:    handler.New(repo, val),
		repository: repo,
	}
}

func (m *Module) Name() string {
	return "accounts"
}

// Repository returns the accounts repository for cross-module wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/users"))
}

var _ apphttp.Module = (*Module)(nil)
