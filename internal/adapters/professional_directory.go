// Package adapters bridges bounded contexts: each adapter implements a port
// declared by one module on top of another module's repository or service.
package adapters

import (
	"context"

	accountrepo "homezy_backend/internal/accounts/repository"
	leadservice "homezy_backend/internal/leads/service"

	"github.com/google/uuid"
)

// ProfessionalDirectoryAdapter implements the leads ProfessionalDirectory
// port over the accounts repository.
type ProfessionalDirectoryAdapter struct {
	accounts *accountrepo.Repository
}

func NewProfessionalDirectoryAdapter(accounts *accountrepo.Repository) *ProfessionalDirectoryAdapter {
	return &ProfessionalDirectoryAdapter{accounts: accounts}
}

var _ leadservice.ProfessionalDirectory = (*ProfessionalDirectoryAdapter)(nil)

func (a *ProfessionalDirectoryAdapter) GetProfessional(ctx context.Context, id uuid.UUID) (leadservice.Professional, error) {
	user, err := a.accounts.GetProfessional(ctx, id)
	if err != nil {
		return leadservice.Professional{}, err
	}
	return leadservice.Professional{
		ID:    user.ID,
		Name:  user.FullName(),
		Email: user.Email,
	}, nil
}
