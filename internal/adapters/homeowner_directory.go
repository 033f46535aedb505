package adapters

import (
	"context"

	accountrepo "homezy_backend/internal/accounts/repository"
	reminderservice "homezy_backend/internal/reminders/service"
)

// HomeownerDirectoryAdapter implements the reminders HomeownerDirectory port
// over the accounts repository, resolving each homeowner's primary property.
type HomeownerDirectoryAdapter struct {
	accounts *accountrepo.Repository
}

func NewHomeownerDirectoryAdapter(accounts *accountrepo.Repository) *HomeownerDirectoryAdapter {
	return &HomeownerDirectoryAdapter{accounts: accounts}
}

var _ reminderservice.HomeownerDirectory = (*HomeownerDirectoryAdapter)(nil)

func (a *HomeownerDirectoryAdapter) ListSeasonalHomeowners(ctx context.Context) ([]reminderservice.SeasonalHomeowner, error) {
	users, err := a.accounts.ListSeasonalHomeowners(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]reminderservice.SeasonalHomeowner, 0, len(users))
	for _, user := range users {
		entry := reminderservice.SeasonalHomeowner{ID: user.ID}
		property, propErr := a.accounts.GetPrimaryProperty(ctx, user.ID)
		if propErr != nil {
			return nil, propErr
		}
		if property != nil {
			id := property.ID
			entry.PrimaryPropertyID = &id
		}
		out = append(out, entry)
	}

	return out, nil
}
