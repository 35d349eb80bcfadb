package plan

import (
	"context"
	"fmt"

	"frangapp/internal/settings"
)

type Service interface {
	ListPlans(ctx context.Context) ([]Listing, error)
}

type service struct {
	repo     Repository
	settings settings.Reader
}

func NewService(repo Repository, reader settings.Reader) Service {
	return &service{repo: repo, settings: reader}
}

// ListPlans returns every plan with the currency settings current at call time.
func (s *service) ListPlans(ctx context.Context) ([]Listing, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	currency, err := s.settings.Get(ctx, settings.KeyCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("read currency code: %w", err)
	}
	symbol, err := s.settings.Get(ctx, settings.KeyCurrencySymbol)
	if err != nil {
		return nil, fmt.Errorf("read currency symbol: %w", err)
	}

	out := make([]Listing, 0, len(plans))
	for _, p := range plans {
		out = append(out, Listing{
			ID:       p.ID,
			Count:    p.Count,
			Price:    p.Price,
			Save:     p.Save,
			Currency: currency,
			Symbol:   symbol,
		})
	}
	return out, nil
}
