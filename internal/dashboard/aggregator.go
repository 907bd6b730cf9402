package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/store"
)

const recentDrawLimit = 5

// Aggregator composes organization dashboard stats from independent
// read-only queries run in parallel. Each goroutine writes its own field of
// the result, so no accumulator is shared across branches.
type Aggregator struct {
	store store.Store
}

func New(st store.Store) *Aggregator {
	return &Aggregator{store: st}
}

func (a *Aggregator) Dashboard(ctx context.Context, orgID string) (*models.DashboardStats, error) {
	exists, err := a.store.OrganizationExists(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NotFoundf("organization not found")
	}

	stats := &models.DashboardStats{OrganizationID: orgID}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.MemberCount, err = a.store.CountMembers(ctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.BrandCount, err = a.store.CountBrands(ctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.DrawCount, err = a.store.CountOrganizationDraws(ctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ActiveSocialAccounts, err = a.store.CountActiveOrganizationSocialAccounts(ctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.RecentDraws, err = a.store.ListRecentOrganizationDraws(ctx, orgID, recentDrawLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
