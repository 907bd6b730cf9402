// Package brands owns brand sub-accounts: creation under per-organization
// slug uniqueness, linkage to social accounts and draws, and per-brand
// analytics.
package brands

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/store"
)

const recentDrawLimit = 5

type Registry struct {
	store store.Store
}

func New(st store.Store) *Registry {
	return &Registry{store: st}
}

type CreateBrandInput struct {
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
}

// CreateBrand creates a brand under the organization. Brand slugs are
// unique per organization, not globally, and brand count is unbounded —
// the member quota does not apply here.
func (r *Registry) CreateBrand(ctx context.Context, orgID, userID string, in CreateBrandInput) (*models.Brand, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(strings.ToLower(in.Slug))
	if in.Name == "" || in.Slug == "" {
		return nil, errs.Validationf("name and slug are required")
	}

	b := &models.Brand{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		UserID:         userID,
		Name:           in.Name,
		Slug:           in.Slug,
		Description:    in.Description,
		Settings:       in.Settings,
		IsActive:       true,
	}
	if err := r.store.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBrand returns the brand with its organization, creator, connected
// social accounts, and assigned draws attached.
func (r *Registry) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	b, err := r.store.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	if org, err := r.store.GetOrganization(ctx, b.OrganizationID); err == nil {
		org.Members, org.Brands, org.Branding, org.Owner = nil, nil, nil, nil
		b.Organization = org
	}
	if creator, err := r.store.GetUserByID(ctx, b.UserID); err == nil {
		b.Creator = creator
	}
	if accounts, err := r.store.ListBrandSocialAccounts(ctx, id); err == nil {
		b.SocialAccounts = accounts
	} else {
		return nil, err
	}
	draws, err := r.store.ListBrandDraws(ctx, id, 100)
	if err != nil {
		return nil, err
	}
	b.Draws = draws
	return b, nil
}

func (r *Registry) UpdateBrand(ctx context.Context, id string, patch models.BrandPatch) (*models.Brand, error) {
	return r.store.UpdateBrand(ctx, id, patch)
}

// DeleteBrand hard-deletes the brand; the social-account and draw join
// rows go with it.
func (r *Registry) DeleteBrand(ctx context.Context, id string) error {
	return r.store.DeleteBrand(ctx, id)
}

// GetOrganizationBrands lists brands newest first, each carrying its
// social-account and draw counts.
func (r *Registry) GetOrganizationBrands(ctx context.Context, orgID string) ([]models.Brand, error) {
	exists, err := r.store.OrganizationExists(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NotFoundf("organization not found")
	}
	return r.store.ListOrganizationBrands(ctx, orgID)
}

// GetUserBrands returns the deduplicated union of brands the user created
// and brands in organizations the user belongs to.
func (r *Registry) GetUserBrands(ctx context.Context, userID string) ([]models.Brand, error) {
	return r.store.ListUserBrands(ctx, userID)
}

// ConnectSocialAccount links an account to a brand; connecting the same
// account twice fails with Conflict. AssignDrawToBrand deliberately does
// not share this behavior.
func (r *Registry) ConnectSocialAccount(ctx context.Context, brandID, accountID string) error {
	if _, err := r.store.GetBrand(ctx, brandID); err != nil {
		return err
	}
	return r.store.ConnectSocialAccount(ctx, brandID, accountID)
}

func (r *Registry) DisconnectSocialAccount(ctx context.Context, brandID, accountID string) error {
	return r.store.DisconnectSocialAccount(ctx, brandID, accountID)
}

// AssignDrawToBrand is idempotent: assigning an already-assigned draw is a
// silent no-op so retries are always safe.
func (r *Registry) AssignDrawToBrand(ctx context.Context, brandID, drawID string) error {
	if _, err := r.store.GetBrand(ctx, brandID); err != nil {
		return err
	}
	return r.store.AssignDraw(ctx, brandID, drawID)
}

func (r *Registry) UnassignDrawFromBrand(ctx context.Context, brandID, drawID string) error {
	return r.store.UnassignDraw(ctx, brandID, drawID)
}

// GetBrandAnalytics recomputes per-brand aggregates on every call with
// independent queries run in parallel; counts are cheap aggregate reads,
// so no caching layer sits in front of them.
func (r *Registry) GetBrandAnalytics(ctx context.Context, brandID string) (*models.BrandAnalytics, error) {
	if _, err := r.store.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}

	analytics := &models.BrandAnalytics{BrandID: brandID}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		analytics.DrawCount, err = r.store.CountBrandDraws(ctx, brandID)
		return err
	})
	g.Go(func() error {
		var err error
		analytics.ParticipantCount, err = r.store.SumBrandDrawParticipants(ctx, brandID)
		return err
	})
	g.Go(func() error {
		var err error
		analytics.WinnerCount, err = r.store.SumBrandDrawWinners(ctx, brandID)
		return err
	})
	g.Go(func() error {
		var err error
		analytics.ActiveSocialAccounts, err = r.store.CountActiveBrandSocialAccounts(ctx, brandID)
		return err
	})
	g.Go(func() error {
		var err error
		analytics.RecentDraws, err = r.store.ListBrandDraws(ctx, brandID, recentDrawLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analytics, nil
}
