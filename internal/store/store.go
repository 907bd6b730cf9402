// Package store is the data-access port for the service layer. Two
// implementations exist: Postgres (constraint-backed, production) and
// Memory (mutex-guarded, tests and local development).
//
// Atomicity contracts live at this layer: CreateOrganization commits the
// organization and its OWNER member together or not at all, AddMember
// enforces the member quota without overshoot under concurrent callers,
// EnsureBranding never creates two rows for one organization, and
// ClaimCustomDomain is globally unique. Implementations signal failures
// with the errs sentinels (Conflict, QuotaExceeded, NotFound).
package store

import (
	"context"

	"drawbase/internal/models"
)

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)

type Store interface {
	// Users (identity port surface)
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Organizations
	CreateOrganization(ctx context.Context, org *models.Organization, owner *models.Member) error
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	OrganizationExists(ctx context.Context, id string) (bool, error)
	UpdateOrganization(ctx context.Context, id string, patch models.OrganizationPatch) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
	ListUserOrganizations(ctx context.Context, userID string) ([]models.Organization, error)

	// Members
	AddMember(ctx context.Context, m *models.Member, maxMembers int) error
	GetMember(ctx context.Context, orgID, userID string) (*models.Member, error)
	ListMembers(ctx context.Context, orgID string) ([]models.Member, error)
	UpdateMember(ctx context.Context, orgID, userID string, role models.MemberRole, permissions []string) (*models.Member, error)
	RemoveMember(ctx context.Context, orgID, userID string) error
	CountMembers(ctx context.Context, orgID string) (int, error)

	// Brands
	CreateBrand(ctx context.Context, b *models.Brand) error
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id string, patch models.BrandPatch) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	ListOrganizationBrands(ctx context.Context, orgID string) ([]models.Brand, error)
	ListUserBrands(ctx context.Context, userID string) ([]models.Brand, error)
	CountBrands(ctx context.Context, orgID string) (int, error)

	// Brand joins
	ConnectSocialAccount(ctx context.Context, brandID, accountID string) error
	DisconnectSocialAccount(ctx context.Context, brandID, accountID string) error
	ListBrandSocialAccounts(ctx context.Context, brandID string) ([]models.SocialAccount, error)
	CountActiveBrandSocialAccounts(ctx context.Context, brandID string) (int, error)
	AssignDraw(ctx context.Context, brandID, drawID string) error
	UnassignDraw(ctx context.Context, brandID, drawID string) error
	ListBrandDraws(ctx context.Context, brandID string, limit int) ([]models.Draw, error)
	CountBrandDraws(ctx context.Context, brandID string) (int, error)
	SumBrandDrawParticipants(ctx context.Context, brandID string) (int, error)
	SumBrandDrawWinners(ctx context.Context, brandID string) (int, error)

	// Social accounts and draws (external entities; created elsewhere,
	// referenced here)
	CreateSocialAccount(ctx context.Context, a *models.SocialAccount) error
	CreateDraw(ctx context.Context, d *models.Draw) error
	CountOrganizationDraws(ctx context.Context, orgID string) (int, error)
	ListRecentOrganizationDraws(ctx context.Context, orgID string, limit int) ([]models.Draw, error)
	CountActiveOrganizationSocialAccounts(ctx context.Context, orgID string) (int, error)

	// Branding
	EnsureBranding(ctx context.Context, defaults *models.Branding) (*models.Branding, error)
	GetBranding(ctx context.Context, orgID string) (*models.Branding, error)
	UpdateBranding(ctx context.Context, orgID string, patch models.BrandingPatch) (*models.Branding, error)
	GetBrandingByDomain(ctx context.Context, domain string) (*models.Branding, error)
	ClaimCustomDomain(ctx context.Context, orgID, domain string) (*models.Branding, error)
	ReleaseCustomDomain(ctx context.Context, orgID string) (*models.Branding, error)
	SetRemoveBranding(ctx context.Context, orgID string, remove bool) (*models.Branding, error)
	ResetBranding(ctx context.Context, orgID string, defaults *models.Branding) (*models.Branding, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, s *models.Subscription) error
	HasActiveSubscription(ctx context.Context, orgID, plan string) (bool, error)
}
