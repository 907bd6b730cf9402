// Package branding owns the single white-label configuration record per
// organization, including the globally unique custom domain.
package branding

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/store"
)

type Configurator struct {
	store store.Store
}

func New(st store.Store) *Configurator {
	return &Configurator{store: st}
}

func defaults(orgID string) *models.Branding {
	return &models.Branding{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		PrimaryColor:   models.DefaultPrimaryColor,
		SecondaryColor: models.DefaultSecondaryColor,
	}
}

// GetOrCreateBranding returns the organization's branding, creating it
// with the fixed defaults on first access. Safe under concurrent first
// access: the losing writer re-reads the winner's row.
func (c *Configurator) GetOrCreateBranding(ctx context.Context, orgID string) (*models.Branding, error) {
	return c.store.EnsureBranding(ctx, defaults(orgID))
}

func (c *Configurator) UpdateBranding(ctx context.Context, orgID string, patch models.BrandingPatch) (*models.Branding, error) {
	if patch.CustomCSS != nil && len(*patch.CustomCSS) > models.MaxCustomCSSLength {
		return nil, errs.Validationf("custom CSS exceeds %d characters", models.MaxCustomCSSLength)
	}
	if _, err := c.GetOrCreateBranding(ctx, orgID); err != nil {
		return nil, err
	}
	return c.store.UpdateBranding(ctx, orgID, patch)
}

func (c *Configurator) UploadLogo(ctx context.Context, orgID, logoURL string) (*models.Branding, error) {
	if strings.TrimSpace(logoURL) == "" {
		return nil, errs.Validationf("logo_url is required")
	}
	return c.UpdateBranding(ctx, orgID, models.BrandingPatch{LogoURL: &logoURL})
}

func (c *Configurator) UploadFavicon(ctx context.Context, orgID, faviconURL string) (*models.Branding, error) {
	if strings.TrimSpace(faviconURL) == "" {
		return nil, errs.Validationf("favicon_url is required")
	}
	return c.UpdateBranding(ctx, orgID, models.BrandingPatch{FaviconURL: &faviconURL})
}

func (c *Configurator) UpdateColorTheme(ctx context.Context, orgID, primary, secondary, accent string) (*models.Branding, error) {
	patch := models.BrandingPatch{}
	if primary != "" {
		patch.PrimaryColor = &primary
	}
	if secondary != "" {
		patch.SecondaryColor = &secondary
	}
	if accent != "" {
		patch.AccentColor = &accent
	}
	return c.UpdateBranding(ctx, orgID, patch)
}

func (c *Configurator) UpdateEmailBranding(ctx context.Context, orgID, fromName, replyTo string) (*models.Branding, error) {
	return c.UpdateBranding(ctx, orgID, models.BrandingPatch{
		EmailFromName: &fromName,
		EmailReplyTo:  &replyTo,
	})
}

// SetCustomDomain binds the domain to the organization. Domains are unique
// across all organizations; the store's unique index is the arbiter under
// races, and a domain held by another organization fails with Conflict.
func (c *Configurator) SetCustomDomain(ctx context.Context, orgID, domain string) (*models.Branding, error) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return nil, errs.Validationf("domain is required")
	}
	if _, err := c.GetOrCreateBranding(ctx, orgID); err != nil {
		return nil, err
	}
	return c.store.ClaimCustomDomain(ctx, orgID, domain)
}

// RemoveCustomDomain clears the binding; the domain becomes claimable
// again.
func (c *Configurator) RemoveCustomDomain(ctx context.Context, orgID string) (*models.Branding, error) {
	if _, err := c.GetOrCreateBranding(ctx, orgID); err != nil {
		return nil, err
	}
	return c.store.ReleaseCustomDomain(ctx, orgID)
}

// ToggleBrandingRemoval flips the remove-branding flag. Gated on the
// organization holding at least one ACTIVE subscription, a cross-entity
// check separate from role permissions.
func (c *Configurator) ToggleBrandingRemoval(ctx context.Context, orgID string, remove bool) (*models.Branding, error) {
	active, err := c.store.HasActiveSubscription(ctx, orgID, "")
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errs.Forbiddenf("an active subscription is required to remove branding")
	}
	if _, err := c.GetOrCreateBranding(ctx, orgID); err != nil {
		return nil, err
	}
	return c.store.SetRemoveBranding(ctx, orgID, remove)
}

// SetCustomCSS stores operator-authored CSS. Only the size bound is
// enforced here; sanitization belongs to the rendering collaborator.
func (c *Configurator) SetCustomCSS(ctx context.Context, orgID, css string) (*models.Branding, error) {
	if len(css) > models.MaxCustomCSSLength {
		return nil, errs.Validationf("custom CSS exceeds %d characters", models.MaxCustomCSSLength)
	}
	if _, err := c.GetOrCreateBranding(ctx, orgID); err != nil {
		return nil, err
	}
	return c.store.UpdateBranding(ctx, orgID, models.BrandingPatch{CustomCSS: &css})
}

// GetBrandingByDomain is the public, unauthenticated white-label lookup.
func (c *Configurator) GetBrandingByDomain(ctx context.Context, domain string) (*models.Branding, error) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return nil, errs.Validationf("domain is required")
	}
	return c.store.GetBrandingByDomain(ctx, domain)
}

// ResetBranding restores the fixed defaults, clearing every customization
// and releasing the custom domain.
func (c *Configurator) ResetBranding(ctx context.Context, orgID string) (*models.Branding, error) {
	if _, err := c.GetOrCreateBranding(ctx, orgID); err != nil {
		return nil, err
	}
	return c.store.ResetBranding(ctx, orgID, defaults(orgID))
}

// GetFrontendConfig is the read-optimized projection for public rendering,
// creating the default branding if none exists yet.
func (c *Configurator) GetFrontendConfig(ctx context.Context, orgID string) (*models.FrontendConfig, error) {
	b, err := c.GetOrCreateBranding(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &models.FrontendConfig{
		PrimaryColor:   b.PrimaryColor,
		SecondaryColor: b.SecondaryColor,
		AccentColor:    b.AccentColor,
		LogoURL:        b.LogoURL,
		FaviconURL:     b.FaviconURL,
		RemoveBranding: b.RemoveBranding,
		CustomCSS:      b.CustomCSS,
	}, nil
}
