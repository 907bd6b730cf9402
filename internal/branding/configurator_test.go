package branding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/store"
)

func newConfigurator(t *testing.T) (*Configurator, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem), mem
}

func seedOrg(t *testing.T, mem *store.Memory, orgID string) {
	t.Helper()
	ctx := context.Background()
	ownerID := orgID + "-owner"
	if err := mem.CreateUser(ctx, &models.User{ID: ownerID, Name: "owner", Email: ownerID + "@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := mem.CreateOrganization(ctx,
		&models.Organization{ID: orgID, Name: "Org", Slug: orgID, OwnerID: ownerID, BillingEmail: "b@example.com", MaxSubAccounts: 5},
		&models.Member{OrganizationID: orgID, UserID: ownerID, Role: models.RoleOwner},
	)
	if err != nil {
		t.Fatal(err)
	}
}

func TestGetOrCreateBrandingDefaults(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")

	b, err := c.GetOrCreateBranding(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if b.PrimaryColor != models.DefaultPrimaryColor || b.SecondaryColor != models.DefaultSecondaryColor {
		t.Errorf("defaults = %s / %s", b.PrimaryColor, b.SecondaryColor)
	}
	if b.RemoveBranding {
		t.Error("remove_branding must default to false")
	}

	// a second read returns the same row, not a fresh one
	again, err := c.GetOrCreateBranding(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != b.ID {
		t.Errorf("lazy create not stable: %s != %s", again.ID, b.ID)
	}
}

func TestGetOrCreateBrandingUnknownOrganization(t *testing.T) {
	c, _ := newConfigurator(t)
	_, err := c.GetOrCreateBranding(context.Background(), "missing")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestSetCustomCSSBoundary(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")

	atLimit := strings.Repeat("a", models.MaxCustomCSSLength)
	if _, err := c.SetCustomCSS(ctx, "o1", atLimit); err != nil {
		t.Fatalf("css at limit: %v", err)
	}

	over := strings.Repeat("a", models.MaxCustomCSSLength+1)
	if _, err := c.SetCustomCSS(ctx, "o1", over); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("css over limit: got %v, want Validation", err)
	}
}

func TestSetCustomDomainHandoff(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")
	seedOrg(t, mem, "o2")

	if _, err := c.SetCustomDomain(ctx, "o1", " Draw.Acme.COM "); err != nil {
		t.Fatal(err)
	}
	b, err := c.GetBrandingByDomain(ctx, "draw.acme.com")
	if err != nil {
		t.Fatalf("lookup after claim: %v", err)
	}
	if b.OrganizationID != "o1" {
		t.Errorf("domain resolves to %s", b.OrganizationID)
	}

	if _, err := c.SetCustomDomain(ctx, "o2", "draw.acme.com"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second claim: got %v, want Conflict", err)
	}

	if _, err := c.RemoveCustomDomain(ctx, "o1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetCustomDomain(ctx, "o2", "draw.acme.com"); err != nil {
		t.Fatalf("claim after release: %v", err)
	}
}

func TestToggleBrandingRemovalRequiresSubscription(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")

	_, err := c.ToggleBrandingRemoval(ctx, "o1", true)
	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("without subscription: got %v, want Forbidden", err)
	}

	err = mem.CreateSubscription(ctx, &models.Subscription{
		ID: "sub1", OrganizationID: "o1", Plan: "pro", Status: models.SubscriptionActive,
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.ToggleBrandingRemoval(ctx, "o1", true)
	if err != nil {
		t.Fatalf("with subscription: %v", err)
	}
	if !b.RemoveBranding {
		t.Error("flag not set")
	}
}

func TestToggleBrandingRemovalIgnoresInactiveSubscription(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")
	err := mem.CreateSubscription(ctx, &models.Subscription{
		ID: "sub1", OrganizationID: "o1", Plan: "pro", Status: models.SubscriptionCanceled,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.ToggleBrandingRemoval(ctx, "o1", true); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("canceled subscription: got %v, want Forbidden", err)
	}
}

func TestResetBranding(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")
	seedOrg(t, mem, "o2")

	if _, err := c.UpdateColorTheme(ctx, "o1", "#000000", "#ffffff", "#ff0000"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetCustomDomain(ctx, "o1", "draw.acme.com"); err != nil {
		t.Fatal(err)
	}

	b, err := c.ResetBranding(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if b.PrimaryColor != models.DefaultPrimaryColor || b.SecondaryColor != models.DefaultSecondaryColor {
		t.Errorf("colors after reset = %s / %s", b.PrimaryColor, b.SecondaryColor)
	}
	if b.CustomDomain != nil {
		t.Error("custom domain must be cleared")
	}
	// the reset released the domain for other organizations
	if _, err := c.SetCustomDomain(ctx, "o2", "draw.acme.com"); err != nil {
		t.Errorf("claim after reset: %v", err)
	}
}

func TestGetFrontendConfig(t *testing.T) {
	c, mem := newConfigurator(t)
	ctx := context.Background()
	seedOrg(t, mem, "o1")

	if _, err := c.UploadLogo(ctx, "o1", "https://cdn.example.com/logo.png"); err != nil {
		t.Fatal(err)
	}
	cfg, err := c.GetFrontendConfig(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogoURL != "https://cdn.example.com/logo.png" {
		t.Errorf("logo = %s", cfg.LogoURL)
	}
	if cfg.PrimaryColor != models.DefaultPrimaryColor {
		t.Errorf("primary = %s", cfg.PrimaryColor)
	}
}

func TestUploadLogoValidation(t *testing.T) {
	c, mem := newConfigurator(t)
	seedOrg(t, mem, "o1")
	if _, err := c.UploadLogo(context.Background(), "o1", "  "); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("got %v, want Validation", err)
	}
}
