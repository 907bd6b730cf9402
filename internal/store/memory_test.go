package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

func seedUser(t *testing.T, s *Memory, id, email string) {
	t.Helper()
	err := s.CreateUser(context.Background(), &models.User{ID: id, Name: "user " + id, Email: email})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedOrg(t *testing.T, s *Memory, id, slug, ownerID string, max int) {
	t.Helper()
	err := s.CreateOrganization(context.Background(),
		&models.Organization{ID: id, Name: "org " + id, Slug: slug, OwnerID: ownerID, BillingEmail: "billing@example.com", MaxSubAccounts: max},
		&models.Member{OrganizationID: id, UserID: ownerID, Role: models.RoleOwner, Permissions: []string{"*"}, InvitedBy: ownerID},
	)
	if err != nil {
		t.Fatalf("seed org %s: %v", id, err)
	}
}

func TestCreateOrganizationSlugUnique(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)

	err := s.CreateOrganization(ctx,
		&models.Organization{ID: "o2", Name: "Other", Slug: "acme", OwnerID: "u1", BillingEmail: "x@example.com", MaxSubAccounts: 5},
		&models.Member{OrganizationID: "o2", UserID: "u1", Role: models.RoleOwner},
	)
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("duplicate slug: got %v, want Conflict", err)
	}
}

func TestCreateOrganizationStoresOwnerMembership(t *testing.T) {
	s := NewMemory()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)

	m, err := s.GetMember(context.Background(), "o1", "u1")
	if err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("owner role = %s, want OWNER", m.Role)
	}
}

func TestAddMemberDuplicateIsConflictNotQuota(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedUser(t, s, "u2", "u2@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 2)

	m := &models.Member{OrganizationID: "o1", UserID: "u2", Role: models.RoleMember, InvitedBy: "u1"}
	if err := s.AddMember(ctx, m, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// the organization is now full, but the duplicate check must win
	err := s.AddMember(ctx, &models.Member{OrganizationID: "o1", UserID: "u2", Role: models.RoleViewer}, 2)
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("duplicate member: got %v, want Conflict", err)
	}
}

func TestAddMemberQuota(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 2)

	if err := s.AddMember(ctx, &models.Member{OrganizationID: "o1", UserID: "u2", Role: models.RoleMember}, 2); err != nil {
		t.Fatalf("add within quota: %v", err)
	}
	err := s.AddMember(ctx, &models.Member{OrganizationID: "o1", UserID: "u3", Role: models.RoleMember}, 2)
	if !errors.Is(err, errs.ErrQuotaExceeded) {
		t.Fatalf("over quota: got %v, want QuotaExceeded", err)
	}
	if errors.Is(err, errs.ErrConflict) {
		t.Fatal("quota errors must be distinguishable from Conflict")
	}
}

// Concurrent invites must never overshoot the quota: the count check and
// the insert are one atomic step.
func TestAddMemberQuotaUnderConcurrency(t *testing.T) {
	const max = 5
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", max)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddMember(ctx, &models.Member{
				OrganizationID: "o1",
				UserID:         fmt.Sprintf("candidate-%d", i),
				Role:           models.RoleMember,
			}, max)
		}(i)
	}
	wg.Wait()

	count, err := s.CountMembers(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if count != max {
		t.Errorf("member count = %d, want exactly %d", count, max)
	}
}

func TestConnectSocialAccountDuplicateConflicts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)
	if err := s.CreateBrand(ctx, &models.Brand{ID: "b1", OrganizationID: "o1", UserID: "u1", Name: "Brand", Slug: "brand"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateSocialAccount(ctx, &models.SocialAccount{ID: "sa1", Platform: "instagram", Handle: "@acme"}); err != nil {
		t.Fatal(err)
	}

	if err := s.ConnectSocialAccount(ctx, "b1", "sa1"); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	err := s.ConnectSocialAccount(ctx, "b1", "sa1")
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second connect: got %v, want Conflict", err)
	}
}

func TestAssignDrawIsIdempotent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)
	if err := s.CreateBrand(ctx, &models.Brand{ID: "b1", OrganizationID: "o1", UserID: "u1", Name: "Brand", Slug: "brand"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDraw(ctx, &models.Draw{ID: "d1", OrganizationID: "o1", Title: "Giveaway"}); err != nil {
		t.Fatal(err)
	}

	if err := s.AssignDraw(ctx, "b1", "d1"); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := s.AssignDraw(ctx, "b1", "d1"); err != nil {
		t.Fatalf("re-assign must be a silent no-op, got %v", err)
	}
	count, err := s.CountBrandDraws(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("draw count = %d, want 1", count)
	}
}

func TestEnsureBrandingIsStable(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)

	first, err := s.EnsureBranding(ctx, &models.Branding{ID: "br1", OrganizationID: "o1", PrimaryColor: "#1976d2", SecondaryColor: "#dc004e"})
	if err != nil {
		t.Fatal(err)
	}
	// second ensure must return the existing row, not replace it
	second, err := s.EnsureBranding(ctx, &models.Branding{ID: "br2", OrganizationID: "o1", PrimaryColor: "#000000", SecondaryColor: "#ffffff"})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("ensure replaced the row: %s != %s", second.ID, first.ID)
	}
	if second.PrimaryColor != "#1976d2" {
		t.Errorf("ensure overwrote colors: %s", second.PrimaryColor)
	}
}

func TestEnsureBrandingUnknownOrganization(t *testing.T) {
	s := NewMemory()
	_, err := s.EnsureBranding(context.Background(), &models.Branding{ID: "br1", OrganizationID: "missing"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestClaimCustomDomain(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)
	seedOrg(t, s, "o2", "beta", "u1", 5)
	for _, orgID := range []string{"o1", "o2"} {
		if _, err := s.EnsureBranding(ctx, &models.Branding{ID: "br-" + orgID, OrganizationID: orgID, PrimaryColor: "#111", SecondaryColor: "#222"}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.ClaimCustomDomain(ctx, "o1", "draw.acme.com"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	// another organization cannot take the same domain
	if _, err := s.ClaimCustomDomain(ctx, "o2", "draw.acme.com"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("cross-org claim: got %v, want Conflict", err)
	}
	// re-claiming your own domain is fine
	if _, err := s.ClaimCustomDomain(ctx, "o1", "draw.acme.com"); err != nil {
		t.Fatalf("re-claim own: %v", err)
	}
	// releasing frees it for others
	if _, err := s.ReleaseCustomDomain(ctx, "o1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ClaimCustomDomain(ctx, "o2", "draw.acme.com"); err != nil {
		t.Fatalf("claim after release: %v", err)
	}

	b, err := s.GetBrandingByDomain(ctx, "draw.acme.com")
	if err != nil {
		t.Fatal(err)
	}
	if b.OrganizationID != "o2" {
		t.Errorf("domain resolves to %s, want o2", b.OrganizationID)
	}
}

func TestDeleteOrganizationCascades(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)
	if err := s.CreateBrand(ctx, &models.Brand{ID: "b1", OrganizationID: "o1", UserID: "u1", Name: "Brand", Slug: "brand"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EnsureBranding(ctx, &models.Branding{ID: "br1", OrganizationID: "o1", PrimaryColor: "#111", SecondaryColor: "#222"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ClaimCustomDomain(ctx, "o1", "draw.acme.com"); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteOrganization(ctx, "o1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetBrand(ctx, "b1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("brand survived delete: %v", err)
	}
	if _, err := s.GetBranding(ctx, "o1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("branding survived delete: %v", err)
	}
	if _, err := s.GetBrandingByDomain(ctx, "draw.acme.com"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("domain binding survived delete: %v", err)
	}
	if _, err := s.GetMember(ctx, "o1", "u1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("membership survived delete: %v", err)
	}
}

func TestCreateBrandSlugUniquePerOrganization(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	seedUser(t, s, "u1", "u1@example.com")
	seedOrg(t, s, "o1", "acme", "u1", 5)
	seedOrg(t, s, "o2", "beta", "u1", 5)

	if err := s.CreateBrand(ctx, &models.Brand{ID: "b1", OrganizationID: "o1", UserID: "u1", Name: "Brand", Slug: "main"}); err != nil {
		t.Fatal(err)
	}
	err := s.CreateBrand(ctx, &models.Brand{ID: "b2", OrganizationID: "o1", UserID: "u1", Name: "Brand 2", Slug: "main"})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("same-org duplicate slug: got %v, want Conflict", err)
	}
	// the same slug in another organization is allowed
	if err := s.CreateBrand(ctx, &models.Brand{ID: "b3", OrganizationID: "o2", UserID: "u1", Name: "Brand", Slug: "main"}); err != nil {
		t.Fatalf("cross-org slug reuse: %v", err)
	}
}
