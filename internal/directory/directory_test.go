package directory

import (
	"context"
	"errors"
	"testing"

	"drawbase/internal/dashboard"
	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/rbac"
	"drawbase/internal/store"
)

func newService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, dashboard.New(mem)), mem
}

func seedUser(t *testing.T, mem *store.Memory, id, email string) {
	t.Helper()
	if err := mem.CreateUser(context.Background(), &models.User{ID: id, Name: "user " + id, Email: email}); err != nil {
		t.Fatal(err)
	}
}

func createOrg(t *testing.T, svc *Service, ownerID, slug string, max *int) *models.Organization {
	t.Helper()
	org, err := svc.CreateOrganization(context.Background(), ownerID, CreateOrganizationInput{
		Name:           "Acme",
		Slug:           slug,
		BillingEmail:   "billing@acme.com",
		MaxSubAccounts: max,
	})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return org
}

func TestCreateOrganization(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	seedUser(t, mem, "owner", "owner@acme.com")

	org := createOrg(t, svc, "owner", "Acme-Corp", nil)
	if org.Slug != "acme-corp" {
		t.Errorf("slug not normalized: %s", org.Slug)
	}
	if org.MaxSubAccounts != models.DefaultMaxSubAccounts {
		t.Errorf("default quota = %d, want %d", org.MaxSubAccounts, models.DefaultMaxSubAccounts)
	}

	// the creator must come out as an OWNER member with full access
	m, err := mem.GetMember(ctx, org.ID, "owner")
	if err != nil {
		t.Fatalf("owner membership: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("owner role = %s", m.Role)
	}
	perms, err := svc.GetUserPermissions(ctx, org.ID, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if !perms.Has(rbac.PermManageBilling) {
		t.Error("owner must have every permission")
	}
}

func TestCreateOrganizationValidation(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")

	_, err := svc.CreateOrganization(context.Background(), "owner", CreateOrganizationInput{Name: "Acme"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("missing fields: got %v, want Validation", err)
	}

	_, err = svc.CreateOrganization(context.Background(), "ghost", CreateOrganizationInput{
		Name: "Acme", Slug: "acme", BillingEmail: "billing@acme.com",
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown owner: got %v, want NotFound", err)
	}
}

func TestCreateOrganizationDuplicateSlug(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")
	createOrg(t, svc, "owner", "acme", nil)

	_, err := svc.CreateOrganization(context.Background(), "owner", CreateOrganizationInput{
		Name: "Acme Again", Slug: "acme", BillingEmail: "billing@acme.com",
	})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("got %v, want Conflict", err)
	}
}

func TestInviteMember(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	seedUser(t, mem, "owner", "owner@acme.com")
	seedUser(t, mem, "alice", "alice@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)

	m, err := svc.InviteMember(ctx, org.ID, "owner", InviteMemberInput{Email: "alice@acme.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if m.UserID != "alice" || m.Role != models.RoleAdmin {
		t.Errorf("member = %+v", m)
	}
	if m.InvitedBy != "owner" {
		t.Errorf("invited_by = %s", m.InvitedBy)
	}
}

func TestInviteMemberRejectsOwnerRole(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")
	seedUser(t, mem, "alice", "alice@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)

	_, err := svc.InviteMember(context.Background(), org.ID, "owner",
		InviteMemberInput{Email: "alice@acme.com", Role: models.RoleOwner})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("OWNER invite: got %v, want Validation", err)
	}
}

// The owner's membership occupies one quota slot, so an organization with
// max_sub_accounts=1 is already full.
func TestInviteMemberQuotaCountsOwner(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")
	seedUser(t, mem, "alice", "alice@acme.com")
	one := 1
	org := createOrg(t, svc, "owner", "acme", &one)

	_, err := svc.InviteMember(context.Background(), org.ID, "owner",
		InviteMemberInput{Email: "alice@acme.com", Role: models.RoleMember})
	if !errors.Is(err, errs.ErrQuotaExceeded) {
		t.Fatalf("got %v, want QuotaExceeded", err)
	}
}

func TestInviteMemberUnknownEmail(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)

	_, err := svc.InviteMember(context.Background(), org.ID, "owner",
		InviteMemberInput{Email: "nobody@acme.com", Role: models.RoleMember})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestRemoveMemberGuardsOwner(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	seedUser(t, mem, "owner", "owner@acme.com")
	seedUser(t, mem, "alice", "alice@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)
	if _, err := svc.InviteMember(ctx, org.ID, "owner", InviteMemberInput{Email: "alice@acme.com", Role: models.RoleMember}); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveMember(ctx, org.ID, "owner"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("remove owner: got %v, want Forbidden", err)
	}
	if err := svc.RemoveMember(ctx, org.ID, "alice"); err != nil {
		t.Fatalf("remove regular member: %v", err)
	}
}

func TestUpdateMemberRole(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	seedUser(t, mem, "owner", "owner@acme.com")
	seedUser(t, mem, "alice", "alice@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)
	if _, err := svc.InviteMember(ctx, org.ID, "owner", InviteMemberInput{Email: "alice@acme.com", Role: models.RoleViewer}); err != nil {
		t.Fatal(err)
	}

	m, err := svc.UpdateMemberRole(ctx, org.ID, "alice", models.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("role = %s", m.Role)
	}

	// the owner membership is immutable and no second OWNER can be minted
	if _, err := svc.UpdateMemberRole(ctx, org.ID, "owner", models.RoleViewer, nil); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("demote owner: got %v, want Forbidden", err)
	}
	if _, err := svc.UpdateMemberRole(ctx, org.ID, "alice", models.RoleOwner, nil); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("assign OWNER: got %v, want Validation", err)
	}
}

func TestGetUserPermissionsNonMember(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)

	perms, err := svc.GetUserPermissions(context.Background(), org.ID, "stranger")
	if err != nil {
		t.Fatalf("non-member lookup must not error: %v", err)
	}
	if perms != rbac.None() {
		t.Errorf("non-member permissions = %+v, want all false", perms)
	}
}

func TestUpdateOrganizationQuotaValidation(t *testing.T) {
	svc, mem := newService(t)
	seedUser(t, mem, "owner", "owner@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)

	zero := 0
	_, err := svc.UpdateOrganization(context.Background(), org.ID, models.OrganizationPatch{MaxSubAccounts: &zero})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("got %v, want Validation", err)
	}
}

func TestGetDashboard(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()
	seedUser(t, mem, "owner", "owner@acme.com")
	org := createOrg(t, svc, "owner", "acme", nil)

	if err := mem.CreateBrand(ctx, &models.Brand{ID: "b1", OrganizationID: org.ID, UserID: "owner", Name: "Brand", Slug: "brand"}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"d1", "d2", "d3"} {
		if err := mem.CreateDraw(ctx, &models.Draw{ID: id, OrganizationID: org.ID, Title: "Draw " + id}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.GetDashboard(ctx, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.MemberCount != 1 || stats.BrandCount != 1 || stats.DrawCount != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.RecentDraws) != 3 {
		t.Errorf("recent draws = %d, want 3", len(stats.RecentDraws))
	}

	if _, err := svc.GetDashboard(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing org: got %v, want NotFound", err)
	}
}
