package brands

import (
	"context"
	"errors"
	"testing"

	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/store"
)

func newRegistry(t *testing.T) (*Registry, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem), mem
}

func seed(t *testing.T, mem *store.Memory, orgID, ownerID string) {
	t.Helper()
	ctx := context.Background()
	if err := mem.CreateUser(ctx, &models.User{ID: ownerID, Name: "owner", Email: ownerID + "@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := mem.CreateOrganization(ctx,
		&models.Organization{ID: orgID, Name: "Acme", Slug: orgID, OwnerID: ownerID, BillingEmail: "b@example.com", MaxSubAccounts: 5},
		&models.Member{OrganizationID: orgID, UserID: ownerID, Role: models.RoleOwner},
	)
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreateBrand(t *testing.T) {
	reg, mem := newRegistry(t)
	ctx := context.Background()
	seed(t, mem, "o1", "owner")

	b, err := reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: " Summer Promo ", Slug: "Summer"})
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "Summer Promo" || b.Slug != "summer" {
		t.Errorf("normalization: %+v", b)
	}
	if !b.IsActive {
		t.Error("new brands start active")
	}

	_, err = reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: "Again", Slug: "summer"})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("duplicate slug: got %v, want Conflict", err)
	}

	_, err = reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Slug: "no-name"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("missing name: got %v, want Validation", err)
	}
}

func TestGetBrandEagerLoads(t *testing.T) {
	reg, mem := newRegistry(t)
	ctx := context.Background()
	seed(t, mem, "o1", "owner")
	b, err := reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: "Brand", Slug: "brand"})
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.CreateSocialAccount(ctx, &models.SocialAccount{ID: "sa1", Platform: "instagram", Handle: "@acme"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.ConnectSocialAccount(ctx, b.ID, "sa1"); err != nil {
		t.Fatal(err)
	}
	if err := mem.CreateDraw(ctx, &models.Draw{ID: "d1", OrganizationID: "o1", Title: "Giveaway"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.AssignDrawToBrand(ctx, b.ID, "d1"); err != nil {
		t.Fatal(err)
	}

	got, err := reg.GetBrand(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Organization == nil || got.Organization.ID != "o1" {
		t.Error("organization not attached")
	}
	if got.Creator == nil || got.Creator.ID != "owner" {
		t.Error("creator not attached")
	}
	if len(got.SocialAccounts) != 1 || len(got.Draws) != 1 {
		t.Errorf("relations = %d accounts, %d draws", len(got.SocialAccounts), len(got.Draws))
	}
}

func TestGetOrganizationBrands(t *testing.T) {
	reg, mem := newRegistry(t)
	ctx := context.Background()
	seed(t, mem, "o1", "owner")
	if _, err := reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: "A", Slug: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: "B", Slug: "b"}); err != nil {
		t.Fatal(err)
	}

	list, err := reg.GetOrganizationBrands(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// newest first
	if list[0].Slug != "b" {
		t.Errorf("order: first slug = %s, want b", list[0].Slug)
	}

	if _, err := reg.GetOrganizationBrands(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing org: got %v, want NotFound", err)
	}
}

// A creator who is also a member of the organization must see the brand
// once, not twice.
func TestGetUserBrandsDeduplicates(t *testing.T) {
	reg, mem := newRegistry(t)
	ctx := context.Background()
	seed(t, mem, "o1", "owner")
	if _, err := reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: "Mine", Slug: "mine"}); err != nil {
		t.Fatal(err)
	}

	list, err := reg.GetUserBrands(ctx, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestConnectSocialAccountUnknownBrand(t *testing.T) {
	reg, _ := newRegistry(t)
	err := reg.ConnectSocialAccount(context.Background(), "missing", "sa1")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestGetBrandAnalytics(t *testing.T) {
	reg, mem := newRegistry(t)
	ctx := context.Background()
	seed(t, mem, "o1", "owner")
	b, err := reg.CreateBrand(ctx, "o1", "owner", CreateBrandInput{Name: "Brand", Slug: "brand"})
	if err != nil {
		t.Fatal(err)
	}

	draws := []models.Draw{
		{ID: "d1", OrganizationID: "o1", Title: "One", ParticipantCount: 100, WinnerCount: 3},
		{ID: "d2", OrganizationID: "o1", Title: "Two", ParticipantCount: 250, WinnerCount: 5},
	}
	for i := range draws {
		if err := mem.CreateDraw(ctx, &draws[i]); err != nil {
			t.Fatal(err)
		}
		if err := reg.AssignDrawToBrand(ctx, b.ID, draws[i].ID); err != nil {
			t.Fatal(err)
		}
	}
	if err := mem.CreateSocialAccount(ctx, &models.SocialAccount{ID: "sa1", Platform: "tiktok", Handle: "@acme"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.ConnectSocialAccount(ctx, b.ID, "sa1"); err != nil {
		t.Fatal(err)
	}

	got, err := reg.GetBrandAnalytics(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DrawCount != 2 || got.ParticipantCount != 350 || got.WinnerCount != 8 {
		t.Errorf("analytics = %+v", got)
	}
	if got.ActiveSocialAccounts != 1 {
		t.Errorf("active accounts = %d, want 1", got.ActiveSocialAccounts)
	}
	if len(got.RecentDraws) != 2 {
		t.Errorf("recent draws = %d, want 2", len(got.RecentDraws))
	}

	if _, err := reg.GetBrandAnalytics(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing brand: got %v, want NotFound", err)
	}
}
