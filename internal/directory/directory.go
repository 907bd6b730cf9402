// Package directory owns organization and member lifecycle: creation with
// the atomic OWNER membership, slug uniqueness, quota-bounded invites, and
// permission resolution.
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"drawbase/internal/dashboard"
	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/rbac"
	"drawbase/internal/store"
)

type Service struct {
	store      store.Store
	aggregator *dashboard.Aggregator
}

func New(st store.Store, agg *dashboard.Aggregator) *Service {
	return &Service{store: st, aggregator: agg}
}

type CreateOrganizationInput struct {
	Name           string                 `json:"name"`
	Slug           string                 `json:"slug"`
	BillingEmail   string                 `json:"billing_email"`
	MaxSubAccounts *int                   `json:"max_sub_accounts"`
	Settings       map[string]interface{} `json:"settings"`
}

// CreateOrganization creates the organization and its OWNER membership in
// one transaction; the creator becomes the owner with the full-access
// marker. Duplicate slugs fail with Conflict.
func (s *Service) CreateOrganization(ctx context.Context, ownerID string, in CreateOrganizationInput) (*models.Organization, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(strings.ToLower(in.Slug))
	if in.Name == "" || in.Slug == "" || in.BillingEmail == "" {
		return nil, errs.Validationf("name, slug and billing_email are required")
	}
	if _, err := s.store.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	maxSubAccounts := models.DefaultMaxSubAccounts
	if in.MaxSubAccounts != nil && *in.MaxSubAccounts > 0 {
		maxSubAccounts = *in.MaxSubAccounts
	}

	org := &models.Organization{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Slug:             in.Slug,
		OwnerID:          ownerID,
		BillingEmail:     in.BillingEmail,
		SubscriptionTier: "free",
		MaxSubAccounts:   maxSubAccounts,
		Settings:         in.Settings,
	}
	owner := &models.Member{
		OrganizationID: org.ID,
		UserID:         ownerID,
		Role:           models.RoleOwner,
		Permissions:    []string{rbac.PermAll},
		InvitedBy:      ownerID,
	}
	if err := s.store.CreateOrganization(ctx, org, owner); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	return s.store.GetOrganization(ctx, id)
}

// UpdateOrganization applies only the provided fields. The slug is
// immutable through this path.
func (s *Service) UpdateOrganization(ctx context.Context, id string, patch models.OrganizationPatch) (*models.Organization, error) {
	if patch.MaxSubAccounts != nil && *patch.MaxSubAccounts < 1 {
		return nil, errs.Validationf("max_sub_accounts must be at least 1")
	}
	return s.store.UpdateOrganization(ctx, id, patch)
}

// DeleteOrganization cascades to members, brands, and branding. The caller
// must have already verified owner identity.
func (s *Service) DeleteOrganization(ctx context.Context, id string) error {
	return s.store.DeleteOrganization(ctx, id)
}

func (s *Service) ListUserOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	return s.store.ListUserOrganizations(ctx, userID)
}

type InviteMemberInput struct {
	Email       string            `json:"email"`
	Role        models.MemberRole `json:"role"`
	Permissions []string          `json:"permissions"`
}

// InviteMember resolves the target user by email and adds a membership.
// The quota check and the insert are a single atomic operation at the
// store, so concurrent invites cannot exceed maxSubAccounts.
func (s *Service) InviteMember(ctx context.Context, orgID, invitedBy string, in InviteMemberInput) (*models.Member, error) {
	if in.Email == "" {
		return nil, errs.Validationf("email is required")
	}
	if !models.ValidMemberRole(in.Role) {
		return nil, errs.Validationf("invalid role %q", in.Role)
	}
	if in.Role == models.RoleOwner {
		return nil, errs.Validationf("cannot invite a member as OWNER")
	}

	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	m := &models.Member{
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           in.Role,
		Permissions:    in.Permissions,
		InvitedBy:      invitedBy,
	}
	if err := s.store.AddMember(ctx, m, org.MaxSubAccounts); err != nil {
		return nil, err
	}
	m.UserName, m.UserEmail = user.Name, user.Email
	return m, nil
}

// RemoveMember removes a membership. The owner membership can never be
// removed.
func (s *Service) RemoveMember(ctx context.Context, orgID, userID string) error {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	if userID == org.OwnerID {
		return errs.Forbiddenf("the organization owner cannot be removed")
	}
	return s.store.RemoveMember(ctx, orgID, userID)
}

// UpdateMemberRole changes a member's role and explicit permission
// overrides. The owner membership is immutable here, matching the guard on
// RemoveMember, and no second OWNER can be minted.
func (s *Service) UpdateMemberRole(ctx context.Context, orgID, userID string, role models.MemberRole, permissions []string) (*models.Member, error) {
	if !models.ValidMemberRole(role) {
		return nil, errs.Validationf("invalid role %q", role)
	}
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if userID == org.OwnerID {
		return nil, errs.Forbiddenf("the owner membership cannot be modified")
	}
	if role == models.RoleOwner {
		return nil, errs.Validationf("cannot assign the OWNER role")
	}
	return s.store.UpdateMember(ctx, orgID, userID, role, permissions)
}

// GetUserPermissions computes the permission set from the authoritative
// role at read time. It is a predicate, not a gate: a missing membership
// yields the all-false set, never an error.
func (s *Service) GetUserPermissions(ctx context.Context, orgID, userID string) (rbac.PermissionSet, error) {
	m, err := s.store.GetMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return rbac.None(), nil
		}
		return rbac.None(), err
	}
	return rbac.FromRole(m.Role, m.Permissions), nil
}

func (s *Service) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	_, err := s.store.GetMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) ListMembers(ctx context.Context, orgID string) ([]models.Member, error) {
	if _, err := s.store.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, orgID)
}

// GetDashboard delegates to the aggregator.
func (s *Service) GetDashboard(ctx context.Context, orgID string) (*models.DashboardStats, error) {
	return s.aggregator.Dashboard(ctx, orgID)
}
