package models

import "time"

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
	RoleViewer MemberRole = "VIEWER"
)

// ValidMemberRole reports whether role is one of the four known roles.
func ValidMemberRole(role MemberRole) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// DefaultMaxSubAccounts applies when createOrganization omits the quota.
const DefaultMaxSubAccounts = 5

type Organization struct {
	ID               string                 `json:"id" db:"id"`
	Name             string                 `json:"name" db:"name"`
	Slug             string                 `json:"slug" db:"slug"`
	OwnerID          string                 `json:"owner_id" db:"owner_id"`
	BillingEmail     string                 `json:"billing_email" db:"billing_email"`
	SubscriptionTier string                 `json:"subscription_tier" db:"subscription_tier"`
	MaxSubAccounts   int                    `json:"max_sub_accounts" db:"max_sub_accounts"`
	Settings         map[string]interface{} `json:"settings,omitempty" db:"settings"`
	CreatedAt        time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at" db:"updated_at"`

	// Eager-loaded relations (GetOrganization only)
	Owner    *User     `json:"owner,omitempty"`
	Members  []Member  `json:"members,omitempty"`
	Brands   []Brand   `json:"brands,omitempty"`
	Branding *Branding `json:"branding,omitempty"`
}

// Member associates a user with an organization. Identity is the composite
// (organization_id, user_id); there is exactly one OWNER row per
// organization and it always belongs to Organization.OwnerID.
type Member struct {
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	Role           MemberRole `json:"role" db:"role"`
	Permissions    []string   `json:"permissions,omitempty" db:"permissions"`
	InvitedBy      string     `json:"invited_by,omitempty" db:"invited_by"`
	JoinedAt       time.Time  `json:"joined_at" db:"joined_at"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

type OrganizationPatch struct {
	Name             *string                `json:"name"`
	BillingEmail     *string                `json:"billing_email"`
	SubscriptionTier *string                `json:"subscription_tier"`
	MaxSubAccounts   *int                   `json:"max_sub_accounts"`
	Settings         map[string]interface{} `json:"settings"`
}

// DashboardStats is the read-only aggregate served by GET /dashboard.
type DashboardStats struct {
	OrganizationID       string `json:"organization_id"`
	MemberCount          int    `json:"member_count"`
	BrandCount           int    `json:"brand_count"`
	DrawCount            int    `json:"draw_count"`
	ActiveSocialAccounts int    `json:"active_social_accounts"`
	RecentDraws          []Draw `json:"recent_draws"`
}
