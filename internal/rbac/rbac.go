package rbac

import "drawbase/internal/models"

// Permission codes usable in explicit member overrides and in route gates.
const (
	PermManageMembers  = "manage_members"
	PermManageBrands   = "manage_brands"
	PermManageBilling  = "manage_billing"
	PermManageBranding = "manage_branding"
	PermCreateDraws    = "create_draws"
	PermViewAnalytics  = "view_analytics"

	// PermAll is the full-access marker stamped on the OWNER membership at
	// organization creation.
	PermAll = "*"
)

// PermissionSet is the derived capability map for one membership. It is
// never persisted; callers recompute it from the authoritative role so a
// role change takes effect on the next read.
type PermissionSet struct {
	CanManageMembers  bool `json:"can_manage_members"`
	CanManageBrands   bool `json:"can_manage_brands"`
	CanManageBilling  bool `json:"can_manage_billing"`
	CanManageBranding bool `json:"can_manage_branding"`
	CanCreateDraws    bool `json:"can_create_draws"`
	CanViewAnalytics  bool `json:"can_view_analytics"`
}

// None is the all-false set returned for non-members.
func None() PermissionSet {
	return PermissionSet{}
}

// FromRole computes the permission set for a role plus optional explicit
// override codes. Overrides only ever grant, never revoke.
func FromRole(role models.MemberRole, overrides []string) PermissionSet {
	var p PermissionSet
	switch role {
	case models.RoleOwner:
		p = PermissionSet{
			CanManageMembers:  true,
			CanManageBrands:   true,
			CanManageBilling:  true,
			CanManageBranding: true,
			CanCreateDraws:    true,
			CanViewAnalytics:  true,
		}
	case models.RoleAdmin:
		p = PermissionSet{
			CanManageMembers:  true,
			CanManageBrands:   true,
			CanManageBranding: true,
			CanCreateDraws:    true,
			CanViewAnalytics:  true,
		}
	case models.RoleMember:
		p = PermissionSet{
			CanManageBrands:  true,
			CanCreateDraws:   true,
			CanViewAnalytics: true,
		}
	case models.RoleViewer:
		p = PermissionSet{
			CanViewAnalytics: true,
		}
	default:
		return p
	}

	for _, code := range overrides {
		p.grant(code)
	}
	return p
}

func (p *PermissionSet) grant(code string) {
	switch code {
	case PermAll:
		*p = PermissionSet{true, true, true, true, true, true}
	case PermManageMembers:
		p.CanManageMembers = true
	case PermManageBrands:
		p.CanManageBrands = true
	case PermManageBilling:
		p.CanManageBilling = true
	case PermManageBranding:
		p.CanManageBranding = true
	case PermCreateDraws:
		p.CanCreateDraws = true
	case PermViewAnalytics:
		p.CanViewAnalytics = true
	}
}

// Has reports whether the named permission code is granted.
func (p PermissionSet) Has(code string) bool {
	switch code {
	case PermManageMembers:
		return p.CanManageMembers
	case PermManageBrands:
		return p.CanManageBrands
	case PermManageBilling:
		return p.CanManageBilling
	case PermManageBranding:
		return p.CanManageBranding
	case PermCreateDraws:
		return p.CanCreateDraws
	case PermViewAnalytics:
		return p.CanViewAnalytics
	}
	return false
}
