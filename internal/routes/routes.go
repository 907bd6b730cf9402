// Package routes wires handlers, identity, and the access gates onto the
// router. Gate composition lives here so every route shows its full
// authorization chain in one place.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"drawbase/internal/handlers"
	"drawbase/internal/middleware"
	"drawbase/internal/rbac"
)

type Deps struct {
	Auth           *handlers.Auth
	Organizations  *handlers.Organizations
	Members        *handlers.Members
	Brands         *handlers.Brands
	Branding       *handlers.BrandingHandler
	Identity       *middleware.Identity
	Gates          *middleware.Gates
	AllowedOrigins []string
}

// New builds the full router. Layout:
//
//	public:       /health, /register, /login, /refresh, /public/branding*
//	authenticated: /api/... behind the identity middleware
//	org-scoped:   /api/organizations/{orgId}/... behind membership + context
func New(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/register", d.Auth.Register).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/login", d.Auth.Login).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/refresh", d.Auth.RefreshToken).Methods(http.MethodPost, http.MethodOptions)

	// Unauthenticated white-label lookups for custom domains.
	r.HandleFunc("/public/branding", d.Branding.GetByDomain).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/public/branding/css", d.Branding.ServeCSS).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(d.Identity.Middleware)

	api.HandleFunc("/logout", d.Auth.Logout).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/organizations", d.Organizations.Create).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/organizations", d.Organizations.ListMine).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/brands", d.Brands.ListMine).Methods(http.MethodGet, http.MethodOptions)

	// Everything below is scoped to one organization. Membership is the
	// outer gate; AttachContext then enriches the request for handlers.
	org := api.PathPrefix("/organizations/{orgId}").Subrouter()
	org.Use(d.Gates.RequireMembership, d.Gates.AttachContext)

	perm := func(code string, h http.HandlerFunc) http.Handler {
		return d.Gates.RequirePermission(code)(h)
	}

	org.HandleFunc("", d.Organizations.Get).Methods(http.MethodGet, http.MethodOptions)
	org.Handle("", perm(rbac.PermManageBilling, d.Organizations.Update)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("", d.Gates.RequireOwner(http.HandlerFunc(d.Organizations.Delete))).Methods(http.MethodDelete, http.MethodOptions)
	org.HandleFunc("/dashboard", d.Organizations.Dashboard).Methods(http.MethodGet, http.MethodOptions)

	org.HandleFunc("/members", d.Members.List).Methods(http.MethodGet, http.MethodOptions)
	org.Handle("/members", perm(rbac.PermManageMembers, d.Members.Invite)).Methods(http.MethodPost, http.MethodOptions)
	org.Handle("/members/{userId}", perm(rbac.PermManageMembers, d.Members.UpdateRole)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/members/{userId}", perm(rbac.PermManageMembers, d.Members.Remove)).Methods(http.MethodDelete, http.MethodOptions)
	org.HandleFunc("/members/me/permissions", d.Members.MyPermissions).Methods(http.MethodGet, http.MethodOptions)

	org.HandleFunc("/brands", d.Brands.ListByOrganization).Methods(http.MethodGet, http.MethodOptions)
	org.Handle("/brands", perm(rbac.PermManageBrands, d.Brands.Create)).Methods(http.MethodPost, http.MethodOptions)
	org.HandleFunc("/brands/{brandId}", d.Brands.Get).Methods(http.MethodGet, http.MethodOptions)
	org.Handle("/brands/{brandId}", perm(rbac.PermManageBrands, d.Brands.Update)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/brands/{brandId}", perm(rbac.PermManageBrands, d.Brands.Delete)).Methods(http.MethodDelete, http.MethodOptions)
	org.Handle("/brands/{brandId}/social-accounts/{accountId}", perm(rbac.PermManageBrands, d.Brands.ConnectSocialAccount)).Methods(http.MethodPost, http.MethodOptions)
	org.Handle("/brands/{brandId}/social-accounts/{accountId}", perm(rbac.PermManageBrands, d.Brands.DisconnectSocialAccount)).Methods(http.MethodDelete, http.MethodOptions)
	org.Handle("/brands/{brandId}/draws/{drawId}", perm(rbac.PermCreateDraws, d.Brands.AssignDraw)).Methods(http.MethodPost, http.MethodOptions)
	org.Handle("/brands/{brandId}/draws/{drawId}", perm(rbac.PermCreateDraws, d.Brands.UnassignDraw)).Methods(http.MethodDelete, http.MethodOptions)
	org.Handle("/brands/{brandId}/analytics", perm(rbac.PermViewAnalytics, d.Brands.Analytics)).Methods(http.MethodGet, http.MethodOptions)

	org.HandleFunc("/branding", d.Branding.Get).Methods(http.MethodGet, http.MethodOptions)
	org.Handle("/branding", perm(rbac.PermManageBranding, d.Branding.Update)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/branding", perm(rbac.PermManageBranding, d.Branding.Reset)).Methods(http.MethodDelete, http.MethodOptions)
	org.Handle("/branding/logo", perm(rbac.PermManageBranding, d.Branding.UploadLogo)).Methods(http.MethodPost, http.MethodOptions)
	org.Handle("/branding/favicon", perm(rbac.PermManageBranding, d.Branding.UploadFavicon)).Methods(http.MethodPost, http.MethodOptions)
	org.Handle("/branding/colors", perm(rbac.PermManageBranding, d.Branding.UpdateColors)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/branding/email", perm(rbac.PermManageBranding, d.Branding.UpdateEmail)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/branding/css", perm(rbac.PermManageBranding, d.Branding.SetCSS)).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/branding/remove-branding", perm(rbac.PermManageBranding, d.Branding.ToggleRemoval)).Methods(http.MethodPut, http.MethodOptions)
	org.HandleFunc("/branding/config", d.Branding.FrontendConfig).Methods(http.MethodGet, http.MethodOptions)

	// Custom domains are an enterprise-tier feature.
	org.Handle("/branding/domain",
		d.Gates.RequireActiveSubscription(perm(rbac.PermManageBranding, d.Branding.SetDomain))).Methods(http.MethodPut, http.MethodOptions)
	org.Handle("/branding/domain",
		d.Gates.RequireActiveSubscription(perm(rbac.PermManageBranding, d.Branding.RemoveDomain))).Methods(http.MethodDelete, http.MethodOptions)

	return r
}
