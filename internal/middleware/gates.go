package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"drawbase/internal/errs"
	"drawbase/internal/models"
	"drawbase/internal/rbac"
	"drawbase/internal/response"
)

// AccessResolver is the slice of the directory the gates need.
type AccessResolver interface {
	IsMember(ctx context.Context, orgID, userID string) (bool, error)
	GetUserPermissions(ctx context.Context, orgID, userID string) (rbac.PermissionSet, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
}

// SubscriptionSource answers the ACTIVE-plan predicate.
type SubscriptionSource interface {
	HasActiveSubscription(ctx context.Context, orgID, plan string) (bool, error)
}

// Gates is the authorization middleware chain. Each gate is an independent
// predicate composed per route; a failing gate short-circuits the request
// with a final status, never a retry.
type Gates struct {
	resolver      AccessResolver
	subscriptions SubscriptionSource
}

func NewGates(resolver AccessResolver, subscriptions SubscriptionSource) *Gates {
	return &Gates{resolver: resolver, subscriptions: subscriptions}
}

func orgIDFromRequest(r *http.Request) string {
	return mux.Vars(r)["orgId"]
}

// RequireMembership rejects callers who are not members of the
// organization in the path: 401 without identity, 400 without an
// organization ID, 403 for non-members.
func (g *Gates) RequireMembership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r)
		if userID == "" {
			response.SendError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		orgID := orgIDFromRequest(r)
		if orgID == "" {
			response.SendError(w, http.StatusBadRequest, "Organization ID is required")
			return
		}
		ok, err := g.resolver.IsMember(r.Context(), orgID, userID)
		if err != nil {
			response.SendError(w, http.StatusInternalServerError, "Error checking membership")
			return
		}
		if !ok {
			response.SendError(w, http.StatusForbidden, "Forbidden: not a member of this organization")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission returns middleware that allows access only if the
// caller's derived permission set grants the given code. One factory
// serves every permission; must run after the identity middleware.
func (g *Gates) RequirePermission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r)
			if userID == "" {
				response.SendError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			orgID := orgIDFromRequest(r)
			if orgID == "" {
				response.SendError(w, http.StatusBadRequest, "Organization ID is required")
				return
			}
			perms, err := g.resolver.GetUserPermissions(r.Context(), orgID, userID)
			if err != nil {
				response.SendError(w, http.StatusInternalServerError, "Error checking permission")
				return
			}
			if !perms.Has(code) {
				response.SendError(w, http.StatusForbidden, "Forbidden: insufficient permission")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner allows only the organization owner through; used for
// destructive organization-level operations.
func (g *Gates) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r)
		if userID == "" {
			response.SendError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		orgID := orgIDFromRequest(r)
		if orgID == "" {
			response.SendError(w, http.StatusBadRequest, "Organization ID is required")
			return
		}
		org, err := g.resolver.GetOrganization(r.Context(), orgID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				response.SendError(w, http.StatusNotFound, "Organization not found")
				return
			}
			response.SendError(w, http.StatusInternalServerError, "Error checking ownership")
			return
		}
		if org.OwnerID != userID {
			response.SendError(w, http.StatusForbidden, "Forbidden: owner privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AttachContext enriches the request with the organization and the
// caller's permission set for downstream handlers. Best-effort: a lookup
// failure is logged and the request continues without the enrichment.
func (g *Gates) AttachContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r)
		orgID := orgIDFromRequest(r)
		if userID == "" || orgID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		if org, err := g.resolver.GetOrganization(ctx, orgID); err == nil {
			ctx = context.WithValue(ctx, OrgContextKey, org)
		} else if !errors.Is(err, errs.ErrNotFound) {
			log.Printf("attach context: organization lookup failed: %v", err)
		}
		if perms, err := g.resolver.GetUserPermissions(ctx, orgID, userID); err == nil {
			ctx = context.WithValue(ctx, PermissionsContextKey, perms)
		} else {
			log.Printf("attach context: permission lookup failed: %v", err)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActiveSubscription gates enterprise-tier routes: 404 when the
// organization does not exist, 403 without an ACTIVE enterprise
// subscription.
func (g *Gates) RequireActiveSubscription(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := orgIDFromRequest(r)
		if orgID == "" {
			response.SendError(w, http.StatusBadRequest, "Organization ID is required")
			return
		}
		if _, err := g.resolver.GetOrganization(r.Context(), orgID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				response.SendError(w, http.StatusNotFound, "Organization not found")
				return
			}
			response.SendError(w, http.StatusInternalServerError, "Error checking subscription")
			return
		}
		active, err := g.subscriptions.HasActiveSubscription(r.Context(), orgID, models.PlanEnterprise)
		if err != nil {
			response.SendError(w, http.StatusInternalServerError, "Error checking subscription")
			return
		}
		if !active {
			response.SendError(w, http.StatusForbidden, "Forbidden: an active enterprise subscription is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OrgFromContext returns the organization attached by AttachContext.
func OrgFromContext(r *http.Request) (*models.Organization, bool) {
	org, ok := r.Context().Value(OrgContextKey).(*models.Organization)
	return org, ok
}

// PermissionsFromContext returns the permission set attached by
// AttachContext.
func PermissionsFromContext(r *http.Request) (rbac.PermissionSet, bool) {
	perms, ok := r.Context().Value(PermissionsContextKey).(rbac.PermissionSet)
	return perms, ok
}
