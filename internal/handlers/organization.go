package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"drawbase/internal/directory"
	"drawbase/internal/middleware"
	"drawbase/internal/models"
)

// Organizations exposes organization lifecycle and the dashboard over the
// directory service.
type Organizations struct {
	directory *directory.Service
}

func NewOrganizations(d *directory.Service) *Organizations {
	return &Organizations{directory: d}
}

func (h *Organizations) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		SendError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in directory.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	org, err := h.directory.CreateOrganization(r.Context(), userID, in)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusCreated, "Organization created successfully", org)
}

func (h *Organizations) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.directory.GetOrganization(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Organization retrieved successfully", org)
}

func (h *Organizations) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.OrganizationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	org, err := h.directory.UpdateOrganization(r.Context(), mux.Vars(r)["orgId"], patch)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Organization updated successfully", org)
}

func (h *Organizations) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.DeleteOrganization(r.Context(), mux.Vars(r)["orgId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Organization deleted successfully")
}

// ListMine returns the organizations the caller belongs to.
func (h *Organizations) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		SendError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orgs, err := h.directory.ListUserOrganizations(r.Context(), userID)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Organizations retrieved successfully", orgs)
}

func (h *Organizations) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.directory.GetDashboard(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Dashboard retrieved successfully", stats)
}
