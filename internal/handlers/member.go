package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"drawbase/internal/directory"
	"drawbase/internal/middleware"
	"drawbase/internal/models"
	"drawbase/internal/response"
)

// Members exposes membership management under an organization.
type Members struct {
	directory *directory.Service
}

func NewMembers(d *directory.Service) *Members {
	return &Members{directory: d}
}

func (h *Members) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.directory.ListMembers(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}

	page, perPage := pageParams(r)
	total := len(members)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	SendPaginatedSuccess(w, http.StatusOK, "Members retrieved successfully", members[start:end], response.PaginationMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func (h *Members) Invite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var in directory.InviteMemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.directory.InviteMember(r.Context(), mux.Vars(r)["orgId"], userID, in)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusCreated, "Member invited successfully", member)
}

type UpdateMemberRequest struct {
	Role        models.MemberRole `json:"role"`
	Permissions []string          `json:"permissions"`
}

func (h *Members) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vars := mux.Vars(r)
	member, err := h.directory.UpdateMemberRole(r.Context(), vars["orgId"], vars["userId"], req.Role, req.Permissions)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Member updated successfully", member)
}

func (h *Members) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.directory.RemoveMember(r.Context(), vars["orgId"], vars["userId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Member removed successfully")
}

// MyPermissions returns the caller's derived permission set for the
// organization so the FE can hide controls the caller cannot use.
func (h *Members) MyPermissions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		SendError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	perms, err := h.directory.GetUserPermissions(r.Context(), mux.Vars(r)["orgId"], userID)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Permissions retrieved successfully", perms)
}
