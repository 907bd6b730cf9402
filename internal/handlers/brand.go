package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"drawbase/internal/brands"
	"drawbase/internal/middleware"
	"drawbase/internal/models"
)

// Brands exposes brand sub-account management and the social-account and
// draw linkage endpoints.
type Brands struct {
	registry *brands.Registry
}

func NewBrands(reg *brands.Registry) *Brands {
	return &Brands{registry: reg}
}

func (h *Brands) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var in brands.CreateBrandInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	brand, err := h.registry.CreateBrand(r.Context(), mux.Vars(r)["orgId"], userID, in)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusCreated, "Brand created successfully", brand)
}

func (h *Brands) Get(w http.ResponseWriter, r *http.Request) {
	brand, err := h.registry.GetBrand(r.Context(), mux.Vars(r)["brandId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Brand retrieved successfully", brand)
}

func (h *Brands) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.BrandPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	brand, err := h.registry.UpdateBrand(r.Context(), mux.Vars(r)["brandId"], patch)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Brand updated successfully", brand)
}

func (h *Brands) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.DeleteBrand(r.Context(), mux.Vars(r)["brandId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Brand deleted successfully")
}

func (h *Brands) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.GetOrganizationBrands(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Brands retrieved successfully", list)
}

// ListMine returns every brand the caller can see: brands they created
// plus brands in organizations they belong to.
func (h *Brands) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		SendError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := h.registry.GetUserBrands(r.Context(), userID)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Brands retrieved successfully", list)
}

func (h *Brands) ConnectSocialAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.registry.ConnectSocialAccount(r.Context(), vars["brandId"], vars["accountId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Social account connected successfully")
}

func (h *Brands) DisconnectSocialAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.registry.DisconnectSocialAccount(r.Context(), vars["brandId"], vars["accountId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Social account disconnected successfully")
}

func (h *Brands) AssignDraw(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.registry.AssignDrawToBrand(r.Context(), vars["brandId"], vars["drawId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Draw assigned successfully")
}

func (h *Brands) UnassignDraw(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.registry.UnassignDrawFromBrand(r.Context(), vars["brandId"], vars["drawId"]); err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccessNoData(w, http.StatusOK, "Draw unassigned successfully")
}

func (h *Brands) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.registry.GetBrandAnalytics(r.Context(), mux.Vars(r)["brandId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Analytics retrieved successfully", analytics)
}
