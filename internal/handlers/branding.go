package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"drawbase/internal/branding"
	"drawbase/internal/models"
)

// BrandingHandler exposes the white-label configuration endpoints plus the
// public, unauthenticated domain lookup and CSS rendering.
type BrandingHandler struct {
	configurator *branding.Configurator
}

func NewBranding(c *branding.Configurator) *BrandingHandler {
	return &BrandingHandler{configurator: c}
}

func (h *BrandingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.configurator.GetOrCreateBranding(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Branding retrieved successfully", b)
}

func (h *BrandingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.BrandingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.configurator.UpdateBranding(r.Context(), mux.Vars(r)["orgId"], patch)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Branding updated successfully", b)
}

type UploadAssetRequest struct {
	URL string `json:"url"`
}

func (h *BrandingHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	var req UploadAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.UploadLogo(r.Context(), mux.Vars(r)["orgId"], req.URL)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Logo updated successfully", b)
}

func (h *BrandingHandler) UploadFavicon(w http.ResponseWriter, r *http.Request) {
	var req UploadAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.UploadFavicon(r.Context(), mux.Vars(r)["orgId"], req.URL)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Favicon updated successfully", b)
}

type ColorThemeRequest struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
}

func (h *BrandingHandler) UpdateColors(w http.ResponseWriter, r *http.Request) {
	var req ColorThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.UpdateColorTheme(r.Context(), mux.Vars(r)["orgId"], req.PrimaryColor, req.SecondaryColor, req.AccentColor)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Color theme updated successfully", b)
}

type EmailBrandingRequest struct {
	FromName string `json:"from_name"`
	ReplyTo  string `json:"reply_to"`
}

func (h *BrandingHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req EmailBrandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.UpdateEmailBranding(r.Context(), mux.Vars(r)["orgId"], req.FromName, req.ReplyTo)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Email branding updated successfully", b)
}

type CustomDomainRequest struct {
	Domain string `json:"domain"`
}

func (h *BrandingHandler) SetDomain(w http.ResponseWriter, r *http.Request) {
	var req CustomDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.SetCustomDomain(r.Context(), mux.Vars(r)["orgId"], req.Domain)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Custom domain set successfully", b)
}

func (h *BrandingHandler) RemoveDomain(w http.ResponseWriter, r *http.Request) {
	b, err := h.configurator.RemoveCustomDomain(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Custom domain removed successfully", b)
}

type RemoveBrandingRequest struct {
	Remove bool `json:"remove"`
}

func (h *BrandingHandler) ToggleRemoval(w http.ResponseWriter, r *http.Request) {
	var req RemoveBrandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.ToggleBrandingRemoval(r.Context(), mux.Vars(r)["orgId"], req.Remove)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Branding removal updated successfully", b)
}

type CustomCSSRequest struct {
	CSS string `json:"css"`
}

func (h *BrandingHandler) SetCSS(w http.ResponseWriter, r *http.Request) {
	var req CustomCSSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.configurator.SetCustomCSS(r.Context(), mux.Vars(r)["orgId"], req.CSS)
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Custom CSS updated successfully", b)
}

func (h *BrandingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	b, err := h.configurator.ResetBranding(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Branding reset successfully", b)
}

func (h *BrandingHandler) FrontendConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configurator.GetFrontendConfig(r.Context(), mux.Vars(r)["orgId"])
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Config retrieved successfully", cfg)
}

// GetByDomain is the public white-label lookup; the domain arrives as a
// query parameter because the route is not organization-scoped.
func (h *BrandingHandler) GetByDomain(w http.ResponseWriter, r *http.Request) {
	b, err := h.configurator.GetBrandingByDomain(r.Context(), r.URL.Query().Get("domain"))
	if err != nil {
		SendServiceError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, "Branding retrieved successfully", b)
}

// ServeCSS renders the branding for a domain as a stylesheet, bypassing
// the JSON envelope.
func (h *BrandingHandler) ServeCSS(w http.ResponseWriter, r *http.Request) {
	b, err := h.configurator.GetBrandingByDomain(r.Context(), r.URL.Query().Get("domain"))
	if err != nil {
		SendServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(branding.GenerateCSSVariables(b)))
}
