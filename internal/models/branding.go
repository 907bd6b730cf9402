package models

import "time"

// Default color theme applied when a Branding row is created lazily.
const (
	DefaultPrimaryColor   = "#1976d2"
	DefaultSecondaryColor = "#dc004e"
)

// MaxCustomCSSLength bounds the custom_css column.
const MaxCustomCSSLength = 50000

// Branding is the single white-label configuration record per organization
// (organization_id unique). CustomDomain is unique across all organizations.
type Branding struct {
	ID             string                 `json:"id" db:"id"`
	OrganizationID string                 `json:"organization_id" db:"organization_id"`
	LogoURL        string                 `json:"logo_url,omitempty" db:"logo_url"`
	FaviconURL     string                 `json:"favicon_url,omitempty" db:"favicon_url"`
	PrimaryColor   string                 `json:"primary_color" db:"primary_color"`
	SecondaryColor string                 `json:"secondary_color" db:"secondary_color"`
	AccentColor    string                 `json:"accent_color,omitempty" db:"accent_color"`
	CustomDomain   *string                `json:"custom_domain,omitempty" db:"custom_domain"`
	RemoveBranding bool                   `json:"remove_branding" db:"remove_branding"`
	CustomCSS      string                 `json:"custom_css,omitempty" db:"custom_css"`
	EmailFromName  string                 `json:"email_from_name,omitempty" db:"email_from_name"`
	EmailReplyTo   string                 `json:"email_reply_to,omitempty" db:"email_reply_to"`
	Settings       map[string]interface{} `json:"settings,omitempty" db:"settings"`
	CreatedAt      time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at" db:"updated_at"`
}

type BrandingPatch struct {
	LogoURL        *string                `json:"logo_url"`
	FaviconURL     *string                `json:"favicon_url"`
	PrimaryColor   *string                `json:"primary_color"`
	SecondaryColor *string                `json:"secondary_color"`
	AccentColor    *string                `json:"accent_color"`
	CustomCSS      *string                `json:"custom_css"`
	EmailFromName  *string                `json:"email_from_name"`
	EmailReplyTo   *string                `json:"email_reply_to"`
	Settings       map[string]interface{} `json:"settings"`
}

// FrontendConfig is the public projection served to white-label clients.
type FrontendConfig struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
	FaviconURL     string `json:"favicon_url,omitempty"`
	RemoveBranding bool   `json:"remove_branding"`
	CustomCSS      string `json:"custom_css,omitempty"`
}
