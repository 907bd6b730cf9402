package models

import "time"

type Brand struct {
	ID             string                 `json:"id" db:"id"`
	OrganizationID string                 `json:"organization_id" db:"organization_id"`
	UserID         string                 `json:"user_id" db:"user_id"`
	Name           string                 `json:"name" db:"name"`
	Slug           string                 `json:"slug" db:"slug"`
	Description    string                 `json:"description,omitempty" db:"description"`
	Settings       map[string]interface{} `json:"settings,omitempty" db:"settings"`
	IsActive       bool                   `json:"is_active" db:"is_active"`
	CreatedAt      time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at" db:"updated_at"`

	// Eager-loaded relations (GetBrand only)
	Organization   *Organization   `json:"organization,omitempty"`
	Creator        *User           `json:"creator,omitempty"`
	SocialAccounts []SocialAccount `json:"social_accounts,omitempty"`
	Draws          []Draw          `json:"draws,omitempty"`

	// List-view counts (GetOrganizationBrands only)
	SocialAccountCount int `json:"social_account_count,omitempty"`
	DrawCount          int `json:"draw_count,omitempty"`
}

type BrandPatch struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	IsActive    *bool                  `json:"is_active"`
	Settings    map[string]interface{} `json:"settings"`
}

// SocialAccount is an externally managed account linked to brands through a
// join record.
type SocialAccount struct {
	ID        string    `json:"id" db:"id"`
	Platform  string    `json:"platform" db:"platform"`
	Handle    string    `json:"handle" db:"handle"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Draw is an external campaign entity; this subsystem only links and counts
// draws, it never runs them.
type Draw struct {
	ID               string    `json:"id" db:"id"`
	OrganizationID   string    `json:"organization_id" db:"organization_id"`
	Title            string    `json:"title" db:"title"`
	ParticipantCount int       `json:"participant_count" db:"participant_count"`
	WinnerCount      int       `json:"winner_count" db:"winner_count"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type BrandAnalytics struct {
	BrandID              string `json:"brand_id"`
	DrawCount            int    `json:"draw_count"`
	ParticipantCount     int    `json:"participant_count"`
	WinnerCount          int    `json:"winner_count"`
	ActiveSocialAccounts int    `json:"active_social_accounts"`
	RecentDraws          []Draw `json:"recent_draws"`
}
