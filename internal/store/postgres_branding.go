package store

import (
	"context"
	"database/sql"
	"fmt"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

const brandingColumns = `id, organization_id, logo_url, favicon_url, primary_color, secondary_color, accent_color,
	custom_domain, remove_branding, custom_css, email_from_name, email_reply_to, settings, created_at, updated_at`

// EnsureBranding creates the branding row with defaults if it does not
// exist, then reads it back. A concurrent first access loses the insert on
// the organization_id unique constraint and simply re-reads.
func (s *Postgres) EnsureBranding(ctx context.Context, defaults *models.Branding) (*models.Branding, error) {
	settings, err := marshalSettings(defaults.Settings)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO branding (id, organization_id, primary_color, secondary_color, settings)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (organization_id) DO NOTHING`,
		defaults.ID, defaults.OrganizationID, defaults.PrimaryColor, defaults.SecondaryColor, settings)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return nil, errs.NotFoundf("organization not found")
		}
		return nil, err
	}
	return s.GetBranding(ctx, defaults.OrganizationID)
}

func (s *Postgres) GetBranding(ctx context.Context, orgID string) (*models.Branding, error) {
	return s.scanBranding(s.db.QueryRowContext(ctx,
		"SELECT "+brandingColumns+" FROM branding WHERE organization_id=$1", orgID))
}

func (s *Postgres) GetBrandingByDomain(ctx context.Context, domain string) (*models.Branding, error) {
	return s.scanBranding(s.db.QueryRowContext(ctx,
		"SELECT "+brandingColumns+" FROM branding WHERE custom_domain=$1", domain))
}

func (s *Postgres) scanBranding(row *sql.Row) (*models.Branding, error) {
	var (
		b        models.Branding
		settings []byte
	)
	err := row.Scan(&b.ID, &b.OrganizationID, &b.LogoURL, &b.FaviconURL,
		&b.PrimaryColor, &b.SecondaryColor, &b.AccentColor, &b.CustomDomain,
		&b.RemoveBranding, &b.CustomCSS, &b.EmailFromName, &b.EmailReplyTo,
		&settings, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("branding not found")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalSettings(settings, &b.Settings); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Postgres) UpdateBranding(ctx context.Context, orgID string, patch models.BrandingPatch) (*models.Branding, error) {
	set := "updated_at = now()"
	args := []interface{}{orgID}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	if patch.LogoURL != nil {
		add("logo_url", *patch.LogoURL)
	}
	if patch.FaviconURL != nil {
		add("favicon_url", *patch.FaviconURL)
	}
	if patch.PrimaryColor != nil {
		add("primary_color", *patch.PrimaryColor)
	}
	if patch.SecondaryColor != nil {
		add("secondary_color", *patch.SecondaryColor)
	}
	if patch.AccentColor != nil {
		add("accent_color", *patch.AccentColor)
	}
	if patch.CustomCSS != nil {
		add("custom_css", *patch.CustomCSS)
	}
	if patch.EmailFromName != nil {
		add("email_from_name", *patch.EmailFromName)
	}
	if patch.EmailReplyTo != nil {
		add("email_reply_to", *patch.EmailReplyTo)
	}
	if patch.Settings != nil {
		settings, err := marshalSettings(patch.Settings)
		if err != nil {
			return nil, err
		}
		add("settings", settings)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE branding SET "+set+" WHERE organization_id = $1", args...)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("branding not found")
	}
	return s.GetBranding(ctx, orgID)
}

// ClaimCustomDomain binds domain to the organization. The global unique
// index on custom_domain is the source of truth; losing a race surfaces as
// Conflict regardless of what a prior read said.
func (s *Postgres) ClaimCustomDomain(ctx context.Context, orgID, domain string) (*models.Branding, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE branding SET custom_domain=$2, updated_at=now() WHERE organization_id=$1",
		orgID, domain)
	if err != nil {
		return nil, mapWriteErr(err, "custom domain is already in use by another organization")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("branding not found")
	}
	return s.GetBranding(ctx, orgID)
}

func (s *Postgres) ReleaseCustomDomain(ctx context.Context, orgID string) (*models.Branding, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE branding SET custom_domain=NULL, updated_at=now() WHERE organization_id=$1", orgID)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("branding not found")
	}
	return s.GetBranding(ctx, orgID)
}

func (s *Postgres) SetRemoveBranding(ctx context.Context, orgID string, remove bool) (*models.Branding, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE branding SET remove_branding=$2, updated_at=now() WHERE organization_id=$1",
		orgID, remove)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("branding not found")
	}
	return s.GetBranding(ctx, orgID)
}

// ResetBranding restores the fixed defaults and releases the custom domain.
func (s *Postgres) ResetBranding(ctx context.Context, orgID string, defaults *models.Branding) (*models.Branding, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE branding SET
		   logo_url='', favicon_url='',
		   primary_color=$2, secondary_color=$3, accent_color='',
		   custom_domain=NULL, remove_branding=false, custom_css='',
		   email_from_name='', email_reply_to='', settings='{}',
		   updated_at=now()
		 WHERE organization_id=$1`,
		orgID, defaults.PrimaryColor, defaults.SecondaryColor)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("branding not found")
	}
	return s.GetBranding(ctx, orgID)
}
