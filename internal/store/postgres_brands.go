package store

import (
	"context"
	"database/sql"
	"fmt"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

func (s *Postgres) CreateBrand(ctx context.Context, b *models.Brand) error {
	settings, err := marshalSettings(b.Settings)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO brands (id, organization_id, user_id, name, slug, description, settings, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		b.ID, b.OrganizationID, b.UserID, b.Name, b.Slug, b.Description, settings, b.IsActive,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "brand slug already exists in this organization")
	}
	return nil
}

func (s *Postgres) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	var (
		b        models.Brand
		settings []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, organization_id, user_id, name, slug, description, settings, is_active, created_at, updated_at
		 FROM brands WHERE id=$1`, id,
	).Scan(&b.ID, &b.OrganizationID, &b.UserID, &b.Name, &b.Slug, &b.Description,
		&settings, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("brand not found")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalSettings(settings, &b.Settings); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Postgres) UpdateBrand(ctx context.Context, id string, patch models.BrandPatch) (*models.Brand, error) {
	set := "updated_at = now()"
	args := []interface{}{id}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.Settings != nil {
		settings, err := marshalSettings(patch.Settings)
		if err != nil {
			return nil, err
		}
		add("settings", settings)
	}

	result, err := s.db.ExecContext(ctx, "UPDATE brands SET "+set+" WHERE id = $1", args...)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("brand not found")
	}
	return s.GetBrand(ctx, id)
}

func (s *Postgres) DeleteBrand(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM brands WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFoundf("brand not found")
	}
	return nil
}

func (s *Postgres) ListOrganizationBrands(ctx context.Context, orgID string) ([]models.Brand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.organization_id, b.user_id, b.name, b.slug, b.description, b.settings, b.is_active, b.created_at, b.updated_at,
		   (SELECT COUNT(*) FROM brand_social_accounts bs WHERE bs.brand_id = b.id) AS social_count,
		   (SELECT COUNT(*) FROM brand_draws bd WHERE bd.brand_id = b.id) AS draw_count
		 FROM brands b
		 WHERE b.organization_id = $1
		 ORDER BY b.created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		var (
			b        models.Brand
			settings []byte
		)
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.UserID, &b.Name, &b.Slug, &b.Description,
			&settings, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
			&b.SocialAccountCount, &b.DrawCount); err != nil {
			return nil, err
		}
		if err := unmarshalSettings(settings, &b.Settings); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// ListUserBrands returns brands the user created plus brands in any
// organization the user belongs to, deduplicated.
func (s *Postgres) ListUserBrands(ctx context.Context, userID string) ([]models.Brand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT b.id, b.organization_id, b.user_id, b.name, b.slug, b.description, b.settings, b.is_active, b.created_at, b.updated_at
		 FROM brands b
		 LEFT JOIN organization_members m ON m.organization_id = b.organization_id AND m.user_id = $1
		 WHERE b.user_id = $1 OR m.user_id IS NOT NULL
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		var (
			b        models.Brand
			settings []byte
		)
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.UserID, &b.Name, &b.Slug, &b.Description,
			&settings, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalSettings(settings, &b.Settings); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (s *Postgres) CountBrands(ctx context.Context, orgID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM brands WHERE organization_id=$1", orgID).Scan(&count)
	return count, err
}

// ---- Brand joins ----

// ConnectSocialAccount fails with Conflict on a duplicate connection.
// Compare AssignDraw, which deliberately no-ops instead.
func (s *Postgres) ConnectSocialAccount(ctx context.Context, brandID, accountID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO brand_social_accounts (brand_id, social_account_id, is_active) VALUES ($1, $2, true)",
		brandID, accountID)
	if err != nil {
		return mapWriteErr(err, "social account already connected to this brand")
	}
	return nil
}

func (s *Postgres) DisconnectSocialAccount(ctx context.Context, brandID, accountID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM brand_social_accounts WHERE brand_id=$1 AND social_account_id=$2",
		brandID, accountID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFoundf("social account connection not found")
	}
	return nil
}

func (s *Postgres) ListBrandSocialAccounts(ctx context.Context, brandID string) ([]models.SocialAccount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.platform, a.handle, bs.is_active, a.created_at
		 FROM social_accounts a
		 INNER JOIN brand_social_accounts bs ON bs.social_account_id = a.id
		 WHERE bs.brand_id = $1
		 ORDER BY a.created_at DESC`, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.SocialAccount
	for rows.Next() {
		var a models.SocialAccount
		if err := rows.Scan(&a.ID, &a.Platform, &a.Handle, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Postgres) CountActiveBrandSocialAccounts(ctx context.Context, brandID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM brand_social_accounts WHERE brand_id=$1 AND is_active=true",
		brandID).Scan(&count)
	return count, err
}

// AssignDraw is idempotent: a duplicate assignment is silently skipped so
// the call is safe to retry.
func (s *Postgres) AssignDraw(ctx context.Context, brandID, drawID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO brand_draws (brand_id, draw_id) VALUES ($1, $2) ON CONFLICT (brand_id, draw_id) DO NOTHING",
		brandID, drawID)
	if err != nil {
		return mapWriteErr(err, "draw assignment conflict")
	}
	return nil
}

func (s *Postgres) UnassignDraw(ctx context.Context, brandID, drawID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM brand_draws WHERE brand_id=$1 AND draw_id=$2", brandID, drawID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFoundf("draw assignment not found")
	}
	return nil
}

func (s *Postgres) ListBrandDraws(ctx context.Context, brandID string, limit int) ([]models.Draw, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.organization_id, d.title, d.participant_count, d.winner_count, d.created_at
		 FROM draws d
		 INNER JOIN brand_draws bd ON bd.draw_id = d.id
		 WHERE bd.brand_id = $1
		 ORDER BY d.created_at DESC
		 LIMIT $2`, brandID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDraws(rows)
}

func (s *Postgres) CountBrandDraws(ctx context.Context, brandID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM brand_draws WHERE brand_id=$1", brandID).Scan(&count)
	return count, err
}

func (s *Postgres) SumBrandDrawParticipants(ctx context.Context, brandID string) (int, error) {
	var sum int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(d.participant_count), 0)
		 FROM draws d INNER JOIN brand_draws bd ON bd.draw_id = d.id
		 WHERE bd.brand_id = $1`, brandID).Scan(&sum)
	return sum, err
}

func (s *Postgres) SumBrandDrawWinners(ctx context.Context, brandID string) (int, error) {
	var sum int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(d.winner_count), 0)
		 FROM draws d INNER JOIN brand_draws bd ON bd.draw_id = d.id
		 WHERE bd.brand_id = $1`, brandID).Scan(&sum)
	return sum, err
}

// ---- Social accounts and draws ----

func (s *Postgres) CreateSocialAccount(ctx context.Context, a *models.SocialAccount) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO social_accounts (id, platform, handle, is_active)
		 VALUES ($1, $2, $3, $4) RETURNING created_at`,
		a.ID, a.Platform, a.Handle, a.IsActive).Scan(&a.CreatedAt)
	if err != nil {
		return mapWriteErr(err, "social account already exists")
	}
	return nil
}

func (s *Postgres) CreateDraw(ctx context.Context, d *models.Draw) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO draws (id, organization_id, title, participant_count, winner_count)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		d.ID, d.OrganizationID, d.Title, d.ParticipantCount, d.WinnerCount).Scan(&d.CreatedAt)
	if err != nil {
		return mapWriteErr(err, "draw already exists")
	}
	return nil
}

func (s *Postgres) CountOrganizationDraws(ctx context.Context, orgID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM draws WHERE organization_id=$1", orgID).Scan(&count)
	return count, err
}

func (s *Postgres) ListRecentOrganizationDraws(ctx context.Context, orgID string, limit int) ([]models.Draw, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, organization_id, title, participant_count, winner_count, created_at
		 FROM draws WHERE organization_id = $1
		 ORDER BY created_at DESC LIMIT $2`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDraws(rows)
}

func (s *Postgres) CountActiveOrganizationSocialAccounts(ctx context.Context, orgID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM brand_social_accounts bs
		 INNER JOIN brands b ON b.id = bs.brand_id
		 WHERE b.organization_id = $1 AND bs.is_active = true`, orgID).Scan(&count)
	return count, err
}

func scanDraws(rows *sql.Rows) ([]models.Draw, error) {
	var draws []models.Draw
	for rows.Next() {
		var d models.Draw
		if err := rows.Scan(&d.ID, &d.OrganizationID, &d.Title,
			&d.ParticipantCount, &d.WinnerCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}
