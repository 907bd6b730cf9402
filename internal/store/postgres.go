package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

// Postgres implements Store over database/sql with lib/pq. Uniqueness and
// quota invariants are enforced by constraints and conditional writes, never
// by unguarded read-then-write sequences.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Postgres error codes this store reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerializationFail   = "40001"
)

func pgErrCode(err error) string {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code)
	}
	return ""
}

// mapWriteErr converts constraint violations to taxonomy errors.
func mapWriteErr(err error, conflictMsg string) error {
	switch pgErrCode(err) {
	case pgUniqueViolation:
		return errs.Conflictf("%s", conflictMsg)
	case pgForeignKeyViolation:
		return errs.NotFoundf("referenced record does not exist")
	}
	return err
}

func marshalSettings(settings map[string]interface{}) ([]byte, error) {
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return json.Marshal(settings)
}

func unmarshalSettings(raw []byte, dst *map[string]interface{}) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// ---- Users ----

func (s *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (id, name, email, password) VALUES ($1, $2, $3, $4) RETURNING created_at",
		u.ID, u.Name, u.Email, u.Password).Scan(&u.CreatedAt)
	if err != nil {
		return mapWriteErr(err, "email already registered")
	}
	return nil
}

func (s *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password, created_at FROM users WHERE id=$1", id))
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password, created_at FROM users WHERE email=$1", email))
}

func (s *Postgres) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ---- Organizations ----

// CreateOrganization inserts the organization row and its OWNER member row
// in one transaction; a failure on either rolls back both.
func (s *Postgres) CreateOrganization(ctx context.Context, org *models.Organization, owner *models.Member) error {
	settings, err := marshalSettings(org.Settings)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO organizations (id, name, slug, owner_id, billing_email, subscription_tier, max_sub_accounts, settings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		org.ID, org.Name, org.Slug, org.OwnerID, org.BillingEmail,
		org.SubscriptionTier, org.MaxSubAccounts, settings,
	).Scan(&org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "organization slug already exists")
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO organization_members (organization_id, user_id, role, permissions, invited_by)
		 VALUES ($1, $2, $3, $4, $5) RETURNING joined_at`,
		owner.OrganizationID, owner.UserID, owner.Role, pq.Array(owner.Permissions), owner.InvitedBy,
	).Scan(&owner.JoinedAt)
	if err != nil {
		return mapWriteErr(err, "owner is already a member")
	}

	return tx.Commit()
}

func (s *Postgres) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var (
		org      models.Organization
		settings []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, owner_id, billing_email, subscription_tier, max_sub_accounts, settings, created_at, updated_at
		 FROM organizations WHERE id=$1`, id,
	).Scan(&org.ID, &org.Name, &org.Slug, &org.OwnerID, &org.BillingEmail,
		&org.SubscriptionTier, &org.MaxSubAccounts, &settings, &org.CreatedAt, &org.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("organization not found")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalSettings(settings, &org.Settings); err != nil {
		return nil, err
	}

	if owner, err := s.GetUserByID(ctx, org.OwnerID); err == nil {
		org.Owner = owner
	}
	if members, err := s.ListMembers(ctx, org.ID); err == nil {
		org.Members = members
	}
	if brands, err := s.ListOrganizationBrands(ctx, org.ID); err == nil {
		org.Brands = brands
	}
	if branding, err := s.GetBranding(ctx, org.ID); err == nil {
		org.Branding = branding
	}
	return &org, nil
}

func (s *Postgres) OrganizationExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM organizations WHERE id=$1)", id).Scan(&exists)
	return exists, err
}

func (s *Postgres) UpdateOrganization(ctx context.Context, id string, patch models.OrganizationPatch) (*models.Organization, error) {
	set := "updated_at = now()"
	args := []interface{}{id}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.BillingEmail != nil {
		add("billing_email", *patch.BillingEmail)
	}
	if patch.SubscriptionTier != nil {
		add("subscription_tier", *patch.SubscriptionTier)
	}
	if patch.MaxSubAccounts != nil {
		add("max_sub_accounts", *patch.MaxSubAccounts)
	}
	if patch.Settings != nil {
		settings, err := marshalSettings(patch.Settings)
		if err != nil {
			return nil, err
		}
		add("settings", settings)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE organizations SET "+set+" WHERE id = $1", args...)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFoundf("organization not found")
	}
	return s.GetOrganization(ctx, id)
}

func (s *Postgres) DeleteOrganization(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM organizations WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFoundf("organization not found")
	}
	return nil
}

func (s *Postgres) ListUserOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id, o.name, o.slug, o.owner_id, o.billing_email, o.subscription_tier, o.max_sub_accounts, o.settings, o.created_at, o.updated_at
		 FROM organizations o
		 INNER JOIN organization_members m ON m.organization_id = o.id
		 WHERE m.user_id = $1
		 ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		var (
			org      models.Organization
			settings []byte
		)
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.OwnerID, &org.BillingEmail,
			&org.SubscriptionTier, &org.MaxSubAccounts, &settings, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalSettings(settings, &org.Settings); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// ---- Members ----

// AddMember inserts a membership only while the member count stays under
// maxMembers. The conditional insert runs in a serializable transaction so
// concurrent invites cannot overshoot the quota; serialization failures are
// retried.
func (s *Postgres) AddMember(ctx context.Context, m *models.Member, maxMembers int) error {
	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := s.addMemberTx(ctx, m, maxMembers)
		if pgErrCode(err) == pgSerializationFail {
			lastErr = err
			continue
		}
		return err
	}
	return lastErr
}

func (s *Postgres) addMemberTx(ctx context.Context, m *models.Member, maxMembers int) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO organization_members (organization_id, user_id, role, permissions, invited_by)
		 SELECT $1, $2, $3, $4, $5
		 WHERE (SELECT COUNT(*) FROM organization_members WHERE organization_id = $1) < $6
		 RETURNING joined_at`,
		m.OrganizationID, m.UserID, m.Role, pq.Array(m.Permissions), m.InvitedBy, maxMembers,
	).Scan(&m.JoinedAt)
	if err == sql.ErrNoRows {
		return errs.QuotaExceededf("organization member limit of %d reached", maxMembers)
	}
	if err != nil {
		return mapWriteErr(err, "user is already a member of this organization")
	}
	return tx.Commit()
}

func (s *Postgres) GetMember(ctx context.Context, orgID, userID string) (*models.Member, error) {
	var m models.Member
	err := s.db.QueryRowContext(ctx,
		`SELECT organization_id, user_id, role, permissions, invited_by, joined_at
		 FROM organization_members WHERE organization_id=$1 AND user_id=$2`,
		orgID, userID,
	).Scan(&m.OrganizationID, &m.UserID, &m.Role, pq.Array(&m.Permissions), &m.InvitedBy, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("member not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Postgres) ListMembers(ctx context.Context, orgID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.organization_id, m.user_id, m.role, m.permissions, m.invited_by, m.joined_at, u.name, u.email
		 FROM organization_members m
		 INNER JOIN users u ON u.id = m.user_id
		 WHERE m.organization_id = $1
		 ORDER BY m.joined_at ASC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.Role, pq.Array(&m.Permissions),
			&m.InvitedBy, &m.JoinedAt, &m.UserName, &m.UserEmail); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Postgres) UpdateMember(ctx context.Context, orgID, userID string, role models.MemberRole, permissions []string) (*models.Member, error) {
	var m models.Member
	err := s.db.QueryRowContext(ctx,
		`UPDATE organization_members SET role=$3, permissions=$4
		 WHERE organization_id=$1 AND user_id=$2
		 RETURNING organization_id, user_id, role, permissions, invited_by, joined_at`,
		orgID, userID, role, pq.Array(permissions),
	).Scan(&m.OrganizationID, &m.UserID, &m.Role, pq.Array(&m.Permissions), &m.InvitedBy, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("member not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Postgres) RemoveMember(ctx context.Context, orgID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM organization_members WHERE organization_id=$1 AND user_id=$2", orgID, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFoundf("member not found")
	}
	return nil
}

func (s *Postgres) CountMembers(ctx context.Context, orgID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM organization_members WHERE organization_id=$1", orgID).Scan(&count)
	return count, err
}

// ---- Subscriptions ----

func (s *Postgres) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions (id, organization_id, plan, status)
		 VALUES ($1, $2, $3, $4) RETURNING created_at`,
		sub.ID, sub.OrganizationID, sub.Plan, sub.Status).Scan(&sub.CreatedAt)
	if err != nil {
		return mapWriteErr(err, "subscription already exists")
	}
	return nil
}

// HasActiveSubscription reports whether the organization has an ACTIVE
// subscription record. An empty plan matches any plan.
func (s *Postgres) HasActiveSubscription(ctx context.Context, orgID, plan string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM subscriptions
		   WHERE organization_id = $1 AND status = 'ACTIVE' AND ($2 = '' OR plan = $2)
		 )`, orgID, plan).Scan(&exists)
	return exists, err
}
