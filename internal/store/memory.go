package store

import (
	"context"
	"sync"
	"time"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

// Memory is an in-process Store used by tests and local development. A
// single mutex serializes every operation, which makes the multi-step
// invariants (quota-bounded insert, lazy branding create, domain claim)
// atomic the same way the Postgres transactions do.
type Memory struct {
	mu sync.Mutex

	users    map[string]*models.User
	orgs     map[string]*models.Organization
	orgOrder []string

	members map[string]map[string]*models.Member // orgID -> userID

	brands     map[string]*models.Brand
	brandOrder []string

	socialAccounts map[string]*models.SocialAccount
	draws          map[string]*models.Draw
	drawOrder      []string

	brandSocial map[string]map[string]bool // brandID -> accountID -> isActive
	brandDraws  map[string]map[string]bool // brandID -> drawID

	branding map[string]*models.Branding // orgID -> row
	domains  map[string]string           // customDomain -> orgID

	subscriptions []*models.Subscription
}

func NewMemory() *Memory {
	return &Memory{
		users:          make(map[string]*models.User),
		orgs:           make(map[string]*models.Organization),
		members:        make(map[string]map[string]*models.Member),
		brands:         make(map[string]*models.Brand),
		socialAccounts: make(map[string]*models.SocialAccount),
		draws:          make(map[string]*models.Draw),
		brandSocial:    make(map[string]map[string]bool),
		brandDraws:     make(map[string]map[string]bool),
		branding:       make(map[string]*models.Branding),
		domains:        make(map[string]string),
	}
}

// ---- Users ----

func (s *Memory) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return errs.Conflictf("email already registered")
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Memory) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errs.NotFoundf("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("user not found")
}

// ---- Organizations ----

func (s *Memory) CreateOrganization(ctx context.Context, org *models.Organization, owner *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orgs {
		if existing.Slug == org.Slug {
			return errs.Conflictf("organization slug already exists")
		}
	}
	now := time.Now()
	org.CreatedAt, org.UpdatedAt = now, now
	owner.JoinedAt = now

	orgCp := *org
	orgCp.Owner, orgCp.Members, orgCp.Brands, orgCp.Branding = nil, nil, nil, nil
	s.orgs[org.ID] = &orgCp
	s.orgOrder = append(s.orgOrder, org.ID)

	ownerCp := *owner
	s.members[org.ID] = map[string]*models.Member{owner.UserID: &ownerCp}
	return nil
}

func (s *Memory) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	s.mu.Lock()
	org, ok := s.orgs[id]
	if !ok {
		s.mu.Unlock()
		return nil, errs.NotFoundf("organization not found")
	}
	cp := *org
	if owner, ok := s.users[org.OwnerID]; ok {
		ownerCp := *owner
		cp.Owner = &ownerCp
	}
	cp.Members = s.listMembersLocked(id)
	cp.Brands = s.listOrganizationBrandsLocked(id)
	if b, ok := s.branding[id]; ok {
		bCp := *b
		cp.Branding = &bCp
	}
	s.mu.Unlock()
	return &cp, nil
}

func (s *Memory) OrganizationExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.orgs[id]
	return ok, nil
}

func (s *Memory) UpdateOrganization(ctx context.Context, id string, patch models.OrganizationPatch) (*models.Organization, error) {
	s.mu.Lock()
	org, ok := s.orgs[id]
	if !ok {
		s.mu.Unlock()
		return nil, errs.NotFoundf("organization not found")
	}
	if patch.Name != nil {
		org.Name = *patch.Name
	}
	if patch.BillingEmail != nil {
		org.BillingEmail = *patch.BillingEmail
	}
	if patch.SubscriptionTier != nil {
		org.SubscriptionTier = *patch.SubscriptionTier
	}
	if patch.MaxSubAccounts != nil {
		org.MaxSubAccounts = *patch.MaxSubAccounts
	}
	if patch.Settings != nil {
		org.Settings = patch.Settings
	}
	org.UpdatedAt = time.Now()
	s.mu.Unlock()
	return s.GetOrganization(ctx, id)
}

// DeleteOrganization cascades to members, brands (and their joins), draws,
// branding, and subscriptions, mirroring the FK cascade in Postgres.
func (s *Memory) DeleteOrganization(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return errs.NotFoundf("organization not found")
	}
	delete(s.orgs, id)
	s.orgOrder = removeString(s.orgOrder, id)
	delete(s.members, id)

	for brandID, b := range s.brands {
		if b.OrganizationID == id {
			delete(s.brands, brandID)
			s.brandOrder = removeString(s.brandOrder, brandID)
			delete(s.brandSocial, brandID)
			delete(s.brandDraws, brandID)
		}
	}
	for drawID, d := range s.draws {
		if d.OrganizationID == id {
			delete(s.draws, drawID)
			s.drawOrder = removeString(s.drawOrder, drawID)
			for _, assigned := range s.brandDraws {
				delete(assigned, drawID)
			}
		}
	}
	if b, ok := s.branding[id]; ok {
		if b.CustomDomain != nil {
			delete(s.domains, *b.CustomDomain)
		}
		delete(s.branding, id)
	}
	kept := s.subscriptions[:0]
	for _, sub := range s.subscriptions {
		if sub.OrganizationID != id {
			kept = append(kept, sub)
		}
	}
	s.subscriptions = kept
	return nil
}

func (s *Memory) ListUserOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orgs []models.Organization
	for i := len(s.orgOrder) - 1; i >= 0; i-- {
		id := s.orgOrder[i]
		if _, ok := s.members[id][userID]; ok {
			orgs = append(orgs, *s.orgs[id])
		}
	}
	return orgs, nil
}

// ---- Members ----

func (s *Memory) AddMember(ctx context.Context, m *models.Member, maxMembers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	orgMembers, ok := s.members[m.OrganizationID]
	if !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	if _, exists := orgMembers[m.UserID]; exists {
		return errs.Conflictf("user is already a member of this organization")
	}
	if len(orgMembers) >= maxMembers {
		return errs.QuotaExceededf("organization member limit of %d reached", maxMembers)
	}
	m.JoinedAt = time.Now()
	cp := *m
	orgMembers[m.UserID] = &cp
	return nil
}

func (s *Memory) GetMember(ctx context.Context, orgID, userID string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[orgID][userID]
	if !ok {
		return nil, errs.NotFoundf("member not found")
	}
	cp := *m
	return &cp, nil
}

func (s *Memory) ListMembers(ctx context.Context, orgID string) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listMembersLocked(orgID), nil
}

func (s *Memory) listMembersLocked(orgID string) []models.Member {
	var members []models.Member
	for _, m := range s.members[orgID] {
		cp := *m
		if u, ok := s.users[m.UserID]; ok {
			cp.UserName, cp.UserEmail = u.Name, u.Email
		}
		members = append(members, cp)
	}
	// joined_at ascending, as the Postgres query orders
	for i := 1; i < len(members); i++ {
		for j := i; j > 0 && members[j].JoinedAt.Before(members[j-1].JoinedAt); j-- {
			members[j], members[j-1] = members[j-1], members[j]
		}
	}
	return members
}

func (s *Memory) UpdateMember(ctx context.Context, orgID, userID string, role models.MemberRole, permissions []string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[orgID][userID]
	if !ok {
		return nil, errs.NotFoundf("member not found")
	}
	m.Role = role
	m.Permissions = permissions
	cp := *m
	return &cp, nil
}

func (s *Memory) RemoveMember(ctx context.Context, orgID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[orgID][userID]; !ok {
		return errs.NotFoundf("member not found")
	}
	delete(s.members[orgID], userID)
	return nil
}

func (s *Memory) CountMembers(ctx context.Context, orgID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members[orgID]), nil
}

// ---- Subscriptions ----

func (s *Memory) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.CreatedAt = time.Now()
	cp := *sub
	s.subscriptions = append(s.subscriptions, &cp)
	return nil
}

func (s *Memory) HasActiveSubscription(ctx context.Context, orgID, plan string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		if sub.OrganizationID == orgID && sub.Status == models.SubscriptionActive &&
			(plan == "" || sub.Plan == plan) {
			return true, nil
		}
	}
	return false, nil
}

func removeString(list []string, val string) []string {
	for i, v := range list {
		if v == val {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
