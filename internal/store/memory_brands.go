package store

import (
	"context"
	"time"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

// ---- Brands ----

func (s *Memory) CreateBrand(ctx context.Context, b *models.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[b.OrganizationID]; !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	for _, existing := range s.brands {
		if existing.OrganizationID == b.OrganizationID && existing.Slug == b.Slug {
			return errs.Conflictf("brand slug already exists in this organization")
		}
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	cp := *b
	cp.Organization, cp.Creator, cp.SocialAccounts, cp.Draws = nil, nil, nil, nil
	s.brands[b.ID] = &cp
	s.brandOrder = append(s.brandOrder, b.ID)
	s.brandSocial[b.ID] = make(map[string]bool)
	s.brandDraws[b.ID] = make(map[string]bool)
	return nil
}

func (s *Memory) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.brands[id]
	if !ok {
		return nil, errs.NotFoundf("brand not found")
	}
	cp := *b
	return &cp, nil
}

func (s *Memory) UpdateBrand(ctx context.Context, id string, patch models.BrandPatch) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.brands[id]
	if !ok {
		return nil, errs.NotFoundf("brand not found")
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.IsActive != nil {
		b.IsActive = *patch.IsActive
	}
	if patch.Settings != nil {
		b.Settings = patch.Settings
	}
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (s *Memory) DeleteBrand(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.brands[id]; !ok {
		return errs.NotFoundf("brand not found")
	}
	delete(s.brands, id)
	s.brandOrder = removeString(s.brandOrder, id)
	delete(s.brandSocial, id)
	delete(s.brandDraws, id)
	return nil
}

func (s *Memory) ListOrganizationBrands(ctx context.Context, orgID string) ([]models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listOrganizationBrandsLocked(orgID), nil
}

func (s *Memory) listOrganizationBrandsLocked(orgID string) []models.Brand {
	var brands []models.Brand
	for i := len(s.brandOrder) - 1; i >= 0; i-- {
		b := s.brands[s.brandOrder[i]]
		if b.OrganizationID != orgID {
			continue
		}
		cp := *b
		cp.SocialAccountCount = len(s.brandSocial[b.ID])
		cp.DrawCount = len(s.brandDraws[b.ID])
		brands = append(brands, cp)
	}
	return brands
}

func (s *Memory) ListUserBrands(ctx context.Context, userID string) ([]models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var brands []models.Brand
	for i := len(s.brandOrder) - 1; i >= 0; i-- {
		b := s.brands[s.brandOrder[i]]
		_, isMember := s.members[b.OrganizationID][userID]
		if b.UserID == userID || isMember {
			cp := *b
			brands = append(brands, cp)
		}
	}
	return brands, nil
}

func (s *Memory) CountBrands(ctx context.Context, orgID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, b := range s.brands {
		if b.OrganizationID == orgID {
			count++
		}
	}
	return count, nil
}

// ---- Brand joins ----

func (s *Memory) ConnectSocialAccount(ctx context.Context, brandID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	connections, ok := s.brandSocial[brandID]
	if !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	if _, ok := s.socialAccounts[accountID]; !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	if _, exists := connections[accountID]; exists {
		return errs.Conflictf("social account already connected to this brand")
	}
	connections[accountID] = true
	return nil
}

func (s *Memory) DisconnectSocialAccount(ctx context.Context, brandID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	connections := s.brandSocial[brandID]
	if _, exists := connections[accountID]; !exists {
		return errs.NotFoundf("social account connection not found")
	}
	delete(connections, accountID)
	return nil
}

func (s *Memory) ListBrandSocialAccounts(ctx context.Context, brandID string) ([]models.SocialAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var accounts []models.SocialAccount
	for accountID, active := range s.brandSocial[brandID] {
		if a, ok := s.socialAccounts[accountID]; ok {
			cp := *a
			cp.IsActive = active
			accounts = append(accounts, cp)
		}
	}
	return accounts, nil
}

func (s *Memory) CountActiveBrandSocialAccounts(ctx context.Context, brandID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, active := range s.brandSocial[brandID] {
		if active {
			count++
		}
	}
	return count, nil
}

// AssignDraw no-ops on a duplicate assignment, matching the ON CONFLICT DO
// NOTHING write in Postgres.
func (s *Memory) AssignDraw(ctx context.Context, brandID, drawID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assigned, ok := s.brandDraws[brandID]
	if !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	if _, ok := s.draws[drawID]; !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	assigned[drawID] = true
	return nil
}

func (s *Memory) UnassignDraw(ctx context.Context, brandID, drawID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assigned := s.brandDraws[brandID]
	if _, ok := assigned[drawID]; !ok {
		return errs.NotFoundf("draw assignment not found")
	}
	delete(assigned, drawID)
	return nil
}

func (s *Memory) ListBrandDraws(ctx context.Context, brandID string, limit int) ([]models.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assigned := s.brandDraws[brandID]
	var draws []models.Draw
	for i := len(s.drawOrder) - 1; i >= 0 && len(draws) < limit; i-- {
		id := s.drawOrder[i]
		if assigned[id] {
			draws = append(draws, *s.draws[id])
		}
	}
	return draws, nil
}

func (s *Memory) CountBrandDraws(ctx context.Context, brandID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.brandDraws[brandID]), nil
}

func (s *Memory) SumBrandDrawParticipants(ctx context.Context, brandID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for drawID := range s.brandDraws[brandID] {
		if d, ok := s.draws[drawID]; ok {
			sum += d.ParticipantCount
		}
	}
	return sum, nil
}

func (s *Memory) SumBrandDrawWinners(ctx context.Context, brandID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for drawID := range s.brandDraws[brandID] {
		if d, ok := s.draws[drawID]; ok {
			sum += d.WinnerCount
		}
	}
	return sum, nil
}

// ---- Social accounts and draws ----

func (s *Memory) CreateSocialAccount(ctx context.Context, a *models.SocialAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.CreatedAt = time.Now()
	cp := *a
	s.socialAccounts[a.ID] = &cp
	return nil
}

func (s *Memory) CreateDraw(ctx context.Context, d *models.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[d.OrganizationID]; !ok {
		return errs.NotFoundf("referenced record does not exist")
	}
	d.CreatedAt = time.Now()
	cp := *d
	s.draws[d.ID] = &cp
	s.drawOrder = append(s.drawOrder, d.ID)
	return nil
}

func (s *Memory) CountOrganizationDraws(ctx context.Context, orgID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, d := range s.draws {
		if d.OrganizationID == orgID {
			count++
		}
	}
	return count, nil
}

func (s *Memory) ListRecentOrganizationDraws(ctx context.Context, orgID string, limit int) ([]models.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var draws []models.Draw
	for i := len(s.drawOrder) - 1; i >= 0 && len(draws) < limit; i-- {
		d := s.draws[s.drawOrder[i]]
		if d.OrganizationID == orgID {
			draws = append(draws, *d)
		}
	}
	return draws, nil
}

func (s *Memory) CountActiveOrganizationSocialAccounts(ctx context.Context, orgID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for brandID, connections := range s.brandSocial {
		b, ok := s.brands[brandID]
		if !ok || b.OrganizationID != orgID {
			continue
		}
		for _, active := range connections {
			if active {
				count++
			}
		}
	}
	return count, nil
}
