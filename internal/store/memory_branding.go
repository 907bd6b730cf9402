package store

import (
	"context"
	"time"

	"drawbase/internal/errs"
	"drawbase/internal/models"
)

// ---- Branding ----

func (s *Memory) EnsureBranding(ctx context.Context, defaults *models.Branding) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.branding[defaults.OrganizationID]; ok {
		cp := *existing
		return &cp, nil
	}
	if _, ok := s.orgs[defaults.OrganizationID]; !ok {
		return nil, errs.NotFoundf("organization not found")
	}
	now := time.Now()
	row := *defaults
	row.CreatedAt, row.UpdatedAt = now, now
	s.branding[defaults.OrganizationID] = &row
	cp := row
	return &cp, nil
}

func (s *Memory) GetBranding(ctx context.Context, orgID string) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.branding[orgID]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	cp := *b
	return &cp, nil
}

func (s *Memory) GetBrandingByDomain(ctx context.Context, domain string) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orgID, ok := s.domains[domain]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	cp := *s.branding[orgID]
	return &cp, nil
}

func (s *Memory) UpdateBranding(ctx context.Context, orgID string, patch models.BrandingPatch) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.branding[orgID]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	if patch.LogoURL != nil {
		b.LogoURL = *patch.LogoURL
	}
	if patch.FaviconURL != nil {
		b.FaviconURL = *patch.FaviconURL
	}
	if patch.PrimaryColor != nil {
		b.PrimaryColor = *patch.PrimaryColor
	}
	if patch.SecondaryColor != nil {
		b.SecondaryColor = *patch.SecondaryColor
	}
	if patch.AccentColor != nil {
		b.AccentColor = *patch.AccentColor
	}
	if patch.CustomCSS != nil {
		b.CustomCSS = *patch.CustomCSS
	}
	if patch.EmailFromName != nil {
		b.EmailFromName = *patch.EmailFromName
	}
	if patch.EmailReplyTo != nil {
		b.EmailReplyTo = *patch.EmailReplyTo
	}
	if patch.Settings != nil {
		b.Settings = patch.Settings
	}
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (s *Memory) ClaimCustomDomain(ctx context.Context, orgID, domain string) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.branding[orgID]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	if holder, taken := s.domains[domain]; taken && holder != orgID {
		return nil, errs.Conflictf("custom domain is already in use by another organization")
	}
	if b.CustomDomain != nil {
		delete(s.domains, *b.CustomDomain)
	}
	d := domain
	b.CustomDomain = &d
	b.UpdatedAt = time.Now()
	s.domains[domain] = orgID
	cp := *b
	return &cp, nil
}

func (s *Memory) ReleaseCustomDomain(ctx context.Context, orgID string) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.branding[orgID]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	if b.CustomDomain != nil {
		delete(s.domains, *b.CustomDomain)
		b.CustomDomain = nil
	}
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (s *Memory) SetRemoveBranding(ctx context.Context, orgID string, remove bool) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.branding[orgID]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	b.RemoveBranding = remove
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (s *Memory) ResetBranding(ctx context.Context, orgID string, defaults *models.Branding) (*models.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.branding[orgID]
	if !ok {
		return nil, errs.NotFoundf("branding not found")
	}
	if b.CustomDomain != nil {
		delete(s.domains, *b.CustomDomain)
	}
	b.LogoURL = ""
	b.FaviconURL = ""
	b.PrimaryColor = defaults.PrimaryColor
	b.SecondaryColor = defaults.SecondaryColor
	b.AccentColor = ""
	b.CustomDomain = nil
	b.RemoveBranding = false
	b.CustomCSS = ""
	b.EmailFromName = ""
	b.EmailReplyTo = ""
	b.Settings = nil
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}
