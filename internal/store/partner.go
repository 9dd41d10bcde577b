// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"hostpress/internal/models"
	"hostpress/internal/storage"
)

// PartnerStore manages the partner directory.
type PartnerStore struct {
	coll storage.Collection[models.Partner]
	now  func() time.Time
}

// NewPartnerStore returns a new PartnerStore.
func NewPartnerStore(coll storage.Collection[models.Partner]) *PartnerStore {
	return &PartnerStore{coll: coll, now: time.Now}
}

// List returns all partners in storage order.
func (s *PartnerStore) List(ctx context.Context) ([]models.Partner, error) {
	items, err := s.coll.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return items, nil
}

// FindByID retrieves a partner by ID. Returns nil if not found.
func (s *PartnerStore) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	p, err := s.coll.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find partner by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a partner by slug. Returns nil if not found.
func (s *PartnerStore) FindBySlug(ctx context.Context, slug string) (*models.Partner, error) {
	p, err := s.coll.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find partner by slug: %w", err)
	}
	return p, nil
}

// Create validates and inserts a new partner.
func (s *PartnerStore) Create(ctx context.Context, in models.Partner) (*models.Partner, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	sl, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	p := models.Partner{ID: uuid.NewString(), Slug: sl}
	if err := applyPartner(&p, in); err != nil {
		return nil, err
	}
	if err := ensureUniqueSlug(ctx, s.coll, sl, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.coll.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("create partner: %w", err)
	}
	return &p, nil
}

// Update replaces a partner's fields. The slug may change if the new one
// is free; an empty slug keeps the current one.
func (s *PartnerStore) Update(ctx context.Context, id string, in models.Partner) (*models.Partner, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	p := *existing
	if strings.TrimSpace(in.Slug) != "" && in.Slug != existing.Slug {
		sl, err := resolveSlug(in.Slug, in.Name)
		if err != nil {
			return nil, err
		}
		if err := ensureUniqueSlug(ctx, s.coll, sl, id); err != nil {
			return nil, err
		}
		p.Slug = sl
	}
	if err := applyPartner(&p, in); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.coll.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update partner: %w", err)
	}
	return &p, nil
}

// Delete removes a partner by ID.
func (s *PartnerStore) Delete(ctx context.Context, id string) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	return nil
}

func applyPartner(p *models.Partner, in models.Partner) error {
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return invalid("discount_percent", "Discount must be between 0 and 100 percent.")
	}
	link := strings.TrimSpace(in.URL)
	if link != "" {
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("url", "Partner URL must be an absolute http(s) URL.")
		}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.DiscountPercent = in.DiscountPercent
	p.AffiliateID = strings.TrimSpace(in.AffiliateID)
	p.Logo = strings.TrimSpace(in.Logo)
	p.URL = link
	p.Featured = in.Featured
	p.Social = in.Social.Clean()
	return nil
}
