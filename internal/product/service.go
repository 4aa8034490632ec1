package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// discountTolerance is how far price may drift from
// original_price * (1 - discount/100) before a write is rejected.
const discountTolerance = 1.0

var ErrInconsistentDiscount = errors.New("price does not match original price and discount")

const cachePrefix = "products:"

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
}

type service struct {
	repo  Repository
	cache Cache
}

// NewService builds the catalog service. cache may be nil, in which case
// all reads hit the repository directly.
func NewService(repo Repository, cache Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	key := cachePrefix + "list:" + filter.Category + ":" + filter.Search

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var products []Product
			if err := json.Unmarshal(data, &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, products); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("service: failed to cache product listing")
		}
	}

	return products, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to fetch product")
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}

	return p, nil
}

func (s *service) Create(ctx context.Context, p *Product) (*Product, error) {
	if err := validatePricing(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	s.invalidate(ctx)

	return p, nil
}

func (s *service) Update(ctx context.Context, p *Product) (*Product, error) {
	if err := validatePricing(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error().Err(err).Stringer("product_id", p.ID).Msg("service: failed to update product")
		return nil, fmt.Errorf("service: failed to update product: %w", err)
	}

	s.invalidate(ctx)

	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	key := cachePrefix + "categories"

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var categories []string
			if err := json.Unmarshal(data, &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, categories); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("service: failed to cache categories")
		}
	}

	return categories, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, cachePrefix); err != nil {
		log.Warn().Err(err).Msg("service: failed to invalidate product cache")
	}
}

// validatePricing checks that a discounted price is consistent with the
// original price. Listings show both, so a mismatch is a data error.
func validatePricing(p *Product) error {
	if p.Price < 0 {
		return fmt.Errorf("service: price cannot be negative: %w", ErrInconsistentDiscount)
	}

	if p.OriginalPrice == nil || p.Discount == 0 {
		return nil
	}

	expected := *p.OriginalPrice * (1 - p.Discount/100)
	if math.Abs(p.Price-expected) > discountTolerance {
		return fmt.Errorf("service: price %.2f does not match original price %.2f with %.0f%% discount: %w",
			p.Price, *p.OriginalPrice, p.Discount, ErrInconsistentDiscount)
	}

	return nil
}
