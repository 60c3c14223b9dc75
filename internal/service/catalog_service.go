package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-service/internal/apperr"
	"marketplace-service/internal/catalog"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the listing read paths: industry filter schemas and
// the attribute-filtered catalog search.
type CatalogService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger

	filterTTL time.Duration
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store, cache *redisclient.Client, filterTTL time.Duration) *CatalogService {
	return &CatalogService{
		store:     st,
		cache:     cache,
		logger:    util.GetLogger(),
		filterTTL: filterTTL,
	}
}

// IndustryFilters derives the filter UI schema for one industry, cache-first.
// Derivation is a full scan of the industry's active listings on every miss;
// there is no incremental index.
func (s *CatalogService) IndustryFilters(ctx context.Context, industrySlug string) ([]catalog.FilterDescriptor, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.IndustryFilters")
	defer span.End()

	industry, err := s.store.GetIndustryBySlug(ctx, industrySlug)
	if err != nil {
		return nil, err
	}

	key := redisclient.FilterSchemaKey(industry.ID)
	if s.cache != nil {
		var cached []catalog.FilterDescriptor
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			util.FilterCacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		}
		if !redisclient.IsMiss(err) {
			s.logger.Warn("Filter cache read failed",
				zap.Int64("industry_id", industry.ID),
				zap.Error(err))
		}
		util.FilterCacheHits.WithLabelValues("miss").Inc()
	}

	listings, err := s.store.GetActiveListingsByIndustry(ctx, industry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	start := time.Now()
	filters := catalog.DeriveFilters(listings)
	util.FilterDerivationLatency.Observe(time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, filters, s.filterTTL); err != nil {
			s.logger.Warn("Failed to cache filter schema",
				zap.Int64("industry_id", industry.ID),
				zap.Error(err))
		}
	}
	return filters, nil
}

// ListingSearchParams carries the catalog browse criteria.
type ListingSearchParams struct {
	IndustrySlug string
	FiltersJSON  string
	Search       string
	Page         int
	PageSize     int
}

// ListingPage is one page of the catalog search.
type ListingPage struct {
	Listings   []models.Listing   `json:"listings"`
	Pagination catalog.Pagination `json:"pagination"`
}

// SearchListings runs the catalog search: SQL text matching, in-process
// attribute constraint filtering, then pagination over the filtered set.
func (s *CatalogService) SearchListings(ctx context.Context, params *ListingSearchParams) (*ListingPage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SearchListings")
	defer span.End()

	var industryID int64
	if params.IndustrySlug != "" {
		industry, err := s.store.GetIndustryBySlug(ctx, params.IndustrySlug)
		if err != nil {
			return nil, err
		}
		industryID = industry.ID
	}

	constraints, err := catalog.ParseAttributeFilters(params.FiltersJSON)
	if err != nil {
		return nil, err
	}

	listings, err := s.store.SearchActiveListings(ctx, industryID, params.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	matched := catalog.FilterListings(listings, constraints)
	page := catalog.NewPagination(len(matched), params.Page, params.PageSize)
	start, end := page.Bounds()

	items := matched[start:end]
	if items == nil {
		items = []models.Listing{}
	}
	return &ListingPage{Listings: items, Pagination: page}, nil
}

// CreateListingInput carries the admin listing-creation body.
type CreateListingInput struct {
	Kind                 string              `json:"kind"`
	IndustryID           int64               `json:"industry_id"`
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	CompanyName          string              `json:"company_name"`
	AvailableQuantity    int                 `json:"available_quantity"`
	MinimumOrderQuantity int                 `json:"minimum_order_quantity"`
	Attributes           models.AttributeMap `json:"attributes"`
}

// CreateListing persists a new listing with a freshly generated code.
func (s *CatalogService) CreateListing(ctx context.Context, input *CreateListingInput) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateListing")
	defer span.End()

	if input.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	switch input.Kind {
	case models.ListingKindMaterial, models.ListingKindMachine, models.ListingKindSoftware:
	default:
		return nil, apperr.Validation("invalid listing kind: %q", input.Kind)
	}
	if input.AvailableQuantity < 0 {
		return nil, apperr.Validation("available_quantity must be non-negative")
	}
	if input.Kind == models.ListingKindMaterial && input.MinimumOrderQuantity < 1 {
		return nil, apperr.Validation("minimum_order_quantity must be positive")
	}
	for key, attr := range input.Attributes {
		if !models.ValidKind(attr.Kind) {
			return nil, apperr.Validation("attribute %q has unknown kind %q", key, attr.Kind)
		}
	}

	industry, err := s.store.GetIndustryByID(ctx, input.IndustryID)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Code:                 GenerateListingCode(industry.Prefix),
		Kind:                 input.Kind,
		IndustryID:           industry.ID,
		Name:                 input.Name,
		Description:          input.Description,
		CompanyName:          input.CompanyName,
		AvailableQuantity:    input.AvailableQuantity,
		MinimumOrderQuantity: input.MinimumOrderQuantity,
		Attributes:           input.Attributes,
		IsActive:             true,
	}

	if err := s.store.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.logger.Info("Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.String("code", listing.Code),
		zap.Int64("industry_id", industry.ID))

	if s.cache != nil {
		if err := s.cache.Delete(ctx, redisclient.FilterSchemaKey(industry.ID)); err != nil {
			s.logger.Warn("Failed to invalidate filter cache", zap.Error(err))
		}
	}
	return listing, nil
}

// DeleteIndustry removes an industry that has no listings referencing it.
func (s *CatalogService) DeleteIndustry(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteIndustry")
	defer span.End()

	if err := s.store.DeleteIndustry(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Industry deleted", zap.Int64("industry_id", id))

	if s.cache != nil {
		if err := s.cache.Delete(ctx, redisclient.FilterSchemaKey(id)); err != nil {
			s.logger.Warn("Failed to invalidate filter cache", zap.Error(err))
		}
	}
	return nil
}
