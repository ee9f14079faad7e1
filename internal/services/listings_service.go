package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jeffstoncourt/bookingserver/internal/listings"
	"github.com/jeffstoncourt/bookingserver/internal/models"
)

// ListingSource is any backend that can produce the catalogue: the
// spreadsheet-endpoint client or the Sheets API store.
type ListingSource interface {
	FetchListings(ctx context.Context) ([]models.Listing, error)
	FetchApartments(ctx context.Context) ([]models.ApartmentOption, error)
}

// ListingsService caches the catalogue for a short window so browsing,
// filtering and paging do not refetch the sheet on every request.
type ListingsService struct {
	source   ListingSource
	pageSize int
	ttl      time.Duration

	mu        sync.Mutex
	cached    []models.Listing
	fetchedAt time.Time
}

func NewListingsService(source ListingSource, pageSize int, ttl time.Duration) *ListingsService {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &ListingsService{
		source:   source,
		pageSize: pageSize,
		ttl:      ttl,
	}
}

func (ls *ListingsService) PageSize() int {
	return ls.pageSize
}

func (ls *ListingsService) all(ctx context.Context) ([]models.Listing, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.cached != nil && time.Since(ls.fetchedAt) < ls.ttl {
		return ls.cached, nil
	}

	fetched, err := ls.source.FetchListings(ctx)
	if err != nil {
		// serve the stale copy over nothing at all
		if ls.cached != nil {
			return ls.cached, nil
		}
		return nil, err
	}
	ls.cached = fetched
	ls.fetchedAt = time.Now()
	return ls.cached, nil
}

// Invalidate drops the cache so the next browse refetches.
func (ls *ListingsService) Invalidate() {
	ls.mu.Lock()
	ls.cached = nil
	ls.mu.Unlock()
}

// Browse applies the filter and returns the requested 1-based page along
// with the filtered total and page count.
func (ls *ListingsService) Browse(ctx context.Context, criteria models.FilterCriteria, page int) ([]models.Listing, int, int, error) {
	if page < 1 {
		page = 1
	}
	catalogue, err := ls.all(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	filtered := listings.Filter(catalogue, criteria)
	items := listings.Page(filtered, page, ls.pageSize)
	return items, len(filtered), listings.TotalPages(len(filtered), ls.pageSize), nil
}

// Get resolves a single listing by its id, for preselecting the booking
// form and for pricing a submission.
func (ls *ListingsService) Get(ctx context.Context, id string) (*models.Listing, error) {
	catalogue, err := ls.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalogue {
		if catalogue[i].ID == id {
			return &catalogue[i], nil
		}
	}
	return nil, fmt.Errorf("listing %q not found", id)
}

func (ls *ListingsService) Apartments(ctx context.Context) ([]models.ApartmentOption, error) {
	return ls.source.FetchApartments(ctx)
}
