// Package listings holds the pure collection operations the listings page is
// built on: availability/price/bedroom filtering and page slicing.
package listings

import (
	"github.com/jeffstoncourt/bookingserver/internal/models"
)

// Filter returns the listings matching the criteria, preserving the original
// relative order. The source slice is never mutated. A listing matches when
// it is available, its price sits inside the requested range (if any) and it
// has at least the requested bedroom count (if any).
func Filter(all []models.Listing, c models.FilterCriteria) []models.Listing {
	out := make([]models.Listing, 0, len(all))
	for _, l := range all {
		if !l.Available {
			continue
		}
		if c.HasPriceRange {
			if l.PriceGHS < c.MinPrice {
				continue
			}
			if c.MaxPrice > 0 && l.PriceGHS > c.MaxPrice {
				continue
			}
		}
		if c.MinBedrooms > 0 && l.Bedrooms < c.MinBedrooms {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Page slices the filtered collection for a 1-based page number. A page past
// the end yields an empty slice; clamping is the caller's job, the same way
// the UI disables "next" on the last page rather than asking for page n+1.
func Page(filtered []models.Listing, page, pageSize int) []models.Listing {
	if page < 1 || pageSize < 1 {
		return []models.Listing{}
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return []models.Listing{}
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// TotalPages reports the page count for a filtered collection, never less
// than 1 so the pager always has something to display.
func TotalPages(filteredCount, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (filteredCount + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
