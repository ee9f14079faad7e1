package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Listing is one rentable apartment unit. Instances are built from upstream
// rows by Normalize, cached for the session and never mutated afterwards.
type Listing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PriceGHS    float64 `json:"price_ghs"` // per 30-day period
	ImageURL    string  `json:"image_url"`
	Available   bool    `json:"available"`
	Bedrooms    int     `json:"bedrooms"`
}

// ApartmentOption is the reduced shape used to populate the booking dropdown.
type ApartmentOption struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

// FilterCriteria narrows a listing collection. Zero values mean "no filter";
// MaxPrice is only consulted when HasPriceRange is set.
type FilterCriteria struct {
	HasPriceRange bool
	MinPrice      float64
	MaxPrice      float64 // 0 = unbounded above
	MinBedrooms   int     // 0 = any
}

// Upstream rows arrive with inconsistent field names depending on which sheet
// revision produced them. NormalizeListing resolves each logical field with a
// fixed priority order, first key present wins:
//
//	id:        id > ID > rowIndex
//	title:     title > Title > name > apartmentType
//	price:     price > Price_GHS
//	image:     imageUrl > Image_URL
//	available: available > Available (default "yes")
//	bedrooms:  bedrooms > Bedrooms (default 1)
func NormalizeListing(raw map[string]any) Listing {
	l := Listing{
		ID:          firstString(raw, "id", "ID", "rowIndex"),
		Title:       firstString(raw, "title", "Title", "name", "apartmentType"),
		Description: firstString(raw, "description", "Description"),
		PriceGHS:    firstNumber(raw, "price", "Price_GHS"),
		ImageURL:    firstString(raw, "imageUrl", "Image_URL"),
		Bedrooms:    1,
	}

	avail := firstString(raw, "available", "Available")
	if avail == "" {
		avail = "yes"
	}
	l.Available = strings.EqualFold(strings.TrimSpace(avail), "yes")

	if b := firstNumber(raw, "bedrooms", "Bedrooms"); b >= 1 {
		l.Bedrooms = int(b)
	}
	return l
}

// NormalizeApartment resolves the dropdown summary shape, tolerating the full
// listing field names as aliases.
func NormalizeApartment(raw map[string]any) ApartmentOption {
	return ApartmentOption{
		ID:    firstString(raw, "id", "ID"),
		Type:  firstString(raw, "type", "Title", "title", "apartmentType"),
		Price: firstNumber(raw, "price", "Price_GHS"),
	}
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			// sheet cells holding numeric ids come through as numbers
			return strconv.FormatFloat(s, 'f', -1, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func firstNumber(raw map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f
			}
		}
	}
	return 0
}
