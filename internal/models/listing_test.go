package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeListingAliasPriority(t *testing.T) {
	raw := map[string]any{
		"ID":        "APT001",
		"Title":     "2-Bedroom Luxury Apartment",
		"Price_GHS": float64(4200),
		"Image_URL": "Assets/photo_3.jpg",
		"Available": "Yes",
		"Bedrooms":  float64(2),
	}
	l := NormalizeListing(raw)
	require.Equal(t, "APT001", l.ID)
	require.Equal(t, "2-Bedroom Luxury Apartment", l.Title)
	require.Equal(t, 4200.0, l.PriceGHS)
	require.Equal(t, "Assets/photo_3.jpg", l.ImageURL)
	require.True(t, l.Available)
	require.Equal(t, 2, l.Bedrooms)
}

func TestNormalizeListingLowercaseKeysWin(t *testing.T) {
	raw := map[string]any{
		"id":        "X1",
		"ID":        "X2",
		"title":     "lower",
		"Title":     "upper",
		"price":     "3000",
		"Price_GHS": float64(9999),
	}
	l := NormalizeListing(raw)
	require.Equal(t, "X1", l.ID)
	require.Equal(t, "lower", l.Title)
	require.Equal(t, 3000.0, l.PriceGHS)
}

func TestNormalizeListingDefaults(t *testing.T) {
	l := NormalizeListing(map[string]any{"id": "APT009", "title": "Bare"})
	require.True(t, l.Available, "availability defaults to yes")
	require.Equal(t, 1, l.Bedrooms, "bedrooms default to 1")
	require.Zero(t, l.PriceGHS)
}

func TestNormalizeListingAvailabilityIsCaseInsensitive(t *testing.T) {
	for val, want := range map[string]bool{"yes": true, "YES": true, " Yes ": true, "no": false, "": true} {
		l := NormalizeListing(map[string]any{"Available": val})
		require.Equal(t, want, l.Available, "value %q", val)
	}
}

func TestNormalizeListingNumericRowIndexID(t *testing.T) {
	l := NormalizeListing(map[string]any{"rowIndex": float64(7)})
	require.Equal(t, "7", l.ID)
}

func TestNormalizeApartment(t *testing.T) {
	a := NormalizeApartment(map[string]any{
		"id":    "APT002",
		"type":  "3-Bedroom Premium Apartment",
		"price": float64(6840),
	})
	require.Equal(t, "APT002", a.ID)
	require.Equal(t, "3-Bedroom Premium Apartment", a.Type)
	require.Equal(t, 6840.0, a.Price)

	// full listing keys tolerated as aliases
	a = NormalizeApartment(map[string]any{"ID": "APT003", "Title": "Studio", "Price_GHS": float64(2100)})
	require.Equal(t, "APT003", a.ID)
	require.Equal(t, "Studio", a.Type)
	require.Equal(t, 2100.0, a.Price)
}
