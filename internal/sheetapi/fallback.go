package sheetapi

// Predefined fallback datasets, matching the seed rows of the live sheet.
// Served when the endpoint answers with HTML or is unreachable, so the site
// stays browsable while the backend is misdeployed.

func fallbackFor(resource string) ([]map[string]any, bool) {
	switch resource {
	case "listings":
		return fallbackListings(), true
	case "getApartments":
		return fallbackApartments(), true
	default:
		return nil, false
	}
}

func fallbackListings() []map[string]any {
	return []map[string]any{
		{
			"ID":          "APT001",
			"Title":       "2-Bedroom Luxury Apartment",
			"Description": "Spacious modern apartment with premium finishes, high-speed internet, 24/7 security, and elegant living spaces perfect for professionals or small families.",
			"Price_GHS":   float64(4200),
			"Image_URL":   "Assets/photo_3_2025-07-25_06-12-23.jpg",
			"Available":   "yes",
			"Bedrooms":    float64(2),
		},
		{
			"ID":          "APT002",
			"Title":       "3-Bedroom Premium Apartment",
			"Description": "Luxurious family apartment with spacious rooms, modern kitchen, premium appliances, and beautiful views. Perfect for families or groups seeking comfort and style.",
			"Price_GHS":   float64(6840),
			"Image_URL":   "Assets/photo_5_2025-07-25_06-12-23.jpg",
			"Available":   "yes",
			"Bedrooms":    float64(3),
		},
	}
}

func fallbackApartments() []map[string]any {
	return []map[string]any{
		{"id": "APT001", "type": "2-Bedroom Luxury Apartment", "price": float64(4200)},
		{"id": "APT002", "type": "3-Bedroom Premium Apartment", "price": float64(6840)},
	}
}
