package domain

// Brands is the preset list offered by the storefront and the stock manager.
var Brands = []BrandModels{
	{Brand: "Apple", Models: []string{`MacBook Air 13" (M2/M3)`, `MacBook Pro 14"`, `MacBook Pro 16"`, `MacBook Air 15"`}},
	{Brand: "Dell", Models: []string{"XPS 13", "XPS 15", "XPS 17", "Latitude 5440"}},
	{Brand: "HP", Models: []string{"Spectre x360 14", "Envy x360 15", "EliteBook 840 G10"}},
	{Brand: "Lenovo", Models: []string{"ThinkPad X1 Carbon Gen 11", "Yoga 9i", "Legion 5 Pro"}},
}

// SeedProducts returns a fresh copy of the catalog used when nothing is stored.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "p1",
			Name:        "Stealth Privacy Guard (Apple)",
			Brand:       "Apple",
			Type:        GuardPrivacy,
			BasePrice:   1299,
			Description: "Narrow 30-degree viewing angle ensures your confidential spreadsheets and emails stay private in coffee shops and offices.",
			Features:    []string{"Micro-louver technology", "Reduces Glare", "Easy Magnetic Attachment"},
			ImageURL:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=format&fit=crop&q=80&w=600",
			Stock:       Stock{`MacBook Pro 14"`: 25, `MacBook Pro 16"`: 10},
		},
		{
			ID:          "p2",
			Name:        "Eyesafe Blue Light (Apple)",
			Brand:       "Apple",
			Type:        GuardBlueLight,
			BasePrice:   999,
			Description: "Designed for professionals spending 8+ hours on screen. Filters high-energy blue light without turning your screen yellow.",
			Features:    []string{"HEV Blue Light Filter", "Color-Balanced Pro", "Anti-Fingerprint"},
			ImageURL:    "https://images.unsplash.com/photo-1541806757-45280114b02c?auto=format&fit=crop&q=80&w=600",
			Stock:       Stock{`MacBook Air 13" (M2/M3)`: 30, `MacBook Air 15"`: 12},
		},
		{
			ID:          "p3",
			Name:        "Armor Self-Healing (Dell)",
			Brand:       "Dell",
			Type:        GuardSelfHealing,
			BasePrice:   1499,
			Description: "Military-grade polymer that heals key scratches and surface scuffs automatically. Perfect for touchscreen laptops.",
			Features:    []string{"Nanotech Healing", "Touch-Sensitive Optimized", "Impact Dispersion"},
			ImageURL:    "https://images.unsplash.com/photo-1525547719571-a2d4ac8945e2?auto=format&fit=crop&q=80&w=600",
			Stock:       Stock{"XPS 15": 20, "XPS 13": 15},
		},
	}
}
