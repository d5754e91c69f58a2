package catalog

import (
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

const imageParams = "?ixlib=rb-1.2.1&auto=format&fit=crop&w=300&q=80"

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + imageParams
}

// SeedProducts returns the storefront's product list.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "p1",
			Name:        "Premium Coffee Mug",
			Description: "A high-quality ceramic coffee mug perfect for your daily brew.",
			Price:       decimal.RequireFromString("14.99"),
			Category:    "Kitchen",
			Tags:        []string{"coffee", "kitchen", "gift"},
			Image:       unsplash("photo-1514228742587-6b1558fcca3d"),
			Stock:       50,
		},
		{
			ID:          "p2",
			Name:        "Organic Coffee Beans",
			Description: "Freshly roasted organic coffee beans from sustainable farms.",
			Price:       decimal.RequireFromString("12.99"),
			Category:    "Food",
			Tags:        []string{"coffee", "food", "organic", "eco"},
			Image:       unsplash("photo-1611854779393-1b2da9d400fe"),
			Stock:       30,
		},
		{
			ID:          "p3",
			Name:        "Coffee Grinder",
			Description: "Manual coffee grinder with adjustable settings for the perfect grind.",
			Price:       decimal.RequireFromString("24.99"),
			Category:    "Kitchen",
			Tags:        []string{"coffee", "kitchen", "tool"},
			Image:       unsplash("photo-1570173548275-c641fa7941db"),
			Stock:       15,
		},
		{
			ID:          "p4",
			Name:        "Leather Journal",
			Description: "Handcrafted leather journal with premium paper for writing and sketching.",
			Price:       decimal.RequireFromString("19.99"),
			Category:    "Stationery",
			Tags:        []string{"office", "gift", "stationery"},
			Image:       unsplash("photo-1550950573-14cfe8efe7c9"),
			Stock:       25,
		},
		{
			ID:          "p5",
			Name:        "Artisanal Chocolate Bar",
			Description: "Premium dark chocolate bar made with organic cacao beans.",
			Price:       decimal.RequireFromString("7.99"),
			Category:    "Food",
			Tags:        []string{"food", "sweet", "gift"},
			Image:       unsplash("photo-1549007953-2f2dc0b24019"),
			Stock:       40,
		},
		{
			ID:          "p6",
			Name:        "Scented Candle",
			Description: "Hand-poured soy wax candle with natural essential oils.",
			Price:       decimal.RequireFromString("16.99"),
			Category:    "Home",
			Tags:        []string{"home", "gift", "decor"},
			Image:       unsplash("photo-1608181831718-c129ef35d646"),
			Stock:       35,
		},
		{
			ID:          "p7",
			Name:        "Eco-friendly Water Bottle",
			Description: "Stainless steel reusable water bottle that keeps drinks cold for 24 hours.",
			Price:       decimal.RequireFromString("22.99"),
			Category:    "Accessories",
			Tags:        []string{"eco", "outdoor", "fitness"},
			Image:       unsplash("photo-1523362628745-0c100150b504"),
			Stock:       45,
		},
		{
			ID:          "p8",
			Name:        "Bluetooth Speaker",
			Description: "Compact wireless speaker with rich sound and long battery life.",
			Price:       decimal.RequireFromString("39.99"),
			Category:    "Electronics",
			Tags:        []string{"tech", "audio", "gift"},
			Image:       unsplash("photo-1589003358621-c088c9d9d8d6"),
			Stock:       20,
		},
	}
}

// SeedBundles returns the curated bundles built from products.
func SeedBundles(products []Product) []Bundle {
	pick := func(ids ...string) []Product {
		out := make([]Product, 0, len(ids))
		for _, id := range ids {
			for _, p := range products {
				if p.ID == id {
					out = append(out, p.Clone())
					break
				}
			}
		}
		return out
	}

	return []Bundle{
		{
			ID:          "b1",
			Name:        "Coffee Lover's Kit",
			Description: "Everything a coffee enthusiast needs for the perfect brew.",
			Products:    pick("p1", "p2", "p3"),
			Discount:    15,
			Tags:        []string{"coffee", "gift", "kitchen"},
			Image:       unsplash("photo-1495474472287-4d71bcdd2085"),
			Featured:    true,
			Type:        enums.BundleTypeThemed,
		},
		{
			ID:          "b2",
			Name:        "Self-Care Package",
			Description: "Perfect bundle for relaxation and personal time.",
			Products:    pick("p4", "p6", "p7"),
			Discount:    10,
			Tags:        []string{"gift", "wellness", "home"},
			Image:       unsplash("photo-1563013544-824ae1b704d3"),
			Featured:    true,
			Type:        enums.BundleTypeThemed,
		},
		{
			ID:          "b3",
			Name:        "Tech & Treats",
			Description: "The perfect combination of technology and tasty treats.",
			Products:    pick("p8", "p5"),
			Discount:    8,
			Tags:        []string{"tech", "food", "gift"},
			Image:       unsplash("photo-1526738549149-8e07eca6c147"),
			Featured:    false,
			Type:        enums.BundleTypeThemed,
		},
	}
}
