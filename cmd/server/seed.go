package main

import (
	"context"
	"log"

	"github.com/dineflow/api/internal/models"
	"github.com/dineflow/api/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// seedCatalog loads the starter catalog: the fixed 12-table floor plan,
// a small menu, and the standing offers. Menu and offers are editable
// from the dashboard afterwards; tables are fixed.
func seedCatalog(ctx context.Context, mem *store.Memory) {
	mem.SeedTables([]models.Table{
		{ID: 1, Name: "Table 1", Seats: 2, Available: true},
		{ID: 2, Name: "Table 2", Seats: 2, Available: true},
		{ID: 3, Name: "Table 3", Seats: 4, Available: true},
		{ID: 4, Name: "Table 4", Seats: 4, Available: false},
		{ID: 5, Name: "Table 5", Seats: 6, Available: true},
		{ID: 6, Name: "Table 6", Seats: 6, Available: true},
		{ID: 7, Name: "Table 7", Seats: 8, Available: true},
		{ID: 8, Name: "Table 8", Seats: 8, Available: false},
		{ID: 9, Name: "Table 9", Seats: 4, Available: true},
		{ID: 10, Name: "Table 10", Seats: 2, Available: true},
		{ID: 11, Name: "Table 11", Seats: 4, Available: true},
		{ID: 12, Name: "Table 12", Seats: 6, Available: false},
	})

	categories := []string{"Appetizers", "Main Courses", "Desserts", "Beverages", "Specials"}
	catIDs := make(map[string]uuid.UUID, len(categories))
	for i, name := range categories {
		c, err := mem.CreateCategory(ctx, models.Category{Name: name, SortOrder: int32(i), Active: true})
		if err != nil {
			log.Fatalf("seed category %s: %v", name, err)
		}
		catIDs[name] = c.ID
	}

	items := []struct {
		name        string
		description string
		price       string
		category    string
	}{
		{"Margherita Pizza", "Classic pizza with tomato sauce, mozzarella, and basil", "12.99", "Main Courses"},
		{"Caesar Salad", "Romaine lettuce with Caesar dressing, croutons, and parmesan", "8.99", "Appetizers"},
		{"Grilled Salmon", "Fresh salmon fillet with lemon butter sauce and vegetables", "18.99", "Main Courses"},
		{"Spaghetti Carbonara", "Pasta with creamy egg sauce, pancetta, and parmesan", "14.99", "Main Courses"},
		{"Chocolate Lava Cake", "Warm chocolate cake with molten center and vanilla ice cream", "9.99", "Desserts"},
		{"Mojito", "Refreshing cocktail with rum, mint, lime, and soda", "7.99", "Beverages"},
	}
	for _, it := range items {
		price, err := decimal.NewFromString(it.price)
		if err != nil {
			log.Fatalf("seed item %s: %v", it.name, err)
		}
		if _, err := mem.CreateMenuItem(ctx, models.MenuItem{
			Name:        it.name,
			Description: it.description,
			Price:       price,
			CategoryID:  catIDs[it.category],
			Available:   true,
		}); err != nil {
			log.Fatalf("seed item %s: %v", it.name, err)
		}
	}

	offers := []models.Offer{
		{Code: "WELCOME10", Title: "10% off your first order", DiscountPercent: decimal.NewFromInt(10), Active: true},
		{Code: "DESSERT25", Title: "25% OFF on All Desserts", DiscountPercent: decimal.NewFromInt(25), Active: true},
	}
	for _, o := range offers {
		if _, err := mem.CreateOffer(ctx, o); err != nil {
			log.Fatalf("seed offer %s: %v", o.Code, err)
		}
	}
}
