// Command seed wipes the product catalog and loads the sample grocery
// inventory. Intended for development and demo environments only.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/config"
)

type seedProduct struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Price         float64   `db:"price"`
	OriginalPrice float64   `db:"original_price"`
	Category      string    `db:"category"`
	Image         string    `db:"image"`
	Stock         int       `db:"stock"`
	Unit          string    `db:"unit"`
	Discount      float64   `db:"discount"`
	Rating        float64   `db:"rating"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
}

var catalog = []seedProduct{
	{Name: "Fresh Tomatoes", Description: "Fresh red tomatoes, locally sourced", Price: 40, OriginalPrice: 50, Category: "Vegetables & Fruits", Image: "images/tomatoes.jpg", Unit: "500g", Discount: 20, Stock: 50, Rating: 4.2},
	{Name: "Fresh Bananas", Description: "Premium ripe bananas", Price: 50, OriginalPrice: 60, Category: "Vegetables & Fruits", Image: "images/bananas.jpg", Unit: "1 dozen", Discount: 17, Stock: 40, Rating: 4.4},
	{Name: "Fresh Apples", Description: "Crispy red apples from Kashmir", Price: 80, OriginalPrice: 100, Category: "Vegetables & Fruits", Image: "images/apples.jpg", Unit: "1kg", Discount: 20, Stock: 45, Rating: 4.5},
	{Name: "Amul Milk", Description: "Fresh toned milk", Price: 28, OriginalPrice: 30, Category: "Dairy & Breakfast", Image: "images/milk.jpg", Unit: "500ml", Discount: 7, Stock: 100, Rating: 4.5},
	{Name: "Amul Butter", Description: "Creamy salted butter", Price: 55, OriginalPrice: 60, Category: "Dairy & Breakfast", Image: "images/butter.jpg", Unit: "100g", Discount: 8, Stock: 70, Rating: 4.6},
	{Name: "Paneer", Description: "Fresh cottage cheese", Price: 90, OriginalPrice: 100, Category: "Dairy & Breakfast", Image: "images/paneer.jpg", Unit: "200g", Discount: 10, Stock: 35, Rating: 4.5},
	{Name: "Lays Classic Chips", Description: "Crispy salted potato chips", Price: 20, OriginalPrice: 20, Category: "Munchies", Image: "images/lays.jpg", Unit: "50g", Discount: 0, Stock: 75, Rating: 4.0},
	{Name: "Haldiram Bhujia", Description: "Traditional Indian snack", Price: 50, OriginalPrice: 55, Category: "Munchies", Image: "images/bhujia.jpg", Unit: "200g", Discount: 9, Stock: 40, Rating: 4.5},
	{Name: "Coca Cola", Description: "Refreshing cola drink", Price: 40, OriginalPrice: 45, Category: "Cold Drinks & Juices", Image: "images/cola.jpg", Unit: "750ml", Discount: 11, Stock: 60, Rating: 4.3},
	{Name: "Tropicana Orange", Description: "100% orange juice", Price: 120, OriginalPrice: 140, Category: "Cold Drinks & Juices", Image: "images/tropicana.jpg", Unit: "1L", Discount: 14, Stock: 40, Rating: 4.6},
	{Name: "Britannia Bread", Description: "Soft white bread", Price: 35, OriginalPrice: 40, Category: "Bakery & Biscuits", Image: "images/bread.jpg", Unit: "400g", Discount: 13, Stock: 80, Rating: 4.1},
	{Name: "Parle-G Biscuits", Description: "Classic glucose biscuits", Price: 20, OriginalPrice: 20, Category: "Bakery & Biscuits", Image: "images/parleg.jpg", Unit: "200g", Discount: 0, Stock: 100, Rating: 4.5},
	{Name: "Tata Tea Gold", Description: "Premium black tea", Price: 150, OriginalPrice: 180, Category: "Tea Coffee & Health Drinks", Image: "images/tea.jpg", Unit: "250g", Discount: 17, Stock: 50, Rating: 4.5},
	{Name: "Nescafe Classic", Description: "Instant coffee", Price: 200, OriginalPrice: 220, Category: "Tea Coffee & Health Drinks", Image: "images/nescafe.jpg", Unit: "100g", Discount: 9, Stock: 45, Rating: 4.6},
	{Name: "Dairy Milk Chocolate", Description: "Smooth milk chocolate", Price: 80, OriginalPrice: 90, Category: "Sweet Tooth", Image: "images/dairymilk.jpg", Unit: "150g", Discount: 11, Stock: 70, Rating: 4.8},
	{Name: "Gulab Jamun", Description: "Traditional Indian sweet", Price: 100, OriginalPrice: 120, Category: "Sweet Tooth", Image: "images/gulabjamun.jpg", Unit: "1kg", Discount: 17, Stock: 20, Rating: 4.5},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password,
		cfg.Postgres.DBName, cfg.Postgres.SSLMode)

	dbConn, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	if _, err := dbConn.Exec(`DELETE FROM products`); err != nil {
		log.Fatal().Err(err).Msg("Failed to clear existing products")
	}

	now := time.Now().UTC()
	for i := range catalog {
		id, err := uuid.NewV4()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate product ID")
		}
		catalog[i].ID = id
		catalog[i].IsActive = true
		catalog[i].CreatedAt = now
	}

	query := `
		INSERT INTO products (id, name, description, price, original_price, category, image, stock, unit, discount, rating, is_active, created_at)
		VALUES (:id, :name, :description, :price, :original_price, :category, :image, :stock, :unit, :discount, :rating, :is_active, :created_at)
	`
	if _, err := dbConn.NamedExec(query, catalog); err != nil {
		log.Fatal().Err(err).Msg("Failed to insert seed products")
	}

	log.Info().Int("count", len(catalog)).Msg("Catalog seeded successfully")
}
