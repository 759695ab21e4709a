package seed

import (
	"context"
	"fmt"

	"github.com/prakasa-labs/products-api/internal/storage/db"
)

type Row struct {
	Sku         string
	Name        string
	Description string
	Price       float64
	Currency    string
	Stock       int
	IsActive    bool
}

// Catalog is the sample catalog inserted by the seeder.
var Catalog = []Row{
	{"PRD-0001", "Wireless Mouse", "2.4G ergonomic mouse", 19.99, "USD", 120, true},
	{"PRD-0002", "Mechanical Keyboard", "Blue switches, RGB", 79.00, "USD", 60, true},
	{"PRD-0003", "USB-C Hub 7-in-1", "HDMI + PD + SD/TF", 34.50, "USD", 85, true},
	{"PRD-0004", `27" 4K Monitor`, "IPS, 60Hz, HDR10", 289.99, "USD", 15, true},
	{"PRD-0005", "Webcam 1080p", "Built-in mic, privacy cover", 39.95, "USD", 50, true},
	{"PRD-0006", "Noise-Cancel Headphones", "Over-ear, BT 5.3", 129.00, "USD", 32, true},
	{"PRD-0007", "Portable SSD 1TB", "USB-C, 1,000MB/s", 99.99, "USD", 40, true},
	{"PRD-0008", "Laptop Stand", "Aluminum, adjustable", 24.00, "USD", 70, true},
	{"PRD-0009", "HDMI 2.1 Cable", "2m, 8K/60", 12.49, "USD", 200, true},
	{"PRD-0010", "Desk Lamp", "Dimmable, touch control", 21.00, "USD", 44, true},
	{"PRD-0011", "Smart Plug (2-pack)", "Works with Alexa/GA", 18.99, "USD", 110, true},
	{"PRD-0012", "Power Bank 20,000mAh", "PD 30W", 36.90, "USD", 55, true},
	{"PRD-0013", "Bluetooth Speaker", "IPX7, 12h playtime", 45.00, "USD", 28, true},
	{"PRD-0014", "Action Camera 4K", "EIS, waterproof case", 149.00, "USD", 10, true},
	{"PRD-0015", "Tripod Stand", "Aluminum, 160cm", 29.50, "USD", 33, true},
	{"PRD-0016", "Wireless Charger", "15W fast charge", 17.99, "USD", 75, true},
	{"PRD-0017", "USB-C Cable (3-pack)", "1m braided", 11.49, "USD", 180, true},
	{"PRD-0018", "Smartwatch", "Heart-rate, GPS", 199.00, "USD", 18, true},
	{"PRD-0019", "Fitness Band", "Sleep tracking", 49.00, "USD", 36, true},
	{"PRD-0020", "Laptop Backpack", `Water-resistant, 15.6"`, 42.00, "USD", 22, true},
}

const insertStmt = `
INSERT INTO products (sku, name, description, price, currency, stock, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (sku) DO NOTHING`

// Run inserts the sample catalog in a single transaction, skipping rows
// whose sku already exists. Returns the number of rows actually inserted,
// so running it twice is harmless.
func Run(ctx context.Context, dbc db.DB) (int64, error) {
	var inserted int64

	if err := dbc.WithTx(ctx, func(tx db.DB) error {
		for _, row := range Catalog {
			tag, err := tx.Exec(ctx, insertStmt,
				row.Sku, row.Name, row.Description, row.Price,
				row.Currency, row.Stock, row.IsActive)
			if err != nil {
				return fmt.Errorf("insert %s: %w", row.Sku, err)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	return inserted, nil
}
