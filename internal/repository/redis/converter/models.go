package converter

import "time"

// ProductRedisModel — JSON-представление товара в кэше. Цена хранится в минимальных единицах.
type ProductRedisModel struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       int64      `json:"price"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand,omitempty"`
	Material    string     `json:"material,omitempty"`
	SKU         string     `json:"sku"`
	Inventory   int        `json:"inventory"`
	Sizes       []string   `json:"sizes"`
	Colors      []string   `json:"colors"`
	Images      []string   `json:"images"`
	Featured    bool       `json:"featured"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
