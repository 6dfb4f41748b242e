package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Price       int64      `db:"price"` // В минимальных единицах валюты
	Category    string     `db:"category"`
	Brand       string     `db:"brand"`
	Material    string     `db:"material"`
	SKU         string     `db:"sku"`
	Inventory   int32      `db:"inventory"`
	Sizes       []string   `db:"sizes"`
	Colors      []string   `db:"colors"`
	Images      []string   `db:"images"`
	Featured    bool       `db:"featured"`
	Active      bool       `db:"active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
