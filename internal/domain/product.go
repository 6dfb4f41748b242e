package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"` // Цена в основной валюте, не более двух знаков после запятой
	Category    string          `json:"category"`
	Brand       string          `json:"brand,omitempty"`
	Material    string          `json:"material,omitempty"`
	SKU         string          `json:"sku"`
	Inventory   int             `json:"inventory"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Images      []string        `json:"images"` // Первое изображение — основное
	Featured    bool            `json:"featured"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// ProductFilter — условия выборки каталога.
type ProductFilter struct {
	Category        string
	FeaturedOnly    bool
	IncludeInactive bool
}

// Matches проверяет товар на соответствие фильтру.
// Неактивные товары отсекаются первыми, если не запрошено обратное.
func (f ProductFilter) Matches(p *Product) bool {
	if !f.IncludeInactive && !p.Active {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	return true
}

// OffersSize сообщает, можно ли выбрать размер. Пустой размер допустим всегда.
func (p *Product) OffersSize(size string) bool {
	return size == "" || slices.Contains(p.Sizes, size)
}

// OffersColor сообщает, можно ли выбрать цвет. Пустой цвет допустим всегда.
func (p *Product) OffersColor(color string) bool {
	return color == "" || slices.Contains(p.Colors, color)
}

// PrimaryImage возвращает основное изображение или пустую строку.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// MinorUnits переводит цену в минимальные единицы валюты (центы, копейки).
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits — обратное преобразование для значений из хранилища.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
