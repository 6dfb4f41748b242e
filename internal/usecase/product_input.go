package usecase

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductInput — входные данные товара для создания, обновления и импорта.
// nil означает, что поле не передано. Цена и остаток приходят строками
// и приводятся к числам при нормализации.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *string
	Category    *string
	Brand       *string
	Material    *string
	SKU         *string
	Inventory   *string
	Sizes       []string
	Colors      []string
	Images      []string
	ImageURL    *string // Одиночное изображение, если Images не передан
	Featured    *bool
	Active      *bool
}

// NewProduct проверяет обязательные поля и строит новый товар.
// Отсутствующий SKU генерируется из категории и времени now.
func (in *ProductInput) NewProduct(now time.Time) (*domain.Product, error) {
	name, ok := trimmed(in.Name)
	if !ok {
		return nil, e.ErrProductNameRequired
	}

	rawPrice, ok := trimmed(in.Price)
	if !ok {
		return nil, e.ErrPriceRequired
	}

	category, ok := trimmed(in.Category)
	if !ok {
		return nil, e.ErrCategoryRequired
	}

	rawInventory, ok := trimmed(in.Inventory)
	if !ok {
		return nil, e.ErrInventoryRequired
	}

	price, err := parsePrice(rawPrice)
	if err != nil {
		return nil, err
	}

	inventory, err := parseInventory(rawInventory)
	if err != nil {
		return nil, err
	}

	sku, ok := trimmed(in.SKU)
	if !ok {
		sku = domain.GenerateSKU(category, now)
	}

	description, _ := trimmed(in.Description)
	brand, _ := trimmed(in.Brand)
	material, _ := trimmed(in.Material)

	return &domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Brand:       brand,
		Material:    material,
		SKU:         sku,
		Inventory:   inventory,
		Sizes:       cleanList(in.Sizes),
		Colors:      cleanList(in.Colors),
		Images:      in.images(),
		Featured:    in.Featured != nil && *in.Featured,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   now,
	}, nil
}

// Apply переносит в product только переданные поля.
// Переданные цена и остаток проходят те же проверки, что и при создании.
func (in *ProductInput) Apply(product *domain.Product) error {
	if in.Name != nil {
		name, ok := trimmed(in.Name)
		if !ok {
			return e.ErrProductNameRequired
		}
		product.Name = name
	}

	if in.Category != nil {
		category, ok := trimmed(in.Category)
		if !ok {
			return e.ErrCategoryRequired
		}
		product.Category = category
	}

	if in.SKU != nil {
		sku, ok := trimmed(in.SKU)
		if !ok {
			return e.ErrSKURequired
		}
		product.SKU = sku
	}

	if in.Price != nil {
		raw, ok := trimmed(in.Price)
		if !ok {
			return e.ErrPriceRequired
		}
		price, err := parsePrice(raw)
		if err != nil {
			return err
		}
		product.Price = price
	}

	if in.Inventory != nil {
		raw, ok := trimmed(in.Inventory)
		if !ok {
			return e.ErrInventoryRequired
		}
		inventory, err := parseInventory(raw)
		if err != nil {
			return err
		}
		product.Inventory = inventory
	}

	if in.Description != nil {
		product.Description, _ = trimmed(in.Description)
	}
	if in.Brand != nil {
		product.Brand, _ = trimmed(in.Brand)
	}
	if in.Material != nil {
		product.Material, _ = trimmed(in.Material)
	}
	if in.Sizes != nil {
		product.Sizes = cleanList(in.Sizes)
	}
	if in.Colors != nil {
		product.Colors = cleanList(in.Colors)
	}
	if in.Images != nil || in.ImageURL != nil {
		product.Images = in.images()
	}
	if in.Featured != nil {
		product.Featured = *in.Featured
	}
	if in.Active != nil {
		product.Active = *in.Active
	}

	return nil
}

// SKUValue возвращает переданный SKU без пробелов.
func (in *ProductInput) SKUValue() string {
	sku, _ := trimmed(in.SKU)
	return sku
}

func (in *ProductInput) images() []string {
	if in.Images != nil {
		return cleanList(in.Images)
	}
	if url, ok := trimmed(in.ImageURL); ok {
		return []string{url}
	}
	return []string{}
}

// ProductInputFromRow приводит строку таблицы к ProductInput.
// Пустая ячейка считается отсутствующим полем.
func ProductInputFromRow(row ImportRow) *ProductInput {
	cell := func(key string) *string {
		v := strings.TrimSpace(row[key])
		if v == "" {
			return nil
		}
		return &v
	}
	list := func(key string) []string {
		v := cell(key)
		if v == nil {
			return nil
		}
		return strings.Split(*v, ",")
	}

	in := &ProductInput{
		Name:        cell("name"),
		Description: cell("description"),
		Price:       cell("price"),
		Category:    cell("category"),
		Brand:       cell("brand"),
		Material:    cell("material"),
		SKU:         cell("sku"),
		Inventory:   cell("inventory"),
		Sizes:       list("sizes"),
		Colors:      list("colors"),
		Images:      list("images"),
		ImageURL:    cell("imageurl"),
	}

	if v := cell("featured"); v != nil {
		featured := *v == "true"
		in.Featured = &featured
	}
	if v := cell("active"); v != nil {
		active := *v != "false"
		in.Active = &active
	}

	return in
}

// parsePrice разбирает цену: положительное число, не более двух знаков после запятой.
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, e.Validation("price %q is not a number", raw)
	}

	if !price.IsPositive() {
		return decimal.Decimal{}, e.ErrPriceMustBePositive
	}

	if !price.Equal(price.Round(2)) {
		return decimal.Decimal{}, e.ErrPricePrecision
	}

	if price.GreaterThan(maxPrice) {
		return decimal.Decimal{}, e.Validation("price must not exceed %s", maxPrice.String())
	}

	return price, nil
}

// maxPrice — верхняя граница, при которой цена в копейках помещается в int64.
var maxPrice = decimal.New(math.MaxInt64/100, 0)

func parseInventory(raw string) (int, error) {
	inventory, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, e.Validation("inventory %q is not an integer", raw)
	}

	if inventory < 0 {
		return 0, e.ErrInventoryNegative
	}

	return int(inventory), nil
}

func trimmed(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

// cleanList обрезает пробелы и убирает пустые элементы. Никогда не возвращает nil.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
