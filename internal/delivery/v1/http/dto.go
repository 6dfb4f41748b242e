package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/shopspring/decimal"
)

// ProductDTO — товар в ответах API. Цена отдаётся числом с двумя знаками.
type ProductDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" swaggertype:"number"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand"`
	Material    string      `json:"material"`
	SKU         string      `json:"sku"`
	Inventory   int         `json:"inventory"`
	Sizes       []string    `json:"sizes"`
	Colors      []string    `json:"colors"`
	Images      []string    `json:"images"`
	Featured    bool        `json:"featured"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

func NewProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       priceNumber(p.Price),
		Category:    p.Category,
		Brand:       p.Brand,
		Material:    p.Material,
		SKU:         p.SKU,
		Inventory:   p.Inventory,
		Sizes:       nonNil(p.Sizes),
		Colors:      nonNil(p.Colors),
		Images:      nonNil(p.Images),
		Featured:    p.Featured,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProductDTOs(products []domain.Product) []ProductDTO {
	res := make([]ProductDTO, 0, len(products))
	for i := range products {
		res = append(res, NewProductDTO(&products[i]))
	}
	return res
}

type ListProductsResponse struct {
	Products []ProductDTO `json:"products"`
	Status   string       `json:"status" enums:"ok,empty,unavailable"`
}

// flexString принимает JSON-строку или число и хранит исходную запись.
// Форма админки присылает цену и остаток строками, API-клиенты числами.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// ProductRequest — тело создания и обновления товара. Отсутствующее поле не меняется при обновлении.
type ProductRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Price       *flexString `json:"price" swaggertype:"number"`
	Category    *string     `json:"category"`
	Brand       *string     `json:"brand"`
	Material    *string     `json:"material"`
	SKU         *string     `json:"sku"`
	Inventory   *flexString `json:"inventory" swaggertype:"integer"`
	Sizes       []string    `json:"sizes"`
	Colors      []string    `json:"colors"`
	Images      []string    `json:"images"`
	ImageURL    *string     `json:"imageUrl"`
	Featured    *bool       `json:"featured"`
	Active      *bool       `json:"active"`
}

func (r *ProductRequest) ToInput() *usecase.ProductInput {
	return &usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       flexPtr(r.Price),
		Category:    r.Category,
		Brand:       r.Brand,
		Material:    r.Material,
		SKU:         r.SKU,
		Inventory:   flexPtr(r.Inventory),
		Sizes:       r.Sizes,
		Colors:      r.Colors,
		Images:      r.Images,
		ImageURL:    r.ImageURL,
		Featured:    r.Featured,
		Active:      r.Active,
	}
}

// ImportJSONRequest — массовая загрузка в JSON. Ключи объектов соответствуют колонкам таблицы.
type ImportJSONRequest struct {
	Products []map[string]any `json:"products" validate:"required,min=1"`
}

// Rows приводит объекты к строкам импорта: ключи в нижнем регистре, значения строками,
// списки через запятую.
func (r *ImportJSONRequest) Rows() []usecase.ImportRow {
	rows := make([]usecase.ImportRow, 0, len(r.Products))
	for _, obj := range r.Products {
		row := make(usecase.ImportRow, len(obj))
		for k, v := range obj {
			row[strings.ToLower(strings.TrimSpace(k))] = cellString(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, cellString(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

type ImportFailureDTO struct {
	Row   int    `json:"row"`
	SKU   string `json:"sku,omitempty"`
	Error string `json:"error"`
}

type ImportResponse struct {
	Count  int                `json:"count"`
	Failed []ImportFailureDTO `json:"failed"`
}

func NewImportResponse(res *usecase.ImportRes) ImportResponse {
	failed := make([]ImportFailureDTO, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, ImportFailureDTO{Row: f.Row, SKU: f.SKU, Error: f.Error})
	}
	return ImportResponse{Count: res.Count, Failed: failed}
}

type InventoryStatsResponse struct {
	TotalProducts int    `json:"totalProducts"`
	Active        int    `json:"active"`
	Featured      int    `json:"featured"`
	OutOfStock    int    `json:"outOfStock"`
	LowStock      int    `json:"lowStock"`
	TotalUnits    int    `json:"totalUnits"`
	Status        string `json:"status" enums:"ok,empty,unavailable"`
}

func NewInventoryStatsResponse(s *usecase.InventoryStatsRes) InventoryStatsResponse {
	return InventoryStatsResponse{
		TotalProducts: s.TotalProducts,
		Active:        s.Active,
		Featured:      s.Featured,
		OutOfStock:    s.OutOfStock,
		LowStock:      s.LowStock,
		TotalUnits:    s.TotalUnits,
		Status:        string(s.Status),
	}
}

type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}

// CART

type CartLineDTO struct {
	ID       string      `json:"id"`
	Product  ProductDTO  `json:"product"`
	Quantity int         `json:"quantity"`
	Size     string      `json:"size,omitempty"`
	Color    string      `json:"color,omitempty"`
	Subtotal json.Number `json:"subtotal" swaggertype:"number"`
}

type CartResponse struct {
	CartID     string        `json:"cartId"`
	Lines      []CartLineDTO `json:"lines"`
	TotalItems int           `json:"totalItems"`
	TotalPrice json.Number   `json:"totalPrice" swaggertype:"number"`
}

func NewCartResponse(cartID string, lines []domain.CartLine, totalItems int, totalPrice decimal.Decimal) CartResponse {
	dtos := make([]CartLineDTO, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		dtos = append(dtos, CartLineDTO{
			ID:       l.ID,
			Product:  NewProductDTO(&l.Product),
			Quantity: l.Quantity,
			Size:     l.Size,
			Color:    l.Color,
			Subtotal: priceNumber(l.Subtotal()),
		})
	}

	return CartResponse{
		CartID:     cartID,
		Lines:      dtos,
		TotalItems: totalItems,
		TotalPrice: priceNumber(totalPrice),
	}
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// UpdateCartItemRequest допускает quantity <= 0: такая строка удаляется.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CHECKOUT

type AddressDTO struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a AddressDTO) toDomain() domain.Address {
	return domain.Address{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type CustomerInfoDTO struct {
	Email           string     `json:"email" validate:"required,email"`
	ShippingAddress AddressDTO `json:"shippingAddress"`
	BillingAddress  AddressDTO `json:"billingAddress"`
}

func (c CustomerInfoDTO) toDomain() domain.CustomerInfo {
	return domain.CustomerInfo{
		Email:           c.Email,
		ShippingAddress: c.ShippingAddress.toDomain(),
		BillingAddress:  c.BillingAddress.toDomain(),
	}
}

type CheckoutItemDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type CheckoutRequest struct {
	Items        []CheckoutItemDTO `json:"items" validate:"required,min=1,dive"`
	CustomerInfo CustomerInfoDTO   `json:"customerInfo"`
}

func (r *CheckoutRequest) ToReq() *usecase.CheckoutReq {
	items := make([]domain.CheckoutItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return &usecase.CheckoutReq{Items: items, CustomerInfo: r.CustomerInfo.toDomain()}
}

// CartCheckoutRequest — оформление сохранённой корзины, позиции берутся из неё.
type CartCheckoutRequest struct {
	CustomerInfo CustomerInfoDTO `json:"customerInfo"`
}

func priceNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func flexPtr(f *flexString) *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
