package domain

import "strings"

// CheckoutItem — позиция, которую покупатель оплачивает.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type CustomerInfo struct {
	Email           string  `json:"email"`
	ShippingAddress Address `json:"shippingAddress"`
	BillingAddress  Address `json:"billingAddress"`
}

// CheckoutLineItem — строка платёжной сессии. Не сохраняется.
type CheckoutLineItem struct {
	Currency    string
	Name        string
	Description string
	Images      []string
	UnitAmount  int64 // В минимальных единицах валюты
	Quantity    int64
}

// NewCheckoutLineItem строит строку платежа по актуальной записи каталога.
func NewCheckoutLineItem(product *Product, item CheckoutItem, currency string) CheckoutLineItem {
	return CheckoutLineItem{
		Currency:    currency,
		Name:        product.Name,
		Description: VariantDescription(item.Size, item.Color),
		Images:      product.Images,
		UnitAmount:  MinorUnits(product.Price),
		Quantity:    int64(item.Quantity),
	}
}

// VariantDescription склеивает непустые фрагменты "Size: X" и "Color: Y".
func VariantDescription(size, color string) string {
	parts := make([]string, 0, 2)
	if size != "" {
		parts = append(parts, "Size: "+size)
	}
	if color != "" {
		parts = append(parts, "Color: "+color)
	}
	return strings.Join(parts, " ")
}

// PaymentSession — ответ платёжного провайдера.
type PaymentSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}
