package domain

import "github.com/shopspring/decimal"

// CartLine — строка корзины. Product хранит снимок товара на момент добавления,
// поэтому цена в корзине может расходиться с каталогом.
type CartLine struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Matches сравнивает строку с тройкой (товар, размер, цвет).
func (l *CartLine) Matches(productID, size, color string) bool {
	return l.Product.ID == productID && l.Size == size && l.Color == color
}

// Subtotal — цена снимка, умноженная на количество.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CheckoutItem превращает строку корзины в позицию заказа.
func (l *CartLine) CheckoutItem() CheckoutItem {
	return CheckoutItem{
		ProductID: l.Product.ID,
		Quantity:  l.Quantity,
		Size:      l.Size,
		Color:     l.Color,
	}
}
