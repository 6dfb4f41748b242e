package cart

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Manager — корзина одного покупателя. Каждое изменение применяется к копии строк,
// копия сохраняется в Storage и только после успешной записи становится текущим состоянием.
type Manager struct {
	mu      sync.Mutex
	storage Storage
	key     string
	lines   []domain.CartLine
	logger  logger.Logger
}

// Open загружает корзину из хранилища. Отсутствующая или повреждённая запись даёт пустую корзину.
func Open(ctx context.Context, storage Storage, key string, logger logger.Logger) (*Manager, error) {
	const op = "cart.Open"

	data, err := storage.Load(ctx, key)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	m := &Manager{
		storage: storage,
		key:     key,
		lines:   []domain.CartLine{},
		logger:  logger,
	}

	if len(data) == 0 {
		return m, nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		logger.Warnf("Corrupt cart %s, starting empty: %v", key, e.Wrap(op, err))
		return m, nil
	}

	for _, line := range lines {
		if line.ID != "" && line.Quantity > 0 {
			m.lines = append(m.lines, line)
		}
	}

	return m, nil
}

// AddItem увеличивает количество в строке с тем же (товар, размер, цвет) или добавляет новую строку.
// Остаток товара не проверяется.
func (m *Manager) AddItem(ctx context.Context, product domain.Product, quantity int, size, color string) (*domain.CartLine, error) {
	const op = "cart.Manager.AddItem"

	if quantity <= 0 {
		return nil, e.Wrap(op, e.ErrQuantityMustBePositive)
	}
	if !product.OffersSize(size) || !product.OffersColor(color) {
		return nil, e.Wrap(op, e.ErrVariantNotOffered)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := slices.Clone(m.lines)
	idx := slices.IndexFunc(next, func(l domain.CartLine) bool {
		return l.Matches(product.ID, size, color)
	})
	if idx >= 0 {
		next[idx].Quantity += quantity
	} else {
		next = append(next, domain.CartLine{
			ID:       uuid.NewString(),
			Product:  product,
			Quantity: quantity,
			Size:     size,
			Color:    color,
		})
		idx = len(next) - 1
	}

	if err := m.persist(ctx, next); err != nil {
		return nil, e.Wrap(op, err)
	}

	line := m.lines[idx]
	return &line, nil
}

// RemoveItem удаляет строку. Удаление несуществующей строки ничего не делает.
func (m *Manager) RemoveItem(ctx context.Context, lineID string) error {
	const op = "cart.Manager.RemoveItem"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(ctx, m.without(lineID)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// UpdateQuantity заменяет количество в строке. quantity <= 0 удаляет строку.
func (m *Manager) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	const op = "cart.Manager.UpdateQuantity"

	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		if err := m.persist(ctx, m.without(lineID)); err != nil {
			return e.Wrap(op, err)
		}
		return nil
	}

	next := slices.Clone(m.lines)
	idx := slices.IndexFunc(next, func(l domain.CartLine) bool { return l.ID == lineID })
	if idx < 0 {
		return e.Wrap(op, e.ErrCartLineNotFound)
	}
	next[idx].Quantity = quantity

	if err := m.persist(ctx, next); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Clear очищает корзину.
func (m *Manager) Clear(ctx context.Context) error {
	const op = "cart.Manager.Clear"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(ctx, []domain.CartLine{}); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Lines возвращает копию строк корзины в порядке добавления.
func (m *Manager) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.lines)
}

// TotalItems — сумма количеств по всем строкам.
func (m *Manager) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, l := range m.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice считается по ценам снимков в строках, а не по текущему каталогу.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for i := range m.lines {
		total = total.Add(m.lines[i].Subtotal())
	}
	return total
}

// CheckoutItems переводит строки корзины в позиции заказа.
func (m *Manager) CheckoutItems() []domain.CheckoutItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.CheckoutItem, 0, len(m.lines))
	for i := range m.lines {
		items = append(items, m.lines[i].CheckoutItem())
	}
	return items
}

func (m *Manager) without(lineID string) []domain.CartLine {
	return slices.DeleteFunc(slices.Clone(m.lines), func(l domain.CartLine) bool {
		return l.ID == lineID
	})
}

// persist сохраняет next целиком и делает его текущим состоянием. Вызывается под m.mu.
func (m *Manager) persist(ctx context.Context, next []domain.CartLine) error {
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	if err := m.storage.Save(ctx, m.key, data); err != nil {
		return err
	}

	m.lines = next
	return nil
}
