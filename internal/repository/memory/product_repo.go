package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
)

// ProductRepo хранит товары в памяти процесса. Используется в тестах и при STORE_DRIVER=memory.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[string]domain.Product)}
}

// List возвращает товары по фильтру, новые первыми.
func (r *ProductRepo) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(&p) {
			out = append(out, clone(p))
		}
	}

	slices.SortFunc(out, func(a, b domain.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	return out, nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	res := clone(p)
	return &res, nil
}

// GetByIDs возвращает найденные товары. Отсутствующие идентификаторы пропускаются.
func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, clone(p))
		}
	}

	return out, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.SKU == sku {
			res := clone(p)
			return &res, nil
		}
	}

	return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
}

func (r *ProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok || r.skuTaken(product.SKU, product.ID) {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrSKUConflict)
	}

	r.products[product.ID] = clone(*product)

	res := clone(*product)
	return &res, nil
}

func (r *ProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	if r.skuTaken(product.SKU, product.ID) {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrSKUConflict)
	}

	r.products[product.ID] = clone(*product)

	res := clone(*product)
	return &res, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	delete(r.products, id)
	return nil
}

func (r *ProductRepo) skuTaken(sku, exceptID string) bool {
	for id, p := range r.products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

func clone(p domain.Product) domain.Product {
	p.Sizes = slices.Clone(p.Sizes)
	p.Colors = slices.Clone(p.Colors)
	p.Images = slices.Clone(p.Images)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		p.UpdatedAt = &t
	}
	return p
}
