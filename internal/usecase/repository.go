package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CacheRepository кэширует карточки и выдачу каталога. Промах — (nil, nil) и (nil, false, nil).
// gen — поколение каталога, прочитанное до обращения к хранилищу. Set* с устаревшим
// поколением ничего не пишут в текущее.
type CacheRepository interface {
	Generation(ctx context.Context) (int64, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, gen int64, product *domain.Product) error
	GetList(ctx context.Context, gen int64, filter domain.ProductFilter) ([]domain.Product, bool, error)
	SetList(ctx context.Context, gen int64, filter domain.ProductFilter, products []domain.Product) error
	Invalidate(ctx context.Context, ids ...string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// TxManager выполняет fn в транзакции, переданной через контекст.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
