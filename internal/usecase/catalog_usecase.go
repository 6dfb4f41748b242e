package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
)

// LowStockThreshold — остаток, начиная с которого товар считается заканчивающимся.
const LowStockThreshold = 10

// CatalogUseCase реализует чтение и изменение каталога.
type CatalogUseCase struct {
	productRepo ProductRepository
	txManager   TxManager
	cacheRepo   CacheRepository
	events      EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

func NewCatalogUC(
	productRepo ProductRepository,
	txManager TxManager,
	cacheRepo CacheRepository,
	events EventPublisher,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo: productRepo,
		txManager:   txManager,
		cacheRepo:   cacheRepo,
		events:      events,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListProducts возвращает товары по фильтру, новые первыми.
// Ошибка хранилища не возвращается: она логируется, а результат помечается как unavailable.
func (c *CatalogUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter) *ListProductsRes {
	const op = "CatalogUseCase.ListProducts"

	gen, cacheErr := c.cacheRepo.Generation(ctx)
	if cacheErr != nil {
		c.logger.Warnf("Failed to read catalog cache: %v", e.Wrap(op, cacheErr))
	} else {
		cached, ok, err := c.cacheRepo.GetList(ctx, gen, filter)
		if err != nil {
			c.logger.Warnf("Failed to read catalog cache: %v", e.Wrap(op, err))
		} else if ok {
			return NewListProductsRes(cached)
		}
	}

	products, err := c.productRepo.List(ctx, filter)
	if err != nil {
		c.logger.Warnf("Catalog store unavailable, returning empty list: %v", e.Wrap(op, err))
		return NewUnavailableListRes()
	}

	if cacheErr == nil {
		if err := c.cacheRepo.SetList(ctx, gen, filter, products); err != nil {
			c.logger.Warnf("Failed to cache catalog list: %v", e.Wrap(op, err))
		}
	}

	return NewListProductsRes(products)
}

// GetProduct возвращает товар по идентификатору, сначала из кэша.
// Неактивный товар без includeInactive считается отсутствующим.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id string, includeInactive bool) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	if uuid.Validate(id) != nil {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	product, err := c.getProduct(ctx, op, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.Active && !includeInactive {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return product, nil
}

func (c *CatalogUseCase) getProduct(ctx context.Context, op, id string) (*domain.Product, error) {
	gen, cacheErr := c.cacheRepo.Generation(ctx)
	if cacheErr != nil {
		c.logger.Warnf("Failed to read product cache: %v", e.Wrap(op, cacheErr))
	} else {
		cached, err := c.cacheRepo.GetProduct(ctx, id)
		if err != nil {
			c.logger.Warnf("Failed to read product cache: %v", e.Wrap(op, err))
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr == nil {
		if err := c.cacheRepo.SetProduct(ctx, gen, product); err != nil {
			c.logger.Warnf("Failed to cache product: %v", e.Wrap(op, err))
		}
	}

	return product, nil
}

// CreateProduct проверяет и нормализует входные данные и сохраняет новый товар.
func (c *CatalogUseCase) CreateProduct(ctx context.Context, in *ProductInput) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	product, err := in.NewProduct(c.now())
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	product.ID = uuid.NewString()

	created, err := c.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx, op, created.ID)
	c.publish(ctx, op, domain.EventProductCreated, created.ID, created)

	return created, nil
}

// UpdateProduct применяет частичные изменения к товару в одной транзакции.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	if uuid.Validate(id) != nil {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	var updated *domain.Product
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := c.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := in.Apply(product); err != nil {
			return err
		}
		now := c.now()
		product.UpdatedAt = &now

		updated, err = c.productRepo.Update(ctx, product)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx, op, updated.ID)
	c.publish(ctx, op, domain.EventProductUpdated, updated.ID, updated)

	return updated, nil
}

// DeleteProduct удаляет товар. Отсутствующий товар — NotFound.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	const op = "CatalogUseCase.DeleteProduct"

	if uuid.Validate(id) != nil {
		return e.Wrap(op, e.ErrProductNotFound)
	}

	if err := c.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidate(ctx, op, id)
	c.publish(ctx, op, domain.EventProductDeleted, id, nil)

	return nil
}

// InventoryStats считает сводку остатков по всем товарам, включая неактивные.
func (c *CatalogUseCase) InventoryStats(ctx context.Context) *InventoryStatsRes {
	const op = "CatalogUseCase.InventoryStats"

	products, err := c.productRepo.List(ctx, domain.ProductFilter{IncludeInactive: true})
	if err != nil {
		c.logger.Warnf("Catalog store unavailable, returning empty stats: %v", e.Wrap(op, err))
		return &InventoryStatsRes{Status: ListStatusUnavailable}
	}

	stats := &InventoryStatsRes{TotalProducts: len(products), Status: ListStatusOK}
	if len(products) == 0 {
		stats.Status = ListStatusEmpty
	}

	for i := range products {
		p := &products[i]
		if p.Active {
			stats.Active++
		}
		if p.Featured {
			stats.Featured++
		}
		switch {
		case p.Inventory == 0:
			stats.OutOfStock++
		case p.Inventory <= LowStockThreshold:
			stats.LowStock++
		}
		stats.TotalUnits += p.Inventory
	}

	return stats
}

// invalidate сбрасывает кэш после изменения. Ошибка кэша не влияет на результат.
func (c *CatalogUseCase) invalidate(ctx context.Context, op string, ids ...string) {
	if err := c.cacheRepo.Invalidate(ctx, ids...); err != nil {
		c.logger.Warnf("Failed to invalidate catalog cache: %v", e.Wrap(op, err))
	}
}

func (c *CatalogUseCase) publish(ctx context.Context, op string, typ domain.CatalogEventType, key string, payload any) {
	event := domain.CatalogEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		Key:        key,
		OccurredAt: c.now(),
		Payload:    payload,
	}

	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warnf("Failed to publish %s event: %v", typ, e.Wrap(op, err))
	}
}
