package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
)

const defaultImportWorkers = 8

// ImportUseCase выполняет массовую загрузку товаров с upsert по SKU.
// Каждая строка — отдельная транзакция: ошибка в одной строке не откатывает остальные.
type ImportUseCase struct {
	productRepo ProductRepository
	txManager   TxManager
	cacheRepo   CacheRepository
	events      EventPublisher
	logger      logger.Logger
	workers     int
	now         func() time.Time
}

func NewImportUC(
	productRepo ProductRepository,
	txManager TxManager,
	cacheRepo CacheRepository,
	events EventPublisher,
	logger logger.Logger,
	workers int,
) *ImportUseCase {
	if workers <= 0 {
		workers = defaultImportWorkers
	}

	return &ImportUseCase{
		productRepo: productRepo,
		txManager:   txManager,
		cacheRepo:   cacheRepo,
		events:      events,
		logger:      logger,
		workers:     workers,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type rowResult struct {
	product *domain.Product
	err     error
}

// Import обрабатывает строки параллельно с ограничением числа воркеров
// и возвращает число успешно сохранённых строк и список неудачных.
func (i *ImportUseCase) Import(ctx context.Context, req *ImportReq) (*ImportRes, error) {
	const op = "ImportUseCase.Import"

	if len(req.Rows) == 0 {
		return nil, e.Wrap(op, e.ErrNoRows)
	}

	// Строки с одинаковым SKU обрабатываются последовательно в исходном порядке,
	// иначе параллельные вставки одного SKU упадут на уникальном индексе.
	results := make([]rowResult, len(req.Rows))
	groups := make(map[string][]int)
	order := make([]string, 0, len(req.Rows))
	for idx, row := range req.Rows {
		sku := ProductInputFromRow(row).SKUValue()
		if sku == "" {
			results[idx] = rowResult{err: e.ErrSKURequired}
			continue
		}
		if _, ok := groups[sku]; !ok {
			order = append(order, sku)
		}
		groups[sku] = append(groups[sku], idx)
	}

	sem := make(chan struct{}, i.workers)
	var wg sync.WaitGroup
	for _, sku := range order {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			for _, idx := range groups[sku] {
				product, err := i.upsertRow(ctx, req.Rows[idx])
				results[idx] = rowResult{product: product, err: err}
			}
		}()
	}
	wg.Wait()

	res := &ImportRes{Failed: []ImportFailure{}}
	touched := make([]string, 0, len(results))
	for idx, r := range results {
		if r.err != nil {
			res.Failed = append(res.Failed, ImportFailure{
				Row:   idx + 1,
				SKU:   ProductInputFromRow(req.Rows[idx]).SKUValue(),
				Error: e.Message(r.err),
			})
			continue
		}
		res.Count++
		touched = append(touched, r.product.ID)
	}

	// Все строки упали из-за недоступности хранилища.
	if res.Count == 0 {
		for _, r := range results {
			if errors.Is(r.err, e.ErrStoreUnavailable) {
				return nil, e.Wrap(op, r.err)
			}
		}
	}

	if len(touched) > 0 {
		if err := i.cacheRepo.Invalidate(ctx, touched...); err != nil {
			i.logger.Warnf("Failed to invalidate catalog cache: %v", e.Wrap(op, err))
		}

		event := domain.CatalogEvent{
			EventID:    uuid.NewString(),
			Type:       domain.EventProductImported,
			Key:        uuid.NewString(),
			OccurredAt: i.now(),
			Payload:    map[string]any{"count": res.Count, "productIds": touched},
		}
		if err := i.events.Publish(ctx, event); err != nil {
			i.logger.Warnf("Failed to publish %s event: %v", event.Type, e.Wrap(op, err))
		}
	}

	i.logger.Infof("Import finished: %d of %d rows saved", res.Count, len(req.Rows))

	return res, nil
}

// upsertRow обновляет товар с тем же SKU или создаёт новый.
func (i *ImportUseCase) upsertRow(ctx context.Context, row ImportRow) (*domain.Product, error) {
	in := ProductInputFromRow(row)
	sku := in.SKUValue()

	var saved *domain.Product
	err := i.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := i.productRepo.GetBySKU(ctx, sku)
		switch {
		case err == nil:
			if err := in.Apply(existing); err != nil {
				return err
			}
			now := i.now()
			existing.UpdatedAt = &now
			saved, err = i.productRepo.Update(ctx, existing)
			return err
		case errors.Is(err, e.ErrNotFound):
			product, err := in.NewProduct(i.now())
			if err != nil {
				return err
			}
			product.ID = uuid.NewString()
			saved, err = i.productRepo.Create(ctx, product)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}
