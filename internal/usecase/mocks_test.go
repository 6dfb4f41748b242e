package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/stretchr/testify/mock"
)

type cacheRepoMock struct {
	mock.Mock
}

func (m *cacheRepoMock) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	gen, _ := args.Get(0).(int64)
	return gen, args.Error(1)
}

func (m *cacheRepoMock) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *cacheRepoMock) SetProduct(ctx context.Context, gen int64, product *domain.Product) error {
	return m.Called(ctx, gen, product).Error(0)
}

func (m *cacheRepoMock) GetList(ctx context.Context, gen int64, filter domain.ProductFilter) ([]domain.Product, bool, error) {
	args := m.Called(ctx, gen, filter)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Bool(1), args.Error(2)
}

func (m *cacheRepoMock) SetList(ctx context.Context, gen int64, filter domain.ProductFilter, products []domain.Product) error {
	return m.Called(ctx, gen, filter, products).Error(0)
}

func (m *cacheRepoMock) Invalidate(ctx context.Context, ids ...string) error {
	return m.Called(ctx, ids).Error(0)
}

// noopCache — кэш, в котором всегда промах.
type noopCache struct{}

func (noopCache) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (noopCache) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, nil
}

func (noopCache) SetProduct(context.Context, int64, *domain.Product) error {
	return nil
}

func (noopCache) GetList(context.Context, int64, domain.ProductFilter) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (noopCache) SetList(context.Context, int64, domain.ProductFilter, []domain.Product) error {
	return nil
}

func (noopCache) Invalidate(context.Context, ...string) error {
	return nil
}

type productRepoMock struct {
	mock.Mock
}

func (m *productRepoMock) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *productRepoMock) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *productRepoMock) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type eventsMock struct {
	mock.Mock
}

func (m *eventsMock) Publish(ctx context.Context, events ...domain.CatalogEvent) error {
	return m.Called(ctx, events).Error(0)
}

type paymentMock struct {
	mock.Mock
}

func (m *paymentMock) CreateCheckoutSession(ctx context.Context, req *CreatePaymentSessionReq) (*domain.PaymentSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*domain.PaymentSession)
	return s, args.Error(1)
}

type imagesInfraMock struct {
	mock.Mock
}

func (m *imagesInfraMock) UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*UploadImagesRes)
	return res, args.Error(1)
}

func (m *imagesInfraMock) CleanupImages(keys []string) {
	m.Called(keys)
}

func ptr[T any](v T) *T {
	return &v
}
