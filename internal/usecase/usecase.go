package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type CatalogUC interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) *ListProductsRes
	GetProduct(ctx context.Context, id string, includeInactive bool) (*domain.Product, error)
	CreateProduct(ctx context.Context, in *ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in *ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	InventoryStats(ctx context.Context) *InventoryStatsRes
}

type ImportUC interface {
	Import(ctx context.Context, req *ImportReq) (*ImportRes, error)
}

type CheckoutUC interface {
	CreateSession(ctx context.Context, req *CheckoutReq) (*domain.PaymentSession, error)
}

type ImageUC interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
}
