package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.CatalogEvent) error
}

type PaymentInfra interface {
	CreateCheckoutSession(ctx context.Context, req *CreatePaymentSessionReq) (*domain.PaymentSession, error)
}
