package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
)

// CheckoutUseCase собирает платёжную сессию по актуальным данным каталога.
type CheckoutUseCase struct {
	productRepo ProductRepository
	payment     PaymentInfra
	events      EventPublisher
	logger      logger.Logger
	currency    string
	now         func() time.Time
}

func NewCheckoutUC(
	productRepo ProductRepository,
	payment PaymentInfra,
	events EventPublisher,
	logger logger.Logger,
	currency string,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		productRepo: productRepo,
		payment:     payment,
		events:      events,
		logger:      logger,
		currency:    currency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession заново загружает каждый товар из хранилища (снимок из корзины не используется),
// строит позиции в минимальных единицах валюты и создаёт сессию у провайдера.
// Если хоть одного товара нет или он снят с продажи, сессия не создаётся.
func (c *CheckoutUseCase) CreateSession(ctx context.Context, req *CheckoutReq) (*domain.PaymentSession, error) {
	const op = "CheckoutUseCase.CreateSession"

	if len(req.Items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyCheckout)
	}

	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, e.Wrap(op, e.ErrQuantityMustBePositive)
		}
		if uuid.Validate(item.ProductID) != nil {
			return nil, e.Wrap(op, productNotFound(item.ProductID))
		}
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	products, err := c.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lineItems := make([]domain.CheckoutLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.Active {
			return nil, e.Wrap(op, productNotFound(item.ProductID))
		}
		lineItems = append(lineItems, domain.NewCheckoutLineItem(product, item, c.currency))
	}

	session, err := c.payment.CreateCheckoutSession(ctx, NewCreatePaymentSessionReq(lineItems, req.CustomerInfo, req.Items))
	if err != nil {
		c.logger.Errorf(err, "%s: payment provider rejected session with %d line items", op, len(lineItems))
		if !errors.Is(err, e.ErrPaymentSession) {
			err = fmt.Errorf("%w: %w", e.ErrCheckoutSessionFailed, err)
		}
		return nil, e.Wrap(op, err)
	}

	event := domain.CatalogEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventCheckoutSessionCreated,
		Key:        session.ID,
		OccurredAt: c.now(),
		Payload:    map[string]any{"items": req.Items, "amountTotal": amountTotal(lineItems), "currency": c.currency},
	}
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warnf("Failed to publish %s event: %v", event.Type, e.Wrap(op, err))
	}

	return session, nil
}

func productNotFound(id string) error {
	return e.New(e.ErrNotFound, fmt.Sprintf("product %s not found", id))
}

func amountTotal(items []domain.CheckoutLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitAmount * item.Quantity
	}
	return total
}
