package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// sessionCreator — часть клиента Stripe, которая нужна для создания сессии.
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeInfrastructure создаёт платёжные сессии Stripe Checkout.
// Одна попытка на запрос, повторов нет.
type StripeInfrastructure struct {
	client sessionCreator
	cfg    *cfg.CheckoutCfg
	logger logger.Logger
}

func NewStripeInfrastructure(cfg *cfg.CheckoutCfg, logger logger.Logger) *StripeInfrastructure {
	return &StripeInfrastructure{
		client: &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.StripeSecretKey},
		cfg:    cfg,
		logger: logger,
	}
}

func (s *StripeInfrastructure) CreateCheckoutSession(ctx context.Context, req *usecase.CreatePaymentSessionReq) (*domain.PaymentSession, error) {
	const op = "StripeInfrastructure.CreateCheckoutSession"

	params, err := buildSessionParams(s.cfg, req)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrCheckoutSessionFailed, err))
	}
	params.Context = ctx

	sess, err := s.client.New(params)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrCheckoutSessionFailed, err))
	}

	s.logger.Infof("Created checkout session %s with %d line items", sess.ID, len(req.LineItems))

	return &domain.PaymentSession{ID: sess.ID, URL: sess.URL}, nil
}

// buildSessionParams переводит позиции оплаты в параметры Checkout Session.
func buildSessionParams(cfg *cfg.CheckoutCfg, req *usecase.CreatePaymentSessionReq) (*stripe.CheckoutSessionParams, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		if len(item.Images) > 0 {
			productData.Images = stripe.StringSlice(item.Images)
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(item.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	customerInfo, err := json.Marshal(req.CustomerInfo)
	if err != nil {
		return nil, err
	}
	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(cfg.AppURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(cfg.AppURL + "/cart"),
	}
	if req.CustomerInfo.Email != "" {
		params.CustomerEmail = stripe.String(req.CustomerInfo.Email)
	}
	if len(cfg.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(cfg.AllowedCountries),
		}
	}
	params.AddMetadata("customerInfo", string(customerInfo))
	params.AddMetadata("items", string(items))

	return params, nil
}
