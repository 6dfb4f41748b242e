package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var customer = domain.CustomerInfo{
	Email:           "buyer@example.com",
	ShippingAddress: domain.Address{Name: "Buyer", Line1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "US"},
}

func TestCheckout_BuildsLineItemsFromCurrentCatalog(t *testing.T) {
	ctx := context.Background()
	teeID, capID := uuid.NewString(), uuid.NewString()

	repo := &productRepoMock{}
	repo.On("GetByIDs", ctx, []string{teeID, capID}).Return([]domain.Product{
		{ID: capID, Name: "Cap", Price: decimal.RequireFromString("15"), Active: true},
		{ID: teeID, Name: "Tee", Price: decimal.RequireFromString("19.99"), Images: []string{"tee.jpg"}, Active: true},
	}, nil)

	payment := &paymentMock{}
	payment.On("CreateCheckoutSession", ctx, mock.Anything).
		Return(&domain.PaymentSession{ID: "cs_test_1", URL: "https://pay/cs_test_1"}, nil)

	events := &eventsMock{}
	events.On("Publish", ctx, mock.Anything).Return(nil)

	uc := NewCheckoutUC(repo, payment, events, logger.NewDiscardLogger(), "usd")

	items := []domain.CheckoutItem{
		{ProductID: teeID, Quantity: 2, Size: "M", Color: "Black"},
		{ProductID: capID, Quantity: 1},
		{ProductID: teeID, Quantity: 1, Size: "L"},
	}
	session, err := uc.CreateSession(ctx, &CheckoutReq{Items: items, CustomerInfo: customer})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)

	req := payment.Calls[0].Arguments.Get(1).(*CreatePaymentSessionReq)
	assert.Equal(t, []domain.CheckoutLineItem{
		{Currency: "usd", Name: "Tee", Description: "Size: M Color: Black", Images: []string{"tee.jpg"}, UnitAmount: 1999, Quantity: 2},
		{Currency: "usd", Name: "Cap", Description: "", UnitAmount: 1500, Quantity: 1},
		{Currency: "usd", Name: "Tee", Description: "Size: L", Images: []string{"tee.jpg"}, UnitAmount: 1999, Quantity: 1},
	}, req.LineItems)
	assert.Equal(t, items, req.Items)
	assert.Equal(t, customer, req.CustomerInfo)

	events.AssertCalled(t, "Publish", ctx, mock.MatchedBy(func(evs []domain.CatalogEvent) bool {
		return evs[0].Type == domain.EventCheckoutSessionCreated && evs[0].Key == "cs_test_1"
	}))
}

func TestCheckout_DeletedProductFails(t *testing.T) {
	ctx := context.Background()
	gone := uuid.NewString()

	repo := &productRepoMock{}
	repo.On("GetByIDs", ctx, []string{gone}).Return([]domain.Product{}, nil)
	payment := &paymentMock{}

	uc := NewCheckoutUC(repo, payment, &eventsMock{}, logger.NewDiscardLogger(), "usd")

	_, err := uc.CreateSession(ctx, &CheckoutReq{
		Items:        []domain.CheckoutItem{{ProductID: gone, Quantity: 1}},
		CustomerInfo: customer,
	})

	assert.True(t, errors.Is(err, e.ErrNotFound))
	payment.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCheckout_InactiveProductFails(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	repo := &productRepoMock{}
	repo.On("GetByIDs", ctx, []string{id}).Return([]domain.Product{{ID: id, Name: "Tee", Price: decimal.NewFromInt(5), Active: false}}, nil)
	payment := &paymentMock{}

	uc := NewCheckoutUC(repo, payment, &eventsMock{}, logger.NewDiscardLogger(), "usd")

	_, err := uc.CreateSession(ctx, &CheckoutReq{Items: []domain.CheckoutItem{{ProductID: id, Quantity: 1}}, CustomerInfo: customer})

	assert.True(t, errors.Is(err, e.ErrNotFound))
	payment.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCheckout_ProviderFailure(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	repo := &productRepoMock{}
	repo.On("GetByIDs", ctx, []string{id}).Return([]domain.Product{{ID: id, Name: "Tee", Price: decimal.NewFromInt(5), Active: true}}, nil)
	payment := &paymentMock{}
	payment.On("CreateCheckoutSession", ctx, mock.Anything).Return(nil, errors.New("card_declined")).Once()

	uc := NewCheckoutUC(repo, payment, &eventsMock{}, logger.NewDiscardLogger(), "usd")

	_, err := uc.CreateSession(ctx, &CheckoutReq{Items: []domain.CheckoutItem{{ProductID: id, Quantity: 1}}, CustomerInfo: customer})

	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrPaymentSession))
	assert.Equal(t, "failed to create checkout session", e.Message(err))
	payment.AssertNumberOfCalls(t, "CreateCheckoutSession", 1)
}

func TestCheckout_Validation(t *testing.T) {
	uc := NewCheckoutUC(&productRepoMock{}, &paymentMock{}, &eventsMock{}, logger.NewDiscardLogger(), "usd")
	ctx := context.Background()

	_, err := uc.CreateSession(ctx, &CheckoutReq{CustomerInfo: customer})
	assert.True(t, errors.Is(err, e.ErrEmptyCheckout))

	_, err = uc.CreateSession(ctx, &CheckoutReq{Items: []domain.CheckoutItem{{ProductID: uuid.NewString(), Quantity: 0}}})
	assert.True(t, errors.Is(err, e.ErrQuantityMustBePositive))

	_, err = uc.CreateSession(ctx, &CheckoutReq{Items: []domain.CheckoutItem{{ProductID: "bogus", Quantity: 1}}})
	assert.True(t, errors.Is(err, e.ErrNotFound))
}
