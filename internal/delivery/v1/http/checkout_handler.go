package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutUsecase: checkoutUsecase, logger: logger}
}

// createSession
//
//	@Summary		Создание платёжной сессии
//	@Description	Каждый товар заново читается из каталога, цены из запроса не используются
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CheckoutRequest	true	"Позиции и данные покупателя"
//	@Success		200		{object}	domain.PaymentSession
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse	"failed to create checkout session"
//	@Router			/checkout [post]
func (c *CheckoutHandler) createSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		logError(c.logger, r, err)
		WriteError(w, err)
		return
	}

	session, err := c.checkoutUsecase.CreateSession(r.Context(), req.ToReq())
	if err != nil {
		logError(c.logger, r, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, session)
}
