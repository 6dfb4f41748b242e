package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DRSN-tech/storefront/internal/cart"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	CartIDHeader = "X-Cart-ID"
	CartCookie   = "cart_id"

	cartCookieMaxAge = 30 * 24 * time.Hour
)

// CartHandler открывает корзину покупателя на каждый запрос. Корзина определяется
// заголовком X-Cart-ID или cookie cart_id; без них выдаётся новый идентификатор.
type CartHandler struct {
	storage         cart.Storage
	catalogUsecase  usecase.CatalogUC
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewCartHandler(storage cart.Storage, catalogUsecase usecase.CatalogUC, checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *CartHandler {
	return &CartHandler{
		storage:         storage,
		catalogUsecase:  catalogUsecase,
		checkoutUsecase: checkoutUsecase,
		logger:          logger,
	}
}

// getCart
//
//	@Summary	Содержимое корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Cart-ID	header		string	false	"ID корзины"
//	@Success	200			{object}	CartResponse
//	@Router		/cart [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cartID, m, err := c.open(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeCart(w, http.StatusOK, cartID, m)
}

// addItem
//
//	@Summary		Добавление товара в корзину
//	@Description	Та же тройка (товар, размер, цвет) увеличивает количество существующей строки
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-ID	header		string				false	"ID корзины"
//	@Param			item		body		AddCartItemRequest	true	"Позиция"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/cart/items [post]
func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	product, err := c.catalogUsecase.GetProduct(r.Context(), req.ProductID, false)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	cartID, m, err := c.open(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	if _, err := m.AddItem(r.Context(), *product, req.Quantity, req.Size, req.Color); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeCart(w, http.StatusOK, cartID, m)
}

// updateItem
//
//	@Summary		Изменение количества
//	@Description	Количество 0 и меньше удаляет строку
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-ID	header		string					false	"ID корзины"
//	@Param			lineId		path		string					true	"ID строки"
//	@Param			item		body		UpdateCartItemRequest	true	"Количество"
//	@Success		200			{object}	CartResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/cart/items/{lineId} [patch]
func (c *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req UpdateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	cartID, m, err := c.open(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	if err := m.UpdateQuantity(r.Context(), chi.URLParam(r, "lineId"), *req.Quantity); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeCart(w, http.StatusOK, cartID, m)
}

// removeItem
//
//	@Summary	Удаление строки корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Cart-ID	header		string	false	"ID корзины"
//	@Param		lineId		path		string	true	"ID строки"
//	@Success	200			{object}	CartResponse
//	@Router		/cart/items/{lineId} [delete]
func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	cartID, m, err := c.open(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	if err := m.RemoveItem(r.Context(), chi.URLParam(r, "lineId")); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeCart(w, http.StatusOK, cartID, m)
}

// clearCart
//
//	@Summary	Очистка корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Cart-ID	header		string	false	"ID корзины"
//	@Success	200			{object}	CartResponse
//	@Router		/cart [delete]
func (c *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	cartID, m, err := c.open(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	if err := m.Clear(r.Context()); err != nil {
		c.writeError(w, r, err)
		return
	}

	c.writeCart(w, http.StatusOK, cartID, m)
}

// checkoutCart
//
//	@Summary		Оформление корзины
//	@Description	Создаёт платёжную сессию по строкам корзины и очищает корзину после успеха
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-ID	header		string				false	"ID корзины"
//	@Param			body		body		CartCheckoutRequest	true	"Данные покупателя"
//	@Success		200			{object}	domain.PaymentSession
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/cart/checkout [post]
func (c *CartHandler) checkoutCart(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req CartCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		c.writeError(w, r, err)
		return
	}

	_, m, err := c.open(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	session, err := c.checkoutUsecase.CreateSession(r.Context(), &usecase.CheckoutReq{
		Items:        m.CheckoutItems(),
		CustomerInfo: req.CustomerInfo.toDomain(),
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	// Сессия уже создана: ошибка очистки не должна мешать редиректу на оплату.
	if err := m.Clear(context.WithoutCancel(r.Context())); err != nil {
		c.logger.Warnf("Failed to clear cart after checkout session %s: %v", session.ID, err)
	}

	WriteSuccess(w, http.StatusOK, session)
}

// open определяет корзину запроса и загружает её. Новый идентификатор отдаётся в cookie и заголовке.
func (c *CartHandler) open(w http.ResponseWriter, r *http.Request) (string, *cart.Manager, error) {
	const op = "CartHandler.open"

	cartID := CartIDFromRequest(r)
	if cartID == "" {
		cartID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CartCookie,
			Value:    cartID,
			Path:     "/",
			MaxAge:   int(cartCookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(CartIDHeader, cartID)

	m, err := cart.Open(r.Context(), c.storage, cartID, c.logger)
	if err != nil {
		return "", nil, e.Wrap(op, err)
	}

	return cartID, m, nil
}

// CartIDFromRequest возвращает идентификатор корзины из заголовка или cookie.
// Значение, не являющееся UUID, игнорируется.
func CartIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(CartIDHeader); uuid.Validate(id) == nil {
		return id
	}
	if cookie, err := r.Cookie(CartCookie); err == nil && uuid.Validate(cookie.Value) == nil {
		return cookie.Value
	}
	return ""
}

func (c *CartHandler) writeCart(w http.ResponseWriter, status int, cartID string, m *cart.Manager) {
	WriteSuccess(w, status, NewCartResponse(cartID, m.Lines(), m.TotalItems(), m.TotalPrice()))
}

func (c *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logError(c.logger, r, err)
	WriteError(w, err)
}
