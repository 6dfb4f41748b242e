package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxJSONBodySize = 1 << 20

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает товары каталога, новые первыми. Недоступность хранилища отдаётся статусом unavailable, а не ошибкой
//	@Tags			products
//	@Produce		json
//	@Param			category		query		string	false	"Категория"
//	@Param			featured		query		bool	false	"Только рекомендуемые"
//	@Param			includeInactive	query		bool	false	"Включая неактивные"
//	@Success		200				{object}	ListProductsResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category:        q.Get("category"),
		FeaturedOnly:    q.Get("featured") == "true",
		IncludeInactive: q.Get("includeInactive") == "true",
	}

	res := p.catalogUsecase.ListProducts(r.Context(), filter)

	WriteSuccess(w, http.StatusOK, ListProductsResponse{
		Products: NewProductDTOs(res.Products),
		Status:   string(res.Status),
	})
}

// getProduct
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id				path		string	true	"ID товара"
//	@Param		includeInactive	query		bool	false	"Отдавать неактивный товар"
//	@Success	200	{object}	ProductDTO
//	@Failure	404	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.catalogUsecase.GetProduct(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("includeInactive") == "true")
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductDTO(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Проверяет и нормализует данные товара. SKU генерируется, если не передан
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		201		{object}	ProductDTO
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"SKU уже занят"
//	@Failure		503		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.catalogUsecase.CreateProduct(r.Context(), req.ToInput())
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewProductDTO(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Меняет только переданные поля
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"ID товара"
//	@Param			product	body		ProductRequest	true	"Изменяемые поля"
//	@Success		200		{object}	ProductDTO
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.catalogUsecase.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.ToInput())
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductDTO(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Param		id	path	string	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := p.catalogUsecase.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		p.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logError(p.logger, r, err)
	WriteError(w, err)
}

// logError пишет клиентские ошибки в warn, остальные в error.
func logError(log logger.Logger, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code < http.StatusInternalServerError {
		log.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
		return
	}
	log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
}
