package http

import (
	_ "github.com/DRSN-tech/storefront/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/storefront/internal/cart"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// UseCases — зависимости обработчиков API.
type UseCases struct {
	Catalog     usecase.CatalogUC
	Import      usecase.ImportUC
	Checkout    usecase.CheckoutUC
	Images      usecase.ImageUC
	CartStorage cart.Storage
}

func (r *Router) Init(uc UseCases) {
	r.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(uc.Catalog, r.logger))
		registerInventoryRoutes(v1, NewInventoryHandler(uc.Import, uc.Catalog, r.logger))
		registerUploadRoutes(v1, NewImageHandler(uc.Images, r.logger))
		registerCartRoutes(v1, NewCartHandler(uc.CartStorage, uc.Catalog, uc.Checkout, r.logger))
		registerCheckoutRoutes(v1, NewCheckoutHandler(uc.Checkout, r.logger))
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
	})
}

func registerInventoryRoutes(router chi.Router, h *InventoryHandler) {
	router.Route("/inventory", func(inv chi.Router) {
		inv.Post("/upload", h.uploadInventory)
		inv.Get("/stats", h.inventoryStats)
	})
}

func registerUploadRoutes(router chi.Router, h *ImageHandler) {
	router.Post("/uploads/images", h.uploadImages)
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.getCart)
		c.Delete("/", h.clearCart)
		c.Post("/items", h.addItem)
		c.Patch("/items/{lineId}", h.updateItem)
		c.Delete("/items/{lineId}", h.removeItem)
		c.Post("/checkout", h.checkoutCart)
	})
}

func registerCheckoutRoutes(router chi.Router, h *CheckoutHandler) {
	router.Post("/checkout", h.createSession)
}
