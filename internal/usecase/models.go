package usecase

import "github.com/DRSN-tech/storefront/internal/domain"

// CATALOG USECASE

type ListStatus string

const (
	ListStatusOK          ListStatus = "ok"
	ListStatusEmpty       ListStatus = "empty"
	ListStatusUnavailable ListStatus = "unavailable" // Хранилище недоступно, Products пуст
)

// ListProductsRes — выдача каталога. Отличает пустой каталог от недоступного хранилища.
type ListProductsRes struct {
	Products []domain.Product
	Status   ListStatus
}

// InventoryStatsRes — сводка для таблицы остатков в админке.
type InventoryStatsRes struct {
	TotalProducts int
	Active        int
	Featured      int
	OutOfStock    int
	LowStock      int // 0 < inventory <= LowStockThreshold
	TotalUnits    int
	Status        ListStatus
}

// IMPORT USECASE

// ImportRow — строка таблицы: заголовок колонки -> значение ячейки.
type ImportRow map[string]string

type ImportReq struct {
	Rows []ImportRow
}

// ImportRes — итог импорта. Row — номер строки данных, начиная с 1.
type ImportRes struct {
	Count  int
	Failed []ImportFailure
}

type ImportFailure struct {
	Row   int
	SKU   string
	Error string
}

// CHECKOUT USECASE

type CheckoutReq struct {
	Items        []domain.CheckoutItem
	CustomerInfo domain.CustomerInfo
}

// IMAGES USECASE

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// UploadImagesReq — запрос на загрузку изображений товара.
type UploadImagesReq struct {
	Prefix string // Каталог в бакете, обычно категория товара
	Images []ProductImage
}

// UploadImagesRes — ключи объектов в MinIO и публичные URL в порядке загрузки.
type UploadImagesRes struct {
	ImagesKeys []string
	URLs       []string
}

// INFRASTRUCTURE

// CreatePaymentSessionReq — всё, что нужно платёжному провайдеру для создания сессии.
type CreatePaymentSessionReq struct {
	LineItems    []domain.CheckoutLineItem
	CustomerInfo domain.CustomerInfo
	Items        []domain.CheckoutItem // Исходные позиции, уходят в метаданные
}

// MAPPERS

func NewListProductsRes(products []domain.Product) *ListProductsRes {
	if len(products) == 0 {
		return &ListProductsRes{Products: []domain.Product{}, Status: ListStatusEmpty}
	}
	return &ListProductsRes{Products: products, Status: ListStatusOK}
}

func NewUnavailableListRes() *ListProductsRes {
	return &ListProductsRes{Products: []domain.Product{}, Status: ListStatusUnavailable}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImagesReq(prefix string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Prefix: prefix,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string, urls []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
		URLs:       urls,
	}
}

func NewCreatePaymentSessionReq(lineItems []domain.CheckoutLineItem, info domain.CustomerInfo, items []domain.CheckoutItem) *CreatePaymentSessionReq {
	return &CreatePaymentSessionReq{
		LineItems:    lineItems,
		CustomerInfo: info,
		Items:        items,
	}
}
