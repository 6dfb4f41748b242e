package e

import (
	"errors"
	"fmt"
)

// Виды ошибок. Конкретные ошибки ссылаются на вид через Unwrap,
// поэтому errors.Is(err, ErrValidation) работает по всей цепочке.
var (
	ErrValidation       = errors.New("validation error")      // 400
	ErrNotFound         = errors.New("not found")             // 404
	ErrConflict         = errors.New("conflict")              // 409
	ErrPaymentSession   = errors.New("payment session error") // 500
	ErrStoreUnavailable = errors.New("store unavailable")     // 503
)

// Error — ошибка с видом и сообщением, которое можно показать пользователю.
type Error struct {
	Kind error
	Msg  string
}

func (err *Error) Error() string {
	return err.Msg
}

func (err *Error) Unwrap() error {
	return err.Kind
}

// New создаёт ошибку заданного вида.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation создаёт ошибку валидации с форматированным сообщением.
func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// Unavailable помечает ошибку хранилища как StoreUnavailable, сохраняя исходную причину.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrProductNameRequired    = New(ErrValidation, "product name is required")
	ErrCategoryRequired       = New(ErrValidation, "category is required")
	ErrPriceRequired          = New(ErrValidation, "price is required")
	ErrInventoryRequired      = New(ErrValidation, "inventory is required")
	ErrPriceMustBePositive    = New(ErrValidation, "price must be positive")
	ErrPricePrecision         = New(ErrValidation, "price must have at most 2 decimal places")
	ErrInventoryNegative      = New(ErrValidation, "inventory must not be negative")
	ErrSKURequired            = New(ErrValidation, "sku is required")
	ErrQuantityMustBePositive = New(ErrValidation, "quantity must be positive")
	ErrVariantNotOffered      = New(ErrValidation, "selected variant is not offered for this product")
	ErrEmptyCheckout          = New(ErrValidation, "checkout requires at least one item")
	ErrNoImages               = New(ErrValidation, "no images provided")
	ErrTooManyImages          = New(ErrValidation, "too many images")
	ErrFileTooLarge           = New(ErrValidation, "file too large")
	ErrUnsupportedMediaType   = New(ErrValidation, "unsupported media type")
	ErrExpectedMultipart      = New(ErrValidation, "expected multipart/form-data")
	ErrInvalidBody            = New(ErrValidation, "invalid request body")
	ErrMalformedCSV           = New(ErrValidation, "malformed csv")
	ErrNoRows                 = New(ErrValidation, "no rows to import")

	// 404 Not Found
	ErrProductNotFound  = New(ErrNotFound, "product not found")
	ErrCartLineNotFound = New(ErrNotFound, "cart line not found")

	// 409 Conflict
	ErrSKUConflict = New(ErrConflict, "product with this sku already exists")

	// 500
	ErrCheckoutSessionFailed = New(ErrPaymentSession, "failed to create checkout session")
	ErrInternalServerError   = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Message возвращает сообщение для пользователя: текст первой *Error в цепочке
// или текст вида ошибки, если конкретной ошибки нет.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}

	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrPaymentSession, ErrStoreUnavailable} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}

	return ErrInternalServerError.Error()
}
