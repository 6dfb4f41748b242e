package usecase

import (
	"context"
	"path"
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	MaxImagesPerUpload = 10
	MaxImageSize       = 15 << 20 // 15 MiB

	defaultImagePrefix = "products"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// ImageUseCase проверяет изображения товара и передаёт их на загрузку в S3.
type ImageUseCase struct {
	imagesInfra ImagesInfra
	logger      logger.Logger
}

func NewImageUC(imagesInfra ImagesInfra, logger logger.Logger) *ImageUseCase {
	return &ImageUseCase{
		imagesInfra: imagesInfra,
		logger:      logger,
	}
}

// UploadImages возвращает публичные URL загруженных изображений в порядке запроса.
func (i *ImageUseCase) UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	const op = "ImageUseCase.UploadImages"

	if err := validateImages(req.Images); err != nil {
		return nil, e.Wrap(op, err)
	}

	req.Prefix = cleanPrefix(req.Prefix)

	res, err := i.imagesInfra.UploadImages(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	i.logger.Infof("Uploaded %d images under %s", len(res.URLs), req.Prefix)

	return res, nil
}

// cleanPrefix не даёт выйти за пределы бакета. Пустой префикс заменяется на products.
func cleanPrefix(prefix string) string {
	prefix = strings.Trim(path.Clean("/"+strings.TrimSpace(prefix)), "/")
	if prefix == "" {
		return defaultImagePrefix
	}
	return prefix
}

func validateImages(images []ProductImage) error {
	if len(images) == 0 {
		return e.ErrNoImages
	}

	if len(images) > MaxImagesPerUpload {
		return e.ErrTooManyImages
	}

	for _, image := range images {
		if image.Size > MaxImageSize {
			return e.Validation("%s: %s", image.Name, e.ErrFileTooLarge.Msg)
		}
		if _, ok := allowedImageTypes[image.MimeType]; !ok {
			return e.Validation("%s: %s %s", image.Name, e.ErrUnsupportedMediaType.Msg, image.MimeType)
		}
	}

	return nil
}
