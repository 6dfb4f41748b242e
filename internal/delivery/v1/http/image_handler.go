package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type ImageHandler struct {
	imageUsecase usecase.ImageUC
	logger       logger.Logger
}

func NewImageHandler(imageUsecase usecase.ImageUC, logger logger.Logger) *ImageHandler {
	return &ImageHandler{imageUsecase: imageUsecase, logger: logger}
}

// uploadImages
//
//	@Summary		Загрузка изображений товара
//	@Description	До 10 файлов jpeg/png/webp по 15 МБ. URL возвращаются в порядке загрузки
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			images	formData	file	true	"Изображения"
//	@Param			prefix	formData	string	false	"Каталог в бакете"
//	@Success		200		{object}	UploadImagesResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/uploads/images [post]
func (i *ImageHandler) uploadImages(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		i.writeError(w, r, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		i.writeError(w, r, err)
		return
	}

	res, err := i.imageUsecase.UploadImages(r.Context(), usecase.NewUploadImagesReq(r.FormValue("prefix"), images))
	if err != nil {
		i.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, UploadImagesResponse{URLs: res.URLs})
}

func (i *ImageHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logError(i.logger, r, err)
	WriteError(w, err)
}
