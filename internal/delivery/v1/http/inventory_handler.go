package http

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const maxImportFileSize = 10 << 20

type InventoryHandler struct {
	importUsecase  usecase.ImportUC
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewInventoryHandler(importUsecase usecase.ImportUC, catalogUsecase usecase.CatalogUC, logger logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		importUsecase:  importUsecase,
		catalogUsecase: catalogUsecase,
		logger:         logger,
	}
}

// uploadInventory
//
//	@Summary		Массовая загрузка товаров
//	@Description	Upsert по SKU. Принимает JSON {"products": [...]} или CSV-файл в поле file (multipart/form-data). Строки сохраняются независимо
//	@Tags			inventory
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			body	body		ImportJSONRequest	false	"Товары в JSON"
//	@Param			file	formData	file				false	"CSV с заголовком"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/inventory/upload [post]
func (i *InventoryHandler) uploadInventory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportFileSize)

	var (
		rows []usecase.ImportRow
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		rows, err = i.rowsFromMultipart(r)
	} else {
		var req ImportJSONRequest
		if err = decodeJSON(r, &req); err == nil {
			rows = req.Rows()
		}
	}
	if err != nil {
		i.writeError(w, r, err)
		return
	}

	res, err := i.importUsecase.Import(r.Context(), &usecase.ImportReq{Rows: rows})
	if err != nil {
		i.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewImportResponse(res))
}

// inventoryStats
//
//	@Summary	Сводка остатков
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{object}	InventoryStatsResponse
//	@Router		/inventory/stats [get]
func (i *InventoryHandler) inventoryStats(w http.ResponseWriter, r *http.Request) {
	stats := i.catalogUsecase.InventoryStats(r.Context())
	WriteSuccess(w, http.StatusOK, NewInventoryStatsResponse(stats))
}

func (i *InventoryHandler) rowsFromMultipart(r *http.Request) ([]usecase.ImportRow, error) {
	const maxMemory = 4 << 20

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, e.Validation("file is required")
	}
	defer file.Close()

	return ParseCSV(file)
}

// ParseCSV читает таблицу с заголовком. Заголовки приводятся к нижнему регистру,
// пустые строки пропускаются.
func ParseCSV(src io.Reader) ([]usecase.ImportRow, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, e.ErrNoRows
	}
	if err != nil {
		return nil, e.Validation("%s: %v", e.ErrMalformedCSV.Msg, err)
	}

	for idx, h := range header {
		header[idx] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []usecase.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, e.Validation("%s: %v", e.ErrMalformedCSV.Msg, err)
		}

		row := make(usecase.ImportRow, len(header))
		blank := true
		for idx, value := range record {
			if idx >= len(header) || header[idx] == "" {
				continue
			}
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			row[header[idx]] = value
		}
		if !blank {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func (i *InventoryHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logError(i.logger, r, err)
	WriteError(w, err)
}
