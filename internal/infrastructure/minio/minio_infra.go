package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/infrastructure"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой и очисткой изображений товаров в MinIO.
type MinioInfrastructure struct {
	imageRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	backoff     time.Duration
}

func NewMinioInfrastructure(imageRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		imageRepo:   imageRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoff:     time.Second,
	}
}

type uploadResult struct {
	idx int
	key string
	err error
}

// UploadImages загружает изображения параллельно, не более UploadImagesLimit одновременно.
// Ключи и URL возвращаются в порядке запроса. При первой ошибке остальные загрузки
// отменяются, а уже загруженные объекты удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan uploadResult, len(req.Images))
	sem := make(chan struct{}, m.uploadLimit())

	var uploadWg sync.WaitGroup
	for idx, image := range req.Images {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				resCh <- uploadResult{idx: idx, err: ctx.Err()}
				return
			}

			ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
			if err != nil {
				resCh <- uploadResult{idx: idx, err: fmt.Errorf("%s: %w", image.Name, err)}
				return
			}

			imageID := uuid.NewString()
			objKey := fmt.Sprintf("%s/%s.%s", req.Prefix, imageID, ext)
			key, err := m.imageRepo.Upload(ctx, domain.NewImage(imageID, objKey, image.Data, image.Size, image.MimeType))
			if err != nil {
				resCh <- uploadResult{idx: idx, err: fmt.Errorf("upload %s failed: %w", image.Name, err)}
				return
			}

			resCh <- uploadResult{idx: idx, key: key}
		}()
	}

	go func() {
		uploadWg.Wait()
		close(resCh)
	}()

	keys := make([]string, len(req.Images))
	uploaded := make([]string, 0, len(req.Images))
	var firstErr error
	for r := range resCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		keys[r.idx] = r.key
		uploaded = append(uploaded, r.key)
	}

	if firstErr != nil {
		m.CleanupImages(uploaded)
		m.logger.Errorf(firstErr, "%s: %d of %d images uploaded before failure", op, len(uploaded), len(req.Images))
		return nil, e.Wrap(op, firstErr)
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		urls = append(urls, m.PublicURL(key))
	}

	return usecase.NewUploadImagesRes(keys, urls), nil
}

// PublicURL возвращает адрес, по которому витрина получает объект.
func (m *MinioInfrastructure) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.cfg.PublicURL, m.cfg.BucketName, key)
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		backoff := m.backoff
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.imageRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
				break
			}

			select {
			case <-time.After(jitter.Duration(backoff, 1)):
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}
			backoff *= 2
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func (m *MinioInfrastructure) uploadLimit() int {
	if m.cfg.UploadImagesLimit <= 0 {
		return 1
	}
	return m.cfg.UploadImagesLimit
}
