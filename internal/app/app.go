package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/storefront/internal/infrastructure/minio"
	"github.com/DRSN-tech/storefront/internal/infrastructure/payment"
	"github.com/DRSN-tech/storefront/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	redisConv "github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer
	server *v1Http.Server

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewApp подключает хранилища и брокер, собирает use case'ы и HTTP-роутер.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:            cfg,
		logger:         log,
		closer:         closer.NewCloser(0),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("failed to release resources after init error: %v", closeErr)
		}
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	productRepo, txManager, err := a.initProductStore(ctx)
	if err != nil {
		return err
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(context.Context) error {
		return redisClient.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), a.cfg.Redis, a.logger)
	cartRepo := redis.NewCartRepo(redisClient, a.cfg.Redis.CartTTL)

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	imagesInfra := minioInfra.NewMinioInfrastructure(
		s3Repo.NewImageRepo(minioClient, a.cfg.Minio.BucketName), a.cfg.Minio, a.logger, a.shutdownCtx,
	)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err := producer.EnsureTopic(startupTimeout); err != nil {
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})

	stripe := payment.NewStripeInfrastructure(a.cfg.Checkout, a.logger)

	catalogUC := usecase.NewCatalogUC(productRepo, txManager, cacheRepo, producer, a.logger)
	importUC := usecase.NewImportUC(productRepo, txManager, cacheRepo, producer, a.logger, a.cfg.ImportWorkers)
	checkoutUC := usecase.NewCheckoutUC(productRepo, stripe, producer, a.logger, a.cfg.Checkout.Currency)
	imageUC := usecase.NewImageUC(imagesInfra, a.logger)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(v1Http.UseCases{
		Catalog:     catalogUC,
		Import:      importUC,
		Checkout:    checkoutUC,
		Images:      imageUC,
		CartStorage: cartRepo,
	})

	a.server = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.server.Stop)

	return nil
}

// initProductStore выбирает хранилище каталога по STORE_DRIVER.
func (a *App) initProductStore(ctx context.Context) (usecase.ProductRepository, usecase.TxManager, error) {
	if a.cfg.StoreDriver == config.StoreDriverMemory {
		a.logger.Warnf("STORE_DRIVER=memory: catalog is not persisted")
		return memory.NewProductRepo(), memory.NewTxManager(), nil
	}

	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	if err := db.RunMigrations(a.logger); err != nil {
		a.logger.Errorf(err, "failed to run migrations")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter()), tr.NewManager(db.Pool), nil
}

// Run обслуживает запросы до сигнала остановки или ошибки сервера, затем закрывает ресурсы.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.server.Run(); err != nil {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}
	// Фоновая очистка MinIO прерывается только после ожидания в closer.
	a.shutdownCancel()

	a.logger.Infof("Application shutdown complete")

	return appErr
}
