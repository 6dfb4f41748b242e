package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const generationKey = "catalog:generation"

// CacheRepo кэширует карточки товаров и выдачу каталога.
// Выдача хранится под ключом с номером поколения каталога: любое изменение
// увеличивает поколение, и старые записи больше не читаются, доживая до TTL.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает товар из кэша или (nil, nil) при промахе.
func (c *CacheRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	key := productKey(id)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		c.drop(ctx, key)
		return nil, nil
	}

	if model.ID != id {
		c.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", id, model.ID)
		c.drop(ctx, key)
		return nil, nil
	}

	return c.conv.ToDomain(&model), nil
}

// SetProduct кэширует товар на ProductTTL с разбросом, если поколение каталога всё ещё gen.
// Ключ поколения отслеживается через WATCH: Invalidate между чтением и записью отменяет запись.
func (c *CacheRepo) SetProduct(ctx context.Context, gen int64, product *domain.Product) error {
	data, err := json.Marshal(c.conv.ToRedisModel(product))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ttl := jitter.Duration(c.cfg.ProductTTL, jitter.DefaultJitter)
	err = c.client.Client.Watch(ctx, func(tx *r.Tx) error {
		current, err := generationOf(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe r.Pipeliner) error {
			pipe.Set(ctx, productKey(product.ID), data, ttl)
			return nil
		})
		return err
	}, generationKey)
	if errors.Is(err, r.TxFailedErr) {
		return nil
	}
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Generation возвращает текущее поколение каталога.
func (c *CacheRepo) Generation(ctx context.Context) (int64, error) {
	gen, err := generationOf(ctx, c.client.Client)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}
	return gen, nil
}

// GetList возвращает выдачу поколения gen.
func (c *CacheRepo) GetList(ctx context.Context, gen int64, filter domain.ProductFilter) ([]domain.Product, bool, error) {
	data, err := c.client.Client.Get(ctx, listKey(gen, filter)).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, false, nil
	}

	return c.conv.ToArrDomain(models), true, nil
}

// SetList кэширует выдачу под поколением gen на ListTTL с разбросом.
// Если каталог с тех пор изменился, запись лежит под старым поколением и не читается.
func (c *CacheRepo) SetList(ctx context.Context, gen int64, filter domain.ProductFilter, products []domain.Product) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(products))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ttl := jitter.Duration(c.cfg.ListTTL, jitter.DefaultJitter)
	if err := c.client.Client.Set(ctx, listKey(gen, filter), data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Invalidate увеличивает поколение каталога и удаляет карточки товаров одним пайплайном.
func (c *CacheRepo) Invalidate(ctx context.Context, ids ...string) error {
	pipeline := c.client.Client.TxPipeline()
	pipeline.Incr(ctx, generationKey)
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = productKey(id)
		}
		pipeline.Del(ctx, keys...)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *r.StringCmd
}

func generationOf(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, generationKey).Int64()
	if errors.Is(err, r.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CacheRepo) drop(ctx context.Context, key string) {
	if err := c.client.Client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// productKey возвращает Redis-ключ для одного товара
func productKey(id string) string {
	return "product:" + id
}

// listKey возвращает Redis-ключ выдачи для поколения и фильтра.
func listKey(gen int64, filter domain.ProductFilter) string {
	q := url.Values{}
	q.Set("category", filter.Category)
	q.Set("featured", strconv.FormatBool(filter.FeaturedOnly))
	q.Set("inactive", strconv.FormatBool(filter.IncludeInactive))

	return fmt.Sprintf("catalog:list:%d:%s", gen, q.Encode())
}
