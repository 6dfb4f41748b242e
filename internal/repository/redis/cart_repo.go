package redis

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartRepo хранит сериализованные корзины под ключами cart:<id>.
// TTL продлевается при каждом сохранении.
type CartRepo struct {
	client *clients.RedisClient
	ttl    time.Duration
}

func NewCartRepo(client *clients.RedisClient, ttl time.Duration) *CartRepo {
	return &CartRepo{
		client: client,
		ttl:    ttl,
	}
}

func (c *CartRepo) Load(ctx context.Context, cartID string) ([]byte, error) {
	data, err := c.client.Client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Unavailable(err))
	}

	return data, nil
}

func (c *CartRepo) Save(ctx context.Context, cartID string, data []byte) error {
	if err := c.client.Client.Set(ctx, cartKey(cartID), data, c.ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Unavailable(err))
	}

	return nil
}

func cartKey(id string) string {
	return "cart:" + id
}
