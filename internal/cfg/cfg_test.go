package cfg

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "store")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "storefront")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := Load(logger.NewDiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, c.StoreDriver)
	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, 5*time.Second, c.Http.ReadTimeout)
	assert.Equal(t, "localhost", c.Db.Host)
	assert.Equal(t, "host=localhost port=5432 user=store password=secret dbname=storefront sslmode=disable", c.Db.DSN())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "storefront.catalog", c.Kafka.Topic)
	assert.Equal(t, "tcp", c.Kafka.NetworkMode)
	assert.Equal(t, 3, c.Kafka.Partitions)
	assert.Equal(t, 8, c.ImportWorkers)
	assert.Equal(t, 3*time.Second, c.Redis.Timeout)
	assert.Equal(t, 30*24*time.Hour, c.Redis.CartTTL)
	assert.Equal(t, "http://minio:9000", c.Minio.PublicURL)
	assert.Equal(t, "usd", c.Checkout.Currency)
	assert.Equal(t, []string{"US", "CA", "GB", "FR", "DE", "IT", "ES"}, c.Checkout.AllowedCountries)
}

func TestLoad_MemoryDriverSkipsPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("POSTGRES_USER", "")

	c, err := Load(logger.NewDiscardLogger())
	require.NoError(t, err)
	assert.Nil(t, c.Db)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "")

	_, err := Load(logger.NewDiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_DB_ID", "zero")

	_, err := Load(logger.NewDiscardLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrIncorrectEnvVariable))
}

func TestLoad_InvalidImportWorkers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IMPORT_WORKERS", "0")

	_, err := Load(logger.NewDiscardLogger())
	assert.True(t, errors.Is(err, e.ErrIncorrectEnvVariable))
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load(logger.NewDiscardLogger())
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Empty(t, splitList(""))
}
