package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

func TestBroker_Channel(t *testing.T) {
	b := NewBroker(nil, "stock", logger.Nop())
	assert.Equal(t, "stock:products", b.Channel(feed.TopicProducts))
	assert.Equal(t, "history", NewBroker(nil, "", logger.Nop()).Channel(feed.TopicHistory))
}

func TestNewClient_URLInvalida(t *testing.T) {
	_, err := NewClient(context.Background(), "http://no-es-redis")
	assert.Error(t, err)
}

// Requiere TEST_REDIS_URL (ej. redis://localhost:6379/0).
func TestBroker_PublishSubscribe(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL no definido")
	}
	ctx := context.Background()
	rdb, err := NewClient(ctx, url)
	require.NoError(t, err)
	defer rdb.Close()

	b := NewBroker(rdb, "test-"+time.Now().Format("150405.000"), logger.Nop())
	ch, cancel, err := b.Subscribe(ctx, feed.TopicProducts)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, feed.TopicProducts))
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("sin señal de Redis")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
