// Package redis implementa feed.Broker sobre Redis Pub/Sub para varias instancias del API.
package redis

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

var _ feed.Broker = (*Broker)(nil)

// NewClient crea y valida un cliente go-redis desde una URL redis://.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// Broker publica señales de cambio en canales {prefix}:{topic}. El mensaje no lleva datos.
type Broker struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
}

// NewBroker construye el broker.
func NewBroker(rdb *goredis.Client, prefix string, log *logger.Logger) *Broker {
	return &Broker{rdb: rdb, prefix: prefix, log: log.Component("redis-broker")}
}

// Channel nombre del canal Redis para topic.
func (b *Broker) Channel(topic string) string {
	if b.prefix == "" {
		return topic
	}
	return b.prefix + ":" + topic
}

// Publish envía la señal de cambio.
func (b *Broker) Publish(ctx context.Context, topic string) error {
	if err := b.rdb.Publish(ctx, b.Channel(topic), "changed").Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe se suscribe al canal y reenvía cada mensaje como señal agrupada.
func (b *Broker) Subscribe(ctx context.Context, topic string) (<-chan struct{}, func(), error) {
	ps := b.rdb.Subscribe(ctx, b.Channel(topic))
	// Receive confirma la suscripción antes de devolver el canal.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis: subscribe %s: %w", topic, err)
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := ps.Close(); err != nil {
				b.log.Debug().Err(err).Str("topic", topic).Msg("cerrar suscripción")
			}
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				feed.Signal(out)
			}
		}
	}()
	return out, cancel, nil
}
