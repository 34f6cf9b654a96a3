// Package feed define las suscripciones en vivo: cada cambio en una colección emite una señal
// sin contenido y el suscriptor vuelve a leer la colección completa.
package feed

import (
	"context"
	"sync"
)

// Tópicos publicados.
const (
	TopicProducts   = "products"
	TopicCategories = "categories"
	TopicHistory    = "history"
)

// ValidTopic indica si topic es uno de los tópicos publicados.
func ValidTopic(topic string) bool {
	switch topic {
	case TopicProducts, TopicCategories, TopicHistory:
		return true
	}
	return false
}

// Broker puerto de señales de cambio. Subscribe devuelve un canal que se cierra al cancelar
// (función devuelta o fin de ctx). Las señales se agrupan: un suscriptor lento recibe una sola
// señal pendiente por muchas publicaciones.
type Broker interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context, topic string) (<-chan struct{}, func(), error)
}

// MemoryBroker implementación en proceso (una sola instancia del API).
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[string]map[*subscription]struct{}
	closed bool
}

type subscription struct {
	ch   chan struct{}
	once sync.Once
}

func (s *subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

// NewMemoryBroker construye el broker en memoria.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*subscription]struct{})}
}

// Publish notifica a los suscriptores de topic sin bloquear.
func (b *MemoryBroker) Publish(_ context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs[topic] {
		Signal(s.ch)
	}
	return nil
}

// Subscribe registra un suscriptor hasta que se llame a cancel o termine ctx.
func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (<-chan struct{}, func(), error) {
	s := &subscription{ch: make(chan struct{}, 1)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.close()
		return s.ch, func() {}, nil
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*subscription]struct{})
	}
	b.subs[topic][s] = struct{}{}
	b.mu.Unlock()

	done := make(chan struct{})
	var cancelOnce sync.Once
	cancel := func() {
		cancelOnce.Do(func() {
			close(done)
			b.mu.Lock()
			delete(b.subs[topic], s)
			b.mu.Unlock()
			s.close()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return s.ch, cancel, nil
}

// Subscribers cantidad de suscriptores activos de topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

// Close cierra todas las suscripciones.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for topic, set := range b.subs {
		for s := range set {
			s.close()
		}
		delete(b.subs, topic)
	}
	return nil
}

// Signal envía una señal sin bloquear a un canal con buffer 1; si ya hay una pendiente se descarta.
func Signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
