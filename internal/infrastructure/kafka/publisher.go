// Package kafka publica los movimientos de stock confirmados en un tópico Kafka (IBM/sarama).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/jhoicas/stock-dashboard/internal/application/inventory"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

var _ inventory.MovementPublisher = (*Publisher)(nil)

// EventTypeStockMovement tipo de evento en el header event_type.
const EventTypeStockMovement = "stock.movement.recorded"

// StockMovementEvent cuerpo JSON publicado por cada movimiento.
type StockMovementEvent struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Action      string    `json:"action"`
	Amount      int       `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher envuelve un SyncProducer de sarama.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// producerConfig sin reintentos: un envío fallido se registra y se descarta.
// El movimiento ya quedó confirmado en el historial.
func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Net.MaxOpenRequests = 1
	return config
}

// NewPublisher crea el productor contra los brokers dados.
func NewPublisher(brokers []string, topic string, log *logger.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka: crear productor: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("publicador Kafka inicializado")
	return NewPublisherWithProducer(producer, topic, log), nil
}

// NewPublisherWithProducer usa un productor existente (tests con sarama/mocks).
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, log: log.Component("kafka")}
}

// PublishMovement publica el movimiento con clave = productID (orden por producto dentro de la partición).
func (p *Publisher) PublishMovement(_ context.Context, m *entity.StockMovement) error {
	body, err := json.Marshal(StockMovementEvent{
		EventID:     m.ID,
		EventType:   EventTypeStockMovement,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Action:      m.Action,
		Amount:      m.Amount,
		Timestamp:   m.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(m.ProductID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeStockMovement)},
		},
		Timestamp: m.Timestamp,
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: enviar evento: %w", err)
	}
	p.log.Debug().Str("movement_id", m.ID).Int32("partition", partition).Int64("offset", offset).Msg("movimiento publicado")
	return nil
}

// Close cierra el productor.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
