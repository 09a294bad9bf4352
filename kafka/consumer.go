package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// Consumer wraps Kafka consumer group
type Consumer struct {
	consumer      sarama.ConsumerGroup
	groupID       string
	topics        []string
	handlers      map[string]EventHandler
	handlersMutex sync.RWMutex
}

// EventHandler handles one decoded favorite event
type EventHandler func(ctx context.Context, event FavoriteToggledEvent) error

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return newConsumer(group, groupID, topics), nil
}

func newConsumer(group sarama.ConsumerGroup, groupID string, topics []string) *Consumer {
	return &Consumer{
		consumer: group,
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}
}

// RegisterHandler registers an event handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlersMutex.Lock()
	defer c.handlersMutex.Unlock()
	c.handlers[eventType] = handler
	logger.Logger.Info().
		Str("event_type", eventType).
		Msg("Event handler registered")
}

// Start consumes in the background until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, c.topics, handler); err != nil {
				logger.Logger.Error().Err(err).Msg("Error from consumer")
			}
			if ctx.Err() != nil {
				logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
				return
			}
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			logger.Logger.Error().Err(err).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")

	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c.consumer != nil {
		return c.consumer.Close()
	}
	return nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

type messageMeta struct {
	eventType string
	eventID   string
	carrier   propagation.MapCarrier
}

func readHeaders(message *sarama.ConsumerMessage) messageMeta {
	meta := messageMeta{carrier: propagation.MapCarrier{}}
	for _, header := range message.Headers {
		switch key := string(header.Key); key {
		case "traceparent", "tracestate", "baggage":
			meta.carrier[key] = string(header.Value)
		case "event_type":
			meta.eventType = string(header.Value)
		case "event_id":
			meta.eventID = string(header.Value)
		}
	}
	return meta
}

// handleMessage reports whether the message was dispatched to a handler successfully.
// Failed messages are logged and still committed; favorite activity is best effort.
func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) bool {
	meta := readHeaders(message)
	ctx = otel.GetTextMapPropagator().Extract(ctx, meta.carrier)

	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume "+message.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", meta.eventType),
			attribute.String("event.id", meta.eventID),
		),
	)
	defer span.End()

	event, err := h.dispatch(ctx, meta.eventType, message.Value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WithContext(ctx).Warn().
			Err(err).
			Str("event_type", meta.eventType).
			Str("event_id", meta.eventID).
			Msg("Favorite event not handled")
		return false
	}

	span.SetAttributes(
		attribute.String("product.id", event.ProductID),
		attribute.String("favorite.action", event.Action),
	)
	logger.WithContext(ctx).Debug().
		Str("event_id", event.EventID).
		Str("product_id", event.ProductID).
		Str("action", event.Action).
		Msg("Favorite event handled")
	return true
}

func (h *consumerGroupHandler) dispatch(ctx context.Context, eventType string, value []byte) (FavoriteToggledEvent, error) {
	var event FavoriteToggledEvent
	switch eventType {
	case "":
		return event, errors.New("message without event_type header")
	case EventTypeFavoriteToggled:
	default:
		return event, fmt.Errorf("unknown event type %q", eventType)
	}

	h.consumer.handlersMutex.RLock()
	handler, ok := h.consumer.handlers[eventType]
	h.consumer.handlersMutex.RUnlock()
	if !ok {
		return event, fmt.Errorf("no handler registered for %q", eventType)
	}

	if err := json.Unmarshal(value, &event); err != nil {
		return event, fmt.Errorf("failed to decode event: %w", err)
	}
	if err := handler(ctx, event); err != nil {
		return event, fmt.Errorf("handler failed for event %s: %w", event.EventID, err)
	}
	return event, nil
}
