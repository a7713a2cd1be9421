package handler

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/bandcoord/pkg/kafka"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type mutationHandler func(ctx context.Context, event kafka.MutationEvent) error

// Consumer reads published mutations back, one group member per process.
type Consumer struct {
	handle mutationHandler
	log    *zap.Logger
	ready  chan bool
}

func NewConsumer(handle mutationHandler, log *zap.Logger) *Consumer {
	return &Consumer{
		handle: handle,
		log:    log.Named("consumer"),
		ready:  make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			var event kafka.MutationEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("decode mutation", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}
			if err := consumer.handle(session.Context(), event); err != nil {
				consumer.log.Error("handle mutation", zap.String("id", event.ID), zap.Error(err))
				continue
			}
			consumer.log.Debug("mutation claimed",
				zap.String("id", event.ID),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
