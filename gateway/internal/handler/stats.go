package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/Astemirdum/bandcoord/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ service.Recorder = (*MutationLog)(nil)

// MutationLog publishes completed writes to Kafka. Without a producer the
// events only go to the log.
type MutationLog struct {
	producer sarama.AsyncProducer
	topic    string
	log      *zap.Logger
	now      func() time.Time
}

func NewMutationLog(log *zap.Logger, producer sarama.AsyncProducer, topic string) *MutationLog {
	l := &MutationLog{
		producer: producer,
		topic:    topic,
		log:      log.Named("audit"),
		now:      time.Now,
	}
	if producer != nil {
		go l.drainErrors()
	}
	return l
}

func (l *MutationLog) drainErrors() {
	for perr := range l.producer.Errors() {
		l.log.Warn("publish mutation", zap.String("topic", perr.Msg.Topic), zap.Error(perr.Err))
	}
}

func (l *MutationLog) Record(_ context.Context, m service.Mutation) {
	ev := kafka.MutationEvent{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC(),
		Resource:  m.Resource,
		Action:    m.Action,
		Key:       m.Key,
		Partial:   m.Partial,
		Detail:    m.Detail,
	}
	fields := []zap.Field{
		zap.String("id", ev.ID),
		zap.String("resource", ev.Resource),
		zap.String("action", ev.Action),
		zap.String("key", ev.Key),
		zap.Bool("partial", ev.Partial),
	}
	if l.producer == nil {
		l.log.Info("mutation", fields...)
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		l.log.Error("marshal mutation", append(fields, zap.Error(err))...)
		return
	}
	l.producer.Input() <- &sarama.ProducerMessage{
		Topic: l.topic,
		Key:   sarama.StringEncoder(ev.Resource),
		Value: sarama.ByteEncoder(data),
	}
	l.log.Debug("mutation queued", fields...)
}
