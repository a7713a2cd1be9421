package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/Astemirdum/bandcoord/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumer_ConsumeClaim(t *testing.T) {
	var got []kafka.MutationEvent
	c := NewConsumer(func(_ context.Context, ev kafka.MutationEvent) error {
		if ev.Key == "fail" {
			return errors.New("boom")
		}
		got = append(got, ev)
		return nil
	}, zap.NewNop())

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte(`{"id":"a","resource":"instrument","action":"create","key":"TR-1"}`)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: []byte(`not json`)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 3, Value: []byte(`{"id":"b","key":"fail"}`)}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, c.Setup(session))
	require.NoError(t, c.Setup(session))
	require.NoError(t, c.ConsumeClaim(session, claim))

	require.Len(t, got, 1)
	require.Equal(t, "TR-1", got[0].Key)
	require.Equal(t, []int64{1, 2}, session.marked)
	<-c.Ready()
}
