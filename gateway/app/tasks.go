package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/config"
	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/handler"
	"github.com/Astemirdum/bandcoord/gateway/internal/i18n"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/events"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/inventory"
	"github.com/Astemirdum/bandcoord/pkg/kafka"
	"github.com/Astemirdum/bandcoord/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type SweepResult struct {
	Finalized int
	Failed    int
}

// SweepEvents runs the expiry sweep once against the backend.
func SweepEvents(ctx context.Context, cfg config.Config, token string) (SweepResult, error) {
	deps := NewDeps(cfg, "sweep")
	defer deps.Close()
	ctx = backend.WithToken(ctx, token)

	all, err := deps.Client.ListEvents(ctx)
	if err != nil {
		return SweepResult{}, errors.Wrap(err, "list events")
	}
	svc := events.NewService(deps.Log, deps.Client, deps.Recorder, false)
	res := SweepResult{Finalized: svc.Sweep(ctx, all)}
	for _, ev := range all {
		if ev.SweepFailed {
			res.Failed++
		}
	}
	deps.Log.Info("sweep finished", zap.Int("finalized", res.Finalized), zap.Int("failed", res.Failed))
	return res, nil
}

// CheckInventory loads the inventory and returns the consistency warnings.
func CheckInventory(ctx context.Context, cfg config.Config, token string) ([]string, error) {
	deps := NewDeps(cfg, "inventory")
	defer deps.Close()

	snap, err := inventory.NewService(deps.Log, deps.Client, deps.Recorder).Load(backend.WithToken(ctx, token))
	if err != nil {
		return nil, err
	}
	return snap.Warnings, nil
}

func Translate(cfg config.Config, lang, key string) (string, error) {
	tr, err := i18n.New(cfg.I18n.DefaultLang)
	if err != nil {
		return "", err
	}
	return tr.T(lang, key), nil
}

// TailMutations prints every published mutation until ctx is done.
func TailMutations(ctx context.Context, cfg config.Config, w io.Writer) error {
	if !cfg.Kafka.Enabled() {
		return errors.New("KAFKA_ADDRS is not set")
	}
	log := logger.NewLogger(cfg.Log, "audit")
	group, err := kafka.NewConsumerGroup(cfg.Kafka, kafka.AuditConsumerGroup)
	if err != nil {
		return errors.Wrap(err, "kafka consumer group")
	}
	defer func() {
		if err := group.Close(); err != nil {
			log.Warn("consumer group close", zap.Error(err))
		}
	}()
	consumer := handler.NewConsumer(func(_ context.Context, ev kafka.MutationEvent) error {
		partial := ""
		if ev.Partial {
			partial = " (partial)"
		}
		_, err := fmt.Fprintf(w, "%s %s %s %s%s\n", ev.Timestamp.Format(time.RFC3339), ev.Resource, ev.Action, ev.Key, partial)
		return err
	}, log)
	return kafka.Consume(ctx, group, consumer, cfg.Kafka.Topic)
}
