package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/config"
	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/handler"
	"github.com/Astemirdum/bandcoord/gateway/internal/i18n"
	"github.com/Astemirdum/bandcoord/gateway/internal/server"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/Astemirdum/bandcoord/pkg/kafka"
	"github.com/Astemirdum/bandcoord/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deps is what every entry point shares: one backend client and the audit
// recorder in front of it.
type Deps struct {
	Log      *zap.Logger
	Client   *backend.Client
	Recorder service.Recorder
	producer sarama.AsyncProducer
}

func NewDeps(cfg config.Config, name string) Deps {
	log := logger.NewLogger(cfg.Log, name)
	client := backend.NewClient(log, cfg.Backend, backend.WithMetrics(backend.NewMetrics(prometheus.DefaultRegisterer)))

	var producer sarama.AsyncProducer
	if cfg.Kafka.Enabled() {
		p, err := kafka.NewAsyncProducer(cfg.Kafka)
		if err != nil {
			log.Error("kafka producer, mutations go to the log only", zap.Error(err))
		} else {
			producer = p
		}
	}
	return Deps{
		Log:      log,
		Client:   client,
		Recorder: handler.NewMutationLog(log, producer, cfg.Kafka.Topic),
		producer: producer,
	}
}

func (d Deps) Close() {
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			d.Log.Warn("kafka producer close", zap.Error(err))
		}
	}
	_ = d.Log.Sync() //nolint:errcheck
}

func Run(cfg config.Config) {
	deps := NewDeps(cfg, "gateway")
	defer deps.Close()
	log := deps.Log

	tr, err := i18n.New(cfg.I18n.DefaultLang)
	if err != nil {
		log.Fatal("i18n", zap.Error(err))
	}
	h := handler.New(log, tr, handler.NewServices(log, cfg, deps.Client, deps.Recorder))

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("backend", cfg.Backend.BaseURL))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
