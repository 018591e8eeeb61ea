package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-hub-api/infrastructure/integrator/webhook"
	"github.com/vfg2006/campaign-hub-api/infrastructure/messaging/rabbitmq"
	"github.com/vfg2006/campaign-hub-api/infrastructure/repository"
	"github.com/vfg2006/campaign-hub-api/infrastructure/storage/s3report"
	"github.com/vfg2006/campaign-hub-api/internal/api"
	"github.com/vfg2006/campaign-hub-api/internal/config"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/internal/scheduler"
	"github.com/vfg2006/campaign-hub-api/internal/store"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/insighting"
	"github.com/vfg2006/campaign-hub-api/pkg/clock"
	"github.com/vfg2006/campaign-hub-api/pkg/log"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := log.Setup(cfg.App.LogLevel); err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
	}
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storeOptions := []store.Option{
		store.WithClock(clock.System{}),
		store.WithCascadePolicy(domain.CascadePolicy(cfg.Store.CascadePolicy)),
	}

	aggregator := insighting.NewAggregator(clock.System{})
	storeOptions = append(storeOptions, store.WithListener(aggregator))

	if cfg.Journal.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		eventRepo := repository.NewChangeEventRepository(pgConn)

		// o store recomeça a numeração depois do último evento gravado
		last, err := eventRepo.LastSequence(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao consultar o journal de eventos")
		}

		journal := repository.NewJournal(eventRepo, cfg.Journal.BufferSize)
		go journal.Run(ctx)

		storeOptions = append(storeOptions, store.WithSequenceStart(last), store.WithDurabilityHook(journal))
		logrus.WithField("last_sequence", last).Info("Journal de eventos habilitado")
	}

	entityStore := store.New(storeOptions...)

	var gateway scheduler.ChannelGateway
	if cfg.Gateway.MockMode {
		logrus.Warn("Gateway em modo mock, nenhuma publicação será enviada")
		gateway = webhook.NewMockGateway()
	} else {
		gateway = webhook.NewClient(cfg.Gateway)
	}

	engine := scheduler.NewEngine(entityStore, gateway, clock.System{}, scheduler.EngineConfig{
		MaxConcurrentDispatches: cfg.DispatchSweep.MaxConcurrent,
		DispatchTimeout:         cfg.DispatchSweep.Timeout,
		MaxAttempts:             cfg.DispatchSweep.MaxAttempts,
	})

	if cfg.AMQP.URL != "" {
		notifier, err := rabbitmq.Dial(cfg.AMQP)
		if err != nil {
			logrus.WithError(err).Error("Erro ao conectar ao RabbitMQ, notificações de despacho desabilitadas")
		} else {
			defer notifier.Close()
			engine.WithNotifier(notifier)
			logrus.WithField("exchange", cfg.AMQP.Exchange).Info("Notificações de despacho habilitadas")
		}
	}

	insightService := insighting.NewService(entityStore, aggregator)
	if cfg.Report.Bucket != "" {
		uploader, err := s3report.New(ctx, cfg.Report)
		if err != nil {
			logrus.WithError(err).Error("Erro ao configurar o envio de relatórios para o S3")
		} else {
			insightService.WithReportUploader(uploader)
		}
	}

	campaignService := campaigning.NewService(entityStore, insightService)

	dispatchSweepService := scheduler.NewDispatchSweepService(engine, cfg)
	if err := dispatchSweepService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de despacho")
	} else {
		logrus.Info("Agendador de despacho iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		campaignService,
		insightService,
		engine,
		dispatchSweepService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato dos logs até a configuração ser lida
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria a conexão com o banco e garante a tabela do journal
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar o schema do journal")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
