package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/alert"
	"github.com/RodriigoSC/campaign-watch-worker/internal/config"
	"github.com/RodriigoSC/campaign-watch-worker/internal/diagnosis"
	"github.com/RodriigoSC/campaign-watch-worker/internal/logger"
	"github.com/RodriigoSC/campaign-watch-worker/internal/readmodel"
	"github.com/RodriigoSC/campaign-watch-worker/internal/readmodel/clickhouse"
	repomongo "github.com/RodriigoSC/campaign-watch-worker/internal/repository/mongo"
	"github.com/RodriigoSC/campaign-watch-worker/internal/schedule"
	"github.com/RodriigoSC/campaign-watch-worker/internal/watch"

	sqsqueue "github.com/RodriigoSC/campaign-watch-worker/internal/queue/sqs"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting campaign watch worker",
		zap.String("environment", cfg.Service.Environment))

	ctx := context.Background()

	// Initialize the monitoring database
	mongoClient, err := repomongo.NewClient(ctx, &cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to create MongoDB client", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Close(ctx); err != nil {
			log.Error("Failed to close MongoDB client", zap.Error(err))
		}
	}()

	campaignStore := repomongo.NewCampaignStore(mongoClient, log)
	executionStore := repomongo.NewExecutionStore(mongoClient, log)
	alertRuleStore := repomongo.NewAlertRuleStore(mongoClient, log)
	alertHistoryStore := repomongo.NewAlertHistoryStore(mongoClient, log)
	tenantStore := repomongo.NewTenantStore(mongoClient, log)

	if err := campaignStore.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create campaign indexes", zap.Error(err))
	}
	if err := executionStore.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create execution indexes", zap.Error(err))
	}
	log.Info("Monitoring database initialized")

	// Initialize the tenants' source cluster
	sourceClient, err := repomongo.ConnectSource(ctx, cfg.Mongo.SourceURI, log)
	if err != nil {
		log.Fatal("Failed to connect to source cluster", zap.Error(err))
	}
	defer func() {
		if err := sourceClient.Disconnect(ctx); err != nil {
			log.Error("Failed to close source cluster client", zap.Error(err))
		}
	}()
	readers := readmodel.NewSourceReaders(sourceClient, log)

	// Initialize the channel analytics store
	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	channelReader := clickhouse.NewReader(chClient, log)
	if err := channelReader.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize channel schema", zap.Error(err))
	}

	// Initialize SQS client
	sqsClient, err := sqsqueue.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Assemble the monitoring cycle
	mapper := readmodel.NewMapper(channelReader, log)

	thresholds := diagnosis.Thresholds{
		FilterWarning:            time.Duration(cfg.Monitor.FilterWarningMin) * time.Minute,
		FilterCritical:           time.Duration(cfg.Monitor.FilterCriticalMin) * time.Minute,
		ChannelErrorRateWarning:  cfg.Monitor.ChannelErrorRateWarning,
		ChannelErrorRateCritical: cfg.Monitor.ChannelErrorRateCritical,
		FileProcessingTimeout:    time.Duration(cfg.Monitor.FileProcessingTimeoutMin) * time.Minute,
		WaitGraceWarning:         time.Duration(cfg.Monitor.WaitGraceWarningMin) * time.Minute,
		WaitGraceCritical:        time.Duration(cfg.Monitor.WaitGraceCriticalMin) * time.Minute,
	}
	intervals := schedule.Intervals{
		Error:        time.Duration(cfg.Monitor.ErrorRetryMin) * time.Minute,
		InProgress:   time.Duration(cfg.Monitor.InProgressMin) * time.Minute,
		PreStart:     time.Duration(cfg.Monitor.PreStartMin) * time.Minute,
		SteadyState:  time.Duration(cfg.Monitor.SteadyStateMin) * time.Minute,
		DefaultRetry: time.Duration(cfg.Monitor.DefaultRetryMin) * time.Minute,
	}

	executionAnalyzer := diagnosis.NewExecutionAnalyzer(diagnosis.NewDispatcher(thresholds), log)
	campaignAnalyzer := diagnosis.NewCampaignAnalyzer(log)

	alerts := alert.NewOrchestrator(
		alertRuleStore,
		alertHistoryStore,
		alert.NewLogEmailNotifier(log),
		alert.NewWebhookNotifier(time.Duration(cfg.Alerts.WebhookTimeoutSec)*time.Second, log),
		log)

	processor := watch.NewProcessor(
		campaignStore,
		executionStore,
		tenantStore,
		readers,
		mapper,
		executionAnalyzer,
		campaignAnalyzer,
		alerts,
		intervals,
		log)

	pipeline := watch.NewPipeline(cfg, sqsClient, processor, log)

	poller := watch.NewPoller(tenantStore, campaignStore, readers, sqsClient, watch.PollerConfig{
		PollInterval:      time.Duration(cfg.Monitor.PollIntervalSec) * time.Second,
		DiscoveryInterval: time.Duration(cfg.Monitor.DiscoveryIntervalSec) * time.Second,
		MaxConcurrent:     cfg.Monitor.MaxConcurrentTenants,
	}, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := mongoClient.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			if err := channelReader.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Service.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start pipeline and poller
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Worker starting")

	go func() {
		if err := pipeline.Start(workerCtx); err != nil {
			log.Fatal("Pipeline error", zap.Error(err))
		}
	}()

	go func() {
		if err := poller.Run(workerCtx); err != nil {
			log.Fatal("Poller error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker gracefully")
	cancel()
}
