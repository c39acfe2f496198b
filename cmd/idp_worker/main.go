package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"docpipe/internal/config"
	kafkadb "docpipe/internal/database/kafka"
	mongodb "docpipe/internal/database/mongo"
	"docpipe/internal/pipeline"
	"docpipe/internal/provider"
	"docpipe/internal/store"
	"docpipe/internal/worker"
	"docpipe/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 2. 初始化 Logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("idp_worker", "")
	appLogger.Info("Logger initialized for IDP worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化 MongoDB 客户端和记录存储
	mongoClient, err := mongodb.GetClient(&cfg.Databases.MongoDB)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create mongo client: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongodb.Close(shutdownCtx); err != nil {
			appLogger.Error(fmt.Sprintf("Failed to close mongo client cleanly: %v", err))
		}
	}()
	recordStore := store.NewMongoRecordStore(mongoClient.Database(cfg.Databases.MongoDB.Database), cfg.Databases.MongoDB.Collection)
	appLogger.Info("Record store initialized")

	// 4. 初始化 Kafka 客户端
	kafkaClient, err := kafkadb.GetClient(&cfg.Databases.Kafka)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create kafka client: %v", err))
	}
	defer func() {
		if err := kafkaClient.Close(); err != nil {
			appLogger.Error(fmt.Sprintf("Failed to close kafka client cleanly: %v", err))
		}
	}()
	appLogger.Info("Kafka client initialized")

	// 5. 初始化外部能力提供商
	analysisProvider, err := provider.NewAnalysisProvider(ctx, cfg.Provider.Analysis)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create analysis provider: %v", err))
	}
	insightProvider, err := provider.NewInsightProvider(ctx, cfg.Provider.Insight)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create insight provider: %v", err))
	}
	// 洞察调用受限流与熔断保护
	insightProvider, err = provider.WrapInsightProvider(insightProvider, cfg.Middleware)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to wrap insight provider: %v", err))
	}
	appLogger.Info("Capability providers initialized")

	// 6. 初始化流水线服务和协调器
	service := pipeline.NewService(analysisProvider, insightProvider, cfg, appLogger)
	publisher := worker.NewResultPublisher(kafkaClient.Writer, appLogger)
	coordinator := worker.NewCoordinator(service, recordStore, publisher, appLogger)
	appLogger.Info("Pipeline service initialized")

	// 7. 启动消费循环，直到收到退出信号
	consumer := worker.NewRequestConsumer(kafkaClient.Reader, appLogger)
	appLogger.Info("Starting analysis request consumer")
	consumer.Start(ctx, coordinator.ProcessRequest)

	appLogger.Info("IDP worker shut down")
}
