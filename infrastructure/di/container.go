package di

import (
	"context"
	"fmt"

	"funder/application/ports"
	"funder/application/services"
	domainconfig "funder/domain/config"
	"funder/infrastructure/config"
	"funder/infrastructure/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger
	Repository   ports.EntityRepository
	Publisher    ports.EventPublisher
	Metrics      *observability.Collector
	Service      *services.EntityService
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	domainCfg, err := ProvideDomainConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid domain configuration: %w", err)
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	table := ProvideTable(ProvideDynamoDBClient(awsCfg, cfg), cfg, logger)
	repo := ProvideEntityRepository(table, cfg, logger)
	publisher := ProvideEventPublisher(ProvideEventBridgeClient(awsCfg), cfg, domainCfg, logger)
	metrics := ProvideMetrics()

	logger.Info("Container initialized",
		zap.String("environment", cfg.Environment),
		zap.String("table", cfg.DynamoDBTable),
		zap.Bool("events", domainCfg.EnableEventPublishing),
	)

	return &Container{
		Config:       cfg,
		DomainConfig: domainCfg,
		Logger:       logger,
		Repository:   repo,
		Publisher:    publisher,
		Metrics:      metrics,
		Service:      ProvideEntityService(repo, publisher, metrics, domainCfg, logger),
	}, nil
}
