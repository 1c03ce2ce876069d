package di

import (
	"context"
	"fmt"
	"time"

	"funder/application/ports"
	"funder/application/services"
	domainconfig "funder/domain/config"
	"funder/infrastructure/config"
	"funder/infrastructure/messaging/eventbridge"
	"funder/infrastructure/observability"
	"funder/infrastructure/persistence/dynamodb"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideDomainConfig selects the domain limits for the environment
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	domainCfg := domainconfig.LoadDomainConfig(cfg.Environment)
	if err := domainCfg.Validate(); err != nil {
		return nil, err
	}
	return domainCfg, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at a local
// endpoint when one is configured
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideTable guards the DynamoDB client with a circuit breaker
func ProvideTable(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) dynamodb.TableAPI {
	breakerCfg := dynamodb.DefaultBreakerConfig("dynamodb-" + cfg.DynamoDBTable)
	breakerCfg.MaxFailures = uint32(cfg.BreakerMaxFailures)
	if cfg.BreakerTimeoutSecs > 0 {
		breakerCfg.Timeout = time.Duration(cfg.BreakerTimeoutSecs) * time.Second
	}
	return dynamodb.NewBreakerClient(client, breakerCfg, logger)
}

// ProvideEntityRepository creates the entity repository
func ProvideEntityRepository(table dynamodb.TableAPI, cfg *config.Config, logger *zap.Logger) ports.EntityRepository {
	return dynamodb.NewEntityRepository(
		table,
		cfg.DynamoDBTable,
		cfg.ParentIndex, // GSI1 for entities by parent
		logger,
	)
}

// ProvideEventPublisher creates the EventBridge publisher, or a no-op one
// when publishing is switched off for the environment
func ProvideEventPublisher(
	client *awseventbridge.Client,
	cfg *config.Config,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) ports.EventPublisher {
	if !domainCfg.EnableEventPublishing {
		return eventbridge.NewNoopPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, cfg.EventSource, logger)
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("funder")
}

// ProvideEntityService creates the entity service
func ProvideEntityService(
	repo ports.EntityRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.EntityService {
	return services.NewEntityService(repo, publisher, metrics, domainCfg, logger)
}
