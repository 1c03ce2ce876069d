package dynamodb

import (
	"context"
	"errors"
	"time"

	pkgerrors "funder/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// TableAPI is the part of the DynamoDB client the repository uses.
// *dynamodb.Client satisfies it.
type TableAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// BreakerConfig holds configuration for the table circuit breaker
type BreakerConfig struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
	Interval    time.Duration
}

// DefaultBreakerConfig returns a default configuration for the breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxFailures: 5,
		Timeout:     30 * time.Second,
		Interval:    60 * time.Second,
	}
}

// BreakerClient guards a TableAPI with a circuit breaker. Conditional
// check failures are answers, not outages, and do not count as failures.
type BreakerClient struct {
	next    TableAPI
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewBreakerClient wraps next
func NewBreakerClient(next TableAPI, cfg BreakerConfig, logger *zap.Logger) *BreakerClient {
	c := &BreakerClient{next: next, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     cfg.Name,
		Timeout:  cfg.Timeout,
		Interval: cfg.Interval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			var conditional *types.ConditionalCheckFailedException
			return err == nil || errors.As(err, &conditional) || errors.Is(err, context.Canceled)
		},
	})
	return c
}

// State returns the breaker state
func (c *BreakerClient) State() gobreaker.State {
	return c.breaker.State()
}

func (c *BreakerClient) execute(op string, call func() (any, error)) (any, error) {
	out, err := c.breaker.Execute(call)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn("DynamoDB call rejected by circuit breaker", zap.String("operation", op))
		return nil, pkgerrors.NewDatabaseError(op, err).WithCode("CIRCUIT_OPEN")
	}
	return out, err
}

// PutItem implements TableAPI
func (c *BreakerClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	out, err := c.execute("PutItem", func() (any, error) {
		return c.next.PutItem(ctx, params, optFns...)
	})
	if err != nil {
		return nil, err
	}
	return out.(*dynamodb.PutItemOutput), nil
}

// GetItem implements TableAPI
func (c *BreakerClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	out, err := c.execute("GetItem", func() (any, error) {
		return c.next.GetItem(ctx, params, optFns...)
	})
	if err != nil {
		return nil, err
	}
	return out.(*dynamodb.GetItemOutput), nil
}

// Query implements TableAPI
func (c *BreakerClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	out, err := c.execute("Query", func() (any, error) {
		return c.next.Query(ctx, params, optFns...)
	})
	if err != nil {
		return nil, err
	}
	return out.(*dynamodb.QueryOutput), nil
}
