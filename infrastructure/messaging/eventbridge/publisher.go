package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"funder/application/ports"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"
	"funder/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// EventEntityStored is the detail type of stored-entity events
const EventEntityStored = "EntityStored"

// EventsAPI is the part of the EventBridge client the publisher uses
type EventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EntityStored is the detail of an EntityStored event
type EntityStored struct {
	Type     string          `json:"type"`
	ID       string          `json:"id"`
	Document json.RawMessage `json:"document"`
	StoredAt string          `json:"storedAt"`
}

// Publisher implements ports.EventPublisher using AWS EventBridge
type Publisher struct {
	client       EventsAPI
	eventBusName string
	source       string
	logger       *zap.Logger
	now          func() time.Time
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client EventsAPI, eventBusName, source string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		source:       source,
		logger:       logger,
		now:          utils.Now,
	}
}

var _ ports.EventPublisher = (*Publisher)(nil)

// PublishStored sends one EntityStored event per entity
func (p *Publisher) PublishStored(ctx context.Context, stored ...shared.Identified) error {
	if len(stored) == 0 {
		return nil
	}

	// EventBridge limits to 10 events per PutEvents call
	const batchSize = 10

	for i := 0; i < len(stored); i += batchSize {
		end := i + batchSize
		if end > len(stored) {
			end = len(stored)
		}
		if err := p.publishBatch(ctx, stored[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// publishBatch publishes a batch of events (max 10)
func (p *Publisher) publishBatch(ctx context.Context, batch []shared.Identified) error {
	now := p.now()
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	// sent[i] is the entity behind entries[i]
	sent := make([]shared.Identified, 0, len(batch))

	for _, entity := range batch {
		detail, err := json.Marshal(EntityStored{
			Type:     entity.TypeTag(),
			ID:       entity.ID(),
			Document: json.RawMessage(entity.JSON()),
			StoredAt: utils.FormatTime(now),
		})
		if err != nil {
			p.logger.Error("Failed to marshal event",
				zap.Error(err),
				zap.String("type", entity.TypeTag()),
			)
			continue
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(EventEntityStored),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(now),
			Resources:    []string{fmt.Sprintf("funder:%s:%s", entity.TypeTag(), entity.ID())},
		})
		sent = append(sent, entity)
	}

	if len(entries) == 0 {
		return nil
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return pkgerrors.NewExternalError("eventbridge", err)
	}

	// Check for failures
	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil && i < len(sent) {
				p.logger.Error("Failed to publish event",
					zap.String("type", sent[i].TypeTag()),
					zap.String("id", sent[i].ID()),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return pkgerrors.NewExternalError("eventbridge",
			fmt.Errorf("%d events failed to publish", result.FailedEntryCount))
	}

	p.logger.Debug("Events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}

// NoopPublisher drops every event. It stands in when publishing is
// disabled.
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher creates a publisher that only logs
func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

// PublishStored implements ports.EventPublisher
func (p *NoopPublisher) PublishStored(ctx context.Context, stored ...shared.Identified) error {
	p.logger.Debug("Event publishing disabled, dropping events", zap.Int("count", len(stored)))
	return nil
}
