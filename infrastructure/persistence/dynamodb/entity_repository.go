package dynamodb

import (
	"context"
	"errors"

	"funder/application/ports"
	"funder/domain/core/codec"
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"
	"funder/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// EntityRepository implements ports.EntityRepository using DynamoDB
type EntityRepository struct {
	client    TableAPI
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewEntityRepository creates a new EntityRepository
func NewEntityRepository(client TableAPI, tableName, indexName string, logger *zap.Logger) *EntityRepository {
	return &EntityRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

var _ ports.EntityRepository = (*EntityRepository)(nil)

// Save persists an entity, replacing any earlier version
func (r *EntityRepository) Save(ctx context.Context, entity shared.Identified) error {
	item, err := marshalEntity(entity, utils.Now())
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal entity").WithCause(err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save entity to DynamoDB",
			zap.Error(err),
			zap.String("type", entity.TypeTag()),
			zap.String("id", entity.ID()),
		)
		return asDatabaseError("PutItem", err)
	}

	r.logger.Debug("Saved entity to DynamoDB",
		zap.String("type", entity.TypeTag()),
		zap.String("id", entity.ID()),
	)
	return nil
}

// Get retrieves an entity by discriminator and id
func (r *EntityRepository) Get(ctx context.Context, tag, id string) (shared.Identified, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: BuildEntityPK(tag, id)},
			"SK": &types.AttributeValueMemberS{Value: documentSK},
		},
	}

	out, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, asDatabaseError("GetItem", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError(tag + " '" + id + "'")
	}

	return r.hydrate(ItemRecord(out.Item))
}

// ListByParent lists entities attached to parent through the parent index
func (r *EntityRepository) ListByParent(ctx context.Context, parent string, limit int) ([]shared.Identified, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(BuildParentPK(parent)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query").WithCause(err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	var found []shared.Identified
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, asDatabaseError("Query", err)
		}
		for _, item := range out.Items {
			entity, err := r.hydrate(ItemRecord(item))
			if err != nil {
				r.logger.Warn("Skipping unreadable item",
					zap.Error(err),
					zap.String("parent", parent),
				)
				continue
			}
			found = append(found, entity)
			if limit > 0 && len(found) >= limit {
				return found, nil
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	r.logger.Debug("Listed entities by parent",
		zap.String("parent", parent),
		zap.Int("count", len(found)),
	)
	return found, nil
}

// hydrate rebuilds an entity from its item. Scalar entities are read from
// their columns; aggregates are decoded from the stored document.
func (r *EntityRepository) hydrate(rec ItemRecord) (shared.Identified, error) {
	switch tag := rec.ReadString("EntityType"); tag {
	case valueobjects.ScopedDataType:
		return valueobjects.ScopedDataFromRecord(rec), nil
	case valueobjects.AgentScopedDataType:
		return valueobjects.AgentScopedDataFromRecord(rec), nil
	case valueobjects.JournalEntryType:
		return valueobjects.JournalEntryFromRecord(rec), nil
	case valueobjects.GoalType:
		g, err := valueobjects.GoalFromRecord(rec)
		if err != nil {
			return nil, err
		}
		return g, nil
	case valueobjects.LocatorType:
		l, err := valueobjects.LocatorFromRecord(rec)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return codec.DecodeIdentified([]byte(rec.ReadString("Document")))
	}
}

func asDatabaseError(op string, err error) error {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return appErr
	}
	dbErr := pkgerrors.NewDatabaseError(op, err)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		dbErr.WithCode(apiErr.ErrorCode())
	}
	return dbErr
}
