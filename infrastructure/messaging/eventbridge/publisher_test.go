package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func newPublisher(client EventsAPI) *Publisher {
	p := NewPublisher(client, "funder-events", "funder.entities", zap.NewNop())
	p.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestPublishStoredEntry(t *testing.T) {
	client := new(mockEvents)
	var input *eventbridge.PutEventsInput
	client.On("PutEvents", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		input = args.Get(1).(*eventbridge.PutEventsInput)
	}).Return(&eventbridge.PutEventsOutput{}, nil)

	sd := valueobjects.ReconstructScopedData("sd-1", "p", "s", "n", "v")
	require.NoError(t, newPublisher(client).PublishStored(context.Background(), sd))

	require.Len(t, input.Entries, 1)
	entry := input.Entries[0]
	assert.Equal(t, "funder-events", aws.ToString(entry.EventBusName))
	assert.Equal(t, "funder.entities", aws.ToString(entry.Source))
	assert.Equal(t, EventEntityStored, aws.ToString(entry.DetailType))
	assert.Equal(t, []string{"funder:scopedData:sd-1"}, entry.Resources)

	var detail EntityStored
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "scopedData", detail.Type)
	assert.Equal(t, "sd-1", detail.ID)
	assert.JSONEq(t, sd.JSON(), string(detail.Document))
	assert.Equal(t, "2024-05-01T00:00:00Z", detail.StoredAt)
}

func TestPublishStoredBatches(t *testing.T) {
	client := new(mockEvents)
	client.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) <= 10
	})).Return(&eventbridge.PutEventsOutput{}, nil)

	stored := make([]shared.Identified, 0, 23)
	for i := 0; i < 23; i++ {
		stored = append(stored, valueobjects.ReconstructScopedData(fmt.Sprintf("sd-%d", i), "p", "s", "n", "v"))
	}
	require.NoError(t, newPublisher(client).PublishStored(context.Background(), stored...))
	client.AssertNumberOfCalls(t, "PutEvents", 3)

	require.NoError(t, newPublisher(client).PublishStored(context.Background()))
	client.AssertNumberOfCalls(t, "PutEvents", 3)
}

func TestPublishStoredFailures(t *testing.T) {
	client := new(mockEvents)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("ThrottlingException")}},
	}, nil).Once()

	p := newPublisher(client)
	sd := valueobjects.NewScopedData("p", "s", "n", "v")

	err := p.PublishStored(context.Background(), sd)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))

	err = p.PublishStored(context.Background(), sd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 events failed")
}

// unrenderable stands in for an entity whose document cannot be embedded
type unrenderable struct {
	*valueobjects.ScopedData
}

func (unrenderable) JSON() string { return "{" }

func TestPublishFailureNamesSentEntity(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	client := new(mockEvents)
	var input *eventbridge.PutEventsInput
	client.On("PutEvents", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		input = args.Get(1).(*eventbridge.PutEventsInput)
	}).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("ThrottlingException")}},
	}, nil)

	p := NewPublisher(client, "funder-events", "funder.entities", zap.New(core))
	skipped := unrenderable{valueobjects.ReconstructScopedData("sd-skipped", "p", "s", "n", "v")}
	sent := valueobjects.ReconstructScopedData("sd-sent", "p", "s", "n", "v")

	err := p.PublishStored(context.Background(), skipped, sent)

	require.Error(t, err)
	require.Len(t, input.Entries, 1)
	failures := logs.FilterMessage("Failed to publish event").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "sd-sent", failures[0].ContextMap()["id"])
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(zap.NewNop())
	assert.NoError(t, p.PublishStored(context.Background(), valueobjects.NewScopedData("p", "s", "n", "v")))
}
