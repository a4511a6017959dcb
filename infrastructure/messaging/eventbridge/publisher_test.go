package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/domain/events"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func savedEvents(n int) []events.DomainEvent {
	out := make([]events.DomainEvent, n)
	for i := range out {
		out[i] = events.NewIdeaMapSaved("rec", i, 0, time.Unix(0, 0))
	}
	return out
}

func TestPublishBatchSplitsIntoTens(t *testing.T) {
	ctx := context.Background()
	api := &MockAPI{}
	var sizes []int
	api.On("PutEvents", ctx, mock.Anything).Run(func(args mock.Arguments) {
		sizes = append(sizes, len(args.Get(1).(*eventbridge.PutEventsInput).Entries))
	}).Return(&eventbridge.PutEventsOutput{}, nil)

	pub := NewPublisher(api, "devdash-bus", "", zap.NewNop())
	require.NoError(t, pub.PublishBatch(ctx, savedEvents(23)))
	assert.Equal(t, []int{10, 10, 3}, sizes)
}

func TestPublishEntryShape(t *testing.T) {
	ctx := context.Background()
	api := &MockAPI{}
	api.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		e := in.Entries[0]
		var detail map[string]any
		if err := json.Unmarshal([]byte(aws.ToString(e.Detail)), &detail); err != nil {
			return false
		}
		return aws.ToString(e.EventBusName) == "devdash-bus" &&
			aws.ToString(e.Source) == DefaultSource &&
			aws.ToString(e.DetailType) == events.TypeSnippetCreated &&
			detail["title"] == "hello"
	})).Return(&eventbridge.PutEventsOutput{}, nil)

	pub := NewPublisher(api, "devdash-bus", "", zap.NewNop())
	require.NoError(t, pub.Publish(ctx, events.NewSnippetCreated("s1", "hello", "go", time.Now())))
	api.AssertExpectations(t)
}

func TestPublishReportsFailedEntries(t *testing.T) {
	ctx := context.Background()
	api := &MockAPI{}
	api.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
	}, nil)

	err := NewPublisher(api, "bus", "", zap.NewNop()).Publish(ctx, savedEvents(1)[0])
	assert.EqualError(t, err, "1 events failed to publish")
}

func TestPublishTransportError(t *testing.T) {
	ctx := context.Background()
	api := &MockAPI{}
	api.On("PutEvents", ctx, mock.Anything).Return(nil, errors.New("timeout"))

	err := NewPublisher(api, "bus", "", zap.NewNop()).Publish(ctx, savedEvents(1)[0])
	assert.ErrorContains(t, err, "timeout")
}

func TestPublishEmptyBatch(t *testing.T) {
	api := &MockAPI{}
	require.NoError(t, NewPublisher(api, "bus", "", zap.NewNop()).PublishBatch(context.Background(), nil))
	api.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}
