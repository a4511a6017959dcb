package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	apperrors "devdash-backend/pkg/errors"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func (m *MockAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *MockAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func TestReadOne(t *testing.T) {
	ctx := context.Background()

	t.Run("no items", func(t *testing.T) {
		api := &MockAPI{}
		api.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.TableName) == "maps" && aws.ToInt32(in.Limit) == 1
		})).Return(&dynamodb.QueryOutput{}, nil)

		_, err := NewIdeaMapStore(api, "maps", zap.NewNop()).ReadOne(ctx)
		assert.ErrorIs(t, err, ports.ErrRecordNotFound)
		api.AssertExpectations(t)
	})

	t.Run("decodes the item", func(t *testing.T) {
		item, err := attributevalue.MarshalMap(ideaMapItem{
			PK: partitionKey, SK: sortKey("r1"), ID: "r1", EntityType: entityType,
			Nodes:     []ideamap.NodeRecord{{ID: "1", Type: ideamap.NodeType, Position: ideamap.Position{X: 1, Y: 2}, Data: ideamap.NodeData{Label: "A", Color: "red"}}},
			Edges:     []ideamap.EdgeRecord{{ID: "e", Source: "1", Target: "1"}},
			UpdatedAt: "2024-05-01T00:00:00Z",
		})
		require.NoError(t, err)
		api := &MockAPI{}
		api.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil)

		doc, err := NewIdeaMapStore(api, "maps", zap.NewNop()).ReadOne(ctx)
		require.NoError(t, err)
		assert.Equal(t, "r1", doc.ID)
		assert.Equal(t, "A", doc.Nodes[0].Data.Label)
		assert.Equal(t, 2.0, doc.Nodes[0].Position.Y)
		assert.Len(t, doc.Edges, 1)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), doc.UpdatedAt)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	fields := ideamap.DocumentFields{UpdatedAt: time.Now()}

	t.Run("conditional update on the record key", func(t *testing.T) {
		api := &MockAPI{}
		api.On("UpdateItem", ctx, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			sk, ok := in.Key["SK"].(*types.AttributeValueMemberS)
			return ok && sk.Value == "RECORD#r1" && in.ConditionExpression != nil && in.UpdateExpression != nil
		})).Return(&dynamodb.UpdateItemOutput{}, nil)

		require.NoError(t, NewIdeaMapStore(api, "maps", zap.NewNop()).Update(ctx, "r1", fields))
		api.AssertExpectations(t)
	})

	t.Run("missing record", func(t *testing.T) {
		api := &MockAPI{}
		api.On("UpdateItem", ctx, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("no")})

		err := NewIdeaMapStore(api, "maps", zap.NewNop()).Update(ctx, "r1", fields)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("service error", func(t *testing.T) {
		api := &MockAPI{}
		api.On("UpdateItem", ctx, mock.Anything).Return(nil, &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")})

		err := NewIdeaMapStore(api, "maps", zap.NewNop()).Update(ctx, "r1", fields)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	})

	t.Run("transport error", func(t *testing.T) {
		api := &MockAPI{}
		api.On("UpdateItem", ctx, mock.Anything).Return(nil, errors.New("dial tcp: refused"))

		err := NewIdeaMapStore(api, "maps", zap.NewNop()).Update(ctx, "r1", fields)
		assert.Error(t, err)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	api := &MockAPI{}
	api.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		var item ideaMapItem
		if err := attributevalue.UnmarshalMap(in.Item, &item); err != nil {
			return false
		}
		return item.PK == partitionKey && item.SK == sortKey(item.ID) && item.EntityType == entityType
	})).Return(&dynamodb.PutItemOutput{}, nil)

	doc, err := NewIdeaMapStore(api, "maps", zap.NewNop()).Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Empty(t, doc.Nodes)
	api.AssertExpectations(t)
}
