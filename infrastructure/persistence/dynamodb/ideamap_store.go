// Package dynamodb stores the idea-map document as a single DynamoDB item.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	apperrors "devdash-backend/pkg/errors"
)

const (
	partitionKey = "IDEAMAP"
	entityType   = "IDEA_MAP"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type ideaMapItem struct {
	PK         string               `dynamodbav:"PK"`
	SK         string               `dynamodbav:"SK"`
	EntityType string               `dynamodbav:"EntityType"`
	ID         string               `dynamodbav:"ID"`
	Nodes      []ideamap.NodeRecord `dynamodbav:"Nodes"`
	Edges      []ideamap.EdgeRecord `dynamodbav:"Edges"`
	CreatedAt  string               `dynamodbav:"CreatedAt"`
	UpdatedAt  string               `dynamodbav:"UpdatedAt"`
}

func sortKey(id string) string { return "RECORD#" + id }

// IdeaMapStore keeps every idea-map record under one partition; ReadOne
// returns the first by sort key.
type IdeaMapStore struct {
	client API
	table  string
	logger *zap.Logger
}

func NewIdeaMapStore(client API, table string, logger *zap.Logger) *IdeaMapStore {
	return &IdeaMapStore{client: client, table: table, logger: logger}
}

// NewClient builds a DynamoDB client. A non-empty endpoint points it at a
// local emulator.
func NewClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func (s *IdeaMapStore) ReadOne(ctx context.Context) (*ideamap.Document, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(partitionKey))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, s.wrap("query idea map", err)
	}
	if len(out.Items) == 0 {
		return nil, ports.ErrRecordNotFound
	}

	var item ideaMapItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, apperrors.NewDatabaseError("decode idea map", err)
	}
	updated, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	return &ideamap.Document{ID: item.ID, Nodes: item.Nodes, Edges: item.Edges, UpdatedAt: updated}, nil
}

func (s *IdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) error {
	nodes := f.Nodes
	if nodes == nil {
		nodes = []ideamap.NodeRecord{}
	}
	edges := f.Edges
	if edges == nil {
		edges = []ideamap.EdgeRecord{}
	}
	update := expression.
		Set(expression.Name("Nodes"), expression.Value(nodes)).
		Set(expression.Name("Edges"), expression.Value(edges)).
		Set(expression.Name("UpdatedAt"), expression.Value(f.UpdatedAt.UTC().Format(time.RFC3339Nano)))
	cond := expression.Name("PK").AttributeExists()

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: partitionKey},
			"SK": &types.AttributeValueMemberS{Value: sortKey(id)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return apperrors.NewNotFoundError("idea map " + id)
	}
	if err != nil {
		return s.wrap("update idea map", err)
	}
	return nil
}

func (s *IdeaMapStore) Create(ctx context.Context) (*ideamap.Document, error) {
	now := time.Now().UTC()
	item := ideaMapItem{
		PK:         partitionKey,
		ID:         uuid.NewString(),
		EntityType: entityType,
		Nodes:      []ideamap.NodeRecord{},
		Edges:      []ideamap.EdgeRecord{},
		CreatedAt:  now.Format(time.RFC3339Nano),
		UpdatedAt:  now.Format(time.RFC3339Nano),
	}
	item.SK = sortKey(item.ID)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal idea map: %w", err)
	}
	cond := expression.Name("PK").AttributeNotExists()
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build put: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return nil, s.wrap("put idea map", err)
	}
	s.logger.Info("idea map item created", zap.String("record_id", item.ID), zap.String("table", s.table))
	return &ideamap.Document{ID: item.ID, Nodes: item.Nodes, Edges: item.Edges, UpdatedAt: now}, nil
}

// wrap logs the service error code and returns a database error.
func (s *IdeaMapStore) wrap(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		s.logger.Error("dynamodb request failed",
			zap.String("operation", op),
			zap.String("code", apiErr.ErrorCode()),
			zap.String("message", apiErr.ErrorMessage()))
	}
	return apperrors.NewDatabaseError(op, err)
}

var _ ports.IdeaMapStore = (*IdeaMapStore)(nil)
