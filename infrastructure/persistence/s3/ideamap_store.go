// Package s3 stores the idea-map document as one JSON object in a bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	apperrors "devdash-backend/pkg/errors"
)

const contentType = "application/json"

// API is the subset of the S3 client the store uses.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// NewClient builds an S3 client. Endpoint and path style are for MinIO and
// other S3-compatible servers.
func NewClient(cfg aws.Config, endpoint string, pathStyle bool) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

type IdeaMapStore struct {
	client API
	bucket string
	key    string
	logger *zap.Logger
}

func NewIdeaMapStore(client API, bucket, key string, logger *zap.Logger) *IdeaMapStore {
	if key == "" {
		key = "ideamap/document.json"
	}
	return &IdeaMapStore{client: client, bucket: bucket, key: key, logger: logger}
}

func (s *IdeaMapStore) ReadOne(ctx context.Context) (*ideamap.Document, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		if isMissing(err) {
			return nil, ports.ErrRecordNotFound
		}
		return nil, s.wrap("get idea map", err)
	}
	defer out.Body.Close()

	var doc ideamap.Document
	if err := json.NewDecoder(out.Body).Decode(&doc); err != nil {
		return nil, apperrors.NewDatabaseError("decode idea map", err)
	}
	return &doc, nil
}

// Update rewrites the object. The stored id must match; a bucket holds one
// record.
func (s *IdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) error {
	current, err := s.ReadOne(ctx)
	if errors.Is(err, ports.ErrRecordNotFound) {
		return apperrors.NewNotFoundError("idea map " + id)
	}
	if err != nil {
		return err
	}
	if current.ID != id {
		return apperrors.NewNotFoundError("idea map " + id)
	}
	return s.put(ctx, f.Document(id))
}

func (s *IdeaMapStore) Create(ctx context.Context) (*ideamap.Document, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err == nil {
		return nil, apperrors.NewConflictError("idea map object already exists")
	}
	if !isMissing(err) {
		return nil, s.wrap("head idea map", err)
	}

	doc := ideamap.Document{
		ID:        uuid.NewString(),
		Nodes:     []ideamap.NodeRecord{},
		Edges:     []ideamap.EdgeRecord{},
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.put(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("idea map object created",
		zap.String("record_id", doc.ID), zap.String("bucket", s.bucket), zap.String("key", s.key))
	return &doc, nil
}

func (s *IdeaMapStore) put(ctx context.Context, doc ideamap.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal idea map: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return s.wrap("put idea map", err)
	}
	return nil
}

func (s *IdeaMapStore) wrap(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		s.logger.Error("s3 request failed",
			zap.String("operation", op),
			zap.String("code", apiErr.ErrorCode()),
			zap.String("bucket", s.bucket))
	}
	return apperrors.NewDatabaseError(op, err)
}

// isMissing reports whether err means the object does not exist. HeadObject
// has no body, so it surfaces a bare NotFound code.
func isMissing(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey")
}

var _ ports.IdeaMapStore = (*IdeaMapStore)(nil)
