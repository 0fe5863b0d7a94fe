package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used by ResumeStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ResumeStore writes uploaded résumés to S3. With no bucket configured every write is a no-op.
type ResumeStore struct {
	bucket string
	client S3API
	logger *zap.Logger
}

// NewS3Client loads the default AWS configuration for region.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewResumeStore creates a ResumeStore.
func NewResumeStore(client S3API, bucket string, logger *zap.Logger) *ResumeStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResumeStore{bucket: bucket, client: client, logger: logger}
}

// Enabled reports whether uploads are persisted.
func (s *ResumeStore) Enabled() bool {
	return s != nil && s.bucket != "" && s.client != nil
}

// ResumeKey builds the object key for an application's résumé.
func ResumeKey(applicationID, filename string) string {
	return fmt.Sprintf("resumes/%s/%s", applicationID, filename)
}

// Put uploads data under key and returns the key. A disabled store returns an empty key.
func (s *ResumeStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}

	s.logger.Info("stored resume", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}
