package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveStore defines the interface for archiving routed webhook payloads.
type ArchiveStore interface {
	Put(ctx context.Context, kind, key string, payload []byte) error
}

// S3ArchiveStore implements ArchiveStore using AWS S3
type S3ArchiveStore struct {
	client     *s3.Client
	bucketName string
}

// NewS3ArchiveStore creates a new S3ArchiveStore instance
func NewS3ArchiveStore(client *s3.Client, bucketName string) *S3ArchiveStore {
	return &S3ArchiveStore{
		client:     client,
		bucketName: bucketName,
	}
}

// Put stores one payload under archive/<kind>/<key>/<timestamp>.json.
// Keys are timestamped rather than overwritten: retried deliveries land as
// separate objects.
func (s *S3ArchiveStore) Put(ctx context.Context, kind, key string, payload []byte) error {
	objectKey := s.objectKey(kind, key, time.Now().UTC())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive payload to S3: %v", err)
	}

	return nil
}

// objectKey generates the S3 key for one archived payload
func (s *S3ArchiveStore) objectKey(kind, key string, now time.Time) string {
	return fmt.Sprintf("archive/%s/%s/%s.json", kind, key, now.Format("20060102T150405.000000000Z"))
}
