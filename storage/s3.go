package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"house_crush/config"
)

// SnapshotUploader ships raw provider responses to S3-compatible
// storage so odd extractions can be replayed later. Upload failures
// are logged and swallowed: a snapshot must never fail a search.
type SnapshotUploader struct {
	client *s3.Client
	bucket string
}

// NewSnapshotUploader returns nil (disabled) when no bucket is
// configured; callers treat a nil uploader as a no-op.
func NewSnapshotUploader(ctx context.Context, cfg config.SnapshotConfig) (*SnapshotUploader, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &SnapshotUploader{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Snapshot stores one raw response under
// snapshots/<provider>/<timestamp>-<id>.json.
func (u *SnapshotUploader) Snapshot(ctx context.Context, name string, body []byte) {
	if u == nil {
		return
	}

	key := fmt.Sprintf("snapshots/%s/%s-%s.json",
		name, time.Now().Format("20060102_150405"), uuid.NewString()[:8])

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Printf("snapshot: upload %s: %v", key, err)
	}
}
