// Package blob is the boundary to binary storage. The core stores and
// forwards opaque content references; this package is the only place
// that knows a reference is an object key in an S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "stash/internal/config"
)

// Store resolves content references for download and disposes of them.
type Store interface {
	// PresignedGetURL returns a time-limited URL for the payload behind
	// a content reference.
	PresignedGetURL(ctx context.Context, contentRef string, expiry time.Duration) (string, error)

	// Delete removes the payload behind a content reference.
	Delete(ctx context.Context, contentRef string) error
}

// S3Store implements Store for S3-compatible storage (AWS S3, MinIO,
// R2, DigitalOcean Spaces).
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	logger        *slog.Logger
}

// NewS3Store creates an S3-backed blob store from app config.
func NewS3Store(ctx context.Context, c *cfg.Config, logger *slog.Logger) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(c.S3Region))

	if c.S3AccessKey != "" && c.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3AccessKey, c.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	if c.S3Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.S3Endpoint)
			o.UsePathStyle = true // required for MinIO and some S3-compatibles
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	logger.Info("blob store initialized",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)

	return &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        c.S3Bucket,
		logger:        logger,
	}, nil
}

// PresignedGetURL generates a presigned URL for temporary access
func (s *S3Store) PresignedGetURL(ctx context.Context, contentRef string, expiry time.Duration) (string, error) {
	presignedReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(contentRef),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign URL: %w", err)
	}

	return presignedReq.URL, nil
}

// Delete removes an object from the bucket
func (s *S3Store) Delete(ctx context.Context, contentRef string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(contentRef),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}
