package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/local/printssistant/internal/config"
)

var ErrArchiveDisabled = errors.New("report archive is not configured")

// NewS3Client builds an S3 client from the default AWS chain, optionally
// pinned to static keys and a custom endpoint (MinIO and friends).
func NewS3Client(ctx context.Context, c config.S3Config) (*s3.Client, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	}), nil
}

// parseS3URL splits s3://bucket/key.
func parseS3URL(ref string) (bucket, key string, err error) {
	p := strings.TrimPrefix(ref, "s3://")
	slash := strings.Index(p, "/")
	if slash <= 0 || slash == len(p)-1 {
		return "", "", fmt.Errorf("%w: invalid s3 url %q", ErrUnsupportedRef, ref)
	}
	return p[:slash], p[slash+1:], nil
}

// Archive stores finished analysis reports as JSON objects.
type Archive struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewArchive returns nil when no bucket is configured; a nil *Archive is
// valid and reports ErrArchiveDisabled.
func NewArchive(client *s3.Client, bucket, prefix string) *Archive {
	if client == nil || bucket == "" {
		return nil
	}
	return &Archive{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}
}

func (a *Archive) Enabled() bool { return a != nil }

// PutReport uploads body under prefix+key and returns its s3:// location.
func (a *Archive) PutReport(ctx context.Context, key string, body []byte) (string, error) {
	if a == nil {
		return "", ErrArchiveDisabled
	}
	objectKey := path.Join(a.prefix, key)
	if !strings.HasSuffix(objectKey, ".json") {
		objectKey += ".json"
	}

	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", a.bucket).Str("key", objectKey).Msg("report upload failed")
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	loc := fmt.Sprintf("s3://%s/%s", a.bucket, objectKey)
	log.Info().Str("location", loc).Int("size", len(body)).Msg("archived analysis report")
	return loc, nil
}

// Ping checks that the archive bucket is reachable.
func (a *Archive) Ping(ctx context.Context) error {
	if a == nil {
		return ErrArchiveDisabled
	}
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	return err
}
