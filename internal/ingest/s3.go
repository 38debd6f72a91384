package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/pkg/grid"
)

// S3Config carries object-store connection settings for remote source files.
// An empty Endpoint uses AWS proper; setting it targets any S3-compatible
// store (MinIO and friends need PathStyle).
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// S3Fetcher downloads ingest source files from an S3-compatible object store
// so the file loaders only ever deal with local paths.
type S3Fetcher struct {
	client *s3.Client
}

// NewS3Fetcher builds a fetcher. Static credentials take precedence; without
// them the default AWS credential chain applies.
func NewS3Fetcher(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("ingest: load aws configuration: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return &S3Fetcher{client: client}, nil
}

// ParseS3Path splits an s3://bucket/key URI.
func ParseS3Path(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: not an s3:// path: %q", grid.ErrValidation, raw)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: s3 path needs bucket and key: %q", grid.ErrValidation, raw)
	}
	return bucket, key, nil
}

// Fetch downloads the object to a temporary file and returns its path with a
// cleanup function. The temp file keeps the key's extension so loaders can
// dispatch on it.
func (f *S3Fetcher) Fetch(ctx context.Context, bucket, key string) (string, func(), error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil, fmt.Errorf("ingest: get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp("", "gridscope-ingest-*"+filepath.Ext(key))
	if err != nil {
		return "", nil, fmt.Errorf("ingest: create temp file: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			logx.Errorf("ingest: remove temp file %s err=%v", tmp.Name(), err)
		}
	}
	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("ingest: download s3://%s/%s: %w", bucket, key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("ingest: close temp file: %w", err)
	}
	logx.WithContext(ctx).Infof("ingest: fetched s3://%s/%s to %s", bucket, key, tmp.Name())
	return tmp.Name(), cleanup, nil
}
