// Where: cli/internal/infra/artifactstore/s3.go
// What: S3-compatible archive for deployed zip files.
// Why: Keep the exact package that went to a site for rollback and audit.
package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const defaultRegion = "us-east-1"

var errBucketRequired = errors.New("archive bucket is required")

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the store.
type Options struct {
	Bucket   string
	Prefix   string
	Endpoint string
	Region   string
}

// S3Store uploads archives to a bucket.
type S3Store struct {
	Client S3API
	Bucket string
	Prefix string
}

var _ ports.ArtifactStore = (*S3Store)(nil)

// New builds a store on the default AWS configuration chain.
// FNSDK_ARCHIVE_ACCESS_KEY and FNSDK_ARCHIVE_SECRET_KEY select static credentials,
// and a custom endpoint switches to path-style addressing.
func New(ctx context.Context, opts Options) (*S3Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errBucketRequired
	}
	cfg, err := loadAWSConfig(ctx, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
			options.UsePathStyle = true
		}
	})
	return &S3Store{Client: client, Bucket: opts.Bucket, Prefix: opts.Prefix}, nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = defaultRegion
	}
	loaders := []func(*config.LoadOptions) error{config.WithRegion(region)}
	accessKey := os.Getenv(meta.EnvPrefix + "_ARCHIVE_ACCESS_KEY")
	secretKey := os.Getenv(meta.EnvPrefix + "_ARCHIVE_SECRET_KEY")
	if accessKey != "" && secretKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

// Key joins the prefix and a name with forward slashes.
func (s *S3Store) Key(name string) string {
	prefix := strings.Trim(s.Prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Put uploads the file at localPath under key and returns its s3:// location.
func (s *S3Store) Put(ctx context.Context, key, localPath string) (string, error) {
	if s.Client == nil {
		return "", fmt.Errorf("s3 client is nil")
	}
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	objectKey := s.Key(key)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", s.Bucket, objectKey, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, objectKey), nil
}
