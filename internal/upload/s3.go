package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when no region is configured. Custom endpoints
// usually ignore it but the signer requires one.
const DefaultRegion = "us-east-1"

// Config describes the destination bucket.
type Config struct {
	// Bucket is the destination bucket. Required.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Endpoint overrides the S3 endpoint, e.g. http://localhost:9000.
	Endpoint string

	// Region is the signing region. Defaults to DefaultRegion.
	Region string

	// AccessKey and SecretKey are static credentials. When empty the
	// default credential chain is used.
	AccessKey string
	SecretKey string
}

// S3Uploader writes report files to a bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// Option configures an S3Uploader.
type Option func(*S3Uploader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *S3Uploader) {
		u.logger = logger
	}
}

// NewS3Uploader loads the AWS configuration and creates the client.
func NewS3Uploader(ctx context.Context, cfg Config, opts ...Option) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" {
		accessKey, secretKey := cfg.AccessKey, cfg.SecretKey
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					Source:          "vitalscan",
				}, nil
			}),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	u := &S3Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}

	return u, nil
}

// Key returns the object key for a file name.
func (u *S3Uploader) Key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload stores body under name and returns the s3:// location.
func (u *S3Uploader) Upload(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	key := u.Key(name)

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", u.bucket, key, err)
	}

	location := "s3://" + u.bucket + "/" + key
	u.logger.Info("report uploaded", "location", location, "bytes", len(body))
	return location, nil
}

// UploadFile stores the file at filePath under its base name.
func (u *S3Uploader) UploadFile(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // Report path is produced by this program
	if err != nil {
		return "", err
	}
	return u.Upload(ctx, filepath.Base(filePath), data, ContentType(filePath))
}

// ContentType guesses the media type of a report file from its extension.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".prom":
		return "text/plain; version=0.0.4; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
