package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(providerCfg any, log *logger.Logger) (storage.Storage, error) {
		c, err := storage.ConfigAs[Config](storage.ProviderS3, providerCfg)
		if err != nil {
			return nil, err
		}
		log.Debug("s3 bucket selected", logger.Fields("bucket", c.Bucket, "region", c.Region, "endpoint", c.Endpoint))
		return NewStorage(context.Background(), c)
	})
}

// Storage keeps each value as one object in a single bucket. It works
// against AWS and S3-compatible servers such as MinIO.
type Storage struct {
	client *awss3.Client
	bucket *string
}

// NewStorage builds the client. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies.
func NewStorage(ctx context.Context, cfg *Config) (*Storage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint == "" {
			return
		}
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
		// MinIO and friends reject streaming checksum trailers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	return &Storage{client: client, bucket: aws.String(cfg.Bucket)}, nil
}

// Upload replaces the object at path.
func (s *Storage) Upload(ctx context.Context, path string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      s.bucket,
		Key:         aws.String(path),
		Body:        r,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	return wrap("put", path, err)
}

// Download opens the object at path. A missing key wraps storage.ErrNotFound.
func (s *Storage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{Bucket: s.bucket, Key: aws.String(path)})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return nil, wrap("get", path, err)
	}
	return out.Body, nil
}

// Delete removes the object at path. S3 treats a missing key as success.
func (s *Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{Bucket: s.bucket, Key: aws.String(path)})
	return wrap("delete", path, err)
}

// Exists issues a HEAD for path.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{Bucket: s.bucket, Key: aws.String(path)})
	if err == nil {
		return true, nil
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, wrap("head", path, err)
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("s3: %s %s: %w", op, path, err)
}

var _ storage.Storage = (*Storage)(nil)
