// Package storage provides archive backends for rendered documents.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/swissbill/backend/internal/infrastructure/config"
	"github.com/swissbill/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// Ensure S3Archive implements printing.Archive
var _ printing.Archive = (*S3Archive)(nil)

// putObjectAPI is the part of *s3.Client the archive writes through
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// bucketAPI is the part of *s3.Client used to prepare the bucket
type bucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// presignAPI generates download links for stored objects
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Archive stores rendered PDFs in S3 or any S3-compatible storage
// (AWS S3, RustFS, MinIO, etc.)
type S3Archive struct {
	objects           putObjectAPI
	buckets           bucketAPI
	presigner         presignAPI
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// S3ArchiveOption is a functional option for configuring S3Archive
type S3ArchiveOption func(*S3Archive)

// WithLogger sets a custom logger for S3Archive
func WithLogger(logger *zap.Logger) S3ArchiveOption {
	return func(s *S3Archive) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3ArchiveOption {
	return func(s *S3Archive) {
		s.presignExpiration = d
	}
}

// NewS3Archive creates an S3Archive from configuration
func NewS3Archive(cfg *infraconfig.StorageConfig, opts ...S3ArchiveOption) (*S3Archive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	opts = append([]S3ArchiveOption{WithPresignExpiration(cfg.PresignExpiration)}, opts...)
	return newS3Archive(client, client, s3.NewPresignClient(client), cfg.Bucket, opts...), nil
}

func newS3Archive(objects putObjectAPI, buckets bucketAPI, presigner presignAPI, bucket string, opts ...S3ArchiveOption) *S3Archive {
	a := &S3Archive{
		objects:   objects,
		buckets:   buckets,
		presigner: presigner,
		bucket:    bucket,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.presignExpiration == 0 {
		a.presignExpiration = 15 * time.Minute
	}
	return a
}

// normalizeEndpoint adds a scheme to endpoint and checks it parses
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		endpoint = "http://localhost:9000" // RustFS default
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := s.buckets.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.buckets.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads a rendered PDF and returns a presigned download link.
// A failed presign still reports the object as stored, without URL.
func (s *S3Archive) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := printing.ArchiveKey(req, s.now())
	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(req.PDFData),
		ContentLength: aws.Int64(int64(len(req.PDFData))),
		ContentType:   aws.String("application/pdf"),
		Metadata: map[string]string{
			"document-type":   string(req.DocType),
			"document-number": req.Number,
		},
	})
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	result := &printing.StoreResult{
		Path: key,
		Size: int64(len(req.PDFData)),
	}

	if s.presigner != nil {
		presigned, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(s.presignExpiration))
		if err != nil {
			s.logger.Warn("failed to presign archived PDF", zap.String("key", key), zap.Error(err))
		} else {
			result.URL = presigned.URL
		}
	}

	s.logger.Info("PDF archived",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", result.Size))
	return result, nil
}

// GetBucket returns the bucket name
func (s *S3Archive) GetBucket() string {
	return s.bucket
}
