// Package storage implements the object-store collaborator over an
// S3-compatible backend (AWS S3 or MinIO) and hosts the service-side image
// validator.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wealthboard/wealthboard/internal/remote"
	sc "github.com/wealthboard/wealthboard/internal/server/config"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// Seams for unit tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3ObjectStore implements remote.ObjectStore over the AWS SDK.
type S3ObjectStore struct {
	client       *s3.Client
	baseEndpoint string
}

// NewS3ObjectStore builds an object store from static credentials and a
// custom base endpoint (MinIO-compatible).
func NewS3ObjectStore(ctx context.Context, cfg *sc.Config) (*S3ObjectStore, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3ObjectStore{client: client, baseEndpoint: cfg.S3BaseEndpoint}, nil
}

// Upload writes data to bucket/path. When opts.Upsert is unset and an object
// already exists at the path, shared.ErrorObjectExists is returned; with
// Upsert the write replaces the existing object.
func (s *S3ObjectStore) Upload(ctx context.Context, bucket, path string, data []byte, opts remote.UploadOptions) error {
	if strings.HasPrefix(opts.ContentType, "image/") {
		if err := ValidateImage(opts.ContentType, int64(len(data))); err != nil {
			return fmt.Errorf("%w: %s", shared.ErrorValidation, err)
		}
	}

	if !opts.Upsert {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(path),
		})
		if err == nil {
			return shared.ErrorObjectExists
		}
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
		Body:   bytes.NewReader(data),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("storage upload error: %w", err)
	}
	return nil
}

// PublicURL returns the path-style public URL of an object.
func (s *S3ObjectStore) PublicURL(bucket, path string) string {
	base := strings.TrimSuffix(s.baseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", base, bucket, path)
}

// Remove deletes the listed objects from bucket. Missing paths are not an
// error; S3 delete is idempotent.
func (s *S3ObjectStore) Remove(ctx context.Context, bucket string, paths []string) error {
	for _, p := range paths {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(p),
		})
		if err != nil {
			return fmt.Errorf("storage remove error: %w", err)
		}
	}
	return nil
}
