// Package s3 implements the storage backend on an S3-compatible object
// store (AWS S3, MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mpavlovs/attachd/internal/storage"
)

// Config carries the settings needed to reach the object store. BaseEndpoint
// is set when talking to a non-AWS endpoint such as MinIO.
type Config struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// Seams for testing the SDK calls without a live endpoint.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*awss3.Options)) *awss3.Client {
		return awss3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *awss3.Client, ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(c *awss3.Client, ctx context.Context, in *awss3.GetObjectInput) (*awss3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	deleteObject = func(c *awss3.Client, ctx context.Context, in *awss3.DeleteObjectInput) (*awss3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

type Backend struct {
	client *awss3.Client
	bucket string
}

func New(ctx context.Context, cfg Config) (*Backend, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.User,
			cfg.Password,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Backend{client: client, bucket: cfg.Bucket}, nil
}

func (b *Backend) Store(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read object body: %w", err)
	}

	_, err = putObject(b.client, ctx, &awss3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}

	return int64(len(data)), nil
}

func (b *Backend) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := getObject(b.client, ctx, &awss3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, storage.ErrNotExist
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return out.Body, nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	// S3 DeleteObject is a no-op for missing keys, matching the idempotent
	// destroy semantics of the lifecycle manager.
	_, err := deleteObject(b.client, ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
