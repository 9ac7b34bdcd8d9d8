// Package storage publishes exported tiles to an S3 compatible bucket such as
// MinIO.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/logger"
)

type Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
}

// Enabled reports whether uploads are configured at all.
func (c Config) Enabled() bool { return c.Bucket != "" }

// Uploader puts tile files into one bucket.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
	log    *log.Logger
	newID  func() string
}

// NewUploader builds an S3 client for cfg using static credentials and
// path-style addressing against cfg.Endpoint.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("storage: no bucket configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
		// older MinIO releases reject the default CRC32 trailers
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    logger.New("storage"),
		newID:  uuid.NewString,
	}, nil
}

// Upload stores files under {prefix}/{run}/{name}, where run is fresh for
// every call, creating the bucket first if it does not exist. It stops at
// the first failed upload and returns the keys written so far.
func (u *Uploader) Upload(ctx context.Context, files []string) ([]string, error) {
	if err := u.ensureBucket(ctx); err != nil {
		return nil, err
	}

	run := u.newID()
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := ObjectKey(u.prefix, run, f)
		if err := u.put(ctx, key, f); err != nil {
			return keys, err
		}
		u.log.Debug("uploaded", "key", key)
		keys = append(keys, key)
	}

	u.log.Info("upload complete", "bucket", u.bucket, "objects", len(keys), "run", run)
	return keys, nil
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = u.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
	}
	u.log.Info("created bucket", "bucket", u.bucket)
	return nil
}

func (u *Uploader) put(ctx context.Context, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filepath.Base(file), err)
	}
	return nil
}

// ObjectKey joins prefix, run and the file's base name with forward slashes
// regardless of the host path separator. An empty prefix is skipped.
func ObjectKey(prefix, run, file string) string {
	name := filepath.Base(file)
	if prefix == "" {
		return path.Join(run, name)
	}
	return path.Join(prefix, run, name)
}
