package photo

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/glowpoint/salon-api/internal/config"
)

// Storage persists processed photos and returns the path the frontends
// reference them by.
type Storage interface {
	Save(ctx context.Context, dir string, data []byte) (string, error)
}

// NewStorage picks the backend from config: S3 when a bucket is set, local
// disk otherwise.
func NewStorage(cfg *config.Config) Storage {
	if cfg.S3Bucket != "" {
		return newS3Storage(cfg)
	}
	return &LocalStorage{}
}

func fileName() string {
	return uuid.New().String() + ".jpg"
}

// ------------------------------------------------------
// Local disk
// ------------------------------------------------------

type LocalStorage struct{}

func (s *LocalStorage) Save(_ context.Context, dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fileName()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}

	return "/" + path.Join(filepath.ToSlash(filepath.Base(dir)), name), nil
}

// ------------------------------------------------------
// S3
// ------------------------------------------------------

type S3Storage struct {
	client *s3.Client
	bucket string
}

func newS3Storage(cfg *config.Config) *S3Storage {
	awsCfg := aws.Config{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client: client,
		bucket: cfg.S3Bucket,
	}
}

func (s *S3Storage) Save(ctx context.Context, dir string, data []byte) (string, error) {
	key := path.Join(filepath.ToSlash(filepath.Base(dir)), fileName())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", err
	}

	return "/" + key, nil
}
