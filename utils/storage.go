package utils

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tmbbs/tmbbs/config"
)

// ObjectStore wraps the minio client used for avatar images. It is built once
// during boot and handed to the controllers that need it.
type ObjectStore struct {
	client *minio.Client
	bucket string
	public string
}

// NewObjectStore connects to the configured object storage endpoint and makes
// sure the avatar bucket exists.
func NewObjectStore(cfg config.AppConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
	}

	return &ObjectStore{client: client, bucket: cfg.MinioBucket, public: strings.TrimRight(cfg.MinioPublicBase, "/")}, nil
}

// Upload stores an object and returns its public URL.
func (s *ObjectStore) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.PublicURL(objectName), nil
}

// PublicURL builds the externally reachable URL for an object.
func (s *ObjectStore) PublicURL(objectName string) string {
	if s.public != "" {
		return fmt.Sprintf("%s/%s/%s", s.public, s.bucket, objectName)
	}
	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectName)
}
