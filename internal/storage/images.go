package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
	MaxBytes  int64
}

// ImageStore keeps board portraits in a MinIO/S3 bucket.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
}

// NewImageStore connects to the bucket, creating it with anonymous read
// access when it does not exist.
func NewImageStore(ctx context.Context, opts Options) (*ImageStore, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, errors.New("storage endpoint and bucket are required")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		if err := client.SetBucketPolicy(ctx, opts.Bucket, fmt.Sprintf(publicReadPolicy, opts.Bucket)); err != nil {
			return nil, fmt.Errorf("set bucket policy: %w", err)
		}
	}

	publicURL := strings.TrimSpace(opts.PublicURL)
	if publicURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, opts.Endpoint)
	}

	return &ImageStore{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		maxBytes:  opts.MaxBytes,
	}, nil
}

// Upload stores data under key and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("image storage not configured")
	}
	if len(data) == 0 {
		return "", errors.New("image is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("image size exceeds %d bytes", s.maxBytes)
	}
	if !IsAllowedImage(contentType) {
		return "", fmt.Errorf("unsupported image content type %q", contentType)
	}
	key = strings.TrimPrefix(key, "/")
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=604800",
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *ImageStore) Remove(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, strings.TrimPrefix(key, "/"), minio.RemoveObjectOptions{})
}

func (s *ImageStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, strings.TrimPrefix(key, "/"))
}

// ObjectKey is the bucket key of a saved character portrait.
func ObjectKey(presetID, characterID, contentType string) string {
	return fmt.Sprintf("%s/%s%s", presetID, characterID, Extension(contentType))
}

func IsAllowedImage(contentType string) bool {
	switch normalizeType(contentType) {
	case "image/png", "image/x-png", "image/jpeg", "image/pjpeg", "image/webp", "image/gif":
		return true
	default:
		return false
	}
}

func Extension(contentType string) string {
	switch normalizeType(contentType) {
	case "image/png", "image/x-png":
		return ".png"
	case "image/jpeg", "image/pjpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if _, sub, ok := strings.Cut(normalizeType(contentType), "/"); ok && sub != "" {
		return "." + sub
	}
	return ".bin"
}

func normalizeType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
