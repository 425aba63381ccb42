package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/pkg/config"
)

// Upload constraints at the object-store boundary.
const (
	MaxImageSize       = 5 * 1024 * 1024
	MaxImagesPerTenant = 2
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	ErrInvalidImageType = errors.New("invalid file type: only JPEG, PNG, GIF and WebP images are accepted")
	ErrImageTooLarge    = errors.New("file too large: images must be 5MB or smaller")
	ErrImageLimit       = errors.New("maximum of 2 images allowed per tenant")
)

// ImageStore uploads tenant request images to an object store and hands back
// retrievable URLs. Uploads happen before the owning record is written; an
// upload orphaned by a later record failure is wasted space, never a
// corrupted invariant.
type ImageStore struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// NewImageStore connects to the configured MinIO endpoint and ensures the
// bucket exists.
func NewImageStore(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (*ImageStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info("Created image bucket", zap.String("bucket", cfg.Bucket))
	}

	return &ImageStore{client: client, bucket: cfg.Bucket, log: log}, nil
}

// UploadRequestImage validates and stores one image for a tenant's request
// and returns its URL. Only image MIME types are accepted, files are capped
// at 5MB, and each tenant may hold at most two stored images.
func (s *ImageStore) UploadRequestImage(ctx context.Context, tenantID uint, filename, contentType string, size int64, reader io.Reader) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", ErrInvalidImageType
	}
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	count, err := s.TenantImageCount(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if count >= MaxImagesPerTenant {
		return "", ErrImageLimit
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	key := fmt.Sprintf("tenants/%d/images/image_%d.%s", tenantID, time.Now().UnixMilli(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("Failed to upload image",
			zap.Uint("tenant_id", tenantID),
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.log.Info("Image uploaded",
		zap.Uint("tenant_id", tenantID),
		zap.String("key", key),
		zap.Int64("size", size))

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}

// TenantImageCount counts the images currently stored under a tenant's
// prefix.
func (s *ImageStore) TenantImageCount(ctx context.Context, tenantID uint) (int, error) {
	prefix := fmt.Sprintf("tenants/%d/images/", tenantID)
	count := 0
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return 0, object.Err
		}
		count++
	}
	return count, nil
}
