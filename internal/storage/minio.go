package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AssetStore keeps provisioned site assets (stock images, per-category
// manifests) in a MinIO bucket so the web frontend can serve them from
// object storage instead of the repo tree.
type AssetStore struct {
	client *minio.Client
	bucket string
}

// NewAssetStore connects to MinIO and ensures the asset bucket exists.
func NewAssetStore(cfg *Config) (*AssetStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("object store not configured")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &AssetStore{client: mc, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("ensure bucket %q: %w", s.bucket, err)
		}
	}
	return s, nil
}

// PutAsset uploads one asset under category/name.
func (s *AssetStore) PutAsset(ctx context.Context, category, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := path.Join(category, name)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

// GetAsset opens a stored asset for reading. The Stat call surfaces a
// missing key as an error instead of a lazy read failure.
func (s *AssetStore) GetAsset(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// PresignedURL returns a time-limited GET URL for an asset.
func (s *AssetStore) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
