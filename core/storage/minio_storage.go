package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Listing is one page of a prefix listing.
type Listing struct {
	Objects        []ObjectInfo `json:"objects"`
	CommonPrefixes []string     `json:"common_prefixes"`
	Truncated      bool         `json:"truncated"`
	NextToken      string       `json:"next_token,omitempty"`
}

// ObjectStore is the object-storage boundary of the import pipelines.
// Writes are idempotent overwrites keyed by object key.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	List(ctx context.Context, bucket, prefix, continuationToken string, maxKeys int) (*Listing, error)
}

// MinioStore talks to any S3-compatible endpoint (Storj in production).
type MinioStore struct {
	client *minio.Client
	core   minio.Core
}

var _ ObjectStore = (*MinioStore)(nil)

// NewMinioStoreFromEnv builds a store from STORJ_S3_ENDPOINT,
// STORJ_S3_ACCESS_KEY_ID and STORJ_S3_SECRET_ACCESS_KEY.
func NewMinioStoreFromEnv() (*MinioStore, error) {
	endpoint := os.Getenv("STORJ_S3_ENDPOINT")
	accessKey := os.Getenv("STORJ_S3_ACCESS_KEY_ID")
	secretKey := os.Getenv("STORJ_S3_SECRET_ACCESS_KEY")
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("storage: STORJ_S3_ENDPOINT, STORJ_S3_ACCESS_KEY_ID and STORJ_S3_SECRET_ACCESS_KEY are required")
	}

	secure := true
	if strings.HasPrefix(endpoint, "http://") {
		secure = false
		endpoint = strings.TrimPrefix(endpoint, "http://")
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init client: %w", err)
	}
	return &MinioStore{client: client, core: minio.Core{Client: client}}, nil
}

// Put writes one object. Re-writing the same key overwrites in place.
func (s *MinioStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("storage: put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// List returns one page of objects and common prefixes under a prefix.
// maxKeys is capped at 200 per page.
func (s *MinioStore) List(ctx context.Context, bucket, prefix, continuationToken string, maxKeys int) (*Listing, error) {
	if maxKeys <= 0 || maxKeys > 200 {
		maxKeys = 200
	}
	res, err := s.core.ListObjectsV2(bucket, prefix, "", continuationToken, "/", maxKeys)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s/%s: %w", bucket, prefix, err)
	}

	listing := &Listing{
		Truncated: res.IsTruncated,
		NextToken: res.NextContinuationToken,
	}
	for _, obj := range res.Contents {
		listing.Objects = append(listing.Objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	for _, cp := range res.CommonPrefixes {
		listing.CommonPrefixes = append(listing.CommonPrefixes, cp.Prefix)
	}
	return listing, nil
}
