package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinioGateway implements Gateway against a MinIO (or any S3-compatible) backend.
type MinioGateway struct {
	client *minio.Client
	bucket string
}

// NewMinioGateway creates a MinIO client pinned to an explicit region and
// verifies the bucket exists. The bucket is externally owned and never
// created here. The region must match the bucket's: URLs signed against the
// wrong regional endpoint come back as redirects the upload client cannot follow.
func NewMinioGateway(endpoint, region, accessKey, secretKey, bucket string, useSSL bool) (*MinioGateway, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist in region %q", bucket, region)
	}
	log.Info().Str("bucket", bucket).Str("region", region).Msg("object storage ready")

	return &MinioGateway{client: client, bucket: bucket}, nil
}

// PresignedPut mints a URL authorizing a single PUT to key, valid for ttl.
func (g *MinioGateway) PresignedPut(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := g.client.PresignedPutObject(ctx, g.bucket, key, ttl)
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w: %w", key, ErrUnavailable, err)
	}
	return u.String(), nil
}

// Stat probes key with a HEAD-equivalent metadata request. Absence is
// reported in ObjectInfo, not as an error.
func (g *MinioGateway) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	info, err := g.client.StatObject(ctx, g.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return ObjectInfo{Exists: false}, nil
		}
		return ObjectInfo{}, fmt.Errorf("stat %q: %w: %w", key, ErrUnavailable, err)
	}
	return ObjectInfo{Exists: true, Size: info.Size}, nil
}

// Fetch retrieves the full body of the object at key.
func (g *MinioGateway) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := g.client.GetObject(ctx, g.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %q: %w: %w", key, ErrUnavailable, err)
	}
	defer obj.Close()

	// GetObject is lazy; missing objects surface on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("read %q: %w: %w", key, ErrUnavailable, err)
	}
	return data, nil
}

// isNoSuchKey reports whether err is the storage service's object-absent response.
func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
