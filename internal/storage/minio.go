package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient lists dataset locations from a bucket and stores run reports.
type MinIOClient struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string // listing prefix, empty lists the whole bucket
	UseSSL    bool
}

// NewMinIOClient creates a new MinIO storage client.
func NewMinIOClient(ctx context.Context, cfg MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
		prefix:     cfg.Prefix,
	}, nil
}

// Locations lists every object under the configured prefix and returns
// its s3:// location. Run reports under ReportRoot are not datasets and
// are left out.
func (m *MinIOClient) Locations(ctx context.Context) ([]string, error) {
	locations, err := m.collectLocations(m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{
		Prefix:    m.prefix,
		Recursive: true,
	}))
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "listed locations", "bucket", m.bucketName, "prefix", m.prefix, "count", len(locations))
	return locations, nil
}

func (m *MinIOClient) collectLocations(objects <-chan minio.ObjectInfo) ([]string, error) {
	var locations []string
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if IsReportKey(object.Key) {
			continue
		}
		locations = append(locations, ObjectLocation{Bucket: m.bucketName, Key: object.Key}.URI())
	}
	return locations, nil
}

// Put stores an object in MinIO.
func (m *MinIOClient) Put(ctx context.Context, key string, reader io.Reader) error {
	_, err := m.client.PutObject(ctx, m.bucketName, key, reader, -1, minio.PutObjectOptions{
		ContentType: "application/x-ndjson",
	})
	if err != nil {
		return fmt.Errorf("failed to upload to minio: %w", err)
	}

	return nil
}
