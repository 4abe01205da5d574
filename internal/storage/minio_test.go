package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
)

func TestNewMinIOClient_InvalidEndpoint(t *testing.T) {
	cfg := MinIOConfig{
		Endpoint:  "invalid-endpoint:port:scheme",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "test-bucket",
	}

	_, err := NewMinIOClient(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error with invalid endpoint, got nil")
	}
}

func TestNewMinIOClient_ConnectionRefused(t *testing.T) {
	// Assumes nothing listens on localhost:12345.
	cfg := MinIOConfig{
		Endpoint:  "localhost:12345",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "test-bucket",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// minio.New() doesn't connect, BucketExists does.
	_, err := NewMinIOClient(ctx, cfg)
	if err == nil {
		t.Fatal("expected error connecting to non-existent minio, got nil")
	}
}

func listing(objects ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objects))
	for _, o := range objects {
		ch <- o
	}
	close(ch)
	return ch
}

func TestMinIOClient_CollectLocations_SkipsReports(t *testing.T) {
	client := &MinIOClient{bucketName: "warehouse"}
	report := ReportKey{
		PlatformInstance: "prod",
		Environment:      "PROD",
		Date:             "2025-03-12",
		RunID:            "01890c24-905b-7122-b170-b60814e6ee06",
		Extension:        "jsonl",
	}

	got, err := client.collectLocations(listing(
		minio.ObjectInfo{Key: "table1/stamp_date=2023-05-01/part-00000"},
		minio.ObjectInfo{Key: report.Key()},
		minio.ObjectInfo{Key: "lineage/default/DEV/2025-03-11/older.jsonl"},
		minio.ObjectInfo{Key: "lineage-raw/table2/part-00000"},
	))
	if err != nil {
		t.Fatalf("collectLocations() error = %v", err)
	}

	want := []string{
		"s3://warehouse/table1/stamp_date=2023-05-01/part-00000",
		"s3://warehouse/lineage-raw/table2/part-00000",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("collectLocations() = %v, want %v", got, want)
	}
}

func TestMinIOClient_CollectLocations_ListError(t *testing.T) {
	client := &MinIOClient{bucketName: "warehouse"}

	_, err := client.collectLocations(listing(
		minio.ObjectInfo{Key: "table1/part-00000"},
		minio.ObjectInfo{Err: errors.New("access denied")},
	))
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("expected list error, got %v", err)
	}
}

func loadMinIOConfigFromEnv(t *testing.T) MinIOConfig {
	t.Helper()
	godotenv.Load("../../.env.test")

	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	if endpoint == "" || accessKey == "" || secretKey == "" {
		t.Fatalf("MINIO_ENDPOINT, MINIO_ACCESS_KEY, and MINIO_SECRET_KEY must be set for integration tests")
	}

	return MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    useSSL,
	}
}

func TestMinIOClient_Put_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := loadMinIOConfigFromEnv(t)
	cfg.Bucket = "test-bucket-" + time.Now().Format("20060102-150405")

	ctx := context.Background()
	client, err := NewMinIOClient(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to initialize minio client: %v", err)
	}

	key := "lineage/default/DEV/2025-03-12/report.jsonl"
	content := `{"name":"bucket/t"}` + "\n"

	if err := client.Put(ctx, key, strings.NewReader(content)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	obj, err := client.client.GetObject(ctx, cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}

	if string(data) != content {
		t.Fatalf("unexpected content: got %q, want %q", string(data), content)
	}
}

func TestMinIOClient_Locations_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := loadMinIOConfigFromEnv(t)
	cfg.Bucket = "test-locations-" + time.Now().Format("20060102-150405")
	cfg.Prefix = "warehouse/"

	ctx := context.Background()
	client, err := NewMinIOClient(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to initialize minio client: %v", err)
	}

	keys := []string{
		"warehouse/table1/stamp_date=2023-05-01/part-00000",
		"warehouse/table1/stamp_date=2023-05-02/part-00000",
		"other/ignored",
	}
	for _, k := range keys {
		if err := client.Put(ctx, k, strings.NewReader("x")); err != nil {
			t.Fatalf("Put(%s) error = %v", k, err)
		}
	}

	got, err := client.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations() error = %v", err)
	}
	slices.Sort(got)

	want := []string{
		"s3://" + cfg.Bucket + "/warehouse/table1/stamp_date=2023-05-01/part-00000",
		"s3://" + cfg.Bucket + "/warehouse/table1/stamp_date=2023-05-02/part-00000",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Locations() = %v, want %v", got, want)
	}
}
