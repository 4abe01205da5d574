package storage

import (
	"fmt"
	"strings"

	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/dataset"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/model"
)

// ReportRoot is the key prefix every run report is stored under.
const ReportRoot = "lineage/"

// IsReportKey reports whether key belongs to a stored run report.
func IsReportKey(key string) bool {
	return strings.HasPrefix(key, ReportRoot)
}

// ReportKey locates the report of one extraction run.
type ReportKey struct {
	PlatformInstance string
	Environment      dataset.EnvironmentTag
	Date             string // in YYYY-MM-DD format
	RunID            model.RunID
	Extension        string
}

// Key returns the object key of the report.
func (k ReportKey) Key() string {
	instance := k.PlatformInstance
	if instance == "" {
		instance = "default"
	}
	return fmt.Sprintf("%s%s/%s/%s/%s.%s", ReportRoot, instance, k.Environment, k.Date, k.RunID, k.Extension)
}

// ObjectLocation is an object listed from a bucket.
type ObjectLocation struct {
	Bucket string
	Key    string
}

// URI returns the s3:// location of the object.
func (l ObjectLocation) URI() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}
