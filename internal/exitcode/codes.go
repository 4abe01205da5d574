package exitcode

// Exit codes for the lineage CLI.
// The orchestrator uses these to decide whether a rerun can help.
const (
	// Success - every location was normalized (or skipped by policy)
	Success = 0

	// ConfigError - missing or invalid flags / environment
	// Don't retry: fix the config first
	ConfigError = 1

	// SourceError - listing locations failed (MinIO unreachable, read error)
	// Retry with backoff
	SourceError = 2

	// DataError - a malformed location aborted the batch
	// Don't retry: investigate the location
	DataError = 3

	// StorageError - failed to upload the report to MinIO/S3
	// Retry with backoff
	StorageError = 4

	// ApplicationError - anything else (canceled run, unexpected failure)
	ApplicationError = 5
)
