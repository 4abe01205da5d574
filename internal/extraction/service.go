// Package extraction normalizes batches of locations for one lineage run.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/dataset"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/model"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/storage"
)

var (
	ErrSource  = errors.New("location source")
	ErrStorage = errors.New("report storage")
)

// LocationSource yields the raw locations of one run.
type LocationSource interface {
	Locations(ctx context.Context) ([]string, error)
}

// ReportStorage writes run reports to object storage.
type ReportStorage interface {
	Put(ctx context.Context, key string, data io.Reader) error
}

// Policy decides what happens to a batch when a location is malformed.
type Policy string

const (
	PolicySkip  Policy = "skip"
	PolicyAbort Policy = "abort"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicySkip, PolicyAbort:
		return p, nil
	default:
		return "", fmt.Errorf("unknown policy %q, expected %q or %q", s, PolicySkip, PolicyAbort)
	}
}

// Request contains the parameters shared by every location of a run.
type Request struct {
	PlatformInstance string
	Environment      dataset.EnvironmentTag
	Date             time.Time
}

// Rejected is a location dropped under PolicySkip.
type Rejected struct {
	Location string
	Err      error
}

// Result holds the distinct identifiers of a run in first-seen order.
type Result struct {
	Identifiers []dataset.Identifier
	Rejected    []Rejected
	ReportKey   string
}

// Service pulls locations from a source, normalizes them and optionally
// stores a report.
type Service struct {
	source      LocationSource
	storage     ReportStorage
	policy      Policy
	concurrency int
}

// NewService creates a Service. reports may be nil to skip the report.
func NewService(source LocationSource, reports ReportStorage, policy Policy, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{source: source, storage: reports, policy: policy, concurrency: concurrency}
}

type outcome struct {
	id  dataset.Identifier
	err error
}

func (s *Service) Extract(ctx context.Context, req Request, runID model.RunID) (*Result, error) {
	if err := runID.Validate(); err != nil {
		return nil, err
	}

	locations, err := s.source.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}

	slog.DebugContext(ctx, "extraction started", "run_id", runID, "locations", len(locations), "policy", s.policy)

	outcomes := make([]outcome, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, loc := range locations {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id, err := dataset.Normalize(loc, req.PlatformInstance, req.Environment)
			if err != nil && s.policy == PolicyAbort {
				return fmt.Errorf("normalize: %w", err)
			}
			outcomes[i] = outcome{id: id, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	seen := make(map[dataset.Identifier]struct{}, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			slog.WarnContext(ctx, "skipping malformed location", "run_id", runID, "location", locations[i], "error", o.err)
			result.Rejected = append(result.Rejected, Rejected{Location: locations[i], Err: o.err})
			continue
		}
		if _, ok := seen[o.id]; ok {
			continue
		}
		seen[o.id] = struct{}{}
		result.Identifiers = append(result.Identifiers, o.id)
	}

	if s.storage != nil {
		key, err := s.storeReport(ctx, req, runID, result.Identifiers)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		result.ReportKey = key
	}

	slog.InfoContext(ctx, "extraction complete",
		"run_id", runID,
		"datasets", len(result.Identifiers),
		"rejected", len(result.Rejected),
		"report_key", result.ReportKey,
	)
	return result, nil
}

func (s *Service) storeReport(ctx context.Context, req Request, runID model.RunID, ids []dataset.Identifier) (string, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	key := storage.ReportKey{
		PlatformInstance: req.PlatformInstance,
		Environment:      req.Environment,
		Date:             date.Format("2006-01-02"),
		RunID:            runID,
		Extension:        "jsonl",
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, id := range ids {
		if err := enc.Encode(id); err != nil {
			return "", fmt.Errorf("encode report: %w", err)
		}
	}

	if err := s.storage.Put(ctx, key.Key(), &buf); err != nil {
		return "", err
	}
	return key.Key(), nil
}
