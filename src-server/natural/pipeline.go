package natural

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"quickcal/src-server/model"
	"quickcal/src-server/store"
	"quickcal/src-server/utils"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input: text is required")

type IngestStatus string

const (
	StatusCreated  IngestStatus = "created"
	StatusConflict IngestStatus = "conflict"
	StatusRejected IngestStatus = "rejected"
)

type IngestResult struct {
	Status IngestStatus
	// first actionable reason when rejected; ErrInvalidInput or ErrNoDateFound
	Reason error
	// the created event, or the discarded proposal on conflict
	Event *model.Event
	// every overlapping existing event, in collection order
	Conflicts []model.Event
}

// Pipeline turns one free-form sentence into a persisted event, or into a
// conflict report the caller can act on. A conflict persists nothing; the
// caller resubmits with edited text or force set.
type Pipeline struct {
	dates  *DateTimeExtractor
	titles TitleExtractor
	store  *store.Store
	metric *utils.Metric

	// serializes the read-check-append round trip so concurrent requests
	// can't both pass the conflict check and append
	mu sync.Mutex
}

func NewPipeline(dates *DateTimeExtractor, st *store.Store, metric *utils.Metric) *Pipeline {
	return &Pipeline{dates: dates, store: st, metric: metric}
}

func (p *Pipeline) Ingest(ctx context.Context, text string, force bool) (IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		p.metric.ReportIngestOutcome(string(StatusRejected))
		return IngestResult{Status: StatusRejected, Reason: ErrInvalidInput}, nil
	}

	timeRange, err := p.dates.Extract(text, time.Now())
	if err != nil {
		p.metric.ReportIngestOutcome(string(StatusRejected))
		return IngestResult{Status: StatusRejected, Reason: ErrNoDateFound}, nil
	}

	proposed := &model.Event{
		ID:           uuid.NewString(),
		Title:        p.titles.Extract(text),
		StartUnixUTC: timeRange.Start.UTC().Unix(),
		EndUnixUTC:   timeRange.End.UTC().Unix(),
		AllDay:       timeRange.AllDay,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var result IngestResult
	if err := p.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.ReadAll(ctx)
		if err != nil {
			return err
		}
		conflicts := Overlapping(*proposed, existing)
		if len(conflicts) > 0 && !force {
			result = IngestResult{
				Status:    StatusConflict,
				Event:     proposed,
				Conflicts: conflicts,
			}
			return nil
		}
		if err := tx.Append(ctx, proposed); err != nil {
			return err
		}
		result = IngestResult{Status: StatusCreated, Event: proposed}
		return nil
	}); err != nil {
		return IngestResult{}, fmt.Errorf("(*Pipeline).Ingest: %w", err)
	}

	p.metric.ReportIngestOutcome(string(result.Status))
	return result, nil
}
