package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/highlights-cli/internal/model"
)

// PreviewSize bounds the highlight preview in batch results.
const PreviewSize = 10

// ProcessBatch processes a list of project ids with bounded concurrency.
// Individual project failures never abort the batch; they are recorded in the
// result. The returned counts always satisfy
// processed + cached + failed == total.
func (p *Processor) ProcessBatch(ctx context.Context, projectIDs []string, concurrency int, force bool) (*model.BatchResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("projects", len(projectIDs)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]*model.ProjectResult, len(projectIDs))
	failures := make([]*model.ProjectFailure, len(projectIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, id := range projectIDs {
		g.Go(func() error {
			result, err := p.ProcessProject(gctx, id, force)
			if err != nil {
				zap.L().Error("project failed",
					zap.String("project_id", id),
					zap.Error(err),
				)
				failures[i] = &model.ProjectFailure{ProjectID: id, Error: err.Error()}
				return nil // keep the batch going
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assembleBatch(projectIDs, results, failures, time.Now()), nil
}

// assembleBatch aggregates per-project outcomes in input order.
func assembleBatch(projectIDs []string, results []*model.ProjectResult, failures []*model.ProjectFailure, now time.Time) *model.BatchResult {
	batch := &model.BatchResult{
		TotalProjects: len(projectIDs),
		Highlights:    []model.Highlight{},
		Preview:       []model.Highlight{},
		Processed:     []model.ProjectSummary{},
		Cached:        []model.ProjectSummary{},
		Failed:        []model.ProjectFailure{},
		ProcessedAt:   now,
	}

	for i := range projectIDs {
		switch {
		case failures[i] != nil:
			batch.FailedCount++
			batch.Failed = append(batch.Failed, *failures[i])
		case results[i].FromCache:
			batch.CachedCount++
			batch.Cached = append(batch.Cached, summarize(results[i]))
			batch.Highlights = append(batch.Highlights, results[i].Highlights...)
		default:
			batch.ProcessedCount++
			batch.Processed = append(batch.Processed, summarize(results[i]))
			batch.Highlights = append(batch.Highlights, results[i].Highlights...)
		}
	}

	sortByScore(batch.Highlights)
	batch.TotalHighlights = len(batch.Highlights)

	n := len(batch.Highlights)
	if n > PreviewSize {
		n = PreviewSize
	}
	batch.Preview = batch.Highlights[:n]

	return batch
}
