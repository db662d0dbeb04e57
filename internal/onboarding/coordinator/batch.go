package coordinator

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"onboard/internal/onboarding/ports"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/audit"
	"onboard/pkg/requestcontext"
)

// BatchResult collects per-onboarding outcomes of one batch re-evaluation.
type BatchResult struct {
	Succeeded int                        `json:"succeeded"`
	Failed    int                        `json:"failed"`
	Errors    map[id.OnboardingID]string `json:"errors,omitempty"`
}

// ReevaluateAll re-runs evaluate-and-commit for every given onboarding with
// bounded parallelism. Each onboarding goes through the same per-identity
// optimistic commit path as a single evaluation; the batch never bypasses the
// revision guard. Per-onboarding failures are collected, not fatal, so one
// bad record cannot sink a scheduled recheck.
func (c *Coordinator) ReevaluateAll(ctx context.Context, ids []id.OnboardingID, parallelism int) (*BatchResult, error) {
	if parallelism <= 0 {
		parallelism = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	var mu sync.Mutex
	result := &BatchResult{Errors: make(map[id.OnboardingID]string)}

	for _, onboardingID := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.EvaluateAndCommit(ctx, onboardingID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors[onboardingID] = err.Error()
				c.metrics.IncrementBatchResult("failed")
				return nil
			}
			result.Succeeded++
			c.metrics.IncrementBatchResult("succeeded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	ports.LogAudit(ctx, c.logger, c.publisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx).UTC(),
		Action:    string(audit.EventBatchReevaluated),
	},
		"total", len(ids),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}
