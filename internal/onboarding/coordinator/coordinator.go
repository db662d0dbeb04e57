// Package coordinator orchestrates status determination: it loads the
// evaluation snapshot, runs the rule engine, and commits the result under
// optimistic concurrency control. It is the only component external callers
// invoke for evaluation.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"onboard/internal/onboarding/engine"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/models"
	"onboard/internal/onboarding/ports"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/audit"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

// maxCommitAttempts bounds how often a conflicted evaluation is recomputed
// before the conflict surfaces to the caller.
const maxCommitAttempts = 3

const tracerName = "onboard/coordinator"

// Outcome is the result of one evaluate-and-commit cycle.
type Outcome struct {
	Onboarding  models.Onboarding       `json:"onboarding"`
	FinalStatus models.OnboardingStatus `json:"final_status"`
	Changed     bool                    `json:"changed"`
	Committed   bool                    `json:"committed"`
	Attempts    int                     `json:"attempts"`
	Trace       []models.TraceEntry     `json:"trace"`
}

// Coordinator wires the pure engine to its collaborator ports.
type Coordinator struct {
	onboardings  ports.StatusSink
	requirements ports.RequirementSource
	rules        ports.RulesSource
	logger       *slog.Logger
	publisher    ports.AuditPublisher
	metrics      *metrics.Metrics
}

type Option func(c *Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(c *Coordinator) {
		c.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// New constructs a Coordinator.
func New(onboardings ports.StatusSink, requirements ports.RequirementSource, rules ports.RulesSource, opts ...Option) *Coordinator {
	c := &Coordinator{onboardings: onboardings, requirements: requirements, rules: rules}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EvaluateAndCommit runs one full determination cycle. On a revision
// conflict the whole evaluation recomputes from fresh state; after
// maxCommitAttempts the conflict surfaces as CodeConflict. A no-change
// result skips the write entirely, leaving the revision untouched.
func (c *Coordinator) EvaluateAndCommit(ctx context.Context, onboardingID id.OnboardingID) (*Outcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "coordinator.EvaluateAndCommit")
	defer span.End()
	span.SetAttributes(attribute.String("onboarding.id", onboardingID.String()))

	start := time.Now()
	defer func() {
		c.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	var lastErr error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		outcome, err := c.evaluateOnce(ctx, onboardingID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "evaluation failed")
			return nil, err
		}
		outcome.Attempts = attempt

		if !outcome.Changed {
			c.metrics.IncrementEvaluation(string(outcome.FinalStatus), false)
			c.logEvaluated(ctx, outcome, "unchanged")
			return outcome, nil
		}

		committed, err := c.onboardings.CommitStatus(ctx, onboardingID, outcome.Onboarding.Revision, outcome.FinalStatus)
		if err == nil {
			outcome.Onboarding = *committed
			outcome.Committed = true
			c.metrics.IncrementEvaluation(string(outcome.FinalStatus), true)
			span.SetAttributes(attribute.Int("commit.attempts", attempt))
			c.logEvaluated(ctx, outcome, "committed")
			return outcome, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "commit failed")
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "status commit failed")
		}

		// Someone else committed first; recompute against their result.
		lastErr = err
		c.metrics.IncrementCommitRetry()
		ports.LogAudit(ctx, c.logger, c.publisher, audit.Event{
			Category:     audit.CategoryOperations,
			Timestamp:    requestcontext.Now(ctx).UTC(),
			OnboardingID: onboardingID,
			Action:       string(audit.EventEvaluationRetried),
		},
			"onboarding_id", onboardingID,
			"attempt", attempt,
			"stale_revision", outcome.Onboarding.Revision,
		)
	}

	c.metrics.IncrementCommitConflict()
	span.SetStatus(codes.Error, "revision conflicts exhausted retries")
	return nil, dErrors.Wrap(lastErr, dErrors.CodeConflict,
		"concurrent updates kept invalidating the evaluation")
}

// Preview runs a side-effect-free what-if evaluation, optionally narrowed to
// specific engines. Nothing is committed regardless of the result.
func (c *Coordinator) Preview(ctx context.Context, onboardingID id.OnboardingID, asOf time.Time, engineFilter []id.EngineID) (*Outcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "coordinator.Preview")
	defer span.End()
	span.SetAttributes(attribute.String("onboarding.id", onboardingID.String()))

	outcome, err := c.evaluateOnceFiltered(ctx, onboardingID, asOf, engineFilter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "preview failed")
		return nil, err
	}
	outcome.Attempts = 1
	return outcome, nil
}

func (c *Coordinator) evaluateOnce(ctx context.Context, onboardingID id.OnboardingID) (*Outcome, error) {
	return c.evaluateOnceFiltered(ctx, onboardingID, requestcontext.Now(ctx), nil)
}

func (c *Coordinator) evaluateOnceFiltered(ctx context.Context, onboardingID id.OnboardingID, asOf time.Time, engineFilter []id.EngineID) (*Outcome, error) {
	ob, err := c.onboardings.GetOnboarding(ctx, onboardingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "onboarding not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load onboarding")
	}

	reqs, err := c.requirements.GetRequirements(ctx, onboardingID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "load requirements")
	}
	engines, err := c.rules.GetApplicableEngines(ctx, ob.ProgramGroupID, ob.RequirementGroupID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "load rules configuration")
	}

	result, err := engine.Evaluate(engine.Input{
		Onboarding:   *ob,
		Requirements: reqs,
		Engines:      engines,
		AsOf:         asOf,
		EngineFilter: engineFilter,
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Onboarding:  *ob,
		FinalStatus: result.FinalStatus,
		Changed:     result.Changed,
		Trace:       result.Trace,
	}, nil
}

func (c *Coordinator) logEvaluated(ctx context.Context, outcome *Outcome, decision string) {
	ports.LogAudit(ctx, c.logger, c.publisher, audit.Event{
		Category:     audit.CategoryOperations,
		Timestamp:    requestcontext.Now(ctx).UTC(),
		OnboardingID: outcome.Onboarding.ID,
		Action:       string(audit.EventStatusEvaluated),
		Decision:     decision,
	},
		"onboarding_id", outcome.Onboarding.ID,
		"final_status", outcome.FinalStatus,
		"changed", outcome.Changed,
		"attempts", outcome.Attempts,
		"trace_entries", len(outcome.Trace),
	)
}
