// Package override implements manual status overrides: authorization against
// the source allow-list, the status commit that bypasses terminal stickiness,
// and the append-only audit record every successful override leaves behind.
package override

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/models"
	"onboard/internal/onboarding/ports"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/audit"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

// maxCommitAttempts mirrors the coordinator's retry bound: an override also
// commits under the revision guard and re-reads on conflict.
const maxCommitAttempts = 3

// Request carries everything one override needs. Source and SourceSecret
// identify the calling system; RequestedBy is the human (or system) identity
// asking for the change.
type Request struct {
	OnboardingID  id.OnboardingID
	NewStatus     models.OnboardingStatus
	Justification string
	Source        string
	SourceSecret  string
	RequestID     string
	RequestedBy   string
	Programs      []string
}

// Service performs authorized status overrides.
type Service struct {
	onboardings ports.StatusSink
	auditSink   ports.AuditSink
	authorizer  ports.Authorizer
	logger      *slog.Logger
	publisher   ports.AuditPublisher
	metrics     *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(onboardings ports.StatusSink, auditSink ports.AuditSink, authorizer ports.Authorizer, opts ...Option) *Service {
	s := &Service{onboardings: onboardings, auditSink: auditSink, authorizer: authorizer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply validates and executes one override. On authorization failure nothing
// is written and CodeForbidden comes back; on success the status is committed
// (terminal statuses included, that is the point of an override) and exactly
// one OverrideRecord is appended.
func (s *Service) Apply(ctx context.Context, req Request) (*models.OverrideRecord, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.IsAllowed(ctx, req.Source, req.SourceSecret, req.Programs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "authorization check failed")
	}
	if !allowed {
		s.metrics.IncrementOverride("denied")
		ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
			Category:     audit.CategorySecurity,
			Timestamp:    requestcontext.Now(ctx).UTC(),
			OnboardingID: req.OnboardingID,
			Action:       string(audit.EventOverrideDenied),
			Source:       req.Source,
			Actor:        req.RequestedBy,
		},
			"onboarding_id", req.OnboardingID,
			"source", req.Source,
			"reason", "source not on override allow-list for requested programs",
		)
		return nil, dErrors.New(dErrors.CodeForbidden, "source is not authorized to override this onboarding")
	}

	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		ob, err := s.onboardings.GetOnboarding(ctx, req.OnboardingID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "onboarding not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load onboarding")
		}

		if ob.Status == req.NewStatus {
			return nil, dErrors.Newf(dErrors.CodeValidation, "onboarding is already %s", req.NewStatus)
		}

		committed, err := s.onboardings.CommitStatus(ctx, req.OnboardingID, ob.Revision, req.NewStatus)
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "override commit failed")
		}

		record := &models.OverrideRecord{
			ID:               id.NewOverrideID(),
			OnboardingID:     req.OnboardingID,
			PreviousStatus:   ob.Status,
			NewStatus:        committed.Status,
			Justification:    req.Justification,
			Source:           req.Source,
			RequestID:        requestID(ctx, req),
			AllowedPrograms:  req.Programs,
			RequestedBy:      req.RequestedBy,
			ProcessedBy:      processedBy(ctx, req),
			ProcessedDate:    requestcontext.Now(ctx).UTC(),
			ClientIP:         requestcontext.ClientIP(ctx),
			UserAgentSummary: requestcontext.DeviceSummary(ctx),
		}
		if err := s.auditSink.AppendOverride(ctx, record); err != nil {
			// The status change already happened; losing its audit record is
			// worse than failing the call, so surface loudly.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "status was overridden but the audit record could not be written")
		}

		s.metrics.IncrementOverride("applied")
		ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
			Category:      audit.CategoryCompliance,
			Timestamp:     record.ProcessedDate,
			OnboardingID:  req.OnboardingID,
			Action:        string(audit.EventOverrideApplied),
			Source:        req.Source,
			Decision:      string(record.NewStatus),
			Reason:        record.Justification,
			RequestID:     record.RequestID,
			Actor:         record.RequestedBy,
			ClientIP:      record.ClientIP,
			DeviceSummary: record.UserAgentSummary,
		},
			"onboarding_id", req.OnboardingID,
			"previous_status", record.PreviousStatus,
			"new_status", record.NewStatus,
			"override_id", record.ID,
		)
		return record, nil
	}

	return nil, dErrors.New(dErrors.CodeConflict, "concurrent updates kept invalidating the override")
}

// List returns override records for an onboarding within [from, to]; zero
// times are open-ended. Reads never mutate the log.
func (s *Service) List(ctx context.Context, onboardingID id.OnboardingID, from, to time.Time) ([]models.OverrideRecord, error) {
	return s.auditSink.ListOverrides(ctx, onboardingID, from, to)
}

func (s *Service) validate(req *Request) error {
	if req.OnboardingID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "onboarding id is required")
	}
	if !req.NewStatus.Valid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown status %q", req.NewStatus)
	}
	if strings.TrimSpace(req.Justification) == "" {
		return dErrors.New(dErrors.CodeValidation, "justification is required")
	}
	if req.Source == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "source system is required")
	}
	if req.RequestedBy == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "requestedBy is required")
	}
	return nil
}

func requestID(ctx context.Context, req Request) string {
	if req.RequestID != "" {
		return req.RequestID
	}
	return requestcontext.RequestID(ctx)
}

func processedBy(ctx context.Context, req Request) string {
	if actor := requestcontext.Actor(ctx); actor != "" {
		return actor
	}
	return req.RequestedBy
}
