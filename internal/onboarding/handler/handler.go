package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"onboard/internal/onboarding/coordinator"
	"onboard/internal/onboarding/metrics"
	"onboard/internal/onboarding/models"
	"onboard/internal/onboarding/override"
	"onboard/internal/onboarding/stages"
	"onboard/internal/onboarding/staleness"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
	"onboard/pkg/requestcontext"
)

// defaultBatchParallelism bounds batch re-evaluation when the caller does not
// ask for a specific width.
const defaultBatchParallelism = 8

// defaultPollInterval is advertised to clients as the drift polling cadence
// when the server configuration does not set one.
const defaultPollInterval = 30 * time.Second

// Evaluator defines the interface for status evaluation operations.
type Evaluator interface {
	EvaluateAndCommit(ctx context.Context, onboardingID id.OnboardingID) (*coordinator.Outcome, error)
	Preview(ctx context.Context, onboardingID id.OnboardingID, asOf time.Time, engineFilter []id.EngineID) (*coordinator.Outcome, error)
	ReevaluateAll(ctx context.Context, ids []id.OnboardingID, parallelism int) (*coordinator.BatchResult, error)
}

// Overrides defines the interface for manual override operations.
type Overrides interface {
	Apply(ctx context.Context, req override.Request) (*models.OverrideRecord, error)
	List(ctx context.Context, onboardingID id.OnboardingID, from, to time.Time) ([]models.OverrideRecord, error)
}

// StalenessChecker defines the interface for configuration drift checks.
type StalenessChecker interface {
	Capture(ctx context.Context, onboardingID id.OnboardingID) (staleness.Marker, error)
	HasDrifted(ctx context.Context, onboardingID id.OnboardingID, captured staleness.Marker) (bool, error)
}

// StageReader provides the stage graph for a process.
type StageReader interface {
	GetStages(ctx context.Context, processID id.ProcessID) ([]models.Stage, error)
}

// Handler wires onboarding status endpoints to their services.
type Handler struct {
	evaluator    Evaluator
	overrides    Overrides
	staleness    StalenessChecker
	stages       StageReader
	logger       *slog.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration

	batchParallelism int
}

// Option configures optional handler behavior.
type Option func(h *Handler)

// WithPollInterval sets the drift polling cadence advertised to clients on
// config-version captures.
func WithPollInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.pollInterval = d
		}
	}
}

// WithBatchParallelism sets the default width for batch re-evaluation when a
// request does not ask for one.
func WithBatchParallelism(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.batchParallelism = n
		}
	}
}

// New constructs an onboarding handler with its dependencies.
func New(evaluator Evaluator, overrides Overrides, stalenessChecker StalenessChecker, stageReader StageReader, logger *slog.Logger, metrics *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		evaluator:    evaluator,
		overrides:    overrides,
		staleness:    stalenessChecker,
		stages:       stageReader,
		logger:       logger,
		metrics:      metrics,
		pollInterval: defaultPollInterval,

		batchParallelism: defaultBatchParallelism,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the evaluation and read endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/onboardings/{onboardingID}/evaluate", h.HandleEvaluate)
	r.Post("/onboardings/{onboardingID}/evaluate/preview", h.HandlePreview)
	r.Get("/onboardings/{onboardingID}/config-version", h.HandleConfigVersion)
	r.Get("/onboardings/{onboardingID}/drift", h.HandleDrift)
	r.Get("/onboardings/{onboardingID}/overrides", h.HandleListOverrides)
	r.Get("/processes/{processID}/stages", h.HandleStages)
}

// RegisterOverride mounts the override endpoint. The caller wraps the router
// with bearer-token authentication before registering.
func (h *Handler) RegisterOverride(r chi.Router) {
	r.Post("/onboardings/{onboardingID}/override", h.HandleOverride)
}

// RegisterAdmin mounts operator endpoints. The caller wraps the router with
// the admin-token middleware before registering.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/onboardings/reevaluate", h.HandleReevaluate)
}

// HandleEvaluate handles POST /onboardings/{id}/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	onboardingID, ok := h.pathOnboardingID(w, r)
	if !ok {
		return
	}

	outcome, err := h.evaluator.EvaluateAndCommit(ctx, onboardingID)
	if err != nil {
		h.logger.ErrorContext(ctx, "status evaluation failed",
			"request_id", requestID,
			"onboarding_id", onboardingID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status evaluated",
		"request_id", requestID,
		"onboarding_id", onboardingID,
		"final_status", outcome.FinalStatus,
		"changed", outcome.Changed,
		"attempts", outcome.Attempts,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromOutcome(outcome))
}

// HandlePreview handles POST /onboardings/{id}/evaluate/preview requests.
// Previews never write; the body may narrow the engines and pin the
// evaluation time.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	onboardingID, ok := h.pathOnboardingID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[PreviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	asOf := requestcontext.Now(ctx)
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	outcome, err := h.evaluator.Preview(ctx, onboardingID, asOf, req.ParsedEngineIDs())
	if err != nil {
		h.logger.ErrorContext(ctx, "status preview failed",
			"request_id", requestID,
			"onboarding_id", onboardingID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromOutcome(outcome))
}

// HandleStages handles GET /processes/{id}/stages requests.
func (h *Handler) HandleStages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	processID, err := id.ParseProcessID(chi.URLParam(r, "processID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid process id"))
		return
	}

	stageList, err := h.stages.GetStages(ctx, processID)
	if err != nil {
		h.logger.ErrorContext(ctx, "stage load failed",
			"request_id", requestID,
			"process_id", processID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resolutions, err := stages.Resolve(stageList)
	if err != nil {
		h.logger.ErrorContext(ctx, "stage resolution failed",
			"request_id", requestID,
			"process_id", processID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromResolutions(processID, stageList, resolutions))
}

// HandleConfigVersion handles GET /onboardings/{id}/config-version requests.
func (h *Handler) HandleConfigVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	onboardingID, ok := h.pathOnboardingID(w, r)
	if !ok {
		return
	}

	marker, err := h.staleness.Capture(ctx, onboardingID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &ConfigVersionResponse{
		OnboardingID:        onboardingID.String(),
		Marker:              int64(marker),
		PollIntervalSeconds: int64(h.pollInterval / time.Second),
	})
}

// HandleDrift handles GET /onboardings/{id}/drift?marker=N requests.
func (h *Handler) HandleDrift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	onboardingID, ok := h.pathOnboardingID(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("marker")
	marker, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || marker < 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "marker must be a non-negative integer"))
		return
	}

	drifted, err := h.staleness.HasDrifted(ctx, onboardingID, staleness.Marker(marker))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if drifted {
		h.metrics.IncrementDrift()
	}

	httputil.WriteJSON(w, http.StatusOK, &DriftResponse{
		OnboardingID: onboardingID.String(),
		Marker:       marker,
		Drifted:      drifted,
	})
}

// HandleOverride handles POST /onboardings/{id}/override requests. The route
// sits behind bearer-token authentication; the token supplies the caller
// identity and, when the body omits it, the source system.
func (h *Handler) HandleOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	onboardingID, ok := h.pathOnboardingID(w, r)
	if !ok {
		return
	}

	requestedBy := requestcontext.Actor(ctx)
	if requestedBy == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[OverrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	source := req.Source
	if source == "" {
		source = requestcontext.Source(ctx)
	}

	record, err := h.overrides.Apply(ctx, override.Request{
		OnboardingID:  onboardingID,
		NewStatus:     req.ParsedStatus(),
		Justification: req.Justification,
		Source:        source,
		SourceSecret:  req.SourceSecret,
		RequestID:     req.RequestID,
		RequestedBy:   requestedBy,
		Programs:      req.Programs,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "override failed",
			"request_id", requestID,
			"onboarding_id", onboardingID,
			"source", source,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "override applied",
		"request_id", requestID,
		"onboarding_id", onboardingID,
		"source", source,
		"new_status", record.NewStatus,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromOverrideRecord(record))
}

// HandleListOverrides handles GET /onboardings/{id}/overrides?from&to requests.
func (h *Handler) HandleListOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	onboardingID, ok := h.pathOnboardingID(w, r)
	if !ok {
		return
	}

	from, ok := h.queryTime(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.queryTime(w, r, "to")
	if !ok {
		return
	}

	records, err := h.overrides.List(ctx, onboardingID, from, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]OverrideResponse, 0, len(records))
	for i := range records {
		out = append(out, *FromOverrideRecord(&records[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, &OverrideListResponse{
		OnboardingID: onboardingID.String(),
		Overrides:    out,
	})
}

// HandleReevaluate handles POST /onboardings/reevaluate requests.
func (h *Handler) HandleReevaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ReevaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	parallelism := req.Parallelism
	if parallelism == 0 {
		parallelism = h.batchParallelism
	}

	result, err := h.evaluator.ReevaluateAll(ctx, req.ParsedOnboardingIDs(), parallelism)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch re-evaluation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "batch re-evaluation finished",
		"request_id", requestID,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromBatchResult(result))
}

func (h *Handler) pathOnboardingID(w http.ResponseWriter, r *http.Request) (id.OnboardingID, bool) {
	onboardingID, err := id.ParseOnboardingID(chi.URLParam(r, "onboardingID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid onboarding id"))
		return id.OnboardingID{}, false
	}
	return onboardingID, true
}

func (h *Handler) queryTime(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be RFC 3339", name))
		return time.Time{}, false
	}
	return t, true
}
