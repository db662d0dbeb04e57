package handler

import (
	"strings"
	"time"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// PreviewRequest is the HTTP request body for POST /onboardings/{id}/evaluate/preview.
type PreviewRequest struct {
	AsOf      *time.Time `json:"as_of,omitempty"`
	EngineIDs []string   `json:"engine_ids,omitempty"`

	// Parsed values (populated by Validate)
	parsedEngineIDs []id.EngineID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PreviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.EngineIDs) > 50 {
		return dErrors.New(dErrors.CodeValidation, "engine_ids must contain at most 50 entries")
	}
	r.parsedEngineIDs = make([]id.EngineID, 0, len(r.EngineIDs))
	for _, raw := range r.EngineIDs {
		engineID, err := id.ParseEngineID(strings.TrimSpace(raw))
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "invalid engine id %q", raw)
		}
		r.parsedEngineIDs = append(r.parsedEngineIDs, engineID)
	}
	return nil
}

// ParsedEngineIDs returns the validated engine filter.
func (r *PreviewRequest) ParsedEngineIDs() []id.EngineID {
	return r.parsedEngineIDs
}

// OverrideRequest is the HTTP request body for POST /onboardings/{id}/override.
type OverrideRequest struct {
	NewStatus     string   `json:"new_status"`
	Justification string   `json:"justification"`
	Source        string   `json:"source,omitempty"`
	SourceSecret  string   `json:"source_secret"`
	RequestID     string   `json:"request_id,omitempty"`
	Programs      []string `json:"programs"`

	parsedStatus models.OnboardingStatus
}

// Validate validates and parses the request. Source may be omitted when the
// bearer token already identifies the calling system.
func (r *OverrideRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.NewStatus = strings.TrimSpace(r.NewStatus)
	if r.NewStatus == "" {
		return dErrors.New(dErrors.CodeValidation, "new_status is required")
	}
	status, err := models.ParseOnboardingStatus(r.NewStatus)
	if err != nil {
		return err
	}
	r.parsedStatus = status

	if strings.TrimSpace(r.Justification) == "" {
		return dErrors.New(dErrors.CodeValidation, "justification is required")
	}
	if len(r.Justification) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "justification must be at most 2000 characters")
	}
	if r.SourceSecret == "" {
		return dErrors.New(dErrors.CodeValidation, "source_secret is required")
	}
	if len(r.Programs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "programs is required")
	}
	return nil
}

// ParsedStatus returns the validated target status.
func (r *OverrideRequest) ParsedStatus() models.OnboardingStatus {
	return r.parsedStatus
}

// ReevaluateRequest is the HTTP request body for POST /onboardings/reevaluate.
type ReevaluateRequest struct {
	OnboardingIDs []string `json:"onboarding_ids"`
	Parallelism   int      `json:"parallelism,omitempty"`

	parsedIDs []id.OnboardingID
}

// Validate validates and parses the request.
func (r *ReevaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.OnboardingIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "onboarding_ids is required")
	}
	if len(r.OnboardingIDs) > 10000 {
		return dErrors.New(dErrors.CodeValidation, "onboarding_ids must contain at most 10000 entries")
	}
	if r.Parallelism < 0 {
		return dErrors.New(dErrors.CodeValidation, "parallelism cannot be negative")
	}
	r.parsedIDs = make([]id.OnboardingID, 0, len(r.OnboardingIDs))
	for _, raw := range r.OnboardingIDs {
		onboardingID, err := id.ParseOnboardingID(strings.TrimSpace(raw))
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "invalid onboarding id %q", raw)
		}
		r.parsedIDs = append(r.parsedIDs, onboardingID)
	}
	return nil
}

// ParsedOnboardingIDs returns the validated batch targets.
func (r *ReevaluateRequest) ParsedOnboardingIDs() []id.OnboardingID {
	return r.parsedIDs
}
