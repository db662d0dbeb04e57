package handler

import (
	"time"

	"onboard/internal/onboarding/coordinator"
	"onboard/internal/onboarding/models"
	"onboard/internal/onboarding/stages"
	id "onboard/pkg/domain"
)

// EvaluateResponse is the HTTP response for evaluate and preview calls.
type EvaluateResponse struct {
	OnboardingID string          `json:"onboarding_id"`
	FinalStatus  string          `json:"final_status"`
	Changed      bool            `json:"changed"`
	Committed    bool            `json:"committed"`
	Revision     int64           `json:"revision"`
	Attempts     int             `json:"attempts,omitempty"`
	Trace        []TraceResponse `json:"trace"`
}

// TraceResponse is one rule evaluation in the response trace.
type TraceResponse struct {
	RuleOrder          int    `json:"rule_order"`
	GroupName          string `json:"group_name"`
	EngineName         string `json:"engine_name"`
	RuleNumber         int    `json:"rule_number"`
	RequirementName    string `json:"requirement_name,omitempty"`
	ExpectedStatus     string `json:"expected_status,omitempty"`
	Passed             bool   `json:"passed"`
	Logic              string `json:"logic"`
	ResultingStatus    string `json:"resulting_status,omitempty"`
	ShortCircuitReason string `json:"short_circuit_reason,omitempty"`
	Reason             string `json:"reason,omitempty"`
}

// FromOutcome converts a coordinator outcome to an HTTP response.
func FromOutcome(outcome *coordinator.Outcome) *EvaluateResponse {
	trace := make([]TraceResponse, 0, len(outcome.Trace))
	for _, entry := range outcome.Trace {
		trace = append(trace, TraceResponse{
			RuleOrder:          entry.RuleOrder,
			GroupName:          entry.GroupName,
			EngineName:         entry.EngineName,
			RuleNumber:         entry.RuleNumber,
			RequirementName:    entry.RequirementName,
			ExpectedStatus:     string(entry.ExpectedStatus),
			Passed:             entry.Passed,
			Logic:              string(entry.Logic),
			ResultingStatus:    string(entry.ResultingStatus),
			ShortCircuitReason: entry.ShortCircuitReason,
			Reason:             entry.Reason,
		})
	}
	return &EvaluateResponse{
		OnboardingID: outcome.Onboarding.ID.String(),
		FinalStatus:  string(outcome.FinalStatus),
		Changed:      outcome.Changed,
		Committed:    outcome.Committed,
		Revision:     outcome.Onboarding.Revision,
		Attempts:     outcome.Attempts,
		Trace:        trace,
	}
}

// StageResponse is one resolved stage in GET /processes/{id}/stages.
type StageResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Sequence        int      `json:"sequence"`
	State           string   `json:"state"`
	BlockingReasons []string `json:"blocking_reasons,omitempty"`
}

// StagesResponse is the HTTP response for GET /processes/{id}/stages.
type StagesResponse struct {
	ProcessID string          `json:"process_id"`
	Stages    []StageResponse `json:"stages"`
}

// FromResolutions converts resolved stages to an HTTP response, ordered by
// stage sequence.
func FromResolutions(processID id.ProcessID, stageList []models.Stage, resolutions map[id.StageID]stages.Resolution) *StagesResponse {
	out := make([]StageResponse, 0, len(stageList))
	for _, st := range stageList {
		res := resolutions[st.ID]
		out = append(out, StageResponse{
			ID:              st.ID.String(),
			Name:            st.Name,
			Sequence:        st.Sequence,
			State:           string(res.State),
			BlockingReasons: res.BlockingReasons,
		})
	}
	return &StagesResponse{ProcessID: processID.String(), Stages: out}
}

// ConfigVersionResponse is the HTTP response for GET /onboardings/{id}/config-version.
// PollIntervalSeconds tells the client how often to re-check for drift.
type ConfigVersionResponse struct {
	OnboardingID        string `json:"onboarding_id"`
	Marker              int64  `json:"marker"`
	PollIntervalSeconds int64  `json:"poll_interval_seconds"`
}

// DriftResponse is the HTTP response for GET /onboardings/{id}/drift.
type DriftResponse struct {
	OnboardingID string `json:"onboarding_id"`
	Marker       int64  `json:"marker"`
	Drifted      bool   `json:"drifted"`
}

// OverrideResponse is the HTTP response for override calls and listings.
type OverrideResponse struct {
	ID               string    `json:"id"`
	OnboardingID     string    `json:"onboarding_id"`
	PreviousStatus   string    `json:"previous_status"`
	NewStatus        string    `json:"new_status"`
	Justification    string    `json:"justification"`
	Source           string    `json:"source"`
	RequestID        string    `json:"request_id,omitempty"`
	RequestedBy      string    `json:"requested_by"`
	ProcessedBy      string    `json:"processed_by"`
	ProcessedDate    time.Time `json:"processed_date"`
	ClientIP         string    `json:"client_ip,omitempty"`
	UserAgentSummary string    `json:"user_agent_summary,omitempty"`
}

// FromOverrideRecord converts an audit record to an HTTP response.
func FromOverrideRecord(record *models.OverrideRecord) *OverrideResponse {
	return &OverrideResponse{
		ID:               record.ID.String(),
		OnboardingID:     record.OnboardingID.String(),
		PreviousStatus:   string(record.PreviousStatus),
		NewStatus:        string(record.NewStatus),
		Justification:    record.Justification,
		Source:           record.Source,
		RequestID:        record.RequestID,
		RequestedBy:      record.RequestedBy,
		ProcessedBy:      record.ProcessedBy,
		ProcessedDate:    record.ProcessedDate,
		ClientIP:         record.ClientIP,
		UserAgentSummary: record.UserAgentSummary,
	}
}

// OverrideListResponse is the HTTP response for GET /onboardings/{id}/overrides.
type OverrideListResponse struct {
	OnboardingID string             `json:"onboarding_id"`
	Overrides    []OverrideResponse `json:"overrides"`
}

// ReevaluateResponse is the HTTP response for POST /onboardings/reevaluate.
type ReevaluateResponse struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// FromBatchResult converts a batch result to an HTTP response.
func FromBatchResult(result *coordinator.BatchResult) *ReevaluateResponse {
	resp := &ReevaluateResponse{Succeeded: result.Succeeded, Failed: result.Failed}
	if len(result.Errors) > 0 {
		resp.Errors = make(map[string]string, len(result.Errors))
		for onboardingID, msg := range result.Errors {
			resp.Errors[onboardingID.String()] = msg
		}
	}
	return resp
}
