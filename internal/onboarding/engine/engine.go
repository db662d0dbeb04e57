// Package engine implements rule-based status determination: it walks the
// ordered rule sets of every applicable engine and produces a final status
// plus a diagnostic trace.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"onboard/internal/onboarding/expr"
	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// Input is the complete snapshot one evaluation runs against. The engine is
// a pure function of its input: identical inputs produce an identical trace
// and final status.
type Input struct {
	Onboarding   models.Onboarding
	Requirements []models.Requirement
	Engines      []models.RulesEngine

	// AsOf is informational; it stamps nothing today but callers pass the
	// evaluation time so previews can be correlated with audit logs.
	AsOf time.Time

	// EngineFilter restricts evaluation to the named engines (preview
	// mode). Empty means all applicable engines.
	EngineFilter []id.EngineID
}

// Result is the outcome of one evaluation run.
type Result struct {
	FinalStatus models.OnboardingStatus
	Changed     bool
	Trace       []models.TraceEntry
}

// Evaluate walks every applicable engine in deterministic order and combines
// their candidate statuses. The last engine to yield a candidate wins, except
// that a terminal current status (Denied/Expired) is never overridden by
// ordinary evaluation.
func Evaluate(in Input) (*Result, error) {
	engines, err := selectEngines(in.Engines, in.EngineFilter)
	if err != nil {
		return nil, err
	}

	bindings := make(expr.Bindings, len(in.Requirements))
	statuses := make(map[string]models.RequirementStatus, len(in.Requirements))
	for _, r := range in.Requirements {
		bindings[r.Name] = string(r.Status)
		statuses[r.Name] = r.Status
	}

	var (
		trace     []models.TraceEntry
		candidate models.OnboardingStatus
		ruleOrder int
	)
	for _, eng := range engines {
		rules := make([]models.StatusRule, len(eng.Rules))
		copy(rules, eng.Rules)
		sort.SliceStable(rules, func(i, j int) bool { return rules[i].Sequence < rules[j].Sequence })

		for _, rule := range rules {
			ruleOrder++
			entry := models.TraceEntry{
				RuleOrder:  ruleOrder,
				GroupName:  groupName(eng),
				EngineName: eng.Name,
				RuleNumber: rule.Sequence,
				Logic:      rule.Logic,
			}

			passed, reason := evaluateRule(rule, statuses, bindings, &entry)
			entry.Passed = passed
			entry.Reason = reason
			if passed {
				entry.ResultingStatus = rule.ResultingStatus
				entry.ShortCircuitReason = fmt.Sprintf("rule %d passed in engine %q", rule.Sequence, eng.Name)
				trace = append(trace, entry)
				candidate = rule.ResultingStatus
				break
			}
			trace = append(trace, entry)
		}
	}

	final := in.Onboarding.Status
	if candidate != "" && !in.Onboarding.Status.Terminal() {
		final = candidate
	}
	return &Result{
		FinalStatus: final,
		Changed:     final != in.Onboarding.Status,
		Trace:       trace,
	}, nil
}

// selectEngines applies the optional filter and fixes the evaluation order:
// priority ascending, then engine ID as the tiebreak so ordering never
// depends on input order.
func selectEngines(engines []models.RulesEngine, filter []id.EngineID) ([]models.RulesEngine, error) {
	selected := make([]models.RulesEngine, 0, len(engines))
	if len(filter) == 0 {
		selected = append(selected, engines...)
	} else {
		wanted := make(map[id.EngineID]bool, len(filter))
		for _, f := range filter {
			wanted[f] = true
		}
		for _, eng := range engines {
			if wanted[eng.ID] {
				selected = append(selected, eng)
				delete(wanted, eng.ID)
			}
		}
		if len(wanted) > 0 {
			missing := make([]string, 0, len(wanted))
			for engID := range wanted {
				missing = append(missing, engID.String())
			}
			sort.Strings(missing)
			return nil, dErrors.Newf(dErrors.CodeConfiguration,
				"referenced rules engine not in scope: %s", strings.Join(missing, ", "))
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Priority != selected[j].Priority {
			return selected[i].Priority < selected[j].Priority
		}
		return selected[i].ID.String() < selected[j].ID.String()
	})
	return selected, nil
}

// evaluateRule applies one rule's condition against the requirement snapshot.
// Evaluation errors are absorbed as a failed rule with the error text as the
// reason; they never abort the run.
func evaluateRule(rule models.StatusRule, statuses map[string]models.RequirementStatus, bindings expr.Bindings, entry *models.TraceEntry) (bool, string) {
	switch rule.Logic {
	case models.LogicAll:
		if len(rule.Checks) == 0 {
			return false, "rule has no requirement checks"
		}
		for _, check := range rule.Checks {
			entry.RequirementName = check.Name
			entry.ExpectedStatus = check.RequiredStatus
			got, ok := statuses[check.Name]
			if !ok {
				return false, fmt.Sprintf("requirement %q not present on onboarding", check.Name)
			}
			if !got.AtLeast(check.RequiredStatus) {
				return false, fmt.Sprintf("requirement %q is %s, needs %s", check.Name, got, check.RequiredStatus)
			}
		}
		return true, ""
	case models.LogicAny:
		var reasons []string
		for _, check := range rule.Checks {
			entry.RequirementName = check.Name
			entry.ExpectedStatus = check.RequiredStatus
			got, ok := statuses[check.Name]
			if !ok {
				reasons = append(reasons, fmt.Sprintf("requirement %q not present", check.Name))
				continue
			}
			if got.AtLeast(check.RequiredStatus) {
				return true, ""
			}
			reasons = append(reasons, fmt.Sprintf("requirement %q is %s, needs %s", check.Name, got, check.RequiredStatus))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "rule has no requirement checks")
		}
		return false, strings.Join(reasons, "; ")
	case models.LogicCustom:
		ok, err := expr.Evaluate(rule.CustomExpression, bindings)
		if err != nil {
			return false, fmt.Sprintf("custom expression failed: %s", dErrors.MessageOf(err))
		}
		if !ok {
			return false, "custom expression evaluated to false"
		}
		return true, ""
	default:
		return false, fmt.Sprintf("unknown evaluation logic %q", rule.Logic)
	}
}

func groupName(eng models.RulesEngine) string {
	return eng.ProgramGroupID.String() + "/" + eng.RequirementGroupID.String()
}
