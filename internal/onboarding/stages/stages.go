// Package stages computes per-stage readiness from the predecessor graph.
// The graph must be a DAG; a cycle is a configuration error, never silently
// tolerated or partially resolved.
package stages

import (
	"fmt"
	"sort"
	"strings"

	"onboard/internal/onboarding/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	pkgstrings "onboard/pkg/platform/strings"
)

// Resolution is the derived state of one stage.
type Resolution struct {
	State           models.StageState `json:"state"`
	BlockingReasons []string          `json:"blocking_reasons,omitempty"`
}

// Resolve validates the predecessor graph and derives every stage's state.
//
// Precedence per stage: Complete if the stage is completed; else Blocked if
// it carries an explicit block flag or any predecessor is Blocked; else
// Waiting if any predecessor is not yet Complete; else Ready. A stage with no
// predecessors is never Waiting.
func Resolve(stageList []models.Stage) (map[id.StageID]Resolution, error) {
	byID := make(map[id.StageID]models.Stage, len(stageList))
	for _, st := range stageList {
		byID[st.ID] = st
	}

	for _, st := range stageList {
		for _, pred := range st.RequiredStageIDs {
			if _, ok := byID[pred]; !ok {
				return nil, dErrors.Newf(dErrors.CodeConfiguration,
					"stage %q references unknown predecessor %s", st.Name, pred)
			}
		}
	}
	if err := checkAcyclic(stageList, byID); err != nil {
		return nil, err
	}

	resolutions := make(map[id.StageID]Resolution, len(stageList))
	var resolve func(stageID id.StageID) Resolution
	resolve = func(stageID id.StageID) Resolution {
		if res, done := resolutions[stageID]; done {
			return res
		}
		st := byID[stageID]

		res := Resolution{State: models.StageReady}
		if st.Completed {
			res.State = models.StageComplete
			resolutions[stageID] = res
			return res
		}

		var reasons []string
		blocked := st.Blocked
		if st.Blocked {
			reason := st.BlockReason
			if reason == "" {
				reason = fmt.Sprintf("stage %q is blocked", st.Name)
			}
			reasons = append(reasons, reason)
		}

		waiting := false
		for _, predID := range st.RequiredStageIDs {
			pred := resolve(predID)
			switch pred.State {
			case models.StageBlocked:
				blocked = true
				reasons = append(reasons, fmt.Sprintf("predecessor %q is blocked", byID[predID].Name))
			case models.StageComplete:
				// Satisfied, contributes nothing.
			default:
				waiting = true
				reasons = append(reasons, fmt.Sprintf("waiting on %q", byID[predID].Name))
			}
		}

		switch {
		case blocked:
			res.State = models.StageBlocked
		case waiting:
			res.State = models.StageWaiting
		}
		if deduped := pkgstrings.DedupeAndTrim(reasons); len(deduped) > 0 {
			res.BlockingReasons = deduped
		}
		resolutions[stageID] = res
		return res
	}

	for _, st := range stageList {
		resolve(st.ID)
	}
	return resolutions, nil
}

// checkAcyclic runs a DFS with a recursion-stack marker over the predecessor
// edges. The cycle error names the offending path so operators can fix the
// configuration.
func checkAcyclic(stageList []models.Stage, byID map[id.StageID]models.Stage) error {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[id.StageID]int, len(stageList))

	var visit func(stageID id.StageID, path []string) error
	visit = func(stageID id.StageID, path []string) error {
		switch state[stageID] {
		case done:
			return nil
		case inStack:
			cycle := append(path, byID[stageID].Name)
			return dErrors.Newf(dErrors.CodeConfiguration,
				"stage dependency cycle: %s", strings.Join(cycle, " -> "))
		}
		state[stageID] = inStack
		for _, pred := range byID[stageID].RequiredStageIDs {
			if err := visit(pred, append(path, byID[stageID].Name)); err != nil {
				return err
			}
		}
		state[stageID] = done
		return nil
	}

	// Deterministic traversal order keeps the reported cycle stable.
	ordered := make([]models.Stage, len(stageList))
	copy(ordered, stageList)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })
	for _, st := range ordered {
		if err := visit(st.ID, nil); err != nil {
			return err
		}
	}
	return nil
}
