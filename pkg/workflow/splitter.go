package workflow

import (
	"encoding/json"
	"strings"

	"github.com/creditops/disputeflow/pkg/models"
)

// AnalysisBuckets holds the typed results recovered from one orchestrator
// response. Any bucket may be nil when the orchestrator produced no usable
// output for it.
type AnalysisBuckets struct {
	SQL        *models.SQLQueryResult
	Compliance *models.SOPComplianceResult
	Decision   *models.DecisionSynthesisResult
}

// SplitOrchestratorEnvelope classifies each named sub-agent output in a
// composite orchestrator response into its typed bucket.
//
// Classification is a case-insensitive substring match on the declared agent
// name: "SQL" routes to the SQL bucket, "SOP" or "Compliance" to the
// compliance bucket, "Decision" or "Synthesis" to the decision bucket. The
// orchestrator interface carries no explicit type tag, so these keyword sets
// and the precedence below are a compatibility shim with the platform's
// naming and must not change.
//
// Unmatched names are ignored. When two sub-results land in the same bucket
// the later one wins. A top-level final_output, when present and parseable,
// is applied to the decision bucket after the sub-agent pass and therefore
// always beats a classified decision sub-result.
func SplitOrchestratorEnvelope(env *models.AgentEnvelope) (AnalysisBuckets, bool) {
	raw := rawResult(env)
	if len(raw) == 0 {
		return AnalysisBuckets{}, false
	}
	var composite models.OrchestratorResult
	if err := json.Unmarshal(raw, &composite); err != nil {
		return AnalysisBuckets{}, false
	}
	return splitOrchestratorResult(&composite), true
}

func splitOrchestratorResult(composite *models.OrchestratorResult) AnalysisBuckets {
	var buckets AnalysisBuckets

	for _, sub := range composite.SubAgentResults {
		name := strings.ToLower(sub.AgentName)
		switch {
		case strings.Contains(name, "sql"):
			if result, ok := decodeSQLResult(sub.Output); ok {
				buckets.SQL = result
			}
		case strings.Contains(name, "sop"), strings.Contains(name, "compliance"):
			if result, ok := decodeSOPResult(sub.Output); ok {
				buckets.Compliance = result
			}
		case strings.Contains(name, "decision"), strings.Contains(name, "synthesis"):
			if result, ok := decodeDecisionResult(sub.Output); ok {
				buckets.Decision = result
			}
		}
	}

	if result, ok := decodeDecisionResult(composite.FinalOutput); ok {
		buckets.Decision = result
	}

	return buckets
}
