package workflow

import (
	"encoding/json"

	"github.com/creditops/disputeflow/pkg/models"
)

// Result extractors. Each takes a normalized agent envelope and returns the
// typed result plus true, or nil plus false when the shape is absent or
// malformed. Presence is structural: a result is accepted only if its
// defining field is populated. Absence is not an error; it simply leaves the
// case's accumulated state untouched.

// rawResult returns the structured result payload from a successful
// envelope, or nil when there is nothing to extract.
func rawResult(env *models.AgentEnvelope) json.RawMessage {
	if env == nil || !env.Success || env.Response == nil {
		return nil
	}
	return env.Response.Result
}

// ExtractConversationResult accepts the intake agent's result only once it
// contains a non-empty case summary.
func ExtractConversationResult(env *models.AgentEnvelope) (*models.ConversationResult, bool) {
	raw := rawResult(env)
	if len(raw) == 0 {
		return nil, false
	}
	var result models.ConversationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	if result.CaseSummary == "" {
		return nil, false
	}
	return &result, true
}

// ExtractCustomerResolutionResult accepts a resolution result only when it
// carries a decision summary.
func ExtractCustomerResolutionResult(env *models.AgentEnvelope) (*models.CustomerResolutionResult, bool) {
	raw := rawResult(env)
	if len(raw) == 0 {
		return nil, false
	}
	var result models.CustomerResolutionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	if result.DecisionSummary == "" {
		return nil, false
	}
	return &result, true
}

// decodeSQLResult parses a SQL sub-agent output. Defining fields: a data
// summary or a located disputed transaction.
func decodeSQLResult(raw json.RawMessage) (*models.SQLQueryResult, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var result models.SQLQueryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	if result.DataSummary == "" && result.DisputedTransaction.TransactionID == "" {
		return nil, false
	}
	return &result, true
}

// decodeSOPResult parses a compliance sub-agent output. Defining fields: a
// recommendation or at least one applicable policy.
func decodeSOPResult(raw json.RawMessage) (*models.SOPComplianceResult, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var result models.SOPComplianceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	if result.Recommendation == "" && len(result.ApplicablePolicies) == 0 {
		return nil, false
	}
	return &result, true
}

// decodeDecisionResult parses a decision synthesis output. Defining field:
// the final decision label.
func decodeDecisionResult(raw json.RawMessage) (*models.DecisionSynthesisResult, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var result models.DecisionSynthesisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	if result.FinalDecision == "" {
		return nil, false
	}
	return &result, true
}
