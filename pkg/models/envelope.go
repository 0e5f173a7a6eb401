package models

import "encoding/json"

// AgentEnvelope is the normalized outcome of one remote agent invocation.
// Transport failures are reported as Success=false with Error set; the
// workflow's fallback policy consumes gateway failures and agent-reported
// failures uniformly.
type AgentEnvelope struct {
	Success  bool           `json:"success"`
	Response *AgentResponse `json:"response,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// AgentResponse carries the agent's conversational message and, when the
// agent produced one, its structured result. The result payload is kept raw
// until an extractor validates its shape.
type AgentResponse struct {
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// SubAgentOutput is one named sub-agent's contribution inside an
// orchestrator response.
type SubAgentOutput struct {
	AgentName string          `json:"agent_name"`
	Status    string          `json:"status"`
	Output    json.RawMessage `json:"output"`
}

// OrchestratorResult is the composite payload returned by the dispute
// orchestrator: the per-sub-agent outputs plus an optional top-level final
// output that overrides any synthesized decision among them.
type OrchestratorResult struct {
	FinalOutput       json.RawMessage  `json:"final_output"`
	SubAgentResults   []SubAgentOutput `json:"sub_agent_results"`
	Summary           string           `json:"summary"`
	WorkflowCompleted bool             `json:"workflow_completed"`
}
