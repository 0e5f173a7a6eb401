package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditops/disputeflow/pkg/models"
)

func orchestratorEnvelope(t *testing.T, composite models.OrchestratorResult) *models.AgentEnvelope {
	t.Helper()
	return successEnvelope(t, "Workflow complete", composite)
}

func subOutput(t *testing.T, name string, output any) models.SubAgentOutput {
	t.Helper()
	return models.SubAgentOutput{
		AgentName: name,
		Status:    "completed",
		Output:    mustMarshal(t, output),
	}
}

func TestSplitOrchestratorEnvelope_ClassifiesByName(t *testing.T) {
	env := orchestratorEnvelope(t, models.OrchestratorResult{
		SubAgentResults: []models.SubAgentOutput{
			subOutput(t, "SQL Agent", models.SQLQueryResult{DataSummary: "3 related transactions"}),
			subOutput(t, "SOP Compliance Agent", models.SOPComplianceResult{Recommendation: "approve"}),
			subOutput(t, "Decision Synthesis Agent", models.DecisionSynthesisResult{FinalDecision: "approve"}),
		},
	})

	buckets, ok := SplitOrchestratorEnvelope(env)
	require.True(t, ok)
	require.NotNil(t, buckets.SQL)
	require.NotNil(t, buckets.Compliance)
	require.NotNil(t, buckets.Decision)
	assert.Equal(t, "3 related transactions", buckets.SQL.DataSummary)
	assert.Equal(t, "approve", buckets.Compliance.Recommendation)
	assert.Equal(t, "approve", buckets.Decision.FinalDecision)
}

func TestSplitOrchestratorEnvelope_MatchIsCaseInsensitive(t *testing.T) {
	env := orchestratorEnvelope(t, models.OrchestratorResult{
		SubAgentResults: []models.SubAgentOutput{
			subOutput(t, "sql lookup", models.SQLQueryResult{DataSummary: "found"}),
			subOutput(t, "compliance checker", models.SOPComplianceResult{Recommendation: "deny"}),
			subOutput(t, "synthesis engine", models.DecisionSynthesisResult{FinalDecision: "deny"}),
		},
	})

	buckets, ok := SplitOrchestratorEnvelope(env)
	require.True(t, ok)
	assert.NotNil(t, buckets.SQL)
	assert.NotNil(t, buckets.Compliance)
	assert.NotNil(t, buckets.Decision)
}

func TestSplitOrchestratorEnvelope_UnmatchedNamesIgnored(t *testing.T) {
	env := orchestratorEnvelope(t, models.OrchestratorResult{
		SubAgentResults: []models.SubAgentOutput{
			subOutput(t, "Sentiment Agent", map[string]string{"mood": "angry"}),
		},
	})

	buckets, ok := SplitOrchestratorEnvelope(env)
	require.True(t, ok)
	assert.Nil(t, buckets.SQL)
	assert.Nil(t, buckets.Compliance)
	assert.Nil(t, buckets.Decision)
}

func TestSplitOrchestratorEnvelope_LastWriterWins(t *testing.T) {
	env := orchestratorEnvelope(t, models.OrchestratorResult{
		SubAgentResults: []models.SubAgentOutput{
			subOutput(t, "SQL Agent", models.SQLQueryResult{DataSummary: "first"}),
			subOutput(t, "SQL Agent (retry)", models.SQLQueryResult{DataSummary: "second"}),
		},
	})

	buckets, ok := SplitOrchestratorEnvelope(env)
	require.True(t, ok)
	require.NotNil(t, buckets.SQL)
	assert.Equal(t, "second", buckets.SQL.DataSummary)
}

func TestSplitOrchestratorEnvelope_FinalOutputOverridesDecision(t *testing.T) {
	env := orchestratorEnvelope(t, models.OrchestratorResult{
		FinalOutput: mustMarshal(t, models.DecisionSynthesisResult{FinalDecision: "escalate"}),
		SubAgentResults: []models.SubAgentOutput{
			subOutput(t, "SQL Agent", models.SQLQueryResult{DataSummary: "data"}),
			subOutput(t, "SOP Compliance Agent", models.SOPComplianceResult{Recommendation: "approve"}),
			subOutput(t, "Decision Synthesis Agent", models.DecisionSynthesisResult{FinalDecision: "approve"}),
		},
	})

	buckets, ok := SplitOrchestratorEnvelope(env)
	require.True(t, ok)
	require.NotNil(t, buckets.Decision)
	assert.Equal(t, "escalate", buckets.Decision.FinalDecision)
}

func TestSplitOrchestratorEnvelope_MalformedSubOutputSkipped(t *testing.T) {
	env := orchestratorEnvelope(t, models.OrchestratorResult{
		SubAgentResults: []models.SubAgentOutput{
			{AgentName: "SQL Agent", Output: json.RawMessage(`"not an object"`)},
			subOutput(t, "Decision Synthesis Agent", models.DecisionSynthesisResult{FinalDecision: "approve"}),
		},
	})

	buckets, ok := SplitOrchestratorEnvelope(env)
	require.True(t, ok)
	assert.Nil(t, buckets.SQL)
	assert.NotNil(t, buckets.Decision)
}

func TestSplitOrchestratorEnvelope_AbsentPayload(t *testing.T) {
	_, ok := SplitOrchestratorEnvelope(&models.AgentEnvelope{Success: false})
	assert.False(t, ok)

	_, ok = SplitOrchestratorEnvelope(&models.AgentEnvelope{
		Success:  true,
		Response: &models.AgentResponse{Result: json.RawMessage(`[1,2,3`)},
	})
	assert.False(t, ok)
}
