package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditops/disputeflow/pkg/models"
)

// successEnvelope wraps a structured result in a successful agent envelope.
func successEnvelope(t *testing.T, message string, result any) *models.AgentEnvelope {
	t.Helper()
	var raw json.RawMessage
	if result != nil {
		data, err := json.Marshal(result)
		require.NoError(t, err)
		raw = data
	}
	return &models.AgentEnvelope{
		Success:  true,
		Response: &models.AgentResponse{Message: message, Result: raw},
	}
}

func TestExtractConversationResult(t *testing.T) {
	t.Run("accepts complete result", func(t *testing.T) {
		env := successEnvelope(t, "Got it", models.ConversationResult{
			CaseSummary: "Unauthorized charge at Acme Store",
			TransactionDetails: models.TransactionDetails{
				Date: "2026-08-01", Amount: 125.50, Merchant: "Acme Store",
			},
			DisputeReason: "unauthorized",
		})

		result, ok := ExtractConversationResult(env)
		require.True(t, ok)
		assert.Equal(t, "Unauthorized charge at Acme Store", result.CaseSummary)
		assert.Equal(t, 125.50, result.TransactionDetails.Amount)
	})

	t.Run("rejects empty case summary", func(t *testing.T) {
		env := successEnvelope(t, "Anything else?", models.ConversationResult{
			DisputeReason: "unauthorized",
		})

		_, ok := ExtractConversationResult(env)
		assert.False(t, ok)
	})

	t.Run("rejects failed envelope", func(t *testing.T) {
		env := &models.AgentEnvelope{Success: false, Error: "timeout"}
		_, ok := ExtractConversationResult(env)
		assert.False(t, ok)
	})

	t.Run("rejects missing result", func(t *testing.T) {
		env := successEnvelope(t, "Tell me more", nil)
		_, ok := ExtractConversationResult(env)
		assert.False(t, ok)
	})

	t.Run("rejects malformed result", func(t *testing.T) {
		env := &models.AgentEnvelope{
			Success:  true,
			Response: &models.AgentResponse{Result: json.RawMessage(`{"case_summary": 42`)},
		}
		_, ok := ExtractConversationResult(env)
		assert.False(t, ok)
	})

	t.Run("rejects nil envelope", func(t *testing.T) {
		_, ok := ExtractConversationResult(nil)
		assert.False(t, ok)
	})
}

func TestExtractCustomerResolutionResult(t *testing.T) {
	t.Run("accepts result with decision summary", func(t *testing.T) {
		env := successEnvelope(t, "", models.CustomerResolutionResult{
			DecisionSummary: "Your dispute was approved",
			DecisionType:    "approved",
		})

		result, ok := ExtractCustomerResolutionResult(env)
		require.True(t, ok)
		assert.Equal(t, "approved", result.DecisionType)
	})

	t.Run("rejects empty decision summary", func(t *testing.T) {
		env := successEnvelope(t, "", models.CustomerResolutionResult{DecisionType: "approved"})
		_, ok := ExtractCustomerResolutionResult(env)
		assert.False(t, ok)
	})
}

func TestDecodeSubAgentResults(t *testing.T) {
	t.Run("sql requires summary or transaction", func(t *testing.T) {
		_, ok := decodeSQLResult(mustMarshal(t, models.SQLQueryResult{}))
		assert.False(t, ok)

		result, ok := decodeSQLResult(mustMarshal(t, models.SQLQueryResult{DataSummary: "found it"}))
		require.True(t, ok)
		assert.Equal(t, "found it", result.DataSummary)

		result, ok = decodeSQLResult(mustMarshal(t, models.SQLQueryResult{
			DisputedTransaction: models.DisputedTransaction{TransactionID: "txn-1"},
		}))
		require.True(t, ok)
		assert.Equal(t, "txn-1", result.DisputedTransaction.TransactionID)
	})

	t.Run("sop requires recommendation or policies", func(t *testing.T) {
		_, ok := decodeSOPResult(mustMarshal(t, models.SOPComplianceResult{}))
		assert.False(t, ok)

		_, ok = decodeSOPResult(mustMarshal(t, models.SOPComplianceResult{Recommendation: "approve"}))
		assert.True(t, ok)
	})

	t.Run("decision requires final decision", func(t *testing.T) {
		_, ok := decodeDecisionResult(mustMarshal(t, models.DecisionSynthesisResult{}))
		assert.False(t, ok)

		_, ok = decodeDecisionResult(mustMarshal(t, models.DecisionSynthesisResult{FinalDecision: "approve"}))
		assert.True(t, ok)
	})

	t.Run("null payloads are absent", func(t *testing.T) {
		_, ok := decodeDecisionResult(json.RawMessage(`null`))
		assert.False(t, ok)
		_, ok = decodeSQLResult(nil)
		assert.False(t, ok)
	})
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
