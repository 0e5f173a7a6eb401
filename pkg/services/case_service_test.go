package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditops/disputeflow/pkg/models"
	"github.com/creditops/disputeflow/pkg/workflow"
)

// scriptedInvoker answers agent invocations from a per-agent response map.
type scriptedInvoker struct {
	responses map[string]*models.AgentEnvelope
}

func (s *scriptedInvoker) Invoke(_ context.Context, _, agentID string) (*models.AgentEnvelope, error) {
	env, ok := s.responses[agentID]
	if !ok {
		return nil, errors.New("no response scripted for " + agentID)
	}
	return env, nil
}

func envelopeWithResult(t *testing.T, message string, result any) *models.AgentEnvelope {
	t.Helper()
	data, err := json.Marshal(result)
	require.NoError(t, err)
	return &models.AgentEnvelope{
		Success:  true,
		Response: &models.AgentResponse{Message: message, Result: data},
	}
}

func newTestService(inv workflow.AgentInvoker) *CaseService {
	registry := workflow.NewRegistry(workflow.Deps{
		Invoker: inv,
		Agents: workflow.AgentRoster{
			Intake:       "agent-intake",
			Lookup:       "agent-lookup",
			Compliance:   "agent-compliance",
			Synthesis:    "agent-synthesis",
			Resolution:   "agent-resolution",
			Orchestrator: "agent-orchestrator",
		},
	})
	return NewCaseService(registry, nil, nil)
}

func TestCaseService_CreateAndGet(t *testing.T) {
	svc := newTestService(&scriptedInvoker{})

	snap := svc.CreateCase(context.Background())
	assert.Equal(t, models.PhaseConversation, snap.Phase)
	require.Len(t, snap.IntakeMessages, 1)

	got, err := svc.GetCase(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)

	_, err = svc.GetCase("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaseService_SubmitUserTurn(t *testing.T) {
	inv := &scriptedInvoker{responses: map[string]*models.AgentEnvelope{
		"agent-intake": envelopeWithResult(t, "Understood", models.ConversationResult{
			CaseSummary:   "Unauthorized charge at Acme Store",
			DisputeReason: "unauthorized",
		}),
	}}
	svc := newTestService(inv)
	caseID := svc.CreateCase(context.Background()).ID

	snap, err := svc.SubmitUserTurn(context.Background(), caseID, "someone used my card")
	require.NoError(t, err)
	assert.Len(t, snap.IntakeMessages, 3)
	require.NotNil(t, snap.Conversation)

	t.Run("validates content", func(t *testing.T) {
		_, err := svc.SubmitUserTurn(context.Background(), caseID, "")
		assert.True(t, IsValidationError(err))

		_, err = svc.SubmitUserTurn(context.Background(), caseID, strings.Repeat("x", maxMessageLength+1))
		assert.True(t, IsValidationError(err))
	})

	t.Run("unknown case", func(t *testing.T) {
		_, err := svc.SubmitUserTurn(context.Background(), "nope", "hello")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCaseService_SummaryTransitions(t *testing.T) {
	inv := &scriptedInvoker{responses: map[string]*models.AgentEnvelope{
		"agent-intake": envelopeWithResult(t, "Understood", models.ConversationResult{
			CaseSummary:   "Unauthorized charge at Acme Store",
			DisputeReason: "unauthorized",
		}),
	}}
	svc := newTestService(inv)
	ctx := context.Background()
	caseID := svc.CreateCase(ctx).ID

	// Summary actions require a conversation result first.
	_, err := svc.AdvanceToSummary(ctx, caseID)
	assert.ErrorIs(t, err, workflow.ErrNoConversationResult)

	_, err = svc.SubmitUserTurn(ctx, caseID, "someone used my card")
	require.NoError(t, err)

	snap, err := svc.AdvanceToSummary(ctx, caseID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSummary, snap.Phase)

	snap, err = svc.SaveSummary(ctx, caseID, "edited summary")
	require.NoError(t, err)
	assert.Equal(t, "edited summary", snap.Conversation.CaseSummary)
	assert.Equal(t, "unauthorized", snap.Conversation.DisputeReason)

	snap, err = svc.ReturnToConversation(ctx, caseID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseConversation, snap.Phase)
	assert.Equal(t, "edited summary", snap.Conversation.CaseSummary)

	_, err = svc.SaveSummary(ctx, caseID, "too late")
	assert.ErrorIs(t, err, workflow.ErrWrongPhase)
}

func TestCaseService_AnalysisAndQuestions(t *testing.T) {
	decision, err := json.Marshal(models.DecisionSynthesisResult{FinalDecision: "approve"})
	require.NoError(t, err)
	inv := &scriptedInvoker{responses: map[string]*models.AgentEnvelope{
		"agent-intake": envelopeWithResult(t, "Understood", models.ConversationResult{
			CaseSummary:   "Unauthorized charge at Acme Store",
			DisputeReason: "unauthorized",
		}),
		"agent-orchestrator": envelopeWithResult(t, "done", models.OrchestratorResult{
			SubAgentResults: []models.SubAgentOutput{
				{AgentName: "Decision Synthesis Agent", Status: "completed", Output: decision},
			},
		}),
		"agent-resolution": envelopeWithResult(t, "Happy to explain further.", models.CustomerResolutionResult{
			DecisionSummary: "Your dispute has been approved",
			DecisionType:    "approved",
		}),
	}}
	svc := newTestService(inv)
	ctx := context.Background()
	caseID := svc.CreateCase(ctx).ID

	_, err = svc.SubmitUserTurn(ctx, caseID, "someone used my card")
	require.NoError(t, err)
	_, err = svc.AdvanceToSummary(ctx, caseID)
	require.NoError(t, err)

	snap, err := svc.SubmitForAnalysis(ctx, caseID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseResolution, snap.Phase)
	require.NotNil(t, snap.Resolution)

	snap, err = svc.AskQuestion(ctx, caseID, "can I appeal?")
	require.NoError(t, err)
	assert.Len(t, snap.ResolutionMessages, 2)

	_, err = svc.AskQuestion(ctx, caseID, "")
	assert.True(t, IsValidationError(err))
}

func TestCaseService_ExportSummary(t *testing.T) {
	svc := newTestService(&scriptedInvoker{})
	ctx := context.Background()
	caseID := svc.CreateCase(ctx).ID

	// Export needs both the conversation and resolution results.
	_, err := svc.ExportSummary(caseID)
	assert.Error(t, err)

	_, err = svc.ExportSummary("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
