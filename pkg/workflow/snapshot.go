package workflow

import (
	"time"

	"github.com/creditops/disputeflow/pkg/models"
)

// Snapshot is a read-only view of a case handed to the rendering boundary.
// Taking a snapshot never mutates the case, and mutating a snapshot never
// reaches the case.
type Snapshot struct {
	ID        string       `json:"id"`
	Phase     models.Phase `json:"phase"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	IntakeMessages     []models.ChatMessage `json:"intake_messages"`
	ResolutionMessages []models.ChatMessage `json:"resolution_messages"`

	Conversation *models.ConversationResult      `json:"conversation_result,omitempty"`
	SQL          *models.SQLQueryResult          `json:"sql_result,omitempty"`
	Compliance   *models.SOPComplianceResult     `json:"sop_result,omitempty"`
	Decision     *models.DecisionSynthesisResult `json:"decision_result,omitempty"`
	Resolution   *models.CustomerResolutionResult `json:"resolution_result,omitempty"`

	Editing      bool   `json:"editing"`
	SummaryDraft string `json:"summary_draft,omitempty"`

	Progress   models.AnalysisProgress `json:"analysis_progress"`
	PhaseError *models.PhaseError      `json:"phase_error,omitempty"`
}

// Snapshot returns the current state of the case.
func (c *Case) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		ID:                 c.id,
		Phase:              c.phase,
		CreatedAt:          c.createdAt,
		UpdatedAt:          c.updatedAt,
		IntakeMessages:     c.intake.Messages(),
		ResolutionMessages: c.qa.Messages(),
		Editing:            c.editing,
		SummaryDraft:       c.summaryDraft,
		Progress:           c.progress,
	}
	if c.conversation != nil {
		conv := *c.conversation
		snap.Conversation = &conv
	}
	if c.sql != nil {
		sql := *c.sql
		snap.SQL = &sql
	}
	if c.compliance != nil {
		sop := *c.compliance
		snap.Compliance = &sop
	}
	if c.decision != nil {
		dec := *c.decision
		snap.Decision = &dec
	}
	if c.resolution != nil {
		res := *c.resolution
		snap.Resolution = &res
	}
	if c.phaseErr != nil {
		pe := *c.phaseErr
		snap.PhaseError = &pe
	}
	return snap
}
