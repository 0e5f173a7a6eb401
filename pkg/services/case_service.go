package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/creditops/disputeflow/pkg/database"
	"github.com/creditops/disputeflow/pkg/export"
	"github.com/creditops/disputeflow/pkg/models"
	"github.com/creditops/disputeflow/pkg/workflow"
)

// maxMessageLength bounds user-supplied chat content.
const maxMessageLength = 100_000

// persistTimeout bounds each write-behind database operation.
const persistTimeout = 5 * time.Second

// CaseService exposes the dispute workflow to the API layer and mirrors
// state changes into the store when persistence is enabled. The workflow
// case remains the single owner of all mutable state; persistence is
// best-effort and never fails a user action.
type CaseService struct {
	registry *workflow.Registry
	store    *database.Store
	logger   *slog.Logger
}

// NewCaseService creates a CaseService. store may be nil when persistence
// is disabled.
func NewCaseService(registry *workflow.Registry, store *database.Store, logger *slog.Logger) *CaseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CaseService{registry: registry, store: store, logger: logger}
}

// CreateCase starts a new dispute case and returns its initial state.
func (s *CaseService) CreateCase(ctx context.Context) workflow.Snapshot {
	c := s.registry.Create()
	snap := c.Snapshot()
	s.persist(ctx, snap, snap.IntakeMessages, nil)
	return snap
}

// GetCase returns the current read-only state of a case.
func (s *CaseService) GetCase(caseID string) (workflow.Snapshot, error) {
	c, err := s.registry.Get(caseID)
	if err != nil {
		return workflow.Snapshot{}, ErrNotFound
	}
	return c.Snapshot(), nil
}

// SubmitUserTurn forwards one intake chat message into the workflow.
func (s *CaseService) SubmitUserTurn(ctx context.Context, caseID, content string) (workflow.Snapshot, error) {
	if err := validateContent(content); err != nil {
		return workflow.Snapshot{}, err
	}
	c, err := s.registry.Get(caseID)
	if err != nil {
		return workflow.Snapshot{}, ErrNotFound
	}

	before := c.Snapshot()
	if err := c.SubmitUserTurn(ctx, content); err != nil {
		return workflow.Snapshot{}, err
	}
	snap := c.Snapshot()
	s.persist(ctx, snap, snap.IntakeMessages[len(before.IntakeMessages):], nil)
	return snap, nil
}

// AdvanceToSummary moves the case into the Summary phase.
func (s *CaseService) AdvanceToSummary(ctx context.Context, caseID string) (workflow.Snapshot, error) {
	return s.runTransition(ctx, caseID, func(c *workflow.Case) error {
		return c.AdvanceToSummary()
	})
}

// ReturnToConversation moves the case back from Summary to Conversation.
func (s *CaseService) ReturnToConversation(ctx context.Context, caseID string) (workflow.Snapshot, error) {
	return s.runTransition(ctx, caseID, func(c *workflow.Case) error {
		return c.ReturnToConversation()
	})
}

// SaveSummary replaces the case summary text, leaving every other
// conversation result field untouched.
func (s *CaseService) SaveSummary(ctx context.Context, caseID, summary string) (workflow.Snapshot, error) {
	if err := validateContent(summary); err != nil {
		return workflow.Snapshot{}, err
	}
	return s.runTransition(ctx, caseID, func(c *workflow.Case) error {
		if err := c.EditSummary(summary); err != nil {
			return err
		}
		return c.SaveSummary()
	})
}

// SubmitForAnalysis runs the orchestrator invocation and, when it yields a
// decision, the automatic resolution generation. The returned snapshot
// reflects the settled outcome: either the Resolution phase or Analysis
// with a tagged phase error.
func (s *CaseService) SubmitForAnalysis(ctx context.Context, caseID string) (workflow.Snapshot, error) {
	return s.runTransition(ctx, caseID, func(c *workflow.Case) error {
		return c.SubmitForAnalysis(ctx)
	})
}

// AskQuestion forwards one resolution Q&A message into the workflow.
func (s *CaseService) AskQuestion(ctx context.Context, caseID, content string) (workflow.Snapshot, error) {
	if err := validateContent(content); err != nil {
		return workflow.Snapshot{}, err
	}
	c, err := s.registry.Get(caseID)
	if err != nil {
		return workflow.Snapshot{}, ErrNotFound
	}

	before := c.Snapshot()
	if err := c.AskQuestion(ctx, content); err != nil {
		return workflow.Snapshot{}, err
	}
	snap := c.Snapshot()
	s.persist(ctx, snap, nil, snap.ResolutionMessages[len(before.ResolutionMessages):])
	return snap, nil
}

// ExportSummary renders the plain-text case summary document.
func (s *CaseService) ExportSummary(caseID string) (string, error) {
	c, err := s.registry.Get(caseID)
	if err != nil {
		return "", ErrNotFound
	}
	snap := c.Snapshot()
	return export.CaseSummaryDocument(snap.Conversation, snap.Resolution)
}

func (s *CaseService) runTransition(ctx context.Context, caseID string, action func(*workflow.Case) error) (workflow.Snapshot, error) {
	c, err := s.registry.Get(caseID)
	if err != nil {
		return workflow.Snapshot{}, ErrNotFound
	}
	if err := action(c); err != nil {
		return workflow.Snapshot{}, err
	}
	snap := c.Snapshot()
	s.persist(ctx, snap, nil, nil)
	return snap, nil
}

// persist mirrors the snapshot and any newly appended messages into the
// store. Best-effort: failures are logged, never surfaced.
func (s *CaseService) persist(ctx context.Context, snap workflow.Snapshot, newIntake, newQA []models.ChatMessage) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.store.UpsertCase(ctx, snap); err != nil {
		s.logger.Warn("Failed to persist case", "case_id", snap.ID, "error", err)
	}
	for _, msg := range newIntake {
		if err := s.store.AppendMessage(ctx, snap.ID, models.TranscriptIntake, msg); err != nil {
			s.logger.Warn("Failed to persist intake message", "case_id", snap.ID, "error", err)
		}
	}
	for _, msg := range newQA {
		if err := s.store.AppendMessage(ctx, snap.ID, models.TranscriptResolution, msg); err != nil {
			s.logger.Warn("Failed to persist resolution message", "case_id", snap.ID, "error", err)
		}
	}
}

func validateContent(content string) error {
	if content == "" {
		return NewValidationError("content", "required")
	}
	if len(content) > maxMessageLength {
		return NewValidationError("content", "exceeds maximum length of 100,000 characters")
	}
	return nil
}
