package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/creditops/disputeflow/pkg/models"
	"github.com/creditops/disputeflow/pkg/workflow"
)

// Store persists dispute case state, transcripts, and the agent invocation
// audit trail. It is a write-behind mirror of the in-memory workflow: the
// case owns its state, the store records it.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over the given client.
func NewStore(client *Client) *Store {
	return &Store{db: client.DB()}
}

// UpsertCase writes the case row, replacing the typed result columns with
// the snapshot's current values.
func (s *Store) UpsertCase(ctx context.Context, snap workflow.Snapshot) error {
	conv, err := marshalNullable(snap.Conversation)
	if err != nil {
		return fmt.Errorf("marshal conversation result: %w", err)
	}
	sqlRes, err := marshalNullable(snap.SQL)
	if err != nil {
		return fmt.Errorf("marshal sql result: %w", err)
	}
	sop, err := marshalNullable(snap.Compliance)
	if err != nil {
		return fmt.Errorf("marshal sop result: %w", err)
	}
	decision, err := marshalNullable(snap.Decision)
	if err != nil {
		return fmt.Errorf("marshal decision result: %w", err)
	}
	resolution, err := marshalNullable(snap.Resolution)
	if err != nil {
		return fmt.Errorf("marshal resolution result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dispute_cases
			(id, phase, conversation_result, sql_result, sop_result,
			 decision_result, resolution_result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			phase = EXCLUDED.phase,
			conversation_result = EXCLUDED.conversation_result,
			sql_result = EXCLUDED.sql_result,
			sop_result = EXCLUDED.sop_result,
			decision_result = EXCLUDED.decision_result,
			resolution_result = EXCLUDED.resolution_result,
			updated_at = EXCLUDED.updated_at`,
		snap.ID, string(snap.Phase), conv, sqlRes, sop, decision, resolution,
		snap.CreatedAt, snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert case: %w", err)
	}
	return nil
}

// AppendMessage records one transcript entry. Entries are append-only; there
// is no update path.
func (s *Store) AppendMessage(ctx context.Context, caseID string, kind models.TranscriptKind, msg models.ChatMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (case_id, transcript, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		caseID, string(kind), string(msg.Role), msg.Content, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// RecordInvocation implements workflow.InvocationRecorder by appending one
// audit row per agent call.
func (s *Store) RecordInvocation(ctx context.Context, caseID, role string, success bool, errMsg string, elapsed time.Duration) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_invocations (case_id, role, success, error, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		caseID, role, success, errMsg, elapsed.Milliseconds(), time.Now())
	if err != nil {
		// Auditing is best-effort; the workflow must not fail on it.
		slog.Warn("Failed to record agent invocation", "case_id", caseID, "role", role, "error", err)
	}
}

// CaseRecord is one persisted case row.
type CaseRecord struct {
	ID        string
	Phase     models.Phase
	CreatedAt time.Time
	UpdatedAt time.Time

	Conversation *models.ConversationResult
	SQL          *models.SQLQueryResult
	Compliance   *models.SOPComplianceResult
	Decision     *models.DecisionSynthesisResult
	Resolution   *models.CustomerResolutionResult
}

// GetCase loads one persisted case row.
func (s *Store) GetCase(ctx context.Context, caseID string) (*CaseRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, phase, conversation_result, sql_result, sop_result,
		       decision_result, resolution_result, created_at, updated_at
		FROM dispute_cases WHERE id = $1`, caseID)

	var rec CaseRecord
	var phase string
	var conv, sqlRes, sop, decision, resolution []byte
	err := row.Scan(&rec.ID, &phase, &conv, &sqlRes, &sop, &decision, &resolution,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	rec.Phase = models.Phase(phase)

	if err := unmarshalNullable(conv, &rec.Conversation); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(sqlRes, &rec.SQL); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(sop, &rec.Compliance); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(decision, &rec.Decision); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(resolution, &rec.Resolution); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListMessages returns the persisted transcript entries for one case and
// transcript kind, in append order.
func (s *Store) ListMessages(ctx context.Context, caseID string, kind models.TranscriptKind) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, created_at
		FROM chat_messages
		WHERE case_id = $1 AND transcript = $2
		ORDER BY id`, caseID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var role string
		if err := rows.Scan(&role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msg.Role = models.MessageRole(role)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// marshalNullable maps a nil result pointer to SQL NULL and anything else
// to its JSON encoding.
func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func unmarshalNullable[T any](data []byte, target **T) error {
	if len(data) == 0 {
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to decode stored result: %w", err)
	}
	*target = &value
	return nil
}
