// Package models contains the domain types for dispute cases: workflow
// phases, chat messages, and the typed results returned by the AI agents.
package models

import "time"

// Phase represents the current workflow stage of a dispute case.
// Exactly one phase is active at a time.
type Phase string

const (
	PhaseConversation Phase = "conversation"
	PhaseSummary      Phase = "summary"
	PhaseAnalysis     Phase = "analysis"
	PhaseResolution   Phase = "resolution"
)

// MessageRole identifies who authored a chat message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

// TranscriptKind distinguishes the two independent chat transcripts of a case.
type TranscriptKind string

const (
	TranscriptIntake     TranscriptKind = "intake"
	TranscriptResolution TranscriptKind = "resolution"
)

// ChatMessage is a single immutable entry in a case transcript.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// AnalysisProgress is the user-feedback progress indicator shown while the
// orchestrator call is outstanding. It is decorative: it never carries result
// data and never gates transitions.
type AnalysisProgress struct {
	Percent int    `json:"percent"`
	Step    string `json:"step"`
	Running bool   `json:"running"`
}

// PhaseError is a tagged failure attached to the case when an agent
// invocation misbehaves during analysis or resolution generation. The
// workflow stays in its current phase; the user re-triggers the action.
type PhaseError struct {
	Stage      string    `json:"stage"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
