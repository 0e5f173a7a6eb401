// Package workflow implements the dispute case state machine: the four-phase
// lifecycle, the agent invocation contract, extraction of typed results from
// agent responses, and the splitting of composite orchestrator responses.
package workflow

import (
	"time"

	"github.com/creditops/disputeflow/pkg/models"
)

// Fixed conversational strings. The greeting seeds every new intake
// transcript; the fallbacks replace missing or failed agent replies so the
// transcript always gains exactly one agent turn per user turn.
const (
	GreetingMessage = "Hello! I'm here to help you with your credit card dispute. " +
		"Could you please tell me about the transaction you'd like to dispute?"

	FallbackApology = "I apologize, but I encountered an error. Could you please try again?"

	IntakeAckFallback = "Thank you for that information. " +
		"Is there anything else you'd like to add about this dispute?"

	ResolutionAckFallback = "I'm here to help answer any questions about your dispute decision."
)

// Transcript is an append-only ordered log of user and agent turns for one
// conversational phase. Entries are immutable once appended; there is no
// reordering, deletion, or editing.
type Transcript struct {
	kind     models.TranscriptKind
	messages []models.ChatMessage
}

// NewTranscript creates an empty transcript of the given kind.
func NewTranscript(kind models.TranscriptKind) *Transcript {
	return &Transcript{kind: kind}
}

// Kind returns which of the two case transcripts this is.
func (t *Transcript) Kind() models.TranscriptKind { return t.kind }

// AppendUserTurn appends one user message, timestamped at append time.
func (t *Transcript) AppendUserTurn(content string) models.ChatMessage {
	return t.append(models.RoleUser, content)
}

// AppendAgentTurn appends one agent message, timestamped at append time.
func (t *Transcript) AppendAgentTurn(content string) models.ChatMessage {
	return t.append(models.RoleAgent, content)
}

func (t *Transcript) append(role models.MessageRole, content string) models.ChatMessage {
	msg := models.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	t.messages = append(t.messages, msg)
	return msg
}

// Len returns the number of turns appended so far.
func (t *Transcript) Len() int { return len(t.messages) }

// Messages returns a copy of the transcript; callers cannot mutate the log.
func (t *Transcript) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}
