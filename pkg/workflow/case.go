package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/creditops/disputeflow/pkg/models"
)

// Sentinel errors for workflow actions. A precondition failure leaves the
// case unchanged; callers decide whether to surface it or treat it as a no-op.
var (
	ErrWrongPhase           = errors.New("action not valid in current phase")
	ErrNoConversationResult = errors.New("conversation result not yet available")
)

// Analysis step labels shown alongside the progress indicator.
const (
	stepRetrieving = "Retrieving transaction records..."
	stepCompliance = "Checking policy compliance..."
	stepDecision   = "Analyzing decision factors..."
	stepComplete   = "Analysis complete!"
	stepFailed     = "Analysis failed. Please try again."
)

// progressTick is one step of the decorative analysis schedule. A tick with
// an empty step label advances the percentage only.
type progressTick struct {
	after   time.Duration
	percent int
	step    string
}

// The schedule is purely user feedback: it advances on fixed delays while
// the orchestrator call is outstanding and is cancelled the moment the real
// call settles. It never writes result fields.
var defaultAnalysisSchedule = []progressTick{
	{after: 500 * time.Millisecond, percent: 25},
	{after: 1500 * time.Millisecond, percent: 50, step: stepCompliance},
	{after: 3 * time.Second, percent: 75, step: stepDecision},
}

// AgentInvoker performs one remote agent invocation. Implemented by
// gateway.Client; tests substitute fakes.
type AgentInvoker interface {
	Invoke(ctx context.Context, payload, agentID string) (*models.AgentEnvelope, error)
}

// InvocationRecorder receives an audit record for every agent invocation a
// case performs. Optional; a nil recorder disables auditing.
type InvocationRecorder interface {
	RecordInvocation(ctx context.Context, caseID, role string, success bool, errMsg string, elapsed time.Duration)
}

// AgentRoster maps the six logical agent roles to the platform's opaque
// agent IDs. The workflow invokes intake, orchestrator, and resolution
// directly; lookup, compliance, and synthesis are addressed by the
// orchestrator on the platform side.
type AgentRoster struct {
	Intake       string
	Lookup       string
	Compliance   string
	Synthesis    string
	Resolution   string
	Orchestrator string
}

// Deps bundles what a Case needs to drive its workflow.
type Deps struct {
	Invoker  AgentInvoker
	Agents   AgentRoster
	Recorder InvocationRecorder
	Logger   *slog.Logger
}

// Case owns all mutable state of one dispute session: the current phase,
// both transcripts, and the accumulated typed results. All mutation happens
// through the action methods; reads go through Snapshot. A single mutex
// serializes actions, but it is never held across a remote call; an
// analysis generation counter guards against stale completions instead.
type Case struct {
	mu sync.Mutex

	id        string
	phase     models.Phase
	createdAt time.Time
	updatedAt time.Time

	intake *Transcript
	qa     *Transcript

	conversation *models.ConversationResult
	sql          *models.SQLQueryResult
	compliance   *models.SOPComplianceResult
	decision     *models.DecisionSynthesisResult
	resolution   *models.CustomerResolutionResult

	editing      bool
	summaryDraft string

	progress       models.AnalysisProgress
	phaseErr       *models.PhaseError
	analysisGen    uint64
	progressTimers []*time.Timer
	schedule       []progressTick

	invoker  AgentInvoker
	agents   AgentRoster
	recorder InvocationRecorder
	logger   *slog.Logger
}

// NewCase creates a case in the Conversation phase with the intake
// transcript seeded by the fixed greeting.
func NewCase(id string, deps Deps) *Case {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	c := &Case{
		id:        id,
		phase:     models.PhaseConversation,
		createdAt: now,
		updatedAt: now,
		intake:    NewTranscript(models.TranscriptIntake),
		qa:        NewTranscript(models.TranscriptResolution),
		schedule:  defaultAnalysisSchedule,
		invoker:   deps.Invoker,
		agents:    deps.Agents,
		recorder:  deps.Recorder,
		logger:    logger.With("case_id", id),
	}
	c.intake.AppendAgentTurn(GreetingMessage)
	return c
}

// ID returns the case identifier.
func (c *Case) ID() string { return c.id }

func (c *Case) touch() { c.updatedAt = time.Now() }

// invokeAgent performs one remote invocation without holding the case lock.
// Transport errors are folded into a failed envelope so callers apply one
// uniform fallback policy.
func (c *Case) invokeAgent(ctx context.Context, role, agentID, payload string) *models.AgentEnvelope {
	start := time.Now()
	env, err := c.invoker.Invoke(ctx, payload, agentID)
	elapsed := time.Since(start)

	success := err == nil && env != nil && env.Success
	errMsg := ""
	switch {
	case err != nil:
		errMsg = err.Error()
	case env != nil && !env.Success:
		errMsg = env.Error
	}
	if c.recorder != nil {
		c.recorder.RecordInvocation(ctx, c.id, role, success, errMsg, elapsed)
	}

	if err != nil {
		c.logger.Warn("Agent invocation failed", "role", role, "error", err)
		return &models.AgentEnvelope{Success: false, Error: err.Error()}
	}
	if env == nil {
		return &models.AgentEnvelope{Success: false, Error: "empty envelope"}
	}
	return env
}

// SubmitUserTurn appends the user's message to the intake transcript,
// invokes the intake conversation agent, and appends its reply, or the
// fixed fallback apology when the call fails. When the agent's structured
// result carries a complete case summary, the conversation result is
// (re)set; a later extraction fully replaces an earlier one.
func (c *Case) SubmitUserTurn(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	if c.phase != models.PhaseConversation {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	c.intake.AppendUserTurn(text)
	c.touch()
	agentID := c.agents.Intake
	c.mu.Unlock()

	env := c.invokeAgent(ctx, "intake", agentID, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if env.Success && env.Response != nil {
		msg := env.Response.Message
		if msg == "" {
			msg = IntakeAckFallback
		}
		c.intake.AppendAgentTurn(msg)
		if result, ok := ExtractConversationResult(env); ok {
			c.conversation = result
		}
	} else {
		c.intake.AppendAgentTurn(FallbackApology)
	}
	c.touch()
	return nil
}

// AdvanceToSummary moves the case to the Summary phase. Requires a
// conversation result; without one the phase is unchanged.
func (c *Case) AdvanceToSummary() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.PhaseConversation {
		return ErrWrongPhase
	}
	if c.conversation == nil {
		return ErrNoConversationResult
	}
	c.phase = models.PhaseSummary
	c.touch()
	return nil
}

// ReturnToConversation is the only backward transition. No accumulated
// state is cleared.
func (c *Case) ReturnToConversation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.PhaseSummary {
		return ErrWrongPhase
	}
	c.phase = models.PhaseConversation
	c.editing = false
	c.summaryDraft = ""
	c.touch()
	return nil
}

// EditSummary opens an edit of the case summary with the given draft text.
func (c *Case) EditSummary(draft string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.PhaseSummary {
		return ErrWrongPhase
	}
	if c.conversation == nil {
		return ErrNoConversationResult
	}
	c.editing = true
	c.summaryDraft = draft
	c.touch()
	return nil
}

// SaveSummary commits the pending draft into the conversation result's
// case summary. Every other field of the result is left untouched. Without
// a pending edit this is a no-op.
func (c *Case) SaveSummary() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.PhaseSummary {
		return ErrWrongPhase
	}
	if c.conversation == nil {
		return ErrNoConversationResult
	}
	if !c.editing {
		return nil
	}
	c.conversation.CaseSummary = c.summaryDraft
	c.editing = false
	c.summaryDraft = ""
	c.touch()
	return nil
}

// CancelEdit discards a pending summary edit.
func (c *Case) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.PhaseSummary {
		return ErrWrongPhase
	}
	c.editing = false
	c.summaryDraft = ""
	c.touch()
	return nil
}

// analysisRequest is the payload serialized for the orchestrator.
type analysisRequest struct {
	CaseSummary        string                    `json:"case_summary"`
	TransactionDetails models.TransactionDetails `json:"transaction_details"`
	DisputeReason      string                    `json:"dispute_reason"`
	SupportingContext  string                    `json:"supporting_context"`
}

// resolutionRequest is the payload serialized for the resolution agent when
// generating the customer-facing resolution.
type resolutionRequest struct {
	Decision        string                  `json:"decision"`
	Reasoning       string                  `json:"reasoning"`
	PolicyCitations []models.PolicyCitation `json:"policy_citations"`
}

// SubmitForAnalysis transitions to Analysis and performs the single
// orchestrator invocation carrying the conversation result fields. On
// success the composite response is split into the typed buckets and, once a
// decision exists, resolution generation runs automatically and completes
// the Analysis → Resolution transition. Failures are recorded as a tagged
// phase error; the case stays in Analysis and the user re-triggers, so the
// action is also accepted from Analysis once no run is outstanding. The
// generation counter makes any still-in-flight completion of the superseded
// run a no-op.
func (c *Case) SubmitForAnalysis(ctx context.Context) error {
	c.mu.Lock()
	retriable := c.phase == models.PhaseAnalysis && !c.progress.Running
	if c.phase != models.PhaseSummary && !retriable {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	if c.conversation == nil {
		c.mu.Unlock()
		return ErrNoConversationResult
	}

	c.phase = models.PhaseAnalysis
	c.phaseErr = nil
	c.analysisGen++
	gen := c.analysisGen
	c.progress = models.AnalysisProgress{Percent: 0, Step: stepRetrieving, Running: true}
	c.startProgressSchedule(gen)

	payload, _ := json.Marshal(analysisRequest{
		CaseSummary:        c.conversation.CaseSummary,
		TransactionDetails: c.conversation.TransactionDetails,
		DisputeReason:      c.conversation.DisputeReason,
		SupportingContext:  c.conversation.SupportingContext,
	})
	agentID := c.agents.Orchestrator
	c.touch()
	c.mu.Unlock()

	env := c.invokeAgent(ctx, "orchestrator", agentID, string(payload))

	c.mu.Lock()
	if gen != c.analysisGen {
		// A newer submission superseded this call; its outcome must not
		// touch the case.
		c.mu.Unlock()
		return nil
	}
	c.stopProgressSchedule()

	if !env.Success || env.Response == nil {
		c.failAnalysis("orchestrator", envelopeError(env))
		c.mu.Unlock()
		return nil
	}

	if buckets, ok := SplitOrchestratorEnvelope(env); ok {
		if buckets.SQL != nil {
			c.sql = buckets.SQL
		}
		if buckets.Compliance != nil {
			c.compliance = buckets.Compliance
		}
		if buckets.Decision != nil {
			c.decision = buckets.Decision
		}
	}
	c.progress = models.AnalysisProgress{Percent: 100, Step: stepComplete, Running: false}

	if c.decision == nil {
		// Nothing to synthesize a resolution from. Surfaced instead of the
		// silent stall this used to be.
		c.phaseErr = &models.PhaseError{
			Stage:      "synthesis",
			Message:    "orchestrator response contained no decision",
			OccurredAt: time.Now(),
		}
		c.touch()
		c.mu.Unlock()
		return nil
	}

	resPayload, _ := json.Marshal(resolutionRequest{
		Decision:        c.decision.FinalDecision,
		Reasoning:       c.decision.Reasoning,
		PolicyCitations: c.decision.PolicyCitations,
	})
	resAgentID := c.agents.Resolution
	c.touch()
	c.mu.Unlock()

	resEnv := c.invokeAgent(ctx, "resolution", resAgentID, string(resPayload))

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.analysisGen {
		return nil
	}
	if result, ok := ExtractCustomerResolutionResult(resEnv); ok {
		c.resolution = result
		c.phase = models.PhaseResolution
	} else {
		c.phaseErr = &models.PhaseError{
			Stage:      "resolution",
			Message:    envelopeError(resEnv),
			OccurredAt: time.Now(),
		}
	}
	c.touch()
	return nil
}

// AskQuestion appends the question to the resolution Q&A transcript, invokes
// the resolution agent with the raw question text, and appends its reply or
// the fixed fallback apology.
func (c *Case) AskQuestion(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	if c.phase != models.PhaseResolution {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	c.qa.AppendUserTurn(text)
	c.touch()
	agentID := c.agents.Resolution
	c.mu.Unlock()

	env := c.invokeAgent(ctx, "resolution", agentID, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if env.Success && env.Response != nil {
		msg := env.Response.Message
		if msg == "" {
			msg = ResolutionAckFallback
		}
		c.qa.AppendAgentTurn(msg)
	} else {
		c.qa.AppendAgentTurn(FallbackApology)
	}
	c.touch()
	return nil
}

// failAnalysis records a tagged failure and parks the progress indicator on
// the failure label. Caller holds the lock.
func (c *Case) failAnalysis(stage, message string) {
	c.progress = models.AnalysisProgress{Percent: c.progress.Percent, Step: stepFailed, Running: false}
	c.phaseErr = &models.PhaseError{Stage: stage, Message: message, OccurredAt: time.Now()}
	c.touch()
}

// startProgressSchedule arms the decorative timers for one analysis run.
// Each timer checks the generation so a timer that outlives its run does
// nothing, and the percentage only ever moves forward. Caller holds the lock.
func (c *Case) startProgressSchedule(gen uint64) {
	for _, tick := range c.schedule {
		tick := tick
		timer := time.AfterFunc(tick.after, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if gen != c.analysisGen || !c.progress.Running {
				return
			}
			if tick.percent > c.progress.Percent {
				c.progress.Percent = tick.percent
			}
			if tick.step != "" {
				c.progress.Step = tick.step
			}
		})
		c.progressTimers = append(c.progressTimers, timer)
	}
}

// stopProgressSchedule cancels any pending decorative timers. Caller holds
// the lock.
func (c *Case) stopProgressSchedule() {
	for _, t := range c.progressTimers {
		t.Stop()
	}
	c.progressTimers = nil
}

func envelopeError(env *models.AgentEnvelope) string {
	if env != nil && env.Error != "" {
		return env.Error
	}
	return "agent returned no usable response"
}
