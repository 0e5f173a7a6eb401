package models

// Typed agent results. Field names and JSON tags follow the response schemas
// of the dispute agent platform; changing them breaks extraction.

// TransactionDetails describes the disputed transaction as captured during
// the intake conversation.
type TransactionDetails struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Merchant    string  `json:"merchant"`
	Description string  `json:"description"`
}

// ConversationResult is the structured output of the intake conversation
// agent. Present only once the agent has assembled a complete case summary.
type ConversationResult struct {
	CaseSummary        string             `json:"case_summary"`
	TransactionDetails TransactionDetails `json:"transaction_details"`
	DisputeReason      string             `json:"dispute_reason"`
	SupportingContext  string             `json:"supporting_context"`
	CustomerSentiment  string             `json:"customer_sentiment"`
	NextSteps          string             `json:"next_steps"`
}

// DisputedTransaction is the transaction record located by the SQL agent.
type DisputedTransaction struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Merchant      string  `json:"merchant"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
}

// AccountHistory aggregates the cardholder's account activity.
type AccountHistory struct {
	AccountAgeDays      int     `json:"account_age_days"`
	TotalTransactions   int     `json:"total_transactions"`
	AverageMonthlySpend float64 `json:"average_monthly_spend"`
	PreviousDisputes    int     `json:"previous_disputes"`
}

// SQLQueryResult is the output of the transaction lookup sub-agent.
type SQLQueryResult struct {
	DisputedTransaction DisputedTransaction `json:"disputed_transaction"`
	RelatedTransactions []map[string]any    `json:"related_transactions"`
	AccountHistory      AccountHistory      `json:"account_history"`
	QueriesExecuted     []string            `json:"queries_executed"`
	DataSummary         string              `json:"data_summary"`
}

// ApplicablePolicy is a policy the compliance agent found relevant to the case.
type ApplicablePolicy struct {
	PolicyID      string `json:"policy_id"`
	PolicyName    string `json:"policy_name"`
	Description   string `json:"description"`
	AppliesBecause string `json:"applies_because"`
}

// ComplianceRule is a single rule with its threshold and how the current
// case measures against it.
type ComplianceRule struct {
	RuleID            string `json:"rule_id"`
	RuleDescription   string `json:"rule_description"`
	Threshold         string `json:"threshold"`
	CurrentCaseStatus string `json:"current_case_status"`
}

// ApprovalCriteria lists the conditions for each possible routing of the case.
type ApprovalCriteria struct {
	AutoApproveConditions  []string `json:"auto_approve_conditions"`
	AutoDenyConditions     []string `json:"auto_deny_conditions"`
	ManualReviewConditions []string `json:"manual_review_conditions"`
}

// SOPComplianceResult is the output of the policy compliance sub-agent.
type SOPComplianceResult struct {
	ApplicablePolicies []ApplicablePolicy `json:"applicable_policies"`
	ComplianceRules    []ComplianceRule   `json:"compliance_rules"`
	ApprovalCriteria   ApprovalCriteria   `json:"approval_criteria"`
	PolicyCitations    []string           `json:"policy_citations"`
	Recommendation     string             `json:"recommendation"`
	Confidence         float64            `json:"confidence"`
}

// KeyFinding is one weighted factor behind the synthesized decision.
type KeyFinding struct {
	Finding string `json:"finding"`
	Impact  string `json:"impact"`
	Weight  string `json:"weight"`
}

// PolicyCitation links a decision back to a specific policy.
type PolicyCitation struct {
	PolicyID   string `json:"policy_id"`
	PolicyName string `json:"policy_name"`
	Relevance  string `json:"relevance"`
}

// DecisionSynthesisResult is the output of the decision synthesis sub-agent
// (or the orchestrator's top-level final output, which takes precedence).
type DecisionSynthesisResult struct {
	FinalDecision      string           `json:"final_decision"`
	DecisionConfidence float64          `json:"decision_confidence"`
	Reasoning          string           `json:"reasoning"`
	KeyFindings        []KeyFinding     `json:"key_findings"`
	PolicyCitations    []PolicyCitation `json:"policy_citations"`
	SupportingEvidence []string         `json:"supporting_evidence"`
	RiskFactors        []string         `json:"risk_factors"`
	RecommendedAction  string           `json:"recommended_action"`
	EscalationReason   string           `json:"escalation_reason"`
}

// PolicyReference is a customer-friendly restatement of a cited policy.
type PolicyReference struct {
	PolicyName                  string `json:"policy_name"`
	CustomerFriendlyExplanation string `json:"customer_friendly_explanation"`
}

// NextStep is one numbered action the customer should take, with a timeline.
type NextStep struct {
	StepNumber int    `json:"step_number"`
	Action     string `json:"action"`
	Timeline   string `json:"timeline"`
}

// AppealOptions describes whether and how the customer can appeal.
type AppealOptions struct {
	CanAppeal          bool   `json:"can_appeal"`
	AppealDeadline     string `json:"appeal_deadline"`
	AppealInstructions string `json:"appeal_instructions"`
}

// ContactInfo is the support contact block shown with the resolution.
type ContactInfo struct {
	SupportPhone string `json:"support_phone"`
	SupportEmail string `json:"support_email"`
	Hours        string `json:"hours"`
}

// CustomerResolutionResult is the customer-facing resolution produced after
// a decision has been synthesized.
type CustomerResolutionResult struct {
	DecisionSummary         string            `json:"decision_summary"`
	DetailedExplanation     string            `json:"detailed_explanation"`
	DecisionType            string            `json:"decision_type"`
	ResolutionAmount        *float64          `json:"resolution_amount"`
	PolicyReferences        []PolicyReference `json:"policy_references"`
	NextSteps               []NextStep        `json:"next_steps"`
	AppealOptions           AppealOptions     `json:"appeal_options"`
	ContactInfo             ContactInfo       `json:"contact_info"`
	EstimatedResolutionDate *string           `json:"estimated_resolution_date"`
}
