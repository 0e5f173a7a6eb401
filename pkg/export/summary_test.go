package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditops/disputeflow/pkg/models"
)

func TestCaseSummaryDocument_Layout(t *testing.T) {
	conv := &models.ConversationResult{
		CaseSummary: "Unauthorized charge of $125.50 at Acme Store",
		TransactionDetails: models.TransactionDetails{
			Date:        "2026-08-01",
			Amount:      125.50,
			Merchant:    "Acme Store",
			Description: "POS purchase",
		},
		DisputeReason: "unauthorized",
	}
	res := &models.CustomerResolutionResult{
		DecisionSummary:     "Your dispute has been approved.",
		DetailedExplanation: "The charge did not match your spending pattern.",
		DecisionType:        "approved",
		NextSteps: []models.NextStep{
			{StepNumber: 1, Action: "Watch for the credit on your statement", Timeline: "5 business days"},
			{StepNumber: 2, Action: "Destroy the compromised card", Timeline: "immediately"},
		},
		ContactInfo: models.ContactInfo{
			SupportPhone: "1-800-555-0199",
			SupportEmail: "disputes@example.com",
			Hours:        "Mon-Fri 8am-8pm ET",
		},
	}

	doc, err := CaseSummaryDocument(conv, res)
	require.NoError(t, err)

	want := "CREDIT CARD DISPUTE SUMMARY\n" +
		"===========================\n\n" +
		"Case Summary: Unauthorized charge of $125.50 at Acme Store\n\n" +
		"Transaction Details:\n" +
		"- Date: 2026-08-01\n" +
		"- Amount: $125.5\n" +
		"- Merchant: Acme Store\n" +
		"- Description: POS purchase\n\n" +
		"Dispute Reason: unauthorized\n\n" +
		"Decision: APPROVED\n" +
		"Your dispute has been approved.\n\n" +
		"The charge did not match your spending pattern.\n\n" +
		"Next Steps:\n" +
		"1. Watch for the credit on your statement (5 business days)\n" +
		"2. Destroy the compromised card (immediately)\n\n" +
		"Contact Information:\n" +
		"Phone: 1-800-555-0199\n" +
		"Email: disputes@example.com\n" +
		"Hours: Mon-Fri 8am-8pm ET\n"

	assert.Equal(t, want, doc)
}

func TestCaseSummaryDocument_Incomplete(t *testing.T) {
	_, err := CaseSummaryDocument(nil, &models.CustomerResolutionResult{})
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = CaseSummaryDocument(&models.ConversationResult{}, nil)
	assert.ErrorIs(t, err, ErrIncomplete)
}
