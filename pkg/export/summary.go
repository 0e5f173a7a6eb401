// Package export assembles the plain-text case summary document offered at
// the export boundary. The field order and labels are stable; downstream
// snapshot tooling depends on the exact layout.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creditops/disputeflow/pkg/models"
)

// ErrIncomplete is returned when the case has not accumulated both results
// the document is built from.
var ErrIncomplete = errors.New("case summary and resolution are both required for export")

// CaseSummaryDocument renders the downloadable dispute summary from the
// intake conversation result and the customer resolution result.
func CaseSummaryDocument(conv *models.ConversationResult, res *models.CustomerResolutionResult) (string, error) {
	if conv == nil || res == nil {
		return "", ErrIncomplete
	}

	var b strings.Builder

	b.WriteString("CREDIT CARD DISPUTE SUMMARY\n")
	b.WriteString("===========================\n\n")

	fmt.Fprintf(&b, "Case Summary: %s\n\n", conv.CaseSummary)

	b.WriteString("Transaction Details:\n")
	fmt.Fprintf(&b, "- Date: %s\n", conv.TransactionDetails.Date)
	fmt.Fprintf(&b, "- Amount: $%v\n", conv.TransactionDetails.Amount)
	fmt.Fprintf(&b, "- Merchant: %s\n", conv.TransactionDetails.Merchant)
	fmt.Fprintf(&b, "- Description: %s\n\n", conv.TransactionDetails.Description)

	fmt.Fprintf(&b, "Dispute Reason: %s\n\n", conv.DisputeReason)

	fmt.Fprintf(&b, "Decision: %s\n", strings.ToUpper(res.DecisionType))
	fmt.Fprintf(&b, "%s\n\n", res.DecisionSummary)

	fmt.Fprintf(&b, "%s\n\n", res.DetailedExplanation)

	b.WriteString("Next Steps:\n")
	for _, step := range res.NextSteps {
		fmt.Fprintf(&b, "%d. %s (%s)\n", step.StepNumber, step.Action, step.Timeline)
	}
	b.WriteString("\n")

	b.WriteString("Contact Information:\n")
	fmt.Fprintf(&b, "Phone: %s\n", res.ContactInfo.SupportPhone)
	fmt.Fprintf(&b, "Email: %s\n", res.ContactInfo.SupportEmail)
	fmt.Fprintf(&b, "Hours: %s\n", res.ContactInfo.Hours)

	return b.String(), nil
}
