// Package billing is the pure financial layer: invoice generation and
// earnings aggregation. Nothing here touches the repository or the clock;
// identical inputs always produce identical outputs.
package billing

import (
	"fmt"

	"servicebid/models"

	"github.com/shopspring/decimal"
)

// VATRatePercent is the Luxembourg standard VAT rate applied to every line.
const VATRatePercent = 17

// PendingClearingDays is the payout clearing window: earnings from jobs
// finished within this many days count as pending, not available.
const PendingClearingDays = 3

// ComputeInvoice builds the invoice snapshot for a finished job. One line
// item at the agreed price, quantity 1. Totals carry full precision until the
// final 2-decimal rounding.
func ComputeInvoice(issuer models.CompanyDetails, clientName string, job models.JobRequest, agreedPrice float64) models.Invoice {
	unitPrice := decimal.NewFromFloat(agreedPrice)
	vatRate := decimal.NewFromInt(VATRatePercent)

	subtotal := unitPrice // quantity 1
	vat := subtotal.Mul(vatRate).Div(decimal.NewFromInt(100))
	total := subtotal.Add(vat)

	description := job.Title
	if description == "" {
		description = job.Description
	}
	description = fmt.Sprintf("%s: %s", job.Category, description)

	issuedAt := job.CreatedAt
	if job.FinishedAt != nil {
		issuedAt = *job.FinishedAt
	}

	return models.Invoice{
		Number:     "INV-" + job.ID,
		JobID:      job.ID,
		IssuedAt:   issuedAt,
		Issuer:     issuer,
		ClientName: clientName,
		Lines: []models.InvoiceLine{{
			Description: description,
			Quantity:    1,
			UnitPrice:   unitPrice.Round(2),
			VATRate:     vatRate,
			Total:       subtotal.Round(2),
		}},
		SubtotalHT: subtotal.Round(2),
		TotalVAT:   vat.Round(2),
		TotalTTC:   total.Round(2),
	}
}
