package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is a single billed item.
type InvoiceLine struct {
	Description string          `bson:"description" json:"description"`
	Quantity    int             `bson:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `bson:"unitPrice" json:"unitPrice"`
	VATRate     decimal.Decimal `bson:"vatRate" json:"vatRate"` // percent
	Total       decimal.Decimal `bson:"total" json:"total"`
}

// Invoice is a derived snapshot built from a finished job and the pro's
// company details. It is never stored; identical inputs always regenerate an
// identical invoice, which is why it carries no generated ID or clock read.
type Invoice struct {
	Number     string         `bson:"number" json:"number"`
	JobID      string         `bson:"jobId" json:"jobId"`
	IssuedAt   time.Time      `bson:"issuedAt" json:"issuedAt"`
	Issuer     CompanyDetails `bson:"issuer" json:"issuer"`
	ClientName string         `bson:"clientName" json:"clientName"`

	Lines      []InvoiceLine   `bson:"lines" json:"lines"`
	SubtotalHT decimal.Decimal `bson:"subtotalHT" json:"subtotalHT"`
	TotalVAT   decimal.Decimal `bson:"totalVAT" json:"totalVAT"`
	TotalTTC   decimal.Decimal `bson:"totalTTC" json:"totalTTC"`
}

// ChartBucket is one aggregation bucket of an earnings chart, keyed by
// calendar day or calendar month.
type ChartBucket struct {
	Label string          `json:"label"` // "2026-08-28" or "2026-08"
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// EarningsSummary aggregates completed jobs inside a date range.
type EarningsSummary struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	JobsCount int             `json:"jobsCount"`
	Gross     decimal.Decimal `json:"gross"`
	VAT       decimal.Decimal `json:"vat"`
	Pending   decimal.Decimal `json:"pending"`   // finished inside the clearing window
	Available decimal.Decimal `json:"available"` // gross - vat - pending
	Buckets   []ChartBucket   `json:"buckets"`
}
