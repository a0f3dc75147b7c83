package billing

import (
	"sort"
	"time"

	"servicebid/models"

	"github.com/shopspring/decimal"
)

// monthlyBucketThresholdDays: past this range span the chart aggregates by
// calendar month instead of calendar day.
const monthlyBucketThresholdDays = 32

// ComputeTotals aggregates completed jobs finished inside [from, to], the
// upper bound taken inclusive of the whole end day. asOf anchors the pending
// clearing window so callers (and tests) control the reference clock.
func ComputeTotals(jobs []models.JobRequest, from, to, asOf time.Time) models.EarningsSummary {
	end := endOfDay(to)
	pendingSince := asOf.AddDate(0, 0, -PendingClearingDays)

	gross := decimal.Zero
	pending := decimal.Zero
	count := 0
	byBucket := make(map[string]*models.ChartBucket)
	monthly := end.Sub(from) > monthlyBucketThresholdDays*24*time.Hour

	for _, job := range jobs {
		if job.Status != models.StatusCompleted || job.FinishedAt == nil {
			continue
		}
		finished := *job.FinishedAt
		if finished.Before(from) || finished.After(end) {
			continue
		}

		price := decimal.NewFromFloat(job.AgreedPrice())
		gross = gross.Add(price)
		count++
		if finished.After(pendingSince) {
			pending = pending.Add(price)
		}

		label := bucketLabel(finished, monthly)
		bucket, ok := byBucket[label]
		if !ok {
			bucket = &models.ChartBucket{Label: label}
			byBucket[label] = bucket
		}
		bucket.Total = bucket.Total.Add(price)
		bucket.Count++
	}

	vat := gross.Mul(decimal.NewFromInt(VATRatePercent)).Div(decimal.NewFromInt(100))
	available := gross.Sub(vat).Sub(pending)

	buckets := make([]models.ChartBucket, 0, len(byBucket))
	for _, b := range byBucket {
		b.Total = b.Total.Round(2)
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Label < buckets[j].Label })

	return models.EarningsSummary{
		From:      from,
		To:        end,
		JobsCount: count,
		Gross:     gross.Round(2),
		VAT:       vat.Round(2),
		Pending:   pending.Round(2),
		Available: available.Round(2),
		Buckets:   buckets,
	}
}

func bucketLabel(t time.Time, monthly bool) string {
	if monthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
