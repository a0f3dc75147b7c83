package billing

import (
	"time"

	"servicebid/models"
)

// FiscalYearReport is the hand-over structure for the external PDF renderer:
// the year's summary plus one row per calendar month, including empty ones so
// the renderer never has to fill gaps.
type FiscalYearReport struct {
	Year    int                    `json:"year"`
	Summary models.EarningsSummary `json:"summary"`
	Months  []models.ChartBucket   `json:"months"`
}

// ComputeFiscalYear aggregates one calendar year of completed jobs. asOf
// anchors the pending window exactly as in ComputeTotals.
func ComputeFiscalYear(jobs []models.JobRequest, year int, asOf time.Time) FiscalYearReport {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)
	summary := ComputeTotals(jobs, from, to, asOf)

	// Twelve fixed rows; the computed buckets fill in the non-empty months.
	months := make([]models.ChartBucket, 12)
	for i := range months {
		months[i].Label = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	}
	for _, bucket := range summary.Buckets {
		t, err := time.Parse("2006-01", bucket.Label)
		if err != nil || t.Year() != year {
			continue
		}
		months[int(t.Month())-1] = bucket
	}

	return FiscalYearReport{Year: year, Summary: summary, Months: months}
}
