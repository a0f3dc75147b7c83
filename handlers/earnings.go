package handlers

import (
	"net/http"
	"time"

	"servicebid/database/repository"
	"servicebid/services/billing"

	"github.com/gin-gonic/gin"
)

// defaultEarningsRangeDays is the reporting window when none is given.
const defaultEarningsRangeDays = 30

// namedRangeStart maps the dashboard's preset ranges to a start time.
func namedRangeStart(name string, now time.Time) (time.Time, bool) {
	switch name {
	case "TODAY":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case "WEEK":
		return now.AddDate(0, 0, -7), true
	case "MONTH":
		return now.AddDate(0, -1, 0), true
	case "YEAR":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// EarningsHandler aggregates the caller's completed jobs into an earnings
// summary. Query: ?range=TODAY|WEEK|MONTH|YEAR or ?from=YYYY-MM-DD&to=YYYY-MM-DD,
// default last 30 days.
func EarningsHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		from := now.AddDate(0, 0, -defaultEarningsRangeDays)
		to := now

		if name := c.Query("range"); name != "" {
			start, ok := namedRangeStart(name, now)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range, expected TODAY, WEEK, MONTH or YEAR"})
				return
			}
			jobs := repo.ListJobsByPro(c.GetString("userID"))
			c.JSON(http.StatusOK, billing.ComputeTotals(jobs, start, now, now))
			return
		}

		if raw := c.Query("from"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
				return
			}
			from = parsed
		}
		if raw := c.Query("to"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
				return
			}
			to = parsed
		}
		if to.Before(from) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
			return
		}

		jobs := repo.ListJobsByPro(c.GetString("userID"))
		c.JSON(http.StatusOK, billing.ComputeTotals(jobs, from, to, now))
	}
}
