package card

import (
	"fmt"
	"time"
)

// ExpiryDate returns the card validity date, exactly one calendar year after
// the issue date, formatted as YYYY-MM-DD. Day normalization around leap
// years follows time.AddDate.
func ExpiryDate(issue time.Time) string {
	return issue.AddDate(1, 0, 0).Format("2006-01-02")
}

// NewCardNumber derives a card number from the creation timestamp.
func NewCardNumber(now time.Time) string {
	return fmt.Sprintf("CARD-%d", now.UnixMilli())
}
