// Package pricing holds the pure rental price and formatting helpers shared
// by the catalog and the booking wizard.
package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

// ServiceFeeRate is the flat fee shown on the booking confirmation.
const ServiceFeeRate = 0.10

type Quote struct {
	DailyRate  float64 `json:"daily_rate"`
	Days       int     `json:"days"`
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total"`
}

// DayCount is the inclusive number of calendar days between start and end,
// never less than one.
func DayCount(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 1
	}
	s := truncateDay(start)
	e := truncateDay(end.In(start.Location()))
	days := int(math.Round(e.Sub(s).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Subtotal(dailyRate float64, days int) float64 {
	return Round(dailyRate * float64(days))
}

func ServiceFee(subtotal float64) float64 {
	return Round(subtotal * ServiceFeeRate)
}

// Total is the amount displayed on confirmation, fee included.
func Total(subtotal float64) float64 {
	return Round(subtotal + ServiceFee(subtotal))
}

func NewQuote(dailyRate float64, start, end time.Time) Quote {
	days := DayCount(start, end)
	sub := Subtotal(dailyRate, days)
	return Quote{
		DailyRate:  dailyRate,
		Days:       days,
		Subtotal:   sub,
		ServiceFee: ServiceFee(sub),
		Total:      Total(sub),
	}
}

// Round rounds to cents.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// BrandName resolves the display name of a brand reference.
func BrandName(ref domain.BrandRef) string {
	if name := strings.TrimSpace(ref.Name); name != "" {
		return name
	}
	return "Unknown"
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// ISO renders t the way the backend expects timestamps.
func ISO(t time.Time) string {
	return strfmt.DateTime(t.UTC()).String()
}
