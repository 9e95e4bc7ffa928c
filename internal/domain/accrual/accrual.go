// Package accrual provides the pure interest and risk computations applied to
// loan records at read time. All functions are stateless and safe to call per
// loan per request; monetary results use shopspring/decimal to avoid float
// drift in repeated aggregation.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskBucket classifies a loan by the number of days left until its end date.
type RiskBucket string

const (
	RiskCritical RiskBucket = "Critical"
	RiskWarning  RiskBucket = "Warning"
	RiskHealthy  RiskBucket = "Healthy"
)

const (
	criticalMaxDays = 30
	warningMaxDays  = 90
)

// percentDays = 100 * 365, the divisor of the simple-interest day-count formula.
var percentDays = decimal.NewFromInt(100 * 365)

var monthsPerYear = decimal.NewFromInt(12)

var hundred = decimal.NewFromInt(100)

// AccruedInterest computes simple (non-compounding) interest accrued between
// start and asOf: principal * ratePercent * daysElapsed / (100 * 365).
// Days before the start date do not accrue; an asOf earlier than start yields
// zero. The result is rounded to 2 decimal places with banker's rounding
// (round half to even).
func AccruedInterest(principal, ratePercent decimal.Decimal, start, asOf time.Time) decimal.Decimal {
	days := daysBetween(start, asOf)
	if days < 0 {
		days = 0
	}
	interest := principal.
		Mul(ratePercent).
		Mul(decimal.NewFromInt(int64(days))).
		Div(percentDays)
	return interest.RoundBank(2)
}

// DaysRemaining reports the whole days from asOf until end, never negative.
func DaysRemaining(end, asOf time.Time) int {
	remaining := daysBetween(asOf, end)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DurationDays reports the whole days a loan spans from start to end.
func DurationDays(start, end time.Time) int {
	d := daysBetween(start, end)
	if d < 0 {
		return 0
	}
	return d
}

// Classify maps days remaining onto a risk bucket: Critical when 30 or fewer
// days are left, Warning for 31-90, Healthy above 90.
func Classify(daysRemaining int) RiskBucket {
	switch {
	case daysRemaining <= criticalMaxDays:
		return RiskCritical
	case daysRemaining <= warningMaxDays:
		return RiskWarning
	default:
		return RiskHealthy
	}
}

// TotalOutstanding is the principal plus interest accrued so far. No rounding
// beyond what the inputs already carry.
func TotalOutstanding(principal, accruedInterest decimal.Decimal) decimal.Decimal {
	return principal.Add(accruedInterest)
}

// MonthlyInterest is the flat monthly approximation
// principal * (ratePercent/100) / 12, deliberately cruder than AccruedInterest:
// it ignores days elapsed and carries no rounding of its own.
func MonthlyInterest(principal, ratePercent decimal.Decimal) decimal.Decimal {
	return principal.Mul(ratePercent).Div(hundred).Div(monthsPerYear)
}

// daysBetween counts whole calendar days from a to b, ignoring the time of day
// on either side. Negative when b precedes a.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
