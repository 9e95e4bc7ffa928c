package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAccruedInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		start     time.Time
		asOf      time.Time
		want      string
	}{
		{
			name:      "182 days on 10000 at 10 percent",
			principal: "10000", rate: "10",
			start: date(2024, 1, 1), asOf: date(2024, 7, 1),
			want: "498.63",
		},
		{
			name:      "zero days elapsed",
			principal: "10000", rate: "10",
			start: date(2024, 1, 1), asOf: date(2024, 1, 1),
			want: "0.00",
		},
		{
			name:      "asOf before start clamps to zero",
			principal: "50000", rate: "12",
			start: date(2024, 6, 1), asOf: date(2024, 1, 1),
			want: "0.00",
		},
		{
			name:      "zero rate accrues nothing",
			principal: "10000", rate: "0",
			start: date(2024, 1, 1), asOf: date(2025, 1, 1),
			want: "0.00",
		},
		{
			name:      "full year at 10 percent",
			principal: "10000", rate: "10",
			start: date(2023, 1, 1), asOf: date(2024, 1, 1),
			want: "1000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decimal.RequireFromString(tt.principal)
			r := decimal.RequireFromString(tt.rate)
			got := AccruedInterest(p, r, tt.start, tt.asOf)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestAccruedInterestRoundsHalfToEven(t *testing.T) {
	// 1 day of 0.365% on 12500 gives exactly 0.125, the half-way case:
	// banker's rounding lands on the even digit, 0.12 not 0.13.
	p := decimal.NewFromInt(12500)
	r := decimal.RequireFromString("0.365")
	got := AccruedInterest(p, r, date(2024, 1, 1), date(2024, 1, 2))
	assert.Equal(t, "0.12", got.StringFixed(2))
}

func TestAccruedInterestMonotonic(t *testing.T) {
	p := decimal.NewFromInt(25000)
	r := decimal.RequireFromString("8.5")
	start := date(2024, 3, 15)

	prev := decimal.Zero
	for days := 0; days <= 400; days += 7 {
		asOf := start.AddDate(0, 0, days)
		got := AccruedInterest(p, r, start, asOf)
		assert.True(t, got.GreaterThanOrEqual(prev),
			"interest decreased at day %d: %s < %s", days, got, prev)
		prev = got
	}
}

func TestDaysRemaining(t *testing.T) {
	end := date(2024, 12, 31)

	assert.Equal(t, 0, DaysRemaining(end, date(2025, 1, 1)), "past end date clamps to zero")
	assert.Equal(t, 0, DaysRemaining(end, end))
	assert.Equal(t, 1, DaysRemaining(end, date(2024, 12, 30)))
	assert.Equal(t, 366, DaysRemaining(end, date(2023, 12, 31)), "2024 is a leap year")
	assert.Equal(t, 0, DaysRemaining(end, date(2030, 1, 1)), "far past end date clamps to zero")
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 365, DurationDays(date(2024, 1, 1), date(2024, 12, 31)), "leap year span")
	assert.Equal(t, 31, DurationDays(date(2024, 6, 1), date(2024, 7, 2)))
	assert.Equal(t, 0, DurationDays(date(2024, 6, 1), date(2024, 6, 1)))
	assert.Equal(t, 0, DurationDays(date(2024, 6, 2), date(2024, 6, 1)), "reversed dates clamp to zero")
}

func TestClassifyPartitionsBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want RiskBucket
	}{
		{0, RiskCritical},
		{29, RiskCritical},
		{30, RiskCritical},
		{31, RiskWarning},
		{89, RiskWarning},
		{90, RiskWarning},
		{91, RiskHealthy},
		{365, RiskHealthy},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Classify(tt.days), "days=%d", tt.days)
	}
}

func TestTotalOutstanding(t *testing.T) {
	p := decimal.RequireFromString("10000.00")
	i := decimal.RequireFromString("498.63")
	assert.Equal(t, "10498.63", TotalOutstanding(p, i).StringFixed(2))
}

func TestMonthlyInterest(t *testing.T) {
	// 12000 at 12% -> 1440/year -> 120/month, independent of any dates.
	p := decimal.NewFromInt(12000)
	r := decimal.NewFromInt(12)
	assert.Equal(t, "120.00", MonthlyInterest(p, r).StringFixed(2))

	assert.Equal(t, "0.00", MonthlyInterest(p, decimal.Zero).StringFixed(2))
}
