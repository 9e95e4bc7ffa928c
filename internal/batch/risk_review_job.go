package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/accrual"
	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/infrastructure/monitoring"
)

// RiskReviewJob recomputes risk buckets across active loans once a day,
// publishes the per-bucket gauges and logs every critical loan so the
// operator sees upcoming end dates without opening the dashboard.
type RiskReviewJob struct {
	service ledger.Service
	logger  *slog.Logger
}

func NewRiskReviewJob(svc ledger.Service, logger *slog.Logger) *RiskReviewJob {
	if svc == nil || logger == nil {
		panic("RiskReviewJob dependencies cannot be nil")
	}
	return &RiskReviewJob{
		service: svc,
		logger:  logger.With("job", "RiskReview"),
	}
}

func (j *RiskReviewJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily loan risk review job.")

	projections, err := j.service.ListActiveLoans(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list active loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list active loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched active loans.", slog.Int("count", len(projections)))

	type bucketTally struct {
		loans       int
		outstanding decimal.Decimal
	}
	tallies := map[accrual.RiskBucket]*bucketTally{
		accrual.RiskCritical: {outstanding: decimal.Zero},
		accrual.RiskWarning:  {outstanding: decimal.Zero},
		accrual.RiskHealthy:  {outstanding: decimal.Zero},
	}

	for i := range projections {
		p := &projections[i]
		tally := tallies[p.Risk]
		tally.loans++
		tally.outstanding = tally.outstanding.Add(p.TotalOutstanding)

		if p.Risk == accrual.RiskCritical {
			j.logger.WarnContext(ctx, "Loan approaching end date.",
				slog.Int64("loan_id", p.ID),
				slog.String("farmer", p.FarmerName),
				slog.Int("days_remaining", p.DaysRemaining),
				slog.String("outstanding", p.TotalOutstanding.StringFixed(2)),
			)
		}
	}

	for bucket, tally := range tallies {
		monitoring.SetRiskBucket(string(bucket), tally.loans, tally.outstanding.InexactFloat64())
	}

	j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("total_active_loans", len(projections)),
		slog.Int("critical", tallies[accrual.RiskCritical].loans),
		slog.Int("warning", tallies[accrual.RiskWarning].loans),
		slog.Int("healthy", tallies[accrual.RiskHealthy].loans),
	).InfoContext(ctx, "Loan risk review job finished successfully.")

	return nil
}
