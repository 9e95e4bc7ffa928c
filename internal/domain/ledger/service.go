package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/accrual"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"
)

const dateLayout = "2006-01-02"

// LoanProjection is an active loan with its derived fields attached, computed
// as of the service clock at read time.
type LoanProjection struct {
	Loan
	AccruedInterest  decimal.Decimal
	TotalOutstanding decimal.Decimal
	MonthlyInterest  decimal.Decimal
	DaysRemaining    int
	DurationDays     int
	Risk             accrual.RiskBucket
}

// RiskSlice aggregates the loans that fall into one risk bucket.
type RiskSlice struct {
	Loans       int
	Outstanding decimal.Decimal
}

// DashboardSummary is the portfolio-level rollup shown on the dashboard.
type DashboardSummary struct {
	ActiveLoans          int
	TotalLoanAmount      decimal.Decimal
	TotalAccruedInterest decimal.Decimal
	TotalOutstanding     decimal.Decimal
	Critical             RiskSlice
	Warning              RiskSlice
	Healthy              RiskSlice
}

// FarmerSummary aggregates a single farmer's active loans.
type FarmerSummary struct {
	FarmerName       string
	FatherName       string
	Loans            int
	TotalPrincipal   decimal.Decimal
	TotalInterest    decimal.Decimal
	TotalOutstanding decimal.Decimal
	MonthlyInterest  decimal.Decimal
}

type AddLoanInput struct {
	FarmerName   string
	FatherName   string
	LoanAmount   float64
	InterestRate float64
	StartDate    time.Time
	EndDate      time.Time
}

// Service is the contract handed to the presentation layer. It owns all loan
// and history mutations; no other component writes to either table.
type Service interface {
	AddLoan(ctx context.Context, in AddLoanInput) (*Loan, error)

	// ListActiveLoans returns active loans with computed fields as of now.
	ListActiveLoans(ctx context.Context) ([]LoanProjection, error)

	GetHistory(ctx context.Context, filter HistoryFilter) ([]HistoryRecord, error)

	// SoftDeleteLoan marks the loan Inactive, recording reason in the trail.
	SoftDeleteLoan(ctx context.Context, id int64, reason string) error

	// UpdateEndDate extends or shortens the loan, recording reason. The new
	// end date must fall after the loan's start date.
	UpdateEndDate(ctx context.Context, id int64, newEnd time.Time, reason string) error

	DashboardSummary(ctx context.Context) (*DashboardSummary, error)

	FarmerAnalytics(ctx context.Context) ([]FarmerSummary, error)
}

type serviceImpl struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(r Repository, logger *slog.Logger) Service {
	return &serviceImpl{
		repo:   r,
		logger: logger.With("component", "LedgerService"),
		now:    time.Now,
	}
}

func (s *serviceImpl) AddLoan(ctx context.Context, in AddLoanInput) (*Loan, error) {
	if err := validateAddLoan(in); err != nil {
		monitoring.RecordLedgerOperation("add_loan", "failure_validation")
		return nil, err
	}

	l := &Loan{
		FarmerName:   in.FarmerName,
		FatherName:   in.FatherName,
		LoanAmount:   in.LoanAmount,
		InterestRate: in.InterestRate,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Status:       StatusActive,
	}

	details := fmt.Sprintf("Loan created for %s (s/o %s) with amount ₹%s",
		in.FarmerName, in.FatherName, formatMoney(decimal.NewFromFloat(in.LoanAmount)))

	if err := s.repo.CreateLoan(ctx, l, details); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create loan", "farmer", in.FarmerName, "error", err)
		monitoring.RecordLedgerOperation("add_loan", "failure_storage")
		return nil, err
	}

	s.logger.InfoContext(ctx, "Loan created", "loan_id", l.ID, "farmer", l.FarmerName)
	monitoring.RecordLedgerOperation("add_loan", "success")
	return l, nil
}

// formatMoney renders an amount to two decimal places with comma-grouped
// thousands, e.g. 10,000.00.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)
	return b.String()
}

func validateAddLoan(in AddLoanInput) error {
	if in.FarmerName == "" {
		return apperrors.NewValidationError("farmer_name", "farmer name is required")
	}
	if in.FatherName == "" {
		return apperrors.NewValidationError("father_name", "father name is required")
	}
	if in.LoanAmount <= 0 {
		return apperrors.NewValidationError("loan_amount", "loan amount must be greater than zero")
	}
	if in.InterestRate < 0 || in.InterestRate > 100 {
		return apperrors.NewValidationError("interest_rate", "interest rate must be between 0 and 100")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return apperrors.NewValidationError("start_date", "start and end dates are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return apperrors.NewValidationError("end_date", "end date must be after start date")
	}
	return nil
}

func (s *serviceImpl) ListActiveLoans(ctx context.Context) ([]LoanProjection, error) {
	loans, err := s.repo.ListActiveLoans(ctx)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	out := make([]LoanProjection, 0, len(loans))
	for _, l := range loans {
		out = append(out, project(l, asOf))
	}
	return out, nil
}

// project derives the computed fields for one loan as of the given date.
func project(l Loan, asOf time.Time) LoanProjection {
	principal := decimal.NewFromFloat(l.LoanAmount)
	rate := decimal.NewFromFloat(l.InterestRate)

	interest := accrual.AccruedInterest(principal, rate, l.StartDate, asOf)
	remaining := accrual.DaysRemaining(l.EndDate, asOf)

	return LoanProjection{
		Loan:             l,
		AccruedInterest:  interest,
		TotalOutstanding: accrual.TotalOutstanding(principal, interest),
		MonthlyInterest:  accrual.MonthlyInterest(principal, rate),
		DaysRemaining:    remaining,
		DurationDays:     accrual.DurationDays(l.StartDate, l.EndDate),
		Risk:             accrual.Classify(remaining),
	}
}

func (s *serviceImpl) GetHistory(ctx context.Context, filter HistoryFilter) ([]HistoryRecord, error) {
	return s.repo.ListHistory(ctx, filter)
}

func (s *serviceImpl) SoftDeleteLoan(ctx context.Context, id int64, reason string) error {
	details := fmt.Sprintf("Loan marked as inactive. Reason: %s", reason)
	if err := s.repo.DeactivateLoan(ctx, id, details); err != nil {
		s.logger.ErrorContext(ctx, "Failed to deactivate loan", "loan_id", id, "error", err)
		monitoring.RecordLedgerOperation("soft_delete", "failure")
		return err
	}

	s.logger.InfoContext(ctx, "Loan deactivated", "loan_id", id)
	monitoring.RecordLedgerOperation("soft_delete", "success")
	return nil
}

func (s *serviceImpl) UpdateEndDate(ctx context.Context, id int64, newEnd time.Time, reason string) error {
	l, err := s.repo.GetLoanByID(ctx, id)
	if err != nil {
		monitoring.RecordLedgerOperation("update_end_date", "failure")
		return err
	}

	// An end date at or before the start breaks the day counts downstream.
	if !newEnd.After(l.StartDate) {
		monitoring.RecordLedgerOperation("update_end_date", "failure_validation")
		return apperrors.NewValidationError("new_end_date", "new end date must be after the loan start date")
	}

	details := fmt.Sprintf("End date updated to %s. Reason: %s", newEnd.Format(dateLayout), reason)
	if err := s.repo.UpdateEndDate(ctx, id, newEnd, details); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update end date", "loan_id", id, "error", err)
		monitoring.RecordLedgerOperation("update_end_date", "failure")
		return err
	}

	s.logger.InfoContext(ctx, "Loan end date updated", "loan_id", id, "new_end_date", newEnd.Format(dateLayout))
	monitoring.RecordLedgerOperation("update_end_date", "success")
	return nil
}

func (s *serviceImpl) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	projections, err := s.ListActiveLoans(ctx)
	if err != nil {
		return nil, err
	}

	sum := &DashboardSummary{
		ActiveLoans:          len(projections),
		TotalLoanAmount:      decimal.Zero,
		TotalAccruedInterest: decimal.Zero,
		TotalOutstanding:     decimal.Zero,
		Critical:             RiskSlice{Outstanding: decimal.Zero},
		Warning:              RiskSlice{Outstanding: decimal.Zero},
		Healthy:              RiskSlice{Outstanding: decimal.Zero},
	}

	for _, p := range projections {
		sum.TotalLoanAmount = sum.TotalLoanAmount.Add(decimal.NewFromFloat(p.LoanAmount))
		sum.TotalAccruedInterest = sum.TotalAccruedInterest.Add(p.AccruedInterest)
		sum.TotalOutstanding = sum.TotalOutstanding.Add(p.TotalOutstanding)

		switch p.Risk {
		case accrual.RiskCritical:
			sum.Critical.Loans++
			sum.Critical.Outstanding = sum.Critical.Outstanding.Add(p.TotalOutstanding)
		case accrual.RiskWarning:
			sum.Warning.Loans++
			sum.Warning.Outstanding = sum.Warning.Outstanding.Add(p.TotalOutstanding)
		default:
			sum.Healthy.Loans++
			sum.Healthy.Outstanding = sum.Healthy.Outstanding.Add(p.TotalOutstanding)
		}
	}
	return sum, nil
}

func (s *serviceImpl) FarmerAnalytics(ctx context.Context) ([]FarmerSummary, error) {
	projections, err := s.ListActiveLoans(ctx)
	if err != nil {
		return nil, err
	}

	byFarmer := make(map[string]*FarmerSummary)
	order := make([]string, 0)

	for _, p := range projections {
		fs, ok := byFarmer[p.FarmerName]
		if !ok {
			fs = &FarmerSummary{
				FarmerName:       p.FarmerName,
				FatherName:       p.FatherName,
				TotalPrincipal:   decimal.Zero,
				TotalInterest:    decimal.Zero,
				TotalOutstanding: decimal.Zero,
				MonthlyInterest:  decimal.Zero,
			}
			byFarmer[p.FarmerName] = fs
			order = append(order, p.FarmerName)
		}
		fs.Loans++
		fs.TotalPrincipal = fs.TotalPrincipal.Add(decimal.NewFromFloat(p.LoanAmount))
		fs.TotalInterest = fs.TotalInterest.Add(p.AccruedInterest)
		fs.TotalOutstanding = fs.TotalOutstanding.Add(p.TotalOutstanding)
		fs.MonthlyInterest = fs.MonthlyInterest.Add(p.MonthlyInterest)
	}

	out := make([]FarmerSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *byFarmer[name])
	}
	return out, nil
}
