package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"loan-ledger/internal/domain/ledger"
)

const dateLayout = "2006-01-02"

type CreateLoanRequest struct {
	FarmerName   string  `json:"farmerName"`
	FatherName   string  `json:"fatherName"`
	LoanAmount   float64 `json:"loanAmount"`
	InterestRate float64 `json:"interestRate"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.FarmerName == "" {
		return fmt.Errorf("farmerName is required")
	}
	if r.FatherName == "" {
		return fmt.Errorf("fatherName is required")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loanAmount must be greater than zero")
	}
	if r.InterestRate < 0 || r.InterestRate > 100 {
		return fmt.Errorf("interestRate must be between 0 and 100")
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid startDate format (use YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid endDate format (use YYYY-MM-DD): %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("endDate must be after startDate")
	}
	return nil
}

type DeleteLoanRequest struct {
	Reason string `json:"reason"`
}

type UpdateEndDateRequest struct {
	NewEndDate string `json:"newEndDate"`
	Reason     string `json:"reason"`
}

func (r *UpdateEndDateRequest) Validate() error {
	if _, err := time.Parse(dateLayout, r.NewEndDate); err != nil {
		return fmt.Errorf("invalid newEndDate format (use YYYY-MM-DD): %w", err)
	}
	return nil
}

type LoanResponse struct {
	ID           string    `json:"id"`
	FarmerName   string    `json:"farmerName"`
	FatherName   string    `json:"fatherName"`
	LoanAmount   string    `json:"loanAmount"`
	InterestRate string    `json:"interestRate"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ActiveLoanResponse struct {
	LoanResponse
	AccruedInterest  string `json:"accruedInterest"`
	TotalOutstanding string `json:"totalOutstanding"`
	MonthlyInterest  string `json:"monthlyInterest"`
	DaysRemaining    int    `json:"daysRemaining"`
	DurationDays     int    `json:"durationDays"`
	Risk             string `json:"risk"`
}

type HistoryEntryResponse struct {
	ActionTimestamp time.Time `json:"actionTimestamp"`
	FarmerName      string    `json:"farmerName"`
	FatherName      string    `json:"fatherName"`
	Action          string    `json:"action"`
	Details         string    `json:"details"`
}

type RiskSliceResponse struct {
	Loans       int    `json:"loans"`
	Outstanding string `json:"outstanding"`
}

type SummaryResponse struct {
	ActiveLoans          int               `json:"activeLoans"`
	TotalLoanAmount      string            `json:"totalLoanAmount"`
	TotalAccruedInterest string            `json:"totalAccruedInterest"`
	TotalOutstanding     string            `json:"totalOutstanding"`
	Critical             RiskSliceResponse `json:"critical"`
	Warning              RiskSliceResponse `json:"warning"`
	Healthy              RiskSliceResponse `json:"healthy"`
}

type FarmerSummaryResponse struct {
	FarmerName       string `json:"farmerName"`
	FatherName       string `json:"fatherName"`
	Loans            int    `json:"loans"`
	TotalPrincipal   string `json:"totalPrincipal"`
	TotalInterest    string `json:"totalInterest"`
	TotalOutstanding string `json:"totalOutstanding"`
	MonthlyInterest  string `json:"monthlyInterest"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

func NewLoanResponse(l *ledger.Loan) LoanResponse {
	return LoanResponse{
		ID:           strconv.FormatInt(l.ID, 10),
		FarmerName:   l.FarmerName,
		FatherName:   l.FatherName,
		LoanAmount:   decimal.NewFromFloat(l.LoanAmount).StringFixed(2),
		InterestRate: decimal.NewFromFloat(l.InterestRate).String(),
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
}

func NewActiveLoanResponse(p *ledger.LoanProjection) ActiveLoanResponse {
	return ActiveLoanResponse{
		LoanResponse:     NewLoanResponse(&p.Loan),
		AccruedInterest:  p.AccruedInterest.StringFixed(2),
		TotalOutstanding: p.TotalOutstanding.StringFixed(2),
		MonthlyInterest:  p.MonthlyInterest.StringFixed(2),
		DaysRemaining:    p.DaysRemaining,
		DurationDays:     p.DurationDays,
		Risk:             string(p.Risk),
	}
}

func NewHistoryEntryResponse(rec *ledger.HistoryRecord) HistoryEntryResponse {
	return HistoryEntryResponse{
		ActionTimestamp: rec.ActionTimestamp,
		FarmerName:      rec.FarmerName,
		FatherName:      rec.FatherName,
		Action:          string(rec.Action),
		Details:         rec.Details,
	}
}

func NewSummaryResponse(s *ledger.DashboardSummary) SummaryResponse {
	slice := func(rs ledger.RiskSlice) RiskSliceResponse {
		return RiskSliceResponse{Loans: rs.Loans, Outstanding: rs.Outstanding.StringFixed(2)}
	}
	return SummaryResponse{
		ActiveLoans:          s.ActiveLoans,
		TotalLoanAmount:      s.TotalLoanAmount.StringFixed(2),
		TotalAccruedInterest: s.TotalAccruedInterest.StringFixed(2),
		TotalOutstanding:     s.TotalOutstanding.StringFixed(2),
		Critical:             slice(s.Critical),
		Warning:              slice(s.Warning),
		Healthy:              slice(s.Healthy),
	}
}

func NewFarmerSummaryResponse(fs *ledger.FarmerSummary) FarmerSummaryResponse {
	return FarmerSummaryResponse{
		FarmerName:       fs.FarmerName,
		FatherName:       fs.FatherName,
		Loans:            fs.Loans,
		TotalPrincipal:   fs.TotalPrincipal.StringFixed(2),
		TotalInterest:    fs.TotalInterest.StringFixed(2),
		TotalOutstanding: fs.TotalOutstanding.StringFixed(2),
		MonthlyInterest:  fs.MonthlyInterest.StringFixed(2),
	}
}
