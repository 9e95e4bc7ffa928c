package ledger

import (
	"context"
	"time"
)

// Repository is the persistence boundary for loans and their audit trail.
// Every mutating call appends its history entry inside the same database
// transaction as the loan write, so readers never observe a loan change
// without the matching audit line.
type Repository interface {
	// CreateLoan inserts the loan and a CREATE history entry carrying details.
	CreateLoan(ctx context.Context, l *Loan, details string) error

	// ListActiveLoans returns every loan with status Active.
	ListActiveLoans(ctx context.Context) ([]Loan, error)

	// GetLoanByID returns the loan regardless of status, or
	// apperrors.ErrNotFound.
	GetLoanByID(ctx context.Context, id int64) (*Loan, error)

	// DeactivateLoan flips status to Inactive and appends a DELETE entry.
	// Returns apperrors.ErrNotFound when the id is absent.
	DeactivateLoan(ctx context.Context, id int64, details string) error

	// UpdateEndDate overwrites the end date and appends an UPDATE entry.
	// Returns apperrors.ErrNotFound when the id is absent.
	UpdateEndDate(ctx context.Context, id int64, newEnd time.Time, details string) error

	// ListHistory returns audit entries joined with loan names, newest first.
	ListHistory(ctx context.Context, filter HistoryFilter) ([]HistoryRecord, error)
}
