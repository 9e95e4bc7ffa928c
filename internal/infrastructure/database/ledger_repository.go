package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/pkg/apperrors"
)

// LedgerRepository persists loans and their audit trail. Each mutating method
// runs the loan write and the history append inside one transaction, so a
// failure mid-way leaves no partial state visible to readers.
type LedgerRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ledger.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository(db *gorm.DB, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger.With("component", "LedgerRepository")}
}

func (r *LedgerRepository) CreateLoan(ctx context.Context, l *ledger.Loan, details string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		entry := &ledger.HistoryEntry{
			LoanID:  l.ID,
			Action:  ledger.ActionCreate,
			Details: details,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return apperrors.WrapDatabaseError(err, "failed to insert loan")
	}
	return nil
}

func (r *LedgerRepository) ListActiveLoans(ctx context.Context) ([]ledger.Loan, error) {
	var loans []ledger.Loan
	res := r.db.WithContext(ctx).
		Where("status = ?", ledger.StatusActive).
		Find(&loans)
	if res.Error != nil {
		r.logger.ErrorContext(ctx, "Failed to list active loans", "error", res.Error)
		return nil, apperrors.WrapDatabaseError(res.Error, "failed to list active loans")
	}
	return loans, nil
}

func (r *LedgerRepository) GetLoanByID(ctx context.Context, id int64) (*ledger.Loan, error) {
	var l ledger.Loan
	res := r.db.WithContext(ctx).First(&l, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, id)
		}
		r.logger.ErrorContext(ctx, "Failed to get loan", "loan_id", id, "error", res.Error)
		return nil, apperrors.WrapDatabaseError(res.Error, "failed to get loan")
	}
	return &l, nil
}

func (r *LedgerRepository) DeactivateLoan(ctx context.Context, id int64, details string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l ledger.Loan
		if err := tx.First(&l, id).Error; err != nil {
			return err
		}
		if l.Status == ledger.StatusInactive {
			return apperrors.ErrLoanInactive
		}
		if err := tx.Model(&l).Update("status", ledger.StatusInactive).Error; err != nil {
			return err
		}
		entry := &ledger.HistoryEntry{
			LoanID:  id,
			Action:  ledger.ActionDelete,
			Details: details,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, id)
		}
		if errors.Is(err, apperrors.ErrLoanInactive) {
			return fmt.Errorf("%w: loan with ID %d", apperrors.ErrLoanInactive, id)
		}
		r.logger.ErrorContext(ctx, "Failed to deactivate loan", "loan_id", id, "error", err)
		return apperrors.WrapDatabaseError(err, "failed to deactivate loan")
	}
	return nil
}

func (r *LedgerRepository) UpdateEndDate(ctx context.Context, id int64, newEnd time.Time, details string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l ledger.Loan
		if err := tx.First(&l, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&l).Update("end_date", newEnd).Error; err != nil {
			return err
		}
		entry := &ledger.HistoryEntry{
			LoanID:  id,
			Action:  ledger.ActionUpdate,
			Details: details,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, id)
		}
		r.logger.ErrorContext(ctx, "Failed to update end date", "loan_id", id, "error", err)
		return apperrors.WrapDatabaseError(err, "failed to update end date")
	}
	return nil
}

func (r *LedgerRepository) ListHistory(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.HistoryRecord, error) {
	q := r.db.WithContext(ctx).
		Table("loan_history AS h").
		Select("h.action_timestamp, l.farmer_name, l.father_name, h.action, h.details").
		Joins("JOIN loans l ON h.loan_id = l.id").
		Order("h.action_timestamp DESC, h.id DESC")

	if len(filter.Actions) > 0 {
		q = q.Where("h.action IN ?", filter.Actions)
	}
	if len(filter.FarmerNames) > 0 {
		q = q.Where("l.farmer_name IN ?", filter.FarmerNames)
	}

	var records []ledger.HistoryRecord
	if err := q.Scan(&records).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to list history", "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to list loan history")
	}
	return records, nil
}
