package database

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/pkg/apperrors"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, Migrate(db), "migrate schema")
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeLoan(farmer, father string) *ledger.Loan {
	return &ledger.Loan{
		FarmerName:   farmer,
		FatherName:   father,
		LoanAmount:   10000,
		InterestRate: 10,
		StartDate:    date(2024, 1, 1),
		EndDate:      date(2024, 12, 31),
		Status:       ledger.StatusActive,
	}
}

func countHistory(t *testing.T, db *gorm.DB, action ledger.HistoryAction) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&ledger.HistoryEntry{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func TestCreateLoanWritesLoanAndHistoryAtomically(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	l := makeLoan("Asha", "Devi")
	require.NoError(t, repo.CreateLoan(ctx, l, "Loan created for Asha (s/o Devi) with amount ₹10,000.00"))
	assert.NotZero(t, l.ID)

	var entries []ledger.HistoryEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, l.ID, entries[0].LoanID)
	assert.Equal(t, ledger.ActionCreate, entries[0].Action)
	assert.Contains(t, entries[0].Details, "Asha")
	assert.False(t, entries[0].ActionTimestamp.IsZero())
}

func TestListActiveLoansExcludesInactive(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	keep := makeLoan("Asha", "Devi")
	drop := makeLoan("Binod", "Hari")
	require.NoError(t, repo.CreateLoan(ctx, keep, "created"))
	require.NoError(t, repo.CreateLoan(ctx, drop, "created"))

	require.NoError(t, repo.DeactivateLoan(ctx, drop.ID, "Loan marked as inactive. Reason: repaid"))

	active, err := repo.ListActiveLoans(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	// The deactivated loan is still present, just not active.
	got, err := repo.GetLoanByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusInactive, got.Status)

	// And its history survives the soft delete.
	assert.Equal(t, int64(1), countHistory(t, db, ledger.ActionDelete))
	assert.Equal(t, int64(2), countHistory(t, db, ledger.ActionCreate))
}

func TestMutationsRollBackWhenHistoryWriteFails(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	existing := makeLoan("Asha", "Devi")
	require.NoError(t, repo.CreateLoan(ctx, existing, "created"))

	// Break the history table so the second write of each transaction fails
	// after the loan write succeeded.
	require.NoError(t, db.Migrator().DropTable(&ledger.HistoryEntry{}))

	t.Run("create leaves no loan row behind", func(t *testing.T) {
		err := repo.CreateLoan(ctx, makeLoan("Binod", "Hari"), "created")
		require.ErrorIs(t, err, apperrors.ErrDatabase)

		var loans int64
		require.NoError(t, db.Model(&ledger.Loan{}).Count(&loans).Error)
		assert.Equal(t, int64(1), loans, "rolled-back loan must not be visible")
	})

	t.Run("deactivate leaves the loan active", func(t *testing.T) {
		err := repo.DeactivateLoan(ctx, existing.ID, "repaid")
		require.ErrorIs(t, err, apperrors.ErrDatabase)

		got, err := repo.GetLoanByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.StatusActive, got.Status)
	})

	t.Run("end date update is not applied", func(t *testing.T) {
		err := repo.UpdateEndDate(ctx, existing.ID, date(2025, 6, 30), "extended")
		require.ErrorIs(t, err, apperrors.ErrDatabase)

		got, err := repo.GetLoanByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.True(t, got.EndDate.Equal(date(2024, 12, 31)), "end date must be unchanged after rollback")
	})
}

func TestDeactivateLoanAlreadyInactive(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	l := makeLoan("Asha", "Devi")
	require.NoError(t, repo.CreateLoan(ctx, l, "created"))
	require.NoError(t, repo.DeactivateLoan(ctx, l.ID, "repaid"))

	err := repo.DeactivateLoan(ctx, l.ID, "repaid again")
	assert.ErrorIs(t, err, apperrors.ErrLoanInactive)

	// The second attempt must not add another DELETE entry.
	assert.Equal(t, int64(1), countHistory(t, db, ledger.ActionDelete))
}

func TestDeactivateLoanNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)

	err := repo.DeactivateLoan(context.Background(), 12345, "reason")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, int64(0), countHistory(t, db, ledger.ActionDelete))
}

func TestUpdateEndDate(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	l := makeLoan("Asha", "Devi")
	require.NoError(t, repo.CreateLoan(ctx, l, "created"))

	newEnd := date(2025, 6, 30)
	require.NoError(t, repo.UpdateEndDate(ctx, l.ID, newEnd, "End date updated to 2025-06-30. Reason: extended"))

	got, err := repo.GetLoanByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.EndDate.Equal(newEnd), "end date should be overwritten")
	assert.Equal(t, int64(1), countHistory(t, db, ledger.ActionUpdate))
}

func TestUpdateEndDateNotFoundWritesNoHistory(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)

	err := repo.UpdateEndDate(context.Background(), 999, date(2025, 1, 1), "reason")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, int64(0), countHistory(t, db, ledger.ActionUpdate))
}

func TestGetLoanByIDNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)

	_, err := repo.GetLoanByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListHistoryJoinsNamesNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	asha := makeLoan("Asha", "Devi")
	binod := makeLoan("Binod", "Hari")
	require.NoError(t, repo.CreateLoan(ctx, asha, "created asha"))
	require.NoError(t, repo.CreateLoan(ctx, binod, "created binod"))
	require.NoError(t, repo.UpdateEndDate(ctx, asha.ID, date(2025, 3, 1), "extended"))
	require.NoError(t, repo.DeactivateLoan(ctx, binod.ID, "repaid"))

	records, err := repo.ListHistory(ctx, ledger.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Newest first: entries share timestamps within the test's resolution,
	// so the id tie-breaker guarantees reverse insertion order.
	assert.Equal(t, ledger.ActionDelete, records[0].Action)
	assert.Equal(t, "Binod", records[0].FarmerName)
	assert.Equal(t, "Hari", records[0].FatherName)
	assert.Equal(t, ledger.ActionUpdate, records[1].Action)
	assert.Equal(t, "Asha", records[1].FarmerName)

	for i := 0; i < len(records)-1; i++ {
		assert.False(t, records[i].ActionTimestamp.Before(records[i+1].ActionTimestamp),
			"history must be ordered newest first")
	}
}

func TestListHistoryFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db, testLogger)
	ctx := context.Background()

	asha := makeLoan("Asha", "Devi")
	binod := makeLoan("Binod", "Hari")
	require.NoError(t, repo.CreateLoan(ctx, asha, "created asha"))
	require.NoError(t, repo.CreateLoan(ctx, binod, "created binod"))
	require.NoError(t, repo.DeactivateLoan(ctx, asha.ID, "repaid"))

	byAction, err := repo.ListHistory(ctx, ledger.HistoryFilter{
		Actions: []ledger.HistoryAction{ledger.ActionDelete},
	})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, ledger.ActionDelete, byAction[0].Action)

	byFarmer, err := repo.ListHistory(ctx, ledger.HistoryFilter{
		FarmerNames: []string{"Binod"},
	})
	require.NoError(t, err)
	require.Len(t, byFarmer, 1)
	assert.Equal(t, "Binod", byFarmer[0].FarmerName)

	both, err := repo.ListHistory(ctx, ledger.HistoryFilter{
		Actions:     []ledger.HistoryAction{ledger.ActionCreate},
		FarmerNames: []string{"Asha"},
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "created asha", both[0].Details)
}
