package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/pkg/apperrors"
)

const dateLayout = "2006-01-02"

type LedgerHandler struct {
	service ledger.Service
	logger  *slog.Logger
}

func NewLedgerHandler(s ledger.Service, l *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: s,
		logger:  l.With("component", "LedgerHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrLoanInactive):
		status, message = http.StatusConflict, "Loan is already inactive."
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("loanID not found in URL path")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// CreateLoan records a new loan and its CREATE audit entry.
//
// @Summary Add a new loan
// @Description Records a loan for a farmer with principal, annual interest rate and start/end dates. Emits a CREATE entry in the audit trail.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.LoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)

	created, err := h.service.AddLoan(r.Context(), ledger.AddLoanInput{
		FarmerName:   req.FarmerName,
		FatherName:   req.FatherName,
		LoanAmount:   req.LoanAmount,
		InterestRate: req.InterestRate,
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// ListActiveLoans returns all active loans with computed fields.
//
// @Summary List active loans
// @Description Returns every active loan with accrued interest, total outstanding, monthly interest, duration days, days remaining and risk bucket computed as of today.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.ActiveLoanResponse "Active loans"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LedgerHandler) ListActiveLoans(w http.ResponseWriter, r *http.Request) {
	projections, err := h.service.ListActiveLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.ActiveLoanResponse, 0, len(projections))
	for i := range projections {
		resp = append(resp, dto.NewActiveLoanResponse(&projections[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

// ExportActiveLoans streams the active loan report as CSV.
//
// @Summary Export active loans as CSV
// @Description Flat tabular export of active loans with computed fields, matching the on-screen loan table.
// @Tags Loans
// @Produce text/csv
// @Success 200 {string} string "CSV report"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/export [get]
// @Security BearerAuth
func (h *LedgerHandler) ExportActiveLoans(w http.ResponseWriter, r *http.Request) {
	projections, err := h.service.ListActiveLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	filename := fmt.Sprintf("loan_report_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	cw := csv.NewWriter(w)
	header := []string{
		"id", "farmer_name", "father_name", "loan_amount", "interest_rate",
		"start_date", "end_date", "duration_days", "current_interest",
		"total_amount", "days_remaining", "risk",
	}
	if err := cw.Write(header); err != nil {
		h.logger.Error("Failed to write CSV header", "error", err)
		return
	}
	for i := range projections {
		p := &projections[i]
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.FarmerName,
			p.FatherName,
			strconv.FormatFloat(p.LoanAmount, 'f', 2, 64),
			strconv.FormatFloat(p.InterestRate, 'f', -1, 64),
			p.StartDate.Format(dateLayout),
			p.EndDate.Format(dateLayout),
			strconv.Itoa(p.DurationDays),
			p.AccruedInterest.StringFixed(2),
			p.TotalOutstanding.StringFixed(2),
			strconv.Itoa(p.DaysRemaining),
			string(p.Risk),
		}
		if err := cw.Write(row); err != nil {
			h.logger.Error("Failed to write CSV row", "loan_id", p.ID, "error", err)
			return
		}
	}
	cw.Flush()
}

// DashboardSummary returns portfolio totals and risk counts.
//
// @Summary Dashboard summary
// @Description Portfolio totals (loan amount, accrued interest, outstanding, active count) plus per-risk-bucket counts and outstanding amounts.
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.SummaryResponse "Summary"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/summary [get]
// @Security BearerAuth
func (h *LedgerHandler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DashboardSummary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}

// FarmerAnalytics returns per-farmer aggregates over active loans.
//
// @Summary Farmer-wise analytics
// @Description Per-farmer totals of principal, accrued interest, outstanding amount and flat monthly interest.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.FarmerSummaryResponse "Per-farmer aggregates"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/analytics [get]
// @Security BearerAuth
func (h *LedgerHandler) FarmerAnalytics(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.FarmerAnalytics(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.FarmerSummaryResponse, 0, len(summaries))
	for i := range summaries {
		resp = append(resp, dto.NewFarmerSummaryResponse(&summaries[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

// DeleteLoan soft-deletes a loan, keeping its audit trail.
//
// @Summary Soft-delete a loan
// @Description Marks the loan Inactive and records a DELETE audit entry with the supplied reason. The row is never physically removed.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.DeleteLoanRequest true "Deletion reason"
// @Success 204 "Loan deactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [delete]
// @Security BearerAuth
func (h *LedgerHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.DeleteLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.SoftDeleteLoan(r.Context(), loanID, req.Reason); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateEndDate extends or shortens a loan's end date.
//
// @Summary Update a loan's end date
// @Description Overwrites the end date and records an UPDATE audit entry with the supplied reason.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.UpdateEndDateRequest true "New end date and reason"
// @Success 204 "End date updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or date"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/end-date [put]
// @Security BearerAuth
func (h *LedgerHandler) UpdateEndDate(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.UpdateEndDateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	newEnd, _ := time.Parse(dateLayout, req.NewEndDate)
	if err := h.service.UpdateEndDate(r.Context(), loanID, newEnd, req.Reason); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory returns the audit trail, newest first.
//
// @Summary Loan history
// @Description Append-only audit trail joined with farmer names, newest first. Repeat the action and farmer query parameters to filter.
// @Tags History
// @Produce json
// @Param action query []string false "Filter by action (CREATE, UPDATE, DELETE)"
// @Param farmer query []string false "Filter by farmer name"
// @Success 200 {array} dto.HistoryEntryResponse "History entries"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history [get]
// @Security BearerAuth
func (h *LedgerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter ledger.HistoryFilter
	for _, a := range query["action"] {
		filter.Actions = append(filter.Actions, ledger.HistoryAction(a))
	}
	filter.FarmerNames = query["farmer"]

	records, err := h.service.GetHistory(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.HistoryEntryResponse, 0, len(records))
	for i := range records {
		resp = append(resp, dto.NewHistoryEntryResponse(&records[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}
