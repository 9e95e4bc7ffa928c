package ledger

import (
	"time"
)

type LoanStatus string

const (
	StatusActive   LoanStatus = "Active"
	StatusInactive LoanStatus = "Inactive"
)

type HistoryAction string

const (
	ActionCreate HistoryAction = "CREATE"
	ActionUpdate HistoryAction = "UPDATE"
	ActionDelete HistoryAction = "DELETE"
)

// Loan is a single informal loan record. Rows are never physically removed:
// deletion flips Status to Inactive so history entries keep a valid join target.
type Loan struct {
	ID           int64      `gorm:"primaryKey;column:id" json:"id"`
	FarmerName   string     `gorm:"column:farmer_name;not null" json:"farmer_name"`
	FatherName   string     `gorm:"column:father_name;not null" json:"father_name"`
	LoanAmount   float64    `gorm:"column:loan_amount;not null" json:"loan_amount"`
	InterestRate float64    `gorm:"column:interest_rate;not null" json:"interest_rate"`
	StartDate    time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time  `gorm:"column:end_date;not null" json:"end_date"`
	Status       LoanStatus `gorm:"column:status;type:text;default:Active" json:"status"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Loan) TableName() string { return "loans" }

// HistoryEntry is one immutable line of the append-only audit trail. LoanID is
// a soft link; it is not enforced after the loan is deactivated.
type HistoryEntry struct {
	ID              int64         `gorm:"primaryKey;column:id" json:"id"`
	LoanID          int64         `gorm:"column:loan_id;index" json:"loan_id"`
	Action          HistoryAction `gorm:"column:action;not null" json:"action"`
	ActionTimestamp time.Time     `gorm:"column:action_timestamp;autoCreateTime" json:"action_timestamp"`
	Details         string        `gorm:"column:details" json:"details"`
}

func (HistoryEntry) TableName() string { return "loan_history" }

// HistoryRecord is a history entry joined with its loan's farmer and father
// names, the shape the audit view renders.
type HistoryRecord struct {
	ActionTimestamp time.Time     `gorm:"column:action_timestamp" json:"action_timestamp"`
	FarmerName      string        `gorm:"column:farmer_name" json:"farmer_name"`
	FatherName      string        `gorm:"column:father_name" json:"father_name"`
	Action          HistoryAction `gorm:"column:action" json:"action"`
	Details         string        `gorm:"column:details" json:"details"`
}

// HistoryFilter narrows the audit view. Empty slices mean no filtering on that
// dimension.
type HistoryFilter struct {
	Actions     []HistoryAction
	FarmerNames []string
}
