package models

import "github.com/shopspring/decimal"

// EntryKind is the display hint sent alongside an entry ("+" or "-").
// The sign of Amount, not the kind, decides income vs expense.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "+"
	EntryKindExpense EntryKind = "-"
)

// UncategorizedLabel replaces an empty or missing category.
const UncategorizedLabel = "Uncategorized"

// Entry is one income or expense line belonging to an assessment.
// Entries are fetched from the backend on every request and never stored.
type Entry struct {
	ID             int             `json:"id"`
	AssessmentID   int             `json:"assessment_id"`
	AssessmentName string          `json:"assessment_name,omitempty"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           EntryKind       `json:"type,omitempty"`
	Date           string          `json:"date"`
}

// IsIncome reports whether the entry counts as income. Zero is income.
func (e Entry) IsIncome() bool {
	return !e.Amount.IsNegative()
}

// CategoryKey returns the grouping key for the entry: the category verbatim,
// or UncategorizedLabel when it is empty.
func (e Entry) CategoryKey() string {
	if e.Category == "" {
		return UncategorizedLabel
	}
	return e.Category
}

// DisplayName prefers the assessment name the backend attaches to the entry,
// matching what the mobile list shows.
func (e Entry) DisplayName() string {
	if e.AssessmentName != "" {
		return e.AssessmentName
	}
	return e.Name
}
