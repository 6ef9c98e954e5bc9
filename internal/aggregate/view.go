package aggregate

import (
	"strings"

	"merlin/internal/models"
)

// EmptyTransactionsMessage is shown instead of zero totals when there are no entries.
const EmptyTransactionsMessage = "No transactions available for this period."

// SummaryView is the formatted totals table under the transaction list.
type SummaryView struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	NetTotal     string `json:"net_total"`
	NetPositive  bool   `json:"net_positive"`
	Empty        bool   `json:"empty"`
	Message      string `json:"message,omitempty"`
}

// NewSummaryView formats a Result for the totals table.
func NewSummaryView(res Result, symbol string) SummaryView {
	view := SummaryView{
		TotalIncome:  FormatCurrency(res.TotalIncome, symbol),
		TotalExpense: FormatCurrency(res.TotalExpense, symbol),
		NetTotal:     FormatCurrency(res.NetTotal, symbol),
		NetPositive:  !res.NetTotal.IsNegative(),
		Empty:        res.IsEmpty(),
	}
	if view.Empty {
		view.Message = EmptyTransactionsMessage
	}
	return view
}

// ChartSlice is one category of a pie chart.
type ChartSlice struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
	Color    string  `json:"color"`
}

// ChartView is a pie chart with its total label.
type ChartView struct {
	Title        string       `json:"title"`
	Categories   []string     `json:"categories"`
	Values       []float64    `json:"values"`
	Slices       []ChartSlice `json:"slices"`
	Total        string       `json:"total"`
	Empty        bool         `json:"empty"`
	EmptyMessage string       `json:"empty_message,omitempty"`
}

// NewChartView builds a chart from a series. Values are rounded to cents
// only here, at the presentation edge.
func NewChartView(title string, series Series, symbol string) ChartView {
	view := ChartView{
		Title:      title,
		Categories: series.Categories,
		Values:     make([]float64, len(series.Values)),
		Slices:     make([]ChartSlice, len(series.Values)),
		Total:      FormatCurrency(series.Total, symbol),
		Empty:      series.IsEmpty(),
	}
	for i, v := range series.Values {
		f := v.Round(2).InexactFloat64()
		view.Values[i] = f
		view.Slices[i] = ChartSlice{
			Category: series.Categories[i],
			Label:    DisplayCategory(series.Categories[i]),
			Value:    f,
			Display:  FormatCurrency(v, symbol),
			Color:    ColorFor(series.Categories[i]),
		}
	}
	if view.Empty {
		view.EmptyMessage = "No " + strings.ToLower(title) + " entries"
	}
	return view
}

// EntryRow is one line of the transaction list.
type EntryRow struct {
	ID            int              `json:"id"`
	AssessmentID  int              `json:"assessment_id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	CategoryLabel string           `json:"category_label"`
	Amount        string           `json:"amount"`
	Display       string           `json:"display"`
	Income        bool             `json:"income"`
	Kind          models.EntryKind `json:"type,omitempty"`
	Date          string           `json:"date"`
	DateLabel     string           `json:"date_label"`
}

// NewEntryRows formats entries in their original order.
func NewEntryRows(entries []models.Entry, symbol string) []EntryRow {
	rows := make([]EntryRow, len(entries))
	for i, e := range entries {
		rows[i] = EntryRow{
			ID:            e.ID,
			AssessmentID:  e.AssessmentID,
			Name:          e.DisplayName(),
			Category:      e.CategoryKey(),
			CategoryLabel: DisplayCategory(e.Category),
			Amount:        e.Amount.String(),
			Display:       FormatSigned(e.Amount, symbol),
			Income:        e.IsIncome(),
			Kind:          e.Kind,
			Date:          e.Date,
			DateLabel:     FormatDate(e.Date),
		}
	}
	return rows
}
