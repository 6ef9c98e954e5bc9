// Package aggregate computes income/expense totals and category breakdowns
// for one assessment's entries, and turns them into display-ready values.
package aggregate

import (
	"github.com/shopspring/decimal"

	"merlin/internal/models"
)

// CategorySums maps category labels to summed magnitudes, remembering the
// order in which each label was first seen.
type CategorySums struct {
	order []string
	sums  map[string]decimal.Decimal
}

// NewCategorySums returns an empty mapping.
func NewCategorySums() CategorySums {
	return CategorySums{sums: make(map[string]decimal.Decimal)}
}

// Add adds amount to the label's running sum.
func (c *CategorySums) Add(label string, amount decimal.Decimal) {
	if c.sums == nil {
		c.sums = make(map[string]decimal.Decimal)
	}
	current, ok := c.sums[label]
	if !ok {
		c.order = append(c.order, label)
	}
	c.sums[label] = current.Add(amount)
}

// Get returns the sum for label and whether it is present.
func (c CategorySums) Get(label string) (decimal.Decimal, bool) {
	v, ok := c.sums[label]
	return v, ok
}

// Keys returns the labels in first-seen order.
func (c CategorySums) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of distinct labels.
func (c CategorySums) Len() int {
	return len(c.order)
}

// Result holds the totals and category breakdowns of an entry list.
// Expense values are positive magnitudes.
type Result struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	NetTotal          decimal.Decimal
	IncomeByCategory  CategorySums
	ExpenseByCategory CategorySums
}

// IsEmpty reports whether the result came from an empty entry list.
func (r Result) IsEmpty() bool {
	return r.IncomeByCategory.Len() == 0 && r.ExpenseByCategory.Len() == 0
}

// Aggregate classifies entries by the sign of their amount (zero counts as
// income) and sums them overall and per category.
func Aggregate(entries []models.Entry) Result {
	res := Result{
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		IncomeByCategory:  NewCategorySums(),
		ExpenseByCategory: NewCategorySums(),
	}

	for _, e := range entries {
		key := e.CategoryKey()
		if e.IsIncome() {
			res.TotalIncome = res.TotalIncome.Add(e.Amount)
			res.IncomeByCategory.Add(key, e.Amount)
			continue
		}
		magnitude := e.Amount.Abs()
		res.TotalExpense = res.TotalExpense.Add(magnitude)
		res.ExpenseByCategory.Add(key, magnitude)
	}

	// Exact decimal arithmetic: equal to the plain signed sum of amounts.
	res.NetTotal = res.TotalIncome.Sub(res.TotalExpense)
	return res
}

// Series is the chart-ready form of a category mapping: two parallel
// sequences plus their total.
type Series struct {
	Categories []string
	Values     []decimal.Decimal
	Total      decimal.Decimal
}

// IsEmpty reports whether the series has no categories.
func (s Series) IsEmpty() bool {
	return len(s.Categories) == 0
}

// ToChartSeries flattens a category mapping in first-seen order.
func ToChartSeries(byCategory CategorySums) Series {
	series := Series{
		Categories: make([]string, 0, byCategory.Len()),
		Values:     make([]decimal.Decimal, 0, byCategory.Len()),
		Total:      decimal.Zero,
	}
	for _, label := range byCategory.order {
		v := byCategory.sums[label]
		series.Categories = append(series.Categories, label)
		series.Values = append(series.Values, v)
		series.Total = series.Total.Add(v)
	}
	return series
}
