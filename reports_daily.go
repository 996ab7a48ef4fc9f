package ledgerdash

import (
	"github.com/shopspring/decimal"
)

// NewTrend returns the daily income and expense of every day of r, taken
// from the per-day account changes. Days without changes are zero.
func NewTrend(changes DailyBalanceChangeMap, r Range, classifier Classifier) Trend {
	t := Trend{
		Range:        r,
		DailyIncome:  make([]DailyPoint, 0, r.Len()),
		DailyExpense: make([]DailyPoint, 0, r.Len()),
	}
	for day := range r.Days() {
		income, expense := decimal.Zero, decimal.Zero
		for account, amount := range changes[day.String()] {
			switch classifier.Classify(account) {
			case Income:
				income = income.Add(amount.Abs())
			case Expense:
				expense = expense.Add(amount)
			}
		}
		t.DailyIncome = append(t.DailyIncome, DailyPoint{Date: day, Amount: income})
		t.DailyExpense = append(t.DailyExpense, DailyPoint{Date: day, Amount: expense})
	}
	return t
}
