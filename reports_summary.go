package ledgerdash

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a ratio expressed in percents: 76 means 76%.
type Percent float64

// Equal compares percents to the hundredth of a basis point.
func (p Percent) Equal(q Percent) bool {
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.0001
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// CalculateKPIs sums the income and expense lines of the transactions dated
// within r. Income is counted in absolute value, expense as recorded.
func CalculateKPIs(txs []Transaction, r Range) KPIData {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if !r.Contains(tx.Date) {
			continue
		}
		for _, l := range tx.Lines {
			if !l.IsAccountLine() {
				continue
			}
			switch l.Bucket {
			case Income:
				income = income.Add(l.Amount.Abs())
			case Expense:
				expense = expense.Add(l.Amount)
			}
		}
	}
	return newKPIData(r, income, expense)
}

func newKPIData(r Range, income, expense decimal.Decimal) KPIData {
	balance := income.Sub(expense)
	var rate Percent
	if income.IsPositive() {
		rate = Percent(balance.Mul(hundred).Div(income).InexactFloat64())
	}
	return KPIData{
		Range:        r,
		Balance:      balance,
		Income:       income,
		Expense:      expense,
		TotalIncome:  income,
		TotalExpense: expense,
		SavingsRate:  rate,
	}
}
