package ledgerdash

import (
	"github.com/shopspring/decimal"
)

// NewFlowGraph builds the flow of money of the transactions dated within r.
//
// Expense lines are grouped by primary category, in the order the
// categories are first met. Categories that do not sum to a positive amount,
// such as a category of net refunds, are left out of the graph and of its
// TotalExpense, which may then be lower than the period's KPI expense. When
// income exceeds TotalExpense, the remainder flows to the Balance node;
// otherwise it is reported as Deficit. The links leaving Income always sum to
// TotalExpense plus the Balance link.
func NewFlowGraph(txs []Transaction, r Range) FlowGraph {
	income := decimal.Zero
	var categories []string
	amounts := make(map[string]decimal.Decimal)

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
				category := PrimaryCategory(l.DealiasedAccount)
				if _, seen := amounts[category]; !seen {
					categories = append(categories, category)
				}
				amounts[category] = amounts[category].Add(l.Amount)
			}
		}
	}

	g := FlowGraph{
		Range:       r,
		Nodes:       []FlowNode{{ID: IncomeNode, Name: IncomeNode}},
		Links:       []FlowLink{},
		TotalIncome: income,
	}
	expense := decimal.Zero
	for _, category := range categories {
		amount := amounts[category]
		if !amount.IsPositive() {
			continue
		}
		expense = expense.Add(amount)
		id := category
		if id == IncomeNode || id == BalanceNode {
			id = "Expense:" + category
		}
		g.Nodes = append(g.Nodes, FlowNode{ID: id, Name: category})
		g.Links = append(g.Links, FlowLink{Source: IncomeNode, Target: id, Value: amount})
	}
	g.TotalExpense = expense

	switch residual := income.Sub(expense); {
	case residual.IsPositive():
		g.Nodes = append(g.Nodes, FlowNode{ID: BalanceNode, Name: BalanceNode})
		g.Links = append(g.Links, FlowLink{Source: IncomeNode, Target: BalanceNode, Value: residual})
	case residual.IsNegative():
		g.Deficit = residual.Neg()
	}
	return g
}
