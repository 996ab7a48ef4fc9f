package ledgerdash

import (
	"github.com/shopspring/decimal"
)

// KPIData holds the income and expense figures of a period.
type KPIData struct {
	Range        Range           `json:"range"`
	Balance      decimal.Decimal `json:"balance"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	SavingsRate  Percent         `json:"savingsRate"` // 0 when there is no income
}

// Fixed node ids of a FlowGraph.
const (
	IncomeNode  = "Income"
	BalanceNode = "Balance"
)

// FlowNode is a node of a FlowGraph.
type FlowNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FlowLink is a weighted edge between two FlowNode ids. Value is always
// positive.
type FlowLink struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

// FlowGraph shows how the income of a period is spent: Income flows into each
// expense category, and the remainder, if any, into Balance.
type FlowGraph struct {
	Range        Range           `json:"range"`
	Nodes        []FlowNode      `json:"nodes"`
	Links        []FlowLink      `json:"links"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"` // sum of the category links
	// Deficit is the amount spent beyond the income. It is not part of the
	// graph.
	Deficit decimal.Decimal `json:"deficit"`
}

// Outflow returns the sum of the links leaving the Income node.
func (g FlowGraph) Outflow() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range g.Links {
		if l.Source == IncomeNode {
			sum = sum.Add(l.Value)
		}
	}
	return sum
}

// TreemapNode is a node of a balance tree. A leaf has a Value and no
// Children, an interior node has Children (possibly empty) and no Value.
type TreemapNode struct {
	Name     string
	Value    *decimal.Decimal
	Children []*TreemapNode
}

// IsLeaf reports whether the node carries a value.
func (n *TreemapNode) IsLeaf() bool { return n.Value != nil }

// Child returns the direct child with the given name, or nil.
func (n *TreemapNode) Child(name string) *TreemapNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Total returns the sum of the leaf values under n.
func (n *TreemapNode) Total() decimal.Decimal {
	if n.IsLeaf() {
		return *n.Value
	}
	sum := decimal.Zero
	for _, c := range n.Children {
		sum = sum.Add(c.Total())
	}
	return sum
}

// Walk calls f on n and its descendants, depth first, with the depth of each
// node (0 for n).
func (n *TreemapNode) Walk(f func(depth int, node *TreemapNode)) {
	var walk func(int, *TreemapNode)
	walk = func(depth int, node *TreemapNode) {
		f(depth, node)
		for _, c := range node.Children {
			walk(depth+1, c)
		}
	}
	walk(0, n)
}

func (n *TreemapNode) MarshalJSON() ([]byte, error) {
	var w orderedJSON
	w.Add("name", n.Name)
	if n.IsLeaf() {
		w.Add("value", *n.Value)
	} else {
		children := n.Children
		if children == nil {
			children = []*TreemapNode{}
		}
		w.Add("children", children)
	}
	return w.MarshalJSON()
}

// DailyPoint is the amount of one day of a Trend series.
type DailyPoint struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Trend holds the daily income and expense of a range, one point per day in
// both series.
type Trend struct {
	Range        Range
	DailyIncome  []DailyPoint
	DailyExpense []DailyPoint
}

// CumulativeBalance returns the running sum of income minus expense, one
// point per day.
func (t Trend) CumulativeBalance() []DailyPoint {
	points := make([]DailyPoint, len(t.DailyIncome))
	balance := decimal.Zero
	for i, in := range t.DailyIncome {
		balance = balance.Add(in.Amount).Sub(t.DailyExpense[i].Amount)
		points[i] = DailyPoint{Date: in.Date, Amount: balance}
	}
	return points
}

func (t Trend) MarshalJSON() ([]byte, error) {
	var w orderedJSON
	w.Add("range", t.Range)
	w.Add("dailyIncome", nonNil(t.DailyIncome))
	w.Add("dailyExpense", nonNil(t.DailyExpense))
	w.Add("cumulativeBalance", nonNil(t.CumulativeBalance()))
	return w.MarshalJSON()
}

// nonNil makes empty series marshal as [] rather than null.
func nonNil(points []DailyPoint) []DailyPoint {
	if points == nil {
		return []DailyPoint{}
	}
	return points
}
