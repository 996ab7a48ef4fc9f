// Package renderer renders the dashboard reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/ledgerdash"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templateFS embed.FS

// templates holds every template file, main templates and partials.
var templates, _ = fs.Sub(templateFS, "templates")

// reportPartials are the partials assembled by report.md.
var reportPartials = map[string]string{
	"report_title": "report_title.md",
	"kpi":          "kpi.md",
	"flow":         "flow.md",
	"balance":      "balance.md",
	"trend":        "trend.md",
	"unreconciled": "unreconciled.md",
}

// RenderReport renders every section of a dashboard report.
func RenderReport(r *ledgerdash.Report) string {
	return renderTemplate("report", "report.md", reportPartials, r, r.Currency)
}

// RenderKPI renders the income and expense figures of a period.
func RenderKPI(kpi ledgerdash.KPIData, cur ledgerdash.Currency) string {
	return renderTemplate("kpi", "kpi.md", nil, kpi, cur)
}

// RenderFlow renders a flow graph as a table of links.
func RenderFlow(g ledgerdash.FlowGraph, cur ledgerdash.Currency) string {
	return renderTemplate("flow", "flow.md", nil, g, cur)
}

// RenderBalance renders a balance tree, one row per node.
func RenderBalance(tree *ledgerdash.TreemapNode, cur ledgerdash.Currency) string {
	return renderTemplate("balance", "balance.md", nil, tree, cur)
}

// RenderTrend renders the days of a trend with some income or expense.
func RenderTrend(t ledgerdash.Trend, cur ledgerdash.Currency) string {
	return renderTemplate("trend", "trend.md", nil, t, cur)
}

// RenderUnreconciled renders a list of transactions to reconcile.
func RenderUnreconciled(txs []ledgerdash.Transaction, cur ledgerdash.Currency) string {
	return renderTemplate("unreconciled", "unreconciled.md", nil, txs, cur)
}

// RenderMonths renders the list of months a dashboard can show.
func RenderMonths(months []ledgerdash.Date) string {
	return renderTemplate("months", "months.md", nil, months, ledgerdash.Currency{})
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any, cur ledgerdash.Currency) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs(cur)).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// funcs returns the template functions, amounts displayed in cur.
func funcs(cur ledgerdash.Currency) template.FuncMap {
	return template.FuncMap{
		"money":     func(v decimal.Decimal) string { return cur.Format(v) },
		"nodeName":  nodeName,
		"treeRows":  treeRows,
		"trendRows": trendRows,
		"txAmount":  txAmount,
	}
}

// nodeName returns the display name of a flow node.
func nodeName(g ledgerdash.FlowGraph, id string) string {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n.Name
		}
	}
	return id
}

type treeRow struct {
	Label  string
	Amount decimal.Decimal
}

// treeRows flattens a balance tree below its root. Interior rows carry the
// total of their leaves.
func treeRows(root *ledgerdash.TreemapNode) []treeRow {
	var rows []treeRow
	root.Walk(func(depth int, n *ledgerdash.TreemapNode) {
		if depth == 0 {
			return
		}
		label := n.Name
		if depth > 1 {
			label = strings.Repeat("· ", depth-1) + label
		}
		if !n.IsLeaf() {
			label = "**" + label + "**"
		}
		rows = append(rows, treeRow{Label: label, Amount: n.Total()})
	})
	return rows
}

type trendRow struct {
	Date    ledgerdash.Date
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// trendRows returns the days of t with some income or expense, with the
// running balance.
func trendRows(t ledgerdash.Trend) []trendRow {
	var rows []trendRow
	balance := t.CumulativeBalance()
	for i, in := range t.DailyIncome {
		out := t.DailyExpense[i]
		if in.Amount.IsZero() && out.Amount.IsZero() {
			continue
		}
		rows = append(rows, trendRow{Date: in.Date, Income: in.Amount, Expense: out.Amount, Balance: balance[i].Amount})
	}
	return rows
}

// txAmount is the amount moved by a transaction: the sum of its positive
// account lines.
func txAmount(tx ledgerdash.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range tx.AccountLines() {
		if l.Amount.IsPositive() {
			sum = sum.Add(l.Amount)
		}
	}
	return sum
}
