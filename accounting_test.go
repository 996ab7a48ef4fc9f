package ledgerdash

import (
	"testing"
)

func TestDashboard_BalanceTree(t *testing.T) {
	cache := decodeHousehold(t)
	endOfMarch := NewDate(2024, 3, 31)

	tests := []struct {
		name   string
		sign   LiabilitySign
		asOf   Date
		bucket Bucket
		want   string
	}{
		{"assets", AsRecorded, endOfMarch, Asset, "Assets/ Assets:Assets/ Assets:Assets:Bank/ Assets:Assets:Bank:Checking=5000"},
		{"assets mid month", AsRecorded, NewDate(2024, 3, 10), Asset, "Assets/ Assets:Assets/ Assets:Assets:Bank/ Assets:Assets:Bank:Checking=6000"},
		{"liabilities as recorded", AsRecorded, endOfMarch, Liability, "Liabilities/"},
		{"liabilities negated", Negated, endOfMarch, Liability, "Liabilities/ Liabilities:Liabilities/ Liabilities:Liabilities:Card=200"},
		{"before the first transaction", AsRecorded, NewDate(2024, 1, 31), Asset, "Assets/"},
		{"expenses", AsRecorded, endOfMarch, Expense, "Expenses/ Expenses:Expense/ Expenses:Expense:Food/ Expenses:Expense:Food:Dining=1000 Expenses:Expense:Food:Market=200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDashboard(cache, Classifier{}, tt.sign)
			if got := dump(d.BalanceTree(tt.asOf, tt.bucket)); got != tt.want {
				t.Errorf("BalanceTree() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestDashboard_NilCache(t *testing.T) {
	d := NewDashboard(nil, Classifier{}, AsRecorded)
	r := MonthRange(NewDate(2024, 3, 1))

	if kpi := d.KPIs(r); !kpi.TotalIncome.IsZero() || kpi.SavingsRate != 0 {
		t.Errorf("KPIs() = %+v, want zero", kpi)
	}
	if g := d.FlowGraph(r); len(g.Nodes) != 1 || len(g.Links) != 0 {
		t.Errorf("FlowGraph() = %+v, want the Income node only", g)
	}
	if tree := d.BalanceTree(r.To, Asset); tree.Name != "Assets" || len(tree.Children) != 0 {
		t.Errorf("BalanceTree() = %s, want a bare root", dump(tree))
	}
	if trend := d.Trend(r); len(trend.DailyIncome) != 31 {
		t.Errorf("Trend() has %d points, want 31", len(trend.DailyIncome))
	}
	if got := d.Unreconciled(); len(got) != 0 {
		t.Errorf("Unreconciled() = %v", got)
	}
}

func TestDashboard_Months(t *testing.T) {
	cache := decodeHousehold(t)
	d := NewDashboard(cache, Classifier{}, AsRecorded)

	months := d.months(NewDate(2024, 5, 17))
	want := []Date{NewDate(2024, 2, 1), NewDate(2024, 3, 1), NewDate(2024, 4, 1), NewDate(2024, 5, 1)}
	if len(months) != len(want) {
		t.Fatalf("months() = %v, want %v", months, want)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("months()[%d] = %v, want %v", i, months[i], want[i])
		}
	}

	empty := NewDashboard(nil, Classifier{}, AsRecorded)
	if got := empty.months(NewDate(2024, 5, 17)); len(got) != 1 || got[0] != NewDate(2024, 5, 1) {
		t.Errorf("months() of an empty ledger = %v, want the current month", got)
	}
}

func TestDashboard_Report(t *testing.T) {
	cache := decodeHousehold(t)
	d := NewDashboard(cache, Classifier{}, AsRecorded)
	r := MonthRange(NewDate(2024, 3, 1))

	report := d.Report(r, NewCurrency("USD", ""))
	if !report.KPIs.Balance.Equal(dec("3800")) {
		t.Errorf("balance = %v, want 3800", report.KPIs.Balance)
	}
	if len(report.Flow.Nodes) != 3 {
		t.Errorf("flow has %d nodes, want 3", len(report.Flow.Nodes))
	}
	if !report.Assets.Total().Equal(dec("5000")) {
		t.Errorf("assets total = %v, want 5000", report.Assets.Total())
	}
	if len(report.Unreconciled) != 3 {
		t.Errorf("%d unreconciled transactions, want 3", len(report.Unreconciled))
	}
	if report.Currency.Symbol != "$" {
		t.Errorf("currency symbol = %q, want $", report.Currency.Symbol)
	}
}

func TestParseLiabilitySign(t *testing.T) {
	for input, want := range map[string]LiabilitySign{"": AsRecorded, "as-recorded": AsRecorded, "Negated": Negated} {
		got, err := ParseLiabilitySign(input)
		if err != nil || got != want {
			t.Errorf("ParseLiabilitySign(%q) = %v, %v, want %v", input, got, err, want)
		}
	}
	if _, err := ParseLiabilitySign("upside-down"); err == nil {
		t.Error("ParseLiabilitySign() accepted an unknown value")
	}
}
