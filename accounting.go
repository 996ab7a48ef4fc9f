package ledgerdash

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LiabilitySign selects how liability balances are read when building a
// balance tree.
type LiabilitySign int

const (
	// AsRecorded keeps balances as they are in the ledger: in a double-entry
	// ledger owed amounts are negative and do not show.
	AsRecorded LiabilitySign = iota
	// Negated flips liability balances so that owed amounts show.
	Negated
)

func (s LiabilitySign) String() string {
	if s == Negated {
		return "negated"
	}
	return "as-recorded"
}

// ParseLiabilitySign parses "as-recorded" or "negated". Empty means
// AsRecorded.
func ParseLiabilitySign(s string) (LiabilitySign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "as-recorded", "asrecorded":
		return AsRecorded, nil
	case "negated":
		return Negated, nil
	default:
		return AsRecorded, fmt.Errorf("unknown liability sign %q", s)
	}
}

// Dashboard computes every report of a decoded ledger. It never modifies the
// cache and is safe for concurrent use.
type Dashboard struct {
	cache         *TransactionCache
	classifier    Classifier
	liabilitySign LiabilitySign
	changes       DailyBalanceChangeMap
}

// NewDashboard returns a Dashboard over cache. A nil cache behaves as an
// empty ledger: every report is empty.
func NewDashboard(cache *TransactionCache, classifier Classifier, sign LiabilitySign) *Dashboard {
	if cache == nil {
		cache = &TransactionCache{}
	}
	return &Dashboard{
		cache:         cache,
		classifier:    classifier,
		liabilitySign: sign,
		changes:       MakeDailyAccountBalanceChangeMap(cache.Transactions),
	}
}

// Cache returns the transactions the dashboard reports on.
func (d *Dashboard) Cache() *TransactionCache { return d.cache }

// KPIs returns the income and expense figures of r.
func (d *Dashboard) KPIs(r Range) KPIData { return CalculateKPIs(d.cache.Transactions, r) }

// FlowGraph returns the flow of money of r.
func (d *Dashboard) FlowGraph(r Range) FlowGraph { return NewFlowGraph(d.cache.Transactions, r) }

// Trend returns the daily income and expense of r.
func (d *Dashboard) Trend(r Range) Trend { return NewTrend(d.changes, r, d.classifier) }

// Unreconciled returns the transactions still to be reconciled.
func (d *Dashboard) Unreconciled() []Transaction { return SelectUnreconciled(d.cache.Transactions) }

// BalanceTree returns the balances of the accounts of bucket at the end of
// asOf. Before the first transaction the tree is a bare root.
func (d *Dashboard) BalanceTree(asOf Date, bucket Bucket) *TreemapNode {
	accounts := d.accounts(bucket)
	if d.cache.FirstDate.IsZero() || asOf.Before(d.cache.FirstDate) {
		return BuildBalanceTree(nil, accounts, bucket.RootName())
	}

	// the only snapshot needed is asOf, earlier changes are its opening balance.
	balances := MakeDailyBalanceMap(d.cache.Accounts, d.changes, asOf, asOf)
	snapshot := balances[asOf.String()]
	if bucket == Liability && d.liabilitySign == Negated {
		negated := make(map[string]decimal.Decimal, len(snapshot))
		for account, v := range snapshot {
			negated[account] = v.Neg()
		}
		snapshot = negated
	}
	return BuildBalanceTree(snapshot, accounts, bucket.RootName())
}

func (d *Dashboard) accounts(bucket Bucket) []string {
	switch bucket {
	case Asset:
		return d.cache.AssetAccounts
	case Liability:
		return d.cache.LiabilityAccounts
	}
	var accounts []string
	for _, account := range d.cache.Accounts {
		if d.classifier.Classify(account) == bucket {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

// Months returns the first day of every month from the month of the first
// transaction to the current month, oldest first.
func (d *Dashboard) Months() []Date { return d.months(Today()) }

func (d *Dashboard) months(today Date) []Date {
	first := today
	if !d.cache.FirstDate.IsZero() && d.cache.FirstDate.Before(first) {
		first = d.cache.FirstDate
	}
	var months []Date
	for m := range NewRange(first, today).Periods(Monthly) {
		months = append(months, m.From)
	}
	return months
}

// Report gathers every report of a range. Balance trees are taken at the end
// of the range.
type Report struct {
	Range        Range         `json:"range"`
	Currency     Currency      `json:"currency"`
	KPIs         KPIData       `json:"kpis"`
	Flow         FlowGraph     `json:"flow"`
	Assets       *TreemapNode  `json:"assets"`
	Liabilities  *TreemapNode  `json:"liabilities"`
	Trend        Trend         `json:"trend"`
	Unreconciled []Transaction `json:"unreconciled"`
}

// Report computes the full report of r, amounts displayed in cur.
func (d *Dashboard) Report(r Range, cur Currency) *Report {
	return &Report{
		Range:        r,
		Currency:     cur,
		KPIs:         d.KPIs(r),
		Flow:         d.FlowGraph(r),
		Assets:       d.BalanceTree(r.To, Asset),
		Liabilities:  d.BalanceTree(r.To, Liability),
		Trend:        d.Trend(r),
		Unreconciled: d.Unreconciled(),
	}
}
