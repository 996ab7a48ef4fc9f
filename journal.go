package ledgerdash

import (
	"maps"

	"github.com/shopspring/decimal"
)

// DailyBalanceChangeMap maps an ISO date to the net signed change of each
// account on that day.
type DailyBalanceChangeMap map[string]map[string]decimal.Decimal

// DailyBalanceMap maps an ISO date to the balance of each account at the end
// of that day.
type DailyBalanceMap map[string]map[string]decimal.Decimal

// MakeDailyAccountBalanceChangeMap sums the account lines of txs per day and
// per dealiased account.
func MakeDailyAccountBalanceChangeMap(txs []Transaction) DailyBalanceChangeMap {
	changes := make(DailyBalanceChangeMap)
	for _, tx := range txs {
		day := tx.Date.String()
		for _, l := range tx.Lines {
			if !l.IsAccountLine() {
				continue
			}
			m, ok := changes[day]
			if !ok {
				m = make(map[string]decimal.Decimal)
				changes[day] = m
			}
			m[l.DealiasedAccount] = m[l.DealiasedAccount].Add(l.Amount)
		}
	}
	return changes
}

// MakeDailyBalanceMap accumulates changes into one balance snapshot per day
// from `from` to `to` inclusive. Changes dated before `from` are part of the
// opening balances. Only the listed accounts are tracked. An inverted range
// yields an empty map.
func MakeDailyBalanceMap(accounts []string, changes DailyBalanceChangeMap, from, to Date) DailyBalanceMap {
	balances := make(DailyBalanceMap)
	if from.After(to) {
		return balances
	}

	running := make(map[string]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		running[account] = decimal.Zero
	}
	apply := func(delta map[string]decimal.Decimal) {
		for account, v := range delta {
			if b, ok := running[account]; ok {
				running[account] = b.Add(v)
			}
		}
	}

	// ISO dates sort lexically.
	start := from.String()
	for day, delta := range changes {
		if day < start {
			apply(delta)
		}
	}

	for day := range NewRange(from, to).Days() {
		key := day.String()
		apply(changes[key])
		balances[key] = maps.Clone(running)
	}
	return balances
}
