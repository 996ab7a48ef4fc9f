package ledgerdash

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// indent is written in front of every transaction line.
const indent = "    "

// FormatTransaction serializes a transaction in ledger syntax. Dates and
// amounts decoded from a ledger are written back as they were read; other
// amounts are prefixed with currencySymbol. Amounts are aligned and elided
// amounts stay elided. The returned block has no trailing line terminator.
func FormatTransaction(tx Transaction, currencySymbol string) string {
	return strings.Join(formatTransactionLines(tx, currencySymbol), "\n")
}

func formatTransactionLines(tx Transaction, currencySymbol string) []string {
	header := tx.DateText
	if header == "" {
		header = tx.Date.String()
	}
	if tx.Mark != Uncleared {
		header += " " + string(tx.Mark)
	}
	if tx.Payee != "" {
		header += " " + tx.Payee
	}
	lines := []string{header}

	// align amounts on the longest account.
	width := 0
	for _, l := range tx.Lines {
		if l.IsAccountLine() && !l.Elided {
			width = max(width, utf8.RuneCountInString(accountColumn(l)))
		}
	}

	for _, l := range tx.Lines {
		if !l.IsAccountLine() {
			lines = append(lines, indent+l.Comment)
			continue
		}
		var b strings.Builder
		b.WriteString(indent)
		b.WriteString(accountColumn(l))
		if !l.Elided {
			b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(accountColumn(l))+2))
			b.WriteString(ledgerAmount(l, currencySymbol))
		}
		if l.Comment != "" {
			b.WriteString("  ; ")
			b.WriteString(l.Comment)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// accountColumn is the mark and account part of a line.
func accountColumn(l Posting) string {
	if l.Mark == Uncleared {
		return l.Account
	}
	return string(l.Mark) + " " + l.Account
}

// ledgerAmount is the amount of l as written in the ledger, or formatted when
// l was not decoded.
func ledgerAmount(l Posting, currencySymbol string) string {
	if l.AmountText != "" {
		return l.AmountText
	}
	return formatLedgerAmount(l.Amount, currencySymbol)
}

// formatLedgerAmount writes an amount as "-$12.50": sign, symbol, then at
// least two decimals. Extra precision is never rounded away.
func formatLedgerAmount(v decimal.Decimal, currencySymbol string) string {
	places := int32(2)
	if exp := -v.Exponent(); exp > places {
		places = exp
	}
	s := currencySymbol + v.Abs().StringFixed(places)
	if v.IsNegative() {
		return "-" + s
	}
	return s
}

// MarkAsReconciled returns a copy of tx with every account line marked
// reconciled. The header mark is cleared: the marker lives on the lines.
func MarkAsReconciled(tx Transaction) Transaction {
	tx.Lines = slices.Clone(tx.Lines)
	for i := range tx.Lines {
		if tx.Lines[i].IsAccountLine() {
			tx.Lines[i].Mark = Reconciled
		}
	}
	tx.Mark = Uncleared
	return tx
}

// LineMark returns the effective mark of a line: its own, or the header's
// when it has none.
func (tx Transaction) LineMark(l Posting) Mark {
	if l.Mark != Uncleared {
		return l.Mark
	}
	return tx.Mark
}

// HasUnreconciledLines reports whether at least one account line of tx is
// not marked reconciled.
func HasUnreconciledLines(tx Transaction) bool {
	for _, l := range tx.Lines {
		if l.IsAccountLine() && tx.LineMark(l) != Reconciled {
			return true
		}
	}
	return false
}
