package ledgerdash

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mark is the clearing state of a ledger line.
type Mark string

const (
	Uncleared  Mark = ""
	Pending    Mark = "!"
	Reconciled Mark = "*"
)

// Posting is one line of a transaction. A line without an account is a
// comment or note kept only to be written back.
type Posting struct {
	Account          string          // account as written in the ledger
	DealiasedAccount string          // canonical account, used for classification
	Amount           decimal.Decimal // signed amount
	AmountText       string          // amount as written, price and balance assertion included
	Elided           bool            // amount was left blank in the ledger
	Mark             Mark
	Bucket           Bucket // resolved once when the ledger is decoded
	Comment          string // trailing comment, or the whole text of a non-account line
}

// IsAccountLine reports whether the line carries an account. Other lines are
// ignored by every aggregation.
func (p Posting) IsAccountLine() bool { return p.Account != "" }

func (p Posting) MarshalJSON() ([]byte, error) {
	var w orderedJSON
	if !p.IsAccountLine() {
		w.Add("comment", p.Comment)
		return w.MarshalJSON()
	}
	w.Add("account", p.Account)
	w.AddNonZero("dealiasedAccount", p.dealiased())
	w.Add("amount", p.Amount)
	w.AddNonZero("elided", p.Elided)
	w.AddNonZero("mark", string(p.Mark))
	w.Add("bucket", p.Bucket)
	w.AddNonZero("comment", p.Comment)
	return w.MarshalJSON()
}

// dealiased returns the dealiased account only when it differs.
func (p Posting) dealiased() string {
	if p.DealiasedAccount == p.Account {
		return ""
	}
	return p.DealiasedAccount
}

// Transaction is an immutable record of a ledger transaction together with
// the position of its text in the ledger it was decoded from.
type Transaction struct {
	Date     Date
	DateText string // date as written, auxiliary date included
	Mark     Mark   // header mark, applies to lines without their own mark
	Payee    string
	Lines    []Posting
	Header   string // header line as written, used for identification

	// FirstLine and LastLine are the inclusive 0-based line indices of the
	// transaction in the text it was decoded from. They are meaningless once
	// that text has been modified.
	FirstLine int
	LastLine  int
}

// idSpace is the UUID namespace of transaction ids.
var idSpace = uuid.MustParse("b0c7ad2e-5a3c-4c1e-9a1c-6f1e8d4a9b52")

// ID returns a stable identifier of the transaction: the same header at the
// same position in the same ledger yields the same id across reloads.
func (tx Transaction) ID() string {
	return uuid.NewSHA1(idSpace, fmt.Appendf(nil, "%d\x00%s", tx.FirstLine, tx.Header)).String()
}

// AccountLines returns the lines carrying an account.
func (tx Transaction) AccountLines() []Posting {
	lines := make([]Posting, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		if l.IsAccountLine() {
			lines = append(lines, l)
		}
	}
	return lines
}

func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w orderedJSON
	w.Add("id", tx.ID())
	w.Add("date", tx.Date)
	w.AddNonZero("mark", string(tx.Mark))
	w.Add("payee", tx.Payee)
	w.Add("lines", tx.Lines)
	w.Add("firstLine", tx.FirstLine)
	w.Add("lastLine", tx.LastLine)
	return w.MarshalJSON()
}
