package ledgerdash

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionCache is the decoded content of a ledger: the transactions in
// file order and the accounts they use.
type TransactionCache struct {
	Transactions      []Transaction
	Accounts          []string // every dealiased account, sorted
	AssetAccounts     []string
	LiabilityAccounts []string
	FirstDate         Date // date of the earliest transaction, zero when empty
}

var (
	headerRE    = regexp.MustCompile(`^(\d{4}[-/]\d{1,2}[-/]\d{1,2})(=\S+)?(?:\s+([*!]))?(?:\s+(.*?))?\s*$`)
	aliasRE     = regexp.MustCompile(`^alias\s+([^=]+?)\s*=\s*(.+?)\s*$`)
	separatorRE = regexp.MustCompile(`\t| {2,}`)
	amountRE    = regexp.MustCompile(`^(-?)\s*([^\d\s.,+-]*)\s*([-+]?)\s*(\d[\d,]*(?:\.\d+)?|\.\d+)\s*([^\d\s]*)$`)
)

// DecodeLedger decodes a ledger text into a TransactionCache. Line indices
// recorded on transactions are 0-based and count '\n' separated lines.
//
// The ledger syntax is not validated: lines that cannot be understood are
// skipped, or kept as non-account lines when they belong to a transaction.
func DecodeLedger(r io.Reader, classifier Classifier) (*TransactionCache, error) {
	d := decoder{
		classifier: classifier,
		aliases:    make(map[string]string),
		accounts:   make(map[string]Bucket),
		cache:      &TransactionCache{},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for i := 0; scanner.Scan(); i++ {
		d.line(i, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	d.flush()

	for account, bucket := range d.accounts {
		d.cache.Accounts = append(d.cache.Accounts, account)
		switch bucket {
		case Asset:
			d.cache.AssetAccounts = append(d.cache.AssetAccounts, account)
		case Liability:
			d.cache.LiabilityAccounts = append(d.cache.LiabilityAccounts, account)
		}
	}
	slices.Sort(d.cache.Accounts)
	slices.Sort(d.cache.AssetAccounts)
	slices.Sort(d.cache.LiabilityAccounts)
	return d.cache, nil
}

// DecodeLedgerString is DecodeLedger over an in-memory text.
func DecodeLedgerString(text string, classifier Classifier) *TransactionCache {
	// reading from a strings.Reader cannot fail.
	cache, _ := DecodeLedger(strings.NewReader(text), classifier)
	return cache
}

type decoder struct {
	classifier Classifier
	aliases    map[string]string
	accounts   map[string]Bucket
	current    *Transaction
	cache      *TransactionCache
}

func (d *decoder) line(i int, line string) {
	line = strings.TrimSuffix(line, "\r")
	indented := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
	blank := strings.TrimSpace(line) == ""

	if d.current != nil {
		if indented && !blank {
			d.current.Lines = append(d.current.Lines, d.posting(strings.TrimSpace(line)))
			d.current.LastLine = i
			return
		}
		d.flush()
	}
	if blank || indented {
		return
	}

	switch {
	case strings.ContainsRune(";#%|*", rune(line[0])):
		// top level comment
	case strings.HasPrefix(line, "alias "):
		if m := aliasRE.FindStringSubmatch(line); m != nil {
			d.aliases[m[1]] = m[2]
		}
	case line[0] >= '0' && line[0] <= '9':
		m := headerRE.FindStringSubmatch(line)
		if m == nil {
			return
		}
		on, err := parseLedgerDate(m[1])
		if err != nil {
			return
		}
		d.current = &Transaction{
			Date:      on,
			DateText:  m[1] + m[2],
			Mark:      Mark(m[3]),
			Payee:     m[4],
			Header:    strings.TrimRight(line, " \t"),
			FirstLine: i,
			LastLine:  i,
		}
	}
}

// posting decodes the trimmed content of an indented line.
func (d *decoder) posting(content string) Posting {
	if content[0] == ';' || content[0] == '#' {
		return Posting{Comment: content}
	}

	raw := content
	p := Posting{}
	if len(content) > 1 && (content[0] == '*' || content[0] == '!') && (content[1] == ' ' || content[1] == '\t') {
		p.Mark = Mark(content[:1])
		content = strings.TrimSpace(content[1:])
	}
	if i := strings.IndexByte(content, ';'); i >= 0 {
		p.Comment = strings.TrimSpace(content[i+1:])
		content = strings.TrimSpace(content[:i])
	}

	account, amount := content, ""
	if loc := separatorRE.FindStringIndex(content); loc != nil {
		account, amount = content[:loc[0]], strings.TrimSpace(content[loc[1]:])
	}
	if amount == "" {
		p.Elided = true
	} else {
		v, err := parseAmount(amount)
		if err != nil {
			// not a posting we understand, keep the text as is.
			return Posting{Comment: raw}
		}
		p.Amount = v
		p.AmountText = amount
	}
	p.Account = account
	p.DealiasedAccount = d.dealias(account)
	p.Bucket = d.classifier.Classify(p.DealiasedAccount)
	return p
}

// dealias resolves an account through the alias directives seen so far. An
// alias matches the whole account or its leading segments.
func (d *decoder) dealias(account string) string {
	if target, ok := d.aliases[account]; ok {
		return target
	}
	best := ""
	for name := range d.aliases {
		if strings.HasPrefix(account, name+":") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return account
	}
	return d.aliases[best] + account[len(best):]
}

// flush completes the current transaction and appends it to the cache.
func (d *decoder) flush() {
	tx := d.current
	if tx == nil {
		return
	}
	d.current = nil

	// A single blank amount balances the transaction.
	elided, sum := -1, decimal.Zero
	for i, l := range tx.Lines {
		if !l.IsAccountLine() {
			continue
		}
		if l.Elided {
			if elided >= 0 {
				elided = len(tx.Lines) // more than one, leave them at zero
			} else {
				elided = i
			}
			continue
		}
		sum = sum.Add(l.Amount)
	}
	if elided >= 0 && elided < len(tx.Lines) {
		tx.Lines[elided].Amount = sum.Neg()
	}

	for _, l := range tx.Lines {
		if l.IsAccountLine() {
			d.accounts[l.DealiasedAccount] = l.Bucket
		}
	}
	if d.cache.FirstDate.IsZero() || tx.Date.Before(d.cache.FirstDate) {
		d.cache.FirstDate = tx.Date
	}
	d.cache.Transactions = append(d.cache.Transactions, *tx)
}

// parseAmount parses a single currency amount such as "$12.00", "-$1,200",
// "¥-5", "12.5 USD" or "1200元". Any price or assertion after '@' or '=' is
// ignored.
func parseAmount(s string) (decimal.Decimal, error) {
	if i := strings.IndexAny(s, "@="); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	m := amountRE.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(m[4], ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if m[1] == "-" || m[3] == "-" {
		v = v.Neg()
	}
	return v, nil
}

// Find returns the transaction with the given id.
func (c *TransactionCache) Find(id string) (Transaction, bool) {
	for _, tx := range c.Transactions {
		if tx.ID() == id {
			return tx, true
		}
	}
	return Transaction{}, false
}
