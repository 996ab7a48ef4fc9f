package ledgerdash

import (
	"fmt"
	"strings"
)

// Bucket is the top-level classification of an account.
type Bucket int

const (
	Other Bucket = iota
	Income
	Expense
	Asset
	Liability
)

func (b Bucket) String() string {
	switch b {
	case Income:
		return "income"
	case Expense:
		return "expense"
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	default:
		return "other"
	}
}

// RootName is the display name of a balance tree rooted at this bucket.
func (b Bucket) RootName() string {
	switch b {
	case Asset:
		return "Assets"
	case Liability:
		return "Liabilities"
	case Income:
		return "Income"
	case Expense:
		return "Expenses"
	default:
		return "Other"
	}
}

// ParseBucket parses a bucket name such as "asset" or "liabilities".
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "incomes":
		return Income, nil
	case "expense", "expenses":
		return Expense, nil
	case "asset", "assets":
		return Asset, nil
	case "liability", "liabilities":
		return Liability, nil
	default:
		return Other, fmt.Errorf("unknown bucket %q", s)
	}
}

func (b Bucket) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// ClassificationMode selects how account names are mapped to buckets.
type ClassificationMode int

const (
	// Exact matches the first account segment against the bucket tokens.
	Exact ClassificationMode = iota
	// Substring matches any occurrence of the bucket tokens in the account
	// name. Kept for ledgers that rely on it.
	Substring
)

func (m ClassificationMode) String() string {
	if m == Substring {
		return "substring"
	}
	return "exact"
}

// ParseClassificationMode parses "exact" or "substring". Empty means Exact.
func ParseClassificationMode(s string) (ClassificationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "substring", "legacy":
		return Substring, nil
	default:
		return Exact, fmt.Errorf("unknown classification mode %q", s)
	}
}

// bucketTokens lists, in matching order, the tokens naming each bucket.
// Income comes before Expense: an account carrying both is income.
var bucketTokens = []struct {
	bucket    Bucket
	substring []string // tokens searched in Substring mode
	exact     []string // accepted first segments in Exact mode
}{
	{Income, []string{"Income", "收入"}, []string{"income", "incomes", "revenue", "revenues", "收入"}},
	{Expense, []string{"Expense", "支出"}, []string{"expense", "expenses", "支出"}},
	{Asset, []string{"Asset", "资产"}, []string{"asset", "assets", "资产"}},
	{Liability, []string{"Liabilit", "负债"}, []string{"liability", "liabilities", "负债"}},
}

// Classifier maps account paths to buckets. The zero value classifies in
// Exact mode.
type Classifier struct {
	Mode ClassificationMode
}

// Classify returns the bucket of a (dealiased) account path.
func (c Classifier) Classify(account string) Bucket {
	if account == "" {
		return Other
	}
	switch c.Mode {
	case Substring:
		for _, t := range bucketTokens {
			for _, token := range t.substring {
				if strings.Contains(account, token) {
					return t.bucket
				}
			}
		}
	default:
		top := strings.ToLower(strings.TrimSpace(Segments(account)[0]))
		for _, t := range bucketTokens {
			for _, token := range t.exact {
				if top == token {
					return t.bucket
				}
			}
		}
	}
	return Other
}

// Segments splits an account path on ':'.
func Segments(account string) []string { return strings.Split(account, ":") }

// PrimaryCategory returns the second segment of an account path
// ("Expense:Food:Dining" -> "Food"), or the whole path when it has a single
// segment.
func PrimaryCategory(account string) string {
	parts := Segments(account)
	if len(parts) > 1 {
		return parts[1]
	}
	return parts[0]
}
