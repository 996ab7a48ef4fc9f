package ledgerdash

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// reconciledHousehold is householdLedger once every transaction is reconciled.
const reconciledHousehold = `; household ledger
alias Food=Expense:Food

2024-02-28 * Opening
    Assets:Bank:Checking    $1,000.00
    Equity:Opening

2024-03-01 ACME
    * Assets:Bank:Checking  $5000.00
    * Income:Salary         -$5000.00

2024-03-05 Grocery
    ; weekly shopping
    * Food:Market  $200.00
    * Liabilities:Card

2024-03-20 Restaurant
    * Expense:Food:Dining  $1000.00  ; birthday
    * Assets:Bank:Checking
`

func TestSelectUnreconciled(t *testing.T) {
	cache := decodeHousehold(t)
	selected := SelectUnreconciled(cache.Transactions)

	var payees []string
	for _, tx := range selected {
		payees = append(payees, tx.Payee)
	}
	if want := []string{"ACME", "Grocery", "Restaurant"}; !reflect.DeepEqual(payees, want) {
		t.Errorf("SelectUnreconciled() = %v, want %v", payees, want)
	}
	if got := SelectUnreconciled(nil); len(got) != 0 {
		t.Errorf("SelectUnreconciled(nil) = %v", got)
	}
}

func TestReconcile(t *testing.T) {
	cache := decodeHousehold(t)

	got, err := Reconcile(householdLedger, SelectUnreconciled(cache.Transactions), "$")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if got != reconciledHousehold {
		t.Errorf("Reconcile() =\n%s\nwant:\n%s", got, reconciledHousehold)
	}

	again := DecodeLedgerString(got, Classifier{})
	if left := SelectUnreconciled(again.Transactions); len(left) != 0 {
		t.Errorf("%d transactions left unreconciled", len(left))
	}
}

func TestReconcile_OrderIndependent(t *testing.T) {
	cache := decodeHousehold(t)
	selected := SelectUnreconciled(cache.Transactions)

	// reverse the selection: the result must not depend on it.
	reversed := make([]Transaction, len(selected))
	for i, tx := range selected {
		reversed[len(selected)-1-i] = tx
	}
	all, err := Reconcile(householdLedger, reversed, "$")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// reference: one transaction at a time, first in document first, decoding
	// the text again after each step.
	text := householdLedger
	for {
		left := SelectUnreconciled(DecodeLedgerString(text, Classifier{}).Transactions)
		if len(left) == 0 {
			break
		}
		if text, err = Reconcile(text, left[:1], "$"); err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
	}
	if all != text {
		t.Errorf("batch and step by step reconciliation differ:\n%s\n---\n%s", all, text)
	}
}

func TestReconcile_CRLF(t *testing.T) {
	text := strings.ReplaceAll(householdLedger, "\n", "\r\n")
	cache := DecodeLedgerString(text, Classifier{})

	got, err := Reconcile(text, SelectUnreconciled(cache.Transactions), "$")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if want := strings.ReplaceAll(reconciledHousehold, "\n", "\r\n"); got != want {
		t.Errorf("Reconcile() = %q, want %q", got, want)
	}
}

func TestReconcile_NoTransactions(t *testing.T) {
	got, err := Reconcile(householdLedger, nil, "$")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if got != householdLedger {
		t.Error("Reconcile() without transactions changed the text")
	}
}

func TestReconcile_InvalidRange(t *testing.T) {
	cache := decodeHousehold(t)
	restaurant := cache.Transactions[3]

	tests := []struct {
		name string
		txs  []Transaction
	}{
		{"stale range", []Transaction{restaurant}},
		{"same transaction twice", []Transaction{cache.Transactions[1], cache.Transactions[1]}},
	}
	// the first case is decoded from a longer text than the one rewritten.
	short := strings.Join(strings.Split(householdLedger, "\n")[:12], "\n")
	texts := []string{short, householdLedger}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconcile(texts[i], tt.txs, "$")
			if !errors.Is(err, ErrInvalidPatch) {
				t.Errorf("Reconcile() error = %v, want %v", err, ErrInvalidPatch)
			}
		})
	}
}

func TestPatchSet_Apply(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f"}

	tests := []struct {
		name    string
		patches PatchSet
		want    []string
	}{
		{
			name:    "grow then shrink",
			patches: PatchSet{{First: 1, Last: 1, Lines: []string{"B1", "B2", "B3"}}, {First: 3, Last: 5, Lines: []string{"D"}}},
			want:    []string{"a", "B1", "B2", "B3", "c", "D"},
		},
		{
			name:    "any order",
			patches: PatchSet{{First: 3, Last: 5, Lines: []string{"D"}}, {First: 1, Last: 1, Lines: []string{"B1", "B2", "B3"}}},
			want:    []string{"a", "B1", "B2", "B3", "c", "D"},
		},
		{
			name:    "remove lines",
			patches: PatchSet{{First: 0, Last: 1}},
			want:    []string{"c", "d", "e", "f"},
		},
		{
			name: "adjacent",
			patches: PatchSet{
				{First: 0, Last: 0, Lines: []string{"A"}},
				{First: 1, Last: 2, Lines: []string{"BC"}},
			},
			want: []string{"A", "BC", "d", "e", "f"},
		},
		{
			name: "none",
			want: []string{"a", "b", "c", "d", "e", "f"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patches.Apply(lines)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(lines, []string{"a", "b", "c", "d", "e", "f"}) {
				t.Errorf("Apply() modified its input: %v", lines)
			}
		})
	}
}

func TestPatchSet_Apply_Invalid(t *testing.T) {
	lines := []string{"a", "b", "c"}
	tests := []struct {
		name    string
		patches PatchSet
	}{
		{"past the end", PatchSet{{First: 2, Last: 3}}},
		{"negative", PatchSet{{First: -1, Last: 0}}},
		{"inverted", PatchSet{{First: 2, Last: 1}}},
		{"overlap", PatchSet{{First: 0, Last: 1}, {First: 1, Last: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.patches.Apply(lines); !errors.Is(err, ErrInvalidPatch) {
				t.Errorf("Apply() error = %v, want %v", err, ErrInvalidPatch)
			}
		})
	}
}

func TestReconcile_KeepsLedgerDetails(t *testing.T) {
	text := "2024-03-01=2024-03-05 Grocer\n" +
		"    Assets:Bank  $-12.00 = $488.00\n" +
		"    Assets:EUR  10 EUR @ $1.10\n" +
		"    Expense:Food\n"
	cache := DecodeLedgerString(text, Classifier{})
	if len(cache.Transactions) != 1 {
		t.Fatalf("decoded %d transactions, want 1", len(cache.Transactions))
	}
	if got := cache.Transactions[0].Lines[1].Amount; !got.Equal(dec("10")) {
		t.Errorf("Assets:EUR amount = %v, want 10", got)
	}

	got, err := Reconcile(text, SelectUnreconciled(cache.Transactions), "$")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	want := "2024-03-01=2024-03-05 Grocer\n" +
		"    * Assets:Bank  $-12.00 = $488.00\n" +
		"    * Assets:EUR   10 EUR @ $1.10\n" +
		"    * Expense:Food\n"
	if got != want {
		t.Errorf("Reconcile() =\n%s\nwant:\n%s", got, want)
	}
	for _, detail := range []string{"=2024-03-05", "= $488.00", "@ $1.10", "10 EUR"} {
		if !strings.Contains(got, detail) {
			t.Errorf("Reconcile() lost %q", detail)
		}
	}
}
