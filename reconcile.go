package ledgerdash

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidPatch is returned when a patch does not fit the document it is
// applied to.
var ErrInvalidPatch = errors.New("invalid patch")

// SelectUnreconciled returns, in order, the transactions having at least one
// account line not marked reconciled.
func SelectUnreconciled(txs []Transaction) []Transaction {
	var selected []Transaction
	for _, tx := range txs {
		if HasUnreconciledLines(tx) {
			selected = append(selected, tx)
		}
	}
	return selected
}

// Patch replaces the lines First..Last (inclusive, 0-based) of a document.
type Patch struct {
	First int
	Last  int
	Lines []string
}

// PatchSet is a collection of non overlapping patches over the same document.
// All ranges refer to the document before any patch is applied.
type PatchSet []Patch

// Apply returns a new line sequence with every patch applied. Patches are
// folded last-in-document first, so that each range is still valid when its
// turn comes. lines is not modified.
func (ps PatchSet) Apply(lines []string) ([]string, error) {
	sorted := slices.Clone(ps)
	slices.SortStableFunc(sorted, func(a, b Patch) int { return b.First - a.First })

	limit := len(lines)
	for _, p := range sorted {
		if p.First < 0 || p.Last < p.First || p.Last >= len(lines) {
			return nil, fmt.Errorf("%w: lines %d..%d outside a %d lines document", ErrInvalidPatch, p.First, p.Last, len(lines))
		}
		if p.Last >= limit {
			return nil, fmt.Errorf("%w: lines %d..%d overlap another patch", ErrInvalidPatch, p.First, p.Last)
		}
		limit = p.First
	}

	result := slices.Clone(lines)
	for _, p := range sorted {
		result = slices.Concat(result[:p.First], p.Lines, result[p.Last+1:])
	}
	return result, nil
}

// NewReconcilePatches returns, for each transaction, the patch rewriting its
// lines as reconciled. lines is the document the transactions were decoded
// from: a block whose last line ends with '\r' is written with CRLF endings.
func NewReconcilePatches(lines []string, txs []Transaction, currencySymbol string) PatchSet {
	patches := make(PatchSet, 0, len(txs))
	for _, tx := range txs {
		block := formatTransactionLines(MarkAsReconciled(tx), currencySymbol)
		if tx.LastLine >= 0 && tx.LastLine < len(lines) && strings.HasSuffix(lines[tx.LastLine], "\r") {
			for i := range block {
				block[i] += "\r"
			}
		}
		patches = append(patches, Patch{First: tx.FirstLine, Last: tx.LastLine, Lines: block})
	}
	return patches
}

// Reconcile rewrites, in text, the lines of every transaction of txs as
// reconciled and returns the new text. The transactions must have been
// decoded from text: every other line is kept byte for byte.
func Reconcile(text string, txs []Transaction, currencySymbol string) (string, error) {
	lines := strings.Split(text, "\n")
	result, err := NewReconcilePatches(lines, txs, currencySymbol).Apply(lines)
	if err != nil {
		return "", err
	}
	return strings.Join(result, "\n"), nil
}
