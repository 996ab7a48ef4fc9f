package ledgerdash

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.ledger")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write ledger: %v", err)
	}
	return path
}

func readLedger(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read ledger: %v", err)
	}
	return string(data)
}

func TestBook_Load(t *testing.T) {
	ctx := context.Background()
	book, err := OpenBook(writeLedger(t, householdLedger), Classifier{})
	if err != nil {
		t.Fatalf("OpenBook() error = %v", err)
	}
	if book.Cache() != nil {
		t.Error("Cache() is set before Load()")
	}
	cache, err := book.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cache.Transactions) != 4 || book.Cache() != cache {
		t.Errorf("Load() decoded %d transactions", len(cache.Transactions))
	}

	missing, _ := OpenBook(filepath.Join(t.TempDir(), "missing.ledger"), Classifier{})
	if _, err := missing.Load(ctx); !errors.Is(err, ErrLedgerNotFound) {
		t.Errorf("Load() error = %v, want %v", err, ErrLedgerNotFound)
	}
}

func TestBook_Reconcile(t *testing.T) {
	ctx := context.Background()
	path := writeLedger(t, householdLedger)
	book, _ := OpenBook(path, Classifier{})
	cache, err := book.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var ids []string
	for _, tx := range SelectUnreconciled(cache.Transactions) {
		ids = append(ids, tx.ID())
	}
	n, err := book.Reconcile(ctx, ids, "$")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Reconcile() = %d, want 3", n)
	}
	if got := readLedger(t, path); got != reconciledHousehold {
		t.Errorf("ledger file =\n%s\nwant:\n%s", got, reconciledHousehold)
	}
	if left := SelectUnreconciled(book.Cache().Transactions); len(left) != 0 {
		t.Errorf("cache was not reloaded: %d transactions unreconciled", len(left))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestBook_ReconcileAll(t *testing.T) {
	path := writeLedger(t, householdLedger)
	book, _ := OpenBook(path, Classifier{})

	n, err := book.ReconcileAll(context.Background(), "$")
	if err != nil || n != 3 {
		t.Fatalf("ReconcileAll() = %d, %v, want 3", n, err)
	}
	if got := readLedger(t, path); got != reconciledHousehold {
		t.Errorf("ledger file =\n%s\nwant:\n%s", got, reconciledHousehold)
	}

	n, err = book.ReconcileAll(context.Background(), "$")
	if err != nil || n != 0 {
		t.Errorf("second ReconcileAll() = %d, %v, want 0", n, err)
	}
}

func TestBook_Reconcile_Errors(t *testing.T) {
	ctx := context.Background()
	cache := DecodeLedgerString(householdLedger, Classifier{})
	acme := cache.Transactions[1].ID()

	t.Run("unknown id", func(t *testing.T) {
		path := writeLedger(t, householdLedger)
		book, _ := OpenBook(path, Classifier{})
		if _, err := book.Reconcile(ctx, []string{acme, "nope"}, "$"); !errors.Is(err, ErrUnknownTransaction) {
			t.Errorf("Reconcile() error = %v, want %v", err, ErrUnknownTransaction)
		}
		if readLedger(t, path) != householdLedger {
			t.Error("ledger was modified")
		}
	})

	t.Run("edited since loaded", func(t *testing.T) {
		// a line inserted before ACME moves it: its id no longer matches.
		path := writeLedger(t, "; new first line\n"+householdLedger)
		book, _ := OpenBook(path, Classifier{})
		if _, err := book.Reconcile(ctx, []string{acme}, "$"); !errors.Is(err, ErrUnknownTransaction) {
			t.Errorf("Reconcile() error = %v, want %v", err, ErrUnknownTransaction)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		book, _ := OpenBook(filepath.Join(t.TempDir(), "gone.ledger"), Classifier{})
		if _, err := book.Reconcile(ctx, []string{acme}, "$"); !errors.Is(err, ErrLedgerNotFound) {
			t.Errorf("Reconcile() error = %v, want %v", err, ErrLedgerNotFound)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		path := writeLedger(t, householdLedger)
		book, _ := OpenBook(path, Classifier{})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := book.Reconcile(cancelled, []string{acme}, "$"); !errors.Is(err, context.Canceled) {
			t.Errorf("Reconcile() error = %v, want %v", err, context.Canceled)
		}
		if readLedger(t, path) != householdLedger {
			t.Error("ledger was modified")
		}
	})
}

func TestBook_Preview(t *testing.T) {
	path := writeLedger(t, householdLedger)
	book, _ := OpenBook(path, Classifier{})

	got, err := book.Preview(context.Background(), nil, "$")
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if got != reconciledHousehold {
		t.Errorf("Preview() =\n%s\nwant:\n%s", got, reconciledHousehold)
	}
	if readLedger(t, path) != householdLedger {
		t.Error("Preview() modified the ledger")
	}
}

func TestBook_ConcurrentReconcile(t *testing.T) {
	path := writeLedger(t, householdLedger)
	cache := DecodeLedgerString(householdLedger, Classifier{})
	selected := SelectUnreconciled(cache.Transactions)

	// two books on the same file share its lock: every reconciliation sees
	// the text written by the previous one.
	var wg sync.WaitGroup
	for _, tx := range selected {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			book, _ := OpenBook(path, Classifier{})
			if _, err := book.Reconcile(context.Background(), []string{id}, "$"); err != nil {
				t.Errorf("Reconcile() error = %v", err)
			}
		}(tx.ID())
	}
	wg.Wait()

	if got := readLedger(t, path); got != reconciledHousehold {
		t.Errorf("ledger file =\n%s\nwant:\n%s", got, reconciledHousehold)
	}
}
