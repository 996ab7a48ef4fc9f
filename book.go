package ledgerdash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/etnz/ledgerdash/logger"
)

var (
	// ErrLedgerNotFound is returned when the ledger file does not exist.
	ErrLedgerNotFound = errors.New("ledger file not found")
	// ErrUnknownTransaction is returned when a transaction id does not match
	// any transaction of the ledger file as it is on disk.
	ErrUnknownTransaction = errors.New("unknown transaction")
)

// fileLocks holds one mutex per ledger file, shared by every Book of the
// process opened on that file.
var fileLocks sync.Map // absolute path -> *sync.Mutex

// Book is a ledger file. It loads the file into a TransactionCache and runs
// the reconciliation of its transactions as a single read-modify-write.
type Book struct {
	path       string
	classifier Classifier
	lock       *sync.Mutex // held across every access to the file

	mu    sync.RWMutex
	cache *TransactionCache
}

// OpenBook returns the Book of the ledger file at path. The file is not read
// until Load is called.
func OpenBook(path string, classifier Classifier) (*Book, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve ledger path %q: %w", path, err)
	}
	lock, _ := fileLocks.LoadOrStore(abs, new(sync.Mutex))
	return &Book{
		path:       abs,
		classifier: classifier,
		lock:       lock.(*sync.Mutex),
	}, nil
}

// Path returns the absolute path of the ledger file.
func (b *Book) Path() string { return b.path }

// Cache returns the last loaded cache, nil if the book was never loaded.
func (b *Book) Cache() *TransactionCache {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cache
}

// Load reads and decodes the ledger file, and replaces the cache with it.
func (b *Book) Load(ctx context.Context) (*TransactionCache, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.load(ctx)
}

func (b *Book) load(ctx context.Context) (*TransactionCache, error) {
	start := time.Now()
	text, err := b.read()
	if err != nil {
		return nil, err
	}
	cache := DecodeLedgerString(text, b.classifier)

	b.mu.Lock()
	b.cache = cache
	b.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Debug().
		Str("path", b.path).
		Int("transactions", len(cache.Transactions)).
		Dur("duration", time.Since(start)).
		Msg("ledger loaded")
	return cache, nil
}

func (b *Book) read() (string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrLedgerNotFound, b.path)
	}
	if err != nil {
		return "", fmt.Errorf("could not read ledger file %q: %w", b.path, err)
	}
	return string(data), nil
}

// Reconcile marks as reconciled the transactions with the given ids and
// writes the ledger file back. It returns the number of transactions
// rewritten.
//
// Ids are resolved against the file as it is read by this call, so that
// line ranges always match the text being rewritten. Nothing is written when
// an id is unknown, or when ctx is done before the write.
func (b *Book) Reconcile(ctx context.Context, ids []string, currencySymbol string) (int, error) {
	return b.reconcile(ctx, currencySymbol, byIDs(ids))
}

// ReconcileAll marks every unreconciled transaction as reconciled.
func (b *Book) ReconcileAll(ctx context.Context, currencySymbol string) (int, error) {
	return b.reconcile(ctx, currencySymbol, allUnreconciled)
}

// Preview returns the text the ledger file would have after Reconcile, or
// after ReconcileAll when ids is empty. The file is not modified.
func (b *Book) Preview(ctx context.Context, ids []string, currencySymbol string) (string, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	pick := byIDs(ids)
	if len(ids) == 0 {
		pick = allUnreconciled
	}
	text, _, err := b.prepare(currencySymbol, pick)
	return text, err
}

// selector picks the transactions to reconcile in a freshly decoded cache.
type selector func(*TransactionCache) ([]Transaction, error)

func byIDs(ids []string) selector {
	return func(cache *TransactionCache) ([]Transaction, error) {
		seen := make(map[string]bool, len(ids))
		var txs []Transaction
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			tx, ok := cache.Find(id)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTransaction, id)
			}
			txs = append(txs, tx)
		}
		return txs, nil
	}
}

func allUnreconciled(cache *TransactionCache) ([]Transaction, error) {
	return SelectUnreconciled(cache.Transactions), nil
}

// prepare reads the file once and computes its reconciled text.
func (b *Book) prepare(currencySymbol string, pick selector) (string, int, error) {
	text, err := b.read()
	if err != nil {
		return "", 0, err
	}
	txs, err := pick(DecodeLedgerString(text, b.classifier))
	if err != nil {
		return "", 0, err
	}
	if len(txs) == 0 {
		return text, 0, nil
	}
	updated, err := Reconcile(text, txs, currencySymbol)
	if err != nil {
		return "", 0, fmt.Errorf("could not reconcile %q: %w", b.path, err)
	}
	return updated, len(txs), nil
}

func (b *Book) reconcile(ctx context.Context, currencySymbol string, pick selector) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	start := time.Now()
	updated, n, err := b.prepare(currencySymbol, pick)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return n, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := writeFileAtomic(b.path, []byte(updated)); err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("path", b.path).
		Int("reconciled", n).
		Dur("duration", time.Since(start)).
		Msg("ledger reconciled")

	if _, err := b.load(ctx); err != nil {
		return n, fmt.Errorf("ledger reconciled but could not be reloaded: %w", err)
	}
	return n, nil
}

// writeFileAtomic replaces the file at path with data. The file is either
// left untouched or fully replaced.
func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrLedgerNotFound, path)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger file %q: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger file %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", tmp, err)
	}
	if err := os.Chmod(tmp, mode); err != nil {
		return fmt.Errorf("could not set ledger file mode: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace ledger file %q: %w", path, err)
	}
	return nil
}
