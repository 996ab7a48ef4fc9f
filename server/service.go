// Package server serves the dashboard reports and the reconciliation of a
// ledger file as a JSON API.
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/etnz/ledgerdash"
	"github.com/rs/zerolog"
)

// ErrRefreshInProgress is returned by Refresh while another refresh runs.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Options are the settings of a Service.
type Options struct {
	Classifier    ledgerdash.Classifier
	LiabilitySign ledgerdash.LiabilitySign
	Currency      ledgerdash.Currency
}

// Service holds the dashboard of a ledger file and keeps it in sync with the
// file.
type Service struct {
	book *ledgerdash.Book
	opts Options
	log  zerolog.Logger

	mu          sync.RWMutex
	dashboard   *ledgerdash.Dashboard
	lastRefresh time.Time
	lastError   error
	refreshing  bool
}

// NewService returns a Service over book. The cache is warmed on a best
// effort basis: until a refresh succeeds, report handlers answer that a
// refresh is required.
func NewService(ctx context.Context, book *ledgerdash.Book, opts Options, log zerolog.Logger) *Service {
	s := &Service{book: book, opts: opts, log: log}
	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("path", book.Path()).Msg("initial ledger load failed")
	}
	return s
}

// Refresh reloads the ledger file and swaps the dashboard.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return ErrRefreshInProgress
	}
	s.refreshing = true
	s.mu.Unlock()

	cache, err := s.book.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false
	s.lastError = err
	if err != nil {
		return err
	}
	s.swap(cache)
	return nil
}

// swap replaces the dashboard. s.mu must be held.
func (s *Service) swap(cache *ledgerdash.TransactionCache) {
	s.dashboard = ledgerdash.NewDashboard(cache, s.opts.Classifier, s.opts.LiabilitySign)
	s.lastRefresh = time.Now()
}

// Dashboard returns the current dashboard, nil before the first successful
// refresh.
func (s *Service) Dashboard() *ledgerdash.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard
}

// Reconcile marks the transactions with the given ids as reconciled, or every
// unreconciled transaction when all is set, and swaps the dashboard for the
// rewritten file.
func (s *Service) Reconcile(ctx context.Context, ids []string, all bool) (int, error) {
	symbol := s.opts.Currency.Symbol
	var (
		n   int
		err error
	)
	if all {
		n, err = s.book.ReconcileAll(ctx, symbol)
	} else {
		n, err = s.book.Reconcile(ctx, ids, symbol)
	}
	if err != nil {
		return n, err
	}
	if cache := s.book.Cache(); cache != nil {
		s.mu.Lock()
		s.swap(cache)
		s.mu.Unlock()
	}
	return n, nil
}

// Status describes the state of the cache.
type Status struct {
	HasCache     bool       `json:"hasCache"`
	InProgress   bool       `json:"inProgress"`
	LastRefresh  *time.Time `json:"lastRefresh"`
	Transactions int        `json:"transactions"`
	Error        string     `json:"error,omitempty"`
}

// Status returns the state of the cache.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{HasCache: s.dashboard != nil, InProgress: s.refreshing}
	if s.dashboard != nil {
		last := s.lastRefresh
		st.LastRefresh = &last
		st.Transactions = len(s.dashboard.Cache().Transactions)
	}
	if s.lastError != nil {
		st.Error = s.lastError.Error()
	}
	return st
}
