package server

import (
	"errors"
	"net/http"

	"github.com/etnz/ledgerdash"
	"github.com/gin-gonic/gin"
)

// current returns the dashboard, or answers that a refresh is required.
func (s *Service) current(c *gin.Context) (*ledgerdash.Dashboard, bool) {
	d := s.Dashboard()
	if d == nil {
		c.JSON(http.StatusAccepted, gin.H{"message": "cache empty; refresh required", "needsRefresh": true})
		return nil, false
	}
	return d, true
}

// period reads the month, from and to query parameters.
func period(c *gin.Context) (ledgerdash.Range, bool) {
	r, err := ledgerdash.ParseRange(c.Query("month"), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return r, false
	}
	return r, true
}

// periodHandler serves the report of a period computed by report.
func (s *Service) periodHandler(report func(*ledgerdash.Dashboard, ledgerdash.Range) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := s.current(c)
		if !ok {
			return
		}
		r, ok := period(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, report(d, r))
	}
}

// HandleReport returns every report of a period.
func (s *Service) HandleReport(c *gin.Context) {
	s.periodHandler(func(d *ledgerdash.Dashboard, r ledgerdash.Range) any {
		return d.Report(r, s.opts.Currency)
	})(c)
}

// HandleKPI returns the income and expense figures of a period.
func (s *Service) HandleKPI(c *gin.Context) {
	s.periodHandler(func(d *ledgerdash.Dashboard, r ledgerdash.Range) any { return d.KPIs(r) })(c)
}

// HandleFlow returns the flow graph of a period.
func (s *Service) HandleFlow(c *gin.Context) {
	s.periodHandler(func(d *ledgerdash.Dashboard, r ledgerdash.Range) any { return d.FlowGraph(r) })(c)
}

// HandleTrend returns the daily income, expense and cumulative balance of a
// period.
func (s *Service) HandleTrend(c *gin.Context) {
	s.periodHandler(func(d *ledgerdash.Dashboard, r ledgerdash.Range) any { return d.Trend(r) })(c)
}

// HandleBalance returns the balance tree of a bucket at a date.
func (s *Service) HandleBalance(c *gin.Context) {
	d, ok := s.current(c)
	if !ok {
		return
	}
	on := ledgerdash.Today()
	if v := c.Query("date"); v != "" {
		var err error
		if on, err = ledgerdash.ParseDate(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	bucket, err := ledgerdash.ParseBucket(c.DefaultQuery("bucket", "asset"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d.BalanceTree(on, bucket))
}

// HandleUnreconciled returns the transactions to reconcile.
func (s *Service) HandleUnreconciled(c *gin.Context) {
	d, ok := s.current(c)
	if !ok {
		return
	}
	txs := d.Unreconciled()
	if txs == nil {
		txs = []ledgerdash.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

// HandleMonths returns the months that can be reported on.
func (s *Service) HandleMonths(c *gin.Context) {
	d, ok := s.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d.Months())
}

type reconcileRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// HandleReconcile marks transactions as reconciled in the ledger file.
func (s *Service) HandleReconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reconcile request"})
		return
	}
	if req.All == (len(req.IDs) > 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either all or ids is required"})
		return
	}

	n, err := s.Reconcile(c.Request.Context(), req.IDs, req.All)
	if err != nil {
		s.log.Error().Err(err).Int("ids", len(req.IDs)).Msg("reconcile failed")
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciled": n})
}

// HandleCacheStatus returns cache metadata
func (s *Service) HandleCacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Status())
}

// HandleCacheRefresh triggers a reload of the ledger file
func (s *Service) HandleCacheRefresh(c *gin.Context) {
	if err := s.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, ErrRefreshInProgress) {
			c.JSON(http.StatusAccepted, gin.H{"message": err.Error(), "inProgress": true})
			return
		}
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cache rebuilt", "status": s.Status()})
}

// statusOf maps an error of the ledger workflow to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ledgerdash.ErrLedgerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledgerdash.ErrUnknownTransaction):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
