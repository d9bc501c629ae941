package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"loan-servicing/internal/domain/loan"
	"log/slog"
	"time"
)

const loanKeyPrefix = "loan:"

type cachedLoan struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	InterestRate float64 `json:"interestRate"`
	Principal    int64   `json:"principal"`
	DueDate      string  `json:"dueDate"`
}

// LoanCache serves FindLoan read-through from the cache. Loans never change once seeded,
// so entries only expire by TTL. Every other call goes straight to the wrapped store.
type LoanCache struct {
	loan.Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ loan.Repository = (*LoanCache)(nil)

func NewLoanCache(store loan.Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *LoanCache {
	return &LoanCache{
		Repository: store,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With("component", "LoanCache"),
	}
}

func loanKey(loanID int64) string {
	return fmt.Sprintf("%s%d", loanKeyPrefix, loanID)
}

func (c *LoanCache) FindLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	key := loanKey(loanID)
	logCtx := c.logger.With("loanID", loanID)

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		cached, decodeErr := decodeLoan(raw)
		if decodeErr == nil {
			logCtx.DebugContext(ctx, "Loan served from cache")
			return cached, nil
		}
		logCtx.WarnContext(ctx, "Discarding unreadable cache entry", "error", decodeErr)
	case !errors.Is(err, ErrMiss):
		logCtx.WarnContext(ctx, "Cache read failed, falling back to store", "error", err)
	}

	l, err := c.Repository.FindLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if encoded, err := encodeLoan(*l); err != nil {
		logCtx.WarnContext(ctx, "Failed to encode loan for cache", "error", err)
	} else if err := c.cache.Set(ctx, key, encoded, c.ttl); err != nil {
		logCtx.WarnContext(ctx, "Cache write failed", "error", err)
	}
	return l, nil
}

func encodeLoan(l loan.Loan) ([]byte, error) {
	return json.Marshal(cachedLoan{
		ID:           l.ID,
		Name:         l.Name,
		InterestRate: l.InterestRate,
		Principal:    l.Principal,
		DueDate:      loan.FormatDate(l.DueDate),
	})
}

func decodeLoan(raw []byte) (*loan.Loan, error) {
	var c cachedLoan
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	due, err := loan.ParseDate(c.DueDate)
	if err != nil {
		return nil, err
	}
	return &loan.Loan{
		ID:           c.ID,
		Name:         c.Name,
		InterestRate: c.InterestRate,
		Principal:    c.Principal,
		DueDate:      due,
	}, nil
}
