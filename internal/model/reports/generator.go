package reports

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
	"github.com/finances-bots/finances-bots/internal/logger"
)

const summaryOption = "summary"

var ErrNoTransactions = errors.New("no transactions found")

type transactionStorage interface {
	GetUserTransactions(ctx context.Context, userID int64) ([]transaction.Record, error)
}

type reportCache interface {
	CacheReport(userID int64, option string, report []byte) error
	GetReport(userID int64, option string) ([]byte, error)
	InvalidateCache(userID int64, options []string) error
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type Summary struct {
	Records []CategoryTotal `json:"records"`
	Total   decimal.Decimal `json:"total"`
}

// Share returns the percentage of the total spent in records[i].
func (s *Summary) Share(i int) float64 {
	if s.Total.IsZero() {
		return 0
	}
	return s.Records[i].Amount.Div(s.Total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

type Report struct {
	Summary
	Transactions []transaction.Record
}

type Generator struct {
	storage transactionStorage
	cache   reportCache
}

// NewGenerator builds a generator, cache may be nil.
func NewGenerator(storage transactionStorage, cache reportCache) *Generator {
	return &Generator{
		storage: storage,
		cache:   cache,
	}
}

// Summary sums the user's whole history by category.
func (g *Generator) Summary(ctx context.Context, userID int64) (*Summary, error) {
	logger.Info("Summary - start", zap.Int64("userID", userID))
	defer logger.Info("Summary - end")

	if cached, ok := g.cachedSummary(userID); ok {
		return cached, nil
	}

	records, err := g.storage.GetUserTransactions(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "generate summary")
	}
	if len(records) == 0 {
		return nil, ErrNoTransactions
	}

	summary := groupByCategory(records)
	g.cacheSummary(userID, summary)
	return summary, nil
}

// Full returns every transaction of the user together with the summary.
func (g *Generator) Full(ctx context.Context, userID int64) (*Report, error) {
	logger.Info("Full - start", zap.Int64("userID", userID))
	defer logger.Info("Full - end")

	records, err := g.storage.GetUserTransactions(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}
	if len(records) == 0 {
		return nil, ErrNoTransactions
	}

	return &Report{
		Summary:      *groupByCategory(records),
		Transactions: records,
	}, nil
}

// Invalidate drops the cached summary, call it after a new transaction is saved.
func (g *Generator) Invalidate(_ context.Context, userID int64) {
	if g.cache == nil {
		return
	}
	if err := g.cache.InvalidateCache(userID, []string{summaryOption}); err != nil {
		logger.Error("failed to invalidate report cache", zap.Int64("userID", userID), zap.Error(err))
	}
}

func (g *Generator) cachedSummary(userID int64) (*Summary, bool) {
	if g.cache == nil {
		return nil, false
	}
	raw, err := g.cache.GetReport(userID, summaryOption)
	if err != nil {
		return nil, false
	}
	var summary Summary
	if err = json.Unmarshal(raw, &summary); err != nil {
		logger.Error("cannot decode cached summary", zap.Int64("userID", userID), zap.Error(err))
		return nil, false
	}
	return &summary, true
}

func (g *Generator) cacheSummary(userID int64, summary *Summary) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		logger.Error("cannot encode summary", zap.Error(err))
		return
	}
	if err = g.cache.CacheReport(userID, summaryOption, raw); err != nil {
		logger.Error("failed to cache summary", zap.Int64("userID", userID), zap.Error(err))
	}
}

func groupByCategory(records []transaction.Record) *Summary {
	m := make(map[string]decimal.Decimal)
	for _, rec := range records {
		m[rec.Category] = m[rec.Category].Add(rec.Amount)
	}

	res := &Summary{Records: make([]CategoryTotal, 0, len(m))}
	for cat, am := range m {
		res.Records = append(res.Records, CategoryTotal{Category: cat, Amount: am})
		res.Total = res.Total.Add(am)
	}
	sort.Slice(res.Records, func(i, j int) bool {
		if cmp := res.Records[i].Amount.Cmp(res.Records[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return res.Records[i].Category < res.Records[j].Category
	})
	return res
}
