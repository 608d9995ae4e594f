package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dukani-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	summaryCacheTTL = 2 * time.Minute
	topProductLimit = 10
)

var ErrInvalidRange = errors.New("date_from must not be after date_to")

// Service aggregates order data for the admin dashboard. Summaries are
// briefly cached per window; the dashboard polls and the figures do not
// need to be second-accurate.
type Service interface {
	Sales(ctx context.Context, r Range) (*SalesSummary, error)
}

type service struct {
	repo  Repository
	cache *redis.Client
	now   func() time.Time
}

// NewService creates the reporting service. cache may be nil, in which
// case every request recomputes the aggregates.
func NewService(repo Repository, cache *redis.Client) Service {
	return &service{repo: repo, cache: cache, now: time.Now}
}

func (s *service) Sales(ctx context.Context, r Range) (*SalesSummary, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SalesReport"),
	)

	if r.DateTo.IsZero() {
		r.DateTo = s.now()
	}
	if r.DateFrom.IsZero() {
		r.DateFrom = r.DateTo.AddDate(0, 0, -30)
	}
	if r.DateFrom.After(r.DateTo) {
		return nil, ErrInvalidRange
	}

	key := cacheKey(r)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached SalesSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				log.Debug("sales summary cache hit", zap.String("key", key))
				return &cached, nil
			}
		}
	}

	summary, err := s.repo.Summarize(ctx, r)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopProducts(ctx, r, topProductLimit)
	if err != nil {
		return nil, err
	}
	summary.TopProducts = top

	counts, err := s.repo.StatusCounts(ctx, r)
	if err != nil {
		return nil, err
	}
	summary.StatusCounts = counts

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, raw, summaryCacheTTL).Err(); err != nil {
				log.Warn("failed to cache sales summary", zap.Error(err))
			}
		}
	}

	return summary, nil
}

func cacheKey(r Range) string {
	return fmt.Sprintf("report:sales:%d:%d", r.DateFrom.Unix(), r.DateTo.Unix())
}
