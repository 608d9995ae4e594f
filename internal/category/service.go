package category

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"dukani-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	treeCacheKey = "taxonomy:tree"
	treeCacheTTL = 5 * time.Minute
)

// Service serves the canonical taxonomy. Reads go through a redis cache so
// the tree is cheap enough to inject into every consuming screen; mutations
// invalidate it.
type Service interface {
	Tree(ctx context.Context) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	AddSubcategory(ctx context.Context, categoryID string, name string) (*Subcategory, error)
}

type service struct {
	repo  Repository
	cache *redis.Client
}

// NewService creates the taxonomy service. cache may be nil, in which case
// every read hits the database.
func NewService(repo Repository, cache *redis.Client) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) Tree(ctx context.Context) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Tree"),
	)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, treeCacheKey).Result(); err == nil {
			var cached []*Category
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				log.Debug("taxonomy cache hit")
				return cached, nil
			}
		}
	}

	tree, err := s.repo.GetTree(ctx)
	if err != nil {
		log.Error("failed to load taxonomy", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(tree); err == nil {
			if err := s.cache.Set(ctx, treeCacheKey, raw, treeCacheTTL).Err(); err != nil {
				log.Warn("failed to cache taxonomy", zap.Error(err))
			}
		}
	}

	return tree, nil
}

func (s *service) AddCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	c, err := s.repo.AddCategory(ctx, name)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return c, nil
}

func (s *service) AddSubcategory(ctx context.Context, categoryID string, name string) (*Subcategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	sub, err := s.repo.AddSubcategory(ctx, categoryID, name)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return sub, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, treeCacheKey).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate taxonomy cache", zap.Error(err))
	}
}
