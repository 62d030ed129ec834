package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
)

const (
	productCacheTTL    = 5 * time.Minute
	productNotFoundTTL = 1 * time.Minute
	notFoundMarker     = "notfound"
)

// CachedProductRepository is a read-through Redis cache over a
// ProductRepository. Single-product lookups are cached; listings always hit
// the underlying store. Redis failures fall back to the store.
type CachedProductRepository struct {
	realRepo productDomain.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCachedProductRepository wraps realRepo with a cache on rdb.
func NewCachedProductRepository(realRepo productDomain.ProductRepository, rdb *redis.Client, logger *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    rdb,
		ttl:      productCacheTTL,
		logger:   logger,
	}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

// FindByID serves from the cache, falling back to the store on a miss.
// Missing products are cached briefly as well.
func (c *CachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*productDomain.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, domain.NewNotFoundError("Product", id.String())
		}
		var model ProductModel
		if err := json.Unmarshal(data, &model); err != nil {
			c.logger.Warn("failed to unmarshal cached product, continuing with DB", zap.Error(err))
			break
		}
		return toDomainProduct(&model), nil

	case errors.Is(err, redis.Nil):

	default:
		c.logger.Warn("redis error, continuing with DB", zap.Error(err))
	}

	p, err := c.realRepo.FindByID(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, productNotFoundTTL).Err(); setErr != nil {
				c.logger.Warn("failed to cache product miss", zap.Error(setErr))
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(toProductModel(p))
	if err != nil {
		c.logger.Warn("failed to marshal product for cache", zap.Error(err))
		return p, nil
	}
	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache product", zap.Error(err))
	}
	return p, nil
}

// List delegates to the store.
func (c *CachedProductRepository) List(ctx context.Context, filter productDomain.Filter) ([]*productDomain.Product, error) {
	return c.realRepo.List(ctx, filter)
}

// Count delegates to the store.
func (c *CachedProductRepository) Count(ctx context.Context) (int64, error) {
	return c.realRepo.Count(ctx)
}

// Save persists and clears any cached miss for the new ID.
func (c *CachedProductRepository) Save(ctx context.Context, p *productDomain.Product) error {
	if err := c.realRepo.Save(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID())
	return nil
}

// Update persists and invalidates the cached entry.
func (c *CachedProductRepository) Update(ctx context.Context, p *productDomain.Product) error {
	err := c.realRepo.Update(ctx, p)
	c.invalidate(ctx, p.ID())
	return err
}

// Delete removes and invalidates the cached entry.
func (c *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.realRepo.Delete(ctx, id)
	c.invalidate(ctx, id)
	return err
}

func (c *CachedProductRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn("failed to delete product cache",
			zap.String("key", productKey(id)),
			zap.Error(err),
		)
	}
}
