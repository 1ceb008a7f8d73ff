// Package catalog кэширует в памяти услуги и правила совместимости каталога
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Source источник данных каталога (репозиторий)
type Source interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	GetCompatibilityRules(ctx context.Context, ids []int64) ([]domain.ServiceCompatibility, error)
}

// Config параметры кэша
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		TTL:             time.Minute,
		CleanupInterval: 10 * time.Minute,
	}
}

// Catalog декоратор над Source с TTL-кэшем.
// Услуги кэшируются по одной, правила - по отсортированному набору id.
type Catalog struct {
	source Source
	cache  *cache.Cache
}

// New создает кэширующий каталог
func New(source Source, cfg Config) *Catalog {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}
	return &Catalog{
		source: source,
		cache:  cache.New(cfg.TTL, cfg.CleanupInterval),
	}
}

func serviceKey(id int64) string {
	return "service:" + strconv.FormatInt(id, 10)
}

func rulesKey(ids []int64) string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "rules:" + strings.Join(parts, ",")
}

// GetServicesByIDs возвращает услуги в порядке ids; за промахами идёт в источник одним запросом
func (c *Catalog) GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	found := make(map[int64]domain.Service, len(ids))
	missing := make([]int64, 0)
	for _, id := range ids {
		if cached, ok := c.cache.Get(serviceKey(id)); ok {
			found[id] = cached.(domain.Service)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := c.source.GetServicesByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("catalog cache: GetServicesByIDs: %w", err)
		}
		for _, s := range loaded {
			found[s.ID] = s
			c.cache.SetDefault(serviceKey(s.ID), s)
		}
	}

	services := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := found[id]; ok {
			services = append(services, s)
		}
	}
	return services, nil
}

// GetCompatibilityRules возвращает правила совместимости для набора услуг
func (c *Catalog) GetCompatibilityRules(ctx context.Context, ids []int64) ([]domain.ServiceCompatibility, error) {
	key := rulesKey(ids)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]domain.ServiceCompatibility), nil
	}

	rules, err := c.source.GetCompatibilityRules(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog cache: GetCompatibilityRules: %w", err)
	}
	c.cache.SetDefault(key, rules)
	return rules, nil
}

// Flush сбрасывает кэш
func (c *Catalog) Flush() {
	c.cache.Flush()
}
