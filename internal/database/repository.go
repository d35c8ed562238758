package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/cgc/domain/query"
	"gorm.io/gorm"
)

// ErrNotFound indicates the requested entity was not found.
var ErrNotFound = errors.New("entity not found")

// EntityMapper defines the interface for mapping between domain and database model types.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic read operations for database entities
// using query.Option-based lookups.
type Repository[D any, E any] struct {
	db       Database
	mapper   EntityMapper[D, E]
	label    string
	preloads []string
}

// NewRepository creates a new Repository. Associations named in preloads
// are loaded with every Find and FindOne.
func NewRepository[D any, E any](db Database, mapper EntityMapper[D, E], label string, preloads ...string) Repository[D, E] {
	return Repository[D, E]{
		db:       db,
		mapper:   mapper,
		label:    label,
		preloads: preloads,
	}
}

func (r Repository[D, E]) modelDB(ctx context.Context) *gorm.DB {
	return r.db.Session(ctx).Model(new(E))
}

func (r Repository[D, E]) loadDB(ctx context.Context) *gorm.DB {
	db := r.db.Session(ctx)
	for _, p := range r.preloads {
		db = db.Preload(p)
	}
	return db
}

// Find retrieves entities matching the given options.
func (r Repository[D, E]) Find(ctx context.Context, options ...query.Option) ([]D, error) {
	var entities []E
	result := ApplyOptions(r.loadDB(ctx), options...).Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, result.Error)
	}

	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// FindOne retrieves a single entity matching the given options.
func (r Repository[D, E]) FindOne(ctx context.Context, options ...query.Option) (D, error) {
	var entity E
	result := ApplyOptions(r.loadDB(ctx), options...).First(&entity)
	if result.Error != nil {
		var zero D
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
		}
		return zero, fmt.Errorf("find one %s: %w", r.label, result.Error)
	}
	return r.mapper.ToDomain(entity), nil
}

// Count returns the number of entities matching the given options.
func (r Repository[D, E]) Count(ctx context.Context, options ...query.Option) (int64, error) {
	var count int64
	if result := ApplyConditions(r.modelDB(ctx), options...).Count(&count); result.Error != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, result.Error)
	}
	return count, nil
}

// DB returns a GORM session bound to ctx.
func (r Repository[D, E]) DB(ctx context.Context) *gorm.DB {
	return r.db.Session(ctx)
}

// Mapper returns the entity mapper for external use.
func (r Repository[D, E]) Mapper() EntityMapper[D, E] {
	return r.mapper
}
