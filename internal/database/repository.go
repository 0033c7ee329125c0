package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EntityMapper maps between domain values and database models.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic persistence operations for one model type
// inside a single Session. Driver errors are returned unmodified.
type Repository[D any, E any] struct {
	session *Session
	mapper  EntityMapper[D, E]
	label   string
}

// NewRepository binds a Repository to s.
func NewRepository[D any, E any](s *Session, mapper EntityMapper[D, E], label string) Repository[D, E] {
	return Repository[D, E]{
		session: s,
		mapper:  mapper,
		label:   label,
	}
}

// modelDB returns a fresh chainable handle scoped to the model's table.
func (r Repository[D, E]) modelDB() *gorm.DB {
	return r.session.DB().Session(&gorm.Session{}).Model(new(E))
}

// DB returns a fresh chainable handle inside the session.
func (r Repository[D, E]) DB() *gorm.DB {
	return r.session.DB().Session(&gorm.Session{})
}

// Create inserts d and returns it as stored.
func (r Repository[D, E]) Create(d D) (D, error) {
	entity := r.mapper.ToModel(d)
	if err := r.DB().Create(&entity).Error; err != nil {
		var zero D
		return zero, err
	}
	return r.mapper.ToDomain(entity), nil
}

// Find retrieves entities matching q.
func (r Repository[D, E]) Find(q Query) ([]D, error) {
	var entities []E
	if err := q.Apply(r.modelDB()).Find(&entities).Error; err != nil {
		return nil, err
	}
	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// FindOne retrieves the first entity matching q, or ErrNotFound.
func (r Repository[D, E]) FindOne(q Query) (D, error) {
	var entity E
	err := q.Apply(r.DB()).First(&entity).Error
	if err != nil {
		var zero D
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
		}
		return zero, err
	}
	return r.mapper.ToDomain(entity), nil
}

// Count returns the number of entities matching q's filters.
func (r Repository[D, E]) Count(q Query) (int64, error) {
	var count int64
	if err := q.ApplyFilters(r.modelDB()).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists reports whether any entity matches q's filters.
func (r Repository[D, E]) Exists(q Query) (bool, error) {
	count, err := r.Count(q)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteBy removes entities matching q's filters and returns how many went.
// A query without filters is refused rather than deleting the whole table.
func (r Repository[D, E]) DeleteBy(q Query) (int64, error) {
	if len(q.filters) == 0 {
		return 0, gorm.ErrMissingWhereClause
	}
	result := q.ApplyFilters(r.DB()).Delete(new(E))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// NotFound returns ErrNotFound annotated with the repository label.
func (r Repository[D, E]) NotFound() error {
	return fmt.Errorf("%w: %s", ErrNotFound, r.label)
}
