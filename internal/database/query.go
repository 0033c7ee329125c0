package database

import (
	"fmt"

	"gorm.io/gorm"
)

// FilterOperator represents SQL comparison operators.
type FilterOperator int

// FilterOperator values.
const (
	OpEqual FilterOperator = iota
	OpNotEqual
	OpLike
	OpIn
	OpIsNull
	OpIsNotNull
)

// String returns the SQL representation of the operator.
func (o FilterOperator) String() string {
	switch o {
	case OpNotEqual:
		return "!="
	case OpLike:
		return "LIKE"
	case OpIn:
		return "IN"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	default:
		return "="
	}
}

// Filter is a single WHERE condition on one column.
type Filter struct {
	field    string
	operator FilterOperator
	value    any
}

// Field returns the column name.
func (f Filter) Field() string { return f.field }

// Operator returns the comparison operator.
func (f Filter) Operator() FilterOperator { return f.operator }

// Value returns the comparison operand.
func (f Filter) Value() any { return f.value }

func (f Filter) apply(db *gorm.DB) *gorm.DB {
	switch f.operator {
	case OpIsNull, OpIsNotNull:
		return db.Where(fmt.Sprintf("%s %s", f.field, f.operator))
	case OpIn:
		return db.Where(fmt.Sprintf("%s IN ?", f.field), f.value)
	default:
		return db.Where(fmt.Sprintf("%s %s ?", f.field, f.operator), f.value)
	}
}

// Query collects filters, ordering and pagination. Queries are values; every
// builder method returns a modified copy.
type Query struct {
	filters []Filter
	orders  []string
	limit   int
	offset  int
}

// NewQuery creates an empty Query.
func NewQuery() Query {
	return Query{}
}

// Where adds a filter condition.
func (q Query) Where(field string, operator FilterOperator, value any) Query {
	q.filters = append(append([]Filter(nil), q.filters...), Filter{field: field, operator: operator, value: value})
	return q
}

// Equal adds an equality filter.
func (q Query) Equal(field string, value any) Query {
	return q.Where(field, OpEqual, value)
}

// Contains adds a substring LIKE filter.
func (q Query) Contains(field, substr string) Query {
	return q.Where(field, OpLike, "%"+substr+"%")
}

// In adds an IN filter.
func (q Query) In(field string, values any) Query {
	return q.Where(field, OpIn, values)
}

// IsNull adds an IS NULL filter.
func (q Query) IsNull(field string) Query {
	return q.Where(field, OpIsNull, nil)
}

// IsNotNull adds an IS NOT NULL filter.
func (q Query) IsNotNull(field string) Query {
	return q.Where(field, OpIsNotNull, nil)
}

// OrderAsc adds ascending ordering.
func (q Query) OrderAsc(field string) Query {
	q.orders = append(append([]string(nil), q.orders...), field+" ASC")
	return q
}

// OrderDesc adds descending ordering.
func (q Query) OrderDesc(field string) Query {
	q.orders = append(append([]string(nil), q.orders...), field+" DESC")
	return q
}

// Limit sets the result limit; 0 means unlimited.
func (q Query) Limit(limit int) Query {
	q.limit = limit
	return q
}

// Offset sets the result offset.
func (q Query) Offset(offset int) Query {
	q.offset = offset
	return q
}

// Filters returns a copy of the filter conditions.
func (q Query) Filters() []Filter {
	return append([]Filter(nil), q.filters...)
}

// LimitValue returns the limit value (0 means no limit).
func (q Query) LimitValue() int { return q.limit }

// OffsetValue returns the offset value.
func (q Query) OffsetValue() int { return q.offset }

// Apply applies filters, ordering and pagination to db.
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	db = q.ApplyFilters(db)
	for _, o := range q.orders {
		db = db.Order(o)
	}
	if q.limit > 0 {
		db = db.Limit(q.limit)
	}
	if q.offset > 0 {
		db = db.Offset(q.offset)
	}
	return db
}

// ApplyFilters applies only the WHERE conditions, for COUNT and DELETE.
func (q Query) ApplyFilters(db *gorm.DB) *gorm.DB {
	for _, f := range q.filters {
		db = f.apply(db)
	}
	return db
}
