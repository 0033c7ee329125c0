// Package product defines the product record: an identifier, descriptive
// text, and a fixed-dimension embedding.
package product

import (
	"errors"
	"fmt"
)

// Dimension is the number of components in every product vector.
const Dimension = 1536

// ErrDimensionMismatch indicates a vector whose length is not Dimension.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Product is one row of the product vector table.
type Product struct {
	id          int32
	name        string
	description string
	vector      []float32
}

// New creates a Product. A nil vector is stored as NULL. The vector is copied.
func New(id int32, name, description string, vector []float32) Product {
	return Product{
		id:          id,
		name:        name,
		description: description,
		vector:      copyVector(vector),
	}
}

// ID returns the product identifier.
func (p Product) ID() int32 { return p.id }

// Name returns the product name.
func (p Product) Name() string { return p.name }

// Description returns the product description.
func (p Product) Description() string { return p.description }

// Vector returns a copy of the embedding, or nil when it is NULL.
func (p Product) Vector() []float32 { return copyVector(p.vector) }

// HasVector reports whether the product carries an embedding.
func (p Product) HasVector() bool { return p.vector != nil }

// WithName returns a copy with the name replaced.
func (p Product) WithName(name string) Product {
	p.name = name
	return p
}

// WithDescription returns a copy with the description replaced.
func (p Product) WithDescription(description string) Product {
	p.description = description
	return p
}

// WithVector returns a copy with the embedding replaced.
func (p Product) WithVector(vector []float32) Product {
	p.vector = copyVector(vector)
	return p
}

// Validate checks the vector dimension. Name and description are left to
// the database's NOT NULL constraints.
func (p Product) Validate() error {
	if p.vector != nil && len(p.vector) != Dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(p.vector), Dimension)
	}
	return nil
}

// Equal reports whether two products hold identical values.
func (p Product) Equal(other Product) bool {
	if p.id != other.id || p.name != other.name || p.description != other.description {
		return false
	}
	if (p.vector == nil) != (other.vector == nil) || len(p.vector) != len(other.vector) {
		return false
	}
	for i := range p.vector {
		if p.vector[i] != other.vector[i] {
			return false
		}
	}
	return true
}

func copyVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	cp := make([]float32, len(v))
	copy(cp, v)
	return cp
}
