package database

import (
	"database/sql/driver"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// Vector is a nullable value for a PostgreSQL VECTOR column. It uses the
// pgvector text literal "[1,2,3]", which SQLite stores as plain text.
type Vector struct {
	vec   pgvector.Vector
	valid bool
}

// NewVector creates a non-NULL Vector. The input is copied.
func NewVector(values []float32) Vector {
	cp := make([]float32, len(values))
	copy(cp, values)
	return Vector{vec: pgvector.NewVector(cp), valid: true}
}

// NullVector returns the SQL NULL vector.
func NullVector() Vector {
	return Vector{}
}

// Valid reports whether the vector is non-NULL.
func (v Vector) Valid() bool { return v.valid }

// Slice returns a copy of the components, or nil for NULL.
func (v Vector) Slice() []float32 {
	if !v.valid {
		return nil
	}
	src := v.vec.Slice()
	cp := make([]float32, len(src))
	copy(cp, src)
	return cp
}

// Dimension returns the number of components (0 for NULL).
func (v Vector) Dimension() int {
	if !v.valid {
		return 0
	}
	return len(v.vec.Slice())
}

// Scan implements sql.Scanner.
func (v *Vector) Scan(src any) error {
	if src == nil {
		*v = Vector{}
		return nil
	}
	var parsed pgvector.Vector
	if err := parsed.Scan(src); err != nil {
		return fmt.Errorf("scan vector: %w", err)
	}
	*v = Vector{vec: parsed, valid: true}
	return nil
}

// Value implements driver.Valuer.
func (v Vector) Value() (driver.Value, error) {
	if !v.valid {
		return nil, nil
	}
	return v.vec.Value()
}

// String returns the pgvector literal, or "NULL".
func (v Vector) String() string {
	if !v.valid {
		return "NULL"
	}
	return v.vec.String()
}
