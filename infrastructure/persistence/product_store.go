package persistence

import (
	"github.com/helixml/vectable/domain/product"
	"github.com/helixml/vectable/internal/database"
)

// ListFilter selects and pages products.
type ListFilter struct {
	NameContains string
	Limit        int
	Offset       int
}

func (f ListFilter) query() database.Query {
	q := database.NewQuery()
	if f.NameContains != "" {
		q = q.Contains("product_name", f.NameContains)
	}
	return q.OrderAsc("product_id").Limit(f.Limit).Offset(f.Offset)
}

// ProductStore reads and writes products inside one scoped session. Driver
// errors, including constraint violations, are returned unmodified.
type ProductStore struct {
	repo database.Repository[product.Product, ProductModel]
}

// NewProductStore binds a ProductStore to s.
func NewProductStore(s *database.Session) ProductStore {
	return ProductStore{
		repo: database.NewRepository[product.Product, ProductModel](s, ProductMapper{}, "product"),
	}
}

// Create inserts p.
func (s ProductStore) Create(p product.Product) (product.Product, error) {
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}
	return s.repo.Create(p)
}

// Get returns the product with the given identifier.
func (s ProductStore) Get(id int32) (product.Product, error) {
	return s.repo.FindOne(database.NewQuery().Equal("product_id", id))
}

// Update replaces the name, description and vector of the product with p's
// identifier.
func (s ProductStore) Update(p product.Product) (product.Product, error) {
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}
	m := ProductMapper{}.ToModel(p)
	result := s.repo.DB().
		Model(&ProductModel{}).
		Where("product_id = ?", m.ProductID).
		Updates(map[string]any{
			"product_name": m.ProductName,
			"description":  m.Description,
			"vector":       m.Vector,
		})
	if result.Error != nil {
		return product.Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return product.Product{}, s.repo.NotFound()
	}
	return p, nil
}

// Delete removes the product with the given identifier.
func (s ProductStore) Delete(id int32) error {
	n, err := s.repo.DeleteBy(database.NewQuery().Equal("product_id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return s.repo.NotFound()
	}
	return nil
}

// List returns products ordered by identifier.
func (s ProductStore) List(f ListFilter) ([]product.Product, error) {
	return s.repo.Find(f.query())
}

// Count returns how many products match f, ignoring its paging.
func (s ProductStore) Count(f ListFilter) (int64, error) {
	return s.repo.Count(f.query())
}

// Exists reports whether a product with the given identifier exists.
func (s ProductStore) Exists(id int32) (bool, error) {
	return s.repo.Exists(database.NewQuery().Equal("product_id", id))
}
