package persistence

import (
	"github.com/helixml/vectable/domain/product"
	"github.com/helixml/vectable/internal/database"
)

// ProductTable is the name of the product vector table.
const ProductTable = "vector_table_1"

// ProductModel is the GORM model for vector_table_1:
//
//	product_id   INTEGER PRIMARY KEY
//	product_name TEXT NOT NULL
//	description  TEXT NOT NULL
//	vector       VECTOR(1536)
type ProductModel struct {
	ProductID   int32           `gorm:"column:product_id;type:integer;primaryKey;autoIncrement:false;not null"`
	ProductName string          `gorm:"column:product_name;type:text;not null"`
	Description string          `gorm:"column:description;type:text;not null"`
	Vector      database.Vector `gorm:"column:vector;type:vector(1536)"`
}

// TableName returns the table name.
func (ProductModel) TableName() string { return ProductTable }

// ProductMapper maps between product.Product and ProductModel.
type ProductMapper struct{}

// ToDomain converts a ProductModel to a product.Product.
func (ProductMapper) ToDomain(e ProductModel) product.Product {
	return product.New(e.ProductID, e.ProductName, e.Description, e.Vector.Slice())
}

// ToModel converts a product.Product to a ProductModel.
func (ProductMapper) ToModel(p product.Product) ProductModel {
	vec := database.NullVector()
	if p.HasVector() {
		vec = database.NewVector(p.Vector())
	}
	return ProductModel{
		ProductID:   p.ID(),
		ProductName: p.Name(),
		Description: p.Description(),
		Vector:      vec,
	}
}
