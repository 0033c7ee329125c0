// Package dto holds the request and response bodies of the v1 API.
package dto

// ProductCreateRequest is the body of POST /api/v1/products. Pointer fields
// distinguish an omitted or null value from a zero value.
type ProductCreateRequest struct {
	ProductID   *int32    `json:"product_id" validate:"required"`
	ProductName *string   `json:"product_name" validate:"required"`
	Description *string   `json:"description" validate:"required"`
	Vector      []float32 `json:"vector"`
}

// ProductUpdateRequest is the body of PUT /api/v1/products/{id}.
type ProductUpdateRequest struct {
	ProductName *string   `json:"product_name" validate:"required"`
	Description *string   `json:"description" validate:"required"`
	Vector      []float32 `json:"vector"`
}

// ProductResponse is a single product.
type ProductResponse struct {
	ProductID   int32     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Description string    `json:"description"`
	Vector      []float32 `json:"vector"`
}

// ProductEnvelope wraps a single product.
type ProductEnvelope struct {
	Data ProductResponse `json:"data"`
}

// ListMeta describes a page of results.
type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ProductListResponse is a page of products.
type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta ListMeta          `json:"meta"`
}
