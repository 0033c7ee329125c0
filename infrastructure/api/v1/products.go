// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/helixml/vectable/domain/product"
	"github.com/helixml/vectable/infrastructure/api/middleware"
	"github.com/helixml/vectable/infrastructure/api/v1/dto"
	"github.com/helixml/vectable/infrastructure/persistence"
	"github.com/helixml/vectable/internal/database"
)

// errNoSession means the router was mounted without the session middleware.
var errNoSession = errors.New("no database session in request context")

// ProductsRouter handles product API endpoints. Every handler works inside
// the request's scoped session.
type ProductsRouter struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewProductsRouter creates a new ProductsRouter.
func NewProductsRouter(logger *slog.Logger) *ProductsRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductsRouter{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the chi router for product endpoints.
func (p *ProductsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", p.List)
	router.Post("/", p.Create)
	router.Get("/{id}", p.Get)
	router.Put("/{id}", p.Update)
	router.Delete("/{id}", p.Delete)

	return router
}

// List handles GET /api/v1/products.
func (p *ProductsRouter) List(w http.ResponseWriter, req *http.Request) {
	store, ok := p.store(w, req)
	if !ok {
		return
	}

	pagination, err := ParsePagination(req)
	if err != nil {
		middleware.WriteError(w, req, middleware.BadRequest("invalid pagination", err), p.logger)
		return
	}

	filter := persistence.ListFilter{
		NameContains: req.URL.Query().Get("name"),
		Limit:        pagination.Limit(),
		Offset:       pagination.Offset(),
	}

	products, err := store.List(filter)
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	total, err := store.Count(filter)
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for _, pr := range products {
		data = append(data, productToDTO(pr))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProductListResponse{
		Data: data,
		Meta: dto.ListMeta{
			Total:  total,
			Limit:  pagination.Limit(),
			Offset: pagination.Offset(),
		},
	})
}

// Get handles GET /api/v1/products/{id}.
func (p *ProductsRouter) Get(w http.ResponseWriter, req *http.Request) {
	store, ok := p.store(w, req)
	if !ok {
		return
	}

	id, err := productID(req)
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	pr, err := store.Get(id)
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProductEnvelope{Data: productToDTO(pr)})
}

// Create handles POST /api/v1/products.
func (p *ProductsRouter) Create(w http.ResponseWriter, req *http.Request) {
	store, ok := p.store(w, req)
	if !ok {
		return
	}

	var body dto.ProductCreateRequest
	if err := p.decode(req, &body); err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	created, err := store.Create(product.New(*body.ProductID, *body.ProductName, *body.Description, body.Vector))
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	w.Header().Set("Location", "/api/v1/products/"+strconv.FormatInt(int64(created.ID()), 10))
	middleware.WriteJSON(w, http.StatusCreated, dto.ProductEnvelope{Data: productToDTO(created)})
}

// Update handles PUT /api/v1/products/{id}.
func (p *ProductsRouter) Update(w http.ResponseWriter, req *http.Request) {
	store, ok := p.store(w, req)
	if !ok {
		return
	}

	id, err := productID(req)
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	var body dto.ProductUpdateRequest
	if err := p.decode(req, &body); err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	updated, err := store.Update(product.New(id, *body.ProductName, *body.Description, body.Vector))
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProductEnvelope{Data: productToDTO(updated)})
}

// Delete handles DELETE /api/v1/products/{id}.
func (p *ProductsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	store, ok := p.store(w, req)
	if !ok {
		return
	}

	id, err := productID(req)
	if err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	if err := store.Delete(id); err != nil {
		middleware.WriteError(w, req, err, p.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p *ProductsRouter) store(w http.ResponseWriter, req *http.Request) (persistence.ProductStore, bool) {
	s, ok := database.FromContext(req.Context())
	if !ok {
		middleware.WriteError(w, req, errNoSession, p.logger)
		return persistence.ProductStore{}, false
	}
	return persistence.NewProductStore(s), true
}

func (p *ProductsRouter) decode(req *http.Request, body any) error {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(body); err != nil {
		return middleware.BadRequest("invalid request body", err)
	}
	if err := p.validate.Struct(body); err != nil {
		return middleware.BadRequest("invalid request body", err)
	}
	return nil
}

func productID(req *http.Request) (int32, error) {
	raw := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, middleware.BadRequest("invalid product id", err)
	}
	return int32(id), nil
}

func productToDTO(p product.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ProductID:   p.ID(),
		ProductName: p.Name(),
		Description: p.Description(),
		Vector:      p.Vector(),
	}
}
