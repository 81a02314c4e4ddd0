package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/form"
	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/textutil"
	"github.com/jonathan/trade-connect/internal/types"
	"github.com/jonathan/trade-connect/internal/validation"
)

const productExcerptLength = 100

// handleListProducts lists the caller's catalog. Suppliers see their own
// products, buyers see every supplier's.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.GetPrincipal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filters := db.ProductFilters{Category: strings.TrimSpace(r.URL.Query().Get("category"))}
	if filters.Category == "all" {
		filters.Category = ""
	}
	if db.Role(p.GetRole()) == db.RoleSupplier {
		filters.OwnerID = p.GetUserID()
	}

	products, err := s.store.ListProducts(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list products: %w", err))
		return
	}

	views := make([]types.Product, 0, len(products))
	for i := range products {
		views = append(views, productView(&products[i]))
	}
	s.jsonResponse(w, http.StatusOK, types.NewList(views))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to get product: %w", err))
		return
	}
	if product == nil {
		s.writeError(w, r, fmt.Errorf("product %s: %w", id, db.ErrNotFound))
		return
	}
	s.jsonResponse(w, http.StatusOK, productView(product))
}

// handleCreateProduct runs the product form and stores the new product.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.supplier(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body map[string]any
	if err := s.decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	product := &db.Product{OwnerID: p.GetUserID()}
	if err := s.submitProduct(r.Context(), validation.ProductInitial(), body, product, s.store.CreateProduct); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, productView(product))
}

// handleUpdateProduct runs the product form over the stored values, so
// fields missing from the body keep their current value.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.ownedProduct(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body map[string]any
	if err := s.decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.submitProduct(r.Context(), productValues(product), body, product, s.store.UpdateProduct); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, productView(product))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.ownedProduct(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteProduct(r.Context(), product.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submitProduct binds body into a product form seeded with initial and, when
// it validates, copies the values into product and saves it.
func (s *Server) submitProduct(ctx context.Context, initial form.Values, body map[string]any, product *db.Product, save func(context.Context, *db.Product) error) error {
	state := form.New(initial, validation.Product)
	if err := state.Bind(body); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}

	return state.Submit(ctx, func(ctx context.Context, v form.Values, _ form.Handle) error {
		price, err := v["price"].Float()
		if err != nil {
			return &ErrValidation{Field: "price", Message: err.Error()}
		}
		quantity, err := v["quantity"].Float()
		if err != nil {
			return &ErrValidation{Field: "quantity", Message: err.Error()}
		}

		product.Name = strings.TrimSpace(v.String("name"))
		product.Category = v.String("category")
		product.Price = price
		product.Quantity = quantity
		product.Description = strings.TrimSpace(v.String("description"))
		return save(ctx, product)
	})
}

// ownedProduct loads the product named in the path. Products of other
// owners are reported as missing.
func (s *Server) ownedProduct(r *http.Request) (*db.Product, error) {
	p, err := s.supplier(r)
	if err != nil {
		return nil, err
	}
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil || product.OwnerID != p.GetUserID() {
		return nil, fmt.Errorf("product %s: %w", id, db.ErrNotFound)
	}
	return product, nil
}

// supplier returns the caller when it is a supplier account.
func (s *Server) supplier(r *http.Request) (middleware.Principal, error) {
	p, err := middleware.GetPrincipal(r)
	if err != nil {
		return nil, err
	}
	if db.Role(p.GetRole()) != db.RoleSupplier {
		return nil, &ErrForbidden{Action: "manage products"}
	}
	return p, nil
}

func productValues(p *db.Product) form.Values {
	values := validation.ProductInitial()
	values["name"] = form.Text(p.Name)
	values["category"] = form.Text(p.Category)
	values["price"] = form.Number(strconv.FormatFloat(p.Price, 'f', -1, 64))
	values["quantity"] = form.Number(strconv.FormatFloat(p.Quantity, 'f', -1, 64))
	values["description"] = form.Text(p.Description)
	return values
}

func productView(p *db.Product) types.Product {
	return types.Product{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Price:          p.Price,
		PriceFormatted: textutil.FormatCurrencyIDR(p.Price),
		Quantity:       p.Quantity,
		Description:    p.Description,
		Excerpt:        textutil.Truncate(p.Description, productExcerptLength),
		UpdatedAt:      p.UpdatedAt,
	}
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}
