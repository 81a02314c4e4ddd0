package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trade-connect/internal/types"
)

func TestListProducts_ByRole(t *testing.T) {
	env := newTestEnv(t, nil)

	supplier := env.login(t, supplierEmail)
	w := env.do(t, http.MethodGet, "/api/products", nil, supplier)
	require.Equal(t, http.StatusOK, w.Code)

	var list types.ListResponse[types.Product]
	decode(t, w, &list)
	assert.Equal(t, 3, list.Total)

	w = env.do(t, http.MethodGet, "/api/products?category=food", nil, supplier)
	decode(t, w, &list)
	assert.Equal(t, 2, list.Total)
	for _, p := range list.Items {
		assert.Equal(t, "food", p.Category)
		assert.NotEmpty(t, p.PriceFormatted)
	}

	w = env.do(t, http.MethodGet, "/api/products?category=all", nil, supplier)
	decode(t, w, &list)
	assert.Equal(t, 3, list.Total)

	// Buyers browse the whole catalog.
	buyer := env.login(t, buyerEmail)
	w = env.do(t, http.MethodGet, "/api/products", nil, buyer)
	decode(t, w, &list)
	assert.Equal(t, 3, list.Total)
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, supplierEmail)

	w := env.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":        "Sumatra Robusta",
		"category":    "food",
		"price":       95000,
		"quantity":    "120",
		"description": "Natural process robusta from Lampung.",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.Product
	decode(t, w, &created)
	assert.Equal(t, "Sumatra Robusta", created.Name)
	assert.InDelta(t, 95000, created.Price, 0.001)
	assert.InDelta(t, 120, created.Quantity, 0.001)
	assert.Contains(t, created.PriceFormatted, "95.000")

	path := "/api/products/" + created.ID.String()

	w = env.do(t, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// Fields missing from the body keep their stored values.
	w = env.do(t, http.MethodPut, path, map[string]any{"price": 99000}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated types.Product
	decode(t, w, &updated)
	assert.InDelta(t, 99000, updated.Price, 0.001)
	assert.Equal(t, "Sumatra Robusta", updated.Name)
	assert.Equal(t, created.Description, updated.Description)

	w = env.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct_FormErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, supplierEmail)

	w := env.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":     "Mystery box",
		"category": "toys",
		"price":    -5,
		"quantity": "",
	}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp types.FormErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, map[string]string{
		"category":    "Category is invalid",
		"price":       "Price must be a positive number",
		"quantity":    "Quantity is required",
		"description": "Description is required",
	}, resp.Errors)
}

func TestCreateProduct_NonFiniteNumbers(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.login(t, supplierEmail)

	for _, raw := range []string{"Inf", "+Inf", "NaN"} {
		t.Run(raw, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/products", map[string]any{
				"name":        "Arabica Gayo",
				"category":    "food",
				"price":       raw,
				"quantity":    raw,
				"description": "Single origin",
			}, token)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

			var resp types.FormErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, "Price must be a positive number", resp.Errors["price"])
			assert.Equal(t, "Quantity must be a non-negative number", resp.Errors["quantity"])
		})
	}

	w := env.do(t, http.MethodGet, "/api/products", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var list types.ListResponse[types.Product]
	decode(t, w, &list)
	assert.Equal(t, 3, list.Total)
}

func TestProducts_Authorization(t *testing.T) {
	env := newTestEnv(t, nil)
	buyer := env.login(t, buyerEmail)
	supplier := env.login(t, supplierEmail)

	body := map[string]any{
		"name": "Rattan Basket", "category": "furniture", "price": 45000,
		"quantity": 10, "description": "Handwoven in Cirebon.",
	}
	w := env.do(t, http.MethodPost, "/api/products", body, buyer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/products", body, supplier)
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.Product
	decode(t, w, &created)

	// Another supplier cannot see the product as editable.
	reg := validRegistration()
	reg["accountType"] = "supplier"
	w = env.do(t, http.MethodPost, "/api/auth/register", reg, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var other types.AuthResponse
	decode(t, w, &other)

	w = env.do(t, http.MethodPut, "/api/products/"+created.ID.String(), map[string]any{"price": 1}, other.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodDelete, "/api/products/"+created.ID.String(), nil, other.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/products/not-a-uuid", nil, supplier)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
