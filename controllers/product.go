package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"go-storefront/models"
	"go-storefront/services"
)

// ProductController handles product-related requests
type ProductController struct {
	Catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

func parseFilter(q url.Values) (services.ProductFilter, error) {
	f := services.ProductFilter{
		Size:     q.Get("size"),
		Color:    q.Get("color"),
		Search:   q.Get("q"),
		Featured: q.Get("featured") == "true",
		New:      q.Get("new") == "true",
		OnSale:   q.Get("on_sale") == "true",
		Sort:     q.Get("sort"),
	}
	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return f, services.ValidationErrors{key: "must be a number"}
			}
			*dst = &v
		}
	}
	return f, nil
}

// GetProducts lists active products. Query parameters: category, size,
// color, min_price, max_price, q, featured, new, on_sale, sort.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	products, err := pc.Catalog.Products(r.Context(), r.URL.Query().Get("category"), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := pc.Catalog.Product(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListAll returns the whole catalog for the back office.
func (pc *ProductController) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := pc.Catalog.AllProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decodeJSON(w, r, &product) {
		return
	}
	if err := pc.Catalog.CreateProduct(r.Context(), &product); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var product models.Product
	if !decodeJSON(w, r, &product) {
		return
	}
	product.ID = id
	if err := pc.Catalog.UpdateProduct(r.Context(), &product); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := pc.Catalog.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
