package controllers

import (
	"net/http"

	"go-storefront/models"
	"go-storefront/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryController struct {
	Catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{Catalog: catalog}
}

func (cc *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := cc.Catalog.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// GetCategory returns a category with its active products.
func (cc *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	cat, err := cc.Catalog.Category(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	products, err := cc.Catalog.Products(r.Context(), slug, f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": cat, "products": products})
}

func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = primitive.NilObjectID
	if err := cc.Catalog.SaveCategory(r.Context(), &c); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var c models.Category
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = id
	if err := cc.Catalog.SaveCategory(r.Context(), &c); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := cc.Catalog.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
