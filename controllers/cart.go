package controllers

import (
	"net/http"
	"strings"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles the session cart
type CartController struct {
	Carts   *services.CartService
	Catalog *services.CatalogService
}

func NewCartController(carts *services.CartService, catalog *services.CatalogService) *CartController {
	return &CartController{Carts: carts, Catalog: catalog}
}

type cartLine struct {
	models.CartItem
	Currency       services.Currency `json:"currency"`
	DisplayPrice   float64           `json:"display_price"`
	FormattedPrice string            `json:"formatted_price"`
	FormattedTotal string            `json:"formatted_total"`
}

type cartResponse struct {
	Items          []cartLine        `json:"items"`
	TotalItems     int               `json:"total_items"`
	TotalPrice     float64           `json:"total_price"`
	Currency       services.Currency `json:"currency"`
	DisplayTotal   float64           `json:"display_total"`
	FormattedTotal string            `json:"formatted_total"`
	IsOpen         bool              `json:"is_open"`
}

func renderCart(cart *services.Cart, code services.Currency) cartResponse {
	conv := services.NewConverter(code)
	items := cart.Items()
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, cartLine{
			CartItem:       it,
			Currency:       conv.Code,
			DisplayPrice:   conv.Convert(it.Price),
			FormattedPrice: conv.Format(it.Price),
			FormattedTotal: conv.Format(it.LineTotal()),
		})
	}
	total := cart.TotalPrice()
	return cartResponse{
		Items:          lines,
		TotalItems:     cart.TotalItems(),
		TotalPrice:     total,
		Currency:       conv.Code,
		DisplayTotal:   conv.Convert(total),
		FormattedTotal: conv.Format(total),
		IsOpen:         cart.IsOpen(),
	}
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// GetCart returns the lines of the session cart with prices in the
// preferred currency.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := cc.Carts.Open(r.Context(), middleware.Session(r.Context()))
	code, _ := currencyFromRequest(r)
	writeJSON(w, http.StatusOK, renderCart(cart, code))
}

// AddToCart adds a product variant; a missing quantity means one.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := cc.Catalog.Product(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	size, okSize := offered(product.Sizes, req.Size)
	color, okColor := offered(product.Colors, req.Color)
	if !okSize || !okColor {
		writeError(w, http.StatusBadRequest, "Size or color not available for this product")
		return
	}

	cart := cc.Carts.Open(r.Context(), middleware.Session(r.Context()))
	if err := cart.AddItem(r.Context(), *product, size, color, req.Quantity); err != nil {
		writeServiceError(w, r, err)
		return
	}
	code, _ := currencyFromRequest(r)
	writeJSON(w, http.StatusOK, renderCart(cart, code))
}

// UpdateCartItem overwrites the quantity of a line; zero removes it.
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	cart := cc.Carts.Open(r.Context(), middleware.Session(r.Context()))
	size, color := lineOptions(cart, productID, req.Size, req.Color)
	if err := cart.UpdateQuantity(r.Context(), productID, size, color, req.Quantity); err != nil {
		writeServiceError(w, r, err)
		return
	}
	code, _ := currencyFromRequest(r)
	writeJSON(w, http.StatusOK, renderCart(cart, code))
}

// RemoveFromCart deletes the line given by the product_id, size and color
// query parameters.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, err := primitive.ObjectIDFromHex(q.Get("product_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	cart := cc.Carts.Open(r.Context(), middleware.Session(r.Context()))
	size, color := lineOptions(cart, productID, q.Get("size"), q.Get("color"))
	if err := cart.RemoveItem(r.Context(), productID, size, color); err != nil {
		writeServiceError(w, r, err)
		return
	}
	code, _ := currencyFromRequest(r)
	writeJSON(w, http.StatusOK, renderCart(cart, code))
}

func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart := cc.Carts.Open(r.Context(), middleware.Session(r.Context()))
	if err := cart.Clear(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	code, _ := currencyFromRequest(r)
	writeJSON(w, http.StatusOK, renderCart(cart, code))
}

// lineOptions returns the stored spelling of size and color for the cart
// line of productID that matches them ignoring case, so update and remove
// accept whatever AddToCart accepted.
func lineOptions(cart *services.Cart, productID primitive.ObjectID, size, color string) (string, string) {
	size, color = strings.TrimSpace(size), strings.TrimSpace(color)
	for _, it := range cart.Items() {
		if it.ProductID == productID && strings.EqualFold(it.Size, size) && strings.EqualFold(it.Color, color) {
			return it.Size, it.Color
		}
	}
	return size, color
}

// offered returns the product's spelling of option v. Products without
// options accept an empty value only.
func offered(options []string, v string) (string, bool) {
	if len(options) == 0 {
		return "", strings.TrimSpace(v) == ""
	}
	for _, o := range options {
		if strings.EqualFold(o, strings.TrimSpace(v)) {
			return o, true
		}
	}
	return "", false
}
