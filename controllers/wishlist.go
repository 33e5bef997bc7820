package controllers

import (
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishlistController struct {
	Wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{Wishlist: wishlist}
}

func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entries, err := wc.Wishlist.List(r.Context(), *userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var body struct {
		ProductID string `json:"product_id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if err := wc.Wishlist.Add(r.Context(), *userID, productID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	if err := wc.Wishlist.Remove(r.Context(), *userID, productID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
