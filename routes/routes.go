// routes/routes.go
package routes

import (
	"net/http"

	"go-storefront/controllers"
	"go-storefront/metrics"
	"go-storefront/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups every handler set mounted on the router.
type Controllers struct {
	Users       *controllers.UserController
	Products    *controllers.ProductController
	Categories  *controllers.CategoryController
	Reviews     *controllers.ReviewController
	Cart        *controllers.CartController
	Promos      *controllers.PromoController
	Shipping    *controllers.ShippingController
	Checkout    *controllers.CheckoutController
	Orders      *controllers.OrderController
	Wishlist    *controllers.WishlistController
	Preferences *controllers.PreferencesController
	Admin       *controllers.AdminController
	Health      *controllers.HealthController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	router.Use(middleware.RequestLogger, metrics.Middleware, middleware.CartSession, middleware.OptionalAuth)

	router.HandleFunc("/health", c.Health.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Account
	router.HandleFunc("/register", c.Users.Register).Methods("POST")
	router.HandleFunc("/login", c.Users.Login).Methods("POST")
	router.HandleFunc("/verify", c.Users.VerifyEmail).Methods("GET")
	router.Handle("/profile", authed(c.Users.GetProfile)).Methods("GET")
	router.Handle("/profile", authed(c.Users.UpdateProfile)).Methods("PUT")

	// Catalog
	router.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	router.HandleFunc("/products/{id}/reviews", c.Reviews.GetProductReviews).Methods("GET")
	router.Handle("/products/{id}/reviews", authed(c.Reviews.CreateReview)).Methods("POST")
	router.HandleFunc("/categories", c.Categories.GetCategories).Methods("GET")
	router.HandleFunc("/categories/{slug}", c.Categories.GetCategory).Methods("GET")

	// Preferences
	router.HandleFunc("/currency", c.Preferences.GetCurrency).Methods("GET")
	router.HandleFunc("/currency", c.Preferences.SetCurrency).Methods("PUT")
	router.HandleFunc("/consent", c.Preferences.SetConsent).Methods("POST")

	// Cart Routes
	router.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	router.HandleFunc("/cart", c.Cart.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/items", c.Cart.AddToCart).Methods("POST")
	router.HandleFunc("/cart/items", c.Cart.UpdateCartItem).Methods("PUT")
	router.HandleFunc("/cart/items", c.Cart.RemoveFromCart).Methods("DELETE")

	// Checkout
	router.HandleFunc("/shipping-options", c.Shipping.GetShippingOptions).Methods("GET")
	router.HandleFunc("/promo/apply", c.Promos.ApplyPromo).Methods("POST")
	router.HandleFunc("/checkout/quote", c.Checkout.Quote).Methods("POST")
	router.HandleFunc("/checkout", c.Checkout.PlaceOrder).Methods("POST")

	// Order Routes
	router.Handle("/orders", authed(c.Orders.GetOrders)).Methods("GET")

	// Wishlist
	router.Handle("/wishlist", authed(c.Wishlist.GetWishlist)).Methods("GET")
	router.Handle("/wishlist", authed(c.Wishlist.AddToWishlist)).Methods("POST")
	router.Handle("/wishlist/{productId}", authed(c.Wishlist.RemoveFromWishlist)).Methods("DELETE")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)

	admin.HandleFunc("/products", c.Products.ListAll).Methods("GET")
	admin.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")

	admin.HandleFunc("/categories", c.Categories.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", c.Categories.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", c.Categories.DeleteCategory).Methods("DELETE")

	admin.HandleFunc("/promo-codes", c.Promos.ListPromoCodes).Methods("GET")
	admin.HandleFunc("/promo-codes", c.Promos.CreatePromoCode).Methods("POST")
	admin.HandleFunc("/promo-codes/{id}", c.Promos.UpdatePromoCode).Methods("PUT")
	admin.HandleFunc("/promo-codes/{id}", c.Promos.DeletePromoCode).Methods("DELETE")

	admin.HandleFunc("/shipping-options", c.Shipping.ListAll).Methods("GET")
	admin.HandleFunc("/shipping-options", c.Shipping.CreateOption).Methods("POST")
	admin.HandleFunc("/shipping-options/{id}", c.Shipping.UpdateOption).Methods("PUT")
	admin.HandleFunc("/shipping-options/{id}", c.Shipping.DeleteOption).Methods("DELETE")

	admin.HandleFunc("/orders", c.Orders.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", c.Orders.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/customers", c.Admin.GetCustomers).Methods("GET")
	admin.HandleFunc("/payments", c.Admin.GetPayments).Methods("GET")
	admin.HandleFunc("/stats", c.Admin.GetStats).Methods("GET")
	admin.HandleFunc("/reviews/{id}/approve", c.Reviews.ApproveReview).Methods("PUT")
	admin.HandleFunc("/reviews/{id}", c.Reviews.DeleteReview).Methods("DELETE")
}

func authed(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(h)
}
