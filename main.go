// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/events"
	"go-storefront/repository"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	path := os.Getenv("STOREFRONT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	utils.InitLogger(cfg.App.LogLevel, cfg.App.LogFile)

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.Security.JWTSecret)
	utils.TokenTTL = cfg.Security.TTL

	mailer, err := utils.NewMailer(cfg.Email.Provider, cfg.Email.APIKey)
	if err != nil {
		log.WithError(err).Fatal("mailer")
	}
	emailService := utils.NewEmailService(mailer, cfg.Email.Sender, cfg.Email.Admin, cfg.Email.BaseURL)

	// Connect to MongoDB
	client, err := utils.ConnectDB(cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("mongo")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("mongo disconnect")
		}
	}()
	db := client.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(context.Background(), db); err != nil {
		log.WithError(err).Fatal("mongo indexes")
	}

	checks := map[string]controllers.Check{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	var (
		cartStorage services.CartStorage
		idem        services.IdempotencyStore
	)
	rdb, err := utils.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password)
	switch {
	case err != nil:
		log.WithError(err).Fatal("redis")
	case rdb == nil:
		log.Warn("redis.addr not set, carts are kept in memory")
		mem := repository.NewMemoryStore(cfg.Redis.CartTTL)
		cartStorage, idem = mem, mem
	default:
		defer rdb.Close()
		cartStorage = repository.NewRedisCartStorage(rdb, cfg.Redis.CartTTL)
		idem = repository.NewRedisIdempotencyStore(rdb, cfg.Checkout.IdempotencyTTL)
		checks["redis"] = func(ctx context.Context) error { return pingRedis(ctx, rdb) }
	}

	products := repository.NewProductRepository(db)
	categories := repository.NewCategoryRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	shippingRepo := repository.NewShippingRepository(db)
	orders := repository.NewOrderRepository(db)
	payments := repository.NewPaymentRepository(db)
	users := repository.NewUserRepository(db)
	wishlists := repository.NewWishlistRepository(db)
	reviews := repository.NewReviewRepository(db)

	var publisher services.EventPublisher = events.LogPublisher{}
	var consumer *events.Consumer
	if cfg.Rabbit.URL != "" {
		rp, err := events.NewRabbitPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			log.WithError(err).Fatal("rabbitmq")
		}
		defer rp.Close()
		publisher = rp

		consumer, err = events.NewConsumer(rp, "storefront.admin-alerts", services.EventOrderPlaced, events.AdminAlertHandler(emailService))
		if err != nil {
			log.WithError(err).Fatal("rabbitmq consumer")
		}
		if err := consumer.Start(); err != nil {
			log.WithError(err).Fatal("rabbitmq consume")
		}
		defer consumer.Close()
	}

	carts := services.NewCartService(cartStorage)
	catalog := services.NewCatalogService(products, categories)
	promos := services.NewPromoService(promoRepo)
	shipping := services.NewShippingService(shippingRepo)
	checkout := services.NewCheckoutService(carts, promos, shipping, orders, payments,
		emailService, publisher, idem, cfg.Checkout.PaymentDelay)
	if consumer != nil {
		checkout.DeferAdminAlerts()
	}
	orderSvc := services.NewOrderService(orders, emailService, publisher)
	userSvc := services.NewUserService(users, emailService)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:       controllers.NewUserController(userSvc),
		Products:    controllers.NewProductController(catalog),
		Categories:  controllers.NewCategoryController(catalog),
		Reviews:     controllers.NewReviewController(services.NewReviewService(reviews, products), userSvc),
		Cart:        controllers.NewCartController(carts, catalog),
		Promos:      controllers.NewPromoController(promos, carts),
		Shipping:    controllers.NewShippingController(shipping, carts),
		Checkout:    controllers.NewCheckoutController(checkout),
		Orders:      controllers.NewOrderController(orderSvc),
		Wishlist:    controllers.NewWishlistController(services.NewWishlistService(wishlists, products)),
		Preferences: controllers.NewPreferencesController(services.NewGeoLocator(cfg.Geo.URL, cfg.Geo.Timeout)),
		Admin:       controllers.NewAdminController(services.NewStatsService(orders, users, products), payments),
		Health:      controllers.NewHealthController(checks),
	})

	srv := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
}

func pingRedis(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
