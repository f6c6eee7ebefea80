package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/auth"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/cache"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/address"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/cart"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/discount"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/order"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/user"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/wishlist"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/handler"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/storage/postgres"
	"github.com/KhanhPN03/Hanfoods-sub000/pkg/health"
	"github.com/KhanhPN03/Hanfoods-sub000/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Optional Redis cart cache.
	var cartCache cart.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return errors.Wrap(err, "parse redis URL")
		}
		client := redis.NewClient(opts)
		defer client.Close()

		cartCache = cache.NewCartCache(client)
		healthSvc.AddReadinessCheck("redis", 5*time.Second, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	billingRepo := postgres.NewBillingRepository(pool)
	wishlistRepo := postgres.NewWishlistRepository(pool)

	// Domain services.
	tokens := auth.NewService(cfg.JWTSecret, cfg.JWTTTL, "hanfoods")
	userSvc := user.NewService(userRepo)
	cartSvc := cart.NewService(cartRepo, productRepo, cartCache)
	wishlistSvc := wishlist.NewService(wishlistRepo, productRepo)
	evaluator := discount.NewEvaluator(discountRepo)
	addressSvc := address.NewService(addressRepo)
	billingSvc := billing.NewService(billingRepo, billing.QRConfig{
		BankCode:      cfg.QR.BankCode,
		AccountNumber: cfg.QR.AccountNumber,
		AccountName:   cfg.QR.AccountName,
	})
	orderSvc := order.NewService(
		productRepo, evaluator, addressSvc, billingSvc,
		orderRepo, orderRepo, decimal.NewFromInt(int64(cfg.ShippingFee)),
	)

	// HTTP handlers.
	h := handler.NewHandler(
		userSvc, tokens, productRepo, cartSvc, wishlistSvc,
		discountRepo, evaluator, addressSvc, orderSvc, billingSvc,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Router()))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("hanfoods-api",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
