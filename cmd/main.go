package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmadhn26/DelingKopi/internal/config"
	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/messaging"
	"github.com/ahmadhn26/DelingKopi/internal/services/cart"
	"github.com/ahmadhn26/DelingKopi/internal/services/catalog"
	"github.com/ahmadhn26/DelingKopi/internal/services/checkout"
	"github.com/ahmadhn26/DelingKopi/internal/services/orders"
	"github.com/ahmadhn26/DelingKopi/internal/web"
)

func main() {
	// Parse command line flags
	var (
		mode          = flag.String("mode", "storefront", "Service mode (storefront)")
		port          = flag.Int("port", 0, "HTTP port (overrides config)")
		maxConcurrent = flag.Int("max-concurrent", 10, "Maximum concurrent stock checks per reconciliation")
		configPath    = flag.String("config", "config.yaml", "Path to config file")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	httpPort := cfg.Server.Port
	if *port != 0 {
		httpPort = *port
	}

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":           *mode,
		"port":           httpPort,
		"max_concurrent": *maxConcurrent,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "storefront":
		if err := runStorefront(ctx, cfg, log, httpPort, *maxConcurrent); err != nil {
			log.Error("service_failed", "Storefront service failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runStorefront runs the storefront service: catalog, cart, checkout and
// order endpoints on one HTTP server.
func runStorefront(ctx context.Context, cfg *config.Config, log *logger.Logger, port, maxConcurrent int) error {
	requestID := logger.GenerateRequestID()

	// Initialize database
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	// Run database migrations
	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize messaging
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	// Initialize services and handlers
	ledger := catalog.NewService(db, log)
	catalogHandler := catalog.NewHandler(ledger, log)

	cartStore := cart.NewStore(db, ledger, log)
	cartHandler := cart.NewHandler(cartStore, log)
	reconciler := cart.NewReconciler(cartStore, ledger, maxConcurrent, log)

	checkoutRepo := checkout.NewRepository(db, ledger)
	proofs := checkout.NewProofStore(cfg.Uploads.Dir, cfg.Uploads.MaxUploadMB)
	checkoutService := checkout.NewService(checkoutRepo, cartStore, proofs, publisher, log)
	checkoutHandler := checkout.NewHandler(checkoutService, reconciler, cfg.Uploads.MaxUploadMB, log)

	orderService := orders.NewService(db, publisher, log)
	orderHandler := orders.NewHandler(orderService, log)

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/catalog", web.WithLogging(log, catalogHandler.ListCatalog))
	mux.HandleFunc("/stock", web.WithLogging(log, catalogHandler.GetStock))
	mux.HandleFunc("/cart", web.WithLogging(log, cartHandler.ServeCart))
	mux.HandleFunc("/checkout", web.WithLogging(log, checkoutHandler.PlaceOrder))
	mux.HandleFunc("/orders", web.WithLogging(log, orderHandler.ListOrders))
	mux.HandleFunc("/orders/", web.WithLogging(log, orderHandler.GetOrderDetail))
	mux.HandleFunc("/admin/catalog", web.WithLogging(log, catalogHandler.UpsertItem))
	mux.HandleFunc("/admin/orders", web.WithLogging(log, orderHandler.ListAllOrders))
	mux.HandleFunc("/admin/orders/", web.WithLogging(log, orderHandler.ServeAdminOrder))
	mux.HandleFunc("/health", web.WithLogging(log, func(w http.ResponseWriter, r *http.Request) {
		healthy := ledger.HealthCheck(r.Context())

		response := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "storefront",
			"healthy":   healthy,
		}
		statusCode := http.StatusOK
		if !healthy {
			statusCode = http.StatusServiceUnavailable
			response["status"] = "unhealthy"
		}
		web.WriteJSON(w, statusCode, response)
	}))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("service_started", fmt.Sprintf("Storefront service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}
