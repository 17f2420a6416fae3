package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-orders/app/controller"
	"storefront-orders/app/router"
	"storefront-orders/config"
	"storefront-orders/db"
	"storefront-orders/repository"
	"storefront-orders/service"
)

func init() {
	// prices go out as JSON numbers, as the PWA client expects
	decimal.MarshalJSONWithoutQuotes = true
}

// App holds the wired HTTP handler and the resources that must be released on shutdown
type App struct {
	Handler   http.Handler
	Primary   *sql.DB
	Secondary *sql.DB
	Receipts  *service.ReceiptService
	logger    *zap.SugaredLogger
}

// Initialize opens and migrates both stores and wires the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	primary, err := db.OpenPrimary(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	secondary, err := db.OpenSecondary(ctx, cfg.SecondaryDBPath, logger)
	if err != nil {
		primary.Close()
		return nil, fmt.Errorf("failed to open secondary order store: %w", err)
	}

	if err := db.Migrate(ctx, primary, db.PrimaryMigrations, logger); err != nil {
		primary.Close()
		secondary.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, secondary, db.SecondaryMigrations, logger); err != nil {
		primary.Close()
		secondary.Close()
		return nil, err
	}

	a, err := Wire(ctx, cfg, primary, secondary, logger)
	if err != nil {
		primary.Close()
		secondary.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds repositories, services and controllers on top of already migrated stores
func Wire(ctx context.Context, cfg *config.Config, primary, secondary *sql.DB, logger *zap.SugaredLogger) (*App, error) {
	// Initialize repositories
	var catalog repository.CatalogRepositoryInterface
	switch cfg.CatalogSource {
	case config.CatalogSourceFile:
		fileCatalog, err := repository.NewFileCatalogRepository(cfg.CatalogFile, logger)
		if err != nil {
			return nil, err
		}
		catalog = fileCatalog
	default:
		catalog = repository.NewCatalogRepository(primary, logger)
	}
	carts := repository.NewCartRepository(primary, logger)
	orders := repository.NewOrderRepository(primary, logger)
	replicas := repository.NewUnifiedOrderRepository(secondary, logger)

	// Receipts are optional; Drive archival only when credentials and a folder are set
	var receipts *service.ReceiptService
	var publisher service.ReceiptPublisher
	if cfg.ReceiptsEnabled {
		var drive service.DriveServiceInterface
		if cfg.DriveCredentialsPath != "" && cfg.ReceiptDriveFolderID != "" {
			driveService, err := service.NewDriveService(ctx, cfg.DriveCredentialsPath)
			if err != nil {
				return nil, err
			}
			drive = driveService
		}
		receipts = service.NewReceiptService(service.ReceiptConfig{
			Dir:           cfg.ReceiptDir,
			DriveFolderID: cfg.ReceiptDriveFolderID,
		}, service.NewChromeRenderer(cfg.ChromePath), drive, logger)
		publisher = receipts
		logger.Infof("🧾 Receipts enabled, writing to %s (drive=%t)", cfg.ReceiptDir, drive != nil)
	}

	// Initialize services
	cartService := service.NewCartService(catalog, carts, logger)
	checkoutService := service.NewCheckoutService(carts, orders, replicas, publisher, service.CheckoutConfig{
		SourceTag:   cfg.OrderSourceTag,
		Shipping:    cfg.ShippingCost,
		MaxAttempts: cfg.ReplicationMaxAttempts,
		BaseDelay:   cfg.ReplicationBaseDelay,
	}, logger)
	orderService := service.NewOrderService(orders, replicas, logger)

	// Create controllers
	controllers := &router.Controllers{
		Health:   controller.NewHealthController(primary, secondary, logger),
		Cart:     controller.NewCartController(cartService, logger),
		Checkout: controller.NewCheckoutController(checkoutService, logger),
		Order:    controller.NewOrderController(orderService, cfg.SyncToken, logger),
	}

	handler := router.New(controllers, router.Options{
		JWTSecret:      cfg.JWTSecret,
		RequestLogging: !cfg.IsProduction(),
	}, logger)

	return &App{
		Handler:   handler,
		Primary:   primary,
		Secondary: secondary,
		Receipts:  receipts,
		logger:    logger,
	}, nil
}

// Close waits for pending receipts and closes both stores
func (a *App) Close() {
	if a.Receipts != nil {
		a.Receipts.Wait()
	}
	if err := a.Primary.Close(); err != nil {
		a.logger.Warnf("⚠️ Close: primary store: %v", err)
	}
	if err := a.Secondary.Close(); err != nil {
		a.logger.Warnf("⚠️ Close: secondary store: %v", err)
	}
}
