package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jcamachor/distribuidora-api/internal/application/auth"
	"github.com/jcamachor/distribuidora-api/internal/application/ledger"
	"github.com/jcamachor/distribuidora-api/internal/application/orders"
	"github.com/jcamachor/distribuidora-api/internal/application/reports"
	"github.com/jcamachor/distribuidora-api/internal/application/usecase"
	infrapdf "github.com/jcamachor/distribuidora-api/internal/infrastructure/pdf"
	"github.com/jcamachor/distribuidora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcamachor/distribuidora-api/internal/interfaces/http"
	"github.com/jcamachor/distribuidora-api/pkg/config"
	"github.com/jcamachor/distribuidora-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	containerRepo := postgres.NewContainerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	txRunner := postgres.NewTxRunner(pool)
	ldg := ledger.New(txRunner)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, supplierRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, stockRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo, orderRepo)
	containerUC := usecase.NewContainerUseCase(
		txRunner, ldg, containerRepo, supplierRepo, productRepo, warehouseRepo, notifRepo,
	)
	stockUC := usecase.NewStockUseCase(ldg, stockRepo, movementRepo)
	orderUC := orders.NewOrderUseCase(
		txRunner, ldg, orderRepo, customerRepo, productRepo, notifRepo,
	)
	pdfGenerator := infrapdf.NewMarotoOrderPDFGenerator(cfg.App.Name)
	orderPDFUC := orders.NewOrderPDFUseCase(
		orderRepo, customerRepo, productRepo, warehouseRepo, pdfGenerator,
	)
	reportsUC := reports.NewReportsUseCase(reportRepo, settingRepo)
	notificationUC := usecase.NewNotificationUseCase(notifRepo)
	settingsUC := usecase.NewSettingsUseCase(settingRepo)
	userUC := usecase.NewUserUseCase(userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Distribuidora API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		WarehouseUC:    warehouseUC,
		SupplierUC:     supplierUC,
		CustomerUC:     customerUC,
		ContainerUC:    containerUC,
		StockUC:        stockUC,
		OrderUC:        orderUC,
		OrderPDFUC:     orderPDFUC,
		ReportsUC:      reportsUC,
		NotificationUC: notificationUC,
		SettingsUC:     settingsUC,
		UserUC:         userUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
