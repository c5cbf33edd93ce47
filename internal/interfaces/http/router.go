package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/application/auth"
	"github.com/jcamachor/distribuidora-api/internal/application/orders"
	"github.com/jcamachor/distribuidora-api/internal/application/reports"
	"github.com/jcamachor/distribuidora-api/internal/application/usecase"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	SupplierUC     *usecase.SupplierUseCase
	CustomerUC     *usecase.CustomerUseCase
	ContainerUC    *usecase.ContainerUseCase
	StockUC        *usecase.StockUseCase
	OrderUC        *orders.OrderUseCase
	OrderPDFUC     *orders.OrderPDFUseCase
	ReportsUC      *reports.ReportsUseCase
	NotificationUC *usecase.NotificationUseCase
	SettingsUC     *usecase.SettingsUseCase
	UserUC         *usecase.UserUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseOps := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	salesOps := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Products (lectura para todos, escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Warehouses (lectura para todos, escritura solo admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	// Suppliers (solo admin)
	suppliers := protected.Group("/suppliers", adminOnly)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Containers (admin y bodeguero)
	containers := protected.Group("/containers", warehouseOps)
	containerHandler := NewContainerHandler(deps.ContainerUC)
	containers.Post("/", containerHandler.Create)
	containers.Get("/", containerHandler.List)
	containers.Get("/:id", containerHandler.GetByID)
	containers.Put("/:id/status", containerHandler.UpdateStatus)
	containers.Post("/:id/receive", containerHandler.Receive)

	// Stock (lecturas para todos; ajustes y traslados admin y bodeguero)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/adjust", warehouseOps, stockHandler.Adjust)
	stock.Post("/transfer", warehouseOps, stockHandler.Transfer)
	stock.Get("/entry", stockHandler.GetEntry)
	stock.Get("/warehouse/:id", stockHandler.ListByWarehouse)
	stock.Get("/warehouse/:id/movements", stockHandler.MovementsByWarehouse)
	stock.Get("/product/:id", stockHandler.ListByProduct)
	stock.Get("/product/:id/movements", stockHandler.MovementsByProduct)
	stock.Get("/reference/:id/movements", stockHandler.MovementsByReference)

	// Customers (admin y vendedor)
	customers := protected.Group("/customers", salesOps)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Orders (crear admin y vendedor; cambiar estado también bodeguero)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderPDFUC)
	ordersGroup.Post("/", salesOps, orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/pdf", orderHandler.PDF)
	ordersGroup.Put("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleVendedor, entity.RoleBodeguero), orderHandler.ChangeStatus)

	// Reports (solo admin)
	reportsGroup := protected.Group("/reports", adminOnly)
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/stock/warehouse/:id", reportHandler.StockByWarehouse)
	reportsGroup.Get("/stock/product/:id", reportHandler.StockByProduct)
	reportsGroup.Get("/valuation", reportHandler.Valuation)
	reportsGroup.Get("/sales", reportHandler.SalesTotals)
	reportsGroup.Get("/top-products", reportHandler.TopProducts)
	reportsGroup.Get("/low-stock", reportHandler.LowStock)

	// Notifications (todos los roles autenticados)
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	// Settings (solo admin)
	settings := protected.Group("/settings", adminOnly)
	settingHandler := NewSettingHandler(deps.SettingsUC)
	settings.Get("/", settingHandler.List)
	settings.Get("/:key", settingHandler.Get)
	settings.Put("/:key", settingHandler.Set)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Put("/:id/status", userHandler.UpdateStatus)
}
