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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "github.com/jhoicas/inventory-ledger/docs"
	"github.com/jhoicas/inventory-ledger/internal/application/auth"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/audit"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
	"github.com/jhoicas/inventory-ledger/pkg/tracing"
)

// @title                       Inventory Ledger API
// @version                     1.0
// @description                 Libro de inventario por producto y sucursal: saldos, reservas, traslados y movimientos.
// @BasePath                    /
// @securityDefinitions.apikey  ActorID
// @in                          header
// @name                        X-Actor-ID
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Inventory.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	tp, shutdownTracing, err := tracing.Setup(ctx, cfg.App.Name, cfg.App.Env, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("cierre de trazas")
		}
	}()

	deps := inventory.EngineDeps{Log: log.Component("engine"), Tracer: tp}
	var reconcileUC *inventory.ReconcileUseCase

	switch cfg.Inventory.Store {
	case config.StoreMemory:
		store := memory.NewStore(cfg.Inventory.LockTimeout)
		if cfg.App.Env == "development" {
			seedDemoCatalog(store)
		}
		deps.TxRunner = store.TxRunner()
		deps.Items = store.Items()
		deps.Movements = store.Movements()
		deps.Products = store.Products()
		deps.Branches = store.Branches()
		deps.Audit = auditSink(cfg, log.Component("audit"), store.AuditEvents())
		reconcileUC = inventory.NewReconcileUseCase(store.Items(), store.Movements(), log.Component("reconcile"))
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Inventory.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
		}
		items := postgres.NewInventoryItemRepository(pool)
		movements := postgres.NewStockMovementRepository(pool)
		deps.TxRunner = postgres.NewTxRunner(pool, cfg.Inventory.LockTimeout)
		deps.Items = items
		deps.Movements = movements
		deps.Products = postgres.NewProductRepository(pool)
		deps.Branches = postgres.NewBranchRepository(pool)
		deps.Audit = auditSink(cfg, log.Component("audit"), postgres.NewAuditEventRepository(pool))
		reconcileUC = inventory.NewReconcileUseCase(items, movements, log.Component("reconcile"))
	}

	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// Sin caché se lee directo del almacén
			log.Warn().Err(err).Msg("redis no disponible, caché deshabilitada")
		} else {
			defer client.Close()
			deps.Cache = cache.NewSnapshotCache(client, cfg.Redis.TTL)
		}
	}

	engine := inventory.NewEngine(deps)
	gate := auth.NewRoleGate(cfg.RBAC.Roles)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.DocsFile != "" {
		if _, err := os.Stat(cfg.HTTP.DocsFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.HTTP.DocsFile).Msg("documentación no disponible")
		} else {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.DocsFile,
				Path:     "docs",
				Title:    "Inventory Ledger API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		Reconcile: reconcileUC,
		Gate:      gate,
		Log:       log.Component("http"),
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

// auditSink elige el destino de auditoría según AUDIT_SINK.
func auditSink(cfg *config.Config, log *logger.Logger, repo repository.AuditEventRepository) inventory.AuditSink {
	if cfg.Audit.Sink == config.AuditSinkStore {
		return audit.NewRepositorySink(repo)
	}
	return audit.NewLogSink(log)
}

// seedDemoCatalog catálogo mínimo para probar la API sin base de datos.
func seedDemoCatalog(store *memory.Store) {
	store.PutProduct(entity.Product{ID: "demo-product", SKU: "DEMO-001", Name: "Producto demo", Active: true})
	store.PutBranch(entity.Branch{ID: "demo-branch-a", Name: "Sucursal A", Active: true})
	store.PutBranch(entity.Branch{ID: "demo-branch-b", Name: "Sucursal B", Active: true})
}
