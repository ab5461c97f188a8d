package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/luckyskyman/warehouse-inventory-system/cmd"
	"github.com/luckyskyman/warehouse-inventory-system/internal/bom"
	"github.com/luckyskyman/warehouse-inventory-system/internal/cache"
	"github.com/luckyskyman/warehouse-inventory-system/internal/database"
	"github.com/luckyskyman/warehouse-inventory-system/internal/exchange"
	"github.com/luckyskyman/warehouse-inventory-system/internal/importer"
	"github.com/luckyskyman/warehouse-inventory-system/internal/items"
	"github.com/luckyskyman/warehouse-inventory-system/internal/keylock"
	"github.com/luckyskyman/warehouse-inventory-system/internal/ledger"
	"github.com/luckyskyman/warehouse-inventory-system/internal/locations"
	"github.com/luckyskyman/warehouse-inventory-system/internal/logger"
	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	"github.com/luckyskyman/warehouse-inventory-system/internal/transactions"
	"github.com/luckyskyman/warehouse-inventory-system/internal/users"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/auditlog"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/security"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func lockWait() time.Duration {
	if raw := os.Getenv("LOCK_WAIT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
		log.Printf("Warning: invalid LOCK_WAIT %q, using default", raw)
	}
	return keylock.DefaultWait
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	zapLog := logger.NewLogger()
	defer zapLog.Sync()

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo, zapLog)

	var cacheClient cache.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cacheClient, err = cache.NewRedisClient(addr)
		if err != nil {
			log.Printf("Warning: redis unavailable at %s, continuing without cache: %v", addr, err)
			cacheClient = cache.Noop{}
		}
	} else {
		cacheClient = cache.Noop{}
	}

	itemRepo := items.NewRepository(repo)
	ledgerRepo := ledger.NewRepository(repo)
	layoutRepo := locations.NewLayoutRepository(repo)
	exchangeRepo := exchange.NewRepository(repo)
	bomRepo := bom.NewRepository(repo)
	userRepo := users.NewRepository(repo)

	resolver := locations.NewResolver(layoutRepo)
	locks := keylock.NewManager(lockWait())

	txService := transactions.NewService(repo, itemRepo, ledgerRepo, exchangeRepo, resolver, locks, zapLog)
	itemService := items.NewService(repo, itemRepo, ledgerRepo, layoutRepo, cacheClient, zapLog)
	exchangeService := exchange.NewService(exchangeRepo, txService, itemRepo, zapLog)
	bomService := bom.NewService(bomRepo, itemRepo)
	importService := importer.NewService(repo, txService, itemRepo, ledgerRepo, zapLog)

	router := gin.Default()
	security.RegisterRoutes(router, repo)
	items.RegisterRoutes(router, itemRepo, itemService, auditLog)
	transactions.RegisterRoutes(router, txService, ledgerRepo)
	locations.RegisterRoutes(router, layoutRepo, auditLog)
	exchange.RegisterRoutes(router, exchangeService)
	bom.RegisterRoutes(router, bomService, bomRepo)
	importer.RegisterRoutes(router, importService, itemRepo, ledgerRepo)
	users.RegisterRoutes(router, userRepo)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
