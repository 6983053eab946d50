// api/routes/router.go
package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"seatmap/internal/audit"
	"seatmap/internal/carts"
	"seatmap/internal/events"
	"seatmap/internal/mappings"
	"seatmap/internal/orders"
	"seatmap/internal/plans"
	"seatmap/internal/products"
	"seatmap/internal/seats"
	"seatmap/internal/shared/clock"
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/database"
	"seatmap/internal/vouchers"
	"seatmap/pkg/cache"
	"seatmap/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	log    *logger.Logger
	audit  audit.Publisher
	clock  clock.Clock

	// Services that outlive a single request.
	cartService carts.Service
	seatService seats.Service
	sweeper     *carts.Sweeper
}

// eventSourceFunc late-binds the events service into the seats service to
// break their construction cycle.
type eventSourceFunc func() events.Service

func (f eventSourceFunc) GetEvent(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	return f().GetEvent(ctx, id)
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, auditPublisher audit.Publisher, log *logger.Logger) *Router {
	return &Router{
		config: cfg,
		db:     db,
		log:    log,
		audit:  auditPublisher,
		clock:  clock.NewSystem(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)

	pg := r.db.GetPostgreSQL()
	cacheService := cache.NewService(r.db.GetRedisClient())

	// Repositories
	planRepo := plans.NewRepository(pg)
	eventRepo := events.NewRepository(pg)
	productRepo := products.NewRepository(pg)
	mappingRepo := mappings.NewRepository(pg)
	seatRepo := seats.NewRepository(pg)
	cartRepo := carts.NewRepository(pg)
	orderRepo := orders.NewRepository(pg)
	voucherRepo := vouchers.NewRepository(pg)

	// Services
	planService := plans.NewService(planRepo, cacheService, r.config.Redis.LayoutCacheTTL, r.log)
	productService := products.NewService(productRepo, r.clock)
	mappingService := mappings.NewService(mappingRepo, cacheService, r.config.Redis.MappingCacheTTL, r.log)
	r.cartService = carts.NewService(cartRepo, r.clock, r.config.Cart.HoldTTL, r.log)

	oracle := seats.NewHoldOracle(orderRepo, cartRepo, voucherRepo, r.clock)

	// The seat and event services depend on each other; the event service
	// side is wired through the SeatWriter interface.
	var eventService events.Service
	r.seatService = seats.NewService(
		seatRepo,
		eventSourceFunc(func() events.Service { return eventService }),
		planService,
		mappingService,
		productService,
		r.cartService,
		oracle,
		r.audit,
		seats.DefaultProjectorConfig(),
		r.config.CheckoutStartPath,
		r.log,
	)
	eventService = events.NewService(
		eventRepo,
		planService,
		r.seatService,
		func(tx *gorm.DB) events.SeatWriter { return r.seatService.WithTx(tx) },
		func(tx *gorm.DB) events.MappingWriter { return mappingService.WithTx(tx) },
		orderRepo,
		r.audit,
		r.log,
	)

	orderService := orders.NewService(orderRepo, r.seatService, r.audit, r.log)

	sweeper, err := carts.NewSweeper(cartRepo, r.clock, r.config.Cart.SweepInterval, r.log)
	if err != nil {
		return fmt.Errorf("failed to build cart sweeper: %w", err)
	}
	r.sweeper = sweeper

	api := engine.Group(r.config.GetAPIBasePath())
	{
		plans.SetupPlanRoutes(api, plans.NewController(planService), r.config)
		events.SetupEventRoutes(api, events.NewController(eventService), r.config)
		mappings.SetupMappingRoutes(api, mappings.NewController(mappingService), r.config)
		products.SetupProductRoutes(api, products.NewController(productService), r.config)
		seats.SetupSeatRoutes(api, seats.NewController(r.seatService), r.config)
		carts.SetupCartRoutes(api, carts.NewController(r.cartService), r.config)
		orders.SetupOrderRoutes(api, orders.NewController(orderService), r.config)
		vouchers.SetupVoucherRoutes(api, vouchers.NewController(vouchers.NewService(voucherRepo)), r.config)
	}
	return nil
}

// Sweeper exposes the cart sweeper so main can start and stop it with the
// server lifecycle.
func (r *Router) Sweeper() *carts.Sweeper {
	return r.sweeper
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatmap",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatmap",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
