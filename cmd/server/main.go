package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-wizard-service/internal/adapters/cache"
	"trip-wizard-service/internal/adapters/geocode"
	"trip-wizard-service/internal/adapters/kvstore"
	"trip-wizard-service/internal/adapters/orders"
	"trip-wizard-service/internal/adapters/repositories"
	"trip-wizard-service/internal/api"
	"trip-wizard-service/internal/config"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/platform/db"
	"trip-wizard-service/internal/platform/logging"
	"trip-wizard-service/internal/ports"
	"trip-wizard-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// storage bundles the adapters selected by store.backend.
type storage struct {
	kv     ports.KeyValueStore
	orders ports.OrderRepository
	places ports.PlaceCache
	close  func()
}

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if err := logging.Setup(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
		logrus.WithError(err).Fatal("setup logging")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg.Store)
	if err != nil {
		logrus.WithError(err).Fatal("open storage")
	}
	defer st.close()

	geocoder, err := newGeocoder(ctx, cfg.Geocode, st.places)
	if err != nil {
		logrus.WithError(err).Fatal("geocoder")
	}

	pricing := services.NewPricingEstimator(cfg.Pricing.RatePerKm)
	registry := services.NewWizardRegistry(ctx, cfg.WizardKinds(), func(kind domain.WizardKind) *services.WizardController {
		sessions := services.NewSessionStore(st.kv, kind)
		sessions.TTL = cfg.Session.TTL
		return services.NewWizardController(sessions, pricing, cfg.Session.SweepInterval)
	})
	defer registry.StopAll()

	submission := services.NewOrderSubmission(st.orders, orders.NewMockOrderService(nil))
	router := api.NewRouter(registry, submission, geocoder, st.orders)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("server shutdown")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":    srv.Addr,
		"backend": cfg.Store.Backend,
	}).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("server stopped")
	}
}

func openStorage(ctx context.Context, cfg config.StoreConfig) (*storage, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("open storage: ping redis %s: %w", cfg.RedisAddr, err)
		}
		kv := kvstore.NewRedisStore(client, "tripwiz:")
		return &storage{
			kv:     kv,
			orders: repositories.NewKVOrderRepository(kv),
			places: cache.NewMemoryPlaceCache(),
			close:  func() { _ = client.Close() },
		}, nil

	case "sqlite", "postgres":
		var (
			conn *sql.DB
			err  error
		)
		if cfg.Backend == "sqlite" {
			conn, err = db.OpenSQLite(cfg.SqlitePath)
		} else {
			conn, err = db.Open(cfg.DatabaseURL)
		}
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		if err := repositories.InitSchema(conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return &storage{
			kv:     kvstore.NewSQLStore(conn),
			orders: repositories.NewSQLOrderRepository(conn),
			places: cache.NewSQLPlaceCache(conn),
			close:  func() { _ = conn.Close() },
		}, nil

	default:
		kv := kvstore.NewMemoryStore()
		return &storage{
			kv:     kv,
			orders: repositories.NewKVOrderRepository(kv),
			places: cache.NewMemoryPlaceCache(),
			close:  func() {},
		}, nil
	}
}

// newGeocoder returns the ORS geocoder when a key is configured and the
// seeded mock otherwise. A missing seed file is not an error.
func newGeocoder(ctx context.Context, cfg config.GeocodeConfig, places ports.PlaceCache) (ports.Geocoder, error) {
	seeds, err := repositories.LoadPlaceSeeds(cfg.SeedPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.WithField("path", cfg.SeedPath).Info("no place seeds")
	case err != nil:
		return nil, err
	}

	if cfg.ORSAPIKey == "" {
		logrus.WithField("places", len(seeds)).Info("using mock geocoder")
		return geocode.NewMockGeocoder(seeds), nil
	}

	if len(seeds) > 0 {
		if err := repositories.SeedFromJSON(ctx, places, cfg.SeedPath); err != nil {
			return nil, err
		}
	}
	return geocode.NewORSGeocoder(cfg.ORSAPIKey, cfg.Country, places)
}
