package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
)

type closablePublisher interface {
	cart.Publisher
	Close() error
}

// app holds the wired backends for one process. close releases them in reverse order.
type app struct {
	cfg    config.Config
	logger zerolog.Logger

	products *catalog.Service
	carts    *cart.Service
	checks   []httpapi.Check

	closers []func() error
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.close()
		}
	}()

	var (
		store cart.Store
		repo  catalog.Repository
		seq   events.Sequencer = events.NewMemorySequencer()
	)

	switch cfg.Storage {
	case config.StorageMemory:
		store = cart.NewMemoryStore()
		repo = catalog.NewMemoryRepository(catalog.SeedProducts())

	case config.StorageFile:
		if err := os.MkdirAll(cfg.CartFileDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cart dir: %w", err)
		}
		store = cart.NewFileStore(osfs.New(cfg.CartFileDir))
		repo = catalog.NewMemoryRepository(catalog.SeedProducts())

	case config.StoragePostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error { pool.Close(); return nil })
		a.checks = append(a.checks, httpapi.Check{Name: "postgres", Probe: pool.Ping})
		store = cart.NewPostgresStore(pool)
		repo = catalog.NewPostgresRepository(pool)
		seq = events.NewPostgresSequencer(pool)

	case config.StorageMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error { return client.Disconnect(context.Background()) })
		a.checks = append(a.checks, httpapi.Check{Name: "mongo", Probe: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}})
		database := client.Database(cfg.MongoDatabase)
		store = cart.NewMongoStore(database)
		repo = catalog.NewMongoRepository(database)

	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedis(ctx, db.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		a.onClose(rdb.Close)
		a.checks = append(a.checks, httpapi.Check{Name: "redis", Probe: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		repo = catalog.NewCachedRepository(repo, rdb, cfg.CacheTTL, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("catalog cache enabled")
	}

	pub, err := newPublisher(cfg, seq, logger)
	if err != nil {
		return nil, err
	}
	a.onClose(pub.Close)
	if cp, ok := pub.(*connPublisher); ok {
		a.checks = append(a.checks, httpapi.Check{Name: "rabbitmq", Probe: cp.ping})
	}

	a.products = catalog.NewService(repo, logger)
	a.carts = cart.NewService(store, pub, logger)
	return a, nil
}

func newPublisher(cfg config.Config, seq events.Sequencer, logger zerolog.Logger) (closablePublisher, error) {
	if cfg.RabbitMQURL == "" {
		logger.Warn().Msg("RABBITMQ_URL not set, checkout events will only be logged")
		return events.NewNopPublisher(logger), nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	pub, err := events.NewRabbitPublisher(conn, seq, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &connPublisher{RabbitPublisher: pub, conn: conn}, nil
}

// connPublisher closes the AMQP connection after the channel.
type connPublisher struct {
	*events.RabbitPublisher
	conn *amqp.Connection
}

func (p *connPublisher) ping(context.Context) error {
	if p.conn.IsClosed() {
		return errors.New("amqp connection closed")
	}
	return nil
}

func (p *connPublisher) Close() error {
	return errors.Join(p.RabbitPublisher.Close(), p.conn.Close())
}

// seedIfEmpty loads the seed catalog into a fresh database.
func (a *app) seedIfEmpty(ctx context.Context) error {
	existing, err := a.products.List(ctx, catalog.Filter{})
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	return a.products.Seed(ctx, catalog.SeedProducts())
}
