package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-daily/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-daily/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-daily/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-daily/internal/adapters/visibility"
	"github.com/comitanigiacomo/kanso-daily/internal/config"
	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
	"github.com/comitanigiacomo/kanso-daily/internal/core/workers"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type noopPinger struct{}

func (noopPinger) Ping(ctx context.Context) error { return nil }

// App is the wired object graph shared by the server and the CLI.
type App struct {
	Config   config.Config
	Location *time.Location
	Store    domain.StateStore
	Health   pinger
	Redis    *redis.Client
	Bus      *visibility.Bus
	Registry *services.Registry
	Session  *services.Session

	closers []func() error
}

// New builds the graph from cfg. Extra notifiers receive every notice after
// the log and Redis ones.
func New(ctx context.Context, cfg config.Config, extra ...domain.Notifier) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Location: loc, Health: noopPinger{}}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	notifiers := notify.Multi{notify.LogNotifier{}}
	if cfg.RedisEnabled() {
		rdb, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("[CACHE] Redis unavailable, continuing without cache: %v", err)
		} else {
			a.Redis = rdb
			a.closers = append(a.closers, rdb.Close)
			a.Store = repository.NewCachedStateStore(a.Store, rdb, cfg.CacheTTL)
			notifiers = append(notifiers, notify.NewRedisNotifier(rdb, cfg.NoticeChannel))
		}
	}
	notifiers = append(notifiers, extra...)

	deps := services.TrackerDeps{
		Persistence: services.NewPersistence(a.Store),
		Clock:       domain.SystemClock{},
		Location:    loc,
		Notifier:    notifiers,
	}
	a.Registry = services.NewRegistry(domain.DefaultDefinitions(), deps)
	a.Bus = visibility.NewBus()
	worker := workers.NewMidnightWorker(a.Registry, deps.Clock, loc)
	a.Session = services.NewSession(a.Registry, a.Bus, worker)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config

	switch cfg.StoreDriver {
	case config.DriverMemory:
		a.Store = repository.NewInMemoryStateStore()

	case config.DriverSQLite:
		store, err := repository.OpenSQLiteStateStore(cfg.SQLitePath, cfg.StateTable)
		if err != nil {
			return err
		}
		a.Store, a.Health = store, store
		a.closers = append(a.closers, store.Close)

	case config.DriverPostgres:
		log.Println("Connecting to database...")
		db, err := repository.ConnectPostgres(cfg.DB.DSN())
		if err != nil {
			return err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		store := repository.NewPostgresStateStore(db, cfg.StateTable)
		a.closers = append(a.closers, store.Close)
		if err := repository.EnsurePostgresSchema(ctx, store); err != nil {
			return err
		}
		a.Store, a.Health = store, store
		log.Println("Database connected successfully.")

	default:
		return fmt.Errorf("%w: STORE_DRIVER %q", config.ErrInvalidConfig, cfg.StoreDriver)
	}
	return nil
}

// Close stops the session and releases connections in reverse order.
func (a *App) Close() {
	if a.Session != nil {
		a.Session.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("Close error: %v", err)
		}
	}
	a.closers = nil
}
