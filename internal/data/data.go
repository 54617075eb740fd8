package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-shortlink/internal/conf"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewAliasCache, NewAliasStore, NewClickLog)

// DriverMemory keeps aliases and clicks in process memory.
const DriverMemory = "memory"

const (
	defaultCacheTTL = 10 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Data holds the shared storage handles. db is nil for the memory driver and
// rdb is nil when no cache is configured or Redis is unreachable.
type Data struct {
	db       *sql.DB
	dialect  string
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewData opens the configured database, applies migrations and connects the cache.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data"))
	d := &Data{cacheTTL: defaultCacheTTL}

	driver := DriverMemory
	if c != nil && c.Database != nil && c.Database.Driver != "" {
		driver = c.Database.Driver
	}

	switch driver {
	case DriverMemory:
		helper.Info("using in-memory alias store and click log")
	case dialect.SQLite, dialect.Postgres:
		db, err := openDB(driver, c.Database.Source)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(db, driver); err != nil {
			db.Close()
			return nil, nil, err
		}
		d.db = db
		d.dialect = driver
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if c != nil && c.Redis != nil && c.Redis.Addr != "" {
		d.rdb = openRedis(c.Redis, helper)
		if ttl := c.Redis.CacheTtl.AsDuration(); ttl > 0 {
			d.cacheTTL = ttl
		}
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		if d.db != nil {
			if err := d.db.Close(); err != nil {
				helper.Error(err)
			}
		}
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				helper.Error(err)
			}
		}
	}

	return d, cleanup, nil
}

func openDB(driver, source string) (*sql.DB, error) {
	drv, err := entsql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db := drv.DB()

	// SQLite has a single writer.
	if driver == dialect.SQLite {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return db, nil
}

func openRedis(c *conf.Data_Redis, helper *log.Helper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.Db,
		ReadTimeout:  c.ReadTimeout.AsDuration(),
		WriteTimeout: c.WriteTimeout.AsDuration(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		helper.Warnf("redis at %s unreachable, alias cache disabled: %v", c.Addr, err)
		rdb.Close()
		return nil
	}
	return rdb
}
