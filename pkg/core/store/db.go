// Package store persists filing chunks, daily prices and price
// predictions to Postgres.
package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the shared connection pool. DATABASE_URL wins;
// otherwise the PG_HOST / PG_PORT / PG_USER / PG_PASSWORD / PG_DB
// variables are assembled into a connection string.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := connString(os.Getenv("DATABASE_URL"),
			os.Getenv("PG_HOST"), os.Getenv("PG_PORT"),
			os.Getenv("PG_USER"), os.Getenv("PG_PASSWORD"), os.Getenv("PG_DB"))
		if dbURL == "" {
			err = fmt.Errorf("set DATABASE_URL or the PG_HOST/PG_PORT/PG_USER/PG_PASSWORD/PG_DB variables")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// connString resolves the effective connection string. An explicit URL
// takes precedence; the split variables need at least host, user and
// database to form one.
func connString(dbURL, host, port, user, password, db string) string {
	if dbURL != "" {
		return dbURL
	}
	if host == "" || user == "" || db == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   host + ":" + port,
		Path:   "/" + db,
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

// GetPool returns the shared connection pool.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
