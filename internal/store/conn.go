// Package store owns the lifecycle of the single database handle shared by
// all repositories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"mediwallet/internal/domain"
)

// Opener opens a database and brings its schema up to date.
type Opener func(ctx context.Context) (*sql.DB, error)

// Conn is an explicitly owned database handle with lazy initialization.
type Conn struct {
	open   Opener
	logger *slog.Logger

	mu    sync.RWMutex
	db    *sql.DB
	group singleflight.Group
}

func NewConn(open Opener, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{open: open, logger: logger}
}

// Initialize opens the database if it is not open yet. Concurrent callers
// share a single open attempt; later calls are no-ops.
func (c *Conn) Initialize(ctx context.Context) error {
	if c.current() != nil {
		return nil
	}
	_, err, _ := c.group.Do("init", func() (any, error) {
		if c.current() != nil {
			return nil, nil
		}
		db, err := c.open(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
		c.logger.Debug("database initialized")
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// DB returns the open handle or ErrStoreUnavailable.
func (c *Conn) DB() (*sql.DB, error) {
	if db := c.current(); db != nil {
		return db, nil
	}
	return nil, fmt.Errorf("%w: database not initialized", domain.ErrStoreUnavailable)
}

// Write runs fn against the handle, initializing it on demand. A lost
// connection triggers exactly one reinitialize-and-retry.
func (c *Conn) Write(ctx context.Context, fn func(db *sql.DB) error) error {
	if err := c.Initialize(ctx); err != nil {
		return err
	}
	db, err := c.DB()
	if err != nil {
		return err
	}
	err = fn(db)
	if err == nil || !IsConnectionLost(err) {
		return err
	}

	c.logger.Warn("database connection lost, reinitializing", "error", err)
	c.reset(db)
	if err := c.Initialize(ctx); err != nil {
		return err
	}
	if db, err = c.DB(); err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return fmt.Errorf("retry after reconnect: %w", err)
	}
	return nil
}

// Close closes the handle. A closed Conn can be initialized again.
func (c *Conn) Close() error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

func (c *Conn) current() *sql.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// reset drops failed if it is still the current handle.
func (c *Conn) reset(failed *sql.DB) {
	c.mu.Lock()
	if c.db == failed {
		c.db = nil
	}
	c.mu.Unlock()
	_ = failed.Close()
}

// IsConnectionLost reports whether err means the handle is unusable.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "not open") ||
		strings.Contains(msg, "connection is closed") ||
		strings.Contains(msg, "conn closed")
}
