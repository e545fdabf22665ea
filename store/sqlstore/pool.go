// Package sqlstore is the SQLite implementation of the store interfaces.
package sqlstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/teranos/ontograph/db"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/store"
)

// Pool bounds concurrent store handles. Each handle pins one connection.
type Pool struct {
	db      *sql.DB
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *zap.SugaredLogger
}

var _ store.Pool = (*Pool)(nil)

// NewPool creates a pool of at most maxConns handles over database. A zero
// timeout waits as long as the caller's context allows.
func NewPool(database *sql.DB, maxConns int, timeout time.Duration, log *zap.SugaredLogger) *Pool {
	if maxConns < 1 {
		maxConns = 1
	}
	database.SetMaxOpenConns(maxConns)
	return &Pool{
		db:      database,
		sem:     semaphore.NewWeighted(int64(maxConns)),
		timeout: timeout,
		logger:  log.Named("store.sqlstore"),
	}
}

// Acquire returns a store handle. The handle must be released.
func (p *Pool) Acquire(ctx context.Context) (store.Store, error) {
	acquireCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.sem.Acquire(acquireCtx, 1); err != nil {
		p.logger.Warnw("Store acquisition timed out", "timeout", p.timeout)
		return nil, errors.Mark(errors.Wrap(err, "wait for a free store"), errors.ErrStoreAcquisition)
	}
	conn, err := p.db.Conn(acquireCtx)
	if err != nil {
		p.sem.Release(1)
		// closed databases are not retryable
		if db.IsDatabaseClosed(err) {
			return nil, errors.WrapInternal(err, "open store connection")
		}
		return nil, errors.Mark(errors.Wrap(err, "open store connection"), errors.ErrStoreAcquisition)
	}

	s := &Store{conn: conn, logger: p.logger}
	s.release = sync.OnceFunc(func() {
		if err := conn.Close(); err != nil {
			p.logger.Warnw("Failed to return connection", logger.FieldError, err)
		}
		p.sem.Release(1)
	})
	return s, nil
}

// Close closes the underlying database.
func (p *Pool) Close() error {
	return errors.Wrap(p.db.Close(), "close database")
}
