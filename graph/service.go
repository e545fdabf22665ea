// Package graph is the entry point for structural queries and record
// mutations. It validates input, acquires a store from the pool and runs
// the operation against it.
package graph

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/ontograph/errors"
	grapherr "github.com/teranos/ontograph/graph/error"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/types"
)

// DefaultMaxResolveDepth caps every edge depth of a structural query.
const DefaultMaxResolveDepth uint8 = 255

// Service runs queries and mutations against a store pool.
type Service struct {
	pool      store.Pool
	validator atomic.Pointer[types.Validator]
	maxDepth  uint8
	logger    *zap.SugaredLogger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxResolveDepth caps the resolve depths of every structural query.
func WithMaxResolveDepth(depth uint8) Option {
	return func(s *Service) {
		s.maxDepth = depth
	}
}

// NewService creates a service over pool. validator checks every record
// before a store is acquired.
func NewService(pool store.Pool, validator *types.Validator, log *zap.SugaredLogger, opts ...Option) *Service {
	s := &Service{
		pool:     pool,
		maxDepth: DefaultMaxResolveDepth,
		logger:   log.Named("graph.service"),
	}
	s.validator.Store(validator)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetValidator swaps the validator, e.g. after the domain pattern changed.
func (s *Service) SetValidator(v *types.Validator) {
	s.validator.Store(v)
}

// withStore acquires a store, runs fn and releases the store.
func (s *Service) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer st.Release()
	return fn(st)
}

func (s *Service) validate(records ...types.Record) error {
	v := s.validator.Load()
	if v == nil {
		return nil
	}
	for _, r := range records {
		if err := v.Validate(r); err != nil {
			return err
		}
	}
	return nil
}

// fail logs err with its classification and returns it unchanged.
func (s *Service) fail(operation string, err error) error {
	ge := grapherr.Classify(err)
	fields := append([]interface{}{"operation", operation}, ge.ToLogFields()...)
	if ge.Category == grapherr.CategoryInternal {
		s.logger.Errorw("Operation failed", append(fields, "stack", errors.GetStack(err))...)
	} else {
		s.logger.Debugw("Operation rejected", fields...)
	}
	return err
}
