// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds how many functions run at once
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// Run executes all functions and returns the first error. The first failure
// cancels the context handed to functions that have not started yet.
func (wp *WorkerPool) Run(ctx context.Context, functions ...func(ctx context.Context) error) error {
	if len(functions) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return fn(groupCtx)
		})
	}

	return g.Wait()
}

// RunAll executes every function regardless of failures and returns the
// non-nil errors in submission order.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	results := make([]error, len(functions))
	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for i, fn := range functions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = fn()
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Map applies fn to every item with at most workerCount calls in flight and
// returns the results in input order. fn must handle ctx cancellation itself.
func Map[T, R any](ctx context.Context, wp *WorkerPool, items []T, fn func(ctx context.Context, item T) R) []R {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out
	}

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)
	for i, item := range items {
		g.Go(func() error {
			out[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
