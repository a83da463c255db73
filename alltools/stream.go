// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"sync"
)

// ResponseStream is a pull-based iterator over values produced on another
// goroutine. The producer's error, if any, is returned by Next once every
// value it sent has been read.
//
// Callers must call Close when done, or use a context with cancellation.
// Close cancels the producer's context.
type ResponseStream[T any] struct {
	ch        <-chan T
	errCh     <-chan error
	cancel    context.CancelFunc
	closeOnce sync.Once
	err       error
}

// NewResponseStream runs producer on a new goroutine. The channel is closed
// when producer returns.
func NewResponseStream[T any](ctx context.Context, producer func(ctx context.Context, ch chan<- T) error) *ResponseStream[T] {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan T, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		if err := producer(ctx, ch); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	return &ResponseStream[T]{ch: ch, errCh: errCh, cancel: cancel}
}

// StreamOf returns a stream that yields values and then err.
func StreamOf[T any](ctx context.Context, err error, values ...T) *ResponseStream[T] {
	return NewResponseStream(ctx, func(ctx context.Context, ch chan<- T) error {
		for _, v := range values {
			select {
			case ch <- v:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return err
	})
}

// Next returns the next value. ok is false once the stream is exhausted, at
// which point err carries the producer's error.
func (s *ResponseStream[T]) Next(ctx context.Context) (val T, ok bool, err error) {
	select {
	case <-ctx.Done():
		return val, false, ctx.Err()
	case v, open := <-s.ch:
		if open {
			return v, true, nil
		}
		if e, received := <-s.errCh; received {
			s.err = e
		}
		return val, false, s.err
	}
}

// Collect drains the stream and returns every value read before the end or
// the first error.
func (s *ResponseStream[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T
	for {
		val, ok, err := s.Next(ctx)
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, val)
	}
}

// Err returns the producer error observed so far.
func (s *ResponseStream[T]) Err() error { return s.err }

// Close cancels the producer and releases resources.
// Safe to call multiple times.
func (s *ResponseStream[T]) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		for range s.ch {
		}
		if e, received := <-s.errCh; received && s.err == nil {
			s.err = e
		}
	})
	return nil
}
