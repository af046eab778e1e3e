package plugin

import "sync"

// Future is the result of an asynchronous capability call. Continuations
// registered with Wait run through the runtime's Scheduler, so they land on
// the UI thread even when the work completed elsewhere.
type Future[T any] struct {
	post Scheduler

	mu      sync.Mutex
	done    bool
	value   T
	err     error
	pending []func()
}

// NewFuture returns an unresolved future with its resolve and reject
// functions. Only the first of them to be called has an effect.
func NewFuture[T any](post Scheduler) (f *Future[T], resolve func(T), reject func(error)) {
	if post == nil {
		post = Inline
	}
	f = &Future[T]{post: post}
	return f, func(v T) { f.settle(v, nil) }, func(err error) {
		var zero T
		f.settle(zero, err)
	}
}

// Resolved returns a future already resolved with v.
func Resolved[T any](post Scheduler, v T) *Future[T] {
	f, resolve, _ := NewFuture[T](post)
	resolve(v)
	return f
}

func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.value, f.err = v, err
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	for _, run := range pending {
		f.post(run)
	}
}

// Wait registers continuations. onError may be nil.
func (f *Future[T]) Wait(onResult func(T), onError func(error)) {
	run := func() {
		f.mu.Lock()
		v, err := f.value, f.err
		f.mu.Unlock()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onResult != nil {
			onResult(v)
		}
	}

	f.mu.Lock()
	if !f.done {
		f.pending = append(f.pending, run)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.post(run)
}

// Done reports whether the future has settled.
func (f *Future[T]) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
