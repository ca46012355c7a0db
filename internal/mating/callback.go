package mating

import "sync/atomic"

// CallbackHandle wraps a user-supplied callback of type T with a
// reference count, mirroring the acquire/release discipline the
// simuPOP original gives its Python callback objects (Py_INCREF /
// Py_DECREF around a pyFunc held across a run). Go has no refcounted
// objects, so Clone/Release here exist to make a scheme's "own a
// callback for the duration of the run, share it with sub-schemes that
// outlive a single Mate() call" lifetime explicit and checkable in
// tests rather than implicit in whoever happens to hold a pointer.
type CallbackHandle[T any] struct {
	fn  T
	ref *atomic.Int32
}

// NewCallbackHandle wraps fn with an initial reference count of one.
func NewCallbackHandle[T any](fn T) *CallbackHandle[T] {
	ref := &atomic.Int32{}
	ref.Store(1)
	return &CallbackHandle[T]{fn: fn, ref: ref}
}

// Clone increments the shared reference count and returns a new handle
// over the same callback and counter.
func (h *CallbackHandle[T]) Clone() *CallbackHandle[T] {
	h.ref.Add(1)
	return &CallbackHandle[T]{fn: h.fn, ref: h.ref}
}

// Release decrements the shared reference count. It is safe to call at
// most once per handle returned by NewCallbackHandle or Clone.
func (h *CallbackHandle[T]) Release() {
	h.ref.Add(-1)
}

// Released reports whether every handle sharing this callback's
// reference count has been released.
func (h *CallbackHandle[T]) Released() bool {
	return h.ref.Load() <= 0
}

// Func returns the wrapped callback.
func (h *CallbackHandle[T]) Func() T {
	return h.fn
}
