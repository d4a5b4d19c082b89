package v8

// Maybe holds either a value (Just) or nothing. A Nothing result of a host
// API call means an exception was raised.
type Maybe[T any] struct {
	value T
	has   bool
}

// Just wraps v
func Just[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, has: true}
}

// Nothing returns the empty Maybe
func Nothing[T any]() Maybe[T] {
	return Maybe[T]{}
}

func (m Maybe[T]) IsJust() bool    { return m.has }
func (m Maybe[T]) IsNothing() bool { return !m.has }

// FromJust returns the value and panics on Nothing
func (m Maybe[T]) FromJust() T {
	if !m.has {
		panic("v8: FromJust called on Nothing")
	}
	return m.value
}

// FromMaybe returns the value, or def on Nothing
func (m Maybe[T]) FromMaybe(def T) T {
	if !m.has {
		return def
	}
	return m.value
}

// To returns the value and whether there is one
func (m Maybe[T]) To() (T, bool) {
	return m.value, m.has
}
