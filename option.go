package pvt

// Option is a tagged optional value. It is used for per-axis velocity arrays
// in which individual entries may be left unspecified and filled in by
// generation.
type Option[T any] struct {
	Valid bool
	Value T
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{Valid: true, Value: v}
}

// None returns an unset Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the held value and whether it is set.
func (opt Option[T]) Get() (T, bool) {
	return opt.Value, opt.Valid
}
