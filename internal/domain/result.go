package domain

// ResultKind distinguishes a successful load with data from a successful
// load that found nothing, and from a failed load.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultEmpty
	ResultError
)

// Result carries repository output without collapsing failures into empty
// values.
type Result[T any] struct {
	Kind  ResultKind
	Value T
	Err   error
}

func Success[T any](v T) Result[T] {
	return Result[T]{Kind: ResultSuccess, Value: v}
}

func Empty[T any]() Result[T] {
	return Result[T]{Kind: ResultEmpty}
}

func Failure[T any](err error) Result[T] {
	return Result[T]{Kind: ResultError, Err: err}
}

// SliceResult returns Empty for a zero-length slice and Success otherwise.
func SliceResult[T any](v []T) Result[[]T] {
	if len(v) == 0 {
		return Empty[[]T]()
	}
	return Success(v)
}

func (r Result[T]) OK() bool      { return r.Kind != ResultError }
func (r Result[T]) IsEmpty() bool { return r.Kind == ResultEmpty }

// Unwrap returns the value (zero for Empty) and the error, if any.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}
