package react

// Reader is read access to a value that may live in a hook cell. Props can
// accept a Reader to take either a cell or a plain value.
type Reader[T any] interface {
	Current() T
}

// Static is a Reader over a plain value.
type Static[T any] struct {
	Value T
}

// Current returns s.Value.
func (s Static[T]) Current() T {
	return s.Value
}

var (
	_ Reader[int] = (*RefContainer[int])(nil)
	_ Reader[int] = (*State[int])(nil)
	_ Reader[int] = Static[int]{}
)
