package reactive

// Context passes a value down the owner tree without threading it through
// every component.
//
//	var Theme = reactive.CreateContext("light")
//
//	// in a provider's render
//	Theme.Provide("dark")
//
//	// in any descendant's render
//	theme := Theme.Use()
type Context[T any] struct {
	key          *contextKey
	defaultValue T
}

type contextKey struct{ _ byte }

// CreateContext creates a new context with the given default value.
func CreateContext[T any](defaultValue T) *Context[T] {
	return &Context[T]{
		key:          &contextKey{},
		defaultValue: defaultValue,
	}
}

// Provide sets the context value for the current owner and its descendants.
func (c *Context[T]) Provide(value T) {
	SetContext(c.key, value)
}

// Use returns the value from the nearest providing owner, or the default
// value when no owner provides one (including outside a render).
func (c *Context[T]) Use() T {
	if value, ok := c.Lookup(); ok {
		return value
	}
	return c.defaultValue
}

// Lookup returns the provided value and whether any owner provides one.
func (c *Context[T]) Lookup() (T, bool) {
	if value := GetContext(c.key); value != nil {
		if typed, ok := value.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
