package vdom

import (
	"fmt"
	"reflect"
	"sort"

	vserr "github.com/vango-dev/vstore/internal/errors"
)

// PropType declares the expected type of a single prop.
type PropType struct {
	name     string
	required bool
	check    func(any) bool
}

// PropTypes maps prop names to their declared types.
type PropTypes map[string]PropType

// IsRequired returns a copy of the prop type that rejects absent values.
func (p PropType) IsRequired() PropType {
	p.required = true
	return p
}

// Required reports whether the prop must be present.
func (p PropType) Required() bool {
	return p.required
}

// String returns the type name used in validation messages.
func (p PropType) String() string {
	return p.name
}

func kindCheck(kinds ...reflect.Kind) func(any) bool {
	return func(v any) bool {
		k := reflect.TypeOf(v).Kind()
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

var (
	String = PropType{name: "string", check: kindCheck(reflect.String)}
	Bool   = PropType{name: "bool", check: kindCheck(reflect.Bool)}
	Int    = PropType{name: "int", check: kindCheck(
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	)}
	Number = PropType{name: "number", check: kindCheck(
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
	)}
	Func  = PropType{name: "func", check: kindCheck(reflect.Func)}
	Map   = PropType{name: "map", check: kindCheck(reflect.Map)}
	Slice = PropType{name: "slice", check: kindCheck(reflect.Slice, reflect.Array)}
	Any   = PropType{name: "any", check: func(any) bool { return true }}
)

// OneOf accepts only the listed values.
func OneOf(values ...any) PropType {
	return PropType{
		name: fmt.Sprintf("oneOf%v", values),
		check: func(v any) bool {
			for _, allowed := range values {
				if reflect.DeepEqual(v, allowed) {
					return true
				}
			}
			return false
		},
	}
}

// InstanceOf accepts values assignable to T.
func InstanceOf[T any]() PropType {
	name := reflect.TypeOf((*T)(nil)).Elem().String()
	return PropType{
		name: name,
		check: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
	}
}

// ValidateProps checks props against the component's PropTypes and returns
// one error per violation, ordered by prop name.
func ValidateProps(t *ComponentType, props Props) []error {
	if t == nil || len(t.PropTypes) == 0 {
		return nil
	}

	names := make([]string, 0, len(t.PropTypes))
	for name := range t.PropTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		pt := t.PropTypes[name]
		v := props.Get(name)
		if v == nil {
			if pt.required {
				errs = append(errs, vserr.New("S004").
					WithDetailf("prop %q is required by %s", name, t.ComponentName()))
			}
			continue
		}
		if pt.check != nil && !pt.check(v) {
			errs = append(errs, vserr.New("S003").
				WithDetailf("prop %q of %s: got %T, want %s", name, t.ComponentName(), v, pt.name))
		}
	}
	return errs
}
