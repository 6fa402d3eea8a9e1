package store

import (
	"errors"
	"reflect"
	"testing"

	vserr "github.com/vango-dev/vstore/internal/errors"
)

func TestStateMerge(t *testing.T) {
	tests := []struct {
		name    string
		current State
		partial State
		want    State
	}{
		{"overwrite and add", State{"a": 1, "b": 2}, State{"b": 3, "c": 4}, State{"a": 1, "b": 3, "c": 4}},
		{"empty partial", State{"a": 1}, State{}, State{"a": 1}},
		{"nil partial", State{"a": 1}, nil, State{"a": 1}},
		{"nil current", nil, State{"a": 1}, State{"a": 1}},
		{"explicit nil value", State{"a": 1}, State{"a": nil}, State{"a": nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.current.Clone()
			got := tt.current.Merge(tt.partial)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(tt.current.Clone(), before) {
				t.Errorf("Merge modified current: %v", tt.current)
			}
		})
	}
}

func TestStateKeys(t *testing.T) {
	got := State{"b": 1, "a": 2, "c": 3}.Keys()
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if got := State(nil).Keys(); len(got) != 0 {
		t.Errorf("nil Keys() = %v", got)
	}
}

func TestParseUpdater(t *testing.T) {
	cur := State{"n": 1}

	tests := []struct {
		name    string
		in      any
		want    State
		wantErr bool
	}{
		{"state", State{"n": 2}, State{"n": 2}, false},
		{"plain map", map[string]any{"n": 3}, State{"n": 3}, false},
		{"update func", UpdateFunc(func(s State) State { return State{"n": s["n"].(int) + 1} }), State{"n": 2}, false},
		{"func of state", func(s State) State { return State{"m": s["n"]} }, State{"m": 1}, false},
		{"func of map", func(m map[string]any) map[string]any { return map[string]any{"k": m["n"]} }, State{"k": 1}, false},
		{"nil", nil, nil, true},
		{"nil update func", UpdateFunc(nil), nil, true},
		{"string", "n=2", nil, true},
		{"int", 42, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUpdater(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUpdater) {
					t.Fatalf("err = %v, want ErrInvalidUpdater", err)
				}
				var se *vserr.StoreError
				if !errors.As(err, &se) || se.Code != "S001" {
					t.Errorf("err = %#v, want S001", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := u.resolve(cur); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	got := Set("k", "v").resolve(nil)
	if !reflect.DeepEqual(got, State{"k": "v"}) {
		t.Errorf("Set() = %v", got)
	}
}
